package models

import "time"

// StagedImage is one uploaded file held under a draft prefix. It is never
// mutated in place; commit or discard ends its life.
type StagedImage struct {
	StoragePath string `json:"storage_path"`
	SortOrder   int    `json:"sort_order"`
}

// CommittedImage is a staged image relocated under the permanent product
// prefix and registered in product_images.
type CommittedImage struct {
	StoragePath string `json:"storage_path"`
	SortOrder   int    `json:"sort_order"`
}

// DraftSession is an uncommitted upload batch with a time-boxed life.
type DraftSession struct {
	DraftID   string        `json:"draft_id"`
	Files     []StagedImage `json:"files"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// UploadProgress is the batch-level progress snapshot recomputed on every
// transport tick. Not persisted.
type UploadProgress struct {
	FileIndex     int   `json:"file_index"`
	TotalFiles    int   `json:"total_files"`
	UploadedBytes int64 `json:"uploaded_bytes"`
	TotalBytes    int64 `json:"total_bytes"`
	FilePercent   int   `json:"file_percent"`
	BytesPercent  int   `json:"bytes_percent"`
}
