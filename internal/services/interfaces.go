package services

import (
	"context"
	"io"

	"gallery-backend/internal/models"

	"github.com/google/uuid"
)

// ObjectStore is the slice of the storage client the draft lifecycle needs.
type ObjectStore interface {
	CreateSignedUploadURL(path string) (string, error)
	RemoveObjects(paths []string) error
	MoveObject(from, to string) error
}

// ImageStore registers committed images for a product.
type ImageStore interface {
	InsertProductImages(productID uuid.UUID, images []models.CommittedImage) error
}

// UploadTransport transfers one file body to a signed URL, reporting sent
// bytes as it goes.
type UploadTransport interface {
	Upload(ctx context.Context, signedURL, contentType string, body io.Reader, size int64, onProgress func(sent int64)) error
}

// EventPublisher receives draft lifecycle events. *supabase.RealtimeClient
// satisfies it.
type EventPublisher interface {
	PublishDraftEvent(draftID string, event string, payload map[string]interface{}) error
}
