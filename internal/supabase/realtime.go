package supabase

import (
	"fmt"

	"gallery-backend/internal/models"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Supabase Go client has no direct Realtime publish. Database writes
	// trigger Realtime automatically; this stays as the seam for explicit
	// event publishing via the Realtime REST API.
	return nil
}

// PublishDraftEvent publishes an upload-lifecycle event on the per-draft
// channel the admin UI subscribes to.
func (r *RealtimeClient) PublishDraftEvent(draftID string, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("draft:%s", draftID)
	return r.PublishEvent(channel, event, payload)
}

func (r *RealtimeClient) PublishProductEvent(productID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("product:%s", productID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func UploadStartedPayload(draftID string, fileCount int) map[string]interface{} {
	return map[string]interface{}{
		"draft_id":   draftID,
		"status":     "uploading",
		"file_count": fileCount,
	}
}

func UploadProgressPayload(draftID string, progress models.UploadProgress) map[string]interface{} {
	return map[string]interface{}{
		"draft_id":       draftID,
		"status":         "uploading",
		"file_index":     progress.FileIndex,
		"total_files":    progress.TotalFiles,
		"uploaded_bytes": progress.UploadedBytes,
		"total_bytes":    progress.TotalBytes,
		"file_percent":   progress.FilePercent,
		"bytes_percent":  progress.BytesPercent,
	}
}

func UploadCompletedPayload(draftID string, fileCount int) map[string]interface{} {
	return map[string]interface{}{
		"draft_id":   draftID,
		"status":     "drafted",
		"file_count": fileCount,
	}
}

func UploadFailedPayload(draftID string, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"draft_id": draftID,
		"status":   "failed",
		"error":    errorMsg,
	}
}

func DraftDiscardedPayload(draftID string) map[string]interface{} {
	return map[string]interface{}{
		"draft_id": draftID,
		"status":   "discarded",
	}
}

func DraftExpiredPayload(draftID string) map[string]interface{} {
	return map[string]interface{}{
		"draft_id": draftID,
		"status":   "expired",
	}
}

func DraftCommittedPayload(draftID string, productID uuid.UUID, fileCount int) map[string]interface{} {
	return map[string]interface{}{
		"draft_id":   draftID,
		"product_id": productID.String(),
		"status":     "committed",
		"file_count": fileCount,
	}
}
