package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"time"

	"gallery-backend/internal/config"
	"gallery-backend/internal/models"
	"gallery-backend/internal/supabase"

	"github.com/google/uuid"
)

// FileInput is one file of an upload batch. Open is called once per upload
// attempt so a retried transfer reads the body from the start.
type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type draftState struct {
	session  models.DraftSession
	timer    *time.Timer
	progress models.UploadProgress
	busy     bool
}

// DraftManager owns the staged-upload lifecycle: validation, sequential
// signed-URL uploads with batch progress, the TTL timer per draft, and the
// discard/expiry cleanup paths. Commit lives in commit.go.
type DraftManager struct {
	store     ObjectStore
	images    ImageStore
	transport UploadTransport
	events    EventPublisher

	maxImages      int
	maxImageSize   int64
	ttl            time.Duration
	retryAttempts  int
	retryBaseDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*draftState
	onExpire func(draftID string)
	now      func() time.Time
	sleep    func(time.Duration)
}

func NewDraftManager(store ObjectStore, images ImageStore, transport UploadTransport, events EventPublisher, cfg *config.Config) *DraftManager {
	return &DraftManager{
		store:          store,
		images:         images,
		transport:      transport,
		events:         events,
		maxImages:      cfg.MaxProductImages,
		maxImageSize:   cfg.MaxImageSizeBytes,
		ttl:            cfg.DraftTTL,
		retryAttempts:  cfg.RetryAttempts,
		retryBaseDelay: cfg.RetryBaseDelay,
		sessions:       make(map[string]*draftState),
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

// OnExpire registers a callback invoked after a draft's TTL cleanup ran.
func (m *DraftManager) OnExpire(fn func(draftID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

// Stage validates and uploads one batch. committedCount is how many images
// the target product already has; the batch is rejected outright when it
// would not fit the remaining slots. On success the batch becomes a draft
// with a fresh id and a running TTL timer. The batch is atomic: a file
// failing after the retry budget rolls back everything staged so far.
func (m *DraftManager) Stage(ctx context.Context, committedCount int, files []FileInput) (*models.DraftSession, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files selected", ErrValidationFailed)
	}
	remaining := m.maxImages - committedCount
	if remaining < 0 {
		remaining = 0
	}
	if len(files) > remaining {
		return nil, fmt.Errorf("%w: you can upload up to %d images per product", ErrValidationFailed, m.maxImages)
	}
	for _, file := range files {
		if file.Size > m.maxImageSize {
			return nil, fmt.Errorf("%w: each image must be %d bytes or smaller", ErrValidationFailed, m.maxImageSize)
		}
	}

	draftID := uuid.New().String()
	totalFiles := len(files)
	var totalBytes int64
	for _, file := range files {
		totalBytes += file.Size
	}

	// Register the session up front, marked busy, so progress is pollable
	// while the batch is in flight and no discard can interleave.
	m.mu.Lock()
	state := &draftState{
		session: models.DraftSession{DraftID: draftID, CreatedAt: m.now()},
		busy:    true,
	}
	state.progress = batchProgress(0, totalFiles, 0, totalBytes, 0, 0)
	m.sessions[draftID] = state
	m.mu.Unlock()

	m.publish(draftID, "upload_started", supabase.UploadStartedPayload(draftID, totalFiles))

	var uploadedBytes int64
	staged := make([]models.StagedImage, 0, totalFiles)
	stagedPaths := make([]string, 0, totalFiles)

	for index, file := range files {
		path := fmt.Sprintf("products/drafts/%s/%s-%s", draftID, uuid.New().String(), file.Filename)

		err := m.uploadWithRetry(ctx, draftID, path, file, index, totalFiles, uploadedBytes, totalBytes)
		if err != nil {
			// Roll back everything staged in this batch, including the
			// possibly partially-visible current path.
			if cleanupErr := m.store.RemoveObjects(append(append([]string{}, stagedPaths...), path)); cleanupErr != nil {
				log.Printf("Cleanup after failed upload of %s did not complete: %v", file.Filename, cleanupErr)
			}
			m.mu.Lock()
			delete(m.sessions, draftID)
			m.mu.Unlock()
			m.publish(draftID, "upload_failed", supabase.UploadFailedPayload(draftID, err.Error()))
			return nil, err
		}

		uploadedBytes += file.Size
		m.setProgress(draftID, batchProgress(index+1, totalFiles, uploadedBytes, totalBytes, 0, 0))
		staged = append(staged, models.StagedImage{StoragePath: path, SortOrder: index})
		stagedPaths = append(stagedPaths, path)
	}

	m.mu.Lock()
	state.session.Files = staged
	state.session.ExpiresAt = state.session.CreatedAt.Add(m.ttl)
	state.progress = batchProgress(totalFiles, totalFiles, totalBytes, totalBytes, 0, 0)
	state.timer = time.AfterFunc(m.ttl, func() { m.expire(draftID) })
	state.busy = false
	session := state.session
	session.Files = append([]models.StagedImage(nil), staged...)
	m.mu.Unlock()

	m.publish(draftID, "upload_completed", supabase.UploadCompletedPayload(draftID, totalFiles))

	result := session
	return &result, nil
}

// uploadWithRetry issues a fresh signed URL and transfers the file, retrying
// the whole pair with doubling backoff up to the configured budget.
func (m *DraftManager) uploadWithRetry(ctx context.Context, draftID, path string, file FileInput, index, totalFiles int, uploadedBytes, totalBytes int64) error {
	var lastErr error
	for attempt := 0; attempt < m.retryAttempts; attempt++ {
		if attempt > 0 {
			m.sleep(m.retryBaseDelay * (1 << (attempt - 1)))
		}

		signedURL, err := m.store.CreateSignedUploadURL(path)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
			continue
		}

		body, err := file.Open()
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to open %s: %v", ErrTransferFailed, file.Filename, err)
			continue
		}

		err = m.transport.Upload(ctx, signedURL, file.ContentType, body, file.Size, func(sent int64) {
			progress := batchProgress(index, totalFiles, uploadedBytes, totalBytes, sent, file.Size)
			progress.FileIndex = index + 1
			m.setProgress(draftID, progress)
			m.publish(draftID, "upload_progress", supabase.UploadProgressPayload(draftID, progress))
		})
		body.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to upload %s after %d attempts: %w", file.Filename, m.retryAttempts, lastErr)
}

// Discard removes a draft's staged objects and forgets the session. Unknown
// draft ids are a no-op, so a second discard of the same draft succeeds.
func (m *DraftManager) Discard(ctx context.Context, draftID string) error {
	m.mu.Lock()
	state, ok := m.sessions[draftID]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	if state.busy {
		m.mu.Unlock()
		return ErrDraftBusy
	}
	state.busy = true
	paths := sessionPaths(state.session)
	m.mu.Unlock()

	if err := m.store.RemoveObjects(paths); err != nil {
		m.mu.Lock()
		state.busy = false
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrCleanupFailed, err)
	}

	m.drop(draftID)
	m.publish(draftID, "draft_discarded", supabase.DraftDiscardedPayload(draftID))
	return nil
}

// RemoveStaged drops one staged image from a draft before commit. Removing
// the last image closes the session.
func (m *DraftManager) RemoveStaged(ctx context.Context, draftID, storagePath string) error {
	m.mu.Lock()
	state, ok := m.sessions[draftID]
	if !ok {
		m.mu.Unlock()
		return ErrDraftNotFound
	}
	if state.busy {
		m.mu.Unlock()
		return ErrDraftBusy
	}
	found := false
	for _, file := range state.session.Files {
		if file.StoragePath == storagePath {
			found = true
			break
		}
	}
	if !found {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s not staged under draft %s", ErrValidationFailed, storagePath, draftID)
	}
	state.busy = true
	m.mu.Unlock()

	if err := m.store.RemoveObjects([]string{storagePath}); err != nil {
		m.mu.Lock()
		state.busy = false
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrCleanupFailed, err)
	}

	m.mu.Lock()
	files := state.session.Files[:0]
	for _, file := range state.session.Files {
		if file.StoragePath != storagePath {
			files = append(files, file)
		}
	}
	state.session.Files = files
	state.busy = false
	empty := len(files) == 0
	if empty {
		if state.timer != nil {
			state.timer.Stop()
		}
		delete(m.sessions, draftID)
	}
	m.mu.Unlock()
	return nil
}

// Session returns a snapshot of a live draft.
func (m *DraftManager) Session(draftID string) (*models.DraftSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[draftID]
	if !ok {
		return nil, false
	}
	session := state.session
	session.Files = append([]models.StagedImage(nil), state.session.Files...)
	return &session, true
}

// Has reports whether a draft id is currently registered.
func (m *DraftManager) Has(draftID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[draftID]
	return ok
}

// Progress returns the last progress snapshot for a draft.
func (m *DraftManager) Progress(draftID string) (models.UploadProgress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[draftID]
	if !ok {
		return models.UploadProgress{}, false
	}
	return state.progress, true
}

func (m *DraftManager) expire(draftID string) {
	m.mu.Lock()
	state, ok := m.sessions[draftID]
	if !ok || state.busy {
		// A commit or discard in flight wins over the timer.
		m.mu.Unlock()
		return
	}
	paths := sessionPaths(state.session)
	delete(m.sessions, draftID)
	m.mu.Unlock()

	if err := m.store.RemoveObjects(paths); err != nil {
		log.Printf("Expiry cleanup for draft %s did not complete: %v", draftID, err)
	}
	m.publish(draftID, "draft_expired", supabase.DraftExpiredPayload(draftID))

	m.mu.Lock()
	onExpire := m.onExpire
	m.mu.Unlock()
	if onExpire != nil {
		onExpire(draftID)
	}
}

func (m *DraftManager) drop(draftID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.sessions[draftID]; ok {
		if state.timer != nil {
			state.timer.Stop()
		}
		delete(m.sessions, draftID)
	}
}

func (m *DraftManager) setProgress(draftID string, progress models.UploadProgress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.sessions[draftID]; ok {
		state.progress = progress
	}
}

func (m *DraftManager) publish(draftID, event string, payload map[string]interface{}) {
	if m.events == nil {
		return
	}
	if err := m.events.PublishDraftEvent(draftID, event, payload); err != nil {
		log.Printf("Failed to publish %s for draft %s: %v", event, draftID, err)
	}
}

func sessionPaths(session models.DraftSession) []string {
	paths := make([]string, 0, len(session.Files))
	for _, file := range session.Files {
		paths = append(paths, file.StoragePath)
	}
	return paths
}

// batchProgress computes the aggregate snapshot. completedFiles counts fully
// uploaded files; currentSent/currentSize describe the file in flight (zero
// when between files).
func batchProgress(completedFiles, totalFiles int, uploadedBytes, totalBytes, currentSent, currentSize int64) models.UploadProgress {
	progress := models.UploadProgress{
		FileIndex:     completedFiles,
		TotalFiles:    totalFiles,
		UploadedBytes: uploadedBytes + currentSent,
		TotalBytes:    totalBytes,
	}
	if totalBytes > 0 {
		progress.BytesPercent = int(math.Round(float64(progress.UploadedBytes) / float64(totalBytes) * 100))
	}
	if totalFiles > 0 {
		fraction := float64(completedFiles)
		if currentSize > 0 {
			fraction += float64(currentSent) / float64(currentSize)
		}
		progress.FilePercent = int(math.Round(fraction / float64(totalFiles) * 100))
	}
	return progress
}
