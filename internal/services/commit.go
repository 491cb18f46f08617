package services

import (
	"context"
	"fmt"
	"log"
	"path"
	"sort"

	"gallery-backend/internal/models"
	"gallery-backend/internal/supabase"

	"github.com/google/uuid"
)

// Commit relocates a draft's staged objects under the permanent product
// prefix and registers them in product_images. All-or-nothing at the
// image-set level: any move or registration failure rolls back by deleting
// the moved targets and any still-staged sources before the error is
// returned. The caller is expected to delete the just-created product row on
// failure so no ghost product survives. baseSortOrder offsets the assigned
// positions when the product already has committed images.
func (m *DraftManager) Commit(ctx context.Context, draftID string, productID uuid.UUID, baseSortOrder int) ([]models.CommittedImage, error) {
	m.mu.Lock()
	state, ok := m.sessions[draftID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	if state.busy {
		m.mu.Unlock()
		return nil, ErrDraftBusy
	}
	state.busy = true
	staged := append([]models.StagedImage(nil), state.session.Files...)
	m.mu.Unlock()

	sort.Slice(staged, func(i, j int) bool { return staged[i].SortOrder < staged[j].SortOrder })

	committed := make([]models.CommittedImage, 0, len(staged))
	movedPaths := make([]string, 0, len(staged))

	for index, image := range staged {
		// The trailing {randomId}-{filename} segment survives the move, so
		// the object keeps the name it was staged under.
		fileName := path.Base(image.StoragePath)
		target := fmt.Sprintf("products/%s/%s", productID.String(), fileName)

		if image.StoragePath != target {
			if err := m.store.MoveObject(image.StoragePath, target); err != nil {
				m.rollbackCommit(draftID, movedPaths, staged[index:])
				return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
			}
		}
		movedPaths = append(movedPaths, target)
		committed = append(committed, models.CommittedImage{StoragePath: target, SortOrder: baseSortOrder + index})
	}

	if err := m.images.InsertProductImages(productID, committed); err != nil {
		if cleanupErr := m.store.RemoveObjects(movedPaths); cleanupErr != nil {
			log.Printf("Cleanup after failed image registration for draft %s did not complete: %v", draftID, cleanupErr)
		}
		m.mu.Lock()
		if state, ok := m.sessions[draftID]; ok {
			if state.timer != nil {
				state.timer.Stop()
			}
			delete(m.sessions, draftID)
		}
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	m.drop(draftID)
	m.publish(draftID, "draft_committed", supabase.DraftCommittedPayload(draftID, productID, len(committed)))
	return committed, nil
}

// rollbackCommit deletes the targets moved so far plus the sources that were
// never moved, then forgets the session; nothing of the draft remains either
// way.
func (m *DraftManager) rollbackCommit(draftID string, movedPaths []string, remaining []models.StagedImage) {
	paths := append([]string{}, movedPaths...)
	for _, image := range remaining {
		paths = append(paths, image.StoragePath)
	}
	if err := m.store.RemoveObjects(paths); err != nil {
		log.Printf("Rollback after failed move for draft %s did not complete: %v", draftID, err)
	}
	m.mu.Lock()
	if state, ok := m.sessions[draftID]; ok {
		if state.timer != nil {
			state.timer.Stop()
		}
		delete(m.sessions, draftID)
	}
	m.mu.Unlock()
}
