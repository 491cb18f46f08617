package services

import (
	"context"
	"log"
	"strings"
	"time"

	"gallery-backend/internal/supabase"
)

const draftsPrefix = "products/drafts"

type draftLister interface {
	ListPrefix(prefix string) ([]supabase.ObjectInfo, error)
	RemoveObjects(paths []string) error
}

// Sweeper removes staged objects whose TTL lapsed without the in-memory
// timer firing. Per-draft timers do not survive a restart; the sweep walks
// the draft prefix and deletes what a dead timer left behind. Live drafts
// registered with the manager are skipped.
type Sweeper struct {
	store    draftLister
	skip     func(draftID string) bool
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(store draftLister, skip func(draftID string) bool, ttl, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		skip:     skip,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(); err != nil {
				log.Printf("Draft sweep failed: %v", err)
			}
		}
	}
}

func (s *Sweeper) Sweep() error {
	entries, err := s.store.ListPrefix(draftsPrefix)
	if err != nil {
		return err
	}

	cutoff := s.now().Add(-s.ttl)
	var expired []string

	for _, entry := range entries {
		if !entry.IsFolder {
			continue
		}
		draftID := strings.TrimPrefix(entry.Name, draftsPrefix+"/")
		if s.skip != nil && s.skip(draftID) {
			continue
		}

		files, err := s.store.ListPrefix(entry.Name)
		if err != nil {
			return err
		}
		for _, file := range files {
			if file.IsFolder || file.CreatedAt.IsZero() {
				continue
			}
			if file.CreatedAt.Before(cutoff) {
				expired = append(expired, file.Name)
			}
		}
	}

	if len(expired) == 0 {
		return nil
	}
	if err := s.store.RemoveObjects(expired); err != nil {
		return err
	}
	log.Printf("Draft sweep removed %d expired staged objects", len(expired))
	return nil
}
