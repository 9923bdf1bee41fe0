// Package cleanup removes uploaded images that nothing references anymore.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"carouselforge/config"
	"carouselforge/uploads"

	"github.com/robfig/cron/v3"
)

// ErrBusy is returned when a sweep is already running.
var ErrBusy = errors.New("cleanup already running")

// References lists the upload urls still in use.
type References interface {
	ReferencedUploads(ctx context.Context, prefix string) (map[string]struct{}, error)
}

// Files is the upload storage being swept.
type Files interface {
	List() ([]uploads.FileInfo, error)
	Delete(ctx context.Context, url string) error
}

// Sweeper deletes orphaned uploads, on demand or on a cron schedule.
type Sweeper struct {
	refs   References
	files  Files
	minAge time.Duration
	now    func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	cronID cron.EntryID
}

// New returns a Sweeper that only removes files older than minAge.
func New(refs References, files Files, minAge time.Duration) *Sweeper {
	return &Sweeper{refs: refs, files: files, minAge: minAge, now: time.Now}
}

// RunOnce deletes every unreferenced upload older than the minimum age and
// returns the urls it removed. Files that fail to delete are logged and skipped.
func (s *Sweeper) RunOnce(ctx context.Context) ([]string, error) {
	if !s.mu.TryLock() {
		return nil, ErrBusy
	}
	defer s.mu.Unlock()

	refs, err := s.refs.ReferencedUploads(ctx, config.UploadsURLPrefix)
	if err != nil {
		return nil, err
	}
	files, err := s.files.List()
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-s.minAge)
	deleted := []string{}
	for _, f := range files {
		if _, used := refs[f.URL]; used || f.ModTime.After(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if err := s.files.Delete(ctx, f.URL); err != nil {
			log.Printf("⚠️  Failed to delete orphaned upload %s: %v", f.Name, err)
			continue
		}
		deleted = append(deleted, f.URL)
	}

	log.Printf("🧹 Cleanup removed %d of %d uploads (%d referenced)", len(deleted), len(files), len(refs))
	return deleted, nil
}

// Start schedules RunOnce with a cron spec such as "@daily" or "0 3 * * *".
func (s *Sweeper) Start(schedule string) error {
	c := cron.New()
	id, err := c.AddFunc(schedule, func() {
		log.Println("Cron triggered: sweeping orphaned uploads")
		if _, err := s.RunOnce(context.Background()); err != nil {
			log.Printf("❌ Cleanup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cleanup job: %w", err)
	}
	s.cron, s.cronID = c, id
	c.Start()
	log.Printf("Cleanup scheduled: %s", schedule)
	return nil
}

// Next returns when the scheduled sweep runs next, or zero when unscheduled.
func (s *Sweeper) Next() time.Time {
	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.cronID).Next
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
