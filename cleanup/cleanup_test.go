package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"carouselforge/uploads"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefs map[string]struct{}

func (f fakeRefs) ReferencedUploads(context.Context, string) (map[string]struct{}, error) {
	return f, nil
}

type fakeFiles struct {
	files   []uploads.FileInfo
	failing string
	deleted []string
}

func (f *fakeFiles) List() ([]uploads.FileInfo, error) { return f.files, nil }

func (f *fakeFiles) Delete(_ context.Context, url string) error {
	if url == f.failing {
		return errors.New("permission denied")
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)
	files := &fakeFiles{
		files: []uploads.FileInfo{
			{Name: "used.png", URL: "/uploads/used.png", ModTime: old},
			{Name: "orphan.png", URL: "/uploads/orphan.png", ModTime: old},
			{Name: "fresh.png", URL: "/uploads/fresh.png", ModTime: now.Add(-time.Hour)},
			{Name: "locked.png", URL: "/uploads/locked.png", ModTime: old},
		},
		failing: "/uploads/locked.png",
	}
	s := New(fakeRefs{"/uploads/used.png": {}}, files, 24*time.Hour)
	s.now = func() time.Time { return now }

	deleted, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/orphan.png"}, deleted)
	assert.Equal(t, []string{"/uploads/orphan.png"}, files.deleted)
}

func TestRunOnceEmpty(t *testing.T) {
	deleted, err := New(fakeRefs{}, &fakeFiles{}, time.Hour).RunOnce(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, deleted)
	assert.Empty(t, deleted)
}

func TestRunOnceBusy(t *testing.T) {
	s := New(fakeRefs{}, &fakeFiles{}, time.Hour)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
}

func TestStart(t *testing.T) {
	s := New(fakeRefs{}, &fakeFiles{}, time.Hour)
	assert.True(t, s.Next().IsZero())
	assert.Error(t, s.Start("not a schedule"))

	require.NoError(t, s.Start("@daily"))
	defer s.Stop()
	assert.False(t, s.Next().IsZero())
}
