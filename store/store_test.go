package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"carouselforge/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "carousel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func (s *Store) setUpdatedAt(ctx context.Context, id string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, formatTime(ts), id)
	return err
}

func sampleProject(topic string, slides int) *types.Project {
	p := &types.Project{Topic: topic, BrandName: "Acme"}
	p.SetTheme(&types.DefaultThemes[2])
	for i := 0; i < slides; i++ {
		p.Slides = append(p.Slides, types.Slide{
			ID:      "slide-x",
			Heading: topic,
			Body:    "body",
			Layout:  types.LayoutCard,
		})
	}
	return p
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carousel.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
}

func TestSaveProjectCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := sampleProject("growth", 3)
	short := false
	p.Slides[1].UseShortDescription = &short
	p.Slides[1].CustomTexts = json.RawMessage(`[{"id":"c1","text":"hi"}]`)
	p.Slides[2].Segment = &types.Segment{Start: 10, End: 20}

	saved, err := s.SaveProject(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Len(t, saved.Slides, 3)
	assert.Equal(t, "ocean", saved.ThemeID)
	assert.Equal(t, 3, saved.SlideCount)

	first := saved.Slides[0]
	assert.NotEqual(t, "slide-x", first.ID)
	assert.Equal(t, "educational", first.Tone)
	assert.Equal(t, types.EntityNone, first.EntityFocus)
	require.NotNil(t, first.UseShortDescription)
	assert.True(t, *first.UseShortDescription)
	assert.JSONEq(t, `[]`, string(first.CustomTexts))

	assert.False(t, *saved.Slides[1].UseShortDescription)
	assert.JSONEq(t, `[{"id":"c1","text":"hi"}]`, string(saved.Slides[1].CustomTexts))
	require.NotNil(t, saved.Slides[2].Segment)
	assert.Equal(t, 20.0, saved.Slides[2].Segment.End)

	saved.Topic = "growth v2"
	saved.Slides = saved.Slides[:1]
	updated, err := s.SaveProject(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "growth v2", updated.Topic)
	assert.Len(t, updated.Slides, 1)

	_, err = s.SaveProject(ctx, &types.Project{ID: "missing", Topic: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecentProjects(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older, err := s.SaveProject(ctx, sampleProject("older", 12))
	require.NoError(t, err)
	newer, err := s.SaveProject(ctx, sampleProject("newer", 2))
	require.NoError(t, err)
	require.NoError(t, s.setUpdatedAt(ctx, older.ID, time.Now().Add(-time.Hour)))

	projects, err := s.ListRecentProjects(ctx, 20, 10)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, newer.ID, projects[0].ID)
	assert.Len(t, projects[1].Slides, 10)
	assert.Equal(t, 12, projects[1].SlideCount)

	all, stats, err := s.ListProjectsWithStats(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, ProjectStats{TotalProjects: 2, TotalSlides: 14}, stats)
}

func TestUpdateFieldsWhitelist(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p, err := s.SaveProject(ctx, sampleProject("topic", 2))
	require.NoError(t, err)

	updated, err := s.UpdateProjectFields(ctx, p.ID, map[string]any{
		"topic":     "renamed",
		"brandName": "Other",
		"id":        "hijack",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "renamed", updated.Topic)
	assert.Equal(t, "Other", updated.BrandName)

	_, err = s.UpdateProjectFields(ctx, p.ID, map[string]any{"topic": 42.0})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	_, err = s.UpdateProjectFields(ctx, "missing", map[string]any{"topic": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	slide, err := s.UpdateSlideFields(ctx, p.Slides[0].ID, map[string]any{
		"heading":                "New heading",
		"customTexts":            []any{map[string]any{"id": "t1", "text": "x"}},
		"useExtendedDescription": true,
		"index":                  5.0,
		"projectId":              "hijack",
	})
	require.NoError(t, err)
	assert.Equal(t, "New heading", slide.Heading)
	assert.True(t, slide.UseExtendedDescription)
	assert.JSONEq(t, `[{"id":"t1","text":"x"}]`, string(slide.CustomTexts))

	reloaded, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Slides[1].ID, reloaded.Slides[0].ID, "index update reorders slides")

	require.NoError(t, s.DeleteSlide(ctx, p.Slides[1].ID))
	assert.ErrorIs(t, s.DeleteSlide(ctx, p.Slides[1].ID), ErrNotFound)
}

func TestDeleteProjectsCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, err := s.SaveProject(ctx, sampleProject("a", 2))
	require.NoError(t, err)
	b, err := s.SaveProject(ctx, sampleProject("b", 1))
	require.NoError(t, err)

	n, err := s.DeleteProjects(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, stats, err := s.ListProjectsWithStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSlides)

	err = s.DeleteProject(ctx, a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBrandKits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateBrandKit(ctx, &types.BrandKit{})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	kit, err := s.CreateBrandKit(ctx, &types.BrandKit{
		Name:     "Acme",
		Handle:   "@acme",
		ImageURL: "/uploads/logo.png",
		Colors:   json.RawMessage(`{"background":"#000","text":"#fff","accent":"#f00"}`),
		Fonts:    json.RawMessage(`{"heading":"Inter","body":"Inter"}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"heading":"Inter","body":"Inter"}`, string(kit.Fonts))

	kit, err = s.UpdateBrandKitFields(ctx, kit.ID, map[string]any{"name": "Acme Co", "imageUrl": "/x"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", kit.Name)
	assert.Equal(t, "/uploads/logo.png", kit.ImageURL)

	kits, stats, err := s.ListBrandKitsWithStats(ctx)
	require.NoError(t, err)
	assert.Len(t, kits, 1)
	assert.Equal(t, 1, stats.TotalBrandKits)

	n, err := s.DeleteBrandKits(ctx, []string{kit.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.ErrorIs(t, s.DeleteBrandKit(ctx, kit.ID), ErrNotFound)
}

func TestImageReferencedElsewhere(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	shared := "/uploads/shared.png"
	own := "/uploads/own.png"
	kitImage := "/uploads/kit.png"

	p1 := sampleProject("one", 1)
	p1.Slides[0].BackgroundImageURL = shared
	p1.BrandImage = own
	first, err := s.SaveProject(ctx, p1)
	require.NoError(t, err)

	p2 := sampleProject("two", 1)
	p2.HostImage = shared
	p2.BrandImage = kitImage
	second, err := s.SaveProject(ctx, p2)
	require.NoError(t, err)

	_, err = s.CreateBrandKit(ctx, &types.BrandKit{Name: "kit", ImageURL: kitImage})
	require.NoError(t, err)

	cases := []struct {
		url     string
		exclude string
		want    bool
	}{
		{shared, first.ID, true},
		{shared, second.ID, true},
		{own, first.ID, false},
		{own, second.ID, true},
		{kitImage, second.ID, true},
		{"/uploads/none.png", first.ID, false},
	}
	for _, c := range cases {
		got, err := s.ImageReferencedElsewhere(ctx, c.url, c.exclude)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "url=%s exclude=%s", c.url, c.exclude)
	}

	refs, err := s.ReferencedUploads(ctx, "/uploads/")
	require.NoError(t, err)
	assert.Len(t, refs, 3)
	assert.Contains(t, refs, own)
}
