package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"carouselforge/config"
	"carouselforge/frames"
	"carouselforge/types"

	"golang.org/x/sync/semaphore"
)

// ProjectStore is the part of store.Store the worker writes through.
type ProjectStore interface {
	GetProject(ctx context.Context, id string) (*types.Project, error)
	UpdateSlideFields(ctx context.Context, id string, updates map[string]any) (*types.Slide, error)
}

// FrameExtractor runs the frame extraction script.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, videoURL, videoID string) (*frames.Result, error)
	ExtractFromRanges(ctx context.Context, source, videoID string, ranges []frames.Range) (*frames.Result, error)
}

// Worker applies extracted frames to stored slides.
type Worker struct {
	store   ProjectStore
	frames  FrameExtractor
	timeout time.Duration
	slots   *semaphore.Weighted
}

// NewWorker returns a Worker. A zero timeout means no per-job deadline. At
// most config.FrameJobConcurrency jobs run at once across partitions.
func NewWorker(store ProjectStore, extractor FrameExtractor, timeout time.Duration) *Worker {
	return &Worker{
		store:   store,
		frames:  extractor,
		timeout: timeout,
		slots:   semaphore.NewWeighted(config.FrameJobConcurrency),
	}
}

// Handler wraps Process for a Consumer.
func (w *Worker) Handler() *JSONHandler[FrameJob] {
	return &JSONHandler[FrameJob]{
		Validate: func(job *FrameJob) bool { return job.Valid() },
		Process:  w.Process,
	}
}

// Process extracts frames for job and stores the resulting backgrounds.
// Slides with a transcript segment get median frames for their range;
// without any segments frames are spread evenly across the slides.
func (w *Worker) Process(ctx context.Context, job *FrameJob) error {
	if err := w.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer w.slots.Release(1)

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	start := time.Now()
	log.Printf("🎞️  Frame job %s: project %s, video %s", job.ID, job.ProjectID, job.VideoID)

	project, err := w.store.GetProject(ctx, job.ProjectID)
	if err != nil {
		return fmt.Errorf("load project %s: %w", job.ProjectID, err)
	}
	if len(project.Slides) == 0 {
		log.Printf("⚠️  Project %s has no slides, nothing to do", job.ProjectID)
		return nil
	}

	slides := make([]types.Slide, len(project.Slides))
	copy(slides, project.Slides)

	if ranges := frames.CollectRanges(slides); len(ranges) > 0 {
		res, err := w.frames.ExtractFromRanges(ctx, job.VideoURL, job.VideoID, ranges)
		if err != nil {
			return fmt.Errorf("extract range frames: %w", err)
		}
		frames.MapRangeFrames(res.Frames, slides)
	} else {
		res, err := w.frames.ExtractFrames(ctx, job.VideoURL, job.VideoID)
		if err != nil {
			return fmt.Errorf("extract frames: %w", err)
		}
		frames.DistributeFrames(res.Frames, slides)
	}

	updated := 0
	for i, s := range slides {
		before := project.Slides[i]
		if s.BackgroundImageURL == before.BackgroundImageURL && s.ValidatedFrame == before.ValidatedFrame && s.ExtractedFrame == nil {
			continue
		}
		fields := map[string]any{"backgroundImageUrl": s.BackgroundImageURL}
		if s.ValidatedFrame != nil {
			fields["validatedFrame"] = s.ValidatedFrame
		} else if s.ExtractedFrame != nil {
			fields["validatedFrame"] = s.ExtractedFrame
		}
		if _, err := w.store.UpdateSlideFields(ctx, s.ID, fields); err != nil {
			return fmt.Errorf("update slide %s: %w", s.ID, err)
		}
		updated++
	}

	log.Printf("✅ Frame job %s done in %s: %d/%d slides updated", job.ID, time.Since(start).Round(time.Millisecond), updated, len(slides))
	return nil
}
