package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"carouselforge/frames"
	"carouselforge/store"
	"carouselforge/types"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrameJob(t *testing.T) {
	job, err := NewFrameJob("p1", " https://youtu.be/dQw4w9WgXcQ ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", job.VideoID)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", job.VideoURL)
	assert.NotEmpty(t, job.ID)
	assert.True(t, job.Valid())

	_, err = NewFrameJob("p1", "https://example.com/video")
	assert.ErrorIs(t, err, ErrInvalidVideoURL)
}

func TestKafkaPublisher(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var job FrameJob
		if err := json.Unmarshal(val, &job); err != nil {
			return err
		}
		if job.ProjectID != "p1" || job.VideoID != "dQw4w9WgXcQ" {
			return errors.New("unexpected job payload")
		}
		return nil
	})

	pub := NewPublisher(producer, "frame-extraction-jobs")
	job, err := NewFrameJob("p1", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), job))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherNoBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestJSONHandlerMarking(t *testing.T) {
	failing := errors.New("boom")
	tests := []struct {
		name       string
		payload    string
		processErr error
		alwaysMark bool
		wantMark   bool
		wantErr    bool
	}{
		{"undecodable", "{", nil, false, true, false},
		{"invalid", `{"id":"j1"}`, nil, false, true, false},
		{"processed", `{"id":"j1","projectId":"p","videoUrl":"u","videoId":"v"}`, nil, false, true, false},
		{"failed", `{"id":"j1","projectId":"p","videoUrl":"u","videoId":"v"}`, failing, false, false, true},
		{"failed always mark", `{"id":"j1","projectId":"p","videoUrl":"u","videoId":"v"}`, failing, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processed := 0
			h := &JSONHandler[FrameJob]{
				Validate: func(job *FrameJob) bool { return job.Valid() },
				Process: func(context.Context, *FrameJob) error {
					processed++
					return tt.processErr
				},
				AlwaysMark: tt.alwaysMark,
			}
			mark, err := h.HandleMessage(context.Background(), []byte(tt.payload))
			assert.Equal(t, tt.wantMark, mark)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.name != "undecodable" && tt.name != "invalid", processed == 1)
		})
	}
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumeClaimSkipsFailedOffset(t *testing.T) {
	valid := `{"id":"j1","projectId":"p","videoUrl":"u","videoId":"v"}`
	calls := 0
	h := &groupHandler{handler: &JSONHandler[FrameJob]{
		Validate: func(job *FrameJob) bool { return job.Valid() },
		Process: func(context.Context, *FrameJob) error {
			calls++
			if calls == 1 {
				return errors.New("extract failed")
			}
			return nil
		},
	}}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 2)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 7, Value: []byte(valid)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 8, Value: []byte(valid)}
	close(claim.messages)
	session := &fakeSession{ctx: context.Background()}

	require.NoError(t, h.ConsumeClaim(session, claim))
	assert.Equal(t, 2, calls)
	// Only the later offset is marked; committing it moves the group past 7.
	assert.Equal(t, []int64{8}, session.marked)
}

type fakeStore struct {
	project *types.Project
	updates map[string]map[string]any
}

func (f *fakeStore) GetProject(_ context.Context, id string) (*types.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, store.ErrNotFound
	}
	return f.project, nil
}

func (f *fakeStore) UpdateSlideFields(_ context.Context, id string, updates map[string]any) (*types.Slide, error) {
	if f.updates == nil {
		f.updates = map[string]map[string]any{}
	}
	f.updates[id] = updates
	return &types.Slide{ID: id}, nil
}

type fakeExtractor struct {
	ranges []frames.Range
	result *frames.Result
	err    error
}

func (f *fakeExtractor) ExtractFrames(context.Context, string, string) (*frames.Result, error) {
	return f.result, f.err
}

func (f *fakeExtractor) ExtractFromRanges(_ context.Context, _, _ string, ranges []frames.Range) (*frames.Result, error) {
	f.ranges = ranges
	return f.result, f.err
}

func testJob() *FrameJob {
	return &FrameJob{ID: "j1", ProjectID: "p1", VideoURL: "https://youtu.be/dQw4w9WgXcQ", VideoID: "dQw4w9WgXcQ"}
}

func TestWorkerRangeMode(t *testing.T) {
	st := &fakeStore{project: &types.Project{ID: "p1", Slides: []types.Slide{
		{ID: "a", Segment: &types.Segment{Start: 10, End: 20}},
		{ID: "b"},
		{ID: "c", Segment: &types.Segment{Start: 30, End: 40}, BackgroundImageURL: "/uploads/old.png"},
	}}}
	ex := &fakeExtractor{result: &frames.Result{Success: true, Frames: []frames.Frame{
		{SlideIndex: 0, Status: frames.StatusValid, URL: "/frames/a.jpg"},
		{SlideIndex: 2, Status: frames.StatusSkip, Reason: frames.ReasonNoFaceInRange},
	}}}

	require.NoError(t, NewWorker(st, ex, 0).Process(context.Background(), testJob()))
	require.Len(t, ex.ranges, 2)

	require.Contains(t, st.updates, "a")
	assert.Equal(t, "/frames/a.jpg", st.updates["a"]["backgroundImageUrl"])
	assert.NotContains(t, st.updates, "b")
	require.Contains(t, st.updates, "c")
	assert.Equal(t, "", st.updates["c"]["backgroundImageUrl"])
	vf, ok := st.updates["c"]["validatedFrame"].(*types.ValidatedFrame)
	require.True(t, ok)
	assert.Equal(t, frames.ReasonNoFaceInRange, vf.Reason)

	assert.Equal(t, "/uploads/old.png", st.project.Slides[2].BackgroundImageURL)
}

func TestWorkerLegacyMode(t *testing.T) {
	st := &fakeStore{project: &types.Project{ID: "p1", Slides: []types.Slide{{ID: "a"}, {ID: "b"}}}}
	ex := &fakeExtractor{result: &frames.Result{Success: true, Frames: []frames.Frame{{URL: "/frames/1.jpg"}, {URL: "/frames/2.jpg"}}}}

	require.NoError(t, NewWorker(st, ex, 0).Process(context.Background(), testJob()))
	assert.Equal(t, "/frames/1.jpg", st.updates["a"]["backgroundImageUrl"])
	assert.Equal(t, "/frames/2.jpg", st.updates["b"]["backgroundImageUrl"])
}

func TestWorkerErrors(t *testing.T) {
	w := NewWorker(&fakeStore{}, &fakeExtractor{}, 0)
	assert.ErrorIs(t, w.Process(context.Background(), testJob()), store.ErrNotFound)

	st := &fakeStore{project: &types.Project{ID: "p1", Slides: []types.Slide{{ID: "a"}}}}
	w = NewWorker(st, &fakeExtractor{err: errors.New("script failed")}, 0)
	assert.Error(t, w.Process(context.Background(), testJob()))
	assert.Empty(t, st.updates)
}
