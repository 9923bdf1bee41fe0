// Package jobs queues frame extraction for saved projects on Kafka and runs
// it in a worker.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"carouselforge/scrapers"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

var (
	// ErrNotConfigured is returned when no Kafka brokers are set
	ErrNotConfigured = errors.New("frame jobs are not configured")

	// ErrInvalidVideoURL is returned when a job's url has no YouTube video id
	ErrInvalidVideoURL = errors.New("invalid YouTube URL")
)

// FrameJob asks the worker to extract frames for a project's slides.
type FrameJob struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	VideoURL  string    `json:"videoUrl"`
	VideoID   string    `json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFrameJob builds a job for projectID, resolving the video id from videoURL.
func NewFrameJob(projectID, videoURL string) (*FrameJob, error) {
	videoURL = strings.TrimSpace(videoURL)
	id := scrapers.ExtractVideoID(videoURL)
	if id == "" {
		return nil, ErrInvalidVideoURL
	}
	return &FrameJob{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		VideoURL:  videoURL,
		VideoID:   id,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Valid reports whether the job carries everything the worker needs.
func (j *FrameJob) Valid() bool {
	return j.ID != "" && j.ProjectID != "" && j.VideoURL != "" && j.VideoID != ""
}

// Publisher sends frame jobs to the worker.
type Publisher interface {
	Publish(ctx context.Context, job *FrameJob) error
	Close() error
}

// KafkaPublisher publishes jobs to a topic, keyed by project so jobs for one
// project land on the same partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a synchronous producer to brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNotConfigured
	}
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	log.Printf("✅ Kafka producer connected (topic: %s)", topic)
	return NewPublisher(producer, topic), nil
}

// NewPublisher wraps an existing producer.
func NewPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends job and blocks until the broker acknowledges it.
func (p *KafkaPublisher) Publish(_ context.Context, job *FrameJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode frame job: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(job.ProjectID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish frame job: %w", err)
	}
	log.Printf("📤 Frame job %s queued for project %s (partition=%d, offset=%d)", job.ID, job.ProjectID, partition, offset)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
