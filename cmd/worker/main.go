// Command worker consumes frame extraction jobs from Kafka and writes the
// extracted frames onto the stored slides.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"carouselforge/config"
	"carouselforge/frames"
	"carouselforge/jobs"
	"carouselforge/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	checkOnly := flag.Bool("check", false, "Check extractor dependencies and exit")
	flag.Parse()

	log.Println("🎞️  Frame Worker - Starting...")

	extractor := frames.NewExtractor(frames.WithFramesDir(config.GetFramesDir()))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := extractor.CheckDependencies(ctx)
	if !deps.Installed {
		log.Printf("⚠️  Missing frame extraction dependencies: %v", deps.Missing)
	}
	if *checkOnly {
		if !deps.Installed {
			log.Fatalf("❌ Dependencies missing")
		}
		log.Println("✅ All frame extraction dependencies installed")
		return
	}

	db, err := store.Open(config.GetDatabasePath())
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	worker := jobs.NewWorker(db, extractor, config.FrameExtractionTimeout)
	consumerConfig := jobs.ConsumerConfig{
		Brokers: config.GetKafkaBrokers(),
		Topic:   config.GetFrameExtractionTopic(),
		GroupID: config.GetKafkaGroupID(),
		Handler: worker.Handler(),
	}
	log.Printf("🔗 Kafka Brokers: %v", consumerConfig.Brokers)
	log.Printf("📋 Topic: %s", consumerConfig.Topic)
	log.Printf("👥 Consumer Group: %s", consumerConfig.GroupID)

	consumer, err := jobs.NewConsumer(consumerConfig)
	if err != nil {
		log.Fatalf("❌ Failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("❌ Kafka consumer failed: %v", err)
	}
	log.Println("👋 Frame worker stopped")
}
