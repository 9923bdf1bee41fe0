package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"carouselforge/api"
	"carouselforge/cache"
	"carouselforge/cleanup"
	"carouselforge/common"
	"carouselforge/config"
	"carouselforge/frames"
	"carouselforge/generation"
	"carouselforge/jobs"
	"carouselforge/llm"
	"carouselforge/scrapers"
	"carouselforge/store"
	"carouselforge/uploads"
	"carouselforge/youtube"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(config.GetDatabasePath())
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("✅ Database ready at %s", config.GetDatabasePath())

	redisCache := initializeCache()
	defer redisCache.Close()

	uploadOpts := []uploads.Option{}
	if mirror := initializeS3(ctx); mirror != nil {
		uploadOpts = append(uploadOpts, uploads.WithMirror(mirror))
	}
	files := uploads.New(config.GetUploadsDir(), uploadOpts...)

	scraperOpts := []scrapers.Option{scrapers.WithCache(redisCache)}
	if key := config.GetTranscriptAPIKey(); key != "" {
		scraperOpts = append(scraperOpts, scrapers.WithTranscriptFetcher(
			scrapers.NewTranscriptAPI(config.GetTranscriptAPIURL(), key, nil)))
	} else {
		log.Println("⚠️  TRANSCRIPT_API_KEY not set, YouTube inputs are disabled")
	}
	scraper := scrapers.New(scraperOpts...)

	chat, err := llm.NewProviderFromEnv(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM provider: %v", err)
	}
	log.Printf("✅ Chat provider: %s", chat.Name())

	extractor := frames.NewExtractor(frames.WithFramesDir(config.GetFramesDir()))

	genOpts := []generation.Option{
		generation.WithScraper(scraper),
		generation.WithUploads(files),
		generation.WithCache(redisCache),
		generation.WithFrames(extractor),
		generation.WithFramesDir(config.GetFramesDir()),
	}
	if key := config.GetOpenAIKey(); key != "" {
		genOpts = append(genOpts, generation.WithImages(
			llm.NewOpenAIClient(key, llm.WithBaseURL(config.GetOpenAIBaseURL()))))
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set, image generation is disabled")
	}
	if meta := initializeYouTube(ctx); meta != nil {
		genOpts = append(genOpts, generation.WithMetadata(meta))
	}
	generator := generation.New(chat, genOpts...)

	deps := api.Deps{
		Store:     db,
		Uploads:   files,
		Generator: generator,
		Scraper:   scraper,
		Frames:    extractor,
		FramesDir: config.GetFramesDir(),
		Logging:   config.GetGinLogging(),
	}

	if publisher := initializePublisher(); publisher != nil {
		defer publisher.Close()
		deps.Jobs = publisher
	}

	sweeper := cleanup.New(db, files, config.GetCleanupMinAge())
	if err := sweeper.Start(config.GetCleanupSchedule()); err != nil {
		log.Printf("⚠️  Upload cleanup not scheduled: %v", err)
	} else {
		defer sweeper.Stop()
		log.Printf("✅ Upload cleanup scheduled (%s), next run %s", config.GetCleanupSchedule(), sweeper.Next().Format(time.RFC3339))
	}
	deps.Cleanup = sweeper

	addr := config.GetPort()
	srv := &http.Server{Addr: addr, Handler: api.NewRouter(deps)}

	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /api/health")
	log.Println("  POST   /api/generate")
	log.Println("  POST   /api/generate-variations")
	log.Println("  POST   /api/adapt-content")
	log.Println("  POST   /api/generate-image")
	log.Println("  POST   /api/enhance-image")
	log.Println("  POST   /api/upload-image")
	log.Println("  GET    /api/projects")
	log.Println("  POST   /api/projects")
	log.Println("  GET    /api/projects/:id")
	log.Println("  DELETE /api/projects/:id")
	log.Println("  POST   /api/projects/:id/frames")
	log.Println("  GET    /api/brand-kits")
	log.Println("  POST   /api/brand-kits")
	log.Println("  POST   /api/extract-brand")
	log.Println("  *      /api/admin/...")
	log.Println("  GET    /api/themes, /api/layouts, /api/templates")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server shutdown: %v", err)
	}
}

// initializeCache connects to Redis when REDIS_ADDR is set. A nil cache is
// valid and always misses.
func initializeCache() *cache.Cache {
	addr := config.GetRedisAddr()
	if addr == "" {
		log.Println("⚠️  REDIS_ADDR not set, caching disabled")
		return nil
	}
	c, err := cache.New(cache.Config{Addr: addr, Password: config.GetRedisPassword()})
	if err != nil {
		log.Printf("⚠️  %v, caching disabled", err)
		return nil
	}
	log.Printf("✅ Redis cache at %s", addr)
	return c
}

// initializeS3 returns the upload mirror, or nil when S3 is not configured.
func initializeS3(ctx context.Context) *common.S3 {
	settings := config.GetS3Settings()
	if settings.Bucket == "" {
		log.Println("ℹ️  S3 upload mirror not configured (S3_BUCKET empty); uploads stay local")
		return nil
	}
	client, err := common.NewS3(ctx, common.S3Config{
		Bucket:       settings.Bucket,
		Prefix:       settings.Prefix,
		Region:       settings.Region,
		Profile:      settings.Profile,
		UsePathStyle: settings.UsePathStyle,
	})
	if err != nil {
		log.Printf("⚠️  Failed to initialize S3 client: %v. Uploads stay local.", err)
		return nil
	}
	log.Printf("☁️  Mirroring uploads to s3://%s/%s", settings.Bucket, settings.Prefix)
	return client
}

// initializeYouTube returns the metadata client, or nil without credentials.
func initializeYouTube(ctx context.Context) *youtube.MetadataClient {
	client, err := youtube.NewMetadataClientFromEnv(ctx)
	if err != nil {
		log.Printf("⚠️  YouTube metadata disabled: %v", err)
		return nil
	}
	if client == nil {
		log.Println("ℹ️  YouTube metadata not configured")
	}
	return client
}

// initializePublisher returns the frame job publisher when Kafka is configured.
func initializePublisher() *jobs.KafkaPublisher {
	brokers := config.GetKafkaBrokers()
	if len(brokers) == 0 {
		log.Println("ℹ️  KAFKA_BOOTSTRAP_SERVERS not set, async frame jobs disabled")
		return nil
	}
	p, err := jobs.NewKafkaPublisher(brokers, config.GetFrameExtractionTopic())
	if err != nil {
		log.Printf("⚠️  Kafka publisher unavailable: %v", err)
		return nil
	}
	log.Printf("✅ Publishing frame jobs to %s on %v", config.GetFrameExtractionTopic(), brokers)
	return p
}
