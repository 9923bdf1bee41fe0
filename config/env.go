package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault returns the trimmed value of key, or def when unset
func GetEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetBool reads a true/false env flag
func GetBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

// GetDuration reads a Go duration string, falling back to def when unset or invalid
func GetDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// GetGinLogging reports whether request logging is enabled
func GetGinLogging() bool {
	return GetBool("GIN_LOG")
}

// GetPort returns the HTTP listen address
func GetPort() string {
	return ":" + GetEnvOrDefault("PORT", "8080")
}

// GetDatabasePath returns the SQLite database file
func GetDatabasePath() string {
	return GetEnvOrDefault("DATABASE_PATH", "data/carousel.db")
}

// GetUploadsDir returns where saved images are written
func GetUploadsDir() string {
	return GetEnvOrDefault("UPLOADS_DIR", "public/uploads")
}

// GetOpenAIKey returns the OpenAI API key
func GetOpenAIKey() string {
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}

// GetOpenAIBaseURL returns the OpenAI API root
func GetOpenAIBaseURL() string {
	return strings.TrimRight(GetEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/")
}

// GetLLMProvider returns openai, cohere or gemini
func GetLLMProvider() string {
	return strings.ToLower(GetEnvOrDefault("LLM_PROVIDER", "openai"))
}

// GetChatModel returns an override of the provider's default chat model
func GetChatModel() string {
	return strings.TrimSpace(os.Getenv("LLM_MODEL"))
}

// GetCohereKey returns the Cohere API key
func GetCohereKey() string {
	return strings.TrimSpace(os.Getenv("COHERE_API_KEY"))
}

// GetGeminiKey returns the Gemini API key, accepting GOOGLE_API_KEY as well
func GetGeminiKey() string {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
}

// GetTranscriptAPIKey returns the transcript API key
func GetTranscriptAPIKey() string {
	return strings.TrimSpace(os.Getenv("TRANSCRIPT_API_KEY"))
}

// GetTranscriptAPIURL returns the transcript API endpoint
func GetTranscriptAPIURL() string {
	return GetEnvOrDefault("TRANSCRIPT_API_URL", "https://transcriptapi.com/api/v2/youtube/transcript")
}

// GetRedisAddr returns the Redis address; empty disables caching
func GetRedisAddr() string {
	return strings.TrimSpace(os.Getenv("REDIS_ADDR"))
}

// GetRedisPassword returns the Redis password
func GetRedisPassword() string {
	return os.Getenv("REDIS_PASS")
}

// GetKafkaBrokers parses the Kafka broker list; nil disables async jobs
func GetKafkaBrokers() []string {
	brokers := strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS"))
	if brokers == "" {
		return nil
	}
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetFrameExtractionTopic returns the topic frame jobs are published to
func GetFrameExtractionTopic() string {
	return GetEnvOrDefault("KAFKA_TOPIC_FRAME_JOBS", "frame-extraction-jobs")
}

// GetKafkaGroupID returns the frame worker consumer group
func GetKafkaGroupID() string {
	return GetEnvOrDefault("KAFKA_CONSUMER_GROUP_ID", "frame-worker-group")
}

// GetPythonBinary returns the interpreter used for the extractor script
func GetPythonBinary() string {
	def := "python3"
	if runtime.GOOS == "windows" {
		def = "python"
	}
	return GetEnvOrDefault("PYTHON_BIN", def)
}

// GetExtractorScript returns the path of the frame extraction script
func GetExtractorScript() string {
	return GetEnvOrDefault("FRAME_EXTRACTOR_SCRIPT", "scripts/extract_frames.py")
}

// GetFramesDir returns where the extractor writes frames
func GetFramesDir() string {
	return GetEnvOrDefault("FRAMES_DIR", "public/frames")
}

// GetYouTubeAPIKey returns the YouTube Data API key
func GetYouTubeAPIKey() string {
	return strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY"))
}

// GetYouTubeServiceAccount returns a service-account JSON file for the YouTube Data API
func GetYouTubeServiceAccount() string {
	return strings.TrimSpace(os.Getenv("YOUTUBE_SERVICE_ACCOUNT"))
}

// GetCleanupSchedule returns the cron spec of the orphan upload sweep
func GetCleanupSchedule() string {
	return GetEnvOrDefault("CLEANUP_SCHEDULE", "@daily")
}

// GetCleanupMinAge returns how old an unreferenced upload must be before removal
func GetCleanupMinAge() time.Duration {
	return GetDuration("CLEANUP_MIN_AGE", 24*time.Hour)
}

// S3Settings holds the optional upload mirror configuration
type S3Settings struct {
	Bucket       string
	Region       string
	Profile      string
	Prefix       string
	UsePathStyle bool
}

// GetS3Settings reads S3_* env. Bucket is empty when S3 is not configured.
func GetS3Settings() S3Settings {
	prefix := strings.TrimSpace(os.Getenv("S3_PREFIX"))
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	return S3Settings{
		Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		Prefix:       prefix,
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}
}
