package config

import "time"

// Generation Constants
const (
	// DefaultChatModel is the OpenAI chat model used for slide text
	DefaultChatModel = "gpt-4o"

	// DefaultCohereModel is used when LLM_PROVIDER=cohere
	DefaultCohereModel = "command-r-plus"

	// DefaultGeminiModel is used when LLM_PROVIDER=gemini
	DefaultGeminiModel = "gemini-2.0-flash"

	// DefaultImageModel is the primary image generation model
	DefaultImageModel = "gpt-image-1"

	// FallbackImageModel is tried when the primary image model fails
	FallbackImageModel = "dall-e-3"

	// DefaultImageSize is the square output used for carousel slides
	DefaultImageSize = "1024x1024"

	// GenerateTemperature is used for single carousel generation
	GenerateTemperature = 0.7

	// VariationsTemperature is used for the three-variation generation
	VariationsTemperature = 0.8

	// VariationsMaxTokens bounds the variations response
	VariationsMaxTokens = 4096

	// DefaultSlideCount is used when a request omits slideCount
	DefaultSlideCount = 5

	// MaxSlideCount caps slideCount
	MaxSlideCount = 15
)

// Source Content Constants
const (
	// MaxSourceChars is the transcript/article budget sent to the model
	MaxSourceChars = 30000

	// MinSourceChars is the minimum extracted content for link-based inputs
	MinSourceChars = 50

	// DefaultFeedItems is how many feed entries feed an input of type "feed"
	DefaultFeedItems = 5

	// BrandStylesheetLimit caps how many stylesheets brand extraction fetches
	BrandStylesheetLimit = 3

	// BrandStylesheetTimeout bounds each stylesheet fetch
	BrandStylesheetTimeout = 2 * time.Second

	// FetchTimeout bounds page and transcript fetches
	FetchTimeout = 30 * time.Second
)

// Cache Constants
const (
	// TranscriptCacheTTL is how long fetched transcripts stay cached
	TranscriptCacheTTL = 24 * time.Hour

	// ContentCacheTTL is how long extracted article/feed text stays cached
	ContentCacheTTL = 6 * time.Hour

	// GenerationCacheTTL is how long identical variation requests reuse a result
	GenerationCacheTTL = 30 * time.Minute

	// BrandCacheTTL is how long extracted brand kits stay cached
	BrandCacheTTL = 24 * time.Hour
)

// Upload Constants
const (
	// UploadsURLPrefix is the public path prefix of saved images
	UploadsURLPrefix = "/uploads/"

	// UploadCacheControl is sent with every served upload
	UploadCacheControl = "public, max-age=31536000, immutable"

	// MaxUploadBytes caps multipart uploads and downloaded images
	MaxUploadBytes = 20 << 20
)

// Store Constants
const (
	// RecentProjectsLimit is the size of the recent projects list
	RecentProjectsLimit = 20

	// RecentProjectSlides caps the slides loaded per project in that list
	RecentProjectSlides = 10
)

// Frame Extraction Constants
const (
	// FrameExtractionTimeout bounds one run of the extractor script
	FrameExtractionTimeout = 10 * time.Minute

	// FrameJobConcurrency limits frame jobs processed at once by the worker
	FrameJobConcurrency = 2
)
