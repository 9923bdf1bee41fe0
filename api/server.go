package api

import (
	"context"
	"net/http"

	"carouselforge/frames"
	"carouselforge/generation"
	"carouselforge/jobs"
	"carouselforge/scrapers"
	"carouselforge/store"
	"carouselforge/uploads"

	"github.com/gin-gonic/gin"
)

// DependencyChecker reports whether the frame extractor's tools are installed.
type DependencyChecker interface {
	CheckDependencies(ctx context.Context) frames.Dependencies
}

// Sweeper removes orphaned uploads.
type Sweeper interface {
	RunOnce(ctx context.Context) ([]string, error)
}

// Deps are the services the routes are served from. Jobs, Frames and
// Cleanup may be nil; their routes then answer 503.
type Deps struct {
	Store     *store.Store
	Uploads   *uploads.Store
	Generator *generation.Service
	Scraper   *scrapers.Scraper
	Frames    DependencyChecker
	Jobs      jobs.Publisher
	Cleanup   Sweeper
	// FramesDir is served under /frames/ when set.
	FramesDir string
	Logging   bool
}

// Handlers serves the HTTP endpoints.
type Handlers struct {
	Deps
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if deps.Logging {
		r.Use(gin.Logger())
	}
	r.Use(corsMiddleware())

	h := &Handlers{Deps: deps}
	RegisterHealthRoutes(r, h)
	RegisterGenerationRoutes(r, h)
	RegisterUploadRoutes(r, h)
	RegisterProjectRoutes(r, h)
	RegisterBrandKitRoutes(r, h)
	RegisterAdminRoutes(r, h)
	RegisterCatalogRoutes(r, h)
	return r
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/api/health", h.handleHealth)
}

func (h *Handlers) handleHealth(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if h.Store != nil {
		if err := h.Store.Ping(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
		}
	}
	status["frameJobs"] = h.Jobs != nil
	c.JSON(http.StatusOK, status)
}

// corsMiddleware lets the editor call the API from another origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
