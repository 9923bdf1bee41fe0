package api

import (
	"net/http"

	"carouselforge/types"

	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers the static editor catalogs and the frame
// extractor dependency report.
func RegisterCatalogRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/api/themes", handleThemes)
	r.GET("/api/layouts", handleLayouts)
	r.GET("/api/templates", handleTemplates)
	r.GET("/api/frames/dependencies", h.handleFrameDependencies)
}

func handleThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": types.DefaultThemes, "textures": types.Textures})
}

func handleLayouts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"layouts": types.Layouts})
}

// handleTemplates lists every template, or one category with ?category=.
func handleTemplates(c *gin.Context) {
	templates := types.Templates
	if category := c.Query("category"); category != "" {
		templates = types.TemplatesByCategory(category)
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *Handlers) handleFrameDependencies(c *gin.Context) {
	if h.Frames == nil {
		respondError(c, http.StatusServiceUnavailable, "Frame extraction is not configured", nil)
		return
	}
	c.JSON(http.StatusOK, h.Frames.CheckDependencies(c.Request.Context()))
}
