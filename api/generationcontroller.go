package api

import (
	"net/http"

	"carouselforge/generation"

	"github.com/gin-gonic/gin"
)

// RegisterGenerationRoutes registers the content and image generation endpoints.
func RegisterGenerationRoutes(r *gin.Engine, h *Handlers) {
	g := r.Group("/api")
	g.POST("/generate", h.handleGenerate)
	g.POST("/generate-variations", h.handleGenerateVariations)
	g.POST("/adapt-content", h.handleAdaptContent)
	g.POST("/generate-image", h.handleGenerateImage)
	g.POST("/enhance-image", h.handleEnhanceImage)
}

func (h *Handlers) handleGenerate(c *gin.Context) {
	var req generation.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	data, err := h.Generator.Generate(c.Request.Context(), req)
	if err != nil {
		generationError(c, err, "Failed to generate carousel content")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handlers) handleGenerateVariations(c *gin.Context) {
	var req generation.VariationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	result, err := h.Generator.GenerateVariations(c.Request.Context(), req)
	if err != nil {
		generationError(c, err, "Failed to generate carousel content")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) handleAdaptContent(c *gin.Context) {
	var req generation.AdaptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	result, err := h.Generator.AdaptContent(c.Request.Context(), req)
	if err != nil {
		generationError(c, err, "Failed to adapt content")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) handleGenerateImage(c *gin.Context) {
	var req generation.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	result, err := h.Generator.GenerateImage(c.Request.Context(), req)
	if err != nil {
		imageError(c, err,
			"Image generation was blocked by content filters. Try modifying the image prompt to be more generic.",
			"Failed to generate image")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) handleEnhanceImage(c *gin.Context) {
	var req generation.EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	result, err := h.Generator.EnhanceImage(c.Request.Context(), req)
	if err != nil {
		imageError(c, err,
			"Image enhancement was blocked by content filters. Try a different image or prompt.",
			"Failed to enhance image")
		return
	}
	c.JSON(http.StatusOK, result)
}
