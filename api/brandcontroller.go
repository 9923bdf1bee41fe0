package api

import (
	"net/http"
	"strings"

	"carouselforge/types"

	"github.com/gin-gonic/gin"
)

// RegisterBrandKitRoutes registers brand kit endpoints.
func RegisterBrandKitRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/api/brand-kits", h.handleListBrandKits)
	r.POST("/api/brand-kits", h.handleCreateBrandKit)
	r.POST("/api/extract-brand", h.handleExtractBrand)
}

func (h *Handlers) handleListBrandKits(c *gin.Context) {
	kits, err := h.Store.ListBrandKits(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch brand kits", err)
		return
	}
	c.JSON(http.StatusOK, kits)
}

func (h *Handlers) handleCreateBrandKit(c *gin.Context) {
	var kit types.BrandKit
	if err := c.ShouldBindJSON(&kit); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	if strings.TrimSpace(kit.Name) == "" {
		respondError(c, http.StatusBadRequest, "Name is required", nil)
		return
	}
	kit.ImageURL = h.persistDataImage(c.Request.Context(), kit.ImageURL, "brand")

	created, err := h.Store.CreateBrandKit(c.Request.Context(), &kit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create brand kit", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

type extractBrandRequest struct {
	URL string `json:"url"`
}

func (h *Handlers) handleExtractBrand(c *gin.Context) {
	var req extractBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		respondError(c, http.StatusBadRequest, "URL is required", nil)
		return
	}
	brand, err := h.Scraper.ExtractBrand(c.Request.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to extract brand info", err)
		return
	}
	c.JSON(http.StatusOK, brand)
}
