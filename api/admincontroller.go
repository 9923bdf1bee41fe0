package api

import (
	"errors"
	"net/http"

	"carouselforge/cleanup"
	"carouselforge/store"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers the admin portal endpoints.
func RegisterAdminRoutes(r *gin.Engine, h *Handlers) {
	g := r.Group("/api/admin")

	g.GET("/projects", h.handleAdminListProjects)
	g.DELETE("/projects", h.handleAdminDeleteProjects)
	g.GET("/projects/:id", h.handleAdminGetProject)
	g.PATCH("/projects/:id", h.handleAdminUpdateProject)
	g.DELETE("/projects/:id", h.handleDeleteProject)

	g.PATCH("/slides/:id", h.handleAdminUpdateSlide)
	g.DELETE("/slides/:id", h.handleAdminDeleteSlide)

	g.GET("/brand-kits", h.handleAdminListBrandKits)
	g.DELETE("/brand-kits", h.handleAdminDeleteBrandKits)
	g.PATCH("/brand-kits/:id", h.handleAdminUpdateBrandKit)
	g.DELETE("/brand-kits/:id", h.handleAdminDeleteBrandKit)

	g.POST("/cleanup", h.handleCleanup)
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// storeError maps store errors for admin writes.
func storeError(c *gin.Context, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, notFound, nil)
	case errors.Is(err, store.ErrInvalidUpdate):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}

func (h *Handlers) handleAdminListProjects(c *gin.Context) {
	projects, stats, err := h.Store.ListProjectsWithStats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "stats": stats})
}

func (h *Handlers) handleAdminDeleteProjects(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondError(c, http.StatusBadRequest, "No project IDs provided", nil)
		return
	}
	n, err := h.Store.DeleteProjects(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": n})
}

func (h *Handlers) handleAdminGetProject(c *gin.Context) {
	p, err := h.Store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "Project not found", "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handlers) handleAdminUpdateProject(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	p, err := h.Store.UpdateProjectFields(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		storeError(c, err, "Project not found", "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handlers) handleAdminUpdateSlide(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	slide, err := h.Store.UpdateSlideFields(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		storeError(c, err, "Slide not found", "Failed to update slide")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slide": slide})
}

func (h *Handlers) handleAdminDeleteSlide(c *gin.Context) {
	if err := h.Store.DeleteSlide(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, "Slide not found", "Failed to delete slide")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) handleAdminListBrandKits(c *gin.Context) {
	kits, stats, err := h.Store.ListBrandKitsWithStats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch brand kits", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brandKits": kits, "stats": stats})
}

func (h *Handlers) handleAdminDeleteBrandKits(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondError(c, http.StatusBadRequest, "No brand kit IDs provided", nil)
		return
	}
	n, err := h.Store.DeleteBrandKits(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete brand kits", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": n})
}

func (h *Handlers) handleAdminUpdateBrandKit(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	kit, err := h.Store.UpdateBrandKitFields(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		storeError(c, err, "Brand kit not found", "Failed to update brand kit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"brandKit": kit})
}

func (h *Handlers) handleAdminDeleteBrandKit(c *gin.Context) {
	if err := h.Store.DeleteBrandKit(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, "Brand kit not found", "Failed to delete brand kit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) handleCleanup(c *gin.Context) {
	if h.Cleanup == nil {
		respondError(c, http.StatusServiceUnavailable, "Cleanup is not configured", nil)
		return
	}
	deleted, err := h.Cleanup.RunOnce(c.Request.Context())
	if errors.Is(err, cleanup.ErrBusy) {
		respondError(c, http.StatusConflict, "Cleanup is already running", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Cleanup failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
