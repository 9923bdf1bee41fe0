package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"carouselforge/config"
	"carouselforge/jobs"
	"carouselforge/store"
	"carouselforge/types"
	"carouselforge/uploads"

	"github.com/gin-gonic/gin"
)

// RegisterProjectRoutes registers saved carousel endpoints.
func RegisterProjectRoutes(r *gin.Engine, h *Handlers) {
	g := r.Group("/api/projects")
	g.GET("", h.handleListProjects)
	g.POST("", h.handleSaveProject)
	g.GET("/:id", h.handleGetProject)
	g.DELETE("/:id", h.handleDeleteProject)
	g.POST("/:id/frames", h.handleQueueFrames)
}

func (h *Handlers) handleListProjects(c *gin.Context) {
	projects, err := h.Store.ListRecentProjects(c.Request.Context(), config.RecentProjectsLimit, config.RecentProjectSlides)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch projects", err)
		return
	}
	for _, p := range projects {
		p.ApplyImageDefaults()
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handlers) handleSaveProject(c *gin.Context) {
	var req types.CarouselData
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	ctx := c.Request.Context()

	p := &types.Project{
		ID:          req.ID,
		Topic:       req.Topic,
		BrandName:   req.BrandName,
		BrandHandle: req.BrandHandle,
		BrandImage:  h.persistDataImage(ctx, req.BrandImage, "brand"),
		HostImage:   h.persistDataImage(ctx, req.HostImage, "host"),
		GuestImage:  h.persistDataImage(ctx, req.GuestImage, "guest"),
		TemplateID:  req.TemplateID,
		Slides:      req.Slides,
	}
	p.SetTheme(req.Theme)

	for i := range p.Slides {
		bg := p.Slides[i].BackgroundImageURL
		if !strings.HasPrefix(bg, "http") {
			continue
		}
		saved, err := h.Uploads.SaveImage(ctx, bg, fmt.Sprintf("slide-%d", i))
		if err != nil {
			log.Printf("⚠️  Failed to save image for slide %d, keeping remote url: %v", i, err)
			continue
		}
		p.Slides[i].BackgroundImageURL = saved
	}

	saved, err := h.Store.SaveProject(ctx, p)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Project not found", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save project", err)
		return
	}
	log.Printf("✅ Saved project %s (%d slides)", saved.ID, len(saved.Slides))
	c.JSON(http.StatusOK, gin.H{"id": saved.ID, "project": saved})
}

// persistDataImage stores data: URIs as uploads; anything else is returned as is.
func (h *Handlers) persistDataImage(ctx context.Context, image, name string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	url, err := h.Uploads.SaveImage(ctx, image, name)
	if err != nil {
		log.Printf("⚠️  Failed to save %s image: %v", name, err)
		return image
	}
	return url
}

func (h *Handlers) handleGetProject(c *gin.Context) {
	p, err := h.Store.GetProject(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Project not found", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p.CarouselData()})
}

func (h *Handlers) handleDeleteProject(c *gin.Context) {
	deleted, err := h.deleteProjectWithImages(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Project not found", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deletedImages": deleted})
}

// deleteProjectWithImages removes a project and every /uploads image it used
// that no other project, slide or brand kit references.
func (h *Handlers) deleteProjectWithImages(ctx context.Context, id string) ([]string, error) {
	p, err := h.Store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var candidates []string
	add := func(url string) {
		if uploads.IsLocal(url) && !seen[url] {
			seen[url] = true
			candidates = append(candidates, url)
		}
	}
	add(p.BrandImage)
	add(p.HostImage)
	add(p.GuestImage)
	for _, s := range p.Slides {
		add(s.BackgroundImageURL)
	}

	var orphaned []string
	for _, url := range candidates {
		used, err := h.Store.ImageReferencedElsewhere(ctx, url, id)
		if err != nil {
			return nil, err
		}
		if !used {
			orphaned = append(orphaned, url)
		}
	}

	if err := h.Store.DeleteProject(ctx, id); err != nil {
		return nil, err
	}

	deleted := []string{}
	for _, url := range orphaned {
		if err := h.Uploads.Delete(ctx, url); err != nil {
			log.Printf("⚠️  Failed to delete image %s: %v", url, err)
			continue
		}
		deleted = append(deleted, url)
	}
	log.Printf("🗑️  Deleted project %s and %d images", id, len(deleted))
	return deleted, nil
}

type queueFramesRequest struct {
	VideoURL string `json:"videoUrl" binding:"required"`
}

func (h *Handlers) handleQueueFrames(c *gin.Context) {
	if h.Jobs == nil {
		respondError(c, http.StatusServiceUnavailable, "Frame extraction jobs are not configured", nil)
		return
	}
	var req queueFramesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "videoUrl is required", nil)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.Store.GetProject(ctx, id); errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Project not found", nil)
		return
	} else if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch project", err)
		return
	}

	job, err := jobs.NewFrameJob(id, req.VideoURL)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid YouTube URL", nil)
		return
	}
	if err := h.Jobs.Publish(ctx, job); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to queue frame extraction", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"jobId": job.ID, "projectId": id, "videoId": job.VideoID})
}
