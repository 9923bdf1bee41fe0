package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"carouselforge/config"
	"carouselforge/uploads"

	"github.com/gin-gonic/gin"
)

// RegisterUploadRoutes registers image upload and serving.
func RegisterUploadRoutes(r *gin.Engine, h *Handlers) {
	r.POST("/api/upload-image", h.handleUploadImage)
	r.GET("/uploads/:filename", h.handleServeUpload)
	if h.FramesDir != "" {
		r.GET("/frames/:filename", h.handleServeFrame)
	}
}

func (h *Handlers) handleUploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}
	defer f.Close()

	url, err := h.Uploads.SaveUpload(c.Request.Context(), f, fh.Filename, fh.Header.Get("Content-Type"))
	if errors.Is(err, uploads.ErrNotImage) {
		respondError(c, http.StatusBadRequest, "File must be an image", nil)
		return
	}
	if errors.Is(err, uploads.ErrTooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, "File is too large", nil)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

func (h *Handlers) handleServeUpload(c *gin.Context) {
	rc, contentType, err := h.Uploads.Open(c.Request.Context(), c.Param("filename"))
	switch {
	case errors.Is(err, uploads.ErrInvalidFilename):
		respondError(c, http.StatusBadRequest, "Invalid filename", nil)
		return
	case errors.Is(err, uploads.ErrNotFound):
		respondError(c, http.StatusNotFound, "File not found", nil)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "Failed to read file", err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", config.UploadCacheControl)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// handleServeFrame serves extractor output from the frames directory.
func (h *Handlers) handleServeFrame(c *gin.Context) {
	name := c.Param("filename")
	if err := uploads.ValidateFilename(name); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid filename", nil)
		return
	}
	path := filepath.Join(h.FramesDir, name)
	if _, err := os.Stat(path); err != nil {
		respondError(c, http.StatusNotFound, "File not found", nil)
		return
	}
	c.Header("Cache-Control", config.UploadCacheControl)
	c.File(path)
}
