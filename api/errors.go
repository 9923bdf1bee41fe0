package api

import (
	"errors"
	"log"
	"net/http"

	"carouselforge/generation"
	"carouselforge/llm"

	"github.com/gin-gonic/gin"
)

// respondError writes {"error": message} and logs the cause.
func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		log.Printf("❌ API Error: %s - %v", message, err)
	}
	c.JSON(status, gin.H{"error": message})
}

// upstreamError maps provider status errors to what the editor shows.
// ok is false when err did not come from the provider.
func upstreamError(err error) (status int, message string, ok bool) {
	var se *llm.StatusError
	if !errors.As(err, &se) {
		return 0, "", false
	}
	switch se.StatusCode {
	case http.StatusUnauthorized:
		return se.StatusCode, "Invalid API key. Please check your OpenAI API key.", true
	case http.StatusTooManyRequests:
		return se.StatusCode, "Rate limit exceeded. Please try again later.", true
	case http.StatusForbidden:
		return se.StatusCode, "Access denied. Your API key may not have access to GPT-4o.", true
	}
	if se.Message != "" {
		return se.StatusCode, se.Message, true
	}
	return se.StatusCode, http.StatusText(se.StatusCode), true
}

// generationError maps errors of the text generation endpoints.
func generationError(c *gin.Context, err error, fallback string) {
	if status, msg, ok := upstreamError(err); ok {
		respondError(c, status, msg, err)
		return
	}
	switch {
	case errors.Is(err, generation.ErrTopicRequired):
		respondError(c, http.StatusBadRequest, "Topic is required", nil)
	case errors.Is(err, generation.ErrExtractionFailed):
		respondError(c, http.StatusBadRequest, "Failed to extract content. Please ensure the video has captions/subtitles available.", err)
	case errors.Is(err, generation.ErrInsufficientContent):
		respondError(c, http.StatusBadRequest, "Could not retrieve transcript or content from this link. Please check the URL or try a video with clear captions.", err)
	case errors.Is(err, generation.ErrEmptyResponse):
		respondError(c, http.StatusInternalServerError, "No content generated", err)
	case errors.Is(err, llm.ErrTruncated):
		respondError(c, http.StatusInternalServerError, "Response was truncated. Try reducing slide count.", err)
	case errors.Is(err, generation.ErrInvalidResponse):
		respondError(c, http.StatusInternalServerError, "Invalid response structure", err)
	case errors.Is(err, generation.ErrParseResponse):
		respondError(c, http.StatusInternalServerError, "Failed to parse AI response. Please try again.", err)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}

// imageError maps errors of the image endpoints. policyMessage is shown when
// the provider's content filter rejected the request.
func imageError(c *gin.Context, err error, policyMessage, fallback string) {
	var se *llm.StatusError
	switch {
	case errors.Is(err, generation.ErrNoImageGenerator):
		respondError(c, http.StatusServiceUnavailable, "Image generation is not configured", err)
	case errors.Is(err, generation.ErrImageRequired):
		respondError(c, http.StatusBadRequest, "Image URL is required", nil)
	case errors.Is(err, generation.ErrEditUnavailable):
		respondError(c, http.StatusServiceUnavailable, "Image editing is not available with the current API configuration. Please ensure you have access to the latest OpenAI image models.", err)
	case llm.IsContentPolicy(err):
		respondError(c, http.StatusBadRequest, policyMessage, err)
	case errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized:
		respondError(c, http.StatusUnauthorized, "Invalid API key", err)
	case errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests:
		respondError(c, http.StatusTooManyRequests, "Rate limit exceeded. Please wait and try again.", err)
	case errors.As(err, &se) && se.Message != "":
		respondError(c, http.StatusInternalServerError, se.Message, err)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}
