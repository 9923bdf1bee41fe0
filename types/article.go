package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Article is readable source content pulled from a link or a feed item.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SiteName    string    `json:"site_name,omitempty"`
	Byline      string    `json:"byline,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	Text        string    `json:"text"`
}

// GenerateID creates a short stable ID from a URL
func GenerateID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
