package scrapers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"carouselforge/cache"
	"carouselforge/config"
	"carouselforge/types"

	readability "github.com/go-shiori/go-readability"
)

// ExtractWebContent fetches url and extracts its main readable text.
func (s *Scraper) ExtractWebContent(ctx context.Context, pageURL string) (*types.Article, error) {
	key := cache.Key("article", pageURL)
	var cachedArticle types.Article
	if s.cached(ctx, key, &cachedArticle) {
		return &cachedArticle, nil
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", pageURL, err)
	}

	body, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	extracted, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return nil, fmt.Errorf("readability extraction failed: %w", err)
	}

	text := CollapseWhitespace(extracted.TextContent)
	if text == "" {
		return nil, ErrNoContent
	}

	article := &types.Article{
		ID:        types.GenerateID(pageURL),
		Title:     strings.TrimSpace(extracted.Title),
		URL:       pageURL,
		SiteName:  extracted.SiteName,
		Byline:    extracted.Byline,
		Excerpt:   extracted.Excerpt,
		ImageURL:  extracted.Image,
		FetchedAt: time.Now(),
		Text:      text,
	}
	log.Printf("✓ Extracted: %s (%d chars)", article.Title, len(article.Text))

	s.store(ctx, key, article, config.ContentCacheTTL)
	return article, nil
}

// SourceText joins an article's title and body for prompting.
func SourceText(a *types.Article) string {
	if a.Title == "" {
		return a.Text
	}
	return a.Title + "\n\n" + a.Text
}
