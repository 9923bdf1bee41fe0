package scrapers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"carouselforge/cache"
	"carouselforge/config"
	"carouselforge/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// FeedPreset is a named RSS feed that can be used instead of a URL.
type FeedPreset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedPresets maps friendly keys to feeds
var FeedPresets = map[string]FeedPreset{
	"cna": {Name: "Channel News Asia", URL: "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml"},
	"st":  {Name: "Straits Times", URL: "https://www.straitstimes.com/news/singapore/rss.xml"},
	"hn":  {Name: "Hacker News", URL: "https://hnrss.org/newest"},
	"tr":  {Name: "Technology Review", URL: "https://www.technologyreview.com/feed/"},
}

// ResolveFeedURL returns the preset URL for a preset key, otherwise the input.
func ResolveFeedURL(input string) string {
	if preset, ok := FeedPresets[strings.ToLower(strings.TrimSpace(input))]; ok {
		return preset.URL
	}
	return strings.TrimSpace(input)
}

// FetchFeed retrieves and parses an RSS/Atom feed and returns its newest
// maxCount items as articles.
func (s *Scraper) FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]*types.Article, error) {
	parser := gofeed.NewParser()
	parser.Client = s.httpClient
	parser.UserAgent = UserAgent

	feed, err := parser.ParseURLWithContext(ResolveFeedURL(feedURL), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	items := make([]*gofeed.Item, len(feed.Items))
	copy(items, feed.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return itemTime(items[i]).After(itemTime(items[j]))
	})

	count := min(len(items), maxCount)
	articles := make([]*types.Article, 0, count)
	for _, item := range items[:count] {
		id := item.GUID
		if id == "" && item.Link != "" {
			id = types.GenerateID(item.Link)
		}

		summary := item.Content
		if summary == "" {
			summary = item.Description
		}

		byline := ""
		if item.Author != nil {
			byline = item.Author.Name
		}

		article := &types.Article{
			ID:          id,
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			SiteName:    feed.Title,
			Byline:      byline,
			PublishedAt: itemTime(item),
			FetchedAt:   time.Now(),
			Text:        htmlToText(summary),
		}
		if item.Image != nil {
			article.ImageURL = item.Image.URL
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// ExtractFeedContent concatenates the title and text of a feed's newest n items.
func (s *Scraper) ExtractFeedContent(ctx context.Context, feedURL string, n int) (string, error) {
	if n <= 0 {
		n = config.DefaultFeedItems
	}

	key := cache.Key("feed", feedURL, strconv.Itoa(n))
	var content string
	if s.cached(ctx, key, &content) {
		return content, nil
	}

	articles, err := s.FetchFeed(ctx, feedURL, n)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(articles))
	for _, a := range articles {
		if text := strings.TrimSpace(SourceText(a)); text != "" {
			parts = append(parts, text)
		}
	}
	content = strings.Join(parts, "\n\n---\n\n")
	if content == "" {
		return "", ErrNoContent
	}

	s.store(ctx, key, content, config.ContentCacheTTL)
	return content, nil
}

func itemTime(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return *item.PublishedParsed
	case item.UpdatedParsed != nil:
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// htmlToText strips markup from feed descriptions.
func htmlToText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return CollapseWhitespace(DecodeEntities(fragment))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseWhitespace(fragment)
	}
	return CollapseWhitespace(doc.Text())
}
