package scrapers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"carouselforge/cache"
	"carouselforge/config"
	"carouselforge/types"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const defaultAccent = "#3b82f6"

var (
	hexColorRe   = regexp.MustCompile(`#(?:[0-9a-fA-F]{3}){1,2}\b`)
	themeColorRe = regexp.MustCompile(`(?i)^#([0-9a-f]{3}){1,2}$`)
)

// Brand is the brand kit guessed from a website.
type Brand struct {
	Name     string            `json:"name"`
	Website  string            `json:"website"`
	Handle   string            `json:"handle"`
	ImageURL string            `json:"imageUrl"`
	Colors   types.BrandColors `json:"colors"`
	Fonts    types.BrandFonts  `json:"fonts"`
}

// ExtractBrand guesses name, logo and palette of the site at pageURL.
func (s *Scraper) ExtractBrand(ctx context.Context, pageURL string) (*Brand, error) {
	key := cache.Key("brand", pageURL)
	var cachedBrand Brand
	if s.cached(ctx, key, &cachedBrand) {
		return &cachedBrand, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", pageURL, err)
	}

	body, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	title := firstNonEmpty(
		doc.Find("title").First().Text(),
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
		"Unknown Brand",
	)
	title = strings.TrimSpace(title)

	logo := firstNonEmpty(
		metaContent(doc, `meta[property="og:image"]`),
		metaContent(doc, `meta[name="twitter:image"]`),
		attr(doc, `link[rel="icon"]`, "href"),
		attr(doc, `link[rel="shortcut icon"]`, "href"),
	)
	if logo != "" {
		logo = resolveURL(base, logo)
	}

	var hrefs []string
	doc.Find(`link[rel="stylesheet"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if ok && href != "" && !strings.HasPrefix(href, "data:") {
			hrefs = append(hrefs, resolveURL(base, href))
		}
		return len(hrefs) < config.BrandStylesheetLimit
	})

	combined := string(body) + " " + strings.Join(s.fetchStylesheets(ctx, hrefs), " ")
	palette := BuildPalette(RankColors(combined), metaContent(doc, `meta[name="theme-color"]`))

	name, _, _ := strings.Cut(title, "|")
	brand := &Brand{
		Name:     truncateRunes(strings.TrimSpace(name), 50),
		Website:  pageURL,
		Handle:   "@" + strings.Join(strings.Fields(truncateRunes(title, 15)), ""),
		ImageURL: logo,
		Colors:   palette,
		Fonts:    types.BrandFonts{Heading: "Inter", Body: "Inter"},
	}
	log.Printf("✅ Extracted brand %q from %s", brand.Name, pageURL)

	s.store(ctx, key, brand, config.BrandCacheTTL)
	return brand, nil
}

// fetchStylesheets loads stylesheets concurrently. Failures yield "".
func (s *Scraper) fetchStylesheets(ctx context.Context, hrefs []string) []string {
	contents := make([]string, len(hrefs))
	var g errgroup.Group
	for i, href := range hrefs {
		g.Go(func() error {
			cssCtx, cancel := context.WithTimeout(ctx, config.BrandStylesheetTimeout)
			defer cancel()
			css, err := s.fetchPage(cssCtx, href)
			if err != nil {
				log.Printf("⚠️  Failed to fetch CSS %s: %v", href, err)
				return nil
			}
			contents[i] = string(css)
			return nil
		})
	}
	_ = g.Wait()
	return contents
}

// RankColors returns the lowercase hex colors in content, most frequent first.
// Ties keep first-seen order.
func RankColors(content string) []string {
	counts := map[string]int{}
	var order []string
	for _, c := range hexColorRe.FindAllString(content, -1) {
		c = strings.ToLower(c)
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// BuildPalette picks background, text and accent colors from ranked colors.
func BuildPalette(ranked []string, themeColor string) types.BrandColors {
	palette := types.BrandColors{Background: "#ffffff", Text: "#000000", Accent: defaultAccent}

	if len(ranked) > 0 && !isWhiteOrBlack(ranked[0]) {
		palette.Background = ranked[0]
		if r, _, _ := rgb(ranked[0]); r < 128 {
			palette.Text = "#ffffff"
		}
	}

	for _, c := range ranked {
		if !isWhiteOrBlack(c) {
			palette.Accent = c
			break
		}
	}
	if themeColor = strings.TrimSpace(themeColor); themeColorRe.MatchString(themeColor) {
		palette.Accent = themeColor
	}

	palette.Heading = palette.Text
	return palette
}

func isWhiteOrBlack(c string) bool {
	r, g, b := rgb(c)
	return (r > 240 && g > 240 && b > 240) || (r < 15 && g < 15 && b < 15)
}

// rgb parses #rgb or #rrggbb.
func rgb(c string) (r, g, b int64) {
	hex := strings.TrimPrefix(c, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	r, _ = strconv.ParseInt(hex[0:2], 16, 64)
	g, _ = strconv.ParseInt(hex[2:4], 16, 64)
	b, _ = strconv.ParseInt(hex[4:6], 16, 64)
	return r, g, b
}

func metaContent(doc *goquery.Document, selector string) string {
	return attr(doc, selector, "content")
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
