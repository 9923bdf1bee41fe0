package scrapers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://example.com/watch", ""},
		{"short", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractVideoID(tt.in), tt.in)
	}
}

func TestCaptionProcessing(t *testing.T) {
	assert.Equal(t, "Tom's & Jerry's", DecodeEntities("Tom&#39;s &amp;amp; Jerry&#39;s"))
	assert.Equal(t, "hello world", CleanCaption("  [Music]  hello\n  world [Applause]"))
	assert.Equal(t, "i am sure it is fine", ExpandContractions("I'm sure it's fine"))
	assert.Equal(t, "build habits daily", RemoveStopwords("You should build the habits, daily!"))

	assert.Equal(t, "am sure fine", ProcessCaption("I'm sure it's fine", "en-US"))
	assert.Equal(t, "Es ist gut", ProcessCaption("Es ist  gut", "de"))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Hindi", LanguageName("hi-IN"))
	assert.Equal(t, "English", LanguageName("EN"))
	assert.Equal(t, "Portuguese", LanguageName("pt_BR"))
	assert.Equal(t, "", LanguageName("xx"))
	assert.Len(t, languageNames, 22)
}

func TestSmartTruncate(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, SmartTruncate(short, 100))

	text := strings.Repeat("a", 100) + strings.Repeat("m", 100) + strings.Repeat("z", 100)
	out := SmartTruncate(text, 30)
	assert.True(t, strings.HasPrefix(out, "[BEGINNING OF CONTENT]\naaaaaaaaaa\n"))
	assert.Contains(t, out, "[MIDDLE OF CONTENT]\nmmmmmmmmmm\n")
	assert.True(t, strings.HasSuffix(out, "[END OF CONTENT]\nzzzzzzzzzz"))
}

func TestFormatTimestampedTranscript(t *testing.T) {
	out := FormatTimestampedTranscript([]TranscriptSegment{
		{Text: "intro", StartTime: 5.9},
		{Text: "point", StartTime: 125},
		{Text: "late", StartTime: 3725},
	})
	assert.Equal(t, "[00:05] intro\n[02:05] point\n[62:05] late", out)
}

func TestBuildTranscript(t *testing.T) {
	_, err := BuildTranscript("id", "en", nil)
	assert.ErrorIs(t, err, ErrNoTranscript)

	_, err = BuildTranscript("id", "en", []TranscriptSegment{{Text: "[Music]"}})
	assert.ErrorIs(t, err, ErrNoTranscript)

	tr, err := BuildTranscript("id", "en", []TranscriptSegment{
		{Text: "[Music]", StartTime: 0, Duration: 2},
		{Text: "Growth compounds &amp; wins", StartTime: 2, Duration: 3},
	})
	require.NoError(t, err)
	require.Len(t, tr.Segments, 1)
	assert.Equal(t, "Growth compounds & wins", tr.Segments[0].Text)
	assert.Equal(t, 5.0, tr.Segments[0].End())
	assert.Equal(t, "growth compounds wins", tr.Text)
}

func TestTranscriptAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "abcdefghijk", r.URL.Query().Get("video_url"))
		assert.Equal(t, "true", r.URL.Query().Get("include_timestamp"))
		fmt.Fprint(w, `{"language":"hi-IN","transcript":[{"text":"namaste dosto","start":1.5,"duration":2}]}`)
	}))
	defer srv.Close()

	api := NewTranscriptAPI(srv.URL, "secret", srv.Client())
	tr, err := api.Fetch(context.Background(), "abcdefghijk")
	require.NoError(t, err)
	assert.Equal(t, "hi-IN", tr.Language)
	assert.Equal(t, "namaste dosto", tr.Text)
	assert.Equal(t, 1.5, tr.Segments[0].StartTime)

	_, err = NewTranscriptAPI(srv.URL, "wrong", srv.Client()).Fetch(context.Background(), "abcdefghijk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

type fakeTranscripts struct {
	calls int
	tr    *Transcript
	err   error
}

func (f *fakeTranscripts) Fetch(_ context.Context, videoID string) (*Transcript, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.tr
	out.VideoID = videoID
	return &out, nil
}

func TestScraperTranscript(t *testing.T) {
	fake := &fakeTranscripts{tr: &Transcript{Language: "en", Text: "x", Segments: []TranscriptSegment{{Text: "x"}}}}
	s := New(WithTranscriptFetcher(fake))

	tr, err := s.Transcript(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", tr.VideoID)
	assert.Equal(t, 1, fake.calls)

	_, err = s.Transcript(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrInvalidVideoURL)

	fake.err = ErrNoTranscript
	_, err = s.Transcript(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

const articleHTML = `<!doctype html><html><head><title>Compounding Habits</title></head>
<body><nav>Home | About</nav><article><h1>Compounding Habits</h1>
<p>Small daily improvements add up to remarkable results over a long enough time horizon, and most people underestimate how quickly the curve bends upward.</p>
<p>The key is to design an environment where the right action is the easiest action, so that willpower is not the bottleneck for progress at all.</p>
<p>Track the behaviour rather than the outcome, because outcomes lag while behaviours are fully within your control every single day of the week.</p>
</article><footer>Copyright</footer></body></html>`

func TestExtractWebContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty":
			fmt.Fprint(w, `<html><body></body></html>`)
		case "/gone":
			http.NotFound(w, r)
		default:
			assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
			fmt.Fprint(w, articleHTML)
		}
	}))
	defer srv.Close()

	s := New(WithHTTPClient(srv.Client()))
	a, err := s.ExtractWebContent(context.Background(), srv.URL+"/post")
	require.NoError(t, err)
	assert.Contains(t, a.Text, "Small daily improvements")
	assert.NotContains(t, a.Text, "  ")
	assert.True(t, strings.HasPrefix(SourceText(a), a.Title+"\n\n"))

	_, err = s.ExtractWebContent(context.Background(), srv.URL+"/gone")
	assert.Error(t, err)
}

const rssXML = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Growth Weekly</title>
<item><title>Older post</title><link>https://example.com/old</link><description>old news</description><pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate></item>
<item><title>Newest post</title><link>https://example.com/new</link><description>&lt;p&gt;fresh &lt;b&gt;ideas&lt;/b&gt;&lt;/p&gt;</description><pubDate>Wed, 03 Jan 2024 10:00:00 GMT</pubDate></item>
<item><title>Middle post</title><link>https://example.com/mid</link><description>mid news</description><pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate></item>
</channel></rss>`

func TestExtractFeedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssXML)
	}))
	defer srv.Close()

	s := New(WithHTTPClient(srv.Client()))
	articles, err := s.FetchFeed(context.Background(), srv.URL, 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Newest post", articles[0].Title)
	assert.Equal(t, "fresh ideas", articles[0].Text)
	assert.Equal(t, "Middle post", articles[1].Title)

	content, err := s.ExtractFeedContent(context.Background(), srv.URL, 2)
	require.NoError(t, err)
	assert.Equal(t, "Newest post\n\nfresh ideas\n\n---\n\nMiddle post\n\nmid news", content)
}

func TestResolveFeedURL(t *testing.T) {
	assert.Equal(t, "https://hnrss.org/newest", ResolveFeedURL("hn"))
	assert.Equal(t, "https://example.com/rss", ResolveFeedURL(" https://example.com/rss "))
}

func TestExtractBrand(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site.css":
			fmt.Fprint(w, `body{background:#1a2b3c} .btn{color:#1a2b3c} a{color:#ff5500}`)
		case "/missing.css":
			http.NotFound(w, r)
		default:
			fmt.Fprintf(w, `<html><head>
<title>Acme Studio | Design Tools</title>
<meta name="theme-color" content="#00AA55">
<link rel="icon" href="/favicon.png">
<link rel="stylesheet" href="/site.css">
<link rel="stylesheet" href="%s/missing.css">
</head><body style="color:#ffffff"></body></html>`, srvURL)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	s := New(WithHTTPClient(srv.Client()))
	brand, err := s.ExtractBrand(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, "Acme Studio", brand.Name)
	assert.Equal(t, "@AcmeStudio|D", brand.Handle)
	assert.Equal(t, srv.URL+"/favicon.png", brand.ImageURL)
	assert.Equal(t, "#1a2b3c", brand.Colors.Background)
	assert.Equal(t, "#ffffff", brand.Colors.Text)
	assert.Equal(t, "#00AA55", brand.Colors.Accent)
	assert.Equal(t, brand.Colors.Text, brand.Colors.Heading)
	assert.Equal(t, "Inter", brand.Fonts.Heading)
}

func TestBuildPalette(t *testing.T) {
	tests := []struct {
		name   string
		ranked []string
		theme  string
		want   [3]string
	}{
		{"empty", nil, "", [3]string{"#ffffff", "#000000", "#3b82f6"}},
		{"white dominant", []string{"#fff", "#ff0000"}, "", [3]string{"#ffffff", "#000000", "#ff0000"}},
		{"light colorful", []string{"#f0c040"}, "", [3]string{"#f0c040", "#000000", "#f0c040"}},
		{"dark colorful", []string{"#203040", "#000"}, "", [3]string{"#203040", "#ffffff", "#203040"}},
		{"bad theme color", []string{"#000000"}, "red", [3]string{"#ffffff", "#000000", "#3b82f6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPalette(tt.ranked, tt.theme)
			assert.Equal(t, tt.want, [3]string{p.Background, p.Text, p.Accent})
		})
	}
}

func TestRankColors(t *testing.T) {
	got := RankColors("#ABC #abc #123456 #fff #123456 #123456 #12345g")
	assert.Equal(t, []string{"#123456", "#abc", "#fff"}, got)
}
