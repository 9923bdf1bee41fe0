package cache

import (
	"context"
	"testing"
	"time"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"simple", "https://example.com/path", "https://example.com/path"},
		{"utm and fragment", "https://example.com/path?utm_source=feed#section", "https://example.com/path"},
		{"uppercase host", "HTTP://Example.COM/", "http://example.com"},
		{"tracking params", "https://example.com/?fbclid=XYZ&gclid=ABC&utm_medium=1", "https://example.com"},
		{"keeps video id", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&utm_campaign=x", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"empty", "  ", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeURL(c.url); got != c.want {
				t.Fatalf("NormalizeURL(%q) = %q; want %q", c.url, got, c.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	a := Key("content", "https://Example.com/post/?utm_source=x", "en")
	b := Key("content", "https://example.com/post", "en")
	if a != b {
		t.Fatalf("equivalent urls produced different keys: %q vs %q", a, b)
	}
	if c := Key("content", "https://example.com/post", "de"); c == a {
		t.Fatalf("different parts produced the same key")
	}
	if Key("brand", "x") == Key("content", "x") {
		t.Fatalf("namespace ignored")
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("Set on nil cache: %v", err)
	}
	var dst map[string]string
	hit, err := c.Get(ctx, "k", &dst)
	if err != nil || hit {
		t.Fatalf("Get on nil cache = %v, %v; want miss", hit, err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil cache: %v", err)
	}
}
