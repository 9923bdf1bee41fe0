package uploads

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"carouselforge/config"
)

var (
	// ErrInvalidFilename is returned for names that could escape the uploads dir
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrInvalidSource is returned when an image source is neither a data URI nor an http(s) URL
	ErrInvalidSource = errors.New("invalid image source: must be URL or base64 data URI")

	// ErrNotImage is returned when an upload is not an image
	ErrNotImage = errors.New("file must be an image")

	// ErrTooLarge is returned for images over config.MaxUploadBytes
	ErrTooLarge = errors.New("image too large")

	// ErrNotFound is returned when a stored file does not exist
	ErrNotFound = errors.New("file not found")
)

// Mirror is a remote copy of the uploads dir, normally an S3 bucket.
type Mirror interface {
	Put(ctx context.Context, name string, body io.Reader, contentType, cacheControl string) error
	Get(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}

// Store writes images to a local directory served under /uploads/.
type Store struct {
	dir        string
	mirror     Mirror
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes the store.
type Option func(*Store)

// WithMirror copies every saved file to m and falls back to it on reads.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// WithHTTPClient overrides the client used to download remote images.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithClock overrides the time source used in generated file names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:        dir,
		httpClient: &http.Client{Timeout: config.FetchTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the local uploads directory.
func (s *Store) Dir() string { return s.dir }

// SaveImage stores an image given as a data URI or a remote URL under
// "<name>-<unixMillis>.png" and returns its public /uploads/ path.
func (s *Store) SaveImage(ctx context.Context, source, name string) (string, error) {
	var data []byte
	switch {
	case strings.HasPrefix(source, "data:"):
		decoded, err := DecodeDataURI(source)
		if err != nil {
			return "", err
		}
		data = decoded
	case strings.HasPrefix(source, "http"):
		downloaded, err := s.download(ctx, source)
		if err != nil {
			return "", err
		}
		data = downloaded
	default:
		return "", ErrInvalidSource
	}

	filename := fmt.Sprintf("%s-%d.png", name, s.now().UnixMilli())
	return s.SaveBytes(ctx, filename, data, "image/png")
}

// SaveUpload stores a multipart upload as "slide-<ms>-<ms+1>.<ext>".
func (s *Store) SaveUpload(ctx context.Context, r io.Reader, originalName, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}
	data, err := io.ReadAll(io.LimitReader(r, config.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > config.MaxUploadBytes {
		return "", fmt.Errorf("%w: upload exceeds %d bytes", ErrTooLarge, config.MaxUploadBytes)
	}

	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		ext = "png"
	}
	ms := s.now().UnixMilli()
	filename := fmt.Sprintf("slide-%d-%d.%s", ms, ms+1, ext)
	return s.SaveBytes(ctx, filename, data, contentType)
}

// SaveBytes writes data under filename and mirrors it when configured.
func (s *Store) SaveBytes(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}

	if s.mirror != nil {
		if err := s.mirror.Put(ctx, "uploads/"+filename, bytes.NewReader(data), contentType, config.UploadCacheControl); err != nil {
			log.Printf("⚠️  Failed to mirror %s: %v", filename, err)
		}
	}
	return config.UploadsURLPrefix + filename, nil
}

// Open returns a stored file and its content type. Missing local files are
// read from the mirror when one is configured.
func (s *Store) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, "", err
	}
	contentType := ContentTypeFor(filename)

	f, err := os.Open(filepath.Join(s.dir, filename))
	if err == nil {
		return f, contentType, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("open %s: %w", filename, err)
	}
	if s.mirror == nil {
		return nil, "", ErrNotFound
	}

	body, remoteType, err := s.mirror.Get(ctx, "uploads/"+filename)
	if err != nil {
		return nil, "", ErrNotFound
	}
	if remoteType != "" && contentType == "application/octet-stream" {
		contentType = remoteType
	}
	return body, contentType, nil
}

// Delete removes a file referenced by its /uploads/ URL. Other URLs are ignored.
func (s *Store) Delete(ctx context.Context, url string) error {
	filename, ok := FilenameFromURL(url)
	if !ok {
		return nil
	}
	if err := ValidateFilename(filename); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	if s.mirror != nil {
		if mErr := s.mirror.Delete(ctx, "uploads/"+filename); mErr != nil {
			log.Printf("⚠️  Failed to delete mirrored %s: %v", filename, mErr)
		}
	}
	return nil
}

// ReadImage loads image bytes from an /uploads/ path, a data URI or a remote URL.
func (s *Store) ReadImage(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return DecodeDataURI(ref)
	case strings.HasPrefix(ref, "http"):
		return s.download(ctx, ref)
	}
	filename, ok := FilenameFromURL(ref)
	if !ok {
		return nil, ErrInvalidSource
	}
	rc, _, err := s.Open(ctx, filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// FileInfo describes a stored upload.
type FileInfo struct {
	Name    string
	URL     string
	ModTime time.Time
}

// List returns local uploads sorted by name.
func (s *Store) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}
	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{Name: e.Name(), URL: config.UploadsURLPrefix + e.Name(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch image: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > config.MaxUploadBytes {
		return nil, fmt.Errorf("%w: remote image exceeds %d bytes", ErrTooLarge, config.MaxUploadBytes)
	}
	return data, nil
}

// DecodeDataURI returns the payload of a base64 data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", ErrInvalidSource)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return data, nil
}

// ValidateFilename rejects empty names and names containing "..", "/" or "\".
func ValidateFilename(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return ErrInvalidFilename
	}
	return nil
}

// FilenameFromURL extracts the file name from an /uploads/ URL.
func FilenameFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, config.UploadsURLPrefix) {
		return "", false
	}
	return strings.TrimPrefix(url, config.UploadsURLPrefix), true
}

// IsLocal reports whether url points into the uploads dir.
func IsLocal(url string) bool {
	return strings.HasPrefix(url, config.UploadsURLPrefix)
}

// ContentTypeFor maps a file extension to its image content type.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	}
	return "application/octet-stream"
}
