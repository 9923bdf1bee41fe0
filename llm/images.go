package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"carouselforge/config"
)

// Image is one generated image, returned either as a URL or base64 PNG.
type Image struct {
	URL string
	B64 string
}

// Source returns the image as something uploads.SaveImage accepts.
func (i Image) Source() string {
	if i.URL != "" {
		return i.URL
	}
	return "data:image/png;base64," + i.B64
}

// Reference is an input image for an edit request.
type Reference struct {
	Name string
	Data []byte
}

// ImageGenerator creates and edits images.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (Image, error)
	EditImage(ctx context.Context, prompt string, refs []Reference) (Image, error)
}

type imageGenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (r imageResponse) first() (Image, error) {
	if len(r.Data) == 0 || (r.Data[0].URL == "" && r.Data[0].B64JSON == "") {
		return Image{}, errors.New("no image returned from API")
	}
	return Image{URL: r.Data[0].URL, B64: r.Data[0].B64JSON}, nil
}

// GenerateImage renders prompt with gpt-image-1, falling back to dall-e-3
// when the primary model is not available.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	img, err := c.generate(ctx, imageGenerationRequest{
		Model:   c.imageModel,
		Prompt:  prompt,
		N:       1,
		Size:    config.DefaultImageSize,
		Quality: "high",
	})
	if err == nil || !IsModelUnavailable(err) {
		return img, err
	}

	log.Printf("⚠️  %s unavailable, falling back to %s: %v", c.imageModel, config.FallbackImageModel, err)
	return c.generate(ctx, imageGenerationRequest{
		Model:   config.FallbackImageModel,
		Prompt:  prompt,
		N:       1,
		Size:    config.DefaultImageSize,
		Quality: "hd",
	})
}

func (c *OpenAIClient) generate(ctx context.Context, payload imageGenerationRequest) (Image, error) {
	var out imageResponse
	if err := c.postJSON(ctx, "/images/generations", payload, &out); err != nil {
		return Image{}, err
	}
	return out.first()
}

// EditImage sends refs to the edits endpoint. Several references are
// passed as image[] parts.
func (c *OpenAIClient) EditImage(ctx context.Context, prompt string, refs []Reference) (Image, error) {
	if len(refs) == 0 {
		return Image{}, errors.New("edit requires at least one reference image")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"model":  c.imageModel,
		"prompt": prompt,
		"n":      "1",
		"size":   config.DefaultImageSize,
	}
	for _, k := range []string{"model", "prompt", "n", "size"} {
		if err := w.WriteField(k, fields[k]); err != nil {
			return Image{}, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	field := "image"
	if len(refs) > 1 {
		field = "image[]"
	}
	for i, ref := range refs {
		name := ref.Name
		if name == "" {
			name = fmt.Sprintf("reference-%d.png", i)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, escapeQuotes(name)))
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			return Image{}, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(ref.Data); err != nil {
			return Image{}, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return Image{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &body)
	if err != nil {
		return Image{}, fmt.Errorf("llm request: new request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out imageResponse
	if err := c.do(req, &out); err != nil {
		return Image{}, err
	}
	return out.first()
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
