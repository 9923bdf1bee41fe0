package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"carouselforge/llm"
	"carouselforge/types"
	"carouselforge/uploads"
)

// ImageRequest asks for a background image for one slide.
type ImageRequest struct {
	Topic          string `json:"topic"`
	SlideHeading   string `json:"slideHeading"`
	SuggestedImage string `json:"suggestedImage"`
	SlideID        string `json:"slideId"`
	SlideIndex     int    `json:"slideIndex"`
	EntityFocus    string `json:"entityFocus"`
	HostImage      string `json:"hostImage"`
	GuestImage     string `json:"guestImage"`
}

// ImageResult is a saved slide image.
type ImageResult struct {
	ImageURL        string `json:"imageUrl"`
	GeneratedPrompt string `json:"generatedPrompt"`
}

// GenerateImage renders a slide background. When host or guest photos are
// available they are sent as edit references; the title slide gets both.
func (s *Service) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if s.images == nil || s.uploads == nil {
		return nil, ErrNoImageGenerator
	}
	start := s.now()
	focus := req.EntityFocus
	if focus == "" {
		focus = types.EntityNone
	}
	log.Printf("🖼️  Image for slide %d (%s): %s", req.SlideIndex+1, focus, truncate(req.SlideHeading, 60))

	p := imagePrompt{
		Topic:          req.Topic,
		Heading:        req.SlideHeading,
		SuggestedImage: req.SuggestedImage,
		SlideIndex:     req.SlideIndex,
		EntityFocus:    focus,
		HasHost:        req.HostImage != "",
		HasGuest:       req.GuestImage != "",
	}
	full := p.Full()

	refs, err := s.referenceImages(ctx, p.References(), req.HostImage, req.GuestImage)
	if err != nil {
		return nil, err
	}

	var img llm.Image
	if len(refs) > 0 {
		log.Printf("🎭 Using %d reference image(s)", len(refs))
		img, err = s.images.EditImage(ctx, full, refs)
		if err != nil && llm.IsModelUnavailable(err) {
			log.Printf("⚠️  Edits unavailable, generating without references: %v", err)
			img, err = s.images.GenerateImage(ctx, full)
		}
	} else {
		img, err = s.images.GenerateImage(ctx, full)
	}
	if err != nil {
		log.Printf("❌ Image generation failed: %v", err)
		return nil, err
	}

	name := fmt.Sprintf("slide-%d", start.UnixMilli())
	if req.SlideID != "" {
		name = "slide-" + req.SlideID
	}
	url, err := s.uploads.SaveImage(ctx, img.Source(), name)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	log.Printf("✅ Image generated in %s: %s", s.now().Sub(start).Round(time.Millisecond), url)
	return &ImageResult{ImageURL: url, GeneratedPrompt: p.Summary()}, nil
}

func (s *Service) referenceImages(ctx context.Context, which []string, host, guest string) ([]llm.Reference, error) {
	refs := make([]llm.Reference, 0, len(which))
	for _, who := range which {
		ref := host
		if who == types.EntityGuest {
			ref = guest
		}
		data, err := s.loadImage(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("load %s image: %w", who, err)
		}
		refs = append(refs, llm.Reference{Name: who + ".png", Data: data})
	}
	return refs, nil
}

// Enhancement types
const (
	EnhanceQuality  = "quality"
	EnhanceLighting = "lighting"
	EnhanceClarity  = "clarity"
	EnhanceCustom   = "custom"
)

// EnhanceRequest asks for a retouched copy of an image.
type EnhanceRequest struct {
	ImageURL        string `json:"imageUrl"`
	EnhancementType string `json:"enhancementType"`
	CustomPrompt    string `json:"customPrompt"`
	SlideID         string `json:"slideId"`
}

// EnhanceResult is the saved enhanced image.
type EnhanceResult struct {
	ImageURL        string `json:"imageUrl"`
	EnhancementType string `json:"enhancementType"`
	ProcessingTime  int64  `json:"processingTime"`
}

// EnhanceImage runs the image through the edits endpoint with a prompt for
// the requested enhancement.
func (s *Service) EnhanceImage(ctx context.Context, req EnhanceRequest) (*EnhanceResult, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, ErrImageRequired
	}
	if s.images == nil || s.uploads == nil {
		return nil, ErrNoImageGenerator
	}
	start := s.now()
	kind := req.EnhancementType
	if kind == "" {
		kind = EnhanceQuality
	}
	log.Printf("✨ Enhancing image (%s)", kind)

	data, err := s.loadImage(ctx, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}

	img, err := s.images.EditImage(ctx, enhancementPrompt(kind, req.CustomPrompt), []llm.Reference{{Name: "image.png", Data: data}})
	if err != nil {
		log.Printf("❌ Enhancement failed: %v", err)
		if llm.IsModelUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", ErrEditUnavailable, err)
		}
		return nil, err
	}

	name := fmt.Sprintf("enhanced-%d", start.UnixMilli())
	if req.SlideID != "" {
		name = "enhanced-slide-" + req.SlideID
	}
	url, err := s.uploads.SaveImage(ctx, img.Source(), name)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	elapsed := s.now().Sub(start)
	log.Printf("✅ Enhanced in %s: %s", elapsed.Round(time.Millisecond), url)
	return &EnhanceResult{ImageURL: url, EnhancementType: kind, ProcessingTime: elapsed.Milliseconds()}, nil
}

// loadImage reads /frames/ files from the frames directory and defers the
// rest to uploads. A bare base64 string is accepted as a last resort.
func (s *Service) loadImage(ctx context.Context, ref string) ([]byte, error) {
	if name, ok := strings.CutPrefix(ref, "/frames/"); ok {
		if err := uploads.ValidateFilename(name); err != nil {
			return nil, err
		}
		return os.ReadFile(filepath.Join(s.framesDir, name))
	}
	data, err := s.uploads.ReadImage(ctx, ref)
	if errors.Is(err, uploads.ErrInvalidSource) {
		if raw, decErr := base64.StdEncoding.DecodeString(ref); decErr == nil && len(raw) > 0 {
			return raw, nil
		}
	}
	return data, err
}
