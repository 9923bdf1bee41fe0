package generation

import (
	"fmt"
	"strings"

	"carouselforge/types"
)

type pose struct {
	body       string
	expression string
}

// poses rotate by slide index so consecutive slides do not repeat a gesture.
var poses = []pose{
	{"standing confidently, arms relaxed at the sides", "warm, welcoming smile"},
	{"leaning slightly forward, mid conversation", "attentive, interested look"},
	{"seated comfortably, hands resting on the lap", "thoughtful, reflective expression"},
	{"standing with one hand in a pocket", "relaxed, approachable demeanor"},
	{"seated and leaning back, arms on the armrests", "confident, assured look"},
	{"walking mid-stride", "determined, purposeful expression"},
	{"arms loosely crossed, standing tall", "contemplative, wise expression"},
	{"seated at a desk with hands clasped", "focused, professional demeanor"},
	{"standing with a hand on the chin", "curious, analytical look"},
	{"seated casually with one leg crossed", "friendly, open expression"},
}

func poseFor(slideIndex int) pose {
	if slideIndex < 0 {
		slideIndex = -slideIndex
	}
	return poses[slideIndex%len(poses)]
}

type imagePrompt struct {
	Topic          string
	Heading        string
	SuggestedImage string
	SlideIndex     int
	EntityFocus    string
	HasHost        bool
	HasGuest       bool
}

// References lists which uploaded photos go to the edits call, in order.
func (p imagePrompt) References() []string {
	switch {
	case p.SlideIndex == 0 && p.HasHost && p.HasGuest:
		return []string{types.EntityHost, types.EntityGuest}
	case p.EntityFocus == types.EntityGuest && p.HasGuest:
		return []string{types.EntityGuest}
	case p.HasHost:
		return []string{types.EntityHost}
	case p.HasGuest:
		return []string{types.EntityGuest}
	}
	return nil
}

// Summary is the short prompt echoed back to the editor.
func (p imagePrompt) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Premium image for %q\n\nScene: %s\nVisual: %s\n", p.Topic, p.Heading, p.SuggestedImage)
	b.WriteString("\nNo text of any kind in the image. Subject in focus, simple blurred background, professional lighting.")
	switch refs := p.References(); len(refs) {
	case 2:
		b.WriteString("\nHost and guest photos used as references.")
	case 1:
		fmt.Fprintf(&b, "\n%s photo used as reference.", strings.ToUpper(refs[0][:1])+refs[0][1:])
	}
	return b.String()
}

// Full is the prompt sent to the image model.
func (p imagePrompt) Full() string {
	var b strings.Builder
	fmt.Fprintf(&b, `Masterpiece quality image for a social media carousel slide.

NO TEXT. Do not render words, letters, numbers, captions, labels, watermarks or typography of any kind.

TOPIC: %q
SLIDE CONCEPT: %q
VISUAL DIRECTION: %q

`, p.Topic, p.Heading, p.SuggestedImage)

	switch refs := p.References(); len(refs) {
	case 2:
		b.WriteString(`TITLE SLIDE: TWO PEOPLE
The reference images show the host and the guest. Create a photorealistic image of both of them in conversation.
- Keep their facial features, hair and clothing recognizable.
- Elegant podcast or studio setting with soft depth of field.
- Emphasize the connection between them; light both consistently.

`)
	case 1:
		who := strings.ToUpper(refs[0])
		fmt.Fprintf(&b, `PORTRAIT OF THE %s
The reference image shows the %s. Create a photorealistic portrait of this person.
- Keep their facial features recognizable, with realistic skin texture and lighting.
- Gestures match the slide concept: explaining, pointing, thinking.
- Waist-up or mid shot, mostly front facing, engaged with the viewer.
- Borrow colors and lighting mood from the reference.

`, who, strings.ToLower(who))
		ps := poseFor(p.SlideIndex)
		fmt.Fprintf(&b, `POSE FOR SLIDE #%d
- Body: %s
- Expression: %s
- Natural gestures that fit the content.

`, p.SlideIndex+1, ps.body, ps.expression)
	default:
		b.WriteString(`ENVIRONMENT
- The setting itself is the subject; adapt it to the visual direction.
- If people appear, show them from behind, in silhouette or out of focus.

`)
	}

	b.WriteString(`STYLE
- Professional photography, cinematic lighting, professional color grading.
- Simple, uncluttered background with bokeh; nothing competes with the subject.
- Leave the lower 40% calm and empty; text is overlaid separately.
- Hyper-detailed, clean, minimalist.`)
	return b.String()
}

var enhancementPrompts = map[string]string{
	EnhanceQuality: `Make subtle, natural quality improvements:
- Slightly sharper, slightly more detail, no over-processing.
- Colors a touch richer but natural; no oversaturation.
- Remove minor noise while keeping texture and grain.
- Keep the composition, subjects and faces exactly the same.
- The result is a slightly cleaner version of the original, about 95% unchanged.`,

	EnhanceLighting: `Make gentle lighting improvements:
- Balance exposure with small adjustments.
- Soften harsh shadows and lift contrast slightly.
- Keep the original mood, composition and subjects.
- Faces stay identical apart from minor lighting.
- No dramatic studio lighting and no scene changes.`,

	EnhanceClarity: `Make minor clarity improvements:
- Gently sharpen and define edges.
- Reduce slight blur.
- Keep colors accurate and every element in place.
- No over-sharpening or halos; keep the natural softness.`,
}

// enhancementPrompt returns the edit prompt for kind. Custom requests replace
// the background and leave the person untouched.
func enhancementPrompt(kind, custom string) string {
	if kind == EnhanceCustom && strings.TrimSpace(custom) != "" {
		return fmt.Sprintf(`BACKGROUND REPLACEMENT ONLY

Keep the person exactly as they are: face, hair, skin tone, expression, body, clothing, pose and the light falling on them. Do not retouch them.

Replace only the background with a professional setting for this theme:
%s

The background should be polished, cinematic, relevant to the theme, clean and softly blurred for depth. It complements the person and never competes with them. Blend the lighting naturally between person and background. No text anywhere in the image.

Think of it as lifting the person out of a video still and placing them in a professional studio or themed scene.`, strings.TrimSpace(custom))
	}
	if prompt, ok := enhancementPrompts[kind]; ok {
		return prompt
	}
	return enhancementPrompts[EnhanceQuality]
}
