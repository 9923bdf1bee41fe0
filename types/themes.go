package types

// Theme is the color scheme of a carousel.
type Theme struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	AccentColor     string `json:"accentColor"`
	HeadingColor    string `json:"headingColor,omitempty"`
	Texture         string `json:"texture,omitempty"`
}

// TextureOption is an overlay texture the editor can apply to a theme.
type TextureOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Textures lists the supported overlay textures.
var Textures = []TextureOption{
	{"none", "None", "No texture overlay"},
	{"dusty", "Dusty", "Soft noise texture"},
	{"grain", "Grain", "Film grain effect"},
	{"lines", "Lines", "Subtle scan lines"},
	{"dots", "Dots", "Halftone dot pattern"},
	{"grid", "Grid", "Fine grid pattern"},
}

// DefaultThemes are the built-in color schemes.
var DefaultThemes = []Theme{
	{ID: "dark", Name: "Dark", BackgroundColor: "#0f172a", TextColor: "#f1f5f9", AccentColor: "#3b82f6", HeadingColor: "#ffffff"},
	{ID: "light", Name: "Light", BackgroundColor: "#ffffff", TextColor: "#334155", AccentColor: "#2563eb", HeadingColor: "#0f172a"},
	{ID: "ocean", Name: "Ocean", BackgroundColor: "#0c4a6e", TextColor: "#e0f2fe", AccentColor: "#38bdf8", HeadingColor: "#ffffff"},
	{ID: "forest", Name: "Forest", BackgroundColor: "#14532d", TextColor: "#dcfce7", AccentColor: "#4ade80", HeadingColor: "#ffffff"},
	{ID: "sunset", Name: "Sunset", BackgroundColor: "#7c2d12", TextColor: "#fed7aa", AccentColor: "#fb923c", HeadingColor: "#ffffff"},
	{ID: "lavender", Name: "Lavender", BackgroundColor: "#4c1d95", TextColor: "#ede9fe", AccentColor: "#a78bfa", HeadingColor: "#ffffff"},
	{ID: "coral", Name: "Coral", BackgroundColor: "#be123c", TextColor: "#ffe4e6", AccentColor: "#fb7185", HeadingColor: "#ffffff"},
	{ID: "mint", Name: "Mint", BackgroundColor: "#115e59", TextColor: "#ccfbf1", AccentColor: "#2dd4bf", HeadingColor: "#ffffff"},
}

// ThemeByID returns a copy of the built-in theme with the given id.
func ThemeByID(id string) (Theme, bool) {
	for _, t := range DefaultThemes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// IsValidTexture reports whether id names a known texture.
func IsValidTexture(id string) bool {
	for _, t := range Textures {
		if t.ID == id {
			return true
		}
	}
	return false
}
