package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"carouselforge/types"
)

const projectColumns = "id, topic, theme_id, theme_name, theme_background, theme_text, theme_accent, theme_heading, theme_texture, brand_name, brand_handle, brand_image, host_image, guest_image, template_id, created_at, updated_at"

const slideColumns = "id, project_id, order_index, heading, body, body_short, body_long, suggested_image, tone, min_text_version, max_text_version, background_image_url, background_image_position, background_image_scale, background_image_rotation, layout, use_extended_description, use_short_description, custom_texts, entity_focus, segment_start, segment_end, validated_frame"

const brandKitColumns = "id, name, website, handle, image_url, colors, fonts, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*types.Project, error) {
	var (
		p                                                   types.Project
		themeID, themeName, themeBg, themeText, themeAccent sql.NullString
		themeHeading, themeTexture, brandName, brandHandle  sql.NullString
		brandImage, hostImage, guestImage, templateID       sql.NullString
		createdRaw, updatedRaw                              string
	)
	if err := row.Scan(
		&p.ID, &p.Topic,
		&themeID, &themeName, &themeBg, &themeText, &themeAccent, &themeHeading, &themeTexture,
		&brandName, &brandHandle, &brandImage, &hostImage, &guestImage, &templateID,
		&createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}
	p.ThemeID = themeID.String
	p.ThemeName = themeName.String
	p.ThemeBackgroundColor = themeBg.String
	p.ThemeTextColor = themeText.String
	p.ThemeAccentColor = themeAccent.String
	p.ThemeHeadingColor = themeHeading.String
	p.ThemeTexture = themeTexture.String
	p.BrandName = brandName.String
	p.BrandHandle = brandHandle.String
	p.BrandImage = brandImage.String
	p.HostImage = hostImage.String
	p.GuestImage = guestImage.String
	p.TemplateID = templateID.String
	p.CreatedAt = parseTime(createdRaw)
	p.UpdatedAt = parseTime(updatedRaw)
	p.Slides = []types.Slide{}
	return &p, nil
}

// storedSlide is a slide row together with its owner.
type storedSlide struct {
	types.Slide
	ProjectID string
	Index     int
}

func scanSlide(row scanner) (*storedSlide, error) {
	var (
		s                           storedSlide
		bgURL, bgPosition, layout   sql.NullString
		customTexts, validatedFrame sql.NullString
		bgScale, bgRotation         sql.NullFloat64
		segStart, segEnd            sql.NullFloat64
		useExtended                 int64
		useShort                    sql.NullInt64
	)
	if err := row.Scan(
		&s.ID, &s.ProjectID, &s.Index,
		&s.Heading, &s.Body, &s.BodyShort, &s.BodyLong, &s.SuggestedImage, &s.Tone,
		&s.MinTextVersion, &s.MaxTextVersion,
		&bgURL, &bgPosition, &bgScale, &bgRotation, &layout,
		&useExtended, &useShort, &customTexts, &s.EntityFocus,
		&segStart, &segEnd, &validatedFrame,
	); err != nil {
		return nil, err
	}

	s.BackgroundImageURL = bgURL.String
	s.Layout = layout.String
	s.UseExtendedDescription = useExtended != 0
	if useShort.Valid {
		v := useShort.Int64 != 0
		s.UseShortDescription = &v
	}
	if bgPosition.Valid && bgPosition.String != "" {
		var pos types.Position
		if err := json.Unmarshal([]byte(bgPosition.String), &pos); err == nil {
			s.BackgroundImagePosition = &pos
		}
	}
	if bgScale.Valid {
		v := bgScale.Float64
		s.BackgroundImageScale = &v
	}
	if bgRotation.Valid {
		v := bgRotation.Float64
		s.BackgroundImageRotation = &v
	}
	if customTexts.Valid && customTexts.String != "" {
		s.CustomTexts = json.RawMessage(customTexts.String)
	} else {
		s.CustomTexts = json.RawMessage("[]")
	}
	if segStart.Valid && segEnd.Valid {
		s.Segment = &types.Segment{Start: segStart.Float64, End: segEnd.Float64}
	}
	if validatedFrame.Valid && validatedFrame.String != "" {
		var vf types.ValidatedFrame
		if err := json.Unmarshal([]byte(validatedFrame.String), &vf); err == nil {
			s.ValidatedFrame = &vf
		}
	}
	return &s, nil
}

func scanBrandKit(row scanner) (*types.BrandKit, error) {
	var (
		k                         types.BrandKit
		website, handle, imageURL sql.NullString
		colors, fonts             sql.NullString
		createdRaw, updatedRaw    string
	)
	if err := row.Scan(&k.ID, &k.Name, &website, &handle, &imageURL, &colors, &fonts, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	k.Website = website.String
	k.Handle = handle.String
	k.ImageURL = imageURL.String
	if colors.Valid && colors.String != "" {
		k.Colors = json.RawMessage(colors.String)
	}
	if fonts.Valid && fonts.String != "" {
		k.Fonts = json.RawMessage(fonts.String)
	}
	k.CreatedAt = parseTime(createdRaw)
	k.UpdatedAt = parseTime(updatedRaw)
	return &k, nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableJSON(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if len(t) == 0 || string(t) == "null" {
			return nil, nil
		}
		return string(t), nil
	case string:
		if t == "" {
			return nil, nil
		}
		return t, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timeLayout is fixed width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nowString() string {
	return formatTime(time.Now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
