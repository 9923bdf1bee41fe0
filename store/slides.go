package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"carouselforge/types"

	"github.com/google/uuid"
)

// slideFields maps admin-editable JSON fields to columns.
var slideFields = map[string]fieldSpec{
	"heading":                 {column: "heading", kind: kindText},
	"body":                    {column: "body", kind: kindText},
	"bodyShort":               {column: "body_short", kind: kindText},
	"bodyLong":                {column: "body_long", kind: kindText},
	"suggestedImage":          {column: "suggested_image", kind: kindText},
	"minTextVersion":          {column: "min_text_version", kind: kindText},
	"maxTextVersion":          {column: "max_text_version", kind: kindText},
	"backgroundImageUrl":      {column: "background_image_url", kind: kindText},
	"backgroundImagePosition": {column: "background_image_position", kind: kindJSON},
	"backgroundImageScale":    {column: "background_image_scale", kind: kindReal},
	"backgroundImageRotation": {column: "background_image_rotation", kind: kindReal},
	"layout":                  {column: "layout", kind: kindText},
	"useExtendedDescription":  {column: "use_extended_description", kind: kindBool},
	"useShortDescription":     {column: "use_short_description", kind: kindBool},
	"customTexts":             {column: "custom_texts", kind: kindJSON},
	"entityFocus":             {column: "entity_focus", kind: kindText},
	"validatedFrame":          {column: "validated_frame", kind: kindJSON},
	"index":                   {column: "order_index", kind: kindInt},
}

// ListSlides returns a project's slides in order.
func (s *Store) ListSlides(ctx context.Context, projectID string) ([]types.Slide, error) {
	return s.querySlides(ctx,
		`SELECT `+slideColumns+` FROM slides WHERE project_id = ? ORDER BY order_index`, projectID)
}

// GetSlide fetches one slide and the id of its project.
func (s *Store) GetSlide(ctx context.Context, id string) (*types.Slide, string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+slideColumns+` FROM slides WHERE id = ?`, id)
	st, err := scanSlide(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get slide: %w", err)
	}
	return &st.Slide, st.ProjectID, nil
}

// UpdateSlideFields applies whitelisted edits to a slide and bumps its project.
func (s *Store) UpdateSlideFields(ctx context.Context, id string, updates map[string]any) (*types.Slide, error) {
	sets, args, err := buildUpdate(slideFields, updates)
	if err != nil {
		return nil, err
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, `UPDATE slides SET `+joinSets(sets)+` WHERE id = ?`, args...)
		if err != nil {
			return nil, fmt.Errorf("update slide: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, ErrNotFound
		}
	}

	slide, projectID, err := s.GetSlide(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.TouchProject(ctx, projectID); err != nil {
		return nil, err
	}
	return slide, nil
}

// DeleteSlide removes one slide.
func (s *Store) DeleteSlide(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM slides WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete slide: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) querySlides(ctx context.Context, query string, args ...any) ([]types.Slide, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query slides: %w", err)
	}
	defer rows.Close()

	slides := []types.Slide{}
	for rows.Next() {
		st, err := scanSlide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slide: %w", err)
		}
		slides = append(slides, st.Slide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slides: %w", err)
	}
	return slides, nil
}

func insertSlide(ctx context.Context, tx *sql.Tx, projectID string, index int, sl *types.Slide) error {
	tone := sl.Tone
	if tone == "" {
		tone = "educational"
	}
	entity := sl.EntityFocus
	if entity == "" {
		entity = types.EntityNone
	}
	useShort := true
	if sl.UseShortDescription != nil {
		useShort = *sl.UseShortDescription
	}

	var position any
	if sl.BackgroundImagePosition != nil {
		data, err := json.Marshal(sl.BackgroundImagePosition)
		if err != nil {
			return fmt.Errorf("marshal slide position: %w", err)
		}
		position = string(data)
	}
	customTexts, err := nullableJSON(sl.CustomTexts)
	if err != nil {
		return fmt.Errorf("marshal custom texts: %w", err)
	}
	var validated any
	if sl.ValidatedFrame != nil {
		if validated, err = nullableJSON(sl.ValidatedFrame); err != nil {
			return fmt.Errorf("marshal validated frame: %w", err)
		}
	}
	var segStart, segEnd any
	if sl.Segment != nil {
		segStart, segEnd = sl.Segment.Start, sl.Segment.End
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO slides (`+slideColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), projectID, index,
		sl.Heading, sl.Body, sl.BodyShort, sl.BodyLong, sl.SuggestedImage, tone,
		sl.MinTextVersion, sl.MaxTextVersion,
		nullableString(sl.BackgroundImageURL), position,
		nullableFloat(sl.BackgroundImageScale), nullableFloat(sl.BackgroundImageRotation),
		nullableString(sl.Layout),
		boolToInt(sl.UseExtendedDescription), boolToInt(useShort), customTexts, entity,
		segStart, segEnd, validated,
	)
	if err != nil {
		return fmt.Errorf("insert slide %d: %w", index, err)
	}
	return nil
}
