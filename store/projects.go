package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carouselforge/types"

	"github.com/google/uuid"
)

// ProjectStats summarises the projects table for the admin portal.
type ProjectStats struct {
	TotalProjects int `json:"totalProjects"`
	TotalSlides   int `json:"totalSlides"`
}

// projectFields maps admin-editable JSON fields to columns.
var projectFields = map[string]fieldSpec{
	"topic":           {column: "topic", kind: kindText},
	"themeId":         {column: "theme_id", kind: kindText},
	"themeName":       {column: "theme_name", kind: kindText},
	"themeBackground": {column: "theme_background", kind: kindText},
	"themeText":       {column: "theme_text", kind: kindText},
	"themeAccent":     {column: "theme_accent", kind: kindText},
	"themeHeading":    {column: "theme_heading", kind: kindText},
	"themeTexture":    {column: "theme_texture", kind: kindText},
	"brandName":       {column: "brand_name", kind: kindText},
	"brandHandle":     {column: "brand_handle", kind: kindText},
	"brandImage":      {column: "brand_image", kind: kindText},
}

// ListRecentProjects returns the most recently updated projects with up to
// slidesPerProject slides each. SlideCount always holds the full count.
func (s *Store) ListRecentProjects(ctx context.Context, limit, slidesPerProject int) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects, err := collectProjects(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachSlides(ctx, projects, slidesPerProject); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjectsWithStats returns every project with all slides, plus totals.
func (s *Store) ListProjectsWithStats(ctx context.Context) ([]*types.Project, ProjectStats, error) {
	var stats ProjectStats
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, stats, fmt.Errorf("list projects: %w", err)
	}
	projects, err := collectProjects(rows)
	if err != nil {
		return nil, stats, err
	}
	if err := s.attachSlides(ctx, projects, 0); err != nil {
		return nil, stats, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects`).Scan(&stats.TotalProjects); err != nil {
		return nil, stats, fmt.Errorf("count projects: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM slides`).Scan(&stats.TotalSlides); err != nil {
		return nil, stats, fmt.Errorf("count slides: %w", err)
	}
	return projects, stats, nil
}

// GetProject fetches a project with all of its slides in order.
func (s *Store) GetProject(ctx context.Context, id string) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	slides, err := s.ListSlides(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Slides = slides
	p.SlideCount = len(slides)
	return p, nil
}

// SaveProject creates the project when it has no ID and otherwise replaces the
// stored project and all of its slides in one transaction. Slides get fresh IDs.
func (s *Store) SaveProject(ctx context.Context, p *types.Project) (*types.Project, error) {
	if p == nil {
		return nil, errors.New("project is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := nowString()
	args := []any{
		p.Topic,
		nullableString(p.ThemeID), nullableString(p.ThemeName),
		nullableString(p.ThemeBackgroundColor), nullableString(p.ThemeTextColor),
		nullableString(p.ThemeAccentColor), nullableString(p.ThemeHeadingColor),
		nullableString(p.ThemeTexture),
		nullableString(p.BrandName), nullableString(p.BrandHandle), nullableString(p.BrandImage),
		nullableString(p.HostImage), nullableString(p.GuestImage), nullableString(p.TemplateID),
	}

	id := p.ID
	if id == "" {
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO projects (
                topic, theme_id, theme_name, theme_background, theme_text, theme_accent,
                theme_heading, theme_texture, brand_name, brand_handle, brand_image,
                host_image, guest_image, template_id, id, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			append(args, id, now, now)...,
		)
		if err != nil {
			return nil, fmt.Errorf("insert project: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`UPDATE projects
             SET topic = ?, theme_id = ?, theme_name = ?, theme_background = ?, theme_text = ?,
                 theme_accent = ?, theme_heading = ?, theme_texture = ?, brand_name = ?,
                 brand_handle = ?, brand_image = ?, host_image = ?, guest_image = ?,
                 template_id = ?, updated_at = ?
             WHERE id = ?`,
			append(args, now, id)...,
		)
		if err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM slides WHERE project_id = ?`, id); err != nil {
			return nil, fmt.Errorf("clear slides: %w", err)
		}
	}

	for i := range p.Slides {
		if err := insertSlide(ctx, tx, id, i, &p.Slides[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// UpdateProjectFields applies whitelisted admin edits. Unknown fields are ignored.
func (s *Store) UpdateProjectFields(ctx context.Context, id string, updates map[string]any) (*types.Project, error) {
	sets, args, err := buildUpdate(projectFields, updates)
	if err != nil {
		return nil, err
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, nowString(), id)

	res, err := s.db.ExecContext(ctx, `UPDATE projects SET `+joinSets(sets)+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update project fields: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetProject(ctx, id)
}

// TouchProject bumps updated_at, used after slide-level edits.
func (s *Store) TouchProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, nowString(), id)
	if err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	return nil
}

// DeleteProject removes a project; its slides cascade.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProjects removes every listed project and returns how many existed.
func (s *Store) DeleteProjects(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id IN (`+placeholders(len(ids))+`)`, stringArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete projects: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func collectProjects(rows *sql.Rows) ([]*types.Project, error) {
	defer rows.Close()
	var projects []*types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	if projects == nil {
		projects = []*types.Project{}
	}
	return projects, nil
}

// attachSlides loads slides for each project. A positive limit caps the
// slides loaded per project; SlideCount is the full count either way.
func (s *Store) attachSlides(ctx context.Context, projects []*types.Project, limit int) error {
	for _, p := range projects {
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM slides WHERE project_id = ?`, p.ID).Scan(&p.SlideCount); err != nil {
			return fmt.Errorf("count slides: %w", err)
		}

		query := `SELECT ` + slideColumns + ` FROM slides WHERE project_id = ? ORDER BY order_index`
		args := []any{p.ID}
		if limit > 0 {
			query += ` LIMIT ?`
			args = append(args, limit)
		}
		slides, err := s.querySlides(ctx, query, args...)
		if err != nil {
			return err
		}
		p.Slides = slides
	}
	return nil
}
