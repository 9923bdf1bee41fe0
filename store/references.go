package store

import (
	"context"
	"fmt"
	"strings"
)

// ImageReferencedElsewhere reports whether url is used by any brand kit, by
// another project's brand/host/guest image, or by a slide of another project.
func (s *Store) ImageReferencedElsewhere(ctx context.Context, url, excludeProjectID string) (bool, error) {
	checks := []struct {
		name  string
		query string
		args  []any
	}{
		{"brand kits", `SELECT COUNT(1) FROM brand_kits WHERE image_url = ?`, []any{url}},
		{"projects", `SELECT COUNT(1) FROM projects
            WHERE (brand_image = ? OR host_image = ? OR guest_image = ?) AND id <> ?`,
			[]any{url, url, url, excludeProjectID}},
		{"slides", `SELECT COUNT(1) FROM slides WHERE background_image_url = ? AND project_id <> ?`,
			[]any{url, excludeProjectID}},
	}
	for _, c := range checks {
		var n int
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(&n); err != nil {
			return false, fmt.Errorf("count %s references: %w", c.name, err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// ReferencedUploads returns every stored image url under prefix.
func (s *Store) ReferencedUploads(ctx context.Context, prefix string) (map[string]struct{}, error) {
	query := `
        SELECT image_url FROM brand_kits WHERE image_url LIKE ? ESCAPE '\'
        UNION SELECT brand_image FROM projects WHERE brand_image LIKE ? ESCAPE '\'
        UNION SELECT host_image FROM projects WHERE host_image LIKE ? ESCAPE '\'
        UNION SELECT guest_image FROM projects WHERE guest_image LIKE ? ESCAPE '\'
        UNION SELECT background_image_url FROM slides WHERE background_image_url LIKE ? ESCAPE '\'`
	pattern := escapeLike(prefix) + "%"

	rows, err := s.db.QueryContext(ctx, query, pattern, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("list referenced uploads: %w", err)
	}
	defer rows.Close()

	refs := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan referenced upload: %w", err)
		}
		refs[url] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referenced uploads: %w", err)
	}
	return refs, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
