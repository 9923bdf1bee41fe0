package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carouselforge/types"

	"github.com/google/uuid"
)

// BrandKitStats summarises the brand_kits table for the admin portal.
type BrandKitStats struct {
	TotalBrandKits int `json:"totalBrandKits"`
}

var brandKitFields = map[string]fieldSpec{
	"name":    {column: "name", kind: kindText},
	"handle":  {column: "handle", kind: kindText},
	"website": {column: "website", kind: kindText},
}

// ListBrandKits returns all brand kits, newest first.
func (s *Store) ListBrandKits(ctx context.Context) ([]*types.BrandKit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+brandKitColumns+` FROM brand_kits ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list brand kits: %w", err)
	}
	defer rows.Close()

	kits := []*types.BrandKit{}
	for rows.Next() {
		k, err := scanBrandKit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand kit: %w", err)
		}
		kits = append(kits, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand kits: %w", err)
	}
	return kits, nil
}

// ListBrandKitsWithStats returns all brand kits plus the total count.
func (s *Store) ListBrandKitsWithStats(ctx context.Context) ([]*types.BrandKit, BrandKitStats, error) {
	kits, err := s.ListBrandKits(ctx)
	if err != nil {
		return nil, BrandKitStats{}, err
	}
	var stats BrandKitStats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM brand_kits`).Scan(&stats.TotalBrandKits); err != nil {
		return nil, stats, fmt.Errorf("count brand kits: %w", err)
	}
	return kits, stats, nil
}

// GetBrandKit fetches one brand kit.
func (s *Store) GetBrandKit(ctx context.Context, id string) (*types.BrandKit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+brandKitColumns+` FROM brand_kits WHERE id = ?`, id)
	k, err := scanBrandKit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get brand kit: %w", err)
	}
	return k, nil
}

// CreateBrandKit inserts a brand kit and returns the stored row.
func (s *Store) CreateBrandKit(ctx context.Context, k *types.BrandKit) (*types.BrandKit, error) {
	if k == nil {
		return nil, errors.New("brand kit is nil")
	}
	if k.Name == "" {
		return nil, fmt.Errorf("%w: brand kit name is required", ErrInvalidUpdate)
	}
	colors, err := nullableJSON(k.Colors)
	if err != nil {
		return nil, fmt.Errorf("marshal colors: %w", err)
	}
	fonts, err := nullableJSON(k.Fonts)
	if err != nil {
		return nil, fmt.Errorf("marshal fonts: %w", err)
	}

	id := uuid.NewString()
	now := nowString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO brand_kits (`+brandKitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, k.Name, nullableString(k.Website), nullableString(k.Handle), nullableString(k.ImageURL),
		colors, fonts, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert brand kit: %w", err)
	}
	return s.GetBrandKit(ctx, id)
}

// UpdateBrandKitFields applies quick edits (name, handle, website).
func (s *Store) UpdateBrandKitFields(ctx context.Context, id string, updates map[string]any) (*types.BrandKit, error) {
	sets, args, err := buildUpdate(brandKitFields, updates)
	if err != nil {
		return nil, err
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, nowString(), id)

	res, err := s.db.ExecContext(ctx, `UPDATE brand_kits SET `+joinSets(sets)+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update brand kit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetBrandKit(ctx, id)
}

// DeleteBrandKit removes one brand kit.
func (s *Store) DeleteBrandKit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM brand_kits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete brand kit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBrandKits removes every listed brand kit and returns how many existed.
func (s *Store) DeleteBrandKits(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM brand_kits WHERE id IN (`+placeholders(len(ids))+`)`, stringArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete brand kits: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
