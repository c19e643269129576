package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ScrollStateRepo handles saved header positions.
type ScrollStateRepo struct {
	db *sql.DB
}

func NewScrollStateRepo(db *sql.DB) *ScrollStateRepo { return &ScrollStateRepo{db: db} }

func (r *ScrollStateRepo) Upsert(ctx context.Context, s ScrollState) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO scroll_state(id, name, header_offset, collapse_range, updated_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		header_offset=excluded.header_offset,
		collapse_range=excluded.collapse_range,
		updated_at=excluded.updated_at;
	`, s.ID, s.Name, s.Offset, s.CollapseRange, s.UpdatedAt)
	return err
}

// ByName returns nil when nothing was saved under name.
func (r *ScrollStateRepo) ByName(ctx context.Context, name string) (*ScrollState, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, header_offset, collapse_range, updated_at
	FROM scroll_state WHERE name = ?`, name)
	var s ScrollState
	if err := row.Scan(&s.ID, &s.Name, &s.Offset, &s.CollapseRange, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScrollStateRepo) List(ctx context.Context) ([]ScrollState, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, header_offset, collapse_range, updated_at
	FROM scroll_state ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScrollState
	for rows.Next() {
		var s ScrollState
		if err := rows.Scan(&s.ID, &s.Name, &s.Offset, &s.CollapseRange, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScrollStateRepo) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scroll_state WHERE name = ?`, name)
	return err
}
