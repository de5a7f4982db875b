package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StoredResume is a master resume kept server-side so the extension does not
// have to upload it with every request. Content is the raw YAML document.
type StoredResume struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"-"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveResume stores or replaces a named resume. When isDefault is set, any
// previous default is cleared first.
func (db *DB) SaveResume(ctx context.Context, name, content string, isDefault bool) (uuid.UUID, error) {
	if isDefault {
		if _, err := db.pool.Exec(ctx,
			`UPDATE resumes SET is_default = FALSE WHERE is_default`); err != nil {
			return uuid.Nil, fmt.Errorf("failed to clear default resume: %w", err)
		}
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (name, content, is_default)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET
			content = $2, is_default = $3, updated_at = NOW()
		 RETURNING id`,
		name, content, isDefault,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by name. Returns nil when not found.
func (db *DB) GetResume(ctx context.Context, name string) (*StoredResume, error) {
	return db.getResume(ctx,
		`SELECT id, name, content, is_default, created_at, updated_at
		 FROM resumes WHERE name = $1`, name)
}

// GetDefaultResume retrieves the default resume. Returns nil when none is set.
func (db *DB) GetDefaultResume(ctx context.Context) (*StoredResume, error) {
	return db.getResume(ctx,
		`SELECT id, name, content, is_default, created_at, updated_at
		 FROM resumes WHERE is_default LIMIT 1`)
}

func (db *DB) getResume(ctx context.Context, query string, args ...any) (*StoredResume, error) {
	var r StoredResume
	err := db.pool.QueryRow(ctx, query, args...).Scan(
		&r.ID, &r.Name, &r.Content, &r.IsDefault, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// ListResumes retrieves all stored resumes without their content.
func (db *DB) ListResumes(ctx context.Context) ([]StoredResume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, is_default, created_at, updated_at
		 FROM resumes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []StoredResume
	for rows.Next() {
		var r StoredResume
		if err := rows.Scan(&r.ID, &r.Name, &r.IsDefault, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, nil
}
