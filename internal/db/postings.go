package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SavedPosting is a detected job posting the user chose to keep, along with
// the most recent match snapshot against their resume.
type SavedPosting struct {
	ID          uuid.UUID       `json:"id"`
	URL         string          `json:"url"`
	Title       string          `json:"title,omitempty"`
	Company     string          `json:"company,omitempty"`
	Description string          `json:"description"`
	Method      string          `json:"method"`
	Platform    string          `json:"platform"`
	MatchScore  *int            `json:"match_score,omitempty"`
	MatchResult json.RawMessage `json:"match_result,omitempty"`
	Analysis    json.RawMessage `json:"analysis,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

const postingColumns = `id, url, title, company, description, method, platform,
	match_score, match_result, analysis, created_at, updated_at`

func scanPosting(row pgx.Row) (*SavedPosting, error) {
	var p SavedPosting
	err := row.Scan(&p.ID, &p.URL, &p.Title, &p.Company, &p.Description,
		&p.Method, &p.Platform, &p.MatchScore, &p.MatchResult, &p.Analysis,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan posting: %w", err)
	}
	return &p, nil
}

// SavePosting stores a posting, updating the existing row when the URL was
// saved before. Returns the row's ID.
func (db *DB) SavePosting(ctx context.Context, p *SavedPosting) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO postings (url, title, company, description, method, platform)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (url) DO UPDATE SET
			title = $2, company = $3, description = $4, method = $5,
			platform = $6, updated_at = NOW()
		 RETURNING id`,
		p.URL, p.Title, p.Company, p.Description, p.Method, p.Platform,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save posting: %w", err)
	}
	return id, nil
}

// GetPosting retrieves a posting by ID. Returns nil when not found.
func (db *DB) GetPosting(ctx context.Context, id uuid.UUID) (*SavedPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+postingColumns+` FROM postings WHERE id = $1`, id)
	return scanPosting(row)
}

// GetPostingByURL retrieves a posting by URL. Returns nil when not found.
func (db *DB) GetPostingByURL(ctx context.Context, url string) (*SavedPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+postingColumns+` FROM postings WHERE url = $1`, url)
	return scanPosting(row)
}

// ListPostings retrieves recent postings, newest first.
func (db *DB) ListPostings(ctx context.Context, limit int) ([]SavedPosting, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+postingColumns+` FROM postings ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var postings []SavedPosting
	for rows.Next() {
		var p SavedPosting
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.Company, &p.Description,
			&p.Method, &p.Platform, &p.MatchScore, &p.MatchResult, &p.Analysis,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// AttachMatch records the latest skill match snapshot for a posting.
func (db *DB) AttachMatch(ctx context.Context, id uuid.UUID, score int, result any) error {
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal match result: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE postings SET match_score = $1, match_result = $2, updated_at = NOW()
		 WHERE id = $3`,
		score, jsonBytes, id)
	if err != nil {
		return fmt.Errorf("failed to attach match: %w", err)
	}
	return nil
}

// AttachAnalysis records the pass-one keyword analysis for a posting.
func (db *DB) AttachAnalysis(ctx context.Context, id uuid.UUID, analysis any) error {
	jsonBytes, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE postings SET analysis = $1, updated_at = NOW() WHERE id = $2`,
		jsonBytes, id)
	if err != nil {
		return fmt.Errorf("failed to attach analysis: %w", err)
	}
	return nil
}

// DeletePosting removes a posting.
func (db *DB) DeletePosting(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("posting not found: %s", id)
	}
	return nil
}
