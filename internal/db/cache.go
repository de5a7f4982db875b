package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultPageCacheTTL is how long a cached page stays fresh.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// CachedPage is one row of the page cache.
type CachedPage struct {
	URL        string
	HTML       string
	HTTPStatus int
	FetchedAt  time.Time
}

// GetFreshPage returns the cached page for a URL when it exists and was
// fetched within ttl, otherwise nil.
func (db *DB) GetFreshPage(ctx context.Context, url string, ttl time.Duration) (*CachedPage, error) {
	cutoff := time.Now().Add(-ttl)
	var p CachedPage
	err := db.pool.QueryRow(ctx,
		`SELECT url, html, http_status, fetched_at
		 FROM page_cache WHERE url = $1 AND fetched_at > $2`,
		url, cutoff,
	).Scan(&p.URL, &p.HTML, &p.HTTPStatus, &p.FetchedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}
	return &p, nil
}

// UpsertPage stores or refreshes a cached page.
func (db *DB) UpsertPage(ctx context.Context, p *CachedPage) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO page_cache (url, html, http_status, fetched_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (url) DO UPDATE SET
			html = $2, http_status = $3, fetched_at = NOW()`,
		p.URL, p.HTML, p.HTTPStatus)
	if err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

// InvalidatePage removes a page from the cache, forcing a re-fetch.
func (db *DB) InvalidatePage(ctx context.Context, url string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM page_cache WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("failed to invalidate cached page: %w", err)
	}
	return nil
}
