// Package fetch - cached.go wraps URL fetching with database-backed caching.
package fetch

import (
	"context"
	"time"

	"github.com/jonathan/job-tailor/internal/db"
)

// CachedFetcher wraps URL fetching with a database-backed page cache so
// repeated detections of the same posting do not re-fetch it.
type CachedFetcher struct {
	db        *db.DB
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // for forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// NewCachedFetcher creates a new cached fetcher. A nil database disables
// caching and every fetch goes to the network.
func NewCachedFetcher(database *db.DB, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = &CachedFetcherConfig{}
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = db.DefaultPageCacheTTL
	}
	return &CachedFetcher{
		db:        database,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

// Fetch retrieves a URL, returning cached content when it is within TTL and
// fetching fresh content otherwise. Fresh fetches are written back to the
// cache; a cache write failure does not fail the fetch.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache && f.db != nil {
		cached, err := f.db.GetFreshPage(ctx, urlStr, f.cacheTTL)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return &CachedResult{
				Result: &Result{
					URL:        cached.URL,
					HTML:       cached.HTML,
					StatusCode: cached.HTTPStatus,
				},
				FromCache: true,
			}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	if f.db != nil {
		_ = f.db.UpsertPage(ctx, &db.CachedPage{
			URL:        urlStr,
			HTML:       result.HTML,
			HTTPStatus: result.StatusCode,
		})
	}

	return &CachedResult{Result: result, FromCache: false}, nil
}

// Invalidate removes a URL from the cache, forcing a re-fetch on next request.
func (f *CachedFetcher) Invalidate(ctx context.Context, urlStr string) error {
	if f.db == nil {
		return nil
	}
	return f.db.InvalidatePage(ctx, urlStr)
}
