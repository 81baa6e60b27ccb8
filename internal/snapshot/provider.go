package snapshot

import (
	"context"
	"fmt"
	"time"

	"labelops-mcp/internal/workforce"

	"github.com/rs/zerolog/log"
)

// staleAfter is how old a cache's newest record may be before the whole
// source is evicted and re-ingested from scratch.
const staleAfter = 60 * 24 * time.Hour

// Provider hydrates the record store from the workforce platform, filling
// only the date span the cache does not already cover.
type Provider struct {
	client   workforce.Client
	store    *RecordStore
	cacheDir string
}

// NewProvider creates a provider over a client and store. cacheDir may be
// empty to disable on-disk caching.
func NewProvider(client workforce.Client, store *RecordStore, cacheDir string) *Provider {
	return &Provider{
		client:   client,
		store:    store,
		cacheDir: cacheDir,
	}
}

// SourceKey derives the store partition key for an entity kind and project.
func SourceKey(kind workforce.EntityKind, projectID int) string {
	return fmt.Sprintf("%s-%d", kind, projectID)
}

// Hydrate ensures the store covers the requested window for a source. It
// loads the on-disk cache, evicts it when stale, fetches the missing span
// through the client, and persists the merged result.
func (p *Provider) Hydrate(ctx context.Context, kind workforce.EntityKind, projectID int, start, end *time.Time) error {
	sourceKey := SourceKey(kind, projectID)

	// 1. Warm from the on-disk cache.
	if p.cacheDir != "" && p.store.Count(sourceKey) == 0 {
		if err := p.store.Load(p.cacheDir, sourceKey); err == nil {
			log.Debug().Str("source", sourceKey).Int("records", p.store.Count(sourceKey)).Msg("Hydrate: loaded from cache")
		}
	}

	latest := p.store.LatestDate(sourceKey)

	// 2. Evict a stale cache wholesale.
	if !latest.IsZero() && time.Since(latest) > staleAfter {
		log.Info().Str("source", sourceKey).Time("latest", latest).Msg("Cache is stale, evicting and re-ingesting")
		p.store.Clear(sourceKey)
		if p.cacheDir != "" {
			_ = DeleteCache(p.cacheDir, sourceKey)
		}
		latest = time.Time{}
	}

	// 3. Determine the span still missing. The newest cached day is always
	// re-fetched: its counters may have moved since the last sync.
	fetchStart := start
	earliest := p.store.EarliestDate(sourceKey)
	if !latest.IsZero() && start != nil && !earliest.IsZero() && !earliest.After(*start) {
		fetchStart = &latest
	}

	if end != nil && fetchStart != nil && fetchStart.After(*end) {
		return nil // fully covered
	}

	records, err := p.client.FetchDailyRecords(ctx, kind, projectID, fetchStart, end)
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", sourceKey, err)
	}

	p.store.Append(sourceKey, records)

	// 4. Persist the merged log.
	if p.cacheDir != "" {
		if err := p.store.Save(p.cacheDir, sourceKey); err != nil {
			log.Warn().Err(err).Str("source", sourceKey).Msg("Failed to persist record cache")
		}
	}

	return nil
}

// Records returns the cached records for a source within the window.
func (p *Provider) Records(kind workforce.EntityKind, projectID int, start, end *time.Time) []workforce.DailyRecord {
	return p.store.RecordsInRange(SourceKey(kind, projectID), start, end)
}
