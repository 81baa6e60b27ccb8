package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"labelops-mcp/internal/workforce"

	"github.com/rs/zerolog/log"
)

// RecordStore is thread-safe, chronological storage for fetched daily
// records, partitioned by source key (one key per entity kind and project).
// It memoizes workforce responses on the client side of the boundary; the
// aggregation core itself stays cache-free.
type RecordStore struct {
	mu   sync.RWMutex
	logs map[string][]workforce.DailyRecord
}

// NewRecordStore creates a new empty RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		logs: make(map[string][]workforce.DailyRecord),
	}
}

// identity keys a record by entity and calendar date.
func identity(r workforce.DailyRecord) string {
	return fmt.Sprintf("%s|%s", r.EntityID, r.Date.Format("2006-01-02"))
}

// Append merges records into the log for a source. A record for an
// entity-date pair that is already present REPLACES the stored one: a
// re-fetched day carries fresher counters than the cached copy.
func (s *RecordStore) Append(sourceKey string, records []workforce.DailyRecord) {
	if len(records) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.logs[sourceKey]
	index := make(map[string]int, len(stored))
	for i, r := range stored {
		index[identity(r)] = i
	}

	added := 0
	for _, r := range records {
		if i, ok := index[identity(r)]; ok {
			stored[i] = r
			continue
		}
		index[identity(r)] = len(stored)
		stored = append(stored, r)
		added++
	}

	// Sort by date, then entity, for deterministic iteration and cache files.
	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].Date.Equal(stored[j].Date) {
			return stored[i].Date.Before(stored[j].Date)
		}
		return stored[i].EntityID < stored[j].EntityID
	})

	s.logs[sourceKey] = stored
	log.Debug().Str("source", sourceKey).Int("added", added).Int("total", len(stored)).Msg("Appended daily records")
}

// Count returns the number of stored records for a source.
func (s *RecordStore) Count(sourceKey string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[sourceKey])
}

// Clear drops all records for a source.
func (s *RecordStore) Clear(sourceKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, sourceKey)
}

// LatestDate returns the most recent record date for a source, or the zero
// time when the source is empty.
func (s *RecordStore) LatestDate(sourceKey string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.logs[sourceKey]
	if len(stored) == 0 {
		return time.Time{}
	}
	return stored[len(stored)-1].Date
}

// EarliestDate returns the oldest record date for a source, or the zero time.
func (s *RecordStore) EarliestDate(sourceKey string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.logs[sourceKey]
	if len(stored) == 0 {
		return time.Time{}
	}
	return stored[0].Date
}

// RecordsInRange returns a copy of the records whose date falls inside the
// inclusive bounds. A nil bound is open on that side.
func (s *RecordStore) RecordsInRange(sourceKey string, start, end *time.Time) []workforce.DailyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []workforce.DailyRecord
	for _, r := range s.logs[sourceKey] {
		if start != nil && r.Date.Before(*start) {
			continue
		}
		if end != nil && r.Date.After(*end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Save writes the source's records to a JSONL cache file.
func (s *RecordStore) Save(cacheDir, sourceKey string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := cachePath(cacheDir, sourceKey)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, r := range s.logs[sourceKey] {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load reads records from the source's JSONL cache file, merging them with
// anything already in memory.
func (s *RecordStore) Load(cacheDir, sourceKey string) error {
	path := cachePath(cacheDir, sourceKey)
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var records []workforce.DailyRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r workforce.DailyRecord
		if err := json.Unmarshal(line, &r); err != nil {
			log.Warn().Err(err).Str("source", sourceKey).Msg("Skipping corrupt cache line")
			continue
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read cache %s: %w", path, err)
	}

	s.Append(sourceKey, records)
	return nil
}

// DeleteCache removes the cache file for a source.
func DeleteCache(cacheDir, sourceKey string) error {
	err := os.Remove(cachePath(cacheDir, sourceKey))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func cachePath(cacheDir, sourceKey string) string {
	safe := strings.ReplaceAll(sourceKey, string(os.PathSeparator), "_")
	return filepath.Join(cacheDir, fmt.Sprintf("%s.jsonl", safe))
}
