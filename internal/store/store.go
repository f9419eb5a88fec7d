package store

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"posterlab/internal/domain"
	"posterlab/internal/infra"
)

const (
	keyHistory     = "history"
	keyPreferences = "preferences"
	keyImageCache  = "image_cache"
	keyCredential  = "credential"
	keyProbe       = "availability_probe"

	// quotaHistoryKeep is how many newest history entries survive the
	// cleanup pass triggered by a quota-exceeded write.
	quotaHistoryKeep = 20
)

// Options configures a Store.
type Options struct {
	Substrate  Substrate
	Logger     *infra.Logger
	CacheLimit int64
	Now        func() time.Time
}

// Store wraps the key-value substrate with typed access to the four logical
// records: history, preferences, image cache, and the obfuscated credential.
// Operations never propagate substrate faults; reads fall back to defaults
// and writes report success as a bool. Each collection is serialized by its
// own mutex.
type Store struct {
	sub        Substrate
	logger     *infra.Logger
	cacheLimit int64
	now        func() time.Time

	histMu  sync.Mutex
	prefMu  sync.Mutex
	cacheMu sync.Mutex
	credMu  sync.Mutex
}

// NewStore constructs a Store with sane defaults.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	limit := opts.CacheLimit
	if limit <= 0 {
		limit = 2 * 1024 * 1024
	}
	return &Store{
		sub:        opts.Substrate,
		logger:     logger,
		cacheLimit: limit,
		now:        now,
	}
}

// IsAvailable probes the substrate with a throwaway write and delete. It
// never returns an error.
func (s *Store) IsAvailable() bool {
	if s == nil || s.sub == nil {
		return false
	}
	if err := s.sub.Set(keyProbe, []byte(`"ok"`)); err != nil {
		return false
	}
	return s.sub.Delete(keyProbe) == nil
}

// readRecord decodes the record under key into v, reporting presence.
func (s *Store) readRecord(key string, v any) bool {
	data, ok, err := s.sub.Get(key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("store: read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("store: corrupt record")
		return false
	}
	return true
}

// writeRecord encodes v under key. A quota failure triggers one cleanup
// pass; the triggering write is not retried.
func (s *Store) writeRecord(key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("store: encode failed")
		return false
	}
	if err := s.sub.Set(key, data); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			s.logger.Warn().Str("key", key).Msg("store: quota exceeded, running cleanup")
			s.recoverQuota()
		} else {
			s.logger.Warn().Err(err).Str("key", key).Msg("store: write failed")
		}
		return false
	}
	return true
}

// recoverQuota frees space after a quota-exceeded write: history is trimmed
// to the newest entries and expired cache entries are purged. It works on
// the raw records; collection locks stay with the caller.
func (s *Store) recoverQuota() {
	var entries []domain.HistoryEntry
	if s.readRecord(keyHistory, &entries) && len(entries) > quotaHistoryKeep {
		entries = entries[len(entries)-quotaHistoryKeep:]
		s.writeRecord(keyHistory, entries)
	}

	var cache map[string]CacheEntry
	if s.readRecord(keyImageCache, &cache) {
		cutoff := s.now().Add(-cachePurgeAge)
		changed := false
		for url, entry := range cache {
			if entry.CachedAt.Before(cutoff) {
				delete(cache, url)
				changed = true
			}
		}
		if changed {
			s.writeRecord(keyImageCache, cache)
		}
	}
}
