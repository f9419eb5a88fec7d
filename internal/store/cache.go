package store

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	// cacheMaxAge is the read-side expiry: entries older than this are
	// evicted when looked up.
	cacheMaxAge = 30 * 24 * time.Hour
	// cachePurgeAge is the stricter age used by bulk purge sweeps.
	cachePurgeAge = 7 * 24 * time.Hour
)

// CacheEntry holds one cached image payload keyed by its source URL.
type CacheEntry struct {
	Payload  string    `json:"payload"`
	CachedAt time.Time `json:"cached_at"`
}

// GetCachedImage returns the cached payload for a URL. Entries older than
// the read expiry are evicted and reported absent.
func (s *Store) GetCachedImage(url string) (string, bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	cache := s.cacheLocked()
	entry, ok := cache[url]
	if !ok {
		return "", false
	}
	if s.now().Sub(entry.CachedAt) > cacheMaxAge {
		delete(cache, url)
		s.writeRecord(keyImageCache, cache)
		return "", false
	}
	return entry.Payload, true
}

// CacheImage stores a payload under its source URL. When the serialized
// cache exceeds the configured ceiling a purge sweep removes entries older
// than the purge age before inserting; if the cache is still over the
// ceiling afterwards the oldest entries are evicted until it fits.
func (s *Store) CacheImage(url, payload string) bool {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	cache := s.cacheLocked()
	if serializedSize(cache) > s.cacheLimit {
		cutoff := s.now().Add(-cachePurgeAge)
		for key, entry := range cache {
			if entry.CachedAt.Before(cutoff) {
				delete(cache, key)
			}
		}
	}
	cache[url] = CacheEntry{Payload: payload, CachedAt: s.now()}

	for serializedSize(cache) > s.cacheLimit && len(cache) > 1 {
		if oldest := oldestKey(cache, url); oldest != "" {
			delete(cache, oldest)
		} else {
			break
		}
	}
	return s.writeRecord(keyImageCache, cache)
}

func (s *Store) cacheLocked() map[string]CacheEntry {
	cache := make(map[string]CacheEntry)
	s.readRecord(keyImageCache, &cache)
	return cache
}

func serializedSize(cache map[string]CacheEntry) int64 {
	data, err := json.Marshal(cache)
	if err != nil {
		return 0
	}
	return int64(len(data))
}

// oldestKey returns the least recently cached key, skipping the one just
// written so an oversized insert cannot evict itself first.
func oldestKey(cache map[string]CacheEntry, skip string) string {
	keys := make([]string, 0, len(cache))
	for k := range cache {
		if k != skip {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return cache[keys[i]].CachedAt.Before(cache[keys[j]].CachedAt)
	})
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
