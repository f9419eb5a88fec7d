package store

import (
	"github.com/google/uuid"

	"posterlab/internal/domain"
)

// GetHistory returns the persisted history in insertion order, oldest first.
// An unavailable or corrupt record degrades to an empty history.
func (s *Store) GetHistory() []domain.HistoryEntry {
	s.histMu.Lock()
	defer s.histMu.Unlock()
	return s.historyLocked()
}

// SaveHistory replaces the whole history collection.
func (s *Store) SaveHistory(entries []domain.HistoryEntry) bool {
	s.histMu.Lock()
	defer s.histMu.Unlock()
	return s.writeRecord(keyHistory, entries)
}

// AddToHistory assigns a fresh id and timestamp, appends the entry, and
// truncates the collection to the preferred maximum by dropping the oldest
// entries. The stored entry is returned alongside the write outcome.
func (s *Store) AddToHistory(entry domain.HistoryEntry) (domain.HistoryEntry, bool) {
	maxEntries := s.GetPreferences().MaxHistory
	if maxEntries <= 0 {
		maxEntries = domain.DefaultPreferences().MaxHistory
	}

	s.histMu.Lock()
	defer s.histMu.Unlock()

	entry.ID = uuid.NewString()
	entry.CreatedAt = s.now()

	entries := append(s.historyLocked(), entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	return entry, s.writeRecord(keyHistory, entries)
}

// RemoveFromHistory deletes one entry by id, reporting false when absent.
func (s *Store) RemoveFromHistory(id string) bool {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	entries := s.historyLocked()
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false
	}
	return s.writeRecord(keyHistory, kept)
}

// ClearHistory removes the entire collection.
func (s *Store) ClearHistory() bool {
	s.histMu.Lock()
	defer s.histMu.Unlock()
	if err := s.sub.Delete(keyHistory); err != nil {
		s.logger.Warn().Err(err).Msg("store: clear history failed")
		return false
	}
	return true
}

func (s *Store) historyLocked() []domain.HistoryEntry {
	var entries []domain.HistoryEntry
	s.readRecord(keyHistory, &entries)
	return entries
}
