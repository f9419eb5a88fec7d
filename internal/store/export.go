package store

import (
	"fmt"
	"time"

	"posterlab/internal/domain"
)

const exportVersion = "1.0"

// ExportPayload is the portable data document. The credential record is
// deliberately excluded.
type ExportPayload struct {
	Version     string                `json:"version"`
	ExportDate  time.Time             `json:"exportDate"`
	History     []domain.HistoryEntry `json:"history"`
	Preferences domain.Preferences    `json:"preferences"`
}

// ImportReport summarizes an import, including partial failures.
type ImportReport struct {
	Success  bool          `json:"success"`
	Imported ImportedCount `json:"imported"`
	Errors   []string      `json:"errors"`
}

// ImportedCount breaks down what an import actually applied.
type ImportedCount struct {
	HistoryCount        int  `json:"historyCount"`
	PreferencesImported bool `json:"preferencesImported"`
}

// ExportAllData snapshots history and preferences into a portable document.
func (s *Store) ExportAllData() ExportPayload {
	return ExportPayload{
		Version:     exportVersion,
		ExportDate:  s.now(),
		History:     s.GetHistory(),
		Preferences: s.GetPreferences(),
	}
}

// ImportData merges the payload into the store. History entries are
// de-duplicated by id; preferences overlay the stored values. A failure in
// one half does not abort the other.
func (s *Store) ImportData(payload ExportPayload) ImportReport {
	report := ImportReport{Success: true}

	if len(payload.History) > 0 {
		existing := s.GetHistory()
		seen := make(map[string]struct{}, len(existing))
		for _, e := range existing {
			seen[e.ID] = struct{}{}
		}
		merged := existing
		added := 0
		for _, e := range payload.History {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			merged = append(merged, e)
			added++
		}
		if added > 0 {
			if s.SaveHistory(merged) {
				report.Imported.HistoryCount = added
			} else {
				report.Success = false
				report.Errors = append(report.Errors, "failed to persist imported history")
			}
		}
	}

	prefs := payload.Preferences
	if prefs != (domain.Preferences{}) {
		patch := domain.PreferencesPatch{
			Locale:       &prefs.Locale,
			AutoSave:     &prefs.AutoSave,
			MaxHistory:   &prefs.MaxHistory,
			Theme:        &prefs.Theme,
			Sound:        &prefs.Sound,
			AutoDownload: &prefs.AutoDownload,
		}
		if _, ok := s.SavePreferences(patch); ok {
			report.Imported.PreferencesImported = true
		} else {
			report.Success = false
			report.Errors = append(report.Errors, fmt.Sprintf("failed to persist imported preferences (version %s)", payload.Version))
		}
	}

	return report
}
