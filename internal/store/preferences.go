package store

import (
	"posterlab/internal/domain"
)

// GetPreferences returns the stored preferences merged over the defaults,
// or the defaults alone when nothing is stored.
func (s *Store) GetPreferences() domain.Preferences {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()
	return s.preferencesLocked()
}

// SavePreferences overlays the patch onto the stored preferences and
// persists the merged result. Unspecified keys keep their previous value.
func (s *Store) SavePreferences(patch domain.PreferencesPatch) (domain.Preferences, bool) {
	s.prefMu.Lock()
	defer s.prefMu.Unlock()

	merged := patch.Apply(s.preferencesLocked())
	return merged, s.writeRecord(keyPreferences, merged)
}

// UpdatePreference sets a single named preference. Unknown keys report false.
func (s *Store) UpdatePreference(key string, value any) bool {
	patch := domain.PreferencesPatch{}
	switch key {
	case "locale":
		v, ok := value.(string)
		if !ok {
			return false
		}
		patch.Locale = &v
	case "auto_save":
		v, ok := value.(bool)
		if !ok {
			return false
		}
		patch.AutoSave = &v
	case "max_history":
		v, ok := toInt(value)
		if !ok {
			return false
		}
		patch.MaxHistory = &v
	case "theme":
		v, ok := value.(string)
		if !ok {
			return false
		}
		patch.Theme = &v
	case "sound":
		v, ok := value.(bool)
		if !ok {
			return false
		}
		patch.Sound = &v
	case "auto_download":
		v, ok := value.(bool)
		if !ok {
			return false
		}
		patch.AutoDownload = &v
	default:
		return false
	}
	_, ok := s.SavePreferences(patch)
	return ok
}

func (s *Store) preferencesLocked() domain.Preferences {
	prefs := domain.DefaultPreferences()
	s.readRecord(keyPreferences, &prefs)
	return prefs
}

// toInt accepts the numeric shapes JSON decoding produces.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
