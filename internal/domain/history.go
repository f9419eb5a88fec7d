package domain

import "time"

// HistoryEntry is a locally persisted record of one completed generation.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Theme        string    `json:"theme"`
	ThemeName    string    `json:"theme_name"`
	ImageURL     string    `json:"image_url"`
	GenerationMS int64     `json:"generation_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Preferences is the flat set of user-tunable options persisted locally.
type Preferences struct {
	Locale       string `json:"locale"`
	AutoSave     bool   `json:"auto_save"`
	MaxHistory   int    `json:"max_history"`
	Theme        string `json:"theme"`
	Sound        bool   `json:"sound"`
	AutoDownload bool   `json:"auto_download"`
}

// DefaultPreferences returns the documented preference defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		Locale:       "zh-CN",
		AutoSave:     true,
		MaxHistory:   50,
		Theme:        "default",
		Sound:        true,
		AutoDownload: false,
	}
}

// PreferencesPatch is a partial preferences update. Nil fields keep the
// stored (or default) value; set fields overlay it.
type PreferencesPatch struct {
	Locale       *string `json:"locale,omitempty"`
	AutoSave     *bool   `json:"auto_save,omitempty"`
	MaxHistory   *int    `json:"max_history,omitempty"`
	Theme        *string `json:"theme,omitempty"`
	Sound        *bool   `json:"sound,omitempty"`
	AutoDownload *bool   `json:"auto_download,omitempty"`
}

// Apply overlays the patch onto p and returns the merged result.
func (patch PreferencesPatch) Apply(p Preferences) Preferences {
	if patch.Locale != nil {
		p.Locale = *patch.Locale
	}
	if patch.AutoSave != nil {
		p.AutoSave = *patch.AutoSave
	}
	if patch.MaxHistory != nil && *patch.MaxHistory > 0 {
		p.MaxHistory = *patch.MaxHistory
	}
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.Sound != nil {
		p.Sound = *patch.Sound
	}
	if patch.AutoDownload != nil {
		p.AutoDownload = *patch.AutoDownload
	}
	return p
}
