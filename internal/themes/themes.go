// Package themes carries the themed vocabulary sets used to build poster
// prompts. The sets are data, not logic: they ship as an embedded JSON file
// that deployments may override with their own catalog.
package themes

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed themes.json
var embeddedCatalog []byte

// Word is one vocabulary item shown on the poster.
type Word struct {
	Hanzi  string `json:"hanzi"`
	Pinyin string `json:"pinyin"`
	Gloss  string `json:"gloss"`
}

// Theme is one named vocabulary set.
type Theme struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
	Words  []Word `json:"words"`
}

// Catalog holds the available themes in file order.
type Catalog struct {
	themes []Theme
	byKey  map[string]Theme
}

type catalogFile struct {
	Themes []Theme `json:"themes"`
}

// Load returns the embedded catalog.
func Load() (*Catalog, error) {
	return parse(embeddedCatalog)
}

// LoadFile reads a catalog override from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("themes: read catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("themes: decode catalog: %w", err)
	}
	if len(file.Themes) == 0 {
		return nil, fmt.Errorf("themes: catalog has no themes")
	}
	byKey := make(map[string]Theme, len(file.Themes))
	for _, t := range file.Themes {
		byKey[t.Key] = t
	}
	return &Catalog{themes: file.Themes, byKey: byKey}, nil
}

// List returns all themes in catalog order.
func (c *Catalog) List() []Theme {
	out := make([]Theme, len(c.themes))
	copy(out, c.themes)
	return out
}

// Get looks up a theme by key.
func (c *Catalog) Get(key string) (Theme, bool) {
	t, ok := c.byKey[strings.TrimSpace(key)]
	return t, ok
}

// BuildPrompt renders the text-to-image prompt for a poster: the title, the
// themed vocabulary table, and fixed layout guidance for the generator.
func (c *Catalog) BuildPrompt(title string, theme Theme) string {
	titleCase := cases.Title(language.Und)
	var b strings.Builder
	fmt.Fprintf(&b, "A cheerful Chinese literacy poster for children titled %q (%s theme, %s).\n",
		title, theme.Name, titleCase.String(theme.NameEN))
	b.WriteString("The poster shows a large illustrated scene with the following vocabulary, each word paired with its pinyin and a matching illustration:\n")
	for _, w := range theme.Words {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", w.Hanzi, w.Pinyin, w.Gloss)
	}
	b.WriteString("Bright flat colors, rounded shapes, large legible Chinese characters, clean layout with the title at the top.")
	return b.String()
}
