package themes

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(catalog.List()) == 0 {
		t.Fatalf("catalog is empty")
	}

	theme, ok := catalog.Get("animals")
	if !ok {
		t.Fatalf("animals theme missing")
	}
	if theme.Name == "" || theme.NameEN == "" {
		t.Fatalf("theme names missing: %+v", theme)
	}
	if len(theme.Words) == 0 {
		t.Fatalf("theme has no words")
	}
	for _, w := range theme.Words {
		if w.Hanzi == "" || w.Pinyin == "" || w.Gloss == "" {
			t.Fatalf("incomplete word: %+v", w)
		}
	}

	if _, ok := catalog.Get("no-such-theme"); ok {
		t.Fatalf("unknown key should not resolve")
	}
}

func TestBuildPromptIncludesTitleAndWords(t *testing.T) {
	catalog, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	theme, _ := catalog.Get("fruits")

	prompt := catalog.BuildPrompt("我爱水果", theme)
	if !strings.Contains(prompt, "我爱水果") {
		t.Fatalf("prompt missing title: %s", prompt)
	}
	for _, w := range theme.Words {
		if !strings.Contains(prompt, w.Hanzi) || !strings.Contains(prompt, w.Pinyin) {
			t.Fatalf("prompt missing word %s", w.Hanzi)
		}
	}
}
