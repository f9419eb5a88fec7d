package store

import (
	"errors"
	"strings"
	"testing"

	"posterlab/internal/domain"
)

func TestFileSubstrateRoundTrip(t *testing.T) {
	sub, err := NewFileSubstrate(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("new substrate: %v", err)
	}

	if _, ok, err := sub.Get("history"); err != nil || ok {
		t.Fatalf("missing record: ok=%v err=%v", ok, err)
	}

	if err := sub.Set("history", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := sub.Get("history")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"id":"a"}]` {
		t.Fatalf("data = %s", data)
	}

	if err := sub.Delete("history"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := sub.Get("history"); ok {
		t.Fatalf("record survived delete")
	}
	// Deleting an absent record is not an error.
	if err := sub.Delete("history"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFileSubstrateQuota(t *testing.T) {
	sub, err := NewFileSubstrate(t.TempDir(), 100)
	if err != nil {
		t.Fatalf("new substrate: %v", err)
	}

	if err := sub.Set("small", []byte(strings.Repeat("x", 40))); err != nil {
		t.Fatalf("set small: %v", err)
	}
	err = sub.Set("big", []byte(strings.Repeat("y", 80)))
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want quota exceeded", err)
	}

	// Rewriting an existing record counts its replacement, not its sum.
	if err := sub.Set("small", []byte(strings.Repeat("z", 90))); err != nil {
		t.Fatalf("rewrite within quota: %v", err)
	}
}

func TestFileSubstrateRejectsTraversalKeys(t *testing.T) {
	sub, err := NewFileSubstrate(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("new substrate: %v", err)
	}
	for _, key := range []string{"", "..", "../escape", "a/b", `a\b`} {
		if err := sub.Set(key, []byte("x")); err == nil {
			t.Fatalf("key %q accepted", key)
		}
	}
}
