package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_AddLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"[a]", "  ", "[b]", "[b]", ":keys", "[a]"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	want := []string{"[b]", ":keys", "[a]"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_Get(t *testing.T) {
	t.Parallel()

	h := NewHistory("")
	_ = h.Add("one")

	if got, err := h.Get(0); err != nil || got != "one" {
		t.Errorf("Get(0) = %q, %v", got, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Get(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Get(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	t.Parallel()

	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_LoadSkipsBlank(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("a\n\n  \nb\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if got := h.Entries(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Entries() = %v", got)
	}
}

func TestModel_HistoryStep(t *testing.T) {
	t.Parallel()

	h := NewHistory("")
	_ = h.Add("[a]")
	_ = h.Add("[b]")

	m := newModel(t.Context(), testSession(), h)

	m = m.historyStep(-1)
	if got := m.input.Value(); got != "[b]" {
		t.Errorf("Up input = %q, want [b]", got)
	}

	m = m.historyStep(-1)
	m = m.historyStep(-1)
	if got := m.input.Value(); got != "[a]" {
		t.Errorf("Up at oldest input = %q, want [a]", got)
	}

	m = m.historyStep(1)
	m = m.historyStep(1)
	if got := m.input.Value(); got != "" {
		t.Errorf("Down past newest input = %q, want empty", got)
	}
}
