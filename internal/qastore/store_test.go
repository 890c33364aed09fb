package qastore

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/qaforge/internal/qa"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func makeItems(n int) []qa.Item {
	items := make([]qa.Item, n)
	for i := range items {
		items[i] = qa.Item{Question: "q", Answer: "a"}
	}
	return items
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	items := []qa.Item{
		{Question: "What is it?", Answer: "A tool."},
		{Question: "Why?", Answer: "Because."},
	}
	if err := s.Save("manual.md", items); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load("manual.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0] != items[0] || got[1] != items[1] {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestPath_DerivedFromBaseName(t *testing.T) {
	s := newTestStore(t)
	p := s.Path("some/dir/guide.md")
	if filepath.Base(p) != "guide_qa.jsonl" {
		t.Errorf("expected guide_qa.jsonl, got %s", filepath.Base(p))
	}
}

func TestSave_FileIsOneItemPerLine(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("doc.txt", makeItems(3)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(s.Path("doc.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var item qa.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			t.Errorf("line %d is not a self-contained item: %v", i, err)
		}
	}
}

func TestExisting_SufficientSkipsGeneration(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("doc.md", makeItems(9)); err != nil {
		t.Fatalf("save: %v", err)
	}

	items, ok, err := s.Existing("doc.md", 8)
	if err != nil {
		t.Fatalf("existing: %v", err)
	}
	if !ok {
		t.Fatal("expected existing file with 9 items to satisfy min of 8")
	}
	if len(items) != 9 {
		t.Errorf("expected 9 items, got %d", len(items))
	}
}

func TestExisting_InsufficientTriggersRegeneration(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("doc.md", makeItems(5)); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, ok, err := s.Existing("doc.md", 8)
	if err != nil {
		t.Fatalf("existing: %v", err)
	}
	if ok {
		t.Fatal("expected 5 items to be insufficient for min of 8")
	}
}

func TestExisting_MissingFile(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.Existing("nothing.md", 2)
	if err != nil {
		t.Fatalf("existing: %v", err)
	}
	if ok {
		t.Fatal("expected no existing data")
	}
}

func TestExisting_LegacyFormatUpgraded(t *testing.T) {
	s := newTestStore(t)
	legacy := filepath.Join(s.Dir(), "old_qa.json")
	data, _ := json.Marshal(makeItems(4))
	if err := os.WriteFile(legacy, data, 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}

	items, ok, err := s.Existing("old.md", 3)
	if err != nil {
		t.Fatalf("existing: %v", err)
	}
	if !ok {
		t.Fatal("expected sufficient legacy file to be accepted")
	}
	if len(items) != 4 {
		t.Errorf("expected 4 items, got %d", len(items))
	}

	// The legacy array must now exist in the per-line format too.
	if _, err := os.Stat(s.Path("old.md")); err != nil {
		t.Errorf("expected jsonl upgrade to exist: %v", err)
	}
	got, err := s.Load("old.md")
	if err != nil {
		t.Fatalf("load upgraded: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 items after upgrade, got %d", len(got))
	}
}

func TestExisting_LegacyInsufficientNotUpgraded(t *testing.T) {
	s := newTestStore(t)
	legacy := filepath.Join(s.Dir(), "old_qa.json")
	data, _ := json.Marshal(makeItems(2))
	if err := os.WriteFile(legacy, data, 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}

	_, ok, err := s.Existing("old.md", 8)
	if err != nil {
		t.Fatalf("existing: %v", err)
	}
	if ok {
		t.Fatal("expected insufficient legacy file to be rejected")
	}
	if _, err := os.Stat(s.Path("old.md")); !os.IsNotExist(err) {
		t.Error("insufficient legacy file must not be upgraded")
	}
}

func TestLoad_SkipsMalformedLines(t *testing.T) {
	s := newTestStore(t)
	content := `{"question":"Q1","answer":"A1"}
not json at all
{"question":"Q2","answer":"A2"}
`
	if err := os.WriteFile(s.Path("doc.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	items, err := s.Load("doc.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 valid items, got %d", len(items))
	}
}

func TestSave_OverwritesAtomically(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("doc.md", makeItems(2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save("doc.md", makeItems(5)); err != nil {
		t.Fatalf("second save: %v", err)
	}
	items, err := s.Load("doc.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("expected overwrite with 5 items, got %d", len(items))
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(s.Dir())
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestListAndDelete(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save("alpha.md", makeItems(2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save("beta.txt", makeItems(2)); err != nil {
		t.Fatalf("save: %v", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 entries, got %v", names)
	}

	if err := s.Delete("alpha.md"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	names, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 || names[0] != "beta" {
		t.Errorf("expected only beta left, got %v", names)
	}
}
