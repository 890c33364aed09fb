package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/qaforge/internal/qa"
	"github.com/dgallion1/qaforge/internal/qastore"
	"github.com/dgallion1/qaforge/internal/target"
)

// stubGen returns a fixed number of pairs per call and counts calls.
type stubGen struct {
	perCall int
	calls   int
}

func (g *stubGen) Generate(ctx context.Context, text string, count int) ([]qa.Item, error) {
	g.calls++
	items := make([]qa.Item, g.perCall)
	for i := range items {
		items[i] = qa.Item{Question: "q", Answer: "a"}
	}
	return items, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const workerDoc = "# Alpha\nalpha body one two\n\n# Beta\nbeta body three four\n"

func TestWorker_ProcessCompletes(t *testing.T) {
	store := qastore.New(t.TempDir(), discardLogger())
	gen := &stubGen{perCall: 3}
	w := NewWorker(gen, store, discardLogger(), true)

	job := NewJob("guide.md", "", []byte(workerDoc))
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.SectionsProcessed != 2 {
		t.Errorf("expected 2 sections processed, got %d", snap.Progress.SectionsProcessed)
	}
	if snap.Progress.ItemsGenerated == 0 {
		t.Error("expected items to be generated")
	}
	if snap.Title != "Alpha" {
		t.Errorf("expected title from document heading, got %q", snap.Title)
	}

	stored, err := store.Load("guide.md")
	if err != nil {
		t.Fatalf("load stored output: %v", err)
	}
	if len(stored) != snap.Progress.ItemsGenerated {
		t.Errorf("stored %d items, progress says %d", len(stored), snap.Progress.ItemsGenerated)
	}
}

func TestWorker_SkipsWhenOutputAlreadyAcceptable(t *testing.T) {
	store := qastore.New(t.TempDir(), discardLogger())
	existing := []qa.Item{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
		{Question: "q3", Answer: "a3"},
	}
	if err := store.Save("guide.md", existing); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	gen := &stubGen{perCall: 3}
	w := NewWorker(gen, store, discardLogger(), true)

	job := NewJob("guide.md", "", []byte(workerDoc))
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusCached {
		t.Fatalf("expected cached, got %q", job.Snapshot().Status)
	}
	if gen.calls != 0 {
		t.Errorf("expected zero backend calls for cached document, got %d", gen.calls)
	}
	if job.Snapshot().Progress.ItemsGenerated != 3 {
		t.Errorf("expected existing item count reported, got %d", job.Snapshot().Progress.ItemsGenerated)
	}
}

// recordingGen returns a fixed number of pairs per call and records the
// requested counts.
type recordingGen struct {
	perCall int
	counts  []int
}

func (g *recordingGen) Generate(ctx context.Context, text string, count int) ([]qa.Item, error) {
	g.counts = append(g.counts, count)
	items := make([]qa.Item, g.perCall)
	for i := range items {
		items[i] = qa.Item{Question: "q", Answer: "a"}
	}
	return items, nil
}

func TestWorker_SectionGoalsSplitGenerationTarget(t *testing.T) {
	// 100 words total: estimate gives base goal 10, generation target 13,
	// minimum acceptable 8. A section yield of 10 meets the base goal but
	// not the generation target, so the controller must keep splitting.
	doc := "# Guide\n" +
		strings.TrimSpace(strings.Repeat("alpha ", 49)) + "\n\n\n" +
		strings.TrimSpace(strings.Repeat("beta ", 49)) + "\n"
	if got := target.CountWords(doc); got != 100 {
		t.Fatalf("fixture has %d words, want 100", got)
	}

	store := qastore.New(t.TempDir(), discardLogger())
	gen := &recordingGen{perCall: 10}
	w := NewWorker(gen, store, discardLogger(), true)

	job := NewJob("guide.md", "", []byte(doc))
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TargetItems != 13 {
		t.Errorf("expected document target 13, got %d", snap.Progress.TargetItems)
	}
	if len(gen.counts) == 0 || gen.counts[0] != 13 {
		t.Fatalf("expected first request to ask for 13 pairs, got %v", gen.counts)
	}
	// A 10-pair yield against goal 13 must fall through to paragraph-level
	// sub-chunks rather than being accepted outright.
	if len(gen.counts) != 3 {
		t.Fatalf("expected whole attempt plus two paragraph sub-chunks, got requests %v", gen.counts)
	}
	if snap.Progress.ItemsGenerated != 20 {
		t.Errorf("expected 20 accumulated items, got %d", snap.Progress.ItemsGenerated)
	}
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	store := qastore.New(t.TempDir(), discardLogger())
	w := NewWorker(&stubGen{perCall: 3}, store, discardLogger(), true)

	job := NewJob("binary.exe", "", []byte("data"))
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusFailed {
		t.Fatalf("expected failed, got %q", job.Snapshot().Status)
	}
}

func TestWorker_ZeroYieldFails(t *testing.T) {
	store := qastore.New(t.TempDir(), discardLogger())
	w := NewWorker(&stubGen{perCall: 0}, store, discardLogger(), true)

	job := NewJob("guide.md", "", []byte(workerDoc))
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusFailed {
		t.Fatalf("expected failed, got %q", job.Snapshot().Status)
	}
}
