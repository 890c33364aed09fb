package generate

import (
	"testing"
	"time"
)

func TestBackendStatsSnapshot(t *testing.T) {
	stats := NewBackendStats(time.Hour)
	stats.Record(100)
	stats.Record(200)
	stats.Record(300)
	stats.Record(400)
	stats.Record(500)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
}

func TestBackendStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewBackendStats(10 * time.Millisecond)
	stats.Record(100)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
}

func TestBackendStatsCountersSurvivePruning(t *testing.T) {
	stats := NewBackendStats(10 * time.Millisecond)
	stats.Record(100)
	stats.RecordRetry()
	stats.RecordRetry()
	stats.RecordFailure()
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected samples pruned, got %d", snap.Count)
	}
	if snap.Retries != 2 {
		t.Errorf("expected 2 retries, got %d", snap.Retries)
	}
	if snap.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", snap.Failures)
	}
}

func TestBackendStatsClampsNegativeDuration(t *testing.T) {
	stats := NewBackendStats(time.Hour)
	stats.Record(-10)
	snap := stats.Snapshot()
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
