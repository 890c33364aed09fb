package generate

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// StatsSnapshot is a point-in-time aggregate of backend call latencies and
// attempt-loop outcomes.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	Retries  uint64  `json:"retries"`
	Failures uint64  `json:"failures"`
}

// BackendStats tracks backend call latencies within a rolling window,
// plus running retry and exhausted-budget counters.
type BackendStats struct {
	mu       sync.Mutex
	samples  []sample
	maxAge   time.Duration
	retries  uint64
	failures uint64
}

func NewBackendStats(maxAge time.Duration) *BackendStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &BackendStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one call latency sample.
func (s *BackendStats) Record(durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{timestamp: now, durationMs: durationMs})
}

// RecordRetry counts one attempt-loop retry.
func (s *BackendStats) RecordRetry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retries++
}

// RecordFailure counts one chunk whose retry budget was exhausted.
func (s *BackendStats) RecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
}

func (s *BackendStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := StatsSnapshot{Retries: s.retries, Failures: s.failures}
	if len(s.samples) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	return snap
}

func (s *BackendStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
