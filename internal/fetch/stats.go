package fetch

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at time.Time
	d  time.Duration
}

// StatsSnapshot is a point-in-time aggregate of fetch latencies, in
// milliseconds.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// FetchStats tracks download latencies within a rolling time window.
type FetchStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewFetchStats(maxAge time.Duration) *FetchStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &FetchStats{maxAge: maxAge}
}

// Record adds one latency sample. Negative durations clamp to zero.
func (s *FetchStats) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(now)
	s.samples = append(s.samples, sample{at: now, d: d})
}

// Snapshot aggregates the samples still inside the window.
func (s *FetchStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(time.Now())

	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	ms := make([]int64, len(s.samples))
	var sum int64
	for i, sm := range s.samples {
		ms[i] = sm.d.Milliseconds()
		sum += ms[i]
	}
	slices.Sort(ms)

	return StatsSnapshot{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: float64(sum) / float64(len(ms)),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
		P99Ms: percentile(ms, 99),
	}
}

// prune drops samples older than the window. Samples are appended in
// chronological order, so everything before the first fresh one goes.
func (s *FetchStats) prune(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := len(s.samples)
	for i, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			keep = i
			break
		}
	}
	s.samples = s.samples[keep:]
}

// percentile interpolates linearly between the two nearest ranks of a sorted
// slice.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	rank := (float64(len(sorted)-1) * pct) / 100.0
	lo := int(rank)
	hi := lo + 1
	if hi >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[hi])-float64(sorted[lo]))*frac
}
