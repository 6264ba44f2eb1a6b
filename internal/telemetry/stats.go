package telemetry

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// maxSamples bounds the window under a query flood; the oldest samples go
// first.
const maxSamples = 4096

type sample struct {
	at time.Time
	d  time.Duration
}

// StatsSnapshot is a point-in-time aggregate of query latency samples.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinUs int64   `json:"min_us"`
	MaxUs int64   `json:"max_us"`
	AvgUs float64 `json:"avg_us"`
	P50Us float64 `json:"p50_us"`
	P95Us float64 `json:"p95_us"`
	P99Us float64 `json:"p99_us"`
}

// QueryStats keeps chat query latencies seen within the last window.
// Samples are held in arrival order.
type QueryStats struct {
	mu      sync.Mutex
	window  time.Duration
	samples []sample
}

func NewQueryStats(window time.Duration) *QueryStats {
	if window <= 0 {
		window = time.Hour
	}
	return &QueryStats{window: window}
}

// Record adds one query latency. Negative durations count as zero.
func (s *QueryStats) Record(d time.Duration) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	if len(s.samples) == maxSamples {
		s.samples = slices.Delete(s.samples, 0, 1)
	}
	s.samples = append(s.samples, sample{at: now, d: max(d, 0)})
}

// Snapshot aggregates the samples still inside the window.
func (s *QueryStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	s.expireLocked(time.Now())
	durations := make([]time.Duration, len(s.samples))
	for i, sm := range s.samples {
		durations[i] = sm.d
	}
	s.mu.Unlock()

	if len(durations) == 0 {
		return StatsSnapshot{}
	}
	slices.Sort(durations)

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return StatsSnapshot{
		Count: len(durations),
		MinUs: durations[0].Microseconds(),
		MaxUs: durations[len(durations)-1].Microseconds(),
		AvgUs: float64(total.Microseconds()) / float64(len(durations)),
		P50Us: percentileUs(durations, 50),
		P95Us: percentileUs(durations, 95),
		P99Us: percentileUs(durations, 99),
	}
}

// expireLocked drops samples older than the window. Arrival order keeps
// the slice sorted by time, so the cut point is found by binary search.
func (s *QueryStats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	expired := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].at.Before(cutoff)
	})
	if expired > 0 {
		s.samples = slices.Delete(s.samples, 0, expired)
	}
}

// percentileUs interpolates linearly between the two closest ranks of the
// sorted durations and reports microseconds.
func percentileUs(sorted []time.Duration, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0].Microseconds())
	case pct >= 100:
		return float64(sorted[len(sorted)-1].Microseconds())
	}

	rank := float64(len(sorted)-1) * pct / 100
	i := int(rank)
	low := float64(sorted[i].Microseconds())
	if i+1 == len(sorted) {
		return low
	}
	high := float64(sorted[i+1].Microseconds())
	return low + (high-low)*(rank-float64(i))
}
