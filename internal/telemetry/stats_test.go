package telemetry

import (
	"testing"
	"time"
)

func TestQueryStatsSnapshotPercentiles(t *testing.T) {
	stats := NewQueryStats(time.Hour)
	for _, us := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(us) * time.Microsecond)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinUs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinUs)
	}
	if snap.MaxUs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxUs)
	}
	if snap.AvgUs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgUs)
	}
	if snap.P50Us != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Us)
	}
	if snap.P95Us != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Us)
	}
	if snap.P99Us != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Us)
	}
}

func TestQueryStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewQueryStats(10 * time.Millisecond)
	stats.Record(100 * time.Microsecond)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200 * time.Microsecond)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinUs != 200 || snap.MaxUs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestQueryStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewQueryStats(time.Hour)
	stats.Record(-time.Second)

	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinUs != 0 {
		t.Fatalf("expected single zero sample, got %+v", snap)
	}
}

func TestQueryStatsEmpty(t *testing.T) {
	if snap := NewQueryStats(0).Snapshot(); snap != (StatsSnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestQueryStatsCapsSamples(t *testing.T) {
	stats := NewQueryStats(time.Hour)
	for i := 0; i < maxSamples+10; i++ {
		stats.Record(time.Duration(i) * time.Microsecond)
	}

	snap := stats.Snapshot()
	if snap.Count != maxSamples {
		t.Fatalf("expected count=%d, got %d", maxSamples, snap.Count)
	}
	if snap.MinUs != 10 {
		t.Fatalf("expected oldest samples dropped (min=10), got min=%d", snap.MinUs)
	}
}

func TestPercentileUs(t *testing.T) {
	if got := percentileUs(nil, 50); got != 0 {
		t.Fatalf("expected 0 for no samples, got %f", got)
	}
	one := []time.Duration{7 * time.Microsecond}
	if got := percentileUs(one, 99); got != 7 {
		t.Fatalf("expected single sample for any percentile, got %f", got)
	}
}
