package voxgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
//
// The per-voxel lookup and enumeration kernels are deliberately not
// instrumented; they run millions of times per frame and must stay
// branch-cheap. Metrics are recorded at the operation level instead.
type MetricsCollector interface {
	// RecordRangeQuery is called after each box overlap query.
	// cells is the number of distinct leaves visited, refs the number of
	// references enumerated.
	RecordRangeQuery(cells, refs int, duration time.Duration, err error)

	// RecordSnapshotSave is called after a snapshot write.
	RecordSnapshotSave(bytes int64, duration time.Duration, err error)

	// RecordSnapshotLoad is called after a snapshot read.
	RecordSnapshotLoad(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics. It is the default.
type NoopMetricsCollector struct{}

// RecordRangeQuery implements MetricsCollector.
func (NoopMetricsCollector) RecordRangeQuery(cells, refs int, duration time.Duration, err error) {}

// RecordSnapshotSave implements MetricsCollector.
func (NoopMetricsCollector) RecordSnapshotSave(bytes int64, duration time.Duration, err error) {}

// RecordSnapshotLoad implements MetricsCollector.
func (NoopMetricsCollector) RecordSnapshotLoad(bytes int64, duration time.Duration, err error) {}

// BasicMetricsCollector is a thread-safe in-memory collector using atomic
// counters. Suitable for tests and simple monitoring.
type BasicMetricsCollector struct {
	rangeQueries     atomic.Int64
	rangeQueryErrors atomic.Int64
	rangeRefs        atomic.Int64
	rangeNanos       atomic.Int64

	snapshotSaves  atomic.Int64
	snapshotLoads  atomic.Int64
	snapshotErrors atomic.Int64
	snapshotBytes  atomic.Int64
}

// MetricsStats is a point-in-time copy of collected metrics.
type MetricsStats struct {
	RangeQueryCount    int64
	RangeQueryErrors   int64
	RangeRefsVisited   int64
	RangeQueryAvgNanos int64

	SnapshotSaveCount int64
	SnapshotLoadCount int64
	SnapshotErrors    int64
	SnapshotBytes     int64
}

// RecordRangeQuery implements MetricsCollector.
func (c *BasicMetricsCollector) RecordRangeQuery(cells, refs int, duration time.Duration, err error) {
	c.rangeQueries.Add(1)
	c.rangeRefs.Add(int64(refs))
	c.rangeNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.rangeQueryErrors.Add(1)
	}
}

// RecordSnapshotSave implements MetricsCollector.
func (c *BasicMetricsCollector) RecordSnapshotSave(bytes int64, duration time.Duration, err error) {
	c.snapshotSaves.Add(1)
	c.snapshotBytes.Add(bytes)
	if err != nil {
		c.snapshotErrors.Add(1)
	}
}

// RecordSnapshotLoad implements MetricsCollector.
func (c *BasicMetricsCollector) RecordSnapshotLoad(bytes int64, duration time.Duration, err error) {
	c.snapshotLoads.Add(1)
	c.snapshotBytes.Add(bytes)
	if err != nil {
		c.snapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of the collected metrics.
func (c *BasicMetricsCollector) GetStats() MetricsStats {
	stats := MetricsStats{
		RangeQueryCount:   c.rangeQueries.Load(),
		RangeQueryErrors:  c.rangeQueryErrors.Load(),
		RangeRefsVisited:  c.rangeRefs.Load(),
		SnapshotSaveCount: c.snapshotSaves.Load(),
		SnapshotLoadCount: c.snapshotLoads.Load(),
		SnapshotErrors:    c.snapshotErrors.Load(),
		SnapshotBytes:     c.snapshotBytes.Load(),
	}
	if stats.RangeQueryCount > 0 {
		stats.RangeQueryAvgNanos = c.rangeNanos.Load() / stats.RangeQueryCount
	}
	return stats
}
