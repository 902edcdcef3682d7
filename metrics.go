package vecfilter

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    searchHistogram prometheus.Histogram
//	    rejectedCounter prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordSearch(k int, admitted, rejected int64, d time.Duration, err error) {
//	    p.searchHistogram.Observe(d.Seconds())
//	    p.rejectedCounter.Add(float64(rejected))
//	}
type MetricsCollector interface {
	// RecordAddPoint is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordAddPoint(duration time.Duration, err error)

	// RecordSearch is called after each search operation.
	// k is the number of neighbors requested; admitted and rejected count the
	// filter decisions made during the traversal (both zero when unfiltered).
	RecordSearch(k int, admitted, rejected int64, duration time.Duration, err error)

	// RecordBatchSearch is called after each batch search.
	// count is the number of queries in the batch.
	RecordBatchSearch(count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAddPoint(time.Duration, error)                  {}
func (NoopMetricsCollector) RecordSearch(int, int64, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordBatchSearch(int, time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddPointCount      atomic.Int64
	AddPointErrors     atomic.Int64
	AddPointTotalNanos atomic.Int64
	SearchCount        atomic.Int64
	SearchErrors       atomic.Int64
	SearchTotalNanos   atomic.Int64
	FilterAdmitted     atomic.Int64
	FilterRejected     atomic.Int64
	BatchSearchCount   atomic.Int64
	BatchSearchQueries atomic.Int64
	BatchSearchErrors  atomic.Int64
}

// RecordAddPoint implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAddPoint(duration time.Duration, err error) {
	b.AddPointCount.Add(1)
	b.AddPointTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddPointErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(k int, admitted, rejected int64, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	b.FilterAdmitted.Add(admitted)
	b.FilterRejected.Add(rejected)
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordBatchSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchSearch(count int, duration time.Duration, err error) {
	b.BatchSearchCount.Add(1)
	b.BatchSearchQueries.Add(int64(count))
	if err != nil {
		b.BatchSearchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddPointCount:      b.AddPointCount.Load(),
		AddPointErrors:     b.AddPointErrors.Load(),
		AddPointAvgNanos:   avg(b.AddPointTotalNanos.Load(), b.AddPointCount.Load()),
		SearchCount:        b.SearchCount.Load(),
		SearchErrors:       b.SearchErrors.Load(),
		SearchAvgNanos:     avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		FilterAdmitted:     b.FilterAdmitted.Load(),
		FilterRejected:     b.FilterRejected.Load(),
		BatchSearchCount:   b.BatchSearchCount.Load(),
		BatchSearchQueries: b.BatchSearchQueries.Load(),
		BatchSearchErrors:  b.BatchSearchErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddPointCount      int64
	AddPointErrors     int64
	AddPointAvgNanos   int64
	SearchCount        int64
	SearchErrors       int64
	SearchAvgNanos     int64
	FilterAdmitted     int64
	FilterRejected     int64
	BatchSearchCount   int64
	BatchSearchQueries int64
	BatchSearchErrors  int64
}

// Selectivity returns the fraction of filter evaluations that admitted the
// candidate, or 1 if no filtered search has run.
func (s BasicMetricsStats) Selectivity() float64 {
	total := s.FilterAdmitted + s.FilterRejected
	if total == 0 {
		return 1
	}
	return float64(s.FilterAdmitted) / float64(total)
}
