package monitor

import (
	"sync/atomic"
	"time"
)

// OperationType names a timed call to the classification service
type OperationType string

const (
	OperationPredictText OperationType = "predict_text"
	OperationPredictFile OperationType = "predict_file"
	OperationHealth      OperationType = "health"
)

// OperationMetrics is a snapshot of one operation's timings
type OperationMetrics struct {
	Operation    OperationType `json:"operation"`
	Count        int64         `json:"count"`
	TotalTime    int64         `json:"total_time_ns"`
	MinTime      int64         `json:"min_time_ns"`
	MaxTime      int64         `json:"max_time_ns"`
	LastTime     int64         `json:"last_time_ns"`
	ErrorCount   int64         `json:"error_count"`
	SuccessCount int64         `json:"success_count"`
}

// AvgTime returns the mean duration, or 0 before any call
func (m OperationMetrics) AvgTime() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return time.Duration(m.TotalTime / m.Count)
}

const noMin = int64(^uint64(0) >> 1)

// Timer accumulates durations and outcomes for one operation. It is safe
// for concurrent use.
type Timer struct {
	operation OperationType
	count     int64
	errors    int64
	totalTime int64
	minTime   int64
	maxTime   int64
	lastTime  int64
}

// NewTimer creates a timer for operation
func NewTimer(operation OperationType) *Timer {
	return &Timer{operation: operation, minTime: noMin}
}

// Record adds one measurement. failed marks the call as an error.
func (t *Timer) Record(d time.Duration, failed bool) {
	nanos := d.Nanoseconds()

	atomic.AddInt64(&t.count, 1)
	atomic.AddInt64(&t.totalTime, nanos)
	atomic.StoreInt64(&t.lastTime, nanos)
	if failed {
		atomic.AddInt64(&t.errors, 1)
	}

	for {
		current := atomic.LoadInt64(&t.minTime)
		if nanos >= current || atomic.CompareAndSwapInt64(&t.minTime, current, nanos) {
			break
		}
	}
	for {
		current := atomic.LoadInt64(&t.maxTime)
		if nanos <= current || atomic.CompareAndSwapInt64(&t.maxTime, current, nanos) {
			break
		}
	}
}

// Snapshot returns the current totals
func (t *Timer) Snapshot() OperationMetrics {
	count := atomic.LoadInt64(&t.count)
	errs := atomic.LoadInt64(&t.errors)
	minTime := atomic.LoadInt64(&t.minTime)
	if minTime == noMin {
		minTime = 0
	}

	return OperationMetrics{
		Operation:    t.operation,
		Count:        count,
		TotalTime:    atomic.LoadInt64(&t.totalTime),
		MinTime:      minTime,
		MaxTime:      atomic.LoadInt64(&t.maxTime),
		LastTime:     atomic.LoadInt64(&t.lastTime),
		ErrorCount:   errs,
		SuccessCount: count - errs,
	}
}
