package monitor

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/yildizm/ResumeScreen/internal/service"
)

// Collector times operations by type
type Collector struct {
	mu     sync.RWMutex
	timers map[OperationType]*Timer
	now    func() time.Time
}

// New creates an empty collector
func New() *Collector {
	return &Collector{
		timers: make(map[OperationType]*Timer),
		now:    time.Now,
	}
}

// TrackOperationWithError runs fn and records its duration and whether it failed
func (c *Collector) TrackOperationWithError(operation OperationType, fn func() error) error {
	start := c.now()
	err := fn()
	c.timer(operation).Record(c.now().Sub(start), err != nil)
	return err
}

func (c *Collector) timer(operation OperationType) *Timer {
	c.mu.RLock()
	t, ok := c.timers[operation]
	c.mu.RUnlock()
	if ok {
		return t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok = c.timers[operation]; !ok {
		t = NewTimer(operation)
		c.timers[operation] = t
	}
	return t
}

// Snapshot returns metrics for every operation seen, ordered by name
func (c *Collector) Snapshot() []OperationMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]OperationMetrics, 0, len(c.timers))
	for _, t := range c.timers {
		out = append(out, t.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Operation < out[j].Operation
	})
	return out
}

// Service is the client surface that can be instrumented
type Service interface {
	PredictText(ctx context.Context, text, requestID string) (*service.PredictResponse, error)
	PredictFile(ctx context.Context, name string, content io.Reader, requestID string) (*service.PredictResponse, error)
	Health(ctx context.Context) (*service.HealthResponse, error)
}

// InstrumentedService times every call made through it
type InstrumentedService struct {
	next      Service
	collector *Collector
}

// Instrument wraps svc so its calls are recorded in c
func Instrument(svc Service, c *Collector) *InstrumentedService {
	return &InstrumentedService{next: svc, collector: c}
}

func (s *InstrumentedService) PredictText(ctx context.Context, text, requestID string) (resp *service.PredictResponse, err error) {
	_ = s.collector.TrackOperationWithError(OperationPredictText, func() error {
		resp, err = s.next.PredictText(ctx, text, requestID)
		return err
	})
	return resp, err
}

func (s *InstrumentedService) PredictFile(ctx context.Context, name string, content io.Reader, requestID string) (resp *service.PredictResponse, err error) {
	_ = s.collector.TrackOperationWithError(OperationPredictFile, func() error {
		resp, err = s.next.PredictFile(ctx, name, content, requestID)
		return err
	})
	return resp, err
}

func (s *InstrumentedService) Health(ctx context.Context) (resp *service.HealthResponse, err error) {
	_ = s.collector.TrackOperationWithError(OperationHealth, func() error {
		resp, err = s.next.Health(ctx)
		return err
	})
	return resp, err
}
