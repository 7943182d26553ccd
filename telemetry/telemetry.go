package telemetry

import (
	"sync"

	"go.uber.org/zap"
)

// Recorder is the fire-and-forget telemetry sink. Callers never depend on
// recording succeeding; implementations must not block or fail the caller.
type Recorder interface {
	Event(name string, fields ...zap.Field)
	Count(name string, delta int64)
}

// New returns a zap-backed recorder when telemetry is enabled, otherwise a
// no-op recorder.
func New(enabled bool, logger *zap.Logger) Recorder {
	if !enabled || logger == nil {
		return NopRecorder{}
	}
	return &zapRecorder{
		logger:   logger,
		counters: make(map[string]int64),
	}
}

// zapRecorder logs events and keeps in-process counters.
type zapRecorder struct {
	logger   *zap.Logger
	mu       sync.Mutex
	counters map[string]int64
}

func (r *zapRecorder) Event(name string, fields ...zap.Field) {
	r.logger.Debug("telemetry event", append([]zap.Field{zap.String("event", name)}, fields...)...)
}

func (r *zapRecorder) Count(name string, delta int64) {
	r.mu.Lock()
	r.counters[name] += delta
	r.mu.Unlock()
}

// Counters returns a copy of the accumulated counters.
func (r *zapRecorder) Counters() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) Event(string, ...zap.Field) {}
func (NopRecorder) Count(string, int64)       {}
