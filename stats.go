package mrkl

import (
	"maps"
	"strings"
	"sync"
)

// ExecutionStats holds the counters and gauges of a single run.
//
// Counters only go up (iterations, tokens, tool calls). Gauges can be reset,
// which makes them suitable for values like consecutive tool errors.
//
// All methods are safe for concurrent use.
type ExecutionStats struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
}

// NewExecutionStats creates empty stats.
func NewExecutionStats() *ExecutionStats {
	return &ExecutionStats{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
	}
}

// IncrCounter increments a counter by delta.
// Panics if delta is negative.
func (s *ExecutionStats) IncrCounter(key string, delta int64) {
	if delta < 0 {
		panic("mrkl: IncrCounter called with negative delta")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] += delta
}

// GetCounter returns the current value of a counter, or 0 if not set.
func (s *ExecutionStats) GetCounter(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[key]
}

// IncrGauge adds delta (positive or negative) to a gauge.
func (s *ExecutionStats) IncrGauge(key string, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gauges[key] += delta
}

// SetGauge sets a gauge to value.
func (s *ExecutionStats) SetGauge(key string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gauges[key] = value
}

// ResetGauge sets a gauge back to zero.
func (s *ExecutionStats) ResetGauge(key string) {
	s.SetGauge(key, 0)
}

// GetGauge returns the current value of a gauge, or 0 if not set.
func (s *ExecutionStats) GetGauge(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gauges[key]
}

// Counters returns a copy of all counters.
func (s *ExecutionStats) Counters() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.counters)
}

// Gauges returns a copy of all gauges.
func (s *ExecutionStats) Gauges() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.gauges)
}

// Exceeded returns the first limit whose value is strictly greater than its
// MaxValue, or nil if every limit holds. Counters and gauges are both checked.
func (s *ExecutionStats) Exceeded(limits []Limit) *Limit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range limits {
		limit := &limits[i]
		switch limit.Type {
		case LimitKeyPrefix:
			for key, v := range s.counters {
				if strings.HasPrefix(key, limit.Key) && float64(v) > limit.MaxValue {
					return limit
				}
			}
			for key, v := range s.gauges {
				if strings.HasPrefix(key, limit.Key) && v > limit.MaxValue {
					return limit
				}
			}
		default:
			if v, ok := s.counters[limit.Key]; ok && float64(v) > limit.MaxValue {
				return limit
			}
			if v, ok := s.gauges[limit.Key]; ok && v > limit.MaxValue {
				return limit
			}
		}
	}
	return nil
}
