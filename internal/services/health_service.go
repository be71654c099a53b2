package services

import (
	"context"
	"sync"
	"time"

	"github.com/sjperalta/consulta-api/internal/upstream"
)

// HealthChecker probes the analytics backend
type HealthChecker interface {
	Health(ctx context.Context) (*upstream.Health, error)
}

// UpstreamStatus is the outcome of the last backend probe
type UpstreamStatus struct {
	Reachable bool             `json:"reachable"`
	CheckedAt *time.Time       `json:"checked_at,omitempty"`
	Health    *upstream.Health `json:"health,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// HealthService keeps the last known state of the analytics backend
type HealthService struct {
	checker HealthChecker
	now     func() time.Time

	mu   sync.RWMutex
	last UpstreamStatus
}

func NewHealthService(checker HealthChecker) *HealthService {
	return &HealthService{checker: checker, now: time.Now}
}

// Probe checks the backend and records the result. The error is returned so
// the scheduler can count failures.
func (s *HealthService) Probe(ctx context.Context) error {
	health, err := s.checker.Health(ctx)
	checkedAt := s.now()

	status := UpstreamStatus{CheckedAt: &checkedAt}
	if err != nil {
		status.Error = err.Error()
	} else {
		status.Reachable = true
		status.Health = health
	}

	s.mu.Lock()
	s.last = status
	s.mu.Unlock()
	return err
}

// Status returns the last probe result. Before the first probe Reachable is false and CheckedAt is nil.
func (s *HealthService) Status() UpstreamStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
