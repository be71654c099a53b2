package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sjperalta/consulta-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Observer is notified after every job run
type Observer interface {
	ObserveJob(name string, duration time.Duration, err error)
}

// Worker runs scheduled background tasks
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	slots    chan struct{}
	observer Observer
	stats    WorkerStats
	statsMu  sync.RWMutex
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker creates a worker that runs at most maxConcurrent jobs at once.
// observer may be nil.
func NewWorker(maxConcurrent int, observer Observer) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:      ctx,
		cancel:   cancel,
		slots:    make(chan struct{}, maxConcurrent),
		observer: observer,
		stats:    WorkerStats{MaxConcurrent: maxConcurrent},
	}
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed intervals.
// A non-positive interval is rejected and the job is not scheduled.
func (w *Worker) ScheduleEveryImmediate(name string, interval time.Duration, job Job) bool {
	if interval <= 0 {
		logger.Error("Job not scheduled: interval must be positive", "job", name, "interval", interval)
		return false
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(name, job)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run(name, job)
			}
		}
	}()
	return true
}

func (w *Worker) run(name string, job Job) {
	select {
	case w.slots <- struct{}{}:
	case <-w.ctx.Done():
		return
	}
	defer func() { <-w.slots }()

	w.trackJobStart()
	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		elapsed := time.Since(start)
		if err != nil {
			logger.Error("[Scheduler] Job failed", "job", name, "error", err)
		} else {
			logger.Debug("[Scheduler] Job completed", "job", name, "elapsed", elapsed)
		}
		if w.observer != nil {
			w.observer.ObserveJob(name, elapsed, err)
		}
		w.trackJobEnd(err != nil)
	}()

	err = job(w.ctx)
}

// Shutdown stops all schedules and waits for running jobs to return
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	return w.stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

// CompletedJobs counts every finished run; FailedJobs is the failing subset.
func (w *Worker) trackJobEnd(failed bool) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
	if failed {
		w.stats.FailedJobs++
	}
}
