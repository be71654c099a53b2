package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sjperalta/consulta-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	mu    sync.Mutex
	names []string
	errs  []error
}

func (r *recordingObserver) ObserveJob(name string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.errs = append(r.errs, err)
}

func TestWorker_ScheduleEveryImmediateRunsAtStartup(t *testing.T) {
	logger.Setup("test")
	obs := &recordingObserver{}
	w := NewWorker(1, obs)

	var runs atomic.Int32
	w.ScheduleEveryImmediate("probe", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int64(1), stats.CompletedJobs)
	assert.Equal(t, int64(0), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, []string{"probe"}, obs.names)
}

func TestWorker_ScheduleEveryImmediateRepeats(t *testing.T) {
	logger.Setup("test")
	w := NewWorker(2, nil)

	var runs atomic.Int32
	assert.True(t, w.ScheduleEveryImmediate("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	w.Shutdown()
}

func TestWorker_NonPositiveIntervalIsRejected(t *testing.T) {
	logger.Setup("test")
	w := NewWorker(1, nil)

	var runs atomic.Int32
	job := func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}
	assert.False(t, w.ScheduleEveryImmediate("zero", 0, job))
	assert.False(t, w.ScheduleEveryImmediate("negative", -time.Second, job))

	w.Shutdown()
	assert.Equal(t, int32(0), runs.Load())
	assert.Equal(t, int64(0), w.GetStats().CompletedJobs)
}

func TestWorker_FailuresAndPanicsAreCounted(t *testing.T) {
	logger.Setup("test")
	obs := &recordingObserver{}
	w := NewWorker(1, obs)

	w.ScheduleEveryImmediate("fails", time.Hour, func(ctx context.Context) error {
		return errors.New("backend down")
	})
	w.ScheduleEveryImmediate("panics", time.Hour, func(ctx context.Context) error {
		panic("boom")
	})

	assert.Eventually(t, func() bool { return w.GetStats().CompletedJobs == 2 }, time.Second, 5*time.Millisecond)
	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int64(2), stats.FailedJobs)
	obs.mu.Lock()
	defer obs.mu.Unlock()
	for _, err := range obs.errs {
		assert.Error(t, err)
	}
}

func TestWorker_ShutdownCancelsContext(t *testing.T) {
	logger.Setup("test")
	w := NewWorker(1, nil)

	started := make(chan struct{})
	w.ScheduleEveryImmediate("long", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	done := make(chan struct{})
	go func() {
		w.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return")
	}
}
