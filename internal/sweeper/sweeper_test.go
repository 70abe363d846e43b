package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu    sync.Mutex
	calls []time.Time
	n     int
	err   error
}

func (f *fakePurger) DeleteExpiredReports(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("no deadline")
	}
	f.calls = append(f.calls, now)
	return f.n, f.err
}

func (f *fakePurger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestJob_Run(t *testing.T) {
	p := &fakePurger{n: 4}
	job := NewJob(p, 0)
	fixed := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []time.Time{fixed}, p.calls)
	assert.Equal(t, "purge_expired_reports", job.Name())
}

func TestJob_RunError(t *testing.T) {
	job := NewJob(&fakePurger{err: errors.New("db down")}, time.Second)

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweeper: purge expired reports")
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every tuesday", NewJob(&fakePurger{}, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestSweeper_RunsOnSchedule(t *testing.T) {
	p := &fakePurger{}
	s, err := New("@every 1s", NewJob(p, time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return p.count() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
