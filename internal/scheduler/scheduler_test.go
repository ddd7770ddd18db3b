package scheduler

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
)

func newTestScheduler() *Scheduler {
	return NewScheduler(logging.NewDiscard())
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start should fail")

	s.Stop()
	s.Stop() // no-op
}

func TestScheduler_AddJob(t *testing.T) {
	s := newTestScheduler()

	id, err := s.AddJob("benchmark", "*/5 * * * *", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	jobs := s.GetJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Equal(t, "benchmark", jobs[0].Name)
	assert.Equal(t, "*/5 * * * *", jobs[0].CronExpr)
	assert.True(t, jobs[0].NextRun.After(time.Now()))
	assert.Nil(t, jobs[0].fn)
}

func TestScheduler_AddJobInvalidExpression(t *testing.T) {
	s := newTestScheduler()

	_, err := s.AddJob("benchmark", "not a schedule", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
	assert.Empty(t, s.GetJobs())
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := newTestScheduler()

	id, err := s.AddJob("benchmark", "@hourly", func(context.Context) error { return nil })
	require.NoError(t, err)

	require.NoError(t, s.RemoveJob(id))
	assert.Empty(t, s.GetJobs())
	assert.Error(t, s.RemoveJob(id))
}

func TestScheduler_Execute(t *testing.T) {
	s := newTestScheduler()
	var calls atomic.Int32

	id, err := s.AddJob("benchmark", "@hourly", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	s.execute(id)
	s.execute(id)

	assert.Equal(t, int32(2), calls.Load())
	job := s.GetJobs()[0]
	assert.Equal(t, 2, job.Runs)
	assert.False(t, job.Running)
	assert.False(t, job.LastRun.IsZero())
	assert.Empty(t, job.LastError)
}

func TestScheduler_ExecuteRecordsError(t *testing.T) {
	s := newTestScheduler()

	id, err := s.AddJob("benchmark", "@hourly", func(context.Context) error {
		return stderrors.New("disk full")
	})
	require.NoError(t, err)

	s.execute(id)

	job := s.GetJobs()[0]
	assert.Equal(t, 1, job.Runs)
	assert.Equal(t, "disk full", job.LastError)
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s := newTestScheduler()
	started := make(chan struct{})
	release := make(chan struct{})

	id, err := s.AddJob("benchmark", "@hourly", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.execute(id)
		close(done)
	}()
	<-started

	s.execute(id) // returns immediately
	close(release)
	<-done

	job := s.GetJobs()[0]
	assert.Equal(t, 1, job.Runs)
	assert.Equal(t, 1, job.Skipped)
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.Start())

	ctxErr := make(chan error, 1)
	id, err := s.AddJob("benchmark", "@hourly", func(ctx context.Context) error {
		<-ctx.Done()
		ctxErr <- ctx.Err()
		return ctx.Err()
	})
	require.NoError(t, err)

	go s.execute(id)
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	select {
	case err := <-ctxErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
}

func TestScheduler_ExecuteUnknownJob(t *testing.T) {
	s := newTestScheduler()
	s.execute(uuid.New())
	assert.Empty(t, s.GetJobs())
}
