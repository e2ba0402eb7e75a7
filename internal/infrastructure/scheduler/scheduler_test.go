package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/riskibarqy/tennis-league/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := New(logging.NewNop(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })
	return svc
}

func TestAddJob_Validation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddJob(" ", "* * * * *", 0, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrEmptyJobName)

	_, err = svc.AddJob("job", "", 0, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrEmptyCronExpr)

	_, err = svc.AddJob("job", "every now and then", 0, func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestAddJob_RunNow(t *testing.T) {
	svc := newTestService(t)

	done := make(chan struct{}, 1)
	job, err := svc.AddJob("probe", "0 0 1 1 *", time.Second, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("expected deadline")
		}
		done <- struct{}{}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "probe", job.Name())

	svc.Start()
	require.NoError(t, job.RunNow())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestStop_CancelsTaskContext(t *testing.T) {
	svc, err := New(logging.NewNop(), nil)
	require.NoError(t, err)

	started := make(chan struct{})
	var cancelled atomic.Bool
	job, err := svc.AddJob("long", "0 0 1 1 *", 0, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	require.NoError(t, err)

	svc.Start()
	require.NoError(t, job.RunNow())
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatalf("job did not start")
	}

	require.NoError(t, svc.Stop())
	assert.True(t, cancelled.Load())
	assert.NoError(t, svc.Stop())
}

type fakeReconciler struct {
	calls   atomic.Int32
	workers atomic.Int32
	err     error
}

func (f *fakeReconciler) ReconcileStatuses(_ context.Context, input usecase.ReconcileInput) (usecase.ReconcileResult, error) {
	f.calls.Add(1)
	f.workers.Store(int32(input.MaxWorkers))
	if f.err != nil {
		return usecase.ReconcileResult{}, f.err
	}
	return usecase.ReconcileResult{DriftCount: 1, SuccessCount: 1}, nil
}

func TestReconcileStatusesTask(t *testing.T) {
	reconciler := &fakeReconciler{}
	task := ReconcileStatusesTask(reconciler, 3, logging.NewNop())

	require.NoError(t, task(context.Background()))
	assert.EqualValues(t, 1, reconciler.calls.Load())
	assert.EqualValues(t, 3, reconciler.workers.Load())

	reconciler.err = errors.New("store down")
	assert.EqualError(t, task(context.Background()), "store down")
}

func TestRegisterReconcileStatuses(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.RegisterReconcileStatuses("*/15 * * * *", &fakeReconciler{}, 2))
	jobs := svc.scheduler.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, ReconcileStatusesJobName, jobs[0].Name())

	assert.Error(t, svc.RegisterReconcileStatuses("", &fakeReconciler{}, 2))
}
