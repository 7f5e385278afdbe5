package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	calls    []string
	grace    time.Duration
	retryErr error
}

func (f *fakeReconciler) RetryPendingRewards(_ context.Context, olderThan time.Duration) (int, error) {
	f.calls = append(f.calls, "retry")
	f.grace = olderThan
	return 1, f.retryErr
}

func (f *fakeReconciler) RepairBalances(context.Context) (int, error) {
	f.calls = append(f.calls, "repair")
	return 0, nil
}

func TestRunReconcileRetriesBeforeRepair(t *testing.T) {
	f := &fakeReconciler{}
	s := NewScheduler(f, time.UTC, "@every 1h", 5*time.Minute)

	require.NoError(t, s.RunReconcile(context.Background()))
	assert.Equal(t, []string{"retry", "repair"}, f.calls)
	assert.Equal(t, 5*time.Minute, f.grace)
}

func TestRunReconcileStopsOnRetryError(t *testing.T) {
	f := &fakeReconciler{retryErr: errors.New("db down")}
	s := NewScheduler(f, time.UTC, "@every 1h", time.Minute)

	assert.Error(t, s.RunReconcile(context.Background()))
	assert.Equal(t, []string{"retry"}, f.calls)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&fakeReconciler{}, time.UTC, "every now and then", time.Minute)
	assert.Error(t, s.Start(context.Background()))
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(&fakeReconciler{}, time.UTC, "@every 1h", time.Minute)
	require.NoError(t, s.AddJob(context.Background(), "@every 1h", "noop", func(context.Context) error { return nil }))
	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
