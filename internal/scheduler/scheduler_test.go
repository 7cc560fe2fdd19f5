package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pantry/internal/config"
	"github.com/mrlokans/pantry/internal/tasks"
)

func newTestTaskClient(t *testing.T) *tasks.Client {
	t.Helper()

	cfg := tasks.DefaultConfig()
	cfg.Workers = 1

	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "pantry.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEstimationSweepSchedulerEnqueues(t *testing.T) {
	client := newTestTaskClient(t)

	executed := make(chan struct{}, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task tasks.EstimatePendingTask) error {
		executed <- struct{}{}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	var cfg config.Estimation
	cfg.Enabled = true
	cfg.Schedule = "0 * * * *"

	s := NewEstimationSweepScheduler(client, cfg)
	require.NoError(t, s.RunNow())

	select {
	case <-executed:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep task was not enqueued and executed within timeout")
	}
}

func TestEstimationSweepSchedulerDisabled(t *testing.T) {
	client := newTestTaskClient(t)

	s := NewEstimationSweepScheduler(client, config.Estimation{})
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestEstimationSweepSchedulerStartStop(t *testing.T) {
	client := newTestTaskClient(t)

	var cfg config.Estimation
	cfg.Enabled = true
	cfg.Schedule = "0 * * * *"

	s := NewEstimationSweepScheduler(client, cfg)
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.GetNextRunTime())

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestEstimationSweepSchedulerInvalidSchedule(t *testing.T) {
	client := newTestTaskClient(t)

	var cfg config.Estimation
	cfg.Enabled = true
	cfg.Schedule = "not a schedule"

	s := NewEstimationSweepScheduler(client, cfg)
	assert.Error(t, s.Start(context.Background()))
}

func TestHistoryCleanupSchedulerEnqueues(t *testing.T) {
	client := newTestTaskClient(t)

	received := make(chan tasks.CleanupHistoryTask, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task tasks.CleanupHistoryTask) error {
		received <- task
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	s := NewHistoryCleanupScheduler(client, config.History{
		RetentionDays:   30,
		CleanupSchedule: "0 3 * * *",
	})
	require.NoError(t, s.RunNow())

	select {
	case task := <-received:
		assert.Equal(t, 30, task.RetentionDays, "configured retention rides along with the task")
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not enqueued and executed within timeout")
	}
}

func TestHistoryCleanupSchedulerDisabledWithoutRetention(t *testing.T) {
	client := newTestTaskClient(t)

	s := NewHistoryCleanupScheduler(client, config.History{RetentionDays: 0})
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
