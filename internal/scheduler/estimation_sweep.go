package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/pantry/internal/config"
	"github.com/mrlokans/pantry/internal/tasks"
)

// EstimationSweepScheduler periodically enqueues a background sweep that
// estimates expiration dates for inventory items missing one.
type EstimationSweepScheduler struct {
	taskClient *tasks.Client
	config     config.Estimation

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewEstimationSweepScheduler creates a new scheduler instance
func NewEstimationSweepScheduler(taskClient *tasks.Client, cfg config.Estimation) *EstimationSweepScheduler {
	return &EstimationSweepScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if estimation sweeps are enabled
func (s *EstimationSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Estimation sweep scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Estimation sweep scheduler: started with schedule '%s'", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *EstimationSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Estimation sweep scheduler: stopped")
}

// RunNow triggers an immediate sweep
func (s *EstimationSweepScheduler) RunNow() error {
	go s.runSweep()
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *EstimationSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will be enqueued
func (s *EstimationSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSweep enqueues the sweep task; the task queue does the actual work
func (s *EstimationSweepScheduler) runSweep() {
	if _, err := s.taskClient.Add(tasks.EstimatePendingTask{}).Save(); err != nil {
		log.Printf("Estimation sweep: failed to enqueue task: %v", err)
		return
	}
	log.Printf("Estimation sweep: task enqueued")
}
