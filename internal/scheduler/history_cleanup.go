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

// HistoryCleanupScheduler periodically enqueues cleanup of old inventory
// history events.
type HistoryCleanupScheduler struct {
	taskClient *tasks.Client
	config     config.History

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewHistoryCleanupScheduler creates a new scheduler instance
func NewHistoryCleanupScheduler(taskClient *tasks.Client, cfg config.History) *HistoryCleanupScheduler {
	return &HistoryCleanupScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler
func (s *HistoryCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.config.RetentionDays <= 0 {
		log.Printf("History cleanup scheduler: retention disabled, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.CleanupSchedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.CleanupSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("History cleanup scheduler: started with schedule '%s' (retention %d days)",
		s.config.CleanupSchedule, s.config.RetentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *HistoryCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("History cleanup scheduler: stopped")
}

// RunNow triggers an immediate cleanup
func (s *HistoryCleanupScheduler) RunNow() error {
	go s.runCleanup()
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *HistoryCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will be enqueued
func (s *HistoryCleanupScheduler) GetNextRunTime() *time.Time {
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

func (s *HistoryCleanupScheduler) runCleanup() {
	task := tasks.CleanupHistoryTask{RetentionDays: s.config.RetentionDays}
	if _, err := s.taskClient.Add(task).Save(); err != nil {
		log.Printf("History cleanup: failed to enqueue task: %v", err)
		return
	}
	log.Printf("History cleanup: task enqueued")
}
