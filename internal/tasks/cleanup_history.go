package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// HistoryCleaner deletes inventory history events older than a retention period.
type HistoryCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupHistoryTask removes inventory history events older than RetentionDays.
type CleanupHistoryTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupHistoryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_history",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupHistoryProcessor creates a processor for history cleanup tasks.
func CleanupHistoryProcessor(cleaner HistoryCleaner) backlite.QueueProcessor[CleanupHistoryTask] {
	return func(ctx context.Context, task CleanupHistoryTask) error {
		days := task.RetentionDays
		if days <= 0 {
			days = 90
		}

		deleted, err := cleaner.DeleteOldEvents(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			return fmt.Errorf("delete old history events: %w", err)
		}

		log.Printf("[TASK] History cleanup removed %d events older than %d days", deleted, days)
		return nil
	}
}

func NewCleanupHistoryQueue(cleaner HistoryCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupHistoryProcessor(cleaner))
}
