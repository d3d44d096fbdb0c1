package eventlog

import (
	"context"
	"time"

	"github.com/strayline/casevault/internal/logger"
)

// CleanupJob removes audit entries past the retention window. It implements
// worker.Job and is meant to run on a schedule.
type CleanupJob struct {
	service       Service
	retentionDays int
}

func NewCleanupJob(service Service, retentionDays int) *CleanupJob {
	return &CleanupJob{
		service:       service,
		retentionDays: retentionDays,
	}
}

// Process deletes audit rows older than the retention window.
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCleanupJobStarting, "retention_days", j.retentionDays)

	start := time.Now()
	deleted, err := j.service.CleanupOldEvents(ctx, j.retentionDays)
	if err != nil {
		log.Error(LogMsgCleanupJobFailed, "error", err, "duration", time.Since(start))
		return err
	}

	log.Info(LogMsgCleanupJobCompleted, "deleted_count", deleted, "duration", time.Since(start))
	return nil
}
