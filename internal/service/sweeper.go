package service

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/repvision/repvision-api/pkg/metrics"
)

// StalePendingSweeper periodically surfaces jobs that have sat in PENDING
// longer than the dispatch timeout. It only observes; a stale job is never
// requeued automatically.
type StalePendingSweeper struct {
	jobs      *JobService
	interval  time.Duration
	olderThan time.Duration
}

func NewStalePendingSweeper(jobs *JobService, interval, olderThan time.Duration) *StalePendingSweeper {
	return &StalePendingSweeper{
		jobs:      jobs,
		interval:  interval,
		olderThan: olderThan,
	}
}

func (s *StalePendingSweeper) Run(ctx context.Context) {
	ticker := jitterbug.New(s.interval, &jitterbug.Norm{Stdev: 30 * time.Millisecond, Mean: 0})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *StalePendingSweeper) sweep(ctx context.Context) {
	stale, err := s.jobs.StalePending(ctx, s.olderThan)
	if err != nil {
		zap.S().Named("stale_sweeper").Errorw("failed to list stale pending jobs", "error", err)
		return
	}

	metrics.UpdateStalePendingJobsMetric(len(stale))
	if len(stale) == 0 {
		return
	}

	for _, job := range stale {
		zap.S().Named("stale_sweeper").Warnw("job stuck in PENDING",
			"job_id", job.ID, "user_id", job.UserID, "exercise", job.ExerciseName, "created_at", job.CreatedAt)
	}
}
