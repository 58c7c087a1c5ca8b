package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/repvision/repvision-api/internal/queue"
	"github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/internal/store/model"
	"github.com/repvision/repvision-api/pkg/metrics"
)

// MostCommonMistake is the aggregate summary's placeholder mistake label
// until per-feedback aggregation exists.
const MostCommonMistake = "Knee Valgus"

type JobService struct {
	store           store.Store
	publisher       queue.Publisher
	notifications   *NotificationService
	dispatchTimeout time.Duration
}

func NewJobService(store store.Store, publisher queue.Publisher, notifications *NotificationService, dispatchTimeout time.Duration) *JobService {
	return &JobService{
		store:           store,
		publisher:       publisher,
		notifications:   notifications,
		dispatchTimeout: dispatchTimeout,
	}
}

// DispatchTimeout is the window after which a still-PENDING job is
// considered stale.
func (j *JobService) DispatchTimeout() time.Duration {
	return j.dispatchTimeout
}

// Submit persists a new PENDING job for the caller and hands it to the
// worker pool. The row is committed before the publish so a broker outage
// never loses the job; on publish failure the job stays PENDING and the
// caller gets ErrQueueUnavailable.
func (j *JobService) Submit(ctx context.Context, exerciseName, videoUrl string) (*model.AnalysisJob, error) {
	if exerciseName == "" || videoUrl == "" {
		return nil, NewErrInvalidRequest("exerciseName and videoUrl are required")
	}

	user, err := currentUser(ctx, j.store)
	if err != nil {
		return nil, err
	}

	job, err := j.store.Job().Create(ctx, model.AnalysisJob{
		UserID:       user.ID,
		ExerciseName: exerciseName,
		VideoUrl:     videoUrl,
		Status:       model.JobStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	metrics.IncreaseJobsSubmittedMetric(exerciseName)
	zap.S().Named("job_service").Infow("job submitted", "job_id", job.ID, "user_id", user.ID, "exercise", exerciseName)

	publishCtx, cancel := context.WithTimeout(ctx, j.dispatchTimeout)
	defer cancel()

	err = j.publisher.Publish(publishCtx, queue.Message{
		JobID:        job.ID,
		VideoUrl:     job.VideoUrl,
		ExerciseName: job.ExerciseName,
	})
	if err != nil {
		return nil, NewErrQueueUnavailable(job.ID, err)
	}

	return job, nil
}

// IngestResult applies a worker's result to a job. The transition from
// PENDING to COMPLETED is a per-row check-and-set; exactly one of N concurrent calls
// for the same job wins it. Duplicate reports of the stored result are
// idempotent successes; divergent reports keep the first result and are
// recorded for operators.
func (j *JobService) IngestResult(ctx context.Context, jobID int64, correctReps, wrongReps int, feedback string) error {
	now := time.Now().UTC()
	won, err := j.store.Job().Complete(ctx, jobID, correctReps, wrongReps, feedback, now)
	if err != nil {
		return fmt.Errorf("failed to complete job %d: %w", jobID, err)
	}

	job, err := j.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(jobID)
		}
		return err
	}

	if !won {
		if job.HasResult(correctReps, wrongReps, feedback) {
			zap.S().Named("job_service").Infow("duplicate result ignored", "job_id", jobID)
		} else {
			metrics.IncreaseDuplicateResultsMetric()
			zap.S().Named("job_service").Warnw("divergent result for completed job, keeping first result",
				"job_id", jobID, "correct_reps", correctReps, "wrong_reps", wrongReps)
		}
		return nil
	}

	metrics.IncreaseJobsCompletedMetric(job.ExerciseName)
	zap.S().Named("job_service").Infow("job completed", "job_id", jobID, "correct_reps", correctReps, "wrong_reps", wrongReps)

	// The transition is committed; a notification failure must not undo it.
	owner, err := j.store.User().Get(ctx, job.UserID)
	if err != nil {
		zap.S().Named("job_service").Errorw("failed to load job owner for notification", "job_id", jobID, "error", err)
		return nil
	}

	title := "Analysis Complete"
	message := fmt.Sprintf("Your %s video has been analyzed.", job.ExerciseName)
	if _, err := j.notifications.Notify(ctx, *owner, title, message, &job.ID); err != nil {
		zap.S().Named("job_service").Errorw("failed to create completion notification", "job_id", jobID, "error", err)
	}

	return nil
}

// Categories returns per-exercise completed-job counts for the caller.
func (j *JobService) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	user, err := currentUser(ctx, j.store)
	if err != nil {
		return nil, err
	}
	return j.store.Job().CategoryCounts(ctx, user.ID)
}

// CompletedVideos returns the caller's completed jobs newest first,
// optionally filtered by exercise name, with offset/limit pagination.
func (j *JobService) CompletedVideos(ctx context.Context, exerciseName string, offset, limit int) (model.AnalysisJobList, error) {
	user, err := currentUser(ctx, j.store)
	if err != nil {
		return nil, err
	}

	filter := store.NewJobQueryFilter().ByUserID(user.ID).ByStatus(model.JobStatusCompleted)
	if exerciseName != "" {
		filter = filter.ByExerciseName(exerciseName)
	}
	opts := store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc).WithPagination(offset, limit)

	return j.store.Job().List(ctx, filter, opts)
}

// Summary aggregates all of the caller's completed jobs.
func (j *JobService) Summary(ctx context.Context) (model.SummaryStats, error) {
	user, err := currentUser(ctx, j.store)
	if err != nil {
		return model.SummaryStats{}, err
	}
	return j.store.Job().Summary(ctx, user.ID)
}

// StalePending lists PENDING jobs older than the given age. Detection only;
// requeueing is left to the operator.
func (j *JobService) StalePending(ctx context.Context, olderThan time.Duration) (model.AnalysisJobList, error) {
	filter := store.NewJobQueryFilter().
		ByStatus(model.JobStatusPending).
		ByCreatedBefore(time.Now().UTC().Add(-olderThan))
	opts := store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTime)

	return j.store.Job().List(ctx, filter, opts)
}
