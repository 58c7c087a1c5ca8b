package store

import (
	"context"
	"errors"
	"time"

	"github.com/repvision/repvision-api/internal/store/model"
	"gorm.io/gorm"
)

type Job interface {
	Create(ctx context.Context, job model.AnalysisJob) (*model.AnalysisJob, error)
	Get(ctx context.Context, id int64) (*model.AnalysisJob, error)
	List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.AnalysisJobList, error)
	Complete(ctx context.Context, id int64, correctReps, wrongReps int, feedback string, completedAt time.Time) (bool, error)
	CategoryCounts(ctx context.Context, userID int64) ([]model.CategoryCount, error)
	Summary(ctx context.Context, userID int64) (model.SummaryStats, error)
	InitialMigration(ctx context.Context) error
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJob(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (j *JobStore) InitialMigration(ctx context.Context) error {
	return j.getDB(ctx).AutoMigrate(&model.AnalysisJob{})
}

func (j *JobStore) Create(ctx context.Context, job model.AnalysisJob) (*model.AnalysisJob, error) {
	result := j.getDB(ctx).Create(&job)
	if result.Error != nil {
		return nil, result.Error
	}
	return &job, nil
}

func (j *JobStore) Get(ctx context.Context, id int64) (*model.AnalysisJob, error) {
	job := model.AnalysisJob{ID: id}
	result := j.getDB(ctx).First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (j *JobStore) List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.AnalysisJobList, error) {
	var jobs model.AnalysisJobList

	tx := j.getDB(ctx).Model(&model.AnalysisJob{})
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&jobs); result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

// Complete applies the worker's result to a job through an atomic
// check-and-set on the status column. Under concurrent calls for the same id
// exactly one caller observes PENDING and wins; everyone else gets won=false
// and must consult Get to distinguish "already completed" from "no such job".
func (j *JobStore) Complete(ctx context.Context, id int64, correctReps, wrongReps int, feedback string, completedAt time.Time) (bool, error) {
	result := j.getDB(ctx).
		Model(&model.AnalysisJob{}).
		Where("id = ? AND status = ?", id, model.JobStatusPending).
		Updates(map[string]any{
			"status":       model.JobStatusCompleted,
			"correct_reps": correctReps,
			"wrong_reps":   wrongReps,
			"feedback":     feedback,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (j *JobStore) CategoryCounts(ctx context.Context, userID int64) ([]model.CategoryCount, error) {
	var counts []model.CategoryCount

	result := j.getDB(ctx).
		Model(&model.AnalysisJob{}).
		Select("exercise_name, COUNT(*) as count").
		Where("user_id = ? AND status = ?", userID, model.JobStatusCompleted).
		Group("exercise_name").
		Order("exercise_name").
		Scan(&counts)
	if result.Error != nil {
		return nil, result.Error
	}
	return counts, nil
}

func (j *JobStore) Summary(ctx context.Context, userID int64) (model.SummaryStats, error) {
	var stats model.SummaryStats

	result := j.getDB(ctx).
		Model(&model.AnalysisJob{}).
		Select("COUNT(*) as total_completed, COALESCE(SUM(correct_reps), 0) as total_correct, COALESCE(SUM(wrong_reps), 0) as total_wrong").
		Where("user_id = ? AND status = ?", userID, model.JobStatusCompleted).
		Scan(&stats)
	if result.Error != nil {
		return model.SummaryStats{}, result.Error
	}
	return stats, nil
}

func (j *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return j.db
}
