package model

import (
	"encoding/json"
	"time"
)

const (
	JobStatusPending   = "PENDING"
	JobStatusCompleted = "COMPLETED"
)

// AnalysisJob is one submitted video and its lifecycle state. The result
// columns are either all NULL (PENDING) or all set (COMPLETED); the atomic
// transition in the job store is the only writer of the result columns.
type AnalysisJob struct {
	ID           int64  `gorm:"primaryKey"`
	UserID       int64  `gorm:"index;not null"`
	User         User   `gorm:"constraint:OnDelete:CASCADE"`
	ExerciseName string `gorm:"not null"`
	VideoUrl     string `gorm:"size:512;not null"`
	Status       string `gorm:"not null;index"`
	CorrectReps  *int
	WrongReps    *int
	Feedback     *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
	CompletedAt  *time.Time
}

type AnalysisJobList []AnalysisJob

func (j AnalysisJob) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// HasResult reports whether the given result matches the stored one. Used on the
// idempotent ingestion path to tell a duplicate report from a divergent one.
func (j AnalysisJob) HasResult(correctReps, wrongReps int, feedback string) bool {
	if j.CorrectReps == nil || j.WrongReps == nil || j.Feedback == nil {
		return false
	}
	return *j.CorrectReps == correctReps && *j.WrongReps == wrongReps && *j.Feedback == feedback
}

// CategoryCount is the per-exercise completed-job count projection.
type CategoryCount struct {
	ExerciseName string
	Count        int64
}

// SummaryStats aggregates all of a user's completed jobs.
type SummaryStats struct {
	TotalCompleted int64
	TotalCorrect   int64
	TotalWrong     int64
}

// Accuracy returns the overall accuracy as a percentage. An empty history
// (zero reps counted) yields 0 rather than dividing by zero.
func (s SummaryStats) Accuracy() float64 {
	total := s.TotalCorrect + s.TotalWrong
	if total == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(total) * 100.0
}
