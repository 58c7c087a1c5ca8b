// Package v1alpha1 holds the wire types of the public API. Handlers map the
// store models to these types; nothing below this package leaks GORM details.
package v1alpha1

import "time"

type AnalysisStatus string

const (
	AnalysisStatusPending   AnalysisStatus = "PENDING"
	AnalysisStatusCompleted AnalysisStatus = "COMPLETED"
)

func StringToAnalysisStatus(s string) AnalysisStatus {
	switch s {
	case string(AnalysisStatusCompleted):
		return AnalysisStatusCompleted
	default:
		return AnalysisStatusPending
	}
}

// VideoUploadRequest is the submission intake payload. The video itself is
// never uploaded here, only a URL reference to already stored media.
type VideoUploadRequest struct {
	ExerciseName string `json:"exerciseName" validate:"required,exercise_name"`
	VideoUrl     string `json:"videoUrl" validate:"required,video_url"`
}

// AnalysisResultRequest is posted by the worker pool once a video has been
// analyzed. JobId is the correlation key from the queue message.
type AnalysisResultRequest struct {
	JobId       int64  `json:"jobId" validate:"required"`
	CorrectReps int    `json:"correctReps" validate:"gte=0"`
	WrongReps   int    `json:"wrongReps" validate:"gte=0"`
	Feedback    string `json:"feedback"`
}

type AnalysisJob struct {
	Id           int64          `json:"id"`
	ExerciseName string         `json:"exerciseName"`
	VideoUrl     string         `json:"videoUrl"`
	Status       AnalysisStatus `json:"status"`
	CorrectReps  *int           `json:"correctReps,omitempty"`
	WrongReps    *int           `json:"wrongReps,omitempty"`
	Feedback     *string        `json:"feedback,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
}

type AnalysisJobList []AnalysisJob

type AnalysisCategory struct {
	ExerciseName   string `json:"exerciseName"`
	CompletedCount int64  `json:"completedCount"`
}

type AnalysisSummary struct {
	TotalCompletedVideos int64   `json:"totalCompletedVideos"`
	TotalCorrectReps     int64   `json:"totalCorrectReps"`
	TotalWrongReps       int64   `json:"totalWrongReps"`
	OverallAccuracy      float64 `json:"overallAccuracy"`
	MostCommonMistake    string  `json:"mostCommonMistake"`
}

type Notification struct {
	Id           int64     `json:"id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	RelatedJobId *int64    `json:"relatedJobId,omitempty"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

type NotificationList []Notification

type UnreadCountReply struct {
	Count int64 `json:"count"`
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type PushTokenRequest struct {
	PushToken string `json:"pushToken" validate:"required"`
}

type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}

type StatusReply struct {
	Status string `json:"status"`
}
