package mappers

import (
	api "github.com/repvision/repvision-api/api/v1alpha1"
	"github.com/repvision/repvision-api/internal/service"
	"github.com/repvision/repvision-api/internal/store/model"
)

func JobToApi(job model.AnalysisJob) api.AnalysisJob {
	return api.AnalysisJob{
		Id:           job.ID,
		ExerciseName: job.ExerciseName,
		VideoUrl:     job.VideoUrl,
		Status:       api.StringToAnalysisStatus(job.Status),
		CorrectReps:  job.CorrectReps,
		WrongReps:    job.WrongReps,
		Feedback:     job.Feedback,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

func JobListToApi(jobs model.AnalysisJobList) api.AnalysisJobList {
	out := make(api.AnalysisJobList, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, JobToApi(job))
	}
	return out
}

func CategoryCountsToApi(counts []model.CategoryCount) []api.AnalysisCategory {
	out := make([]api.AnalysisCategory, 0, len(counts))
	for _, c := range counts {
		out = append(out, api.AnalysisCategory{
			ExerciseName:   c.ExerciseName,
			CompletedCount: c.Count,
		})
	}
	return out
}

func SummaryToApi(stats model.SummaryStats) api.AnalysisSummary {
	return api.AnalysisSummary{
		TotalCompletedVideos: stats.TotalCompleted,
		TotalCorrectReps:     stats.TotalCorrect,
		TotalWrongReps:       stats.TotalWrong,
		OverallAccuracy:      stats.Accuracy(),
		MostCommonMistake:    service.MostCommonMistake,
	}
}

func NotificationToApi(n model.Notification) api.Notification {
	return api.Notification{
		Id:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		RelatedJobId: n.RelatedJobID,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

func NotificationListToApi(notifications model.NotificationList) api.NotificationList {
	out := make(api.NotificationList, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationToApi(n))
	}
	return out
}
