package v1alpha1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	api "github.com/repvision/repvision-api/api/v1alpha1"
	"github.com/repvision/repvision-api/internal/handlers/v1alpha1/mappers"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// (POST /api/v1alpha1/videos)
func (h *ServiceHandler) SubmitVideo(w http.ResponseWriter, r *http.Request) {
	var req api.VideoUploadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSrv.Submit(r.Context(), req.ExerciseName, req.VideoUrl)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.JobToApi(*job))
}

// (POST /api/v1alpha1/videos/results)
func (h *ServiceHandler) IngestResult(w http.ResponseWriter, r *http.Request) {
	var req api.AnalysisResultRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.jobSrv.IngestResult(r.Context(), req.JobId, req.CorrectReps, req.WrongReps, req.Feedback); err != nil {
		zap.S().Named("video_handler").Warnw("result ingestion failed", "job_id", req.JobId, "error", err)
		replyServiceError(w, r, err)
		return
	}

	render.JSON(w, r, api.StatusReply{Status: "ok"})
}

// (GET /api/v1alpha1/videos/categories)
func (h *ServiceHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.jobSrv.Categories(r.Context())
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.CategoryCountsToApi(counts))
}

// (GET /api/v1alpha1/videos)
func (h *ServiceHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	exerciseName := r.URL.Query().Get("exerciseName")
	page, perPage := pagination(r)

	jobs, err := h.jobSrv.CompletedVideos(r.Context(), exerciseName, (page-1)*perPage, perPage)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (GET /api/v1alpha1/videos/summary)
func (h *ServiceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobSrv.Summary(r.Context())
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.SummaryToApi(stats))
}

// (GET /api/v1alpha1/jobs/stale)
func (h *ServiceHandler) ListStaleJobs(w http.ResponseWriter, r *http.Request) {
	olderThan := h.jobSrv.DispatchTimeout()
	if v := r.URL.Query().Get("olderThan"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			replyError(w, r, http.StatusBadRequest, "invalid olderThan duration")
			return
		}
		olderThan = d
	}

	jobs, err := h.jobSrv.StalePending(r.Context(), olderThan)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.JobListToApi(jobs))
}

func pagination(r *http.Request) (page, perPage int) {
	page, perPage = 1, defaultPerPage
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("perPage"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPerPage {
			perPage = n
		}
	}
	return page, perPage
}
