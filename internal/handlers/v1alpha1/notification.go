package v1alpha1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/repvision/repvision-api/api/v1alpha1"
	"github.com/repvision/repvision-api/internal/handlers/v1alpha1/mappers"
)

// (GET /api/v1alpha1/notifications)
func (h *ServiceHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationSrv.ListUnread(r.Context())
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.NotificationListToApi(notifications))
}

// (POST /api/v1alpha1/notifications/{id}/read)
func (h *ServiceHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		replyError(w, r, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notificationSrv.MarkRead(r.Context(), id); err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, api.StatusReply{Status: "ok"})
}

// (GET /api/v1alpha1/notifications/count)
func (h *ServiceHandler) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationSrv.UnreadCount(r.Context())
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, api.UnreadCountReply{Count: count})
}
