package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/repvision/repvision-api/api/v1alpha1"
)

// (POST /api/v1alpha1/auth/register)
func (h *ServiceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userSrv.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.AuthResponse{Email: user.Email, FullName: user.FullName})
}

// (POST /api/v1alpha1/auth/login)
func (h *ServiceHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.userSrv.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, api.AuthResponse{Token: token, Email: req.Email})
}

// (PUT /api/v1alpha1/users/push-token)
func (h *ServiceHandler) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	var req api.PushTokenRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		replyError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		replyError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userSrv.RegisterPushToken(r.Context(), req.PushToken); err != nil {
		replyServiceError(w, r, err)
		return
	}
	render.JSON(w, r, api.StatusReply{Status: "ok"})
}
