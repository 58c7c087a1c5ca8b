package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/repvision/repvision-api/api/v1alpha1"
	"github.com/repvision/repvision-api/internal/handlers/validator"
	"github.com/repvision/repvision-api/internal/service"
	"github.com/repvision/repvision-api/pkg/requestid"
)

// ServiceHandler translates HTTP requests into service calls and service
// errors into HTTP replies.
type ServiceHandler struct {
	jobSrv          *service.JobService
	notificationSrv *service.NotificationService
	userSrv         *service.UserService
	validator       *validator.Validator
}

func NewServiceHandler(jobSrv *service.JobService, notificationSrv *service.NotificationService, userSrv *service.UserService) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)

	return &ServiceHandler{
		jobSrv:          jobSrv,
		notificationSrv: notificationSrv,
		userSrv:         userSrv,
		validator:       v,
	}
}

func replyError(w http.ResponseWriter, r *http.Request, status int, message string) {
	reply := api.Error{Message: message}
	if id := requestid.FromRequest(r); id != "" {
		reply.RequestId = &id
	}
	render.Status(r, status)
	render.JSON(w, r, reply)
}

// replyServiceError maps the typed service errors to HTTP statuses. Anything
// unrecognized is an internal error.
func replyServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch err.(type) {
	case *service.ErrResourceNotFound:
		replyError(w, r, http.StatusNotFound, err.Error())
	case *service.ErrPermissionDenied:
		replyError(w, r, http.StatusForbidden, err.Error())
	case *service.ErrInvalidRequest:
		replyError(w, r, http.StatusBadRequest, err.Error())
	case *service.ErrQueueUnavailable:
		replyError(w, r, http.StatusBadGateway, err.Error())
	case *service.ErrEmailTaken:
		replyError(w, r, http.StatusConflict, err.Error())
	case *service.ErrPushTokenTaken:
		replyError(w, r, http.StatusConflict, err.Error())
	case *service.ErrInvalidCredentials:
		replyError(w, r, http.StatusUnauthorized, err.Error())
	default:
		replyError(w, r, http.StatusInternalServerError, err.Error())
	}
}
