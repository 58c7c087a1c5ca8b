package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/repvision/repvision-api/internal/auth"
	"github.com/repvision/repvision-api/internal/config"
	handlers "github.com/repvision/repvision-api/internal/handlers/v1alpha1"
	"github.com/repvision/repvision-api/internal/service"
	"github.com/repvision/repvision-api/pkg/metrics"
	"github.com/repvision/repvision-api/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg             *config.Config
	listener        net.Listener
	jobSrv          *service.JobService
	notificationSrv *service.NotificationService
	userSrv         *service.UserService
}

// New returns a new instance of the repvision API server.
func New(
	cfg *config.Config,
	listener net.Listener,
	jobSrv *service.JobService,
	notificationSrv *service.NotificationService,
	userSrv *service.UserService,
) *Server {
	return &Server{
		cfg:             cfg,
		listener:        listener,
		jobSrv:          jobSrv,
		notificationSrv: notificationSrv,
		userSrv:         userSrv,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	h := handlers.NewServiceHandler(s.jobSrv, s.notificationSrv, s.userSrv)

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "OK")
	})

	// worker callback and account creation stay outside the bearer check
	router.Group(func(r chi.Router) {
		r.Post("/api/v1alpha1/videos/results", h.IngestResult)
		r.Post("/api/v1alpha1/auth/register", h.Register)
		r.Post("/api/v1alpha1/auth/login", h.Login)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticator)

		r.Post("/api/v1alpha1/videos", h.SubmitVideo)
		r.Get("/api/v1alpha1/videos", h.ListVideos)
		r.Get("/api/v1alpha1/videos/categories", h.ListCategories)
		r.Get("/api/v1alpha1/videos/summary", h.GetSummary)
		r.Get("/api/v1alpha1/jobs/stale", h.ListStaleJobs)
		r.Get("/api/v1alpha1/notifications", h.ListNotifications)
		r.Post("/api/v1alpha1/notifications/{id}/read", h.MarkNotificationRead)
		r.Get("/api/v1alpha1/notifications/count", h.UnreadNotificationCount)
		r.Put("/api/v1alpha1/users/push-token", h.RegisterPushToken)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
