package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/repvision/repvision-api/internal/api_server"
	"github.com/repvision/repvision-api/internal/auth"
	"github.com/repvision/repvision-api/internal/config"
	"github.com/repvision/repvision-api/internal/notification"
	"github.com/repvision/repvision-api/internal/push"
	"github.com/repvision/repvision-api/internal/queue"
	"github.com/repvision/repvision-api/internal/service"
	"github.com/repvision/repvision-api/internal/store"
	"github.com/repvision/repvision-api/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the repvision api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logger := log.InitLog(log.LevelFromString(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		if err := s.InitialMigration(ctx); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		var publisher queue.Publisher
		if len(cfg.Queue.Brokers) > 0 {
			publisher = queue.NewKafkaPublisher(cfg)
		} else {
			zap.S().Warn("no queue brokers configured, publishing to stdout")
			publisher = queue.NewStdoutPublisher()
		}
		defer publisher.Close()

		var pushClient push.Client
		if cfg.Push.Endpoint != "" {
			pushClient = push.NewExpoClient(cfg)
		} else {
			pushClient = push.NewNoopClient()
		}

		dispatcher := notification.NewDispatcher(pushClient, notification.WithSendTimeout(cfg.Push.Timeout))
		defer dispatcher.Close()

		var issuer service.TokenIssuer
		if cfg.Service.Auth.JwtSecret != "" {
			localAuth, err := auth.NewLocalAuthenticator(cfg.Service.Auth.JwtSecret)
			if err != nil {
				zap.S().Fatalw("creating token issuer", "error", err)
			}
			issuer = localAuth
		}

		notificationSrv := service.NewNotificationService(s, dispatcher)
		jobSrv := service.NewJobService(s, publisher, notificationSrv, cfg.Service.DispatchTimeout)
		userSrv := service.NewUserService(s, issuer, cfg.Service.Auth.JwtExpiration)

		sweeper := service.NewStalePendingSweeper(jobSrv, cfg.Service.StaleSweepInterval, cfg.Service.DispatchTimeout)
		go sweeper.Run(ctx)

		go func() {
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, listener, jobSrv, notificationSrv, userSrv)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("running api server", "error", err)
			}
			cancel()
		}()

		go func() {
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("running metrics server", "error", err)
			}
			cancel()
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
