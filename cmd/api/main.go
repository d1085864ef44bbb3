package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	httptransport "github.com/sfinpay/backoffice/internal/api/http"
	"github.com/sfinpay/backoffice/internal/api/http/handlers"
	"github.com/sfinpay/backoffice/internal/auth"
	"github.com/sfinpay/backoffice/internal/config"
	"github.com/sfinpay/backoffice/internal/events"
	"github.com/sfinpay/backoffice/internal/integration/notion"
	"github.com/sfinpay/backoffice/internal/integration/slack"
	"github.com/sfinpay/backoffice/internal/mail"
	"github.com/sfinpay/backoffice/internal/observability"
	"github.com/sfinpay/backoffice/internal/persistence"
	"github.com/sfinpay/backoffice/internal/repository"
	"github.com/sfinpay/backoffice/internal/service"
	"github.com/sfinpay/backoffice/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var inquiryRepo repository.InquiryRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		inquiryRepo = repository.NewInquiryRepository(pg.PoolHandle())
	} else {
		inquiryRepo = repository.NewMemoryInquiryRepository()
	}

	var redis *persistence.Redis
	var otpRepo repository.OTPRepository
	switch cfg.OTP.Backend {
	case config.OTPBackendMemory:
		logger.Warn("OTP_BACKEND=memory; codes are not shared between instances")
		otpRepo = repository.NewMemoryOTPRepository(cfg.OTP.MaxAttempts)
	default:
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		otpRepo = repository.NewRedisOTPRepository(redis.Client, cfg.OTP.KeyPrefix, cfg.OTP.MaxAttempts)
	}

	var sender mail.OTPSender
	if cfg.SMTP.Enabled() {
		sender = mail.NewSMTPSender(cfg.SMTP)
	} else {
		logger.Warn("SMTP not configured; admin OTP codes are only logged")
		sender = mail.NewLogSender(logger, cfg.App.IsDevelopment())
	}

	if missing := cfg.Auth.MissingSecrets(); len(missing) > 0 {
		logger.Warn("admin login disabled until configured", zap.Strings("missing", missing))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.PreOTPTokenTTL(), cfg.Auth.SessionTTL())
	dispatcher := events.NewInMemoryDispatcher(logger)

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		CRM:        notion.NewClient(cfg.Notification),
		Chat:       slack.NewClient(cfg.Notification),
		Links:      inquiryRepo,
		Metrics:    metrics,
		Logger:     logger,
	})
	worker.StartNotificationWorker(notificationService)

	inquiryService := service.NewInquiryService(service.InquiryDependencies{
		InquiryRepo: inquiryRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Tokens:  tokens,
		OTPRepo: otpRepo,
		Sender:  sender,
		Metrics: metrics,
		Logger:  logger,
	})

	app := fiber.New(fiber.Config{
		AppName:       cfg.App.Name,
		CaseSensitive: true,
		ErrorHandler:  httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		}),
		Contact:        handlers.NewContactHandler(inquiryService),
		AdminAuth:      handlers.NewAdminAuthHandler(authService, cfg.Auth.CookieSecure),
		AdminInquiries: handlers.NewAdminInquiriesHandler(inquiryService),
		Slack:          handlers.NewSlackHandler(inquiryService, cfg.Notification.SlackSigningSecret),
		Pages:          handlers.NewPagesHandler(cfg.App.WebRoot),
		Guard:          auth.NewAccessGuard(tokens, logger),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Metrics:        adaptor.HTTPHandler(metrics.Handler()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
