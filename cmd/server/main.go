package main

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/api"
	"github.com/faturado/faturado/internal/api/cron"
	v1 "github.com/faturado/faturado/internal/api/v1"
	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/httpclient"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/notify"
	"github.com/faturado/faturado/internal/postgres"
	"github.com/faturado/faturado/internal/repository"
	"github.com/faturado/faturado/internal/scheduler"
	"github.com/faturado/faturado/internal/service"
	"github.com/faturado/faturado/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Local development convenience; env vars win over .env contents.
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,

			// HTTP Client
			provideHTTPClient,

			// Channel transports
			notify.NewChannelDispatcher,

			// Repositories
			repository.NewPlanRepository,
			repository.NewCustomerRepository,
			repository.NewChargeRepository,
			repository.NewNotificationRepository,

			// Services
			service.NewServiceParams,
			service.NewPlanService,
			service.NewCustomerService,
			service.NewChargeService,
			service.NewNotificationService,
			service.NewBillingRoutineService,

			// Scheduler
			scheduler.NewScheduler,

			// API
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			startServer,
			startScheduler,
		),
	)

	app.Run()
}

func provideHTTPClient(cfg *config.Configuration) httpclient.Client {
	return httpclient.NewDefaultClient(cfg.WhatsApp.Timeout())
}

func provideHandlers(
	logger *logger.Logger,
	planService service.PlanService,
	customerService service.CustomerService,
	chargeService service.ChargeService,
	notificationService service.NotificationService,
	routineService service.BillingRoutineService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(logger),
		Plan:         v1.NewPlanHandler(planService, logger),
		Customer:     v1.NewCustomerHandler(customerService, logger),
		Charge:       v1.NewChargeHandler(chargeService, logger),
		Notification: v1.NewNotificationHandler(notificationService, logger),
		CronBilling:  cron.NewBillingHandler(routineService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}

func startScheduler(
	lc fx.Lifecycle,
	s *scheduler.Scheduler,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := s.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
				log.Warn("scheduler stop timed out")
			}
			return nil
		},
	})
}
