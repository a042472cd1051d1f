package api

import (
	"github.com/faturado/faturado/internal/api/cron"
	v1 "github.com/faturado/faturado/internal/api/v1"
	"github.com/faturado/faturado/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Plan         *v1.PlanHandler
	Customer     *v1.CustomerHandler
	Charge       *v1.ChargeHandler
	Notification *v1.NotificationHandler
	CronBilling  *cron.BillingHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	// cron routes, for external schedulers
	cronGroup := router.Group("/cron")
	{
		cronGroup.POST("/billing/daily", handlers.CronBilling.RunDailyRoutine)
	}

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Plan routes
	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Plan.CreatePlan)
		plans.GET("", handlers.Plan.GetPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
		plans.PUT("/:id", handlers.Plan.UpdatePlan)
	}

	// Customer routes
	customers := router.Group("/customers")
	{
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("", handlers.Customer.GetCustomers)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.POST("/:id/deactivate", handlers.Customer.DeactivateCustomer)
	}

	// Charge routes
	charges := router.Group("/charges")
	{
		charges.GET("", handlers.Charge.GetCharges)
		charges.GET("/:id", handlers.Charge.GetCharge)
		charges.POST("/:id/pay", handlers.Charge.MarkChargePaid)
	}

	// Notification ledger routes
	notifications := router.Group("/notifications")
	{
		notifications.GET("", handlers.Notification.GetNotifications)
		notifications.GET("/:id", handlers.Notification.GetNotification)
	}
}
