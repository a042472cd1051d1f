package service

import (
	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	"github.com/faturado/faturado/internal/domain/notification"
	"github.com/faturado/faturado/internal/domain/plan"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/notify"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	PlanRepo         plan.Repository
	CustomerRepo     customer.Repository
	ChargeRepo       charge.Repository
	NotificationRepo notification.Repository

	// Channel dispatch
	Dispatcher *notify.Dispatcher
}

// NewServiceParams builds the common service dependency set.
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	planRepo plan.Repository,
	customerRepo customer.Repository,
	chargeRepo charge.Repository,
	notificationRepo notification.Repository,
	dispatcher *notify.Dispatcher,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		PlanRepo:         planRepo,
		CustomerRepo:     customerRepo,
		ChargeRepo:       chargeRepo,
		NotificationRepo: notificationRepo,
		Dispatcher:       dispatcher,
	}
}
