package repository

import (
	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	"github.com/faturado/faturado/internal/domain/notification"
	"github.com/faturado/faturado/internal/domain/plan"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/postgres"
	postgresRepo "github.com/faturado/faturado/internal/repository/postgres"
)

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger)
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewChargeRepository(db *postgres.DB, logger *logger.Logger) charge.Repository {
	return postgresRepo.NewChargeRepository(db, logger)
}

func NewNotificationRepository(db *postgres.DB, logger *logger.Logger) notification.Repository {
	return postgresRepo.NewNotificationRepository(db, logger)
}
