package postgres

import (
	"context"

	"github.com/faturado/faturado/internal/domain/plan"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/postgres"
)

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewPlanRepository creates a postgres-backed plan.Repository.
func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (id, name, base_amount, period_months, active, status, created_at, updated_at)
		VALUES (:id, :name, :base_amount, :period_months, :active, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A plan with this ID already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	var p plan.Plan
	query := `SELECT * FROM plans WHERE id = $1 AND status = 'active'`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id); err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("plan not found").
				WithHint("Plan not found").
				WithReportableDetails(map[string]interface{}{
					"id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	var plans []*plan.Plan
	query := `SELECT * FROM plans WHERE status = 'active' ORDER BY created_at`

	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &plans, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	return plans, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE plans
		SET name = :name, active = :active, updated_at = NOW()
		WHERE id = :id AND status = 'active'`

	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update plan").
			Mark(ierr.ErrDatabase)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ierr.NewError("plan not found").
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
