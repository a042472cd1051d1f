package postgres

import (
	"context"

	"github.com/faturado/faturado/internal/domain/charge"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/postgres"
	"github.com/faturado/faturado/internal/types"
	"github.com/jmoiron/sqlx"
)

type chargeRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewChargeRepository creates a postgres-backed charge.Repository.
func NewChargeRepository(db *postgres.DB, logger *logger.Logger) charge.Repository {
	return &chargeRepository{db: db, logger: logger}
}

func (r *chargeRepository) Create(ctx context.Context, c *charge.Charge) error {
	query := `
		INSERT INTO charges (id, customer_id, base_amount, penalty_amount, total_amount, due_date,
			payment_date, cycle_reference, payment_reference, charge_status, status, created_at, updated_at)
		VALUES (:id, :customer_id, :base_amount, :penalty_amount, :total_amount, :due_date,
			:payment_date, :cycle_reference, :payment_reference, :charge_status, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A charge with this ID already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create charge").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *chargeRepository) Get(ctx context.Context, id string) (*charge.Charge, error) {
	var c charge.Charge
	query := `SELECT * FROM charges WHERE id = $1 AND status = 'active'`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id); err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("charge not found").
				WithHint("Charge not found").
				WithReportableDetails(map[string]interface{}{
					"id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get charge").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *chargeRepository) List(ctx context.Context, filter *types.ChargeFilter) ([]*charge.Charge, error) {
	query := `SELECT * FROM charges WHERE status = 'active'`
	args := []interface{}{}

	if filter != nil {
		if filter.CustomerID != "" {
			query += ` AND customer_id = ?`
			args = append(args, filter.CustomerID)
		}
		if len(filter.Statuses) > 0 {
			query += ` AND charge_status IN (?)`
			args = append(args, filter.Statuses)
		}
		if filter.DueDate != nil {
			query += ` AND due_date = ?`
			args = append(args, types.ToDate(*filter.DueDate))
		}
	}
	query += ` ORDER BY due_date, created_at`

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build charge list query").
			Mark(ierr.ErrDatabase)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var charges []*charge.Charge
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &charges, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list charges").
			Mark(ierr.ErrDatabase)
	}
	return charges, nil
}

func (r *chargeRepository) GetLatestByCustomer(ctx context.Context, customerID string) (*charge.Charge, error) {
	var c charge.Charge
	query := `
		SELECT * FROM charges
		WHERE customer_id = $1 AND status = 'active'
		ORDER BY due_date DESC, created_at DESC
		LIMIT 1`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, customerID); err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("charge not found").
				WithHint("Customer has no charges").
				WithReportableDetails(map[string]interface{}{
					"customer_id": customerID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get latest charge").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *chargeRepository) Update(ctx context.Context, c *charge.Charge) error {
	query := `
		UPDATE charges
		SET penalty_amount = :penalty_amount, total_amount = :total_amount,
		    payment_date = :payment_date, charge_status = :charge_status, updated_at = NOW()
		WHERE id = :id AND status = 'active'`

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update charge").
			Mark(ierr.ErrDatabase)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ierr.NewError("charge not found").
			WithHint("Charge not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
