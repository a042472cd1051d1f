package postgres

import (
	"context"
	"fmt"

	"github.com/faturado/faturado/internal/domain/customer"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/postgres"
	"github.com/faturado/faturado/internal/types"
)

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewCustomerRepository creates a postgres-backed customer.Repository.
func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (id, name, tax_id, whatsapp_phone, email, contract_start, customer_status, plan_id, status, created_at, updated_at)
		VALUES (:id, :name, :tax_id, :whatsapp_phone, :email, :contract_start, :customer_status, :plan_id, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A customer with this tax id, email or phone already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	query := `SELECT * FROM customers WHERE id = $1 AND status = 'active'`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id); err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("customer not found").
				WithHint("Customer not found").
				WithReportableDetails(map[string]interface{}{
					"id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) GetByTaxID(ctx context.Context, taxID string) (*customer.Customer, error) {
	var c customer.Customer
	query := `SELECT * FROM customers WHERE tax_id = $1 AND status = 'active'`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, taxID); err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("customer not found").
				WithHint("Customer not found").
				WithReportableDetails(map[string]interface{}{
					"tax_id": taxID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer by tax id").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	query := `SELECT * FROM customers WHERE status = 'active'`
	args := []interface{}{}
	argn := 0

	next := func() string {
		argn++
		return fmt.Sprintf("$%d", argn)
	}

	if filter != nil {
		if filter.Status != "" {
			query += ` AND customer_status = ` + next()
			args = append(args, filter.Status)
		}
		if filter.TaxID != "" {
			query += ` AND tax_id = ` + next()
			args = append(args, filter.TaxID)
		}
		if filter.Email != "" {
			query += ` AND email = ` + next()
			args = append(args, filter.Email)
		}
		if filter.Phone != "" {
			query += ` AND regexp_replace(whatsapp_phone, '\D', '', 'g') = ` + next()
			args = append(args, filter.Phone)
		}
	}
	query += ` ORDER BY created_at`

	var customers []*customer.Customer
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customers").
			Mark(ierr.ErrDatabase)
	}
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = :name, whatsapp_phone = :whatsapp_phone, email = :email,
		    customer_status = :customer_status, updated_at = NOW()
		WHERE id = :id AND status = 'active'`

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update customer").
			Mark(ierr.ErrDatabase)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ierr.NewError("customer not found").
			WithHint("Customer not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
