package testutil

import (
	"context"

	"github.com/faturado/faturado/internal/domain/charge"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/samber/lo"
)

// InMemoryChargeStore implements charge.Repository
type InMemoryChargeStore struct {
	*InMemoryStore[*charge.Charge]
}

// NewInMemoryChargeStore creates a new in-memory charge store
func NewInMemoryChargeStore() *InMemoryChargeStore {
	return &InMemoryChargeStore{
		InMemoryStore: NewInMemoryStore[*charge.Charge](),
	}
}

func copyCharge(c *charge.Charge) *charge.Charge {
	if c == nil {
		return nil
	}
	copied := *c
	if c.PaymentDate != nil {
		pd := *c.PaymentDate
		copied.PaymentDate = &pd
	}
	return &copied
}

func chargeFilterFn(ctx context.Context, c *charge.Charge, filter interface{}) bool {
	f, ok := filter.(*types.ChargeFilter)
	if !ok || f == nil {
		return true
	}
	if f.CustomerID != "" && c.CustomerID != f.CustomerID {
		return false
	}
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, c.ChargeStatus) {
		return false
	}
	if f.DueDate != nil && !c.DueDate.Equal(types.ToDate(*f.DueDate)) {
		return false
	}
	return true
}

func (s *InMemoryChargeStore) Create(ctx context.Context, c *charge.Charge) error {
	if c == nil {
		return ierr.NewError("charge cannot be nil").
			WithHint("Charge cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyCharge(c))
}

func (s *InMemoryChargeStore) Get(ctx context.Context, id string) (*charge.Charge, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("charge not found").
			WithHint("Charge not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCharge(c), nil
}

func (s *InMemoryChargeStore) List(ctx context.Context, filter *types.ChargeFilter) ([]*charge.Charge, error) {
	charges, err := s.InMemoryStore.List(ctx, filter, chargeFilterFn, func(i, j *charge.Charge) bool {
		if !i.DueDate.Equal(j.DueDate) {
			return i.DueDate.Before(j.DueDate)
		}
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	out := make([]*charge.Charge, len(charges))
	for i, c := range charges {
		out[i] = copyCharge(c)
	}
	return out, nil
}

func (s *InMemoryChargeStore) GetLatestByCustomer(ctx context.Context, customerID string) (*charge.Charge, error) {
	filterFn := func(ctx context.Context, c *charge.Charge, _ interface{}) bool {
		return c.CustomerID == customerID
	}

	charges, err := s.InMemoryStore.List(ctx, nil, filterFn, func(i, j *charge.Charge) bool {
		if !i.DueDate.Equal(j.DueDate) {
			return i.DueDate.After(j.DueDate)
		}
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	if len(charges) == 0 {
		return nil, ierr.NewError("charge not found").
			WithHint("Customer has no charges").
			WithReportableDetails(map[string]interface{}{
				"customer_id": customerID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCharge(charges[0]), nil
}

func (s *InMemoryChargeStore) Update(ctx context.Context, c *charge.Charge) error {
	if c == nil {
		return ierr.NewError("charge cannot be nil").
			WithHint("Charge cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, c.ID, copyCharge(c)); err != nil {
		return ierr.NewError("charge not found").
			WithHint("Charge not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
