package testutil

import (
	"context"

	"github.com/faturado/faturado/internal/domain/customer"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

// NewInMemoryCustomerStore creates a new in-memory customer store
func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func customerFilterFn(ctx context.Context, c *customer.Customer, filter interface{}) bool {
	f, ok := filter.(*types.CustomerFilter)
	if !ok || f == nil {
		return true
	}
	if f.Status != "" && c.CustomerStatus != f.Status {
		return false
	}
	if f.TaxID != "" && c.TaxID != f.TaxID {
		return false
	}
	if f.Email != "" && c.Email != f.Email {
		return false
	}
	if f.Phone != "" && c.NormalizedPhone() != f.Phone {
		return false
	}
	return true
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return ierr.NewError("customer cannot be nil").
			WithHint("Customer cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("customer not found").
			WithHint("Customer not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) GetByTaxID(ctx context.Context, taxID string) (*customer.Customer, error) {
	filterFn := func(ctx context.Context, c *customer.Customer, _ interface{}) bool {
		return c.TaxID == taxID
	}

	customers, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, ierr.NewError("customer not found").
			WithHint("Customer not found").
			WithReportableDetails(map[string]interface{}{
				"tax_id": taxID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCustomer(customers[0]), nil
}

func (s *InMemoryCustomerStore) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	customers, err := s.InMemoryStore.List(ctx, filter, customerFilterFn, func(i, j *customer.Customer) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	out := make([]*customer.Customer, len(customers))
	for i, c := range customers {
		out[i] = copyCustomer(c)
	}
	return out, nil
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return ierr.NewError("customer cannot be nil").
			WithHint("Customer cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, c.ID, copyCustomer(c)); err != nil {
		return ierr.NewError("customer not found").
			WithHint("Customer not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
