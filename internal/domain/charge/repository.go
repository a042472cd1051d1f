package charge

import (
	"context"

	"github.com/faturado/faturado/internal/types"
)

// Repository defines the interface for charge data access
type Repository interface {
	Create(ctx context.Context, charge *Charge) error
	Get(ctx context.Context, id string) (*Charge, error)
	List(ctx context.Context, filter *types.ChargeFilter) ([]*Charge, error)
	// GetLatestByCustomer returns the customer's charge with the most recent
	// due date, or a not found error.
	GetLatestByCustomer(ctx context.Context, customerID string) (*Charge, error)
	Update(ctx context.Context, charge *Charge) error
}
