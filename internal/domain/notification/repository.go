package notification

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/types"
)

// Repository defines the interface for notification ledger access. The
// store must enforce uniqueness of (charge_id, rule_type, channel,
// scheduled_date) — creation of a duplicate key returns an already exists
// error. This store-level guarantee, not an in-process lock, is what makes
// overlapping routine runs safe.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	// Update persists the outcome of a dispatch attempt on a previously
	// created SCHEDULED row.
	Update(ctx context.Context, notification *Notification) error
	Get(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, filter *types.NotificationFilter) ([]*Notification, error)
	// ExistsForKey reports whether a ledger row exists for the exact
	// deduplication key on the given date.
	ExistsForKey(ctx context.Context, chargeID, ruleType string, channel types.Channel, scheduledDate time.Time) (bool, error)
}
