package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faturado/faturado/internal/domain/notification"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
)

// InMemoryNotificationStore implements notification.Repository. Like the
// real store it enforces the (charge_id, rule_type, channel, scheduled_date)
// unique key, so routine dedup behavior can be tested against it.
type InMemoryNotificationStore struct {
	*InMemoryStore[*notification.Notification]

	// createMu serializes the key check and the insert so the unique key
	// behaves atomically under concurrent claims, the way the database
	// index does.
	createMu sync.Mutex
}

// NewInMemoryNotificationStore creates a new in-memory notification store
func NewInMemoryNotificationStore() *InMemoryNotificationStore {
	return &InMemoryNotificationStore{
		InMemoryStore: NewInMemoryStore[*notification.Notification](),
	}
}

func copyNotification(n *notification.Notification) *notification.Notification {
	if n == nil {
		return nil
	}
	copied := *n
	if n.SentAt != nil {
		at := *n.SentAt
		copied.SentAt = &at
	}
	return &copied
}

func dedupKey(chargeID, ruleType string, channel types.Channel, scheduledDate time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", chargeID, ruleType, channel, types.ToDate(scheduledDate).Format(time.DateOnly))
}

func notificationFilterFn(ctx context.Context, n *notification.Notification, filter interface{}) bool {
	f, ok := filter.(*types.NotificationFilter)
	if !ok || f == nil {
		return true
	}
	if f.ChargeID != "" && n.ChargeID != f.ChargeID {
		return false
	}
	if f.RuleType != "" && n.RuleType != f.RuleType {
		return false
	}
	if f.Channel != "" && n.Channel != f.Channel {
		return false
	}
	if f.ScheduledDate != nil && !n.ScheduledDate.Equal(types.ToDate(*f.ScheduledDate)) {
		return false
	}
	if f.SendStatus != "" && n.SendStatus != f.SendStatus {
		return false
	}
	return true
}

func (s *InMemoryNotificationStore) Create(ctx context.Context, n *notification.Notification) error {
	if n == nil {
		return ierr.NewError("notification cannot be nil").
			WithHint("Notification cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	exists, err := s.ExistsForKey(ctx, n.ChargeID, n.RuleType, n.Channel, n.ScheduledDate)
	if err != nil {
		return err
	}
	if exists {
		return ierr.NewError("notification already recorded").
			WithHint("A notification for this charge, rule and channel already exists for this date").
			WithReportableDetails(map[string]interface{}{
				"charge_id": n.ChargeID,
				"rule_type": n.RuleType,
				"channel":   n.Channel,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	return s.InMemoryStore.Create(ctx, n.ID, copyNotification(n))
}

func (s *InMemoryNotificationStore) Update(ctx context.Context, n *notification.Notification) error {
	if n == nil {
		return ierr.NewError("notification cannot be nil").
			WithHint("Notification cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := s.InMemoryStore.Update(ctx, n.ID, copyNotification(n)); err != nil {
		return ierr.NewError("notification not found").
			WithHint("Notification not found").
			WithReportableDetails(map[string]interface{}{
				"id": n.ID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryNotificationStore) Get(ctx context.Context, id string) (*notification.Notification, error) {
	n, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("notification not found").
			WithHint("Notification not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyNotification(n), nil
}

func (s *InMemoryNotificationStore) List(ctx context.Context, filter *types.NotificationFilter) ([]*notification.Notification, error) {
	notifications, err := s.InMemoryStore.List(ctx, filter, notificationFilterFn, func(i, j *notification.Notification) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	out := make([]*notification.Notification, len(notifications))
	for i, n := range notifications {
		out[i] = copyNotification(n)
	}
	return out, nil
}

func (s *InMemoryNotificationStore) ExistsForKey(ctx context.Context, chargeID, ruleType string, channel types.Channel, scheduledDate time.Time) (bool, error) {
	key := dedupKey(chargeID, ruleType, channel, scheduledDate)
	filterFn := func(ctx context.Context, n *notification.Notification, _ interface{}) bool {
		return dedupKey(n.ChargeID, n.RuleType, n.Channel, n.ScheduledDate) == key
	}

	count, err := s.InMemoryStore.Count(ctx, nil, filterFn)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
