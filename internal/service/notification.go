package service

import (
	"context"
	"time"

	"github.com/faturado/faturado/internal/api/dto"
	"github.com/faturado/faturado/internal/domain/notification"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/notify"
	"github.com/faturado/faturado/internal/types"
	"github.com/samber/lo"
)

// NotificationService owns the notification ledger. A dispatch attempt is
// recorded in two steps: Claim inserts the SCHEDULED row before the
// transport is contacted, and Finalize updates it with the outcome. The
// claim is what makes overlapping routine runs safe — whoever inserts the
// key first owns the send, everyone else loses the race with an already
// exists error before any transport call happens.
type NotificationService interface {
	// AlreadyNotified reports whether a ledger row exists for this charge,
	// rule and channel on the given date.
	AlreadyNotified(ctx context.Context, chargeID, ruleLabel string, channel types.Channel, today time.Time) (bool, error)

	// Claim inserts the SCHEDULED ledger row for a dispatch attempt about
	// to be made. The store's unique key rejects duplicates, so a
	// concurrent run racing on the same key surfaces as an already exists
	// error and must not contact the transport.
	Claim(ctx context.Context, chargeID, ruleLabel string, channel types.Channel, content notify.Content, today time.Time) (*notification.Notification, error)

	// Finalize records the outcome of the attempt on a claimed row.
	Finalize(ctx context.Context, n *notification.Notification, outcome notify.Outcome) error

	GetNotification(ctx context.Context, id string) (*dto.NotificationResponse, error)
	ListNotifications(ctx context.Context, filter *types.NotificationFilter) (*dto.ListNotificationsResponse, error)
}

type notificationService struct {
	ServiceParams
}

func NewNotificationService(params ServiceParams) NotificationService {
	return &notificationService{
		ServiceParams: params,
	}
}

func (s *notificationService) AlreadyNotified(ctx context.Context, chargeID, ruleLabel string, channel types.Channel, today time.Time) (bool, error) {
	return s.NotificationRepo.ExistsForKey(ctx, chargeID, ruleLabel, channel, types.ToDate(today))
}

func (s *notificationService) Claim(ctx context.Context, chargeID, ruleLabel string, channel types.Channel, content notify.Content, today time.Time) (*notification.Notification, error) {
	n := &notification.Notification{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION),
		ChargeID:       chargeID,
		RuleType:       ruleLabel,
		Channel:        channel,
		MessageContent: content.Body,
		ScheduledDate:  types.ToDate(today),
		SendStatus:     types.DeliveryStatusScheduled,
		BaseModel:      types.GetDefaultBaseModel(),
	}

	if err := s.NotificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) Finalize(ctx context.Context, n *notification.Notification, outcome notify.Outcome) error {
	now := time.Now().UTC()
	switch outcome.State {
	case notify.OutcomeSent:
		n.MarkSent(now)
	default:
		n.MarkFailed(now, outcome.Reason)
	}
	return s.NotificationRepo.Update(ctx, n)
}

func (s *notificationService) GetNotification(ctx context.Context, id string) (*dto.NotificationResponse, error) {
	if id == "" {
		return nil, ierr.NewError("notification ID is required").
			WithHint("Notification ID is required").
			Mark(ierr.ErrValidation)
	}

	n, err := s.NotificationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationResponse{Notification: n}, nil
}

func (s *notificationService) ListNotifications(ctx context.Context, filter *types.NotificationFilter) (*dto.ListNotificationsResponse, error) {
	if filter == nil {
		filter = &types.NotificationFilter{}
	}

	notifications, err := s.NotificationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(notifications, func(n *notification.Notification, _ int) *dto.NotificationResponse {
		return &dto.NotificationResponse{Notification: n}
	})
	return &dto.ListNotificationsResponse{Items: items, Total: len(items)}, nil
}
