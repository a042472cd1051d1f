package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/faturado/faturado/internal/domain/notification"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/postgres"
	"github.com/faturado/faturado/internal/types"
)

type notificationRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewNotificationRepository creates a postgres-backed notification.Repository.
// The notifications table carries a unique index over (charge_id, rule_type,
// channel, scheduled_date); Create surfaces violations of it as already
// exists errors so callers can treat a lost race as a dedup skip.
func NewNotificationRepository(db *postgres.DB, logger *logger.Logger) notification.Repository {
	return &notificationRepository{db: db, logger: logger}
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, charge_id, rule_type, channel, message_content, scheduled_date,
			sent_at, send_status, failure_reason, status, created_at, updated_at)
		VALUES (:id, :charge_id, :rule_type, :channel, :message_content, :scheduled_date,
			:sent_at, :send_status, :failure_reason, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A notification for this charge, rule and channel already exists for this date").
				WithReportableDetails(map[string]interface{}{
					"charge_id": n.ChargeID,
					"rule_type": n.RuleType,
					"channel":   n.Channel,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record notification").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *notificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	query := `
		UPDATE notifications
		SET send_status = :send_status, sent_at = :sent_at,
		    failure_reason = :failure_reason, updated_at = NOW()
		WHERE id = :id AND status = 'active'`

	result, err := r.db.NamedExecContext(ctx, query, n)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update notification").
			Mark(ierr.ErrDatabase)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ierr.NewError("notification not found").
			WithHint("Notification not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id string) (*notification.Notification, error) {
	var n notification.Notification
	query := `SELECT * FROM notifications WHERE id = $1 AND status = 'active'`

	if err := r.db.GetQuerier(ctx).GetContext(ctx, &n, query, id); err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("notification not found").
				WithHint("Notification not found").
				WithReportableDetails(map[string]interface{}{
					"id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get notification").
			Mark(ierr.ErrDatabase)
	}
	return &n, nil
}

func (r *notificationRepository) List(ctx context.Context, filter *types.NotificationFilter) ([]*notification.Notification, error) {
	query := `SELECT * FROM notifications WHERE status = 'active'`
	args := []interface{}{}
	argn := 0

	next := func() string {
		argn++
		return fmt.Sprintf("$%d", argn)
	}

	if filter != nil {
		if filter.ChargeID != "" {
			query += ` AND charge_id = ` + next()
			args = append(args, filter.ChargeID)
		}
		if filter.RuleType != "" {
			query += ` AND rule_type = ` + next()
			args = append(args, filter.RuleType)
		}
		if filter.Channel != "" {
			query += ` AND channel = ` + next()
			args = append(args, filter.Channel)
		}
		if filter.ScheduledDate != nil {
			query += ` AND scheduled_date = ` + next()
			args = append(args, types.ToDate(*filter.ScheduledDate))
		}
		if filter.SendStatus != "" {
			query += ` AND send_status = ` + next()
			args = append(args, filter.SendStatus)
		}
	}
	query += ` ORDER BY created_at`

	var notifications []*notification.Notification
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list notifications").
			Mark(ierr.ErrDatabase)
	}
	return notifications, nil
}

func (r *notificationRepository) ExistsForKey(ctx context.Context, chargeID, ruleType string, channel types.Channel, scheduledDate time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE charge_id = $1 AND rule_type = $2 AND channel = $3 AND scheduled_date = $4
		)`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &exists, query, chargeID, ruleType, channel, types.ToDate(scheduledDate))
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check notification ledger").
			Mark(ierr.ErrDatabase)
	}
	return exists, nil
}
