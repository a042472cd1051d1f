package notification

import (
	"time"

	"github.com/faturado/faturado/internal/types"
)

// Notification is one row of the notification ledger: a permanent record of
// a single dispatch attempt for one charge, rule and channel on one day.
// At most one notification exists per (charge, rule type, channel,
// scheduled date) — this is the deduplication key that keeps routine
// re-runs from double-sending. Rows are never deleted.
type Notification struct {
	// ID is the unique identifier for the notification
	ID string `db:"id" json:"id"`

	// ChargeID references the charge the notice is about
	ChargeID string `db:"charge_id" json:"charge_id"`

	// RuleType is the cadence rule label that produced the notice
	RuleType string `db:"rule_type" json:"rule_type"`

	// Channel is the delivery channel the notice went through
	Channel types.Channel `db:"channel" json:"channel"`

	// MessageContent is the rendered content as sent
	MessageContent string `db:"message_content" json:"message_content"`

	// ScheduledDate is the calendar date the notice was due to go out
	ScheduledDate time.Time `db:"scheduled_date" json:"scheduled_date"`

	// SentAt is set once the dispatch attempt reached a terminal outcome
	SentAt *time.Time `db:"sent_at" json:"sent_at,omitempty"`

	// SendStatus is SCHEDULED until the attempt completes, then SENT or FAILED
	SendStatus types.DeliveryStatus `db:"send_status" json:"send_status"`

	// FailureReason carries the transport error for FAILED rows
	FailureReason string `db:"failure_reason" json:"failure_reason,omitempty"`

	types.BaseModel
}

// MarkSent records a successful dispatch.
func (n *Notification) MarkSent(at time.Time) {
	n.SendStatus = types.DeliveryStatusSent
	n.SentAt = &at
}

// MarkFailed records a failed dispatch with the transport reason.
func (n *Notification) MarkFailed(at time.Time, reason string) {
	n.SendStatus = types.DeliveryStatusFailed
	n.SentAt = &at
	n.FailureReason = reason
}
