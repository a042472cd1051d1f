package types

import (
	"time"
)

// ChargeFilter restricts charge listings.
type ChargeFilter struct {
	CustomerID string         `json:"customer_id,omitempty" form:"customer_id"`
	Statuses   []ChargeStatus `json:"statuses,omitempty" form:"statuses"`
	DueDate    *time.Time     `json:"due_date,omitempty" form:"due_date"`
}

// NewChargeFilter returns an empty charge filter.
func NewChargeFilter() *ChargeFilter {
	return &ChargeFilter{}
}

// WithStatuses returns a copy of the filter restricted to the given statuses.
func (f *ChargeFilter) WithStatuses(statuses ...ChargeStatus) *ChargeFilter {
	out := *f
	out.Statuses = statuses
	return &out
}

// CustomerFilter restricts customer listings.
type CustomerFilter struct {
	Status CustomerStatus `json:"status,omitempty" form:"status"`
	TaxID  string         `json:"tax_id,omitempty" form:"tax_id"`
	Email  string         `json:"email,omitempty" form:"email"`
	Phone  string         `json:"phone,omitempty" form:"phone"`
}

// NotificationFilter restricts notification listings. ChargeID, RuleType,
// Channel and ScheduledDate together form the ledger deduplication key.
type NotificationFilter struct {
	ChargeID      string         `json:"charge_id,omitempty" form:"charge_id"`
	RuleType      string         `json:"rule_type,omitempty" form:"rule_type"`
	Channel       Channel        `json:"channel,omitempty" form:"channel"`
	ScheduledDate *time.Time     `json:"scheduled_date,omitempty" form:"scheduled_date"`
	SendStatus    DeliveryStatus `json:"send_status,omitempty" form:"send_status"`
}
