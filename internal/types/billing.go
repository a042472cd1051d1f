package types

import (
	"fmt"

	ierr "github.com/faturado/faturado/internal/errors"
)

// ChargeStatus tracks the lifecycle of a single billing charge.
type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "PENDING"
	ChargeStatusPaid      ChargeStatus = "PAID"
	ChargeStatusOverdue   ChargeStatus = "OVERDUE"
	ChargeStatusCancelled ChargeStatus = "CANCELLED"
)

func (s ChargeStatus) Validate() error {
	switch s {
	case ChargeStatusPending, ChargeStatusPaid, ChargeStatusOverdue, ChargeStatusCancelled:
		return nil
	}
	return ierr.NewError("invalid charge status").
		WithHintf("Charge status %s is not supported", s).
		Mark(ierr.ErrValidation)
}

// IsTerminal reports whether the charge can no longer transition.
func (s ChargeStatus) IsTerminal() bool {
	return s == ChargeStatusPaid || s == ChargeStatusCancelled
}

// CustomerStatus tracks whether a customer is in good standing.
type CustomerStatus string

const (
	CustomerStatusActive          CustomerStatus = "ACTIVE"
	CustomerStatusInactiveOverdue CustomerStatus = "INACTIVE_OVERDUE"
	CustomerStatusInactiveManual  CustomerStatus = "INACTIVE_MANUAL"
)

func (s CustomerStatus) Validate() error {
	switch s {
	case CustomerStatusActive, CustomerStatusInactiveOverdue, CustomerStatusInactiveManual:
		return nil
	}
	return ierr.NewError("invalid customer status").
		WithHintf("Customer status %s is not supported", s).
		Mark(ierr.ErrValidation)
}

// Channel identifies a notification delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelWhatsApp Channel = "WHATSAPP"
)

func (c Channel) Validate() error {
	switch c {
	case ChannelEmail, ChannelWhatsApp:
		return nil
	}
	return ierr.NewError("invalid channel").
		WithHintf("Channel %s is not supported", c).
		Mark(ierr.ErrValidation)
}

// DeliveryStatus is the send status recorded on a notification.
type DeliveryStatus string

const (
	DeliveryStatusScheduled DeliveryStatus = "SCHEDULED"
	DeliveryStatusSent      DeliveryStatus = "SENT"
	DeliveryStatusFailed    DeliveryStatus = "FAILED"
)

// RuleType names a point in the dunning cadence relative to a charge's
// due date. The escalation rule repeats on a configured interval past the
// block warning.
type RuleType string

const (
	RuleTypeReminderD3        RuleType = "D-3"
	RuleTypeOverdueD1         RuleType = "D+1"
	RuleTypeBlockWarningD10   RuleType = "D+10"
	RuleTypeOverdueEscalation RuleType = "D+N"
)

// Label returns the human-readable label used in message subjects and the
// notification ledger, e.g. "Aviso de Bloqueio (D+10)". offsetDays is the
// rule's distance from the due date: the configured lead for the reminder,
// the days overdue for the escalation. The fixed-point rules ignore it.
func (r RuleType) Label(offsetDays int) string {
	switch r {
	case RuleTypeReminderD3:
		if offsetDays <= 0 {
			offsetDays = 3
		}
		return fmt.Sprintf("Lembrete (D-%d)", offsetDays)
	case RuleTypeOverdueD1:
		return "Atraso (D+1)"
	case RuleTypeBlockWarningD10:
		return "Aviso de Bloqueio (D+10)"
	case RuleTypeOverdueEscalation:
		return fmt.Sprintf("Atraso (D+%d dias)", offsetDays)
	}
	return string(r)
}
