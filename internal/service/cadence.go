package service

import (
	"time"

	"github.com/faturado/faturado/internal/types"
)

// CadencePolicy holds the configurable offsets of the dunning cadence.
type CadencePolicy struct {
	// ReminderLeadDays is how many days before the due date the pre-due
	// reminder fires.
	ReminderLeadDays int

	// EscalationIntervalDays is the repeat interval of the generic
	// escalating overdue notice once past the block warning.
	EscalationIntervalDays int
}

// CadenceMatch is the rule selected for a charge on a given day.
type CadenceMatch struct {
	Rule types.RuleType

	// DaysOverdue is positive for overdue rules and zero for the pre-due
	// reminder. For the escalation rule it carries the current delta so
	// message content can state "N days overdue".
	DaysOverdue int

	// LeadDays is the configured lead that produced a reminder match, so
	// the label reflects the policy in force. Zero for overdue rules.
	LeadDays int
}

// Label returns the ledger label for the matched rule.
func (m CadenceMatch) Label() string {
	if m.Rule == types.RuleTypeReminderD3 {
		return m.Rule.Label(m.LeadDays)
	}
	return m.Rule.Label(m.DaysOverdue)
}

// ApplicableRule is the pure dunning rule table: it maps today's date, a
// charge's due date and its status to at most one applicable notice type.
// Settled or voided charges never match. Predicates are checked in order
// and the first match wins, so the result is deterministic for any input.
func ApplicableRule(today, dueDate time.Time, status types.ChargeStatus, policy CadencePolicy) (CadenceMatch, bool) {
	if status.IsTerminal() {
		return CadenceMatch{}, false
	}

	lead := policy.ReminderLeadDays
	if lead <= 0 {
		lead = 3
	}
	interval := policy.EscalationIntervalDays
	if interval <= 0 {
		interval = 10
	}

	delta := types.DaysBetween(dueDate, today)

	switch {
	case delta == -lead:
		return CadenceMatch{Rule: types.RuleTypeReminderD3, LeadDays: lead}, true
	case delta == 1:
		return CadenceMatch{Rule: types.RuleTypeOverdueD1, DaysOverdue: delta}, true
	case delta == 10:
		return CadenceMatch{Rule: types.RuleTypeBlockWarningD10, DaysOverdue: delta}, true
	case delta > 10 && (delta-10)%interval == 0:
		return CadenceMatch{Rule: types.RuleTypeOverdueEscalation, DaysOverdue: delta}, true
	}

	return CadenceMatch{}, false
}
