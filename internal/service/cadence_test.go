package service

import (
	"testing"
	"time"

	"github.com/faturado/faturado/internal/types"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApplicableRule(t *testing.T) {
	policy := CadencePolicy{ReminderLeadDays: 3, EscalationIntervalDays: 10}
	dueDate := date("2025-01-20")

	testCases := []struct {
		name         string
		today        string
		status       types.ChargeStatus
		expectedRule types.RuleType
		expectedDays int
		expectMatch  bool
	}{
		{
			name:        "far_before_due_date_no_match",
			today:       "2025-01-10",
			status:      types.ChargeStatusPending,
			expectMatch: false,
		},
		{
			name:         "three_days_before_due_matches_reminder",
			today:        "2025-01-17",
			status:       types.ChargeStatusPending,
			expectedRule: types.RuleTypeReminderD3,
			expectedDays: 0,
			expectMatch:  true,
		},
		{
			name:        "two_days_before_due_no_match",
			today:       "2025-01-18",
			status:      types.ChargeStatusPending,
			expectMatch: false,
		},
		{
			name:        "due_date_itself_no_match",
			today:       "2025-01-20",
			status:      types.ChargeStatusPending,
			expectMatch: false,
		},
		{
			name:         "one_day_overdue_matches_first_notice",
			today:        "2025-01-21",
			status:       types.ChargeStatusOverdue,
			expectedRule: types.RuleTypeOverdueD1,
			expectedDays: 1,
			expectMatch:  true,
		},
		{
			name:        "five_days_overdue_no_match",
			today:       "2025-01-25",
			status:      types.ChargeStatusOverdue,
			expectMatch: false,
		},
		{
			name:         "ten_days_overdue_matches_block_warning",
			today:        "2025-01-30",
			status:       types.ChargeStatusOverdue,
			expectedRule: types.RuleTypeBlockWarningD10,
			expectedDays: 10,
			expectMatch:  true,
		},
		{
			name:        "fifteen_days_overdue_no_match",
			today:       "2025-02-04",
			status:      types.ChargeStatusOverdue,
			expectMatch: false,
		},
		{
			name:         "twenty_days_overdue_matches_escalation",
			today:        "2025-02-09",
			status:       types.ChargeStatusOverdue,
			expectedRule: types.RuleTypeOverdueEscalation,
			expectedDays: 20,
			expectMatch:  true,
		},
		{
			name:         "thirty_days_overdue_matches_escalation",
			today:        "2025-02-19",
			status:       types.ChargeStatusOverdue,
			expectedRule: types.RuleTypeOverdueEscalation,
			expectedDays: 30,
			expectMatch:  true,
		},
		{
			name:        "paid_charge_never_matches",
			today:       "2025-01-21",
			status:      types.ChargeStatusPaid,
			expectMatch: false,
		},
		{
			name:        "cancelled_charge_never_matches",
			today:       "2025-01-30",
			status:      types.ChargeStatusCancelled,
			expectMatch: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			match, ok := ApplicableRule(date(tc.today), dueDate, tc.status, policy)
			assert.Equal(t, tc.expectMatch, ok)
			if tc.expectMatch {
				assert.Equal(t, tc.expectedRule, match.Rule)
				assert.Equal(t, tc.expectedDays, match.DaysOverdue)
			}
		})
	}
}

func TestApplicableRuleCustomPolicy(t *testing.T) {
	// Lead of 5 moves the reminder; the escalation interval is honored
	// relative to the block warning at day 10.
	policy := CadencePolicy{ReminderLeadDays: 5, EscalationIntervalDays: 5}
	dueDate := date("2025-03-10")

	match, ok := ApplicableRule(date("2025-03-05"), dueDate, types.ChargeStatusPending, policy)
	assert.True(t, ok)
	assert.Equal(t, types.RuleTypeReminderD3, match.Rule)
	// The label reflects the lead in force, not a fixed offset.
	assert.Equal(t, 5, match.LeadDays)
	assert.Equal(t, "Lembrete (D-5)", match.Label())

	_, ok = ApplicableRule(date("2025-03-07"), dueDate, types.ChargeStatusPending, policy)
	assert.False(t, ok)

	match, ok = ApplicableRule(date("2025-03-25"), dueDate, types.ChargeStatusOverdue, policy)
	assert.True(t, ok)
	assert.Equal(t, types.RuleTypeOverdueEscalation, match.Rule)
	assert.Equal(t, 15, match.DaysOverdue)
}

func TestApplicableRuleZeroPolicyDefaults(t *testing.T) {
	dueDate := date("2025-01-20")

	match, ok := ApplicableRule(date("2025-01-17"), dueDate, types.ChargeStatusPending, CadencePolicy{})
	assert.True(t, ok)
	assert.Equal(t, types.RuleTypeReminderD3, match.Rule)
}

func TestCadenceMatchLabel(t *testing.T) {
	assert.Equal(t, "Lembrete (D-3)", CadenceMatch{Rule: types.RuleTypeReminderD3}.Label())
	assert.Equal(t, "Lembrete (D-5)", CadenceMatch{Rule: types.RuleTypeReminderD3, LeadDays: 5}.Label())
	assert.Equal(t, "Atraso (D+1)", CadenceMatch{Rule: types.RuleTypeOverdueD1, DaysOverdue: 1}.Label())
	assert.Equal(t, "Aviso de Bloqueio (D+10)", CadenceMatch{Rule: types.RuleTypeBlockWarningD10, DaysOverdue: 10}.Label())
	assert.Equal(t, "Atraso (D+20 dias)", CadenceMatch{Rule: types.RuleTypeOverdueEscalation, DaysOverdue: 20}.Label())
}
