package customer

import (
	"strings"
	"time"
	"unicode"

	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
)

// Customer represents a subscriber being billed on a recurring plan.
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// Name is the name of the customer
	Name string `db:"name" json:"name"`

	// TaxID is the customer's tax identifier, unique across all customers.
	// Stored normalized to digits only; input may carry punctuation.
	TaxID string `db:"tax_id" json:"tax_id"`

	// WhatsAppPhone is the customer's phone in country code + area + number form
	WhatsAppPhone string `db:"whatsapp_phone" json:"whatsapp_phone"`

	// Email is the email of the customer
	Email string `db:"email" json:"email"`

	// ContractStart is the date the subscription contract began
	ContractStart time.Time `db:"contract_start" json:"contract_start"`

	// CustomerStatus tracks whether the customer is in good standing
	CustomerStatus types.CustomerStatus `db:"customer_status" json:"customer_status"`

	// PlanID references the plan the customer subscribes to
	PlanID string `db:"plan_id" json:"plan_id"`

	types.BaseModel
}

// IsActive reports whether the customer is in good standing.
func (c *Customer) IsActive() bool {
	return c.CustomerStatus == types.CustomerStatusActive
}

// HasEmail reports whether the customer can be reached by email.
func (c *Customer) HasEmail() bool {
	return c.Email != ""
}

// NormalizedPhone returns the WhatsApp phone reduced to digits only,
// e.g. "+55 (21) 9 8765-4321" -> "5521987654321". Empty when the customer
// has no usable phone on file.
func (c *Customer) NormalizedPhone() string {
	return NormalizeDigits(c.WhatsAppPhone)
}

// HasWhatsApp reports whether the customer can be reached on WhatsApp.
func (c *Customer) HasWhatsApp() bool {
	return c.NormalizedPhone() != ""
}

// NormalizeDigits strips everything but digits from a string.
func NormalizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the customer record before it is persisted.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return ierr.NewError("customer name is required").
			WithHint("Please provide the customer name").
			Mark(ierr.ErrValidation)
	}
	if NormalizeDigits(c.TaxID) == "" {
		return ierr.NewError("tax id is required").
			WithHint("Please provide a valid tax id").
			Mark(ierr.ErrValidation)
	}
	if !c.HasEmail() && !c.HasWhatsApp() {
		return ierr.NewError("customer has no reachable channel").
			WithHint("Provide an email address or a WhatsApp phone").
			Mark(ierr.ErrValidation)
	}
	if c.ContractStart.IsZero() {
		return ierr.NewError("contract start date is required").
			WithHint("Please provide the contract start date").
			Mark(ierr.ErrValidation)
	}
	return c.CustomerStatus.Validate()
}
