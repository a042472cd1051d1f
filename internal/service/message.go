package service

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/faturado/faturado/internal/domain/charge"
	"github.com/faturado/faturado/internal/domain/customer"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/notify"
	"github.com/faturado/faturado/internal/types"
)

// whatsAppMaxRunes is the transport's plain-text length convention.
const whatsAppMaxRunes = 1024

// Notice templates are data: the builder's only responsibility is
// deterministic substitution, so the same inputs always render the same
// content.
const (
	emailReminderBody = `Olá {{.Name}},

Sua cobrança de R$ {{.Total}} do ciclo {{.Cycle}} vencerá em {{.Days}} dias ({{.DueDate}}).

Referência de pagamento: {{.Ref}}

Atenciosamente,
Equipe de Cobrança`

	emailOverdueBody = `Olá {{.Name}},

Sua cobrança de R$ {{.Total}} do ciclo {{.Cycle}} está em atraso há {{.Days}} dia(s). O valor atualizado já inclui multa e juros.

Referência de pagamento: {{.Ref}}

Regularize o pagamento para evitar o bloqueio do serviço.

Atenciosamente,
Equipe de Cobrança`

	whatsAppReminderBody = `Olá {{.Name}}, sua cobrança de R$ {{.Total}} vencerá em {{.Days}} dias ({{.DueDate}}). Referência de pagamento: {{.Ref}}.`

	whatsAppOverdueBody = `ATRASO: {{.Name}}, sua cobrança de R$ {{.Total}} está atrasada há {{.Days}} dia(s). Referência de pagamento: {{.Ref}}.`
)

type messageData struct {
	Name    string
	Total   string
	DueDate string
	Cycle   string
	Ref     string
	Days    int
}

// MessageBuilder renders a matched cadence rule into channel-appropriate
// content.
type MessageBuilder interface {
	Render(match CadenceMatch, channel types.Channel, cust *customer.Customer, chg *charge.Charge, today time.Time) (notify.Content, error)
}

type messageBuilder struct {
	templates map[string]*template.Template
}

// NewMessageBuilder parses the notice templates once.
func NewMessageBuilder() MessageBuilder {
	parse := func(name, text string) *template.Template {
		return template.Must(template.New(name).Parse(text))
	}
	return &messageBuilder{
		templates: map[string]*template.Template{
			templateKey(types.ChannelEmail, false):    parse("email_reminder", emailReminderBody),
			templateKey(types.ChannelEmail, true):     parse("email_overdue", emailOverdueBody),
			templateKey(types.ChannelWhatsApp, false): parse("whatsapp_reminder", whatsAppReminderBody),
			templateKey(types.ChannelWhatsApp, true):  parse("whatsapp_overdue", whatsAppOverdueBody),
		},
	}
}

func templateKey(channel types.Channel, overdue bool) string {
	if overdue {
		return string(channel) + ":overdue"
	}
	return string(channel) + ":reminder"
}

func (b *messageBuilder) Render(match CadenceMatch, channel types.Channel, cust *customer.Customer, chg *charge.Charge, today time.Time) (notify.Content, error) {
	overdue := match.Rule != types.RuleTypeReminderD3

	days := match.DaysOverdue
	if !overdue {
		days = types.DaysBetween(today, chg.DueDate)
	}

	data := messageData{
		Name:    cust.Name,
		Total:   chg.TotalAmount.StringFixed(2),
		DueDate: types.FormatDisplayDate(chg.DueDate),
		Cycle:   chg.CycleReference,
		Ref:     chg.PaymentReference,
		Days:    days,
	}

	tmpl, ok := b.templates[templateKey(channel, overdue)]
	if !ok {
		return notify.Content{}, ierr.NewError("no template for channel").
			WithHintf("Channel %s has no notice template", channel).
			Mark(ierr.ErrSystem)
	}

	var body strings.Builder
	if err := tmpl.Execute(&body, data); err != nil {
		return notify.Content{}, ierr.WithError(err).
			WithHint("Failed to render notice content").
			Mark(ierr.ErrSystem)
	}

	content := notify.Content{Body: body.String()}
	switch channel {
	case types.ChannelEmail:
		content.Subject = fmt.Sprintf("Aviso de Cobrança: %s", match.Label())
	case types.ChannelWhatsApp:
		content.Body = truncateRunes(content.Body, whatsAppMaxRunes)
	}
	return content, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
