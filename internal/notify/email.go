package notify

import (
	"context"

	"github.com/faturado/faturado/internal/config"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/types"
	"github.com/resend/resend-go/v2"
)

// EmailSender delivers notices through the Resend API.
type EmailSender struct {
	client      *resend.Client
	cfg         config.EmailConfig
	fromAddress string
	replyTo     string
}

// NewEmailSender creates the email transport. In mock mode no client is
// constructed and every send succeeds without touching the network.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	s := &EmailSender{
		cfg:         cfg,
		fromAddress: cfg.FromAddress,
		replyTo:     cfg.ReplyTo,
	}
	if cfg.Enabled && !cfg.Mock && cfg.APIKey != "" {
		s.client = resend.NewClient(cfg.APIKey)
	}
	return s
}

func (s *EmailSender) Channel() types.Channel {
	return types.ChannelEmail
}

func (s *EmailSender) Enabled() bool {
	return s.cfg.Enabled
}

func (s *EmailSender) Send(ctx context.Context, recipient string, content Content) error {
	if s.cfg.Mock {
		return nil
	}
	if s.client == nil {
		return ierr.NewError("email client is not configured").
			WithHint("Set the email API key or enable mock mode").
			Mark(ierr.ErrConfiguration)
	}

	params := &resend.SendEmailRequest{
		From:    s.fromAddress,
		To:      []string{recipient},
		Subject: content.Subject,
		Text:    content.Body,
	}
	if s.replyTo != "" {
		params.ReplyTo = s.replyTo
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return ierr.WithError(err).
			WithHint("Email delivery failed").
			Mark(ierr.ErrIntegration)
	}
	return nil
}
