package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/faturado/faturado/internal/config"
	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/faturado/faturado/internal/httpclient"
	"github.com/faturado/faturado/internal/types"
)

// WhatsAppSender delivers notices through the WhatsApp Business (Meta
// graph) API: POST {base}/{phone_id}/messages with a bearer token.
type WhatsAppSender struct {
	cfg    config.WhatsAppConfig
	client httpclient.Client
}

type whatsAppTextPayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Text             whatsAppMessage `json:"text"`
}

type whatsAppMessage struct {
	Body string `json:"body"`
}

// NewWhatsAppSender creates the WhatsApp transport.
func NewWhatsAppSender(cfg config.WhatsAppConfig, client httpclient.Client) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:    cfg,
		client: client,
	}
}

func (s *WhatsAppSender) Channel() types.Channel {
	return types.ChannelWhatsApp
}

func (s *WhatsAppSender) Enabled() bool {
	return s.cfg.Enabled
}

func (s *WhatsAppSender) Send(ctx context.Context, recipient string, content Content) error {
	phone := customerPhone(recipient)
	if phone == "" {
		return ierr.NewError("invalid or missing phone number").
			WithHint("Recipient phone must contain digits").
			Mark(ierr.ErrValidation)
	}

	if s.cfg.Mock {
		return nil
	}

	payload, err := json.Marshal(whatsAppTextPayload{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             whatsAppMessage{Body: content.Body},
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to build WhatsApp payload").
			Mark(ierr.ErrSystem)
	}

	req := &httpclient.Request{
		Method: http.MethodPost,
		URL:    s.apiURL(),
		Headers: map[string]string{
			"Authorization": fmt.Sprintf("Bearer %s", s.cfg.Token),
		},
		Body: payload,
	}

	if _, err := s.client.Send(ctx, req); err != nil {
		return ierr.WithError(err).
			WithHint("WhatsApp delivery failed").
			Mark(ierr.ErrIntegration)
	}
	return nil
}

func (s *WhatsAppSender) apiURL() string {
	base := strings.TrimSuffix(s.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/%s/messages", base, s.cfg.PhoneID)
}

func customerPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
