package notify

import (
	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/httpclient"
	"github.com/faturado/faturado/internal/logger"
)

// NewChannelDispatcher wires the configured transports into a dispatcher.
// The per-send timeout follows the WhatsApp transport timeout, the slower
// of the two channels.
func NewChannelDispatcher(cfg *config.Configuration, log *logger.Logger, client httpclient.Client) *Dispatcher {
	return NewDispatcher(
		log,
		cfg.WhatsApp.Timeout(),
		NewEmailSender(cfg.Email),
		NewWhatsAppSender(cfg.WhatsApp, client),
	)
}
