package notify

import (
	"context"
	"errors"
	"time"

	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/types"
)

// Dispatcher routes rendered content to the transport for a channel. It
// honors each channel's kill switch independently, bounds every send with
// a timeout so one unreachable transport cannot stall the batch, and
// converts transport errors into FAILED outcomes instead of propagating
// them to the caller.
type Dispatcher struct {
	senders map[types.Channel]Sender
	timeout time.Duration
	logger  *logger.Logger
}

// NewDispatcher builds a dispatcher over the given transports.
func NewDispatcher(log *logger.Logger, timeout time.Duration, senders ...Sender) *Dispatcher {
	byChannel := make(map[types.Channel]Sender, len(senders))
	for _, s := range senders {
		byChannel[s.Channel()] = s
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		senders: byChannel,
		timeout: timeout,
		logger:  log,
	}
}

// ChannelEnabled reports whether the channel has a transport and its kill
// switch is on.
func (d *Dispatcher) ChannelEnabled(channel types.Channel) bool {
	s, ok := d.senders[channel]
	return ok && s.Enabled()
}

// Send dispatches content through the named channel and returns the
// delivery outcome. Disabled channels yield SKIPPED without contacting any
// transport; errors and timeouts yield FAILED with a reason.
func (d *Dispatcher) Send(ctx context.Context, channel types.Channel, recipient string, content Content) Outcome {
	sender, ok := d.senders[channel]
	if !ok {
		return Failed("no transport configured for channel " + string(channel))
	}
	if !sender.Enabled() {
		d.logger.Infow("channel disabled by kill switch, skipping send",
			"channel", channel)
		return Skipped("channel disabled by configuration")
	}
	if recipient == "" {
		return Failed("missing recipient")
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := sender.Send(sendCtx, recipient, content); err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		d.logger.Errorw("dispatch failed",
			"channel", channel,
			"error", err)
		return Failed(reason)
	}

	return Sent()
}
