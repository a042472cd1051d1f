package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/logger"
	"github.com/faturado/faturado/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	channel types.Channel
	enabled bool
	err     error
	delay   time.Duration

	sent []string
}

func (s *stubSender) Channel() types.Channel { return s.channel }
func (s *stubSender) Enabled() bool          { return s.enabled }

func (s *stubSender) Send(ctx context.Context, recipient string, content Content) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, recipient)
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(config.GetDefaultConfig())
	require.NoError(t, err)
	return log
}

func TestDispatcherSend(t *testing.T) {
	sender := &stubSender{channel: types.ChannelEmail, enabled: true}
	d := NewDispatcher(testLogger(t), time.Second, sender)

	outcome := d.Send(context.Background(), types.ChannelEmail, "maria@example.com", Content{Body: "oi"})
	assert.Equal(t, OutcomeSent, outcome.State)
	assert.Equal(t, []string{"maria@example.com"}, sender.sent)
}

func TestDispatcherKillSwitch(t *testing.T) {
	sender := &stubSender{channel: types.ChannelEmail, enabled: false}
	d := NewDispatcher(testLogger(t), time.Second, sender)

	assert.False(t, d.ChannelEnabled(types.ChannelEmail))

	outcome := d.Send(context.Background(), types.ChannelEmail, "maria@example.com", Content{Body: "oi"})
	assert.Equal(t, OutcomeSkipped, outcome.State)
	assert.Empty(t, sender.sent)
}

func TestDispatcherUnknownChannel(t *testing.T) {
	d := NewDispatcher(testLogger(t), time.Second)

	assert.False(t, d.ChannelEnabled(types.ChannelWhatsApp))

	outcome := d.Send(context.Background(), types.ChannelWhatsApp, "5521987654321", Content{Body: "oi"})
	assert.Equal(t, OutcomeFailed, outcome.State)
}

func TestDispatcherMissingRecipient(t *testing.T) {
	sender := &stubSender{channel: types.ChannelEmail, enabled: true}
	d := NewDispatcher(testLogger(t), time.Second, sender)

	outcome := d.Send(context.Background(), types.ChannelEmail, "", Content{Body: "oi"})
	assert.Equal(t, OutcomeFailed, outcome.State)
	assert.Equal(t, "missing recipient", outcome.Reason)
}

func TestDispatcherTransportError(t *testing.T) {
	sender := &stubSender{channel: types.ChannelWhatsApp, enabled: true, err: errors.New("api rejected message")}
	d := NewDispatcher(testLogger(t), time.Second, sender)

	outcome := d.Send(context.Background(), types.ChannelWhatsApp, "5521987654321", Content{Body: "oi"})
	assert.Equal(t, OutcomeFailed, outcome.State)
	assert.Equal(t, "api rejected message", outcome.Reason)
}

func TestDispatcherTimeout(t *testing.T) {
	sender := &stubSender{channel: types.ChannelWhatsApp, enabled: true, delay: 200 * time.Millisecond}
	d := NewDispatcher(testLogger(t), 20*time.Millisecond, sender)

	outcome := d.Send(context.Background(), types.ChannelWhatsApp, "5521987654321", Content{Body: "oi"})
	assert.Equal(t, OutcomeFailed, outcome.State)
	assert.Equal(t, "timeout", outcome.Reason)
}
