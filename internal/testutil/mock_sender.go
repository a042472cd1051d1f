package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/faturado/faturado/internal/notify"
	"github.com/faturado/faturado/internal/types"
)

// SentMessage is one delivery captured by the mock sender.
type SentMessage struct {
	Recipient string
	Content   notify.Content
}

// MockSender implements notify.Sender and records every delivery. Err makes
// sends fail; Delay makes them slow so timeout handling can be exercised.
type MockSender struct {
	mu sync.Mutex

	channel  types.Channel
	enabled  bool
	Err      error
	Delay    time.Duration
	messages []SentMessage
}

func NewMockSender(channel types.Channel) *MockSender {
	return &MockSender{
		channel: channel,
		enabled: true,
	}
}

func (m *MockSender) Channel() types.Channel {
	return m.channel
}

func (m *MockSender) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SetEnabled flips the sender's kill switch.
func (m *MockSender) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

func (m *MockSender) Send(ctx context.Context, recipient string, content notify.Content) error {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, SentMessage{Recipient: recipient, Content: content})
	return nil
}

// Messages returns a copy of the captured deliveries.
func (m *MockSender) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Reset clears captured deliveries.
func (m *MockSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
