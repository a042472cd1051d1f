package notify

import (
	"context"

	"github.com/faturado/faturado/internal/types"
)

// Content is channel-agnostic rendered message content. Subject is only
// meaningful for channels that have one; WhatsApp sends Body alone.
type Content struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// OutcomeState is the terminal state of one dispatch attempt.
type OutcomeState string

const (
	OutcomeSent    OutcomeState = "SENT"
	OutcomeFailed  OutcomeState = "FAILED"
	OutcomeSkipped OutcomeState = "SKIPPED"
)

// Outcome is the result of a dispatch attempt. Failures carry the
// transport reason; skips carry why the send never happened.
type Outcome struct {
	State  OutcomeState `json:"state"`
	Reason string       `json:"reason,omitempty"`
}

func Sent() Outcome {
	return Outcome{State: OutcomeSent}
}

func Failed(reason string) Outcome {
	return Outcome{State: OutcomeFailed, Reason: reason}
}

func Skipped(reason string) Outcome {
	return Outcome{State: OutcomeSkipped, Reason: reason}
}

// Sender is one delivery transport. Implementations must be safe for
// concurrent use and must honor ctx cancellation on the network call.
type Sender interface {
	Channel() types.Channel
	Enabled() bool
	Send(ctx context.Context, recipient string, content Content) error
}
