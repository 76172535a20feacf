// Package push wraps the outbound messaging gateway. Callers hand it a set
// of delivery tokens and a payload; it reports per-token outcomes and which
// tokens the gateway considers permanently dead so the owning user records
// can be cleaned up.
package push

import "context"

// Message is a notification payload: visible title/body plus an opaque data
// map the client app interprets.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Report summarizes one multicast send.
type Report struct {
	SuccessCount int
	FailureCount int

	// InvalidTokens are addresses the gateway reported as permanently
	// invalid (unregistered or malformed). Transient failures are counted
	// in FailureCount but not listed here.
	InvalidTokens []string
}

// Sender delivers payloads. Production uses FCM; tests use a fake.
type Sender interface {
	// SendMulticast delivers msg to every token and returns the per-token
	// outcome summary. An empty token list is a no-op.
	SendMulticast(ctx context.Context, tokens []string, msg Message) (Report, error)

	// SendToTopic broadcasts msg to a named topic subscription.
	SendToTopic(ctx context.Context, topic string, msg Message) error
}
