// Package notification delivers trade alerts to external channels
// (Telegram, webhooks). The engine decides WHETHER to send; backends
// only deliver.
package notification

import (
	"context"
	"fmt"
	"log"

	"crypto-sentinelv1/internal/model"
)

// Alert is one outgoing trade notification. DetailID references the rich
// message stored in the state cache; it may have expired by the time the
// consumer looks it up.
type Alert struct {
	Symbol   string         `json:"symbol"`
	Action   model.Action   `json:"action"`
	Strength model.Strength `json:"strength"`
	Price    float64        `json:"price"`
	Message  string         `json:"message"`
	DetailID string         `json:"detail_id,omitempty"`
	Reason   string         `json:"reason,omitempty"` // why the gate let this through
}

// ShortText renders the compact alert form sent to chat channels.
func (a Alert) ShortText() string {
	text := fmt.Sprintf("%s %s @ %.2f (%s)\n%s", a.Action, a.Symbol, a.Price, a.Strength, a.Message)
	if a.DetailID != "" {
		text += fmt.Sprintf("\nDetail: %s (expires)", a.DetailID)
	}
	return text
}

// Notifier is the interface for all delivery backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier logs alerts instead of delivering them. Useful for
// development and as the fallback when no channel is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s @ %.2f: %s", alert.Action, alert.Symbol, alert.Price, alert.Message)
	return nil
}

// Multi fans one alert out to several backends. Delivery failures are
// logged per backend; the first error is returned after all backends
// were attempted.
type Multi struct {
	backends []Notifier
}

func NewMulti(backends ...Notifier) *Multi {
	return &Multi{backends: backends}
}

func (m *Multi) Send(ctx context.Context, alert Alert) error {
	var first error
	for _, n := range m.backends {
		if err := n.Send(ctx, alert); err != nil {
			log.Printf("[notify] backend %T failed: %v", n, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
