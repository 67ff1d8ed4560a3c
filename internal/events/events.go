// Package events carries domain signals from services to whoever needs to
// react: the dashboard cache in-process and, when configured, NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const TypeOnboardingCompleted = "onboarding.completed"

type Event struct {
	Type       string    `json:"type"`
	OwnerID    string    `json:"ownerId"`
	RecordID   string    `json:"recordId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier receives events. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Noop discards every event.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }

// Fanout delivers to every notifier. A failing notifier is logged and does
// not stop delivery to the rest; the first error is returned.
type Fanout struct {
	mu        sync.RWMutex
	notifiers []Notifier
	logger    *zap.Logger
}

func NewFanout(logger *zap.Logger, notifiers ...Notifier) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{notifiers: notifiers, logger: logger}
}

// Subscribe adds n. Notifiers built after the publisher are attached this way.
func (f *Fanout) Subscribe(n Notifier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifiers = append(f.notifiers, n)
}

func (f *Fanout) Notify(ctx context.Context, ev Event) error {
	f.mu.RLock()
	notifiers := f.notifiers
	f.mu.RUnlock()

	var first error
	for _, n := range notifiers {
		if err := n.Notify(ctx, ev); err != nil {
			f.logger.Warn("event delivery failed", zap.String("type", ev.Type), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes events as JSON on <prefix>.<event type>.
type NATSNotifier struct {
	pub    publisher
	prefix string
}

func NewNATSNotifier(conn *nats.Conn, prefix string) *NATSNotifier {
	return &NATSNotifier{pub: conn, prefix: prefix}
}

func (n *NATSNotifier) Subject(eventType string) string {
	if n.prefix == "" {
		return eventType
	}
	return n.prefix + "." + eventType
}

func (n *NATSNotifier) Notify(_ context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := n.pub.Publish(n.Subject(ev.Type), payload); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// ConnectNATS dials the server at url with reconnects enabled.
func ConnectNATS(url string, logger *zap.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("carbonpay-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
}
