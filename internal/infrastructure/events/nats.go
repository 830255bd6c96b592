package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes each event on <prefix>.<event type>, for example
// access_gate.status.created.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string, opts ...nats.Option) (*NATSPublisher, error) {
	defaults := []nats.Option{
		nats.Name("access-gate-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}

	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("NATSPublisher - New - nats.Connect %s: %w", url, err)
	}

	return &NATSPublisher{conn: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) Subject(t entity.EventType) string {
	return p.prefix + "." + string(t)
}

func (p *NATSPublisher) Publish(_ context.Context, event *entity.DecisionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("NATSPublisher - Publish - json.Marshal: %w", err)
	}

	err = p.conn.Publish(p.Subject(event.Type), data)
	if err != nil {
		return fmt.Errorf("NATSPublisher - Publish - p.conn.Publish: %w", err)
	}

	return nil
}

func (p *NATSPublisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		p.conn.Close()
		return fmt.Errorf("NATSPublisher - Close - p.conn.Drain: %w", err)
	}

	return nil
}
