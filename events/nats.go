package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes JSON-encoded events to NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url. Extra options are appended to the
// reconnect defaults.
func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	defaults := []nats.Option{
		nats.Name("civicindex"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.conn.Publish(topic, data)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	err := p.conn.Flush()
	p.conn.Close()
	return err
}

// New returns a NATSPublisher for a non-empty url and a NoopPublisher
// otherwise.
func New(url string) (Publisher, error) {
	if url == "" {
		return &NoopPublisher{}, nil
	}
	return NewNATSPublisher(url)
}
