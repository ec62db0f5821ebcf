// internal/adapter/events/nats.go

package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

// NATSPublisher emits pipeline events on the NATS event bus so
// downstream consumers (indexers, alerting) see committed records as
// they land.
type NATSPublisher struct {
	conn  *nats.Conn
	topic string
}

// NewNATSPublisher creates a publisher on the given base topic.
func NewNATSPublisher(conn *nats.Conn, topic string) *NATSPublisher {
	if topic == "" {
		topic = "posts"
	}
	return &NATSPublisher{conn: conn, topic: topic}
}

// PublishCommitted emits a committed-record event. The full record is
// serialized; consumers pick the fields they need.
func (p *NATSPublisher) PublishCommitted(record post.PostRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record event: %w", err)
	}

	subject := fmt.Sprintf("%s.committed", p.topic)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
