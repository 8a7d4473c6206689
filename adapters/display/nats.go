package display

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn the sink needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// PriceUpdate is the message published for every displayed price
type PriceUpdate struct {
	SessionID string    `json:"session_id,omitempty"`
	Display   string    `json:"display"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSSink publishes displayed prices
type NATSSink struct {
	pub       Publisher
	subject   string
	sessionID string
	now       func() time.Time
}

// NewNATSSink creates a sink publishing on subject
func NewNATSSink(pub Publisher, subject string) *NATSSink {
	return &NATSSink{
		pub:     pub,
		subject: subject,
		now:     time.Now,
	}
}

// ForSession returns a copy that tags messages with a session ID
func (s *NATSSink) ForSession(id string) *NATSSink {
	c := *s
	c.sessionID = id
	return &c
}

// Show publishes the price
func (s *NATSSink) Show(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(PriceUpdate{
		SessionID: s.sessionID,
		Display:   text,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := s.pub.Publish(s.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", s.subject, err)
	}
	return nil
}

// ConnectNATS opens a connection for price publishing
func ConnectNATS(url, name string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(10),
		nats.Timeout(5 * time.Second),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}
