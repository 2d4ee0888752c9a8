package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// DefaultSubjectPrefix is prepended to every published subject
const DefaultSubjectPrefix = "podracer.events"

// Envelope wraps an event payload with its routing metadata
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType EventType       `json:"eventType"`
	SessionID string          `json:"sessionId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Publisher emits race lifecycle events for a session
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, eventType EventType, payload any) error
}

// NewEnvelope marshals payload into an envelope
func NewEnvelope(sessionID uuid.UUID, eventType EventType, payload any, at time.Time) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		SessionID: sessionID.String(),
		Timestamp: at,
		Payload:   data,
	}, nil
}

// Subject returns the subject an event is published on
func Subject(prefix string, sessionID uuid.UUID, eventType EventType) string {
	return fmt.Sprintf("%s.%s.%s", prefix, sessionID.String(), eventType)
}

// NoOpPublisher drops every event
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(ctx context.Context, sessionID uuid.UUID, eventType EventType, payload any) error {
	return nil
}

// LogPublisher writes events to the debug log instead of a message bus
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, sessionID uuid.UUID, eventType EventType, payload any) error {
	envelope, err := NewEnvelope(sessionID, eventType, payload, time.Now())
	if err != nil {
		return err
	}
	log.Debug().
		Str("event_id", envelope.EventID).
		Str("event_type", string(eventType)).
		Str("session_id", envelope.SessionID).
		RawJSON("payload", envelope.Payload).
		Msg("race event")
	return nil
}

// NATSPublisher publishes events to NATS core subjects
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

// ConnectNATS connects to url and returns a publisher on top of the connection
func ConnectNATS(url, prefix string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("podracer"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return NewNATSPublisher(nc, prefix), nil
}

func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{nc: nc, prefix: prefix}
}

func (p *NATSPublisher) Publish(ctx context.Context, sessionID uuid.UUID, eventType EventType, payload any) error {
	envelope, err := NewEnvelope(sessionID, eventType, payload, time.Now())
	if err != nil {
		return err
	}

	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := Subject(p.prefix, sessionID, eventType)
	if err := p.nc.Publish(subject, messageBytes); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Int("size", len(messageBytes)).
		Msg("published race event")
	return nil
}

// Close drains the underlying connection
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
