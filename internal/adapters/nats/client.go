package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"
)

// ProfileRegistered is published after a signup completes in both stores.
type ProfileRegistered struct {
	EventID    string    `json:"event_id"`
	ProfileID  int64     `json:"profile_id"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishProfileRegistered(ctx context.Context, event ProfileRegistered) error
}

type publishFunc func(subject string, data []byte) error

type eventPublisher struct {
	publish publishFunc
	subject string
}

func NewEventPublisher(conn *nats.Conn, subject string) EventPublisher {
	return &eventPublisher{publish: conn.Publish, subject: subject}
}

func (p *eventPublisher) PublishProfileRegistered(ctx context.Context, event ProfileRegistered) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.publish == nil {
		return errors.New("nats publisher not configured")
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.publish(p.subject, data)
}
