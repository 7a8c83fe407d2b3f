package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type names a change to a tracked entity. It doubles as the routing key.
type Type string

const (
	JobCreated   Type = "job.created"
	JobUpdated   Type = "job.updated"
	JobDeleted   Type = "job.deleted"
	JobNoteAdded Type = "job.note_added"

	TemplateCreated Type = "template.created"
	TemplateUpdated Type = "template.updated"
	TemplateDeleted Type = "template.deleted"
)

// Entity returns the entity half of the type, e.g. "job".
func (t Type) Entity() string {
	entity, _, _ := strings.Cut(string(t), ".")
	return entity
}

// Event is emitted after a mutation has committed.
type Event struct {
	ID         string    `json:"event_id"`
	Type       Type      `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event with a fresh id.
func New(t Type, entityID int64, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Entity:     t.Entity(),
		EntityID:   entityID,
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers committed change events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Sender is the broker side of a BrokerPublisher, satisfied by
// *rabbitmq.Client.
type Sender interface {
	PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// BrokerPublisher encodes events as JSON and routes them by type.
type BrokerPublisher struct {
	sender Sender
	logger *slog.Logger
}

// NewBrokerPublisher creates a publisher on top of sender.
func NewBrokerPublisher(sender Sender, logger *slog.Logger) *BrokerPublisher {
	return &BrokerPublisher{sender: sender, logger: logger}
}

// Publish implements Publisher.
func (p *BrokerPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.sender.PublishWithRetry(ctx, string(event.Type), body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.Debug("Change event published",
		slog.String("event_id", event.ID),
		slog.String("type", string(event.Type)),
		slog.Int64("entity_id", event.EntityID),
	)
	return nil
}
