package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/requestctx"
)

// NotificationPublisher publishes settings events to NATS for the
// notifications service.
//
// Subject convention: <prefix>.<event_type>
// Event types: category_created, category_updated, category_deleted,
//              console_success, console_error
//
// All publish operations are non-fatal: errors are logged and never
// returned, so a notification outage never fails a write.
type NotificationPublisher struct {
	conn   *nats.Conn
	prefix string
	log    zerolog.Logger
}

// NotificationEvent is the JSON schema published to NATS.
type NotificationEvent struct {
	EventType    string         `json:"event_type"`
	TenantID     int64          `json:"tenant_id,omitempty"`
	ActorID      int64          `json:"actor_id,omitempty"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Severity     string         `json:"severity,omitempty"`
	Category     string         `json:"category,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// Connect dials NATS. An empty url returns a nil connection, which turns the
// publisher into a no-op.
func Connect(url, name string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// NewNotificationPublisher creates a publisher backed by the given NATS connection.
func NewNotificationPublisher(conn *nats.Conn, prefix string, log zerolog.Logger) *NotificationPublisher {
	return &NotificationPublisher{conn: conn, prefix: prefix, log: log}
}

// PublishCategoryEvent publishes a category change event.
func (p *NotificationPublisher) PublishCategoryEvent(ctx context.Context, eventType string, c *model.Category, actorID int64) {
	p.publish(ctx, &NotificationEvent{
		EventType:    eventType,
		TenantID:     c.TenantID,
		ActorID:      actorID,
		ResourceType: "category",
		ResourceID:   fmt.Sprintf("%d", c.ID),
		Severity:     "info",
		Category:     "settings",
		Payload: map[string]any{
			"name":      c.Name,
			"isdeleted": c.IsDeleted,
		},
	})
}

// Success publishes a console success toast.
func (p *NotificationPublisher) Success(ctx context.Context, message string) {
	p.publish(ctx, &NotificationEvent{
		EventType: "console_success",
		Severity:  "info",
		Category:  "console",
		Payload:   map[string]any{"message": message},
	})
}

// Error publishes a console error toast.
func (p *NotificationPublisher) Error(ctx context.Context, message, description string) {
	p.publish(ctx, &NotificationEvent{
		EventType: "console_error",
		Severity:  "error",
		Category:  "console",
		Payload:   map[string]any{"message": message, "description": description},
	})
}

func (p *NotificationPublisher) publish(ctx context.Context, event *NotificationEvent) {
	if p == nil || p.conn == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestctx.RequestIDFromContext(ctx)
	}
	if event.ActorID == 0 {
		event.ActorID, _ = requestctx.ActorIDFromContext(ctx)
	}
	event.OccurredAt = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Str("event_type", event.EventType).Msg("notification: failed to marshal event")
		return
	}

	subject := fmt.Sprintf("%s.%s", p.prefix, event.EventType)
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", subject).
			Str("resource_id", event.ResourceID).
			Msg("notification: failed to publish NATS event (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", subject).
		Str("resource_id", event.ResourceID).
		Msg("notification: event published")
}

// closeFlushTimeout bounds how long Close waits for buffered events
const closeFlushTimeout = 5 * time.Second

// Close flushes buffered events to the server and drains the connection.
// Drain alone is asynchronous, so without the flush a process exiting right
// after Close would drop the last events.
func (p *NotificationPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.FlushTimeout(closeFlushTimeout); err != nil {
		p.log.Warn().Err(err).Msg("notification: failed to flush NATS connection")
	}
	if err := p.conn.Drain(); err != nil {
		p.log.Warn().Err(err).Msg("notification: failed to drain NATS connection")
	}
}
