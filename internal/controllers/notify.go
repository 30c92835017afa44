package controllers

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Notification event types.
const (
	EventAdvanceSubmitted      = "advance_submitted"
	EventAdvanceStepApproved   = "advance_step_approved"
	EventAdvanceApproved       = "advance_approved"
	EventAdvanceRejected       = "advance_rejected"
	EventAdvanceCancelled      = "advance_cancelled"
	EventPrerecordSubmitted    = "prerecord_submitted"
	EventPrerecordApproved     = "prerecord_approved"
	EventPrerecordRejected     = "prerecord_rejected"
	EventPrerecordRevision     = "prerecord_revision_requested"
	EventPrerecordResubmitted  = "prerecord_resubmitted"
	EventPrerecordCancellation = "prerecord_cancellation_requested"
	EventPrerecordCancelled    = "prerecord_cancelled"
)

// Notifier dispatches workflow events. Publishing is fire-and-forget: failures
// are logged and never block or roll back a state transition.
type Notifier interface {
	Publish(event string, payload map[string]any)
}

// NotificationEvent is the JSON schema published to NATS.
type NotificationEvent struct {
	EventType string         `json:"event_type"`
	At        time.Time      `json:"at"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NatsNotifier publishes events to <subject_prefix>.<event_type>. A nil
// receiver or nil connection drops events silently.
type NatsNotifier struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

func NewNatsNotifier(conn *nats.Conn, prefix string, logger *slog.Logger) *NatsNotifier {
	if prefix == "" {
		prefix = "personelplus.approvals"
	}

	return &NatsNotifier{
		conn:   conn,
		prefix: prefix,
		logger: logger,
	}
}

func (n *NatsNotifier) Publish(event string, payload map[string]any) {
	if n == nil || n.conn == nil {
		return
	}

	data, err := json.Marshal(NotificationEvent{
		EventType: event,
		At:        time.Now(),
		Payload:   payload,
	})
	if err != nil {
		n.logger.Warn("Error marshaling notification", slog.String("event", event), slog.String("error", err.Error()))
		return
	}

	if err := n.conn.Publish(n.prefix+"."+event, data); err != nil {
		n.logger.Warn("Error publishing notification", slog.String("event", event), slog.String("error", err.Error()))
	}
}
