// Package push delivers admin events as notifications. API handlers publish a
// Message when a record changes; a background worker receives it and runs the
// registered background-message handler, which displays (persists) a
// notification.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// Channel is the pub/sub channel admin events travel on.
const Channel = "admin:notifications"

// NotificationTitle is the fixed title every displayed notification carries.
const NotificationTitle = "TapToSell Admin"

// Event names.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Message is the payload published for every admin event.
type Message struct {
	Event      string    `json:"event"`
	Collection string    `json:"collection"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	SentAt     time.Time `json:"sentAt"`
}

func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func Decode(payload []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return Message{}, fmt.Errorf("decode push message: %w", err)
	}
	return m, nil
}

// Publisher sends messages to the background worker.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// NopPublisher drops every message. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Message) error { return nil }

// Handler processes one background message.
type Handler func(ctx context.Context, msg Message) error

// NotificationSink persists displayed notifications.
type NotificationSink interface {
	Create(ctx context.Context, n *models.Notification) error
}

// singular maps a collection to the noun used in notification bodies.
var singular = map[string]string{
	"users":      "User",
	"brands":     "Brand",
	"categories": "Category",
	"teams":      "Team member",
}

// BuildNotification renders a message: fixed title, body interpolated from the
// payload, and a link to the record.
func BuildNotification(msg Message, now time.Time) *models.Notification {
	noun, ok := singular[msg.Collection]
	if !ok {
		noun = "Record"
	}
	name := msg.Name
	if name == "" {
		name = msg.Slug
	}

	n := &models.Notification{
		Title:     NotificationTitle,
		Body:      fmt.Sprintf("%s %q was %s", noun, name, msg.Event),
		CreatedAt: now,
	}
	// Deleted records have nothing left to link to.
	if msg.Slug != "" && msg.Event != EventDeleted {
		link := "/" + strings.Trim(msg.Collection, "/") + "/" + msg.Slug
		n.Link = &link
	}
	return n
}

// DisplayNotification returns the default background-message handler: it
// builds the notification and stores it in sink.
func DisplayNotification(sink NotificationSink) Handler {
	return func(ctx context.Context, msg Message) error {
		n := BuildNotification(msg, time.Now())
		if err := sink.Create(ctx, n); err != nil {
			return fmt.Errorf("display notification: %w", err)
		}
		return nil
	}
}
