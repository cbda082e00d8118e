// Package audit publishes one event per applied catalog or account change.
package audit

import (
	"context"
	"time"
)

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

type Event struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

// NewEvent builds e.g. {"type":"product_created","entity":"product",...}.
func NewEvent(entity string, action Action, id string, at time.Time) Event {
	return Event{Type: entity + "_" + string(action), Entity: entity, ID: id, At: at.UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
