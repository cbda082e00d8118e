package crud

import (
	"context"

	"github.com/Skotchmaster/shop_admin/internal/form"
)

// Remote is the collaborator's view of one collection.
type Remote[E, P any] interface {
	List(ctx context.Context) ([]E, error)
	Create(ctx context.Context, payload P) (E, error)
	Update(ctx context.Context, id string, payload P) (E, error)
	Delete(ctx context.Context, id string) error
}

// Messages are the user-facing notices of one screen.
type Messages struct {
	LoadFailed    string
	Created       string
	Updated       string
	SaveFailed    string
	ConfirmDelete string
	Deleted       string
	DeleteFailed  string
}

// Kind binds the controller to one entity type.
type Kind[E any, D form.Draft, P any] interface {
	// Name is the singular entity name used in logs and audit events.
	Name() string
	ID(e E) string
	Blank() D
	DraftOf(e E) D
	// Payload is only called on a draft that passed validation.
	Payload(d D) (P, error)
	Messages() Messages
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type Notifier interface {
	Notify(msg string)
}

type NotifyFunc func(msg string)

func (f NotifyFunc) Notify(msg string) { f(msg) }
