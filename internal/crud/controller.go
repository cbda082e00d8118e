// Package crud keeps a local list consistent with a remote collection while
// entities are created, edited and deleted through a form session.
package crud

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Skotchmaster/shop_admin/internal/audit"
	"github.com/Skotchmaster/shop_admin/internal/form"
	"github.com/Skotchmaster/shop_admin/internal/store"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

// Deps are the collaborators shared by every controller. A nil Confirmer
// declines every delete; nil Notifier and Publisher drop their input.
type Deps struct {
	Confirmer Confirmer
	Notifier  Notifier
	Publisher audit.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

type Controller[E any, D form.Draft, P any] struct {
	kind   Kind[E, D, P]
	remote Remote[E, P]
	items  *store.Collection[E]

	confirm Confirmer
	notify  Notifier
	audit   audit.Publisher
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	session  *form.Session[D]
	deleting map[string]struct{}
}

func New[E any, D form.Draft, P any](kind Kind[E, D, P], remote Remote[E, P], deps Deps) *Controller[E, D, P] {
	c := &Controller[E, D, P]{
		kind:     kind,
		remote:   remote,
		items:    store.NewCollection(kind.ID),
		confirm:  deps.Confirmer,
		notify:   deps.Notifier,
		audit:    deps.Publisher,
		logger:   deps.Logger,
		now:      deps.Now,
		deleting: map[string]struct{}{},
	}
	if c.confirm == nil {
		c.confirm = ConfirmFunc(func(string) bool { return false })
	}
	if c.notify == nil {
		c.notify = NotifyFunc(func(string) {})
	}
	if c.audit == nil {
		c.audit = audit.Nop{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Controller[E, D, P]) log(ctx context.Context, op string) *slog.Logger {
	l := c.logger
	if l == nil {
		l = logging.FromContext(ctx)
	}
	return l.With("controller", c.kind.Name()+"."+op)
}

// LoadAll replaces the cached list. On failure the previous list is kept.
func (c *Controller[E, D, P]) LoadAll(ctx context.Context) error {
	l := c.log(ctx, "load_all")
	items, err := c.remote.List(ctx)
	if err != nil {
		l.Error("load_all_error", "reason", "cannot fetch collection", "error", err)
		c.notify.Notify(c.kind.Messages().LoadFailed)
		return err
	}
	c.items.Replace(items)
	l.Debug("load_all_success", "count", len(items))
	return nil
}

func (c *Controller[E, D, P]) Items() []E { return c.items.Items() }

func (c *Controller[E, D, P]) Find(id string) (E, bool) { return c.items.Find(id) }

// Loaded reports whether at least one LoadAll succeeded.
func (c *Controller[E, D, P]) Loaded() bool { return c.items.Loaded() }

// Session returns the open dialog or nil.
func (c *Controller[E, D, P]) Session() *form.Session[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller[E, D, P]) OpenCreate() *form.Session[D] {
	s := form.NewCreate(c.kind.Blank())
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	return s
}

func (c *Controller[E, D, P]) OpenEdit(e E) *form.Session[D] {
	s := form.NewEdit(c.kind.ID(e), c.kind.DraftOf(e))
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	return s
}

// Cancel discards the open dialog without a network call.
func (c *Controller[E, D, P]) Cancel() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

// Submit validates the open dialog and sends it. On success the dialog is
// closed and the list reloaded; on a remote failure the dialog stays open with
// its values intact.
func (c *Controller[E, D, P]) Submit(ctx context.Context) (E, error) {
	var zero E
	l := c.log(ctx, "submit")
	msgs := c.kind.Messages()

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return zero, ErrNoSession
	}
	if s.Pending() {
		c.mu.Unlock()
		return zero, ErrInFlight
	}
	if err := s.Validate(); err != nil {
		c.mu.Unlock()
		l.Debug("submit_invalid", "fields", s.Errors())
		return zero, err
	}
	payload, err := c.kind.Payload(s.Draft())
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}
	_ = s.Begin()
	mode, id := s.Mode(), s.TargetID()
	c.mu.Unlock()

	var saved E
	if mode == form.ModeEdit {
		saved, err = c.remote.Update(ctx, id, payload)
	} else {
		saved, err = c.remote.Create(ctx, payload)
	}

	c.mu.Lock()
	s.Finish()
	if err == nil && c.session == s {
		c.session = nil
	}
	c.mu.Unlock()

	if err != nil {
		l.Error("submit_error", "mode", mode.String(), "id", id, "reason", "remote write failed", "error", err)
		c.notify.Notify(msgs.SaveFailed)
		return zero, err
	}

	action, notice := audit.Created, msgs.Created
	if mode == form.ModeEdit {
		action, notice = audit.Updated, msgs.Updated
	} else {
		id = c.kind.ID(saved)
	}
	l.Info("submit_success", "mode", mode.String(), "id", id)
	c.notify.Notify(notice)
	c.publish(ctx, action, id)

	_ = c.LoadAll(ctx)
	return saved, nil
}

// Remove asks for confirmation and deletes id. It returns false with a nil
// error when the user declines.
func (c *Controller[E, D, P]) Remove(ctx context.Context, id string) (bool, error) {
	l := c.log(ctx, "remove")
	msgs := c.kind.Messages()

	c.mu.Lock()
	if _, busy := c.deleting[id]; busy {
		c.mu.Unlock()
		return false, ErrInFlight
	}
	c.deleting[id] = struct{}{}
	c.mu.Unlock()

	done := func() {
		c.mu.Lock()
		delete(c.deleting, id)
		c.mu.Unlock()
	}

	if !c.confirm.Confirm(msgs.ConfirmDelete) {
		done()
		l.Debug("remove_declined", "id", id)
		return false, nil
	}

	err := c.remote.Delete(ctx, id)
	done()
	if err != nil {
		l.Error("remove_error", "id", id, "reason", "remote delete failed", "error", err)
		c.notify.Notify(msgs.DeleteFailed)
		return false, err
	}

	l.Info("remove_success", "id", id)
	c.notify.Notify(msgs.Deleted)
	c.publish(ctx, audit.Deleted, id)

	_ = c.LoadAll(ctx)
	return true, nil
}

func (c *Controller[E, D, P]) publish(ctx context.Context, action audit.Action, id string) {
	e := audit.NewEvent(c.kind.Name(), action, id, c.now())
	if err := c.audit.Publish(ctx, e); err != nil {
		c.log(ctx, "audit").Warn("publish_event_error", "type", e.Type, "id", id, "error", err)
	}
}
