// Package form holds the transient drafts behind the add/edit dialogs.
package form

import "fmt"

type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

type RequestState int

const (
	Idle RequestState = iota
	Pending
)

func (s RequestState) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Draft is the editable value set of one entity type.
type Draft interface {
	Set(field, value string) error
	Validate() FieldErrors
}

// Session is one open add/edit dialog. TargetID is set iff Mode is ModeEdit.
// A Session is not safe for concurrent use; its controller serialises access.
type Session[D Draft] struct {
	mode     Mode
	targetID string
	draft    D
	errs     FieldErrors
	state    RequestState
}

func NewCreate[D Draft](draft D) *Session[D] {
	return &Session[D]{mode: ModeCreate, draft: draft, errs: FieldErrors{}}
}

func NewEdit[D Draft](id string, draft D) *Session[D] {
	return &Session[D]{mode: ModeEdit, targetID: id, draft: draft, errs: FieldErrors{}}
}

func (s *Session[D]) Mode() Mode { return s.mode }
func (s *Session[D]) TargetID() string { return s.targetID }
func (s *Session[D]) Draft() D { return s.draft }
func (s *Session[D]) State() RequestState { return s.state }
func (s *Session[D]) Pending() bool { return s.state == Pending }
func (s *Session[D]) Errors() FieldErrors { return s.errs.clone() }
func (s *Session[D]) FieldError(f string) string { return s.errs[f] }

// Set edits one field and clears the error previously flagged on it.
func (s *Session[D]) Set(field, value string) error {
	if err := s.draft.Set(field, value); err != nil {
		return err
	}
	delete(s.errs, field)
	return nil
}

// Validate re-evaluates every rule and replaces the flagged field set.
func (s *Session[D]) Validate() error {
	s.errs = s.draft.Validate()
	if s.errs == nil {
		s.errs = FieldErrors{}
	}
	if len(s.errs) > 0 {
		return &ValidationError{Fields: s.errs.clone()}
	}
	return nil
}

// Begin moves idle -> pending. A second Begin before Finish is rejected.
func (s *Session[D]) Begin() error {
	if s.state == Pending {
		return ErrPending
	}
	s.state = Pending
	return nil
}

// Finish moves pending -> idle. After a failed submit the draft stays editable.
func (s *Session[D]) Finish() {
	s.state = Idle
}

func (s *Session[D]) String() string {
	if s.mode == ModeEdit {
		return fmt.Sprintf("%s %s (%s)", s.mode, s.targetID, s.state)
	}
	return fmt.Sprintf("%s (%s)", s.mode, s.state)
}
