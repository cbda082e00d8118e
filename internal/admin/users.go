package admin

import (
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/apiclient"
	"github.com/Skotchmaster/shop_admin/internal/crud"
	"github.com/Skotchmaster/shop_admin/internal/form"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

type (
	UserController = crud.Controller[models.User, *form.UserDraft, apiclient.UserPayload]
	UserRemote     = crud.Remote[models.User, apiclient.UserPayload]
	UserSession    = form.Session[*form.UserDraft]
)

var userMessages = crud.Messages{
	LoadFailed:    "Error fetching users",
	Created:       "User created!",
	Updated:       "User updated!",
	SaveFailed:    "Save failed",
	ConfirmDelete: "Are you sure you want to delete this user?",
	Deleted:       "Deleted!",
	DeleteFailed:  "Delete failed",
}

type userKind struct{}

func (userKind) Name() string { return "user" }

func (userKind) ID(u models.User) string { return u.ID }

func (userKind) Blank() *form.UserDraft { return form.NewUserDraft() }

func (userKind) DraftOf(u models.User) *form.UserDraft { return form.UserDraftFrom(u) }

func (userKind) Messages() crud.Messages { return userMessages }

// Payload carries the password only when one was typed.
func (userKind) Payload(d *form.UserDraft) (apiclient.UserPayload, error) {
	return apiclient.UserPayload{
		Name:     strings.TrimSpace(d.Name),
		Email:    strings.TrimSpace(d.Email),
		Password: d.Password,
		Role:     d.Role,
	}, nil
}

func NewUsers(remote UserRemote, deps crud.Deps) *UserController {
	return crud.New[models.User, *form.UserDraft, apiclient.UserPayload](userKind{}, remote, deps)
}
