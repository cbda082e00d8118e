package form

import (
	"fmt"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
)

type UserDraft struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

func NewUserDraft() *UserDraft { return &UserDraft{Role: models.RoleUser} }

// UserDraftFrom prefills an edit dialog. The password always starts blank;
// leaving it blank keeps the stored one.
func UserDraftFrom(u models.User) *UserDraft {
	return &UserDraft{Name: u.Name, Email: u.Email, Role: u.Role}
}

func (d *UserDraft) Set(field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPassword:
		d.Password = value
	case FieldRole:
		d.Role = models.Role(value)
	default:
		return fmt.Errorf("user %q: %w", field, ErrUnknownField)
	}
	return nil
}

func (d *UserDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if isBlank(d.Name) {
		errs[FieldName] = "Name is required"
	}
	if isBlank(d.Email) {
		errs[FieldEmail] = "Email is required"
	}
	if !d.Role.Valid() {
		errs[FieldRole] = "Role must be user or admin"
	}
	return errs
}
