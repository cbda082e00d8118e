// Package view renders lists and dialogs as plain text.
package view

import (
	"fmt"
	"io"
	"path"
	"text/tabwriter"

	"github.com/Skotchmaster/shop_admin/internal/form"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// RoleBadge is green USER or red ADMIN. Unknown roles are printed as is.
func RoleBadge(r models.Role) string {
	switch r {
	case models.RoleAdmin:
		return ansiRed + "ADMIN" + ansiReset
	case models.RoleUser:
		return ansiGreen + "USER" + ansiReset
	default:
		return string(r)
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Products prints the catalog in list order. Rows are numbered from 1 so
// commands can refer to a row instead of an id.
func Products(w io.Writer, items []models.Product) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No products")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tTITLE\tPRICE\tCATEGORY\tIMAGE")
	for i, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, p.ID, p.Title, p.Price.StringFixed(2), p.Category, imageHint(p.Image))
	}
	return tw.Flush()
}

func Users(w io.Writer, items []models.User) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No users")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tNAME\tEMAIL\tROLE")
	for i, u := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, u.ID, u.Name, u.Email, RoleBadge(u.Role))
	}
	return tw.Flush()
}

func imageHint(url string) string {
	if url == "" {
		return "-"
	}
	return path.Base(url)
}

// ProductForm prints the open product dialog with flagged fields.
func ProductForm(w io.Writer, s *form.Session[*form.ProductDraft]) error {
	d := s.Draft()
	title := "Add product"
	if s.Mode() == form.ModeEdit {
		title = "Edit product " + s.TargetID()
	}
	return dialog(w, title, s.Pending(), s.Errors(), []field{
		{form.FieldTitle, d.Title},
		{form.FieldPrice, d.Price},
		{form.FieldDescription, d.Description},
		{form.FieldCategory, d.Category},
		{form.FieldImage, d.ImageLabel()},
	})
}

// UserForm never echoes the typed password.
func UserForm(w io.Writer, s *form.Session[*form.UserDraft]) error {
	d := s.Draft()
	title := "Add user"
	if s.Mode() == form.ModeEdit {
		title = "Edit user " + s.TargetID()
	}
	pw := ""
	if d.Password != "" {
		pw = "********"
	}
	return dialog(w, title, s.Pending(), s.Errors(), []field{
		{form.FieldName, d.Name},
		{form.FieldEmail, d.Email},
		{form.FieldPassword, pw},
		{form.FieldRole, RoleBadge(d.Role)},
	})
}

type field struct {
	name  string
	value string
}

func dialog(w io.Writer, title string, pending bool, errs form.FieldErrors, fields []field) error {
	if pending {
		title += " (saving...)"
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	tw := newTable(w)
	for _, f := range fields {
		line := fmt.Sprintf("  %s:\t%s", f.name, f.value)
		if msg, ok := errs[f.name]; ok {
			line += "\t! " + msg
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}
