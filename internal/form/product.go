package form

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

const (
	FieldTitle       = "title"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldImage       = "image"
)

// Attachment is a file chosen in the dialog. Content is read once when the
// file is chosen so a retried submit sends the same bytes.
type Attachment struct {
	Name    string
	Content []byte
}

// ProductDraft keeps price as typed text; it is only parsed on validation.
type ProductDraft struct {
	Title       string
	Price       string
	Description string
	Category    string

	Image        *Attachment
	CurrentImage string
}

func NewProductDraft() *ProductDraft { return &ProductDraft{} }

func ProductDraftFrom(p models.Product) *ProductDraft {
	return &ProductDraft{
		Title:        p.Title,
		Price:        p.Price.String(),
		Description:  p.Description,
		Category:     p.Category,
		CurrentImage: p.Image,
	}
}

func (d *ProductDraft) Set(field, value string) error {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldPrice:
		d.Price = value
	case FieldDescription:
		d.Description = value
	case FieldCategory:
		d.Category = value
	default:
		return fmt.Errorf("product %q: %w", field, ErrUnknownField)
	}
	return nil
}

// Attach reads r fully and replaces any previously chosen file.
func (d *ProductDraft) Attach(name string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read attachment %s: %w", name, err)
	}
	d.Image = &Attachment{Name: path.Base(name), Content: b}
	return nil
}

func (d *ProductDraft) Detach() { d.Image = nil }

// ImageLabel is the file hint shown on the upload button.
func (d *ProductDraft) ImageLabel() string {
	switch {
	case d.Image != nil:
		return d.Image.Name
	case d.CurrentImage != "":
		name := path.Base(d.CurrentImage)
		if len(name) > 20 {
			name = name[:20]
		}
		return "Current file: " + name
	default:
		return "No file chosen"
	}
}

func (d *ProductDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if isBlank(d.Title) {
		errs[FieldTitle] = "Title is required"
	}
	if _, msg := parsePrice(d.Price); msg != "" {
		errs[FieldPrice] = msg
	}
	if isBlank(d.Description) {
		errs[FieldDescription] = "Description required"
	}
	if isBlank(d.Category) {
		errs[FieldCategory] = "Category required"
	}
	return errs
}

// ParsedPrice returns the validated price.
func (d *ProductDraft) ParsedPrice() (decimal.Decimal, error) {
	p, msg := parsePrice(d.Price)
	if msg != "" {
		return decimal.Zero, &ValidationError{Fields: FieldErrors{FieldPrice: msg}}
	}
	return p, nil
}

func parsePrice(s string) (decimal.Decimal, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, "Price is required"
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, "Price must be a number"
	}
	if p.IsNegative() {
		return decimal.Zero, "Price cannot be negative"
	}
	return p, ""
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
