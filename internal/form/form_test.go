package form

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

func validProduct() *ProductDraft {
	return &ProductDraft{Title: "Pen", Price: "10", Description: "Blue pen", Category: "Stationery"}
}

func TestProductDraft_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(d *ProductDraft)
		field  string
		msg    string
	}{
		{name: "empty title", mutate: func(d *ProductDraft) { d.Title = "" }, field: FieldTitle, msg: "Title is required"},
		{name: "blank title", mutate: func(d *ProductDraft) { d.Title = "   " }, field: FieldTitle, msg: "Title is required"},
		{name: "empty price", mutate: func(d *ProductDraft) { d.Price = "" }, field: FieldPrice, msg: "Price is required"},
		{name: "non numeric price", mutate: func(d *ProductDraft) { d.Price = "ten" }, field: FieldPrice, msg: "Price must be a number"},
		{name: "negative price", mutate: func(d *ProductDraft) { d.Price = "-0.01" }, field: FieldPrice, msg: "Price cannot be negative"},
		{name: "empty description", mutate: func(d *ProductDraft) { d.Description = "" }, field: FieldDescription, msg: "Description required"},
		{name: "empty category", mutate: func(d *ProductDraft) { d.Category = "" }, field: FieldCategory, msg: "Category required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := validProduct()
			tt.mutate(d)
			errs := d.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestProductDraft_ValidPrices(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"0", "10", " 2.50 ", "1e2"} {
		d := validProduct()
		d.Price = p
		assert.Empty(t, d.Validate(), p)
	}

	d := validProduct()
	d.Price = "2.50"
	got, err := d.ParsedPrice()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.5").Equal(got))
}

func TestProductDraft_ParsedPriceRejectsInvalid(t *testing.T) {
	t.Parallel()

	d := validProduct()
	d.Price = "-1"
	_, err := d.ParsedPrice()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductDraftFrom_KeepsCurrentImage(t *testing.T) {
	t.Parallel()

	d := ProductDraftFrom(models.Product{
		ID: "p1", Title: "Pen", Price: decimal.NewFromInt(10), Image: "http://cdn.test/uploads/1712345678901-blue-pen-large.png",
	})
	assert.Equal(t, "10", d.Price)
	assert.Nil(t, d.Image)
	assert.Equal(t, "Current file: 1712345678901-blue-p", d.ImageLabel())

	require.NoError(t, d.Attach("/tmp/new.png", strings.NewReader("png")))
	assert.Equal(t, "new.png", d.ImageLabel())
	assert.Equal(t, []byte("png"), d.Image.Content)

	d.Detach()
	assert.Nil(t, d.Image)
	assert.Equal(t, "No file chosen", NewProductDraft().ImageLabel())
}

func TestProductDraft_SetUnknownField(t *testing.T) {
	t.Parallel()

	err := NewProductDraft().Set("colour", "red")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestUserDraft_Validate(t *testing.T) {
	t.Parallel()

	d := NewUserDraft()
	errs := d.Validate()
	assert.Equal(t, "Name is required", errs[FieldName])
	assert.Equal(t, "Email is required", errs[FieldEmail])
	assert.NotContains(t, errs, FieldRole)
	assert.NotContains(t, errs, FieldPassword)

	require.NoError(t, d.Set(FieldName, "Ann"))
	require.NoError(t, d.Set(FieldEmail, "ann@shop.test"))
	require.NoError(t, d.Set(FieldRole, "owner"))
	errs = d.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "Role must be user or admin", errs[FieldRole])
}

func TestUserDraftFrom_BlanksPassword(t *testing.T) {
	t.Parallel()

	d := UserDraftFrom(models.User{ID: "u1", Name: "Ann", Email: "a@x", Role: models.RoleAdmin})
	assert.Empty(t, d.Password)
	assert.Equal(t, models.RoleAdmin, d.Role)
	assert.Equal(t, models.RoleUser, NewUserDraft().Role)
}

func TestSession_ValidateFlagsAndSetClears(t *testing.T) {
	t.Parallel()

	s := NewCreate(NewProductDraft())
	assert.Equal(t, ModeCreate, s.Mode())
	assert.Empty(t, s.TargetID())

	err := s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 4)
	assert.Equal(t, "Title is required", s.FieldError(FieldTitle))

	require.NoError(t, s.Set(FieldTitle, "Pen"))
	assert.Empty(t, s.FieldError(FieldTitle))
	assert.Len(t, s.Errors(), 3)
	assert.Equal(t, "Pen", s.Draft().Title)
}

func TestSession_ErrorsIsACopy(t *testing.T) {
	t.Parallel()

	s := NewCreate(NewUserDraft())
	_ = s.Validate()
	errs := s.Errors()
	delete(errs, FieldName)
	assert.NotEmpty(t, s.FieldError(FieldName))
}

func TestSession_BeginRejectsSecondSubmit(t *testing.T) {
	t.Parallel()

	s := NewEdit("u1", NewUserDraft())
	assert.Equal(t, ModeEdit, s.Mode())
	assert.Equal(t, "u1", s.TargetID())

	require.NoError(t, s.Begin())
	assert.True(t, s.Pending())
	assert.ErrorIs(t, s.Begin(), ErrPending)

	s.Finish()
	assert.Equal(t, Idle, s.State())
	assert.NoError(t, s.Begin())
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: FieldErrors{FieldTitle: "Title is required", FieldPrice: "Price is required"}}
	assert.Equal(t, "validation failed: price: Price is required; title: Title is required", err.Error())
}
