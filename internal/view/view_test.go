package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/form"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

func TestRoleBadge(t *testing.T) {
	assert.Equal(t, "\x1b[32mUSER\x1b[0m", RoleBadge(models.RoleUser))
	assert.Equal(t, "\x1b[31mADMIN\x1b[0m", RoleBadge(models.RoleAdmin))
	assert.Equal(t, "root", RoleBadge("root"))
}

func TestProducts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Products(&buf, []models.Product{
		{ID: "p1", Title: "Pen", Price: decimal.NewFromInt(10), Category: "Stationery"},
		{ID: "p2", Title: "Mug", Price: decimal.RequireFromString("6.5"), Category: "Kitchen", Image: "/uploads/p2-mug.png"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "Pen")
	assert.Contains(t, lines[1], "10.00")
	assert.True(t, strings.HasSuffix(lines[1], "-"))
	assert.Contains(t, lines[2], "6.50")
	assert.True(t, strings.HasSuffix(lines[2], "p2-mug.png"))
}

func TestEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Products(&buf, nil))
	require.NoError(t, Users(&buf, []models.User{}))
	assert.Equal(t, "No products\nNo users\n", buf.String())
}

func TestUsers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, []models.User{
		{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: models.RoleAdmin},
	}))
	assert.Contains(t, buf.String(), "ann@example.com")
	assert.Contains(t, buf.String(), RoleBadge(models.RoleAdmin))
}

func TestProductForm_ShowsErrorsAndImageHint(t *testing.T) {
	s := form.NewEdit("p1", form.ProductDraftFrom(models.Product{
		ID: "p1", Title: "", Price: decimal.NewFromInt(1), Image: "/uploads/a-very-long-image-file-name.png",
	}))
	require.Error(t, s.Validate())

	var buf bytes.Buffer
	require.NoError(t, ProductForm(&buf, s))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Edit product p1\n"))
	assert.Contains(t, out, "! Title is required")
	assert.Contains(t, out, "Current file: a-very-long-image-fi")
}

func TestUserForm_HidesPassword(t *testing.T) {
	d := form.NewUserDraft()
	d.Password = "hunter2"
	s := form.NewCreate(d)
	require.NoError(t, s.Begin())

	var buf bytes.Buffer
	require.NoError(t, UserForm(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "Add user (saving...)")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, RoleBadge(models.RoleUser))
}
