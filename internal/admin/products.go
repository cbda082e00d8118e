// Package admin binds the generic controller to the product and user screens.
package admin

import (
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/apiclient"
	"github.com/Skotchmaster/shop_admin/internal/crud"
	"github.com/Skotchmaster/shop_admin/internal/form"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

type (
	ProductController = crud.Controller[models.Product, *form.ProductDraft, apiclient.ProductPayload]
	ProductRemote     = crud.Remote[models.Product, apiclient.ProductPayload]
	ProductSession    = form.Session[*form.ProductDraft]
)

var productMessages = crud.Messages{
	LoadFailed:    "Error fetching products",
	Created:       "Product created!",
	Updated:       "Product updated!",
	SaveFailed:    "Save failed",
	ConfirmDelete: "Delete this product?",
	Deleted:       "Deleted!",
	DeleteFailed:  "Delete failed",
}

type productKind struct{}

func (productKind) Name() string { return "product" }

func (productKind) ID(p models.Product) string { return p.ID }

func (productKind) Blank() *form.ProductDraft { return form.NewProductDraft() }

func (productKind) DraftOf(p models.Product) *form.ProductDraft { return form.ProductDraftFrom(p) }

func (productKind) Messages() crud.Messages { return productMessages }

func (productKind) Payload(d *form.ProductDraft) (apiclient.ProductPayload, error) {
	price, err := d.ParsedPrice()
	if err != nil {
		return apiclient.ProductPayload{}, err
	}
	p := apiclient.ProductPayload{
		Title:       strings.TrimSpace(d.Title),
		Price:       price,
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
	}
	if d.Image != nil {
		p.Image = &apiclient.File{Name: d.Image.Name, Content: d.Image.Content}
	}
	return p, nil
}

func NewProducts(remote ProductRemote, deps crud.Deps) *ProductController {
	return crud.New[models.Product, *form.ProductDraft, apiclient.ProductPayload](productKind{}, remote, deps)
}
