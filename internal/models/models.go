package models

import "github.com/shopspring/decimal"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Product mirrors the collaborator's product document. ID is empty until the
// collaborator has stored the product.
type Product struct {
	ID          string          `json:"_id,omitempty"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// User is an account as listed by the collaborator. Passwords are write-only and
// never decoded into this type.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type DailySales struct {
	Day   string          `json:"_id"`
	Total decimal.Decimal `json:"total"`
}

type CategorySales struct {
	Category string          `json:"_id"`
	Total    decimal.Decimal `json:"total"`
}

type TopCustomer struct {
	Customer   string          `json:"_id"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Orders     int             `json:"orders"`
}
