package model

import "github.com/shopspring/decimal"

// Product is a catalog entry shown on the public menu.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageRef    string          `json:"imageRef,omitempty"`
}
