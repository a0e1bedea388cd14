package dto

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// PrintResponse reports a print dispatch. A sink failure is a warning.
type PrintResponse struct {
	Ack          *model.PrintAck `json:"ack,omitempty"`
	PrintWarning string          `json:"printWarning,omitempty"`
}

// ProductRequest creates or replaces a catalog product.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageRef    string          `json:"imageRef"`
}

// PrinterRequest creates or replaces a printer.
type PrinterRequest struct {
	Name           string `json:"name"`
	ConnectionType string `json:"connectionType"`
	Address        string `json:"address"`
}
