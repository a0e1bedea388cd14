package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest selects a catalog product and quantity.
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest is the checkout payload. Total is honoured only on the
// counter endpoint.
type CreateOrderRequest struct {
	CustomerName     string             `json:"customerName"`
	Phone            string             `json:"phone"`
	FulfillmentType  string             `json:"fulfillmentType"`
	Address          string             `json:"address"`
	PaymentMethod    string             `json:"paymentMethod"`
	ChangeFor        *decimal.Decimal   `json:"changeFor"`
	ReceiptReference string             `json:"receiptReference"`
	Items            []OrderItemRequest `json:"items"`
	Notes            string             `json:"notes"`
	Total            *decimal.Decimal   `json:"total"`
}

// EditOrderRequest lists editable order fields; absent fields are kept.
type EditOrderRequest struct {
	CustomerName *string `json:"customerName"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

// StatusRequest asks for a status transition.
type StatusRequest struct {
	Status string `json:"status"`
}

// TrackResponse is the public view of an order looked up by tracking code.
type TrackResponse struct {
	TrackingCode    string    `json:"trackingCode"`
	CustomerName    string    `json:"customerName"`
	FulfillmentType string    `json:"fulfillmentType"`
	Status          string    `json:"status"`
	Steps           []string  `json:"steps"`
	Progress        float64   `json:"progress"`
	Total           string    `json:"total"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ReceiptResponse is a rendered ticket.
type ReceiptResponse struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
