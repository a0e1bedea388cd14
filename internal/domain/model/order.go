package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FulfillmentType describes how the customer receives the order.
type FulfillmentType string

const (
	FulfillmentDineIn   FulfillmentType = "DineIn"
	FulfillmentPickup   FulfillmentType = "Pickup"
	FulfillmentDelivery FulfillmentType = "Delivery"
)

// Valid reports whether f is a known fulfillment type.
func (f FulfillmentType) Valid() bool {
	switch f {
	case FulfillmentDineIn, FulfillmentPickup, FulfillmentDelivery:
		return true
	}
	return false
}

// PaymentMethod describes how the order is paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Cash"
	PaymentCard     PaymentMethod = "Card"
	PaymentPix      PaymentMethod = "Pix"
	PaymentTransfer PaymentMethod = "Transfer"
)

// PaymentMethods lists methods in report order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentPix, PaymentTransfer}

// Valid reports whether p is a known payment method.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentPix, PaymentTransfer:
		return true
	}
	return false
}

// Channel identifies the entry point an order was created through.
type Channel string

const (
	ChannelCustomer Channel = "customer"
	ChannelCounter  Channel = "counter"
)

// LineItem is a price snapshot of a catalog product at order time.
type LineItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order is a customer order tracked from creation to delivery.
type Order struct {
	ID               string           `json:"id"`
	TrackingCode     string           `json:"trackingCode"`
	CustomerName     string           `json:"customerName"`
	Phone            string           `json:"phone"`
	FulfillmentType  FulfillmentType  `json:"fulfillmentType"`
	Address          string           `json:"address,omitempty"`
	PaymentMethod    PaymentMethod    `json:"paymentMethod"`
	ChangeFor        *decimal.Decimal `json:"changeFor,omitempty"`
	ReceiptReference string           `json:"receiptReference,omitempty"`
	LineItems        []LineItem       `json:"lineItems"`
	Total            decimal.Decimal  `json:"total"`
	Status           OrderStatus      `json:"status"`
	Channel          Channel          `json:"channel"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	DispatchedAt     *time.Time       `json:"dispatchedAt,omitempty"`
}

// Active reports whether the order has not reached a terminal status.
func (o Order) Active() bool {
	return o.Status != StatusDelivered
}

// OrderPatch carries the fields staff may edit after creation.
type OrderPatch struct {
	CustomerName *string
	Phone        *string
	Address      *string
	Notes        *string
}

// OrderFilter selects orders by status. Empty Status means all.
type OrderFilter struct {
	Status OrderStatus
}

// Match reports whether o passes the filter.
func (f OrderFilter) Match(o Order) bool {
	return f.Status == "" || o.Status == f.Status
}
