package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
)

// OrderItemInput references a catalog product and a quantity.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries a new order from the public menu or the counter.
type CreateOrderInput struct {
	CustomerName     string
	Phone            string
	FulfillmentType  model.FulfillmentType
	Address          string
	PaymentMethod    model.PaymentMethod
	ChangeFor        *decimal.Decimal
	ReceiptReference string
	Items            []OrderItemInput
	Notes            string
	Channel          model.Channel
	// ManualTotal is accepted only for counter sales.
	ManualTotal *decimal.Decimal
}

func (in *CreateOrderInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Notes = strings.TrimSpace(in.Notes)
	in.ReceiptReference = strings.TrimSpace(in.ReceiptReference)
	if in.Channel == "" {
		in.Channel = model.ChannelCustomer
	}
	if in.PaymentMethod != model.PaymentCash {
		in.ChangeFor = nil
	}
}

func validateOrderInput(in CreateOrderInput) error {
	if in.CustomerName == "" {
		return domainErrors.Validation("customerName", "must not be empty")
	}
	if in.Channel != model.ChannelCustomer && in.Channel != model.ChannelCounter {
		return domainErrors.Validation("channel", fmt.Sprintf("unknown channel %q", in.Channel))
	}
	if in.Channel == model.ChannelCustomer && in.Phone == "" {
		return domainErrors.Validation("phone", "must not be empty")
	}
	if !in.FulfillmentType.Valid() {
		return domainErrors.Validation("fulfillmentType", fmt.Sprintf("unknown type %q", in.FulfillmentType))
	}
	if in.FulfillmentType == model.FulfillmentDelivery && in.Address == "" {
		return domainErrors.Validation("address", "required for delivery")
	}
	if !in.PaymentMethod.Valid() {
		return domainErrors.Validation("paymentMethod", fmt.Sprintf("unknown method %q", in.PaymentMethod))
	}
	if in.ChangeFor != nil && in.ChangeFor.IsNegative() {
		return domainErrors.Validation("changeFor", "must not be negative")
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return domainErrors.Validation(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}
	}
	if in.ManualTotal != nil {
		if in.Channel != model.ChannelCounter {
			return domainErrors.Validation("total", "manual total is only accepted at the counter")
		}
		if !in.ManualTotal.IsPositive() {
			return domainErrors.Validation("total", "must be positive")
		}
	}
	if len(in.Items) == 0 && in.ManualTotal == nil {
		return domainErrors.Validation("items", "at least one item is required")
	}
	return nil
}

func validateProduct(p model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domainErrors.Validation("name", "must not be empty")
	}
	if !p.Price.IsPositive() {
		return domainErrors.Validation("price", "must be positive")
	}
	return nil
}

func validatePrinter(p model.Printer) error {
	if strings.TrimSpace(p.Name) == "" {
		return domainErrors.Validation("name", "must not be empty")
	}
	if !p.ConnectionType.Valid() {
		return domainErrors.Validation("connectionType", fmt.Sprintf("unknown type %q", p.ConnectionType))
	}
	return nil
}
