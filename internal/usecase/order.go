package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/metrics"
	"github.com/polkiloo/pos80/internal/receipt"
)

const trackingCodeSpace = 10000

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	printer  PrintDispatcher
	renderer *receipt.Renderer
	metrics  *metrics.Metrics

	// createMu keeps tracking code assignment unique within the process.
	createMu sync.Mutex
	now      func() time.Time
	randIntN func(int) int
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository, printer PrintDispatcher, renderer *receipt.Renderer, m *metrics.Metrics) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		products: products,
		printer:  printer,
		renderer: renderer,
		metrics:  m,
		now:      time.Now,
		randIntN: rand.IntN,
	}
}

// Create validates input, snapshots catalog prices and stores the order.
// Counter sales skip acceptance and start in preparation.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	in.normalize()
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	items, err := u.snapshot(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	if in.ManualTotal != nil {
		total = *in.ManualTotal
	}
	if in.ChangeFor != nil && in.ChangeFor.LessThan(total) {
		return nil, domainErrors.Validation("changeFor", "must cover the order total")
	}

	status := model.StatusAwaitingAcceptance
	if in.Channel == model.ChannelCounter {
		status = model.StatusInPreparation
	}

	u.createMu.Lock()
	defer u.createMu.Unlock()

	code, err := u.nextTrackingCode(ctx)
	if err != nil {
		return nil, err
	}

	now := u.now()
	order := model.Order{
		ID:               uuid.NewString(),
		TrackingCode:     code,
		CustomerName:     in.CustomerName,
		Phone:            in.Phone,
		FulfillmentType:  in.FulfillmentType,
		PaymentMethod:    in.PaymentMethod,
		ChangeFor:        in.ChangeFor,
		ReceiptReference: in.ReceiptReference,
		LineItems:        items,
		Total:            total,
		Status:           status,
		Channel:          in.Channel,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.FulfillmentType == model.FulfillmentDelivery {
		order.Address = in.Address
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	u.metrics.OrderCreated(string(order.Channel))
	return &order, nil
}

func (u *OrderUseCase) snapshot(ctx context.Context, inputs []OrderItemInput) ([]model.LineItem, error) {
	items := make([]model.LineItem, 0, len(inputs))
	for i, in := range inputs {
		product, err := u.products.Get(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, domainErrors.Validation(fmt.Sprintf("items[%d].productId", i), fmt.Sprintf("unknown product %d", in.ProductID))
			}
			return nil, err
		}
		items = append(items, model.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  in.Quantity,
		})
	}
	return items, nil
}

// nextTrackingCode picks a random four digit code not held by an active order.
func (u *OrderUseCase) nextTrackingCode(ctx context.Context) (string, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if o.Active() {
			taken[o.TrackingCode] = struct{}{}
		}
	}
	start := u.randIntN(trackingCodeSpace)
	for i := 0; i < trackingCodeSpace; i++ {
		code := fmt.Sprintf("%04d", (start+i)%trackingCodeSpace)
		if _, used := taken[code]; !used {
			return code, nil
		}
	}
	return "", domainErrors.ErrTrackingExhausted
}

// Transition moves an order to target on behalf of actor.
func (u *OrderUseCase) Transition(ctx context.Context, id string, target model.OrderStatus, actor model.Actor) (*model.Order, error) {
	if !target.Valid() {
		return nil, domainErrors.Validation("status", fmt.Sprintf("unknown status %q", target))
	}
	order, err := u.orders.Update(ctx, id, func(o *model.Order) error {
		if !model.CanTransition(o.Status, target, o.FulfillmentType, actor.Role) {
			return &domainErrors.TransitionError{
				Current:   string(o.Status),
				Requested: string(target),
				Actor:     string(actor.Role),
			}
		}
		o.Status = target
		o.UpdatedAt = u.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.metrics.OrderTransitioned(string(target))
	return order, nil
}

// List returns orders passing filter, newest first.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainErrors.Validation("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if filter.Match(o) {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.Get(ctx, id)
}

// Delete removes an order regardless of its status.
func (u *OrderUseCase) Delete(ctx context.Context, id string) error {
	return u.orders.Delete(ctx, id)
}

// LookupByTrackingCode returns every order carrying code, newest first.
// Codes are reused once orders are delivered, so several matches are normal.
func (u *OrderUseCase) LookupByTrackingCode(ctx context.Context, code string) ([]model.Order, error) {
	code = strings.TrimSpace(code)
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Order{}
	for _, o := range orders {
		if code != "" && o.TrackingCode == code {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

// Edit updates contact details and notes. Items, total and status are fixed.
func (u *OrderUseCase) Edit(ctx context.Context, id string, patch model.OrderPatch) (*model.Order, error) {
	return u.orders.Update(ctx, id, func(o *model.Order) error {
		if patch.CustomerName != nil {
			name := strings.TrimSpace(*patch.CustomerName)
			if name == "" {
				return domainErrors.Validation("customerName", "must not be empty")
			}
			o.CustomerName = name
		}
		if patch.Phone != nil {
			o.Phone = strings.TrimSpace(*patch.Phone)
		}
		if patch.Address != nil {
			o.Address = strings.TrimSpace(*patch.Address)
		}
		if patch.Notes != nil {
			o.Notes = strings.TrimSpace(*patch.Notes)
		}
		if o.FulfillmentType == model.FulfillmentDelivery && o.Address == "" {
			return domainErrors.Validation("address", "required for delivery")
		}
		o.UpdatedAt = u.now()
		return nil
	})
}

// KitchenQueue lists orders waiting for or in preparation, oldest first.
func (u *OrderUseCase) KitchenQueue(ctx context.Context) ([]model.Order, error) {
	return u.queue(ctx, func(o model.Order) bool {
		return o.Status == model.StatusAwaitingAcceptance || o.Status == model.StatusInPreparation
	})
}

// DeliveryQueue lists delivery orders on the road, oldest first.
func (u *OrderUseCase) DeliveryQueue(ctx context.Context) ([]model.Order, error) {
	return u.queue(ctx, func(o model.Order) bool {
		return o.FulfillmentType == model.FulfillmentDelivery && o.Status == model.StatusOutForDelivery
	})
}

func (u *OrderUseCase) queue(ctx context.Context, keep func(model.Order) bool) ([]model.Order, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Receipt renders the ticket of an order.
func (u *OrderUseCase) Receipt(ctx context.Context, id string) (receipt.Document, error) {
	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return receipt.Document{}, err
	}
	return u.renderer.Order(*order, u.now()), nil
}

// Print sends the ticket of an order to the default printer. A returned
// *errors.PrintError is a warning: the order is unaffected.
func (u *OrderUseCase) Print(ctx context.Context, id string) (model.PrintAck, error) {
	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return model.PrintAck{}, err
	}
	return u.PrintTicket(ctx, *order)
}

// PrintTicket renders order and sends it to the default printer.
func (u *OrderUseCase) PrintTicket(ctx context.Context, order model.Order) (model.PrintAck, error) {
	doc := u.renderer.Order(order, u.now())
	return u.printer.Print(ctx, doc.Title, doc.Body)
}

// Undispatched returns orders whose ticket was never printed, oldest first.
func (u *OrderUseCase) Undispatched(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.ListUndispatched(ctx, limit)
}

// MarkDispatched durably records that the ticket of order id was printed.
func (u *OrderUseCase) MarkDispatched(ctx context.Context, id string) error {
	return u.orders.MarkDispatched(ctx, id, u.now())
}

func newestFirst(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}
