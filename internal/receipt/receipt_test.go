package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/polkiloo/pos80/internal/domain/model"
)

func TestOrderReceipt(t *testing.T) {
	change := decimal.RequireFromString("50")
	order := model.Order{
		TrackingCode:    "4821",
		CustomerName:    "Ana",
		Phone:           "555-0101",
		FulfillmentType: model.FulfillmentDelivery,
		Address:         "Rua A, 1",
		PaymentMethod:   model.PaymentCash,
		ChangeFor:       &change,
		LineItems: []model.LineItem{
			{Name: "X-Burger", UnitPrice: decimal.RequireFromString("12.00"), Quantity: 2},
			{Name: "Soda", UnitPrice: decimal.RequireFromString("7.00"), Quantity: 1},
		},
		Total: decimal.RequireFromString("31.00"),
		Notes: "sem cebola",
	}
	now := time.Date(2026, 10, 17, 19, 5, 0, 0, time.UTC)

	doc := NewRenderer("THE RUA").Order(order, now)

	assert.Equal(t, "Pedido 4821", doc.Title)
	assert.Contains(t, doc.Body, "THE RUA")
	assert.Contains(t, doc.Body, "Data: 17/10/2026 19:05")
	assert.Contains(t, doc.Body, "Endereco: Rua A, 1")
	assert.Contains(t, doc.Body, "- 2x X-Burger R$ 24.00")
	assert.Contains(t, doc.Body, "- 1x Soda R$ 7.00")
	assert.Contains(t, doc.Body, "Total: R$ 31.00")
	assert.Contains(t, doc.Body, "Troco para: R$ 50.00")
	assert.Contains(t, doc.Body, "Obs: sem cebola")
}

func TestOrderReceiptOmitsOptionalLines(t *testing.T) {
	order := model.Order{
		TrackingCode:    "0001",
		CustomerName:    "Balcao",
		FulfillmentType: model.FulfillmentDineIn,
		PaymentMethod:   model.PaymentCard,
		Total:           decimal.RequireFromString("15"),
	}
	doc := NewRenderer("").Order(order, time.Now())

	assert.Contains(t, doc.Body, "POS80")
	assert.NotContains(t, doc.Body, "Endereco")
	assert.NotContains(t, doc.Body, "Itens")
	assert.NotContains(t, doc.Body, "Troco")
	assert.NotContains(t, doc.Body, "Telefone")
}

func TestClosingReport(t *testing.T) {
	opened := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	closed := opened.Add(12 * time.Hour)
	rep := model.ReconciliationReport{
		OrderCount: 3,
		ByPaymentMethod: map[model.PaymentMethod]decimal.Decimal{
			model.PaymentPix:  decimal.RequireFromString("15"),
			model.PaymentCash: decimal.RequireFromString("30"),
		},
		GrandTotal:   decimal.RequireFromString("45"),
		OpeningFloat: decimal.RequireFromString("50"),
		CashOnHand:   decimal.RequireFromString("80"),
		OpenedAt:     &opened,
		ClosedAt:     &closed,
	}

	doc := NewRenderer("").Closing(rep)

	assert.Equal(t, "Fechamento", doc.Title)
	assert.Contains(t, doc.Body, "Total pedidos: 3")
	assert.Contains(t, doc.Body, "Total geral: R$ 45.00")
	assert.Contains(t, doc.Body, "Dinheiro em caixa: R$ 80.00")
	assert.Less(t, strings.Index(doc.Body, "- Cash"), strings.Index(doc.Body, "- Pix"), "methods follow report order")
	assert.Contains(t, doc.Body, "Fechado em: 17/10/2026 20:00")
}

func TestTestPage(t *testing.T) {
	doc := NewRenderer("").TestPage("Cozinha", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Contains(t, doc.Body, "Impressora: Cozinha")
	assert.Contains(t, doc.Body, "02/01/2026 03:04:05")
}

func TestBannerWidth(t *testing.T) {
	assert.Len(t, strings.TrimSuffix(banner("X"), "\n"), width)
	long := strings.Repeat("Y", 40)
	assert.Contains(t, banner(long), long)
}
