// Package receipt renders plain-text documents for 80mm receipt printers.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/pos80/internal/domain/model"
)

const (
	width      = 32
	dateLayout = "02/01/2006 15:04"
)

// Document is a titled text ready for a print sink.
type Document struct {
	Title string
	Body  string
}

// Renderer formats orders, closing reports and test pages.
type Renderer struct {
	header string
}

// NewRenderer returns a renderer printing header on top of every order receipt.
func NewRenderer(header string) *Renderer {
	if header == "" {
		header = "POS80"
	}
	return &Renderer{header: header}
}

// Order renders the kitchen/customer ticket of an order.
func (r *Renderer) Order(o model.Order, now time.Time) Document {
	var b strings.Builder
	b.WriteString(banner(r.header))
	fmt.Fprintf(&b, "Data: %s\n", now.Format(dateLayout))
	fmt.Fprintf(&b, "Codigo: %s\n", o.TrackingCode)
	fmt.Fprintf(&b, "Cliente: %s\n", o.CustomerName)
	if o.Phone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", o.Phone)
	}
	fmt.Fprintf(&b, "Tipo: %s\n", o.FulfillmentType)
	if o.FulfillmentType == model.FulfillmentDelivery {
		fmt.Fprintf(&b, "Endereco: %s\n", o.Address)
	}

	if len(o.LineItems) > 0 {
		b.WriteString("\nItens:\n")
		for _, li := range o.LineItems {
			fmt.Fprintf(&b, "- %dx %s %s\n", li.Quantity, li.Name, money(li.Subtotal()))
		}
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", money(o.Total))
	fmt.Fprintf(&b, "Pagamento: %s\n", o.PaymentMethod)
	if o.ChangeFor != nil {
		fmt.Fprintf(&b, "Troco para: %s\n", money(*o.ChangeFor))
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "Obs: %s\n", o.Notes)
	}
	b.WriteString(rule())

	return Document{Title: "Pedido " + o.TrackingCode, Body: b.String()}
}

// Closing renders the till closing summary.
func (r *Renderer) Closing(rep model.ReconciliationReport) Document {
	var b strings.Builder
	b.WriteString(banner("FECHAMENTO"))
	fmt.Fprintf(&b, "Aberto em: %s\n", stamp(rep.OpenedAt))
	fmt.Fprintf(&b, "Fechado em: %s\n", stamp(rep.ClosedAt))
	fmt.Fprintf(&b, "\nValor inicial: %s\n", money(rep.OpeningFloat))
	fmt.Fprintf(&b, "Total pedidos: %d\n", rep.OrderCount)
	fmt.Fprintf(&b, "Total geral: %s\n", money(rep.GrandTotal))
	b.WriteString("\nPor pagamento:\n")
	for _, method := range model.PaymentMethods {
		if total, ok := rep.ByPaymentMethod[method]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", method, money(total))
		}
	}
	b.WriteString(rule())
	fmt.Fprintf(&b, "Dinheiro em caixa: %s\n", money(rep.CashOnHand))
	b.WriteString(rule())

	return Document{Title: "Fechamento", Body: b.String()}
}

// TestPage renders the page sent by a printer test.
func (r *Renderer) TestPage(printer string, now time.Time) Document {
	var b strings.Builder
	b.WriteString(banner("TESTE DE IMPRESSAO"))
	fmt.Fprintf(&b, "Data: %s\n", now.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "Impressora: %s\n", printer)
	b.WriteString("Impressora funcionando corretamente!\n")
	b.WriteString(rule())
	return Document{Title: "Teste de impressao", Body: b.String()}
}

func banner(title string) string {
	title = " " + title + " "
	if len(title) >= width {
		return title + "\n"
	}
	pad := (width - len(title)) / 2
	return strings.Repeat("=", pad) + title + strings.Repeat("=", width-pad-len(title)) + "\n"
}

func rule() string {
	return strings.Repeat("=", width) + "\n"
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func stamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}
