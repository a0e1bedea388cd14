package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TillSession is the cash register state. At most one session is open.
type TillSession struct {
	IsOpen       bool            `json:"isOpen"`
	OpenedAt     *time.Time      `json:"openedAt"`
	ClosedAt     *time.Time      `json:"closedAt"`
	OpeningFloat decimal.Decimal `json:"openingFloat"`
}

// ReportScope selects which orders a reconciliation covers.
type ReportScope string

const (
	// ScopeAll covers every order in the store.
	ScopeAll ReportScope = "all"
	// ScopeSession covers orders created at or after the session opened.
	ScopeSession ReportScope = "session"
)

// ReconciliationReport summarises sales by payment method at till close.
type ReconciliationReport struct {
	OrderCount      int                               `json:"orderCount"`
	ByPaymentMethod map[PaymentMethod]decimal.Decimal `json:"byPaymentMethod"`
	GrandTotal      decimal.Decimal                   `json:"grandTotal"`
	OpeningFloat    decimal.Decimal                   `json:"openingFloat"`
	CashOnHand      decimal.Decimal                   `json:"cashOnHand"`
	OpenedAt        *time.Time                        `json:"openedAt"`
	ClosedAt        *time.Time                        `json:"closedAt"`
	GeneratedAt     time.Time                         `json:"generatedAt"`
}

// Reconcile builds the report for the given session over orders.
func Reconcile(session TillSession, orders []Order, now time.Time) ReconciliationReport {
	report := ReconciliationReport{
		OrderCount:      len(orders),
		ByPaymentMethod: make(map[PaymentMethod]decimal.Decimal),
		GrandTotal:      decimal.Zero,
		OpeningFloat:    session.OpeningFloat,
		OpenedAt:        session.OpenedAt,
		ClosedAt:        session.ClosedAt,
		GeneratedAt:     now,
	}
	for _, o := range orders {
		report.ByPaymentMethod[o.PaymentMethod] = report.ByPaymentMethod[o.PaymentMethod].Add(o.Total)
		report.GrandTotal = report.GrandTotal.Add(o.Total)
	}
	report.CashOnHand = session.OpeningFloat.Add(report.ByPaymentMethod[PaymentCash])
	return report
}
