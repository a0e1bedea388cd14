package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesFilter narrows a sales report. Zero dates are unbounded; To is inclusive by day.
type SalesFilter struct {
	From   time.Time
	To     time.Time
	Status OrderStatus
}

// DayTotal is the sales total of one calendar day.
type DayTotal struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// SalesSummary aggregates orders over a period.
type SalesSummary struct {
	OrderCount       int                               `json:"orderCount"`
	TotalSales       decimal.Decimal                   `json:"totalSales"`
	AverageTicket    decimal.Decimal                   `json:"averageTicket"`
	MostCommonStatus OrderStatus                       `json:"mostCommonStatus,omitempty"`
	ByDay            []DayTotal                        `json:"byDay"`
	ByPaymentMethod  map[PaymentMethod]decimal.Decimal `json:"byPaymentMethod"`
	Orders           []Order                           `json:"orders"`
}

// Dashboard counts orders per status and lists the most recent ones.
type Dashboard struct {
	StatusCounts map[OrderStatus]int `json:"statusCounts"`
	Recent       []Order             `json:"recent"`
}
