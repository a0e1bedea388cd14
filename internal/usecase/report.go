package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
)

const (
	dayLayout       = "2006-01-02"
	dashboardRecent = 10
)

var salesCSVHeader = []string{"id", "trackingCode", "createdAt", "customerName", "fulfillmentType", "paymentMethod", "status", "total"}

// ReportUseCase aggregates orders for the reports page and dashboard.
type ReportUseCase struct {
	orders repository.OrderRepository
}

// NewReportUseCase constructs ReportUseCase.
func NewReportUseCase(orders repository.OrderRepository) *ReportUseCase {
	return &ReportUseCase{orders: orders}
}

// Sales summarises orders matching filter. Orders are newest first and days
// oldest first.
func (u *ReportUseCase) Sales(ctx context.Context, filter model.SalesFilter) (model.SalesSummary, error) {
	orders, err := u.filter(ctx, filter)
	if err != nil {
		return model.SalesSummary{}, err
	}

	summary := model.SalesSummary{
		OrderCount:      len(orders),
		TotalSales:      decimal.Zero,
		AverageTicket:   decimal.Zero,
		ByDay:           []model.DayTotal{},
		ByPaymentMethod: make(map[model.PaymentMethod]decimal.Decimal),
		Orders:          orders,
	}

	byDay := make(map[string]decimal.Decimal)
	statusCount := make(map[model.OrderStatus]int)
	for _, o := range orders {
		summary.TotalSales = summary.TotalSales.Add(o.Total)
		summary.ByPaymentMethod[o.PaymentMethod] = summary.ByPaymentMethod[o.PaymentMethod].Add(o.Total)
		day := o.CreatedAt.Format(dayLayout)
		byDay[day] = byDay[day].Add(o.Total)
		statusCount[o.Status]++
	}

	if len(orders) > 0 {
		summary.AverageTicket = summary.TotalSales.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}

	best := 0
	for _, s := range model.Statuses {
		if statusCount[s] > best {
			best = statusCount[s]
			summary.MostCommonStatus = s
		}
	}

	for day, total := range byDay {
		summary.ByDay = append(summary.ByDay, model.DayTotal{Day: day, Total: total})
	}
	sort.Slice(summary.ByDay, func(i, j int) bool { return summary.ByDay[i].Day < summary.ByDay[j].Day })

	return summary, nil
}

// SalesCSV writes the orders matching filter as CSV, newest first.
func (u *ReportUseCase) SalesCSV(ctx context.Context, filter model.SalesFilter, w io.Writer) error {
	orders, err := u.filter(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(salesCSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		record := []string{
			o.ID,
			o.TrackingCode,
			o.CreatedAt.Format(time.RFC3339),
			o.CustomerName,
			string(o.FulfillmentType),
			string(o.PaymentMethod),
			string(o.Status),
			o.Total.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Dashboard counts orders per status and returns the most recent ones.
func (u *ReportUseCase) Dashboard(ctx context.Context) (model.Dashboard, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	dash := model.Dashboard{StatusCounts: make(map[model.OrderStatus]int, len(model.Statuses))}
	for _, s := range model.Statuses {
		dash.StatusCounts[s] = 0
	}
	for _, o := range orders {
		dash.StatusCounts[o.Status]++
	}
	newestFirst(orders)
	if len(orders) > dashboardRecent {
		orders = orders[:dashboardRecent]
	}
	dash.Recent = orders
	return dash, nil
}

func (u *ReportUseCase) filter(ctx context.Context, f model.SalesFilter) ([]model.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domainErrors.Validation("status", fmt.Sprintf("unknown status %q", f.Status))
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, domainErrors.Validation("to", "must not be before from")
	}

	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	var until time.Time
	if !f.To.IsZero() {
		y, m, d := f.To.Date()
		until = time.Date(y, m, d+1, 0, 0, 0, 0, f.To.Location())
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
			continue
		}
		if !until.IsZero() && !o.CreatedAt.Before(until) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	newestFirst(out)
	return out, nil
}
