package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/test"
)

func seededReports(t *testing.T) (*ReportUseCase, *test.OrderRepositoryStub) {
	t.Helper()
	repo := test.NewOrderRepositoryStub()
	day1 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	for _, o := range []model.Order{
		{ID: "a", CustomerName: "Ana", PaymentMethod: model.PaymentCash, Total: dec("20"), Status: model.StatusDelivered, CreatedAt: day1},
		{ID: "b", CustomerName: "Bia", PaymentMethod: model.PaymentPix, Total: dec("15"), Status: model.StatusDelivered, CreatedAt: day1.Add(time.Hour)},
		{ID: "c", CustomerName: "Caio, Jr", PaymentMethod: model.PaymentCash, Total: dec("10"), Status: model.StatusReady, CreatedAt: day2},
	} {
		repo.Orders[o.ID] = o
	}
	return NewReportUseCase(repo), repo
}

func TestSalesSummary(t *testing.T) {
	uc, _ := seededReports(t)

	summary, err := uc.Sales(context.Background(), model.SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.OrderCount)
	assert.True(t, summary.TotalSales.Equal(dec("45")))
	assert.True(t, summary.AverageTicket.Equal(dec("15")))
	assert.Equal(t, model.StatusDelivered, summary.MostCommonStatus)
	require.Len(t, summary.ByDay, 2)
	assert.Equal(t, "2024-05-01", summary.ByDay[0].Day)
	assert.True(t, summary.ByDay[0].Total.Equal(dec("35")))
	assert.True(t, summary.ByPaymentMethod[model.PaymentCash].Equal(dec("30")))
	assert.Equal(t, "c", summary.Orders[0].ID, "newest first")
}

func TestSalesFilter(t *testing.T) {
	uc, _ := seededReports(t)
	day1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	summary, err := uc.Sales(context.Background(), model.SalesFilter{From: day1, To: day1})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.OrderCount, "to is inclusive by day")

	summary, err = uc.Sales(context.Background(), model.SalesFilter{Status: model.StatusReady})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OrderCount)

	empty, err := uc.Sales(context.Background(), model.SalesFilter{From: day1.AddDate(1, 0, 0)})
	require.NoError(t, err)
	assert.Zero(t, empty.OrderCount)
	assert.True(t, empty.AverageTicket.IsZero())
	assert.Empty(t, empty.MostCommonStatus)

	_, err = uc.Sales(context.Background(), model.SalesFilter{From: day1, To: day1.AddDate(0, 0, -1)})
	require.ErrorIs(t, err, domainErrors.ErrValidation)
	_, err = uc.Sales(context.Background(), model.SalesFilter{Status: "Lost"})
	require.ErrorIs(t, err, domainErrors.ErrValidation)
}

func TestSalesCSV(t *testing.T) {
	uc, _ := seededReports(t)
	var buf bytes.Buffer
	require.NoError(t, uc.SalesCSV(context.Background(), model.SalesFilter{}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, salesCSVHeader, records[0])
	assert.Equal(t, "c", records[1][0])
	assert.Equal(t, "Caio, Jr", records[1][3])
	assert.Equal(t, "10.00", records[1][7])
}

func TestDashboard(t *testing.T) {
	uc, repo := seededReports(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("n%02d", i)
		repo.Orders[id] = model.Order{ID: id, Status: model.StatusAwaitingAcceptance, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
	}

	dash, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, dash.StatusCounts[model.StatusAwaitingAcceptance])
	assert.Equal(t, 2, dash.StatusCounts[model.StatusDelivered])
	assert.Equal(t, 0, dash.StatusCounts[model.StatusOutForDelivery])
	assert.Len(t, dash.StatusCounts, len(model.Statuses))
	require.Len(t, dash.Recent, dashboardRecent)
	assert.Equal(t, "n11", dash.Recent[0].ID)
}
