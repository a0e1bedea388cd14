package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/pos80/internal/app"
	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/receipt"
	"github.com/polkiloo/pos80/internal/server/http/dto"
	"github.com/polkiloo/pos80/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/pos80/internal/test"
	"github.com/polkiloo/pos80/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	cashier = model.Actor{Login: "caixa", Role: model.RoleCashier}
	kitchen = model.Actor{Login: "cozinha", Role: model.RoleKitchen}
)

type fixture struct {
	facade  *app.POSFacade
	repos   *testhelpers.FactoryStub
	printer *testhelpers.PrintDispatcherStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	repos := testhelpers.NewFactoryStub()
	repos.ProductRepo.Products = []model.Product{
		{ID: 1, Name: "X-Burger", Price: decimal.RequireFromString("10.00")},
		{ID: 2, Name: "Refrigerante", Price: decimal.RequireFromString("5.50")},
	}
	printer := &testhelpers.PrintDispatcherStub{}
	renderer := receipt.NewRenderer("POS80")

	auth := usecase.NewAuthUseCase(repos.Users(), testhelpers.HasherStub{}, testhelpers.StrategyStub{}, logger)
	orders := usecase.NewOrderUseCase(repos.Orders(), repos.Products(), printer, renderer, nil)
	till := usecase.NewTillUseCase(repos.Till(), repos.Orders(), repos.Reports(), printer, renderer, nil, model.ScopeAll)
	facade := app.NewPOSFacade(auth, orders, till,
		usecase.NewCatalogUseCase(repos.Products()),
		usecase.NewPrinterUseCase(repos.Printers(), printer, renderer),
		usecase.NewReportUseCase(repos.Orders()))
	return &fixture{facade: facade, repos: repos, printer: printer}
}

func performRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, actor *model.Actor, body any) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorContextKey, *actor)
		}
		handler(c)
	})

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
	return out
}

func pickupRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerName:    "Rita",
		Phone:           "11911112222",
		FulfillmentType: string(model.FulfillmentPickup),
		PaymentMethod:   string(model.PaymentCard),
		Items:           []dto.OrderItemRequest{{ProductID: 1, Quantity: 2}},
	}
}

func (f *fixture) place(t *testing.T) model.Order {
	t.Helper()
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(f.facade).Place, nil, pickupRequest())
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	return decode[model.Order](t, resp)
}

func TestCurrentActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentActor(c); got.Login != "" {
		t.Fatalf("expected zero actor when not set, got %+v", got)
	}
	c.Set(middleware.ActorContextKey, cashier)
	if got := CurrentActor(c); got != cashier {
		t.Fatalf("expected cashier, got %+v", got)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domainErrors.Validation("phone", "required"), http.StatusUnprocessableEntity},
		{domainErrors.ErrOrderNotFound, http.StatusNotFound},
		{&domainErrors.TransitionError{Current: "Ready", Requested: "Ready", Actor: "cashier"}, http.StatusConflict},
		{domainErrors.ErrTillAlreadyOpen, http.StatusConflict},
		{domainErrors.ErrTillNotOpen, http.StatusConflict},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainErrors.ErrForbidden, http.StatusForbidden},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeError(c, tc.err)
		if w.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, w.Code)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, domainErrors.Validation("address", "required for delivery"))
	body := decode[dto.ErrorResponse](t, w)
	if body.Field != "address" {
		t.Fatalf("expected field in response, got %+v", body)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	f := newFixture(t)
	if err := f.facade.SeedStaff(t.Context(), "1234"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	handler := NewAuthHandler(f.facade).Login

	resp := performRequest(t, http.MethodPost, "/login", "/login", handler, nil, dto.LoginRequest{Login: "cozinha", Password: "1234"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer kitchen:cozinha" {
		t.Fatalf("expected auth header, got %q", resp.Header().Get("Authorization"))
	}
	login := decode[dto.LoginResponse](t, resp)
	if login.User.Role != string(model.RoleKitchen) || login.Token == "" {
		t.Fatalf("unexpected login response %+v", login)
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", handler, nil, dto.LoginRequest{Login: "cozinha", Password: "nope"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", handler, nil, "{")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAuthHandlerCreateUser(t *testing.T) {
	f := newFixture(t)
	handler := NewAuthHandler(f.facade).CreateUser

	req := dto.CreateUserRequest{Login: " Motoboy2 ", Name: "Carlos", Role: string(model.RoleDelivery), Password: "segredo"}
	resp := performRequest(t, http.MethodPost, "/users", "/users", handler, nil, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decode[dto.UserResponse](t, resp)
	if created.Login != "motoboy2" || created.Role != string(model.RoleDelivery) || created.ID == 0 {
		t.Fatalf("unexpected user %+v", created)
	}
	if strings.Contains(resp.Body.String(), "segredo") || strings.Contains(resp.Body.String(), "passwordHash") {
		t.Fatalf("password must not be echoed: %s", resp.Body.String())
	}
	if _, _, err := f.facade.Login(t.Context(), "motoboy2", "segredo"); err != nil {
		t.Fatalf("expected new user to log in: %v", err)
	}

	resp = performRequest(t, http.MethodPost, "/users", "/users", handler, nil, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate login, got %d", resp.Code)
	}

	req.Login, req.Role = "outro", "chef"
	resp = performRequest(t, http.MethodPost, "/users", "/users", handler, nil, req)
	if resp.Code != http.StatusUnprocessableEntity || decode[dto.ErrorResponse](t, resp).Field != "role" {
		t.Fatalf("expected 422 on role, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = performRequest(t, http.MethodPost, "/users", "/users", handler, nil, "{")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerPlace(t *testing.T) {
	f := newFixture(t)
	order := f.place(t)
	if order.Status != model.StatusAwaitingAcceptance || order.Channel != model.ChannelCustomer {
		t.Fatalf("unexpected order %+v", order)
	}
	if !order.Total.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("expected total 20, got %s", order.Total)
	}

	req := pickupRequest()
	req.FulfillmentType = string(model.FulfillmentDelivery)
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(f.facade).Place, nil, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without address, got %d", resp.Code)
	}
	if body := decode[dto.ErrorResponse](t, resp); body.Field != "address" {
		t.Fatalf("expected address field, got %+v", body)
	}

	manual := decimal.RequireFromString("99")
	req = pickupRequest()
	req.Total = &manual
	resp = performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(f.facade).Place, nil, req)
	if got := decode[model.Order](t, resp); !got.Total.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("public checkout must ignore manual total, got %s", got.Total)
	}
}

func TestOrderHandlerPlaceCounter(t *testing.T) {
	f := newFixture(t)
	manual := decimal.RequireFromString("12.50")
	req := dto.CreateOrderRequest{
		CustomerName:    "Balcao",
		FulfillmentType: string(model.FulfillmentDineIn),
		PaymentMethod:   string(model.PaymentCash),
		Total:           &manual,
	}
	resp := performRequest(t, http.MethodPost, "/orders/counter", "/orders/counter", NewOrderHandler(f.facade).PlaceCounter, &cashier, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	order := decode[model.Order](t, resp)
	if order.Status != model.StatusInPreparation || !order.Total.Equal(manual) {
		t.Fatalf("unexpected counter order %+v", order)
	}
}

func TestOrderHandlerTrack(t *testing.T) {
	f := newFixture(t)
	order := f.place(t)
	handler := NewOrderHandler(f.facade).Track

	resp := performRequest(t, http.MethodGet, "/track/:code", "/track/"+order.TrackingCode, handler, nil, nil)
	tracked := decode[[]dto.TrackResponse](t, resp)
	if len(tracked) != 1 || tracked[0].Total != "20.00" || len(tracked[0].Steps) != 4 {
		t.Fatalf("unexpected tracking response %+v", tracked)
	}

	code := "0000"
	if order.TrackingCode == code {
		code = "0001"
	}
	resp = performRequest(t, http.MethodGet, "/track/:code", "/track/"+code, handler, nil, nil)
	if resp.Code != http.StatusOK || strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestOrderHandlerChangeStatus(t *testing.T) {
	f := newFixture(t)
	order := f.place(t)
	handler := NewOrderHandler(f.facade).ChangeStatus
	path := "/orders/" + order.ID + "/status"

	resp := performRequest(t, http.MethodPost, "/orders/:id/status", path, handler, &kitchen, dto.StatusRequest{Status: string(model.StatusInPreparation)})
	if resp.Code != http.StatusConflict {
		t.Fatalf("kitchen cannot accept orders, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/status", path, handler, &cashier, dto.StatusRequest{Status: string(model.StatusInPreparation)})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/status", path, handler, &cashier, dto.StatusRequest{Status: string(model.StatusInPreparation)})
	if resp.Code != http.StatusConflict {
		t.Fatalf("repeated transition must conflict, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/status", path, handler, &cashier, dto.StatusRequest{Status: "Cooking"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown status must be 422, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/status", "/orders/missing/status", handler, &cashier, dto.StatusRequest{Status: string(model.StatusReady)})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestOrderHandlerEditAndDelete(t *testing.T) {
	f := newFixture(t)
	order := f.place(t)
	h := NewOrderHandler(f.facade)

	notes := "sem cebola"
	resp := performRequest(t, http.MethodPatch, "/orders/:id", "/orders/"+order.ID, h.Edit, &cashier, dto.EditOrderRequest{Notes: &notes})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if edited := decode[model.Order](t, resp); edited.Notes != notes || !edited.Total.Equal(order.Total) {
		t.Fatalf("unexpected edit result %+v", edited)
	}

	resp = performRequest(t, http.MethodDelete, "/orders/:id", "/orders/"+order.ID, h.Delete, &cashier, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodDelete, "/orders/:id", "/orders/"+order.ID, h.Delete, &cashier, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/orders", "/orders", h.List, &cashier, nil)
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("deleted order still listed: %s", resp.Body.String())
	}
}

func TestOrderHandlerQueues(t *testing.T) {
	f := newFixture(t)
	order := f.place(t)
	h := NewOrderHandler(f.facade)

	resp := performRequest(t, http.MethodGet, "/kitchen/orders", "/kitchen/orders", h.Kitchen, &kitchen, nil)
	if got := decode[[]model.Order](t, resp); len(got) != 1 || got[0].ID != order.ID {
		t.Fatalf("unexpected kitchen queue %+v", got)
	}
	resp = performRequest(t, http.MethodGet, "/delivery/orders", "/delivery/orders", h.Delivery, &kitchen, nil)
	if got := decode[[]model.Order](t, resp); len(got) != 0 {
		t.Fatalf("expected empty delivery queue, got %+v", got)
	}
}

func TestOrderHandlerReceiptAndPrint(t *testing.T) {
	f := newFixture(t)
	order := f.place(t)
	h := NewOrderHandler(f.facade)

	resp := performRequest(t, http.MethodGet, "/orders/:id/receipt", "/orders/"+order.ID+"/receipt", h.Receipt, &cashier, nil)
	doc := decode[dto.ReceiptResponse](t, resp)
	if !strings.Contains(doc.Body, "X-Burger") {
		t.Fatalf("receipt misses items:\n%s", doc.Body)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/print", "/orders/"+order.ID+"/print", h.Print, &cashier, nil)
	if printed := decode[dto.PrintResponse](t, resp); printed.Ack == nil || printed.PrintWarning != "" {
		t.Fatalf("expected ack, got %+v", printed)
	}

	f.printer.Err = &domainErrors.PrintError{Printer: "balcao", Err: errors.New("paper out")}
	resp = performRequest(t, http.MethodPost, "/orders/:id/print", "/orders/"+order.ID+"/print", h.Print, &cashier, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("print failure must still be 200, got %d", resp.Code)
	}
	if printed := decode[dto.PrintResponse](t, resp); !strings.Contains(printed.PrintWarning, "paper out") {
		t.Fatalf("expected print warning, got %+v", printed)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/print", "/orders/missing/print", h.Print, &cashier, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestTillHandler(t *testing.T) {
	f := newFixture(t)
	f.place(t)
	h := NewTillHandler(f.facade)

	resp := performRequest(t, http.MethodPost, "/till/close", "/till/close", h.Close, &cashier, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("closing a closed till must conflict, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/till/open", "/till/open", h.Open, &cashier, map[string]any{"openingFloat": 50})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = performRequest(t, http.MethodPost, "/till/open", "/till/open", h.Open, &cashier, map[string]any{"openingFloat": 10})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second open, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/till", "/till", h.Status, &cashier, nil)
	if session := decode[model.TillSession](t, resp); !session.IsOpen {
		t.Fatal("expected open session")
	}

	resp = performRequest(t, http.MethodGet, "/till/report", "/till/report", h.Report, &cashier, nil)
	report := decode[model.ReconciliationReport](t, resp)
	if !report.CashOnHand.Equal(decimal.RequireFromString("50")) || !report.GrandTotal.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("unexpected report %+v", report)
	}

	f.printer.Err = &domainErrors.PrintError{Err: errors.New("offline")}
	resp = performRequest(t, http.MethodPost, "/till/close", "/till/close", h.Close, &cashier, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	closed := decode[dto.CloseTillResponse](t, resp)
	if closed.Session.IsOpen || closed.PrintWarning == "" || closed.ArchiveRef == "" {
		t.Fatalf("unexpected close response %+v", closed)
	}

	resp = performRequest(t, http.MethodPost, "/admin/reset", "/admin/reset", h.Reset, &cashier, nil)
	if resp.Code != http.StatusNoContent || len(f.repos.OrderRepo.Orders) != 0 {
		t.Fatalf("expected records reset, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/till/open", "/till/open", h.Open, &cashier, map[string]any{"openingFloat": -1})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for negative float, got %d", resp.Code)
	}
}

func TestCatalogHandler(t *testing.T) {
	f := newFixture(t)
	h := NewCatalogHandler(f.facade)

	resp := performRequest(t, http.MethodGet, "/menu", "/menu", h.Menu, nil, nil)
	if menu := decode[[]model.Product](t, resp); len(menu) != 2 {
		t.Fatalf("expected two products, got %d", len(menu))
	}

	resp = performRequest(t, http.MethodPost, "/products", "/products", h.Create, nil, map[string]any{"name": "Suco", "price": "7.00"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decode[model.Product](t, resp)
	if created.ID != 3 {
		t.Fatalf("expected id 3, got %d", created.ID)
	}

	resp = performRequest(t, http.MethodPost, "/products", "/products", h.Create, nil, map[string]any{"name": "Gratis", "price": "0"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for zero price, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPut, "/products/:id", "/products/3", h.Update, nil, map[string]any{"name": "Suco", "price": "8.00"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/products/:id", "/products/3", h.Get, nil, nil)
	if got := decode[model.Product](t, resp); !got.Price.Equal(decimal.RequireFromString("8")) {
		t.Fatalf("expected updated price, got %s", got.Price)
	}

	resp = performRequest(t, http.MethodGet, "/products/:id", "/products/abc", h.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodDelete, "/products/:id", "/products/3", h.Delete, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodDelete, "/products/:id", "/products/3", h.Delete, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestPrinterHandler(t *testing.T) {
	f := newFixture(t)
	h := NewPrinterHandler(f.facade)

	resp := performRequest(t, http.MethodPost, "/printers", "/printers", h.Create, nil, dto.PrinterRequest{Name: "Balcao", ConnectionType: "Network", Address: "10.0.0.5"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = performRequest(t, http.MethodPost, "/printers", "/printers", h.Create, nil, dto.PrinterRequest{ConnectionType: "Network"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without name, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPut, "/printers/:id", "/printers/1", h.Update, nil, dto.PrinterRequest{Name: "Balcao", ConnectionType: "HTTP", Address: "http://print.local"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/printers", "/printers", h.List, nil, nil)
	if printers := decode[[]model.Printer](t, resp); len(printers) != 1 || printers[0].ConnectionType != model.ConnectionHTTP {
		t.Fatalf("unexpected printers %+v", printers)
	}

	resp = performRequest(t, http.MethodPost, "/printers/:id/test", "/printers/1/test", h.Test, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if titles := f.printer.Titles(); len(titles) != 1 {
		t.Fatalf("expected one test page, got %v", titles)
	}

	resp = performRequest(t, http.MethodDelete, "/printers/:id", "/printers/1", h.Delete, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestReportHandler(t *testing.T) {
	f := newFixture(t)
	f.place(t)
	h := NewReportHandler(f.facade)

	resp := performRequest(t, http.MethodGet, "/reports/sales", "/reports/sales", h.Sales, &cashier, nil)
	if summary := decode[model.SalesSummary](t, resp); summary.OrderCount != 1 {
		t.Fatalf("expected one order, got %+v", summary)
	}

	resp = performRequest(t, http.MethodGet, "/reports/sales", "/reports/sales?from=yesterday", h.Sales, &cashier, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed date, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/reports/sales", "/reports/sales?from=2024-05-02&to=2024-05-01", h.Sales, &cashier, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inverted range, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/reports/sales.csv", "/reports/sales.csv", h.SalesCSV, &cashier, nil)
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(resp.Body.String(), "id,trackingCode") {
		t.Fatalf("missing csv header: %s", resp.Body.String())
	}

	resp = performRequest(t, http.MethodGet, "/dashboard", "/dashboard", h.Dashboard, &cashier, nil)
	dash := decode[model.Dashboard](t, resp)
	if dash.StatusCounts[model.StatusAwaitingAcceptance] != 1 || len(dash.Recent) != 1 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}
