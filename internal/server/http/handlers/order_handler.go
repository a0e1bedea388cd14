package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/server/http/dto"
	"github.com/polkiloo/pos80/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders from the public checkout.
func (h *OrderHandler) Place(c *gin.Context) {
	h.create(c, model.ChannelCustomer)
}

// PlaceCounter handles POST /api/orders/counter for cashier sales.
func (h *OrderHandler) PlaceCounter(c *gin.Context) {
	h.create(c, model.ChannelCounter)
}

func (h *OrderHandler) create(c *gin.Context, channel model.Channel) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	in := usecase.CreateOrderInput{
		CustomerName:     req.CustomerName,
		Phone:            req.Phone,
		FulfillmentType:  model.FulfillmentType(req.FulfillmentType),
		Address:          req.Address,
		PaymentMethod:    model.PaymentMethod(req.PaymentMethod),
		ChangeFor:        req.ChangeFor,
		ReceiptReference: req.ReceiptReference,
		Notes:            req.Notes,
		Channel:          channel,
	}
	if channel == model.ChannelCounter {
		in.ManualTotal = req.Total
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, usecase.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// List handles GET /api/orders?status=.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), model.OrderStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Track handles GET /api/track/:code.
func (h *OrderHandler) Track(c *gin.Context) {
	orders, err := h.facade.Track(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.TrackResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toTrackResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

// Edit handles PATCH /api/orders/:id.
func (h *OrderHandler) Edit(c *gin.Context) {
	var req dto.EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.facade.EditOrder(c.Request.Context(), c.Param("id"), model.OrderPatch{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ChangeStatus handles POST /api/orders/:id/status.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.facade.ChangeStatus(c.Request.Context(), c.Param("id"), model.OrderStatus(req.Status), CurrentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Kitchen handles GET /api/kitchen/orders.
func (h *OrderHandler) Kitchen(c *gin.Context) {
	orders, err := h.facade.KitchenQueue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Delivery handles GET /api/delivery/orders.
func (h *OrderHandler) Delivery(c *gin.Context) {
	orders, err := h.facade.DeliveryQueue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Receipt handles GET /api/orders/:id/receipt.
func (h *OrderHandler) Receipt(c *gin.Context) {
	doc, err := h.facade.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReceiptResponse{Title: doc.Title, Body: doc.Body})
}

// Print handles POST /api/orders/:id/print.
func (h *OrderHandler) Print(c *gin.Context) {
	ack, err := h.facade.PrintOrder(c.Request.Context(), c.Param("id"))
	printResult(c, ack, err)
}

func toTrackResponse(o model.Order) dto.TrackResponse {
	steps := model.Steps(o.FulfillmentType)
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, string(s))
	}
	return dto.TrackResponse{
		TrackingCode:    o.TrackingCode,
		CustomerName:    o.CustomerName,
		FulfillmentType: string(o.FulfillmentType),
		Status:          string(o.Status),
		Steps:           names,
		Progress:        model.Progress(o.Status, o.FulfillmentType),
		Total:           o.Total.StringFixed(2),
		CreatedAt:       o.CreatedAt,
	}
}
