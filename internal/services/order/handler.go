package order

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
	"restaurant-ordering/internal/web"
)

const requestTimeout = 30 * time.Second

// Handler handles HTTP requests for the order service
type Handler struct {
	service *OrderService
	logger  *logger.Logger
	respond *web.Responder
}

// NewHandler creates a new order handler
func NewHandler(service *OrderService, log *logger.Logger) *Handler {
	mapper := web.NewErrorMapper().
		WithMapping(validation.ErrNotFound, http.StatusNotFound, "not found")
	return &Handler{
		service: service,
		logger:  log,
		respond: web.NewResponder(log, mapper),
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("PUT /api/orders/{id}/status", h.UpdateStatus)
}

// ListOrders handles GET /api/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.respond.Error(w, r, "list_orders_failed", err)
		return
	}
	h.respond.JSON(w, r, http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	h.logger.Debug("order_received", "Received order creation request", requestID, map[string]interface{}{
		"content_length": r.ContentLength,
		"remote_addr":    r.RemoteAddr,
	})

	var req models.OrderSubmission
	if err := web.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, "validation_failed", itemsDecodeError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	order, err := h.service.CreateOrder(ctx, &req, requestID)
	if err != nil {
		h.respond.Error(w, r, "order_creation_failed", err)
		return
	}

	h.logger.Info("order_created", "Order created successfully", requestID, map[string]interface{}{
		"order_id": order.ID,
		"table":    order.TableNumber,
		"items":    order.Quantity(),
	})
	h.respond.JSON(w, r, http.StatusCreated, order)
}

// UpdateStatus handles PUT /api/orders/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.UpdateOrderStatusRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, r, "validation_failed", err)
		return
	}
	if _, ok := models.ParseOrderStatus(req.Status); !ok {
		h.respond.Error(w, r, "validation_failed", errInvalidStatus)
		return
	}
	id, ok := web.PathID(r, "id")
	if !ok {
		h.respond.Error(w, r, "update_order_status", validation.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	order, err := h.service.UpdateStatus(ctx, id, req.Status, requestID)
	if err != nil {
		h.respond.Error(w, r, "order_status_update_failed", err)
		return
	}

	h.logger.Info("order_status_updated", "Order status updated", requestID, map[string]interface{}{
		"order_id": order.ID,
		"status":   string(order.Status),
	})
	h.respond.JSON(w, r, http.StatusOK, order)
}

// itemsDecodeError reports a malformed items value the same way as a missing one.
func itemsDecodeError(err error) error {
	var verr validation.ValidationError
	if errors.As(err, &verr) && (verr.Field == "items" || strings.HasPrefix(verr.Field, "items.")) {
		return errItemsRequired
	}
	return err
}
