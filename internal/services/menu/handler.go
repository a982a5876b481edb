package menu

import (
	"net/http"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
	"restaurant-ordering/internal/web"
)

// upsertResponse flags which branch POST /api/menu took.
type upsertResponse struct {
	models.MenuItem
	Created bool `json:"created,omitempty"`
	Updated bool `json:"updated,omitempty"`
}

type Handler struct {
	service *Service
	logger  *logger.Logger
	respond *web.Responder
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	mapper := web.NewErrorMapper().
		WithMapping(validation.ErrNotFound, http.StatusNotFound, "not found")
	return &Handler{
		service: service,
		logger:  log,
		respond: web.NewResponder(log, mapper),
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu", h.List)
	mux.HandleFunc("POST /api/menu", h.Upsert)
	mux.HandleFunc("PUT /api/menu/{id}", h.Update)
	mux.HandleFunc("PUT /api/menu/{id}/availability", h.SetAvailability)
}

// List handles GET /api/menu
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.respond.Error(w, r, "list_menu_failed", err)
		return
	}
	h.respond.JSON(w, r, http.StatusOK, items)
}

// Upsert handles POST /api/menu
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in models.MenuItemInput
	if err := web.DecodeJSON(r, &in); err != nil {
		h.respond.Error(w, r, "validation_failed", err)
		return
	}

	item, created, err := h.service.Upsert(r.Context(), in)
	if err != nil {
		h.respond.Error(w, r, "upsert_menu_item_failed", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.logger.Info("menu_item_saved", "Menu item saved", web.RequestID(r.Context()), map[string]interface{}{
		"id":      item.ID,
		"name":    item.Name,
		"created": created,
	})
	h.respond.JSON(w, r, status, upsertResponse{MenuItem: *item, Created: created, Updated: !created})
}

// Update handles PUT /api/menu/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(r, "id")
	if !ok {
		h.respond.Error(w, r, "update_menu_item", validation.ErrNotFound)
		return
	}
	var in models.MenuItemInput
	if err := web.DecodeJSON(r, &in); err != nil {
		h.respond.Error(w, r, "validation_failed", err)
		return
	}
	item, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.respond.Error(w, r, "update_menu_item_failed", err)
		return
	}
	h.respond.JSON(w, r, http.StatusOK, item)
}

// SetAvailability handles PUT /api/menu/{id}/availability
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(r, "id")
	if !ok {
		h.respond.Error(w, r, "set_availability", validation.ErrNotFound)
		return
	}
	var in models.AvailabilityInput
	if err := web.DecodeJSON(r, &in); err != nil {
		h.respond.Error(w, r, "validation_failed", err)
		return
	}
	item, err := h.service.SetAvailability(r.Context(), id, in)
	if err != nil {
		h.respond.Error(w, r, "set_availability_failed", err)
		return
	}
	h.logger.Info("menu_availability_changed", "Menu item availability changed", web.RequestID(r.Context()), map[string]interface{}{
		"id":        item.ID,
		"available": item.Available,
	})
	h.respond.JSON(w, r, http.StatusOK, item)
}
