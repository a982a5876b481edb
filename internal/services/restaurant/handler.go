package restaurant

import (
	"net/http"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
	"restaurant-ordering/internal/web"
)

// Handler serves the /api/restaurants resource
type Handler struct {
	service *Service
	logger  *logger.Logger
	respond *web.Responder
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	mapper := web.NewErrorMapper().
		WithMapping(validation.ErrNotFound, http.StatusNotFound, "Not found")
	return &Handler{
		service: service,
		logger:  log,
		respond: web.NewResponder(log, mapper),
	}
}

// RegisterRoutes mounts the resource on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/restaurants", h.List)
	mux.HandleFunc("GET /api/restaurants/{id}", h.Get)
	mux.HandleFunc("POST /api/restaurants", h.Create)
	mux.HandleFunc("PUT /api/restaurants/{id}", h.Update)
	mux.HandleFunc("DELETE /api/restaurants/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.respond.Error(w, r, "list_restaurants_failed", err)
		return
	}
	h.respond.JSON(w, r, http.StatusOK, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(r, "id")
	if !ok {
		h.respond.Error(w, r, "get_restaurant", validation.ErrNotFound)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respond.Error(w, r, "get_restaurant_failed", err)
		return
	}
	h.respond.JSON(w, r, http.StatusOK, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.RestaurantInput
	if err := web.DecodeJSON(r, &in); err != nil {
		h.respond.Error(w, r, "validation_failed", err)
		return
	}
	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respond.Error(w, r, "create_restaurant_failed", err)
		return
	}
	h.logger.Info("restaurant_created", "Restaurant created", web.RequestID(r.Context()), map[string]interface{}{
		"id":   item.ID,
		"name": item.Name,
	})
	h.respond.JSON(w, r, http.StatusCreated, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(r, "id")
	if !ok {
		h.respond.Error(w, r, "update_restaurant", validation.ErrNotFound)
		return
	}
	var in models.RestaurantInput
	if err := web.DecodeJSON(r, &in); err != nil {
		h.respond.Error(w, r, "validation_failed", err)
		return
	}
	item, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.respond.Error(w, r, "update_restaurant_failed", err)
		return
	}
	h.respond.JSON(w, r, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := web.PathID(r, "id")
	if !ok {
		h.respond.Error(w, r, "delete_restaurant", validation.ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respond.Error(w, r, "delete_restaurant_failed", err)
		return
	}
	h.logger.Info("restaurant_deleted", "Restaurant deleted", web.RequestID(r.Context()), map[string]interface{}{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
