package report

import (
	"net/http"
	"strconv"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/web"
)

type Handler struct {
	service *Service
	respond *web.Responder
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, respond: web.NewResponder(log, nil)}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports", h.Get)
}

// Get handles GET /api/reports?period=day|week|month&range=N
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := strconv.Atoi(q.Get("range"))
	if err != nil {
		rng = 0
	}

	rep, err := h.service.Build(r.Context(), q.Get("period"), rng)
	if err != nil {
		h.respond.Error(w, r, "report_failed", err)
		return
	}
	h.respond.JSON(w, r, http.StatusOK, rep)
}
