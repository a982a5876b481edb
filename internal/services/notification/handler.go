package notification

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/web"
)

const clientBuffer = 16

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler exposes the hub over GET /ws/notifications?topics=order_placed,status_changed
type Handler struct {
	hub    *Hub
	logger *logger.Logger
}

func NewHandler(hub *Hub, log *logger.Logger) *Handler {
	return &Handler{hub: hub, logger: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/notifications", h.ServeWS)
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	if requestID == "" {
		requestID = logger.GenerateRequestID()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws_upgrade_failed", "Websocket upgrade failed", requestID, err, map[string]interface{}{
			"remote_addr": r.RemoteAddr,
		})
		return
	}

	var topics []string
	if raw := r.URL.Query().Get("topics"); raw != "" {
		topics = strings.Split(raw, ",")
	}

	client := NewClient(h.hub, conn, requestID, clientBuffer)
	h.hub.Attach(client, topics)

	go client.WritePump()
	go client.ReadPump()

	client.sendMessage(&Message{
		Topic:     "system.connected",
		Data:      map[string]interface{}{"client_id": requestID, "topics": topics},
		Timestamp: time.Now().UTC(),
	})
}
