package notification

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
)

// Message is what websocket clients receive. Topic is an event kind or a system.* topic.
type Message struct {
	Topic     string    `json:"topic"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans order events out to websocket clients. Clients either follow every topic or
// only the ones they subscribed to.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[string]*Client
	global  map[*Client]struct{}
	mu      sync.RWMutex
	logger  *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[string]*Client),
		global:  make(map[*Client]struct{}),
		logger:  log,
	}
}

// ClientCount returns the number of attached clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Attach registers c. With no topics the client receives everything.
func (h *Hub) Attach(c *Client, topics []string) {
	h.mu.Lock()
	if existing, ok := h.clients[c.id]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.id] = c

	subscribed := 0
	for _, topic := range topics {
		if trimmed := strings.TrimSpace(topic); trimmed != "" {
			h.subscribeLocked(c, trimmed)
			subscribed++
		}
	}
	if subscribed == 0 {
		h.global[c] = struct{}{}
	}
	h.mu.Unlock()

	h.logger.Info("ws_client_attached", "Websocket client attached", c.id, map[string]interface{}{
		"topics": topics,
	})
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.global, c)
	h.subscribeLocked(c, topic)
}

func (h *Hub) subscribeLocked(c *Client, topic string) {
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(c.subscribed, topic)
}

func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for topic := range c.subscribed {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	if h.clients[c.id] == c {
		delete(h.clients, c.id)
	}
	delete(h.global, c)
	c.close()
}

// BroadcastEvent delivers event to every client following its kind. Slow clients are dropped.
func (h *Hub) BroadcastEvent(_ context.Context, event *models.OrderEvent) {
	h.broadcast(&Message{Topic: string(event.Kind), Data: event, Timestamp: event.Timestamp})
}

func (h *Hub) broadcast(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("ws_broadcast_failed", "Failed to marshal websocket message", "", err, nil)
		return
	}

	h.mu.RLock()
	subs := h.topics[msg.Topic]
	clients := make([]*Client, 0, len(subs)+len(h.global))
	for c := range subs {
		clients = append(clients, c)
	}
	for c := range h.global {
		if _, dup := subs[c]; !dup {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(data) {
			go h.detach(c)
		}
	}
}
