package notification

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 16
)

// Client is one websocket connection attached to the hub
type Client struct {
	id         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	subscribed map[string]struct{}
	mu         sync.Mutex
	closed     bool
}

type command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

func NewClient(hub *Hub, conn *websocket.Conn, id string, buf int) *Client {
	return &Client{
		id:         id,
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		subscribed: make(map[string]struct{}),
	}
}

// enqueue queues data without blocking. It returns false when the buffer is full or the client is gone.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) sendMessage(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if !c.enqueue(data) {
		go c.hub.detach(c)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

// WritePump drains the send buffer and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.logger.Warn("ws_write_failed", err.Error(), c.id, nil)
				c.hub.detach(c)
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.hub.logger.Warn("ws_ping_failed", err.Error(), c.id, nil)
				c.hub.detach(c)
				return
			}
		}
	}
}

// ReadPump handles subscribe/unsubscribe/ping commands until the peer goes away.
func (c *Client) ReadPump() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detach(c)

	for {
		var cmd command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.logger.Debug("ws_read_failed", err.Error(), c.id, nil)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd command) {
	topic := strings.TrimSpace(cmd.Topic)
	switch strings.ToLower(cmd.Action) {
	case "subscribe":
		if topic != "" {
			c.hub.subscribe(c, topic)
		}
	case "unsubscribe":
		if topic != "" {
			c.hub.unsubscribe(c, topic)
		}
	case "ping":
		c.sendMessage(&Message{Topic: "system.pong", Timestamp: time.Now().UTC()})
	}
}
