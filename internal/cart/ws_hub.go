// Package cart — WebSocket hub for real-time cart and search updates.
package cart

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Raghu3-3102/E-commerce/internal/debounce"
	"github.com/Raghu3-3102/E-commerce/internal/metrics"
	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// searchDelay is how long search input must quiesce before the filter
// pipeline recomputes. Each keystroke resets the window.
const searchDelay = 300 * time.Millisecond

// Message is a JSON message broadcast to all WebSocket clients after a
// cart mutation.
type Message struct {
	Type     string `json:"type"`
	Count    int64  `json:"count"`
	Subtotal string `json:"subtotal,omitempty"`
	Total    string `json:"total,omitempty"`
}

// clientMessage is a JSON message received from a WebSocket client.
// Currently only {"type":"search","query":...} is understood.
type clientMessage struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// searchResult is the reply to a debounced search message.
type searchResult struct {
	Type     string          `json:"type"`
	Query    string          `json:"query"`
	Products []model.Product `json:"products"`
}

// SearchFunc runs the filter pipeline for a live search query.
type SearchFunc func(query string) []model.Product

// client is one WebSocket connection. Writes come from the hub loop, the
// ping ticker, and debounced search replies, so they are serialized by mu
// (gorilla allows at most one concurrent writer per connection).
type client struct {
	conn      *websocket.Conn
	debouncer *debounce.Debouncer
	mu        sync.Mutex
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// Hub manages WebSocket connections. It broadcasts cart updates to all
// clients and answers per-connection live search queries, debounced so a
// burst of keystrokes produces a single recomputation with the last query.
type Hub struct {
	search     SearchFunc
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
}

// NewHub creates a WebSocket hub. search may be nil if live search is not
// wired (search messages are then ignored).
func NewHub(search SearchFunc) *Hub {
	return &Hub{
		search:     search,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run starts the hub's main event loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))
			slog.Info("ws client connected", "total", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.debouncer.Stop()
				c.conn.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketClients.Set(float64(total))

		case msg := <-h.broadcast:
			h.mu.RLock()
			var dead []*client
			for c := range h.clients {
				if err := c.write(websocket.TextMessage, msg); err != nil {
					dead = append(dead, c)
				}
			}
			h.mu.RUnlock()

			if len(dead) > 0 {
				h.mu.Lock()
				for _, c := range dead {
					if _, ok := h.clients[c]; ok {
						delete(h.clients, c)
						c.debouncer.Stop()
						c.conn.Close()
					}
				}
				metrics.WebSocketClients.Set(float64(len(h.clients)))
				h.mu.Unlock()
			}
		}
	}
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// Drop if buffer full to avoid blocking cart dispatch.
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true // Allow all origins during development.
	},
}

// HandleWS handles WebSocket upgrade requests at GET /api/v1/ws.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("ws upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn, debouncer: debounce.New(searchDelay)}
	h.register <- c

	// Read pump: handle incoming search messages and detect disconnects.
	go func() {
		defer func() { h.unregister <- c }()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			h.handleClientMessage(c, data)
		}
	}()

	// Ping ticker to keep connection alive through proxies.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			h.mu.RLock()
			_, ok := h.clients[c]
			h.mu.RUnlock()
			if !ok {
				return
			}
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()
}

// handleClientMessage dispatches one inbound message. Search queries are
// debounced per connection: only the last query in a burst is answered.
func (h *Hub) handleClientMessage(c *client, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.Type != "search" || h.search == nil {
		return
	}

	query := msg.Query
	c.debouncer.Trigger(func() {
		result := searchResult{
			Type:     "search_results",
			Query:    query,
			Products: h.search(query),
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return
		}
		if err := c.write(websocket.TextMessage, payload); err != nil {
			slog.Warn("ws search reply failed", "err", err)
		}
	})
}
