package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"go-restaurant-pos/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds one write to a dashboard.
	writeWait = 5 * time.Second
	// sendBuffer is how many events a slow dashboard may fall behind before
	// it is dropped.
	sendBuffer = 32
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans dashboard events out to every connected websocket client. Each
// client has its own writer, so a stalled dashboard never blocks Broadcast.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*client]bool
}

// NewHub accepts upgrades from the given origins; none means any origin.
func NewHub(allowedOrigins ...string) *Hub {
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Hub) HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("websocket upgrade:", err)
			return
		}
		defer conn.Close()

		cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
		h.mu.Lock()
		h.clients[cl] = true
		h.mu.Unlock()
		go writeLoop(cl)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(cl)
				return
			}
		}
	}
}

func writeLoop(cl *client) {
	for message := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Println("dropping websocket client:", err)
			cl.conn.Close()
			return
		}
	}
}

// remove unregisters a client and stops its writer. Safe to call twice.
func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[cl] {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// Clients is the number of connected dashboards.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues one event for every client. A client whose queue is full
// is disconnected.
func (h *Hub) Broadcast(event string, payload interface{}) {
	if h == nil {
		return
	}
	messageBytes, err := json.Marshal(models.Notification{Event: event, Payload: payload})
	if err != nil {
		log.Println("marshal notification:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- messageBytes:
		default:
			log.Println("dropping slow websocket client")
			delete(h.clients, cl)
			close(cl.send)
			cl.conn.Close()
		}
	}
}
