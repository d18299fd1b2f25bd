package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 25 * time.Second
	pongWait     = 60 * time.Second
	queueSize    = 64
)

// MealHub pushes current-meal and catalog events to every connected observer.
// All observers share one channel; there is no per-user room.
type MealHub struct {
	clients    map[*websocket.Conn]uuid.UUID
	broadcast  chan Event
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex
}

// Subscription is one observer connection.
type Subscription struct {
	ID   uuid.UUID
	Conn *websocket.Conn
}

// Event is the frame written to observers.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func NewMealHub() *MealHub {
	return &MealHub{
		clients:    make(map[*websocket.Conn]uuid.UUID),
		broadcast:  make(chan Event, queueSize),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
	}
}

// Publish queues an event without blocking the caller. When the queue is full
// the event is dropped; observers re-sync with GET /api/current-meal.
func (h *MealHub) Publish(event string, payload any) {
	select {
	case h.broadcast <- Event{Event: event, Data: payload}:
	default:
		log.Printf("ws: queue full, dropped %s", event)
	}
}

// Count reports connected observers.
func (h *MealHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run owns the client set until ctx is cancelled.
func (h *MealHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			h.clients[sub.Conn] = sub.ID
			h.mu.Unlock()
			log.Printf("ws: observer %s connected", sub.ID)

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.Conn]; ok {
				delete(h.clients, sub.Conn)
				sub.Conn.Close()
				log.Printf("ws: observer %s disconnected", sub.ID)
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				log.Printf("ws: encode %s: %v", ev.Event, err)
				continue
			}
			h.mu.Lock()
			for conn, id := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					// a dead observer never fails the mutation that caused the event
					log.Printf("ws: write to %s: %v", id, err)
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws/current-meal. Observers get no snapshot on
// connect; they pull the current view over HTTP.
func (h *MealHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := Subscription{ID: uuid.New(), Conn: conn}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go h.keepAlive(sub)
	go h.listen(sub)
}

// listen drains client frames; observers only receive. Ends on close.
func (h *MealHub) listen(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()

	sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.Conn.SetPongHandler(func(string) error {
		return sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error: %v", err)
			}
			return
		}
	}
}

// keepAlive pings through proxies that drop idle connections. WriteControl
// is safe alongside the hub's writes.
func (h *MealHub) keepAlive(sub Subscription) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for range t.C {
		if err := sub.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			return
		}
	}
}
