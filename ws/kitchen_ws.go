package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/aldairalfaro98/prueba-agent-toteat/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// KitchenHub fans kitchen tickets out to every connected prep screen.
// It implements services.TicketPublisher.
type KitchenHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan services.KitchenTicket
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

func NewKitchenHub() *KitchenHub {
	return &KitchenHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan services.KitchenTicket, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *KitchenHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case ticket := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(ticket); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishTicket never blocks the order engine: if the buffer is full
// the ticket is dropped and logged.
func (h *KitchenHub) PublishTicket(t services.KitchenTicket) {
	select {
	case h.broadcast <- t:
	default:
		log.Printf("kitchen hub busy, dropping ticket for order %d", t.OrderID)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/kitchen
func (h *KitchenHub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	h.register <- conn

	// Reader loop exists only to detect the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- conn
				return
			}
		}
	}()
}
