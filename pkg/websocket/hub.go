package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is one monitoring message pushed to instructors watching a quiz.
type Event struct {
	Type   string      `json:"type"`
	QuizID uint        `json:"quiz_id"`
	Data   interface{} `json:"data,omitempty"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	quizID uint
	userID uint
	send   chan []byte
}

// Hub fans submission events out to instructors subscribed per quiz.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan Event
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.quizID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.quizID] = room
			}
			room[client] = true
			h.mu.Unlock()
			log.Printf("Instructor %d watching quiz %d", client.userID, client.quizID)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.quizID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.quizID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.events:
			message, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error marshaling event: %v", err)
				continue
			}
			h.mu.RLock()
			for client := range h.rooms[event.QuizID] {
				select {
				case client.send <- message:
				default:
					// slow consumer, drop the event for this client
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for every watcher of the quiz. Safe to call
// when nobody is watching.
func (h *Hub) Broadcast(quizID uint, eventType string, data interface{}) {
	select {
	case h.events <- Event{Type: eventType, QuizID: quizID, Data: data}:
	default:
		log.Printf("Event queue full, dropping %s for quiz %d", eventType, quizID)
	}
}

// Serve upgrades the connection and attaches it to the quiz room. Callers
// must have authorized the user for the quiz already.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, quizID, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		quizID: quizID,
		userID: userID,
		send:   make(chan []byte, 16),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// the feed is one-way; incoming frames only keep the connection alive
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Unexpected close for user %d on quiz %d: %v", c.userID, c.quizID, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
