package utils

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket subscriber. A user keeps at most one live client;
// reconnecting replaces the previous one.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, Send: make(chan []byte, 8)}
}

// WritePump drains Send onto the socket until the channel closes or a write
// fails.
func (c *Client) WritePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	c.Conn.Close()
}

// ReadPump blocks until the peer closes the socket, then unregisters the
// client. Inbound frames are discarded; the feed is one-way.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Message is addressed to a single user's client.
type Message struct {
	UserID  string
	Content []byte
}

// Hub routes loan events to the borrower's open websocket connection.
// Delivery is best effort: no client, no delivery.
type Hub struct {
	Clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Message
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Message),
	}
}

// Run owns the client map; all access goes through the channels.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if old, ok := h.Clients[client.UserID]; ok {
				close(old.Send)
			}
			h.Clients[client.UserID] = client
		case client := <-h.Unregister:
			if current, ok := h.Clients[client.UserID]; ok && current == client {
				delete(h.Clients, client.UserID)
				close(client.Send)
			}
		case message := <-h.Broadcast:
			client, ok := h.Clients[message.UserID]
			if !ok {
				continue
			}
			select {
			case client.Send <- message.Content:
			default:
				close(client.Send)
				delete(h.Clients, message.UserID)
			}
		}
	}
}

// Notify hands content for the given user to the hub. The hub drops it if
// the user has no client or a full send buffer.
func (h *Hub) Notify(userID string, content []byte) {
	h.Broadcast <- Message{UserID: userID, Content: content}
}

// Upgrade switches an authenticated HTTP request to a websocket connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}
