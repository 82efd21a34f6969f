package chatws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/ai-28/suplient/internal/services"
)

// Hub is the live-channel registry: one entry per connected user, possibly
// several sockets each. It implements the services.Notifier capability so
// the fan-out dispatcher can reach connected users without owning any
// transport state.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan outbound
}

type outbound struct {
	userID  int64
	payload []byte
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

type chatSender interface {
	SendMessage(
		ctx context.Context,
		actorID int64,
		conversationID int64,
		content string,
	) (*services.ChatDelivery, error)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan outbound, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.outbound:
			h.sendToUser(event.userID, event.payload)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Send enqueues a payload for a user's live sockets. Users with no live
// socket receive nothing; a full queue is reported to the caller, which
// treats delivery as best-effort anyway.
func (h *Hub) Send(userID int64, payload []byte) error {
	select {
	case h.outbound <- outbound{userID: userID, payload: payload}:
		return nil
	default:
		return errors.New("hub outbound queue full")
	}
}

func (h *Hub) sendToUser(userID int64, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump consumes inbound frames until the socket drops. Inbound messages
// are persisted through the chat service, which also handles the fan-out
// back to participants, so nothing is echoed from here.
func (c *Client) ReadPump(service chatSender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type           string `json:"type"`
			ConversationID string `json:"conversation_id"`
			Content        string `json:"content"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			c.writeError("unsupported message type")
			continue
		}

		conversationID, err := strconv.ParseInt(incoming.ConversationID, 10, 64)
		if err != nil || conversationID <= 0 {
			c.writeError("invalid conversation id")
			continue
		}

		if _, err := service.SendMessage(context.Background(), c.userID, conversationID, incoming.Content); err != nil {
			c.writeError("failed to send message")
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) writeError(message string) {
	payload, err := json.Marshal(services.Event{
		Type: "error",
		Payload: map[string]string{
			"message":   message,
			"timestamp": services.FormatChatTimestamp(time.Now().UTC()),
		},
	})
	if err != nil {
		log.Printf("chat hub encode error event: %v", err)
		return
	}
	select {
	case c.send <- payload:
	default:
		c.hub.Unregister(c)
	}
}
