package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dkim/aquamarket-backend/pkg/logger"
)

// Client is one WebSocket session for a user. A user may hold several
// sessions at once (multiple devices or tabs).
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub tracks open notification sessions and fans messages out per user.
type Hub struct {
	// UserID -> open sessions
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	outbound   chan *userMessage

	mu sync.RWMutex
}

type userMessage struct {
	UserID  uint
	Payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		outbound:   make(chan *userMessage, 1024),
	}
}

// Run processes registration and delivery events. Call once from a goroutine
// at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.outbound:
			h.mu.RLock()
			if clientList, ok := h.clients[message.UserID]; ok {
				for _, client := range clientList {
					select {
					case client.Send <- message.Payload:
					default:
						// Send buffer full. Drop the session asynchronously so
						// the hub loop never blocks.
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": message.UserID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToUser pushes a payload to every open session of the user. Offline
// users are skipped silently; persistence is the caller's concern.
func (h *Hub) SendToUser(userID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal WebSocket payload", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	select {
	case h.outbound <- &userMessage{UserID: userID, Payload: data}:
	default:
		// Delivery is best-effort; a full channel drops the push.
		logger.Warn("WebSocket outbound channel full, message dropped", map[string]interface{}{
			"user_id": userID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one open session.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
