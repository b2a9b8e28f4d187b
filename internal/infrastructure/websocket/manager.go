package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// Handler receives parsed frames from ReadPump; nil handlers drop them.
	Handler MessageHandler
}

// MessageHandler processes inbound frames from a connected client.
type MessageHandler interface {
	HandleMessage(client *Client, raw []byte)
	HandleDisconnect(client *Client)
}

// Manager manages all active WebSocket connections and the per-conversation
// rooms used for typing and message fan-out.
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client // conversationID -> userID -> client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.UserID]; ok {
					delete(m.clients, client.UserID)
					for _, room := range m.rooms {
						delete(room, client.UserID)
					}
					close(client.Send)
				}
				m.mutex.Unlock()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// JoinRoom adds a connected user to a conversation room.
func (m *Manager) JoinRoom(conversationID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}
	room, ok := m.rooms[conversationID]
	if !ok {
		room = make(map[string]*Client)
		m.rooms[conversationID] = room
	}
	room[userID] = client
}

// LeaveRoom removes a user from a conversation room.
func (m *Manager) LeaveRoom(conversationID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, ok := m.rooms[conversationID]; ok {
		delete(room, userID)
		if len(room) == 0 {
			delete(m.rooms, conversationID)
		}
	}
}

// SendToUser sends a message to a specific user
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if ok {
		select {
		case client.Send <- message:
		default:
			log.Printf("Dropping message for slow client %s", userID)
		}
	}
}

// SendToConversation broadcasts to everyone in a conversation room except
// excludeUserID (pass "" to include everyone).
func (m *Manager) SendToConversation(conversationID string, message []byte, excludeUserID string) {
	m.mutex.RLock()
	room := m.rooms[conversationID]
	targets := make([]*Client, 0, len(room))
	for userID, client := range room {
		if userID != excludeUserID {
			targets = append(targets, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- message:
		default:
			log.Printf("Dropping room message for slow client %s", client.UserID)
		}
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		if c.Handler != nil {
			c.Handler.HandleDisconnect(c)
		}
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		if c.Handler != nil {
			c.Handler.HandleMessage(c, message)
		}
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := c.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}
}
