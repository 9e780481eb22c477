// internal/services/events.go
package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// ShiftEvent то, что уходит подписчикам дашборда при каждом действии
type ShiftEvent struct {
	Type     string    `json:"type"`
	Action   string    `json:"action"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Hours    float64   `json:"hours,omitempty"`
	Pay      float64   `json:"pay,omitempty"`
	At       time.Time `json:"at"`
}

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type EventsManager struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewEventsManager() *EventsManager {
	manager := &EventsManager{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	go manager.Run()
	return manager
}

func (m *EventsManager) Register(client *Client) {
	m.register <- client
}

func (m *EventsManager) Unregister(client *Client) {
	m.unregister <- client
}

func (m *EventsManager) Broadcast(message []byte) {
	m.broadcast <- message
}

// BroadcastShift рассылает событие смены всем подключённым клиентам
func (m *EventsManager) BroadcastShift(ev ShiftEvent) {
	if ev.Type == "" {
		ev.Type = "shift_event"
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal shift event: %v", err)
		return
	}
	m.Broadcast(data)
}

func (m *EventsManager) Run() {
	for {
		select {
		case client := <-m.register:
			m.clients[client] = true
		case client := <-m.unregister:
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.Send)
			}
		case message := <-m.broadcast:
			for client := range m.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(m.clients, client)
				}
			}
		}
	}
}

// ReadPump подписчики ничего не шлют, читаем только чтобы заметить разрыв
func (m *EventsManager) ReadPump(client *Client) {
	defer func() {
		m.Unregister(client)
		client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (m *EventsManager) WritePump(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			client.Conn.WriteMessage(websocket.TextMessage, message)
		case <-ticker.C:
			client.Conn.WriteMessage(websocket.PingMessage, nil)
		}
	}
}
