package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/annaclean/cleanmarket-backend/internal/goroutine"
	"github.com/annaclean/cleanmarket-backend/internal/logger"
)

// События, которые сервер отправляет по WebSocket.
const (
	EventQuoteReceived   = "quote.received"
	EventQuoteCountered  = "quote.countered"
	EventMessageReceived = "message.received"
	EventBillUpdated     = "bill.updated"
	EventBillDisputed    = "bill.disputed"
)

// Hub управляет всеми WebSocket подключениями. Клиенты группируются по
// идентификатору, администраторы дополнительно попадают в общий пул —
// событие для администратора доставляется во все их подключения.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	admins     map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	// clientID == uuid.Nil означает рассылку всем администраторам.
	clientID uuid.UUID
	payload  []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		admins:     make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.clientID, msg.payload)
		}
	}
}

// Register добавляет подключение.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет подключение.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifyClient отправляет событие во все подключения клиента.
func (h *Hub) NotifyClient(clientID uuid.UUID, event string, data any) error {
	raw, err := marshalEvent(event, data)
	if err != nil {
		return err
	}

	h.broadcast <- message{clientID: clientID, payload: raw}
	return nil
}

// NotifyAdmins отправляет событие всем подключённым администраторам.
func (h *Hub) NotifyAdmins(event string, data any) error {
	raw, err := marshalEvent(event, data)
	if err != nil {
		return err
	}

	h.broadcast <- message{clientID: uuid.Nil, payload: raw}
	return nil
}

// marshalEvent сериализует событие в контракт WebSocket API:
// поле "type" содержит имя события, "data" — полезную нагрузку.
func marshalEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return nil, fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}
	return raw, nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.clientID]; !ok {
		h.clients[client.clientID] = make(map[*Client]struct{})
	}
	h.clients[client.clientID][client] = struct{}{}

	if client.isAdmin {
		h.admins[client] = struct{}{}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.clientID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.clientID)
		}
	}
	delete(h.admins, client)
}

func (h *Hub) send(clientID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.clients[clientID]
	if clientID == uuid.Nil {
		targets = h.admins
	}

	for client := range targets {
		select {
		case client.send <- payload:
		default:
			// Переполненный буфер означает мёртвое подключение.
			c := client
			goroutine.SafeGo(func() {
				c.Close()
			})
			logger.WithComponent("ws").WithField("client_id", c.clientID).
				Warn("буфер отправки переполнен, подключение закрыто")
		}
	}
}
