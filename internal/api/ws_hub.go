package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"agroledger/server/internal/events"

	"github.com/gorilla/websocket"
)

// Hub управляет WebSocket соединениями клиентов учета
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.RWMutex
}

// NewHub создает хаб с буферизованным каналом рассылки
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
	}
}

// Run рассылает сообщения до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			var failed []*websocket.Conn
			h.mutex.RLock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, msg); err != nil {
					failed = append(failed, client)
				}
			}
			h.mutex.RUnlock()
			for _, client := range failed {
				h.RemoveClient(client)
			}
		}
	}
}

// AddClient добавляет нового клиента
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
}

// RemoveClient удаляет клиента
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mutex.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mutex.Unlock()
}

// BroadcastMessage отправляет сообщение всем подключенным клиентам
func (h *Hub) BroadcastMessage(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		// Канал переполнен: сообщение пропускается, запрос не блокируется
		return false
	}
}

// GetClientsCount возвращает количество подключенных клиентов
func (h *Hub) GetClientsCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.mutex.Unlock()
}

// HubPublisher пересылает события учета WebSocket клиентам
type HubPublisher struct {
	hub *Hub
}

// NewHubPublisher создает получателя событий поверх хаба
func NewHubPublisher(hub *Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("websocket: сериализация события %s: %w", event.Type, err)
	}
	if !p.hub.BroadcastMessage(data) {
		return fmt.Errorf("websocket: очередь рассылки переполнена, событие %s пропущено", event.Type)
	}
	return nil
}
