package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/progress"
)

// Hub จัดการ WebSocket connections ต่อ user
// 1 user = 1 connection (connection ใหม่แทนที่อันเก่า)
type Hub struct {
	clients         map[*websocket.Conn]Client
	userConnections map[uuid.UUID]*websocket.Conn
	register        chan Client
	unregister      chan *websocket.Conn
	broadcast       chan BroadcastMessage
	mutex           sync.RWMutex
}

type Client struct {
	Conn   *websocket.Conn
	UserID uuid.UUID
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type BroadcastMessage struct {
	Message Message
	UserID  *uuid.UUID // nil = ทุก client
}

func NewHub() *Hub {
	h := &Hub{
		clients:         make(map[*websocket.Conn]Client),
		userConnections: make(map[uuid.UUID]*websocket.Conn),
		register:        make(chan Client),
		unregister:      make(chan *websocket.Conn),
		broadcast:       make(chan BroadcastMessage),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()

			// ปิด connection เก่าของ user (กัน duplicate จาก reconnect)
			if oldConn, exists := h.userConnections[client.UserID]; exists {
				delete(h.clients, oldConn)
				oldConn.Close()
			}

			h.clients[client.Conn] = client
			h.userConnections[client.UserID] = client.Conn
			h.mutex.Unlock()

			logger.Debug("WebSocket client connected", "user_id", client.UserID)

		case conn := <-h.unregister:
			h.mutex.Lock()
			if client, ok := h.clients[conn]; ok {
				delete(h.clients, conn)

				if currentConn, exists := h.userConnections[client.UserID]; exists && currentConn == conn {
					delete(h.userConnections, client.UserID)
				}

				conn.Close()
				logger.Debug("WebSocket client disconnected", "user_id", client.UserID)
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.RLock()
			if message.UserID != nil {
				if conn, exists := h.userConnections[*message.UserID]; exists {
					h.sendMessage(conn, message.Message)
				}
			} else {
				for conn := range h.clients {
					h.sendMessage(conn, message.Message)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

func (h *Hub) sendMessage(conn *websocket.Conn, message Message) {
	if err := conn.WriteJSON(message); err != nil {
		logger.Warn("WebSocket send failed", "error", err)
		go func() { h.unregister <- conn }()
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, userID uuid.UUID) {
	h.register <- Client{Conn: conn, UserID: userID}
}

func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.unregister <- conn
}

// BroadcastToUser ส่ง message ไปที่ connection ของ user เดียว
func (h *Hub) BroadcastToUser(userID uuid.UUID, messageType string, data interface{}) {
	h.broadcast <- BroadcastMessage{
		Message: Message{Type: messageType, Data: data},
		UserID:  &userID,
	}
}

// BroadcastToAll ส่ง message ไปทุก client
func (h *Hub) BroadcastToAll(messageType string, data interface{}) {
	h.broadcast <- BroadcastMessage{
		Message: Message{Type: messageType, Data: data},
	}
}

// NotifyProgress implements progress.Notifier
// ส่ง production progress update ไปยัง user เจ้าของงาน
func (h *Hub) NotifyProgress(userID uuid.UUID, data *progress.JobData) {
	h.BroadcastToUser(userID, "video_progress", data)
}

// TotalClients จำนวน client ที่เชื่อมต่ออยู่
func (h *Hub) TotalClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

var _ progress.Notifier = (*Hub)(nil)
