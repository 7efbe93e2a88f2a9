package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	wshub "github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/websocket"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

// WebSocketHandler ผูก websocket connection เข้ากับ hub
// client รับ video_progress updates ผ่าน connection นี้
type WebSocketHandler struct {
	hub *wshub.Hub
}

func NewWebSocketHandler(hub *wshub.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	var userID uuid.UUID

	// user context มาจาก Optional middleware
	if userContext := c.Locals("user"); userContext != nil {
		if user, ok := userContext.(*utils.UserContext); ok {
			userID = user.ID
		}
	}

	// anonymous client ได้ ephemeral id - ไม่ได้รับ progress ของใคร
	if userID == uuid.Nil {
		userID = uuid.New()
	}

	h.hub.RegisterClient(c, userID)
	defer h.hub.UnregisterClient(c)

	// อ่านทิ้งเพื่อตรวจจับ disconnect - protocol เป็น server push อย่างเดียว
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			logger.Debug("WebSocket connection closed", "user_id", userID, "error", err)
			break
		}
	}
}
