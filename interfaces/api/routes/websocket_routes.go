package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wshub "github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/websocket"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/middleware"
	websocketHandler "github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, h *handlers.Handlers, hub *wshub.Hub) {
	wsHandler := websocketHandler.NewWebSocketHandler(hub)

	app.Use("/ws", middleware.Optional(h.JWTSecret), wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
