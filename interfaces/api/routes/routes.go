package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	wshub "github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/websocket"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, hub *wshub.Hub) {
	SetupHealthRoutes(app, hub)

	api := app.Group("/api/v1")

	SetupProductRoutes(api, h)
	SetupVideoRoutes(api, h)
	SetupPostRoutes(api, h)
	SetupPublisherRoutes(api, h)
	SetupPlatformRoutes(api, h)

	// WebSocket อยู่นอก api group
	SetupWebSocketRoutes(app, h, hub)
}
