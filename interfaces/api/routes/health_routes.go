package routes

import (
	"github.com/gofiber/fiber/v2"

	wshub "github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/websocket"
)

func SetupHealthRoutes(app *fiber.App, hub *wshub.Hub) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "ok",
			"ws_clients": hub.TotalClients(),
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Video Poster API",
			"version": "1.0.0",
			"docs":    "/api/v1",
			"health":  "/health",
		})
	})
}
