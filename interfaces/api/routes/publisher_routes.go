package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/middleware"
)

// SetupPublisherRoutes manual trigger ของ publisher jobs
func SetupPublisherRoutes(api fiber.Router, h *handlers.Handlers) {
	publisher := api.Group("/publisher", middleware.Protected(h.JWTSecret))

	publisher.Post("/run", h.PublisherHandler.RunBatch)
	publisher.Post("/analytics/refresh", h.PublisherHandler.RefreshAllAnalytics)
}
