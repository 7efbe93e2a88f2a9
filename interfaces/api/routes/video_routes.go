package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/middleware"
)

func SetupVideoRoutes(api fiber.Router, h *handlers.Handlers) {
	videos := api.Group("/videos", middleware.Protected(h.JWTSecret))

	videos.Post("/generate", h.VideoHandler.Generate) // 202 - pipeline ทำงานเบื้องหลัง
	videos.Get("/", h.VideoHandler.List)
	videos.Get("/:id", h.VideoHandler.GetByID)
	videos.Get("/:id/status", h.VideoHandler.GetStatus)
	videos.Delete("/:id", h.VideoHandler.Delete)
}
