package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/middleware"
)

func SetupPostRoutes(api fiber.Router, h *handlers.Handlers) {
	posts := api.Group("/posts", middleware.Protected(h.JWTSecret))

	posts.Post("/", h.PostHandler.Create)
	posts.Get("/", h.PostHandler.List)
	posts.Get("/:id", h.PostHandler.GetByID)
	posts.Put("/:id/reschedule", h.PostHandler.Reschedule)
	posts.Delete("/:id", h.PostHandler.Cancel)

	posts.Post("/:id/publish", h.PostHandler.PublishNow)
	posts.Post("/:id/analytics/refresh", h.PostHandler.RefreshAnalytics)
}
