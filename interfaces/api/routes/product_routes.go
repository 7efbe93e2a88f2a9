package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/middleware"
)

func SetupProductRoutes(api fiber.Router, h *handlers.Handlers) {
	products := api.Group("/products", middleware.Protected(h.JWTSecret))

	products.Post("/", h.ProductHandler.Create)
	products.Get("/", h.ProductHandler.List)
	products.Get("/:id", h.ProductHandler.GetByID)
	products.Put("/:id", h.ProductHandler.Update)
	products.Delete("/:id", h.ProductHandler.Delete)

	// ต้องเรียกก่อนสั่ง production ของ product นั้น
	products.Post("/:id/storage", h.ProductHandler.InitStorage)
}
