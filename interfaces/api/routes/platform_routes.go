package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/middleware"
)

func SetupPlatformRoutes(api fiber.Router, h *handlers.Handlers) {
	platforms := api.Group("/platforms")

	// auth URL ต้อง login - callback มาจาก browser redirect ของ provider
	platforms.Get("/youtube/auth", middleware.Protected(h.JWTSecret), h.PlatformHandler.YouTubeAuthURL)
	platforms.Get("/youtube/callback", h.PlatformHandler.YouTubeCallback)
}
