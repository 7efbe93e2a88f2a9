package handlers

import (
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/platform"
)

// Services dependencies ทั้งหมดที่ handlers ต้องใช้
type Services struct {
	ProductionService services.ProductionService
	PostService       services.PostService
	PublisherService  services.PublisherService
	ProductService    services.ProductService
	StoragePort       ports.StoragePort
	YouTubeAdapter    *platform.YouTubeAdapter // OAuth flow (nil ถ้าไม่ได้ config)
	JWTSecret         string
}

// Handlers รวม HTTP handlers ทั้งหมด
type Handlers struct {
	VideoHandler     *VideoHandler
	PostHandler      *PostHandler
	PublisherHandler *PublisherHandler
	ProductHandler   *ProductHandler
	PlatformHandler  *PlatformHandler
	JWTSecret        string
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		VideoHandler:     NewVideoHandler(services.ProductionService, services.StoragePort),
		PostHandler:      NewPostHandler(services.PostService, services.PublisherService),
		PublisherHandler: NewPublisherHandler(services.PublisherService),
		ProductHandler:   NewProductHandler(services.ProductService),
		PlatformHandler:  NewPlatformHandler(services.YouTubeAdapter),
		JWTSecret:        services.JWTSecret,
	}
}
