package platform

import (
	"fmt"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

// Registry รวม adapter ทุก platform ไว้ lookup ตามชื่อ
type Registry struct {
	adapters map[models.Platform]ports.PlatformAdapter
}

func NewRegistry(adapters ...ports.PlatformAdapter) *Registry {
	r := &Registry{
		adapters: make(map[models.Platform]ports.PlatformAdapter, len(adapters)),
	}
	for _, adapter := range adapters {
		r.adapters[models.Platform(adapter.Name())] = adapter
	}
	return r
}

// Get ดึง adapter ของ platform (error ถ้าไม่รองรับ)
func (r *Registry) Get(platform models.Platform) (ports.PlatformAdapter, error) {
	adapter, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
	return adapter, nil
}

// Platforms รายชื่อ platform ที่รองรับ
func (r *Registry) Platforms() []models.Platform {
	platforms := make([]models.Platform, 0, len(r.adapters))
	for platform := range r.adapters {
		platforms = append(platforms, platform)
	}
	return platforms
}
