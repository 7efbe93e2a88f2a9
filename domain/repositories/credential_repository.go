package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

type CredentialRepository interface {
	Create(ctx context.Context, cred *models.PlatformCredential) error
	// GetActive ดึง credential ที่ active ของ user+platform (nil, gorm.ErrRecordNotFound ถ้าไม่มี)
	GetActive(ctx context.Context, userID uuid.UUID, platform models.Platform) (*models.PlatformCredential, error)
	Update(ctx context.Context, cred *models.PlatformCredential) error
	// DeactivateAll ปิด credential เดิมทั้งหมดของ user+platform ก่อนบันทึกชุดใหม่
	DeactivateAll(ctx context.Context, userID uuid.UUID, platform models.Platform) error
	Delete(ctx context.Context, id uuid.UUID) error
}
