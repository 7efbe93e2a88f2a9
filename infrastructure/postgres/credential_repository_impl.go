package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
)

type CredentialRepositoryImpl struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) repositories.CredentialRepository {
	return &CredentialRepositoryImpl{db: db}
}

func (r *CredentialRepositoryImpl) Create(ctx context.Context, cred *models.PlatformCredential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}

// GetActive ดึง credential ที่ active ล่าสุดของ user+platform
func (r *CredentialRepositoryImpl) GetActive(ctx context.Context, userID uuid.UUID, platform models.Platform) (*models.PlatformCredential, error) {
	var cred models.PlatformCredential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform = ? AND is_active = ?", userID, platform, true).
		Order("created_at DESC").
		First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *CredentialRepositoryImpl) Update(ctx context.Context, cred *models.PlatformCredential) error {
	return r.db.WithContext(ctx).Save(cred).Error
}

// DeactivateAll ปิด credential เดิมทั้งหมดของ user+platform ก่อนบันทึกชุดใหม่
func (r *CredentialRepositoryImpl) DeactivateAll(ctx context.Context, userID uuid.UUID, platform models.Platform) error {
	return r.db.WithContext(ctx).
		Model(&models.PlatformCredential{}).
		Where("user_id = ? AND platform = ?", userID, platform).
		Update("is_active", false).Error
}

func (r *CredentialRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PlatformCredential{}).Error
}
