package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	// UpdateStorageFolder บันทึก blob prefix หลัง initialize storage
	UpdateStorageFolder(ctx context.Context, id uuid.UUID, folder string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
