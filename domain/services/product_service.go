package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

// ProductService จัดการ product catalog (collaborator surface ของ production)
type ProductService interface {
	CreateProduct(ctx context.Context, userID uuid.UUID, req *dto.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Product, int64, error)
	UpdateProduct(ctx context.Context, userID, productID uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error

	// InitStorage สร้าง blob folder ของ product (slug-based prefix)
	// production reject ถ้ายังไม่เรียก
	InitStorage(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
}
