package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

// ErrProductHasVideos ลบ product ไม่ได้ถ้ายังมี video อ้างอยู่
var ErrProductHasVideos = errors.New("product still has videos")

type ProductServiceImpl struct {
	productRepo repositories.ProductRepository
	videoRepo   repositories.VideoRepository
	storage     ports.StoragePort
}

func NewProductService(
	productRepo repositories.ProductRepository,
	videoRepo repositories.VideoRepository,
	storage ports.StoragePort,
) services.ProductService {
	return &ProductServiceImpl{
		productRepo: productRepo,
		videoRepo:   videoRepo,
		storage:     storage,
	}
}

func (s *ProductServiceImpl) CreateProduct(ctx context.Context, userID uuid.UUID, req *dto.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Slug:        s.uniqueSlug(ctx, req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.ErrorContext(ctx, "Failed to create product", "name", req.Name, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Product created", "product_id", product.ID, "slug", product.Slug)
	return product, nil
}

// uniqueSlug สร้าง slug จากชื่อ - ถ้าชนกับของเดิมเติม random suffix
func (s *ProductServiceImpl) uniqueSlug(ctx context.Context, name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "product"
	}

	if _, err := s.productRepo.GetBySlug(ctx, base); err != nil {
		return base
	}
	return fmt.Sprintf("%s-%s", base, utils.GenerateRandomString(6))
}

func (s *ProductServiceImpl) GetProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil || product.UserID != userID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductServiceImpl) ListProducts(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	products, err := s.productRepo.GetByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil || product.UserID != userID {
		return nil, ErrProductNotFound
	}

	// slug คงเดิมแม้เปลี่ยนชื่อ - storage folder ผูกกับ slug อยู่
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil || product.UserID != userID {
		return ErrProductNotFound
	}

	// ลบ artifacts ของ product ใน storage แบบ best-effort
	if product.HasStorageFolder() {
		if err := s.storage.DeleteFolder(product.StorageFolder); err != nil {
			logger.WarnContext(ctx, "Failed to delete product storage folder",
				"folder", product.StorageFolder, "error", err)
		}
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Product deleted", "product_id", productID, "slug", product.Slug)
	return nil
}

// InitStorage จอง blob prefix ของ product - production reject ถ้ายังไม่เรียก
func (s *ProductServiceImpl) InitStorage(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil || product.UserID != userID {
		return nil, ErrProductNotFound
	}

	// idempotent - เรียกซ้ำได้
	if product.HasStorageFolder() {
		return product, nil
	}

	folder := fmt.Sprintf("products/%s", product.Slug)

	// marker file ทำให้ prefix มีตัวตนจริงใน blob storage
	marker := folder + "/.keep"
	if _, err := s.storage.UploadFile(strings.NewReader(""), marker, "application/octet-stream"); err != nil {
		logger.ErrorContext(ctx, "Failed to initialize product storage", "folder", folder, "error", err)
		return nil, err
	}

	if err := s.productRepo.UpdateStorageFolder(ctx, productID, folder); err != nil {
		return nil, err
	}
	product.StorageFolder = folder

	logger.InfoContext(ctx, "Product storage initialized", "product_id", productID, "folder", folder)
	return product, nil
}
