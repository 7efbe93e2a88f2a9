package serviceimpl

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
)

func TestCreateProduct_GeneratesSlug(t *testing.T) {
	productRepo := newFakeProductRepo()
	svc := NewProductService(productRepo, newFakeVideoRepo(), newFakeStorage())
	userID := uuid.New()

	product, err := svc.CreateProduct(context.Background(), userID, &dto.CreateProductRequest{
		Name:  "Super Blender 3000",
		Price: 49.99,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Slug != "super-blender-3000" {
		t.Errorf("unexpected slug: %q", product.Slug)
	}

	// ชื่อซ้ำได้ slug ไม่ซ้ำ
	second, err := svc.CreateProduct(context.Background(), userID, &dto.CreateProductRequest{
		Name: "Super Blender 3000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Slug == product.Slug {
		t.Errorf("duplicate slug: %q", second.Slug)
	}
	if !strings.HasPrefix(second.Slug, "super-blender-3000-") {
		t.Errorf("suffixed slug should keep base: %q", second.Slug)
	}
}

func TestInitStorage(t *testing.T) {
	productRepo := newFakeProductRepo()
	storage := newFakeStorage()
	svc := NewProductService(productRepo, newFakeVideoRepo(), storage)
	userID := uuid.New()

	product, err := svc.CreateProduct(context.Background(), userID, &dto.CreateProductRequest{Name: "Gadget"})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.HasStorageFolder() {
		t.Fatal("new product should not have storage folder yet")
	}

	initialized, err := svc.InitStorage(context.Background(), userID, product.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if initialized.StorageFolder != "products/gadget" {
		t.Errorf("unexpected folder: %q", initialized.StorageFolder)
	}
	if _, _, err := storage.GetFileContent("products/gadget/.keep"); err != nil {
		t.Error("marker file should exist in storage")
	}

	// idempotent
	again, err := svc.InitStorage(context.Background(), userID, product.ID)
	if err != nil {
		t.Fatalf("second init should succeed: %v", err)
	}
	if again.StorageFolder != initialized.StorageFolder {
		t.Errorf("folder changed on re-init: %q", again.StorageFolder)
	}
}

func TestUpdateProduct_KeepsSlug(t *testing.T) {
	productRepo := newFakeProductRepo()
	svc := NewProductService(productRepo, newFakeVideoRepo(), newFakeStorage())
	userID := uuid.New()

	product, _ := svc.CreateProduct(context.Background(), userID, &dto.CreateProductRequest{Name: "Old Name"})

	newName := "New Name"
	newPrice := 10.0
	updated, err := svc.UpdateProduct(context.Background(), userID, product.ID, &dto.UpdateProductRequest{
		Name:  &newName,
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "New Name" || updated.Price != 10.0 {
		t.Errorf("fields not updated: %+v", updated)
	}
	if updated.Slug != product.Slug {
		t.Errorf("slug must stay stable, got %q", updated.Slug)
	}
}

func TestDeleteProduct_RemovesStorageFolder(t *testing.T) {
	productRepo := newFakeProductRepo()
	storage := newFakeStorage()
	svc := NewProductService(productRepo, newFakeVideoRepo(), storage)
	userID := uuid.New()

	product, _ := svc.CreateProduct(context.Background(), userID, &dto.CreateProductRequest{Name: "Doomed"})
	svc.InitStorage(context.Background(), userID, product.ID)

	if err := svc.DeleteProduct(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := productRepo.GetByID(context.Background(), product.ID); err == nil {
		t.Error("product should be deleted")
	}
	if files, _ := storage.ListFolder("products/doomed"); len(files) != 0 {
		t.Errorf("storage folder should be emptied, found %v", files)
	}
}

func TestProductOwnership(t *testing.T) {
	productRepo := newFakeProductRepo()
	svc := NewProductService(productRepo, newFakeVideoRepo(), newFakeStorage())

	owner := uuid.New()
	product, _ := svc.CreateProduct(context.Background(), owner, &dto.CreateProductRequest{Name: "Private"})

	stranger := uuid.New()
	if _, err := svc.GetProduct(context.Background(), stranger, product.ID); err != ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
	if err := svc.DeleteProduct(context.Background(), stranger, product.ID); err != ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
