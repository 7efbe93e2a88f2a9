package dto

// CreateProductRequest สร้าง product ใหม่
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"min=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

// UpdateProductRequest อัปเดต product
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
}

// ProductResponse รายละเอียด product
type ProductResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	StorageFolder string  `json:"storageFolder,omitempty"`
	StorageReady  bool    `json:"storageReady"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}
