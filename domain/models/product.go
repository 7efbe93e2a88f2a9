package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"size:255;not null"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Price       float64   `gorm:"default:0"`
	ImageURL    string    `gorm:"type:text"`

	// StorageFolder คือ prefix ใน blob storage สำหรับเก็บ artifact ของ product นี้
	// ว่าง = ยังไม่ได้ initialize storage → production จะ reject
	StorageFolder string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Product) TableName() string {
	return "products"
}

// HasStorageFolder ตรวจสอบว่า storage พร้อมใช้งานหรือยัง
func (p *Product) HasStorageFolder() bool {
	return p.StorageFolder != ""
}
