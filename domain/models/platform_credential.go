package models

import (
	"time"

	"github.com/google/uuid"
)

// PlatformCredential OAuth token ของ user ต่อ platform
// 1 user มี active credential ได้ 1 ชุดต่อ platform
type PlatformCredential struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_cred_user_platform"`
	Platform Platform  `gorm:"size:20;not null;index:idx_cred_user_platform"`

	AccessToken    string    `gorm:"type:text;not null"`
	RefreshToken   string    `gorm:"type:text"`
	TokenExpiresAt time.Time `gorm:"type:timestamptz"`
	IsActive       bool      `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlatformCredential) TableName() string {
	return "platform_credentials"
}

// IsExpired ตรวจสอบว่า token หมดอายุแล้ว
func (c *PlatformCredential) IsExpired(now time.Time) bool {
	return !c.TokenExpiresAt.IsZero() && c.TokenExpiresAt.Before(now)
}
