package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Platform ช่องทางที่รองรับการโพสต์
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
)

// IsValid ตรวจสอบว่าเป็น platform ที่รองรับ
func (p Platform) IsValid() bool {
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram:
		return true
	}
	return false
}

// PostStatus สถานะของ post
// draft → scheduled → posting → posted | failed (จาก posting เท่านั้น)
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPosting   PostStatus = "posting"
	PostStatusPosted    PostStatus = "posted"
	PostStatusFailed    PostStatus = "failed"
)

// Hashtags เก็บ hashtag list เป็น jsonb
type Hashtags []string

// Scan implements sql.Scanner for Hashtags
func (h *Hashtags) Scan(value interface{}) error {
	if value == nil {
		*h = Hashtags{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// Value implements driver.Valuer for Hashtags
func (h Hashtags) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

type Post struct {
	ID      uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	VideoID uuid.UUID `gorm:"type:uuid;not null;index"`

	Platform Platform   `gorm:"size:20;not null;index"`
	Status   PostStatus `gorm:"size:20;default:'draft';index"`

	Caption  string   `gorm:"type:text"`
	Hashtags Hashtags `gorm:"type:jsonb;default:'[]'"`

	// ScheduledAt ต้องเป็นเวลาอนาคตเมื่อ status = scheduled
	ScheduledAt *time.Time `gorm:"type:timestamptz;index"`

	// set เมื่อ posted เท่านั้น
	PostedAt       *time.Time `gorm:"type:timestamptz"`
	ExternalPostID string     `gorm:"size:255"`
	ExternalURL    string     `gorm:"type:text"`

	// Analytics snapshot (อัปเดตโดย analytics refresh job)
	Views             int64      `gorm:"default:0"`
	Likes             int64      `gorm:"default:0"`
	Comments          int64      `gorm:"default:0"`
	Shares            int64      `gorm:"default:0"`
	Clicks            int64      `gorm:"default:0"`
	AnalyticsSyncedAt *time.Time `gorm:"type:timestamptz"`

	// non-empty เฉพาะตอน failed - clear เมื่อเปลี่ยนไปสถานะอื่น
	ErrorMessage string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Video *Video `gorm:"foreignKey:VideoID"`
}

func (Post) TableName() string {
	return "posts"
}

// IsPosted ตรวจสอบว่าโพสต์สำเร็จแล้ว
func (p *Post) IsPosted() bool {
	return p.Status == PostStatusPosted
}

// IsScheduled ตรวจสอบว่ารอเวลาโพสต์อยู่
func (p *Post) IsScheduled() bool {
	return p.Status == PostStatusScheduled
}

// CanCancel ยกเลิกได้เฉพาะ draft กับ scheduled
func (p *Post) CanCancel() bool {
	return p.Status == PostStatusDraft || p.Status == PostStatusScheduled
}

// CanReschedule เลื่อนเวลาได้เฉพาะตอนยัง scheduled
func (p *Post) CanReschedule() bool {
	return p.Status == PostStatusScheduled
}

// IsDue ตรวจสอบว่าถึงเวลาโพสต์แล้ว
func (p *Post) IsDue(now time.Time) bool {
	return p.Status == PostStatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now)
}
