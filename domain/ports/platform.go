package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrCredentialNotFound ไม่มี credential ที่ active สำหรับ user+platform
var ErrCredentialNotFound = errors.New("platform credential not found")

// ErrCredentialExpired token หมดอายุและ refresh ไม่ได้
var ErrCredentialExpired = errors.New("platform credential expired")

// PostVideoRequest ข้อมูลที่ adapter ใช้โพสต์วิดีโอ
type PostVideoRequest struct {
	UserID   uuid.UUID
	VideoURL string
	Caption  string
	Hashtags []string
}

// PostVideoResult ผลลัพธ์ normalized จาก platform
// adapter ต้องไม่ leak provider error/response shape ออกมา
type PostVideoResult struct {
	ExternalPostID string
	URL            string
	PostedAt       time.Time
}

// Analytics counter snapshot จาก platform
type Analytics struct {
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
	Clicks   int64
}

// PlatformAdapter interface ต่อ 1 platform
type PlatformAdapter interface {
	// Name ชื่อ platform ที่ adapter นี้รับผิดชอบ
	Name() string

	// PostVideo โพสต์วิดีโอขึ้น platform
	PostVideo(ctx context.Context, req *PostVideoRequest) (*PostVideoResult, error)

	// GetAnalytics ดึง counter ของ post ที่โพสต์ไปแล้ว
	GetAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*Analytics, error)

	// GetToken resolve access token ที่ใช้งานได้ของ user
	// return ErrCredentialNotFound / ErrCredentialExpired เมื่อใช้ไม่ได้
	GetToken(ctx context.Context, userID uuid.UUID) (string, error)
}
