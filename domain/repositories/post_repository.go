package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Post, error)
	GetByVideoID(ctx context.Context, videoID uuid.UUID) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// GetDue ดึง posts ที่ status=scheduled และ scheduled_at <= now
	// เรียง scheduled_at จากเก่าไปใหม่ จำกัดจำนวนตาม limit
	GetDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error)

	// GetPostedForAnalytics ดึง posts ที่โพสต์แล้วสำหรับ analytics refresh
	GetPostedForAnalytics(ctx context.Context, syncedBefore time.Time, limit int) ([]*models.Post, error)

	// MarkPosted อัพเดทผลโพสต์สำเร็จ (status, external id/url, posted_at, clear error)
	MarkPosted(ctx context.Context, id uuid.UUID, externalPostID, externalURL string, postedAt time.Time) error

	// MarkFailed อัพเดทผลโพสต์ล้มเหลวพร้อม error message
	MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error

	// UpdateAnalytics บันทึก counter snapshot + analytics_synced_at
	UpdateAnalytics(ctx context.Context, id uuid.UUID, analytics map[string]interface{}, syncedAt time.Time) error
}
