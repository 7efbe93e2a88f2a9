package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
)

type PostRepositoryImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) repositories.PostRepository {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Video").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Video").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepositoryImpl) GetByVideoID(ctx context.Context, videoID uuid.UUID) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *PostRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error {
	fields := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	// ล้าง error เก่าเมื่อกลับเข้า flow ปกติ ไม่ให้ message ค้างข้าม transition
	if status != models.PostStatusFailed {
		fields["error_message"] = ""
	}
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error
}

func (r *PostRepositoryImpl) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// GetDue ดึง posts ที่ถึงกำหนดโพสต์ เรียงจาก scheduled_at เก่าสุดก่อน
func (r *PostRepositoryImpl) GetDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Video").
		Where("status = ? AND scheduled_at <= ?", models.PostStatusScheduled, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// GetPostedForAnalytics ดึง posts ที่โพสต์แล้วและยังไม่ sync analytics รอบนี้
func (r *PostRepositoryImpl) GetPostedForAnalytics(ctx context.Context, syncedBefore time.Time, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND external_post_id != '' AND (analytics_synced_at IS NULL OR analytics_synced_at < ?)",
			models.PostStatusPosted, syncedBefore).
		Order("posted_at ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// MarkPosted บันทึกผลโพสต์สำเร็จ
func (r *PostRepositoryImpl) MarkPosted(ctx context.Context, id uuid.UUID, externalPostID, externalURL string, postedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           models.PostStatusPosted,
			"external_post_id": externalPostID,
			"external_url":     externalURL,
			"posted_at":        postedAt,
			"error_message":    "",
			"updated_at":       time.Now(),
		}).Error
}

// MarkFailed บันทึกผลโพสต์ล้มเหลวพร้อม error message
func (r *PostRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.PostStatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		}).Error
}

// UpdateAnalytics บันทึก counter snapshot จาก platform
func (r *PostRepositoryImpl) UpdateAnalytics(ctx context.Context, id uuid.UUID, analytics map[string]interface{}, syncedAt time.Time) error {
	fields := make(map[string]interface{}, len(analytics)+2)
	for k, v := range analytics {
		fields[k] = v
	}
	fields["analytics_synced_at"] = syncedAt
	fields["updated_at"] = time.Now()

	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(fields).Error
}
