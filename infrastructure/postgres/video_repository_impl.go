package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
)

type VideoRepositoryImpl struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) repositories.VideoRepository {
	return &VideoRepositoryImpl{db: db}
}

func (r *VideoRepositoryImpl) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *VideoRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepositoryImpl) GetByCode(ctx context.Context, code string) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("code = ?", code).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *VideoRepositoryImpl) GetByStatus(ctx context.Context, status models.VideoStatus, offset, limit int) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *VideoRepositoryImpl) Update(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *VideoRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status models.VideoStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateArtifacts บันทึก path ของ artifact หลังแต่ละ stage (original_path, audio_path, ฯลฯ)
func (r *VideoRepositoryImpl) UpdateArtifacts(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *VideoRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Video{}).Error
}

func (r *VideoRepositoryImpl) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// GetStuckProcessing ดึง videos ที่ processing_started_at เกิน threshold
// ใช้ตรวจจับ job ที่ค้างกลาง pipeline (worker ตาย, provider ไม่ตอบ)
func (r *VideoRepositoryImpl) GetStuckProcessing(ctx context.Context, threshold time.Time) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Where("status NOT IN ? AND processing_started_at IS NOT NULL AND processing_started_at < ?",
			[]models.VideoStatus{models.VideoStatusPending, models.VideoStatusCompleted, models.VideoStatusFailed},
			threshold).
		Order("processing_started_at ASC").
		Find(&videos).Error
	return videos, err
}

// MarkVideoFailed อัพเดท video เป็น failed พร้อม error message และ increment retry_count
func (r *VideoRepositoryImpl) MarkVideoFailed(ctx context.Context, id uuid.UUID, errorMsg string) error {
	return r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":                models.VideoStatusFailed,
			"error_message":         errorMsg,
			"last_error":            errorMsg,
			"retry_count":           gorm.Expr("retry_count + ?", 1),
			"processing_started_at": nil,
			"updated_at":            time.Now(),
		}).Error
}

// UpdateProcessingTimestamp อัพเดท processing_started_at เป็นเวลาปัจจุบัน
// เรียกทุกครั้งที่ stage คืบหน้า เพื่อ reset stuck detection timer
func (r *VideoRepositoryImpl) UpdateProcessingTimestamp(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		Update("processing_started_at", time.Now()).Error
}

// AppendErrorHistory เพิ่ม error record ลงใน error_history JSONB array
func (r *VideoRepositoryImpl) AppendErrorHistory(ctx context.Context, id uuid.UUID, record models.ErrorRecord) error {
	// struct bind ตรงๆ ไม่ได้ driver ไม่รู้จัก ต้อง marshal เป็น jsonb string ก่อน
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"error_history": gorm.Expr("COALESCE(error_history, '[]'::jsonb) || ?::jsonb", string(payload)),
			"last_error":    record.Error,
			"updated_at":    time.Now(),
		}).Error
}
