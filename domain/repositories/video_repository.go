package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	GetByCode(ctx context.Context, code string) (*models.Video, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Video, error)
	GetByStatus(ctx context.Context, status models.VideoStatus, offset, limit int) ([]*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.VideoStatus) error
	// UpdateArtifacts บันทึก path ของ artifact หลัง pipeline เสร็จ
	UpdateArtifacts(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// GetStuckProcessing ดึง videos ที่ processing_started_at เกิน threshold
	GetStuckProcessing(ctx context.Context, threshold time.Time) ([]*models.Video, error)
	// MarkVideoFailed อัพเดท video เป็น failed พร้อม error message และ increment retry_count
	MarkVideoFailed(ctx context.Context, id uuid.UUID, errorMsg string) error
	// UpdateProcessingTimestamp อัพเดท processing_started_at เพื่อ reset stuck detection timer
	UpdateProcessingTimestamp(ctx context.Context, id uuid.UUID) error
	// AppendErrorHistory เพิ่ม error record ลงใน error_history
	AppendErrorHistory(ctx context.Context, id uuid.UUID, record models.ErrorRecord) error
}
