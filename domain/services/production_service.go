package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

// ProductionService คุม video production pipeline ทั้งหมด
type ProductionService interface {
	// StartProduction validate request สร้าง video record แล้ว enqueue เข้า worker pool
	// return ทันที (202) - pipeline ทำงานเบื้องหลัง
	StartProduction(ctx context.Context, userID uuid.UUID, req *dto.GenerateVideoRequest) (*dto.GenerateVideoResponse, error)

	// GetStatus ดึงสถานะ + progress: tracker hit = live data, miss = durable record + estimate
	GetStatus(ctx context.Context, userID, videoID uuid.UUID) (*dto.VideoStatusResponse, error)

	// GetVideo ดึง video record (เฉพาะของ user)
	GetVideo(ctx context.Context, userID, videoID uuid.UUID) (*models.Video, error)

	// ListVideos ดึง videos ของ user
	ListVideos(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Video, int64, error)

	// DeleteVideo ลบ video - reject ถ้า pipeline กำลังทำงาน
	DeleteVideo(ctx context.Context, userID, videoID uuid.UUID) error
}
