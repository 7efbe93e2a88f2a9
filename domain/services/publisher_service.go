package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
)

// PublisherService รัน scheduled publish batch + analytics refresh
type PublisherService interface {
	// RunBatch ประมวลผล posts ที่ถึงเวลาแล้ว 1 รอบ
	// sequential ทีละ post พร้อม pacing delay - 1 item fail ไม่หยุด batch
	RunBatch(ctx context.Context) (*dto.PublishRunResult, error)

	// PublishNow โพสต์ post เดียวทันที (manual trigger, ข้าม schedule)
	PublishNow(ctx context.Context, userID, postID uuid.UUID) (*dto.PublishItemResult, error)

	// RefreshAnalytics ดึง analytics ของ post ที่โพสต์แล้ว 1 รายการ
	RefreshAnalytics(ctx context.Context, userID, postID uuid.UUID) error

	// RefreshAllAnalytics job รอบ daily - อัปเดต counter ของ posted posts ทั้งหมด
	RefreshAllAnalytics(ctx context.Context) error

	// RegisterJobs ผูก publish batch + analytics refresh เข้ากับ scheduler
	RegisterJobs() error
}
