package serviceimpl

import (
	"context"
	"time"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/config"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/scheduler"
)

const stuckDetectorJobID = "stuck_detector"

// StuckDetectorService ตรวจจับ production jobs ที่ค้างกลางทาง
// (worker crash, process restart) แล้ว mark เป็น failed
type StuckDetectorService struct {
	videoRepo repositories.VideoRepository
	scheduler scheduler.EventScheduler
	config    *config.Config
}

func NewStuckDetectorService(
	videoRepo repositories.VideoRepository,
	eventScheduler scheduler.EventScheduler,
	cfg *config.Config,
) *StuckDetectorService {
	return &StuckDetectorService{
		videoRepo: videoRepo,
		scheduler: eventScheduler,
		config:    cfg,
	}
}

// RegisterDetectorJob ลงทะเบียน detector เข้า cron scheduler
func (s *StuckDetectorService) RegisterDetectorJob() error {
	return s.scheduler.AddJob(stuckDetectorJobID, s.config.Production.StuckCheckCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		s.RunDetection(ctx)
	})
}

// RunDetection ตรวจสอบ videos ที่ processing_started_at เกิน threshold
// แล้ว mark เป็น failed - pipeline ใหม่ของ video เดิมจะ reset timestamp เอง
func (s *StuckDetectorService) RunDetection(ctx context.Context) int {
	threshold := time.Now().Add(-s.config.Production.ProcessingTimeout)

	stuckVideos, err := s.videoRepo.GetStuckProcessing(ctx, threshold)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get stuck processing videos", "error", err)
		return 0
	}

	count := 0
	for _, video := range stuckVideos {
		logger.WarnContext(ctx, "Detected stuck production video",
			"video_id", video.ID,
			"video_code", video.Code,
			"status", video.Status,
			"processing_started_at", video.ProcessingStartedAt,
			"timeout", s.config.Production.ProcessingTimeout,
		)

		errorMsg := "processing timed out: pipeline did not advance within " + s.config.Production.ProcessingTimeout.String()
		if err := s.videoRepo.MarkVideoFailed(ctx, video.ID, errorMsg); err != nil {
			logger.ErrorContext(ctx, "Failed to mark stuck video as failed", "video_id", video.ID, "error", err)
			continue
		}
		count++
	}

	if count > 0 {
		logger.InfoContext(ctx, "Stuck detection completed", "marked_failed", count)
	}
	return count
}
