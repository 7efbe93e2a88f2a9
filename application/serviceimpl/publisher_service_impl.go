package serviceimpl

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/platform"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/redis"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/config"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/scheduler"
)

// Publisher errors
var (
	ErrPostNotPublishable = errors.New("post cannot be published in its current state")
	ErrPostNotPosted      = errors.New("post has not been posted yet")
)

const (
	publisherJobID = "publisher_batch"
	analyticsJobID = "analytics_refresh"

	// lock กันหลาย instance รัน batch พร้อมกัน
	publisherLockKey = "publisher:batch:lock"
	publisherLockTTL = 10 * time.Minute
)

type PublisherServiceImpl struct {
	postRepo    repositories.PostRepository
	videoRepo   repositories.VideoRepository
	registry    *platform.Registry
	storage     ports.StoragePort
	publisher   ports.EventPublisherPort // optional, best-effort
	redisClient *redis.Client            // optional - ไม่มี = ข้าม distributed lock
	scheduler   scheduler.EventScheduler
	config      *config.Config
}

func NewPublisherService(
	postRepo repositories.PostRepository,
	videoRepo repositories.VideoRepository,
	registry *platform.Registry,
	storage ports.StoragePort,
	publisher ports.EventPublisherPort,
	redisClient *redis.Client,
	sched scheduler.EventScheduler,
	cfg *config.Config,
) services.PublisherService {
	return &PublisherServiceImpl{
		postRepo:    postRepo,
		videoRepo:   videoRepo,
		registry:    registry,
		storage:     storage,
		publisher:   publisher,
		redisClient: redisClient,
		scheduler:   sched,
		config:      cfg,
	}
}

// RunBatch ประมวลผล posts ที่ถึงกำหนดแล้ว 1 รอบ
// default คือ sequential ทีละ post พร้อม pacing delay - failure ของ item หนึ่งไม่หยุด batch
func (s *PublisherServiceImpl) RunBatch(ctx context.Context) (*dto.PublishRunResult, error) {
	if s.redisClient != nil {
		locked, err := s.redisClient.AcquireLock(ctx, publisherLockKey, publisherLockTTL)
		if err != nil {
			logger.WarnContext(ctx, "Publisher lock check failed, proceeding without lock", "error", err)
		} else if !locked {
			logger.InfoContext(ctx, "Publisher batch skipped - another instance is running")
			return &dto.PublishRunResult{}, nil
		} else {
			defer s.redisClient.ReleaseLock(ctx, publisherLockKey)
		}
	}

	now := time.Now()
	due, err := s.postRepo.GetDue(ctx, now, s.config.Publisher.BatchSize)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch due posts", "error", err)
		return nil, err
	}

	result := &dto.PublishRunResult{Results: make([]dto.PublishItemResult, 0, len(due))}
	if len(due) == 0 {
		return result, nil
	}

	logger.InfoContext(ctx, "Publisher batch started",
		"due", len(due), "sequential", s.config.Publisher.Sequential)

	if s.config.Publisher.Sequential {
		if err := s.runSequential(ctx, due, result); err != nil {
			return result, err
		}
	} else {
		s.runConcurrent(ctx, due, result)
	}

	logger.InfoContext(ctx, "Publisher batch finished",
		"processed", result.Processed, "successful", result.Successful, "failed", result.Failed)
	return result, nil
}

// runSequential โพสต์ทีละ item พร้อม pacing delay กัน rate limit ของ platform
func (s *PublisherServiceImpl) runSequential(ctx context.Context, due []*models.Post, result *dto.PublishRunResult) error {
	for i, post := range due {
		collectPublishResult(result, s.publishOne(ctx, post))

		if i < len(due)-1 && s.config.Publisher.ItemDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.Publisher.ItemDelay):
			}
		}
	}
	return nil
}

// runConcurrent ยิงทุก item พร้อมกัน - เปิดผ่าน PUBLISHER_SEQUENTIAL=false
// เหมาะเมื่อ batch กระจายหลาย platform และ adapter จัดการ retry/timeout เองแล้ว
func (s *PublisherServiceImpl) runConcurrent(ctx context.Context, due []*models.Post, result *dto.PublishRunResult) {
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, post := range due {
		wg.Add(1)
		go func(post *models.Post) {
			defer wg.Done()
			item := s.publishOne(ctx, post)
			mu.Lock()
			collectPublishResult(result, item)
			mu.Unlock()
		}(post)
	}
	wg.Wait()
}

func collectPublishResult(result *dto.PublishRunResult, item *dto.PublishItemResult) {
	result.Processed++
	if item.Success {
		result.Successful++
	} else {
		result.Failed++
	}
	result.Results = append(result.Results, *item)
}

// publishOne โพสต์ 1 post ขึ้น platform และบันทึกผล
func (s *PublisherServiceImpl) publishOne(ctx context.Context, post *models.Post) *dto.PublishItemResult {
	item := &dto.PublishItemResult{
		PostID:   post.ID.String(),
		Platform: string(post.Platform),
	}

	fail := func(err error) *dto.PublishItemResult {
		logger.WarnContext(ctx, "Post publish failed",
			"post_id", post.ID, "platform", post.Platform, "error", err)
		if markErr := s.postRepo.MarkFailed(ctx, post.ID, err.Error()); markErr != nil {
			logger.ErrorContext(ctx, "Failed to mark post as failed", "post_id", post.ID, "error", markErr)
		}
		item.Error = err.Error()
		s.publishEvent(post, item)
		return item
	}

	if err := s.postRepo.UpdateStatus(ctx, post.ID, models.PostStatusPosting); err != nil {
		item.Error = err.Error()
		return item
	}

	videoURL, err := s.resolveVideoURL(ctx, post)
	if err != nil {
		return fail(err)
	}

	adapter, err := s.registry.Get(post.Platform)
	if err != nil {
		return fail(err)
	}

	posted, err := adapter.PostVideo(ctx, &ports.PostVideoRequest{
		UserID:   post.UserID,
		VideoURL: videoURL,
		Caption:  post.Caption,
		Hashtags: post.Hashtags,
	})
	if err != nil {
		return fail(err)
	}

	postedAt := posted.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}
	if err := s.postRepo.MarkPosted(ctx, post.ID, posted.ExternalPostID, posted.URL, postedAt); err != nil {
		logger.ErrorContext(ctx, "Failed to mark post as posted", "post_id", post.ID, "error", err)
		return fail(err)
	}

	item.Success = true
	item.ExternalPostID = posted.ExternalPostID
	item.ExternalURL = posted.URL
	s.publishEvent(post, item)

	logger.InfoContext(ctx, "Post published",
		"post_id", post.ID, "platform", post.Platform, "external_id", posted.ExternalPostID)
	return item
}

// resolveVideoURL หา URL ของ optimized video สำหรับส่งให้ platform
func (s *PublisherServiceImpl) resolveVideoURL(ctx context.Context, post *models.Post) (string, error) {
	video := post.Video
	if video == nil {
		loaded, err := s.videoRepo.GetByID(ctx, post.VideoID)
		if err != nil {
			return "", ErrVideoNotFound
		}
		video = loaded
	}

	if !video.IsCompleted() || video.OptimizedPath == "" {
		return "", ErrVideoNotReady
	}
	return s.storage.GetFileURL(video.OptimizedPath), nil
}

// publishEvent แจ้งผลออก messaging แบบ best-effort
func (s *PublisherServiceImpl) publishEvent(post *models.Post, item *dto.PublishItemResult) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishPostResult(&ports.PostPublishedEvent{
		PostID:         post.ID.String(),
		Platform:       string(post.Platform),
		Success:        item.Success,
		ExternalPostID: item.ExternalPostID,
		Error:          item.Error,
	})
	if err != nil {
		logger.Warn("Failed to publish post result event", "post_id", post.ID, "error", err)
	}
}

// PublishNow โพสต์ post เดียวทันที ข้าม schedule (manual trigger)
func (s *PublisherServiceImpl) PublishNow(ctx context.Context, userID, postID uuid.UUID) (*dto.PublishItemResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil || post.UserID != userID {
		return nil, ErrPostNotFound
	}

	// โพสต์ทันทีได้จาก draft, scheduled หรือ failed (retry)
	switch post.Status {
	case models.PostStatusDraft, models.PostStatusScheduled, models.PostStatusFailed:
	default:
		return nil, ErrPostNotPublishable
	}

	return s.publishOne(ctx, post), nil
}

// RefreshAnalytics ดึง counter snapshot ของ post เดียวจาก platform
func (s *PublisherServiceImpl) RefreshAnalytics(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil || post.UserID != userID {
		return ErrPostNotFound
	}
	return s.refreshPost(ctx, post)
}

func (s *PublisherServiceImpl) refreshPost(ctx context.Context, post *models.Post) error {
	if !post.IsPosted() || post.ExternalPostID == "" {
		return ErrPostNotPosted
	}

	adapter, err := s.registry.Get(post.Platform)
	if err != nil {
		return err
	}

	analytics, err := adapter.GetAnalytics(ctx, post.UserID, post.ExternalPostID)
	if err != nil {
		return err
	}

	return s.postRepo.UpdateAnalytics(ctx, post.ID, map[string]interface{}{
		"views":    analytics.Views,
		"likes":    analytics.Likes,
		"comments": analytics.Comments,
		"shares":   analytics.Shares,
		"clicks":   analytics.Clicks,
	}, time.Now())
}

// RefreshAllAnalytics อัปเดต counter ของ posted posts ที่ยังไม่ sync ในรอบ 24 ชม.
func (s *PublisherServiceImpl) RefreshAllAnalytics(ctx context.Context) error {
	syncedBefore := time.Now().Add(-24 * time.Hour)

	posts, err := s.postRepo.GetPostedForAnalytics(ctx, syncedBefore, s.config.Publisher.BatchSize)
	if err != nil {
		return err
	}

	var failed int
	for _, post := range posts {
		if err := s.refreshPost(ctx, post); err != nil {
			failed++
			logger.WarnContext(ctx, "Analytics refresh failed",
				"post_id", post.ID, "platform", post.Platform, "error", err)
		}
	}

	logger.InfoContext(ctx, "Analytics refresh finished", "total", len(posts), "failed", failed)
	return nil
}

// RegisterJobs ผูก publish batch + analytics refresh เข้ากับ cron scheduler
func (s *PublisherServiceImpl) RegisterJobs() error {
	err := s.scheduler.AddJob(publisherJobID, s.config.Publisher.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := s.RunBatch(ctx); err != nil {
			logger.Error("Publisher batch run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	return s.scheduler.AddJob(analyticsJobID, s.config.Publisher.AnalyticsCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := s.RefreshAllAnalytics(ctx); err != nil {
			logger.Error("Analytics refresh run failed", "error", err)
		}
	})
}
