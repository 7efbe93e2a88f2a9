package serviceimpl

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
)

// Post errors ที่ handler แปลงเป็น response code
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrVideoNotReady    = errors.New("video is not completed")
	ErrInvalidPlatform  = errors.New("unsupported platform")
	ErrScheduleInPast   = errors.New("scheduled time must be in the future")
	ErrCannotReschedule = errors.New("post can no longer be rescheduled")
	ErrCannotCancel     = errors.New("post can no longer be cancelled")
)

type PostServiceImpl struct {
	postRepo  repositories.PostRepository
	videoRepo repositories.VideoRepository
}

func NewPostService(
	postRepo repositories.PostRepository,
	videoRepo repositories.VideoRepository,
) services.PostService {
	return &PostServiceImpl{
		postRepo:  postRepo,
		videoRepo: videoRepo,
	}
}

func (s *PostServiceImpl) CreatePost(ctx context.Context, userID uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error) {
	platform := models.Platform(req.Platform)
	if !platform.IsValid() {
		return nil, ErrInvalidPlatform
	}

	// โพสต์ได้เฉพาะ video ที่ production เสร็จแล้ว
	video, err := s.videoRepo.GetByID(ctx, req.VideoID)
	if err != nil || video.UserID != userID {
		return nil, ErrVideoNotFound
	}
	if !video.IsCompleted() {
		return nil, ErrVideoNotReady
	}

	status := models.PostStatusDraft
	if req.ScheduledAt != nil {
		if !req.ScheduledAt.After(time.Now()) {
			return nil, ErrScheduleInPast
		}
		status = models.PostStatusScheduled
	}

	post := &models.Post{
		ID:          uuid.New(),
		UserID:      userID,
		VideoID:     video.ID,
		Platform:    platform,
		Status:      status,
		Caption:     req.Caption,
		Hashtags:    models.Hashtags(req.Hashtags),
		ScheduledAt: req.ScheduledAt,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		logger.ErrorContext(ctx, "Failed to create post", "video_id", video.ID, "platform", platform, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Post created",
		"post_id", post.ID, "video_id", video.ID, "platform", platform, "status", status)
	return post, nil
}

func (s *PostServiceImpl) GetPost(ctx context.Context, userID, postID uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil || post.UserID != userID {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostServiceImpl) ListPosts(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	posts, err := s.postRepo.GetByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.postRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (s *PostServiceImpl) Reschedule(ctx context.Context, userID, postID uuid.UUID, req *dto.ReschedulePostRequest) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil || post.UserID != userID {
		return nil, ErrPostNotFound
	}

	if !post.CanReschedule() {
		return nil, ErrCannotReschedule
	}
	if !req.ScheduledAt.After(time.Now()) {
		return nil, ErrScheduleInPast
	}

	scheduledAt := req.ScheduledAt
	post.ScheduledAt = &scheduledAt
	post.UpdatedAt = time.Now()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Post rescheduled", "post_id", post.ID, "scheduled_at", scheduledAt)
	return post, nil
}

func (s *PostServiceImpl) Cancel(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil || post.UserID != userID {
		return ErrPostNotFound
	}

	if !post.CanCancel() {
		return ErrCannotCancel
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Post cancelled", "post_id", postID, "status", post.Status)
	return nil
}
