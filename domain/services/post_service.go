package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

// PostService จัดการ lifecycle ของ post (draft/scheduled/cancel/reschedule)
type PostService interface {
	// CreatePost สร้าง post: scheduledAt nil = draft, set = scheduled (ต้องเป็นอนาคต)
	CreatePost(ctx context.Context, userID uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error)

	// GetPost ดึง post (เฉพาะของ user)
	GetPost(ctx context.Context, userID, postID uuid.UUID) (*models.Post, error)

	// ListPosts ดึง posts ของ user
	ListPosts(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Post, int64, error)

	// Reschedule เลื่อนเวลา - ได้เฉพาะตอน scheduled และเวลาใหม่ต้องเป็นอนาคต
	Reschedule(ctx context.Context, userID, postID uuid.UUID, req *dto.ReschedulePostRequest) (*models.Post, error)

	// Cancel ยกเลิก post - ได้เฉพาะ draft/scheduled
	Cancel(ctx context.Context, userID, postID uuid.UUID) error
}
