package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatePostRequest สร้าง post ใหม่ (โพสต์ทันทีหรือตั้งเวลา)
type CreatePostRequest struct {
	VideoID     uuid.UUID  `json:"videoId" validate:"required"`
	Platform    string     `json:"platform" validate:"required,oneof=youtube tiktok instagram"`
	Caption     string     `json:"caption" validate:"max=2200"`
	Hashtags    []string   `json:"hashtags" validate:"max=30,dive,max=100"`
	ScheduledAt *time.Time `json:"scheduledAt"` // nil = draft, set = scheduled (ต้องเป็นอนาคต)
}

// ReschedulePostRequest เลื่อนเวลาโพสต์
type ReschedulePostRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

// PostResponse รายละเอียด post
type PostResponse struct {
	ID                string   `json:"id"`
	VideoID           string   `json:"videoId"`
	Platform          string   `json:"platform"`
	Status            string   `json:"status"`
	Caption           string   `json:"caption,omitempty"`
	Hashtags          []string `json:"hashtags,omitempty"`
	ScheduledAt       string   `json:"scheduledAt,omitempty"`
	PostedAt          string   `json:"postedAt,omitempty"`
	ExternalPostID    string   `json:"externalPostId,omitempty"`
	ExternalURL       string   `json:"externalUrl,omitempty"`
	Views             int64    `json:"views"`
	Likes             int64    `json:"likes"`
	Comments          int64    `json:"comments"`
	Shares            int64    `json:"shares"`
	Clicks            int64    `json:"clicks"`
	AnalyticsSyncedAt string   `json:"analyticsSyncedAt,omitempty"`
	ErrorMessage      string   `json:"errorMessage,omitempty"`
	CreatedAt         string   `json:"createdAt"`
}

// PublishItemResult ผลโพสต์ราย item ใน batch
type PublishItemResult struct {
	PostID         string `json:"postId"`
	Platform       string `json:"platform"`
	Success        bool   `json:"success"`
	ExternalPostID string `json:"externalPostId,omitempty"`
	ExternalURL    string `json:"externalUrl,omitempty"`
	Error          string `json:"error,omitempty"`
}

// PublishRunResult สรุปผล publisher batch 1 รอบ
type PublishRunResult struct {
	Processed  int                 `json:"processed"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
	Results    []PublishItemResult `json:"results"`
}
