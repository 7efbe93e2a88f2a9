package dto

import (
	"github.com/google/uuid"
)

// GenerateVideoRequest คำขอสร้างวิดีโอใหม่
type GenerateVideoRequest struct {
	ProductID   uuid.UUID         `json:"productId" validate:"required"`
	Mode        string            `json:"mode" validate:"omitempty,oneof=auto manual"`
	Script      string            `json:"script"` // required เมื่อ mode=manual
	Duration    int               `json:"duration" validate:"omitempty,min=5,max=180"`
	AspectRatio string            `json:"aspectRatio" validate:"omitempty,oneof=9:16 16:9 1:1"`
	Models      map[string]string `json:"models"`
	Voiceover   *bool             `json:"voiceover"` // default: true
	Subtitles   *bool             `json:"subtitles"` // default: true
	VoiceID     string            `json:"voiceId"`
	Tone        string            `json:"tone"`
	Platform    string            `json:"platform" validate:"omitempty,oneof=youtube tiktok instagram"` // เลือก optimize profile
}

// GenerateVideoResponse ตอบกลับ 202 หลังรับงานเข้า pipeline
type GenerateVideoResponse struct {
	VideoID string `json:"videoId"`
	Code    string `json:"code"`
	Status  string `json:"status"` // "processing"
}

// VideoStatusResponse สถานะ + progress ของ video
type VideoStatusResponse struct {
	VideoID      string            `json:"videoId"`
	Status       string            `json:"status"`
	Progress     int               `json:"progress"` // 0-100
	CurrentStep  string            `json:"currentStep,omitempty"`
	StepMessage  string            `json:"stepMessage,omitempty"`
	IsProcessing bool              `json:"isProcessing"`
	IsCompleted  bool              `json:"isCompleted"`
	IsFailed     bool              `json:"isFailed"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	ArtifactURLs map[string]string `json:"artifactUrls,omitempty"` // เมื่อ completed เท่านั้น
}

// VideoResponse รายละเอียด video
type VideoResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	ProductID     string            `json:"productId"`
	Status        string            `json:"status"`
	Mode          string            `json:"mode"`
	Script        string            `json:"script,omitempty"`
	Duration      int               `json:"duration"`
	AspectRatio   string            `json:"aspectRatio"`
	Models        map[string]string `json:"models,omitempty"`
	OptimizedURL  string            `json:"optimizedUrl,omitempty"`
	ThumbnailURL  string            `json:"thumbnailUrl,omitempty"`
	ErrorMessage  string            `json:"errorMessage,omitempty"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}
