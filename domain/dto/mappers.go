package dto

import (
	"time"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// ToVideoResponse แปลง model เป็น response DTO
// artifact URLs ใส่เฉพาะตอน completed (path ก่อนหน้านั้นเชื่อถือไม่ได้)
func ToVideoResponse(v *models.Video, urlFor func(path string) string) *VideoResponse {
	resp := &VideoResponse{
		ID:           v.ID.String(),
		Code:         v.Code,
		ProductID:    v.ProductID.String(),
		Status:       string(v.Status),
		Mode:         string(v.Mode),
		Script:       v.Script,
		Duration:     v.Duration,
		AspectRatio:  string(v.AspectRatio),
		Models:       v.Models,
		ErrorMessage: v.ErrorMessage,
		CreatedAt:    formatTime(v.CreatedAt),
		UpdatedAt:    formatTime(v.UpdatedAt),
	}

	if v.IsCompleted() && urlFor != nil {
		if v.OptimizedPath != "" {
			resp.OptimizedURL = urlFor(v.OptimizedPath)
		}
		if v.ThumbnailPath != "" {
			resp.ThumbnailURL = urlFor(v.ThumbnailPath)
		}
	}

	return resp
}

func ToVideoResponses(videos []*models.Video, urlFor func(path string) string) []*VideoResponse {
	out := make([]*VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, ToVideoResponse(v, urlFor))
	}
	return out
}

// ToPostResponse แปลง model เป็น response DTO
func ToPostResponse(p *models.Post) *PostResponse {
	return &PostResponse{
		ID:                p.ID.String(),
		VideoID:           p.VideoID.String(),
		Platform:          string(p.Platform),
		Status:            string(p.Status),
		Caption:           p.Caption,
		Hashtags:          p.Hashtags,
		ScheduledAt:       formatTimePtr(p.ScheduledAt),
		PostedAt:          formatTimePtr(p.PostedAt),
		ExternalPostID:    p.ExternalPostID,
		ExternalURL:       p.ExternalURL,
		Views:             p.Views,
		Likes:             p.Likes,
		Comments:          p.Comments,
		Shares:            p.Shares,
		Clicks:            p.Clicks,
		AnalyticsSyncedAt: formatTimePtr(p.AnalyticsSyncedAt),
		ErrorMessage:      p.ErrorMessage,
		CreatedAt:         formatTime(p.CreatedAt),
	}
}

func ToPostResponses(posts []*models.Post) []*PostResponse {
	out := make([]*PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToPostResponse(p))
	}
	return out
}

// ToProductResponse แปลง model เป็น response DTO
func ToProductResponse(p *models.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		StorageFolder: p.StorageFolder,
		StorageReady:  p.HasStorageFolder(),
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

func ToProductResponses(products []*models.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out
}
