package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/retry"
)

// TikTokAdapter implements PlatformAdapter ผ่าน TikTok Content Posting API
// ใช้ PULL_FROM_URL mode: ส่ง video URL ให้ TikTok ดึงไฟล์เอง
type TikTokAdapter struct {
	apiURL     string
	clientKey  string
	credRepo   repositories.CredentialRepository
	httpClient *http.Client
	logger     *slog.Logger
}

type TikTokConfig struct {
	APIURL string
	APIKey string // app client key แนบทุก request
}

func NewTikTokAdapter(cfg TikTokConfig, credRepo repositories.CredentialRepository) *TikTokAdapter {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://open.tiktokapis.com/v2"
	}

	return &TikTokAdapter{
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		clientKey: cfg.APIKey,
		credRepo:  credRepo,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: slog.Default().With("component", "tiktok_adapter"),
	}
}

func (a *TikTokAdapter) Name() string {
	return string(models.PlatformTikTok)
}

// GetToken resolve access token ของ user
func (a *TikTokAdapter) GetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	cred, err := a.credRepo.GetActive(ctx, userID, models.PlatformTikTok)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrCredentialNotFound
		}
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if cred.IsExpired(time.Now()) {
		return "", ports.ErrCredentialExpired
	}
	return cred.AccessToken, nil
}

type tiktokPostRequest struct {
	PostInfo   tiktokPostInfo   `json:"post_info"`
	SourceInfo tiktokSourceInfo `json:"source_info"`
}

type tiktokPostInfo struct {
	Title         string `json:"title"`
	PrivacyLevel  string `json:"privacy_level"`
	DisableDuet   bool   `json:"disable_duet"`
	DisableStitch bool   `json:"disable_stitch"`
}

type tiktokSourceInfo struct {
	Source   string `json:"source"`
	VideoURL string `json:"video_url"`
}

type tiktokPostResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// PostVideo โพสต์วิดีโอขึ้น TikTok
func (a *TikTokAdapter) PostVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	return retry.DoValue(ctx, remoteRetryConfig(postTimeout), func(ctx context.Context) (*ports.PostVideoResult, error) {
		return a.postVideo(ctx, req)
	})
}

func (a *TikTokAdapter) postVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	token, err := a.GetToken(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	caption := req.Caption
	if tags := appendHashtags("", req.Hashtags); tags != "" {
		caption = strings.TrimSpace(caption + " " + tags)
	}

	body := tiktokPostRequest{
		PostInfo: tiktokPostInfo{
			Title:        truncate(caption, 2200),
			PrivacyLevel: "PUBLIC_TO_EVERYONE",
		},
		SourceInfo: tiktokSourceInfo{
			Source:   "PULL_FROM_URL",
			VideoURL: req.VideoURL,
		},
	}

	var result tiktokPostResponse
	if err := a.doJSON(ctx, "POST", "/post/publish/video/init/", token, body, &result); err != nil {
		return nil, err
	}
	if result.Error.Code != "" && result.Error.Code != "ok" {
		return nil, fmt.Errorf("tiktok post failed: %s - %s", result.Error.Code, result.Error.Message)
	}
	if result.Data.PublishID == "" {
		return nil, fmt.Errorf("tiktok post failed: missing publish id")
	}

	a.logger.InfoContext(ctx, "Video posted to TikTok",
		"user_id", req.UserID,
		"publish_id", result.Data.PublishID,
	)

	return &ports.PostVideoResult{
		ExternalPostID: result.Data.PublishID,
		URL:            "https://www.tiktok.com/video/" + result.Data.PublishID,
		PostedAt:       time.Now().UTC(),
	}, nil
}

type tiktokAnalyticsResponse struct {
	Data struct {
		Videos []struct {
			ViewCount    int64 `json:"view_count"`
			LikeCount    int64 `json:"like_count"`
			CommentCount int64 `json:"comment_count"`
			ShareCount   int64 `json:"share_count"`
		} `json:"videos"`
	} `json:"data"`
}

// GetAnalytics ดึง counter ของวิดีโอที่โพสต์แล้ว
func (a *TikTokAdapter) GetAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	return retry.DoValue(ctx, remoteRetryConfig(analyticsTimeout), func(ctx context.Context) (*ports.Analytics, error) {
		return a.getAnalytics(ctx, userID, externalPostID)
	})
}

func (a *TikTokAdapter) getAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	token, err := a.GetToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"filters": map[string]interface{}{
			"video_ids": []string{externalPostID},
		},
	}

	var result tiktokAnalyticsResponse
	if err := a.doJSON(ctx, "POST", "/video/query/?fields=view_count,like_count,comment_count,share_count", token, body, &result); err != nil {
		return nil, err
	}
	if len(result.Data.Videos) == 0 {
		return nil, fmt.Errorf("video not found: %s", externalPostID)
	}

	v := result.Data.Videos[0]
	return &ports.Analytics{
		Views:    v.ViewCount,
		Likes:    v.LikeCount,
		Comments: v.CommentCount,
		Shares:   v.ShareCount,
	}, nil
}

func (a *TikTokAdapter) doJSON(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.apiURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if a.clientKey != "" {
		req.Header.Set("Client-Key", a.clientKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tiktok request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("tiktok API error: %d - %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode tiktok response: %w", err)
	}
	return nil
}

var _ ports.PlatformAdapter = (*TikTokAdapter)(nil)
