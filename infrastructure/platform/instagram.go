package platform

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/retry"
)

// InstagramAdapter implements PlatformAdapter ผ่าน Instagram Graph API
// Reels publishing เป็น 2 ขั้น: create media container แล้ว publish
type InstagramAdapter struct {
	apiURL     string
	appSecret  string
	credRepo   repositories.CredentialRepository
	httpClient *http.Client
	logger     *slog.Logger
}

type InstagramConfig struct {
	APIURL string
	APIKey string // app secret สำหรับ appsecret_proof
}

func NewInstagramAdapter(cfg InstagramConfig, credRepo repositories.CredentialRepository) *InstagramAdapter {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://graph.facebook.com/v19.0"
	}

	return &InstagramAdapter{
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		appSecret: cfg.APIKey,
		credRepo:  credRepo,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: slog.Default().With("component", "instagram_adapter"),
	}
}

func (a *InstagramAdapter) Name() string {
	return string(models.PlatformInstagram)
}

// GetToken resolve access token ของ user
func (a *InstagramAdapter) GetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	cred, err := a.credRepo.GetActive(ctx, userID, models.PlatformInstagram)
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

type igIDResponse struct {
	ID        string `json:"id"`
	Permalink string `json:"permalink"`
	Error     *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// PostVideo โพสต์ Reel ขึ้น Instagram
func (a *InstagramAdapter) PostVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	return retry.DoValue(ctx, remoteRetryConfig(postTimeout), func(ctx context.Context) (*ports.PostVideoResult, error) {
		return a.postVideo(ctx, req)
	})
}

func (a *InstagramAdapter) postVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	token, err := a.GetToken(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	caption := req.Caption
	if tags := appendHashtags("", req.Hashtags); tags != "" {
		caption = strings.TrimSpace(caption + "\n\n" + tags)
	}

	// ขั้น 1: สร้าง media container
	params := url.Values{}
	params.Set("media_type", "REELS")
	params.Set("video_url", req.VideoURL)
	params.Set("caption", truncate(caption, 2200))
	params.Set("access_token", token)
	a.sign(params, token)

	var container igIDResponse
	if err := a.doForm(ctx, "/me/media", params, &container); err != nil {
		return nil, err
	}
	if container.Error != nil {
		return nil, fmt.Errorf("instagram container failed: %s", container.Error.Message)
	}
	if container.ID == "" {
		return nil, fmt.Errorf("instagram container failed: missing id")
	}

	// ขั้น 2: publish container
	publishParams := url.Values{}
	publishParams.Set("creation_id", container.ID)
	publishParams.Set("access_token", token)
	a.sign(publishParams, token)

	var published igIDResponse
	if err := a.doForm(ctx, "/me/media_publish", publishParams, &published); err != nil {
		return nil, err
	}
	if published.Error != nil {
		return nil, fmt.Errorf("instagram publish failed: %s", published.Error.Message)
	}
	if published.ID == "" {
		return nil, fmt.Errorf("instagram publish failed: missing media id")
	}

	a.logger.InfoContext(ctx, "Video posted to Instagram",
		"user_id", req.UserID,
		"media_id", published.ID,
	)

	return &ports.PostVideoResult{
		ExternalPostID: published.ID,
		URL:            a.mediaPermalink(ctx, published.ID, token),
		PostedAt:       time.Now().UTC(),
	}, nil
}

type igInsightsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value int64 `json:"value"`
		} `json:"values"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetAnalytics ดึง insights ของ media ที่โพสต์แล้ว
func (a *InstagramAdapter) GetAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	return retry.DoValue(ctx, remoteRetryConfig(analyticsTimeout), func(ctx context.Context) (*ports.Analytics, error) {
		return a.getAnalytics(ctx, userID, externalPostID)
	})
}

func (a *InstagramAdapter) getAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	token, err := a.GetToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("metric", "plays,likes,comments,shares")
	params.Set("access_token", token)
	a.sign(params, token)
	endpoint := fmt.Sprintf("%s/%s/insights?%s", a.apiURL, externalPostID, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("instagram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("instagram API error: %d - %s", resp.StatusCode, string(body))
	}

	var insights igInsightsResponse
	if err := json.NewDecoder(resp.Body).Decode(&insights); err != nil {
		return nil, fmt.Errorf("failed to decode insights: %w", err)
	}
	if insights.Error != nil {
		return nil, fmt.Errorf("instagram insights failed: %s", insights.Error.Message)
	}

	analytics := &ports.Analytics{}
	for _, metric := range insights.Data {
		if len(metric.Values) == 0 {
			continue
		}
		value := metric.Values[0].Value
		switch metric.Name {
		case "plays":
			analytics.Views = value
		case "likes":
			analytics.Likes = value
		case "comments":
			analytics.Comments = value
		case "shares":
			analytics.Shares = value
		}
	}

	return analytics, nil
}

// sign แนบ appsecret_proof (HMAC-SHA256 ของ token ด้วย app secret) ตามที่ Graph API
// ต้องการสำหรับ server-side call เมื่อตั้ง app secret ไว้
func (a *InstagramAdapter) sign(params url.Values, token string) {
	if a.appSecret == "" {
		return
	}
	mac := hmac.New(sha256.New, []byte(a.appSecret))
	mac.Write([]byte(token))
	params.Set("appsecret_proof", hex.EncodeToString(mac.Sum(nil)))
}

// mediaPermalink ดึง permalink ของ media (best-effort, fallback เป็น empty)
func (a *InstagramAdapter) mediaPermalink(ctx context.Context, mediaID, token string) string {
	params := url.Values{}
	params.Set("fields", "permalink")
	params.Set("access_token", token)
	a.sign(params, token)
	endpoint := fmt.Sprintf("%s/%s?%s", a.apiURL, mediaID, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return ""
	}
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	var result igIDResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}
	return result.Permalink
}

func (a *InstagramAdapter) doForm(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "POST", a.apiURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("instagram request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode instagram response: %w", err)
	}
	return nil
}

var _ ports.PlatformAdapter = (*InstagramAdapter)(nil)
