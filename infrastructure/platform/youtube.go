package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/retry"
)

// YouTubeAdapter implements PlatformAdapter สำหรับ YouTube (OAuth + Data API v3)
type YouTubeAdapter struct {
	config     *oauth2.Config
	credRepo   repositories.CredentialRepository
	httpClient *http.Client // สำหรับดึงไฟล์วิดีโอจาก storage
	logger     *slog.Logger
}

type YouTubeConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewYouTubeAdapter(cfg YouTubeConfig, credRepo repositories.CredentialRepository) *YouTubeAdapter {
	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			youtube.YoutubeUploadScope,
			youtube.YoutubeReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}

	return &YouTubeAdapter{
		config:   config,
		credRepo: credRepo,
		httpClient: &http.Client{
			Timeout: uploadTimeout,
		},
		logger: slog.Default().With("component", "youtube_adapter"),
	}
}

func (a *YouTubeAdapter) Name() string {
	return string(models.PlatformYouTube)
}

// GetAuthURL สร้าง OAuth consent URL สำหรับเชื่อมบัญชี
func (a *YouTubeAdapter) GetAuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeAndSaveToken แลก authorization code เป็น token แล้วบันทึกเป็น credential ชุดใหม่
// credential เดิมของ user ถูก deactivate ทั้งหมด
func (a *YouTubeAdapter) ExchangeAndSaveToken(ctx context.Context, code string, userID uuid.UUID) (*models.PlatformCredential, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	// verify token ด้วย test call ก่อนบันทึก
	client := a.config.Client(ctx, token)
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	if _, err := svc.Channels.List([]string{"snippet"}).Mine(true).Do(); err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	if err := a.credRepo.DeactivateAll(ctx, userID, models.PlatformYouTube); err != nil {
		return nil, fmt.Errorf("failed to deactivate existing credentials: %w", err)
	}

	cred := &models.PlatformCredential{
		UserID:         userID,
		Platform:       models.PlatformYouTube,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry,
		IsActive:       true,
	}
	if err := a.credRepo.Create(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to save credentials: %w", err)
	}

	a.logger.InfoContext(ctx, "YouTube account connected", "user_id", userID)
	return cred, nil
}

// GetToken resolve access token ของ user พร้อม auto-refresh เมื่อหมดอายุ
func (a *YouTubeAdapter) GetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := a.resolveToken(ctx, userID)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func (a *YouTubeAdapter) resolveToken(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	cred, err := a.credRepo.GetActive(ctx, userID, models.PlatformYouTube)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.TokenExpiresAt,
	}

	if !cred.IsExpired(time.Now()) {
		return token, nil
	}

	if cred.RefreshToken == "" {
		return nil, ports.ErrCredentialExpired
	}

	// refresh แล้วบันทึก token ใหม่กลับลง DB
	refreshed, err := a.config.TokenSource(ctx, token).Token()
	if err != nil {
		a.logger.WarnContext(ctx, "YouTube token refresh failed", "user_id", userID, "error", err)
		return nil, ports.ErrCredentialExpired
	}

	cred.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		cred.RefreshToken = refreshed.RefreshToken
	}
	cred.TokenExpiresAt = refreshed.Expiry
	if err := a.credRepo.Update(ctx, cred); err != nil {
		a.logger.WarnContext(ctx, "Failed to persist refreshed token", "user_id", userID, "error", err)
	}

	return refreshed, nil
}

// PostVideo อัปโหลดวิดีโอขึ้น YouTube (ดึงไฟล์จาก VideoURL แล้ว stream เข้า Videos.Insert)
func (a *YouTubeAdapter) PostVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	return retry.DoValue(ctx, remoteRetryConfig(uploadTimeout), func(ctx context.Context) (*ports.PostVideoResult, error) {
		return a.postVideo(ctx, req)
	})
}

func (a *YouTubeAdapter) postVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	token, err := a.resolveToken(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	client := a.config.Client(ctx, token)
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", req.VideoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create video request: %w", err)
	}
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch video file: status %d", resp.StatusCode)
	}

	title, description := splitCaption(req.Caption)
	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: appendHashtags(description, req.Hashtags),
			Tags:        req.Hashtags,
			CategoryId:  "22", // People & Blogs
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: "public",
		},
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, upload)
	inserted, err := call.Media(resp.Body).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube upload failed: %w", err)
	}

	a.logger.InfoContext(ctx, "Video posted to YouTube",
		"user_id", req.UserID,
		"video_id", inserted.Id,
	)

	return &ports.PostVideoResult{
		ExternalPostID: inserted.Id,
		URL:            "https://www.youtube.com/watch?v=" + inserted.Id,
		PostedAt:       time.Now().UTC(),
	}, nil
}

// GetAnalytics ดึง statistics ของวิดีโอ
func (a *YouTubeAdapter) GetAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	return retry.DoValue(ctx, remoteRetryConfig(analyticsTimeout), func(ctx context.Context) (*ports.Analytics, error) {
		return a.getAnalytics(ctx, userID, externalPostID)
	})
}

func (a *YouTubeAdapter) getAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	token, err := a.resolveToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	client := a.config.Client(ctx, token)
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	resp, err := svc.Videos.List([]string{"statistics"}).Id(externalPostID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video statistics: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
		return nil, fmt.Errorf("video not found: %s", externalPostID)
	}

	stats := resp.Items[0].Statistics
	return &ports.Analytics{
		Views:    int64(stats.ViewCount),
		Likes:    int64(stats.LikeCount),
		Comments: int64(stats.CommentCount),
	}, nil
}

// splitCaption ใช้บรรทัดแรกของ caption เป็น title ที่เหลือเป็น description
func splitCaption(caption string) (title, description string) {
	caption = strings.TrimSpace(caption)
	idx := strings.Index(caption, "\n")
	if idx < 0 {
		return truncate(caption, 100), caption
	}
	return truncate(strings.TrimSpace(caption[:idx]), 100), strings.TrimSpace(caption[idx+1:])
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func appendHashtags(description string, hashtags []string) string {
	if len(hashtags) == 0 {
		return description
	}
	tags := make([]string, 0, len(hashtags))
	for _, h := range hashtags {
		h = strings.TrimSpace(strings.TrimPrefix(h, "#"))
		if h != "" {
			tags = append(tags, "#"+h)
		}
	}
	if len(tags) == 0 {
		return description
	}
	if description == "" {
		return strings.Join(tags, " ")
	}
	return description + "\n\n" + strings.Join(tags, " ")
}

var _ ports.PlatformAdapter = (*YouTubeAdapter)(nil)
