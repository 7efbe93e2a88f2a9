package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

const videoRequestTimeout = 10 * time.Minute // video generation ช้ากว่า API ปกติมาก

// VideoProviderClient implements VideoGeneratorPort ผ่าน HTTP video generation API
type VideoProviderClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

type VideoProviderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

func NewVideoProviderClient(cfg VideoProviderConfig) *VideoProviderClient {
	model := cfg.Model
	if model == "" {
		model = "gen3"
	}

	return &VideoProviderClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: videoRequestTimeout,
		},
		logger: slog.Default().With("component", "video_provider"),
	}
}

type videoGenRequest struct {
	Prompt      string `json:"prompt"`
	Duration    int    `json:"duration"`
	AspectRatio string `json:"aspect_ratio"`
	Model       string `json:"model"`
	ImageURL    string `json:"image_url,omitempty"`
}

// GenerateVideo สร้างวิดีโอจาก script ผ่าน provider
// response เป็น MP4 bytes ตรงๆ
func (c *VideoProviderClient) GenerateVideo(ctx context.Context, req *ports.VideoRequest) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	reqBody := videoGenRequest{
		Prompt:      req.Script,
		Duration:    req.Duration,
		AspectRatio: req.AspectRatio,
		Model:       model,
		ImageURL:    req.ImageURL,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/v1/generate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "video/mp4")

	c.logger.InfoContext(ctx, "Generating video",
		"model", model,
		"duration", req.Duration,
		"aspect_ratio", req.AspectRatio,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("video generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("video provider error: %d - %s", resp.StatusCode, string(body))
	}

	videoData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read video data: %w", err)
	}

	if len(videoData) == 0 {
		return nil, fmt.Errorf("video provider returned empty body")
	}

	c.logger.InfoContext(ctx, "Video generated",
		"model", model,
		"video_size", len(videoData),
	)

	return videoData, nil
}

var _ ports.VideoGeneratorPort = (*VideoProviderClient)(nil)
