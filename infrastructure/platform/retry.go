package platform

import (
	"errors"
	"time"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/retry"
)

const (
	postTimeout      = 60 * time.Second
	uploadTimeout    = 10 * time.Minute // YouTube stream upload ใช้เวลานานกว่า pull-from-url
	analyticsTimeout = 30 * time.Second
)

// remoteRetryConfig นโยบาย retry ของ platform API call พร้อม timeout ต่อ attempt
// credential error ไม่ retry - แก้ได้ทางเดียวคือ user เชื่อมบัญชีใหม่
func remoteRetryConfig(timeout time.Duration) retry.Config {
	return retry.Config{
		MaxAttempts: 3,
		Timeout:     timeout,
		Jitter:      true,
		ShouldRetry: func(err error) bool {
			return !errors.Is(err, ports.ErrCredentialNotFound) &&
				!errors.Is(err, ports.ErrCredentialExpired)
		},
	}
}
