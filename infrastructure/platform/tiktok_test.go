package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

// fakeCredRepo คืน credential ชุดเดียวหรือ error ที่ตั้งไว้
type fakeCredRepo struct {
	cred *models.PlatformCredential
	err  error
}

func (r *fakeCredRepo) Create(ctx context.Context, cred *models.PlatformCredential) error {
	return nil
}

func (r *fakeCredRepo) GetActive(ctx context.Context, userID uuid.UUID, platform models.Platform) (*models.PlatformCredential, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.cred, nil
}

func (r *fakeCredRepo) Update(ctx context.Context, cred *models.PlatformCredential) error { return nil }

func (r *fakeCredRepo) DeactivateAll(ctx context.Context, userID uuid.UUID, platform models.Platform) error {
	return nil
}

func (r *fakeCredRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func activeTikTokCred() *fakeCredRepo {
	return &fakeCredRepo{cred: &models.PlatformCredential{
		UserID:         uuid.New(),
		Platform:       models.PlatformTikTok,
		AccessToken:    "tok-1",
		TokenExpiresAt: time.Now().Add(time.Hour),
		IsActive:       true,
	}}
}

func TestTikTokAdapter_PostVideo_RetriesTransientError(t *testing.T) {
	var hits int32
	var clientKey atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientKey.Store(r.Header.Get("Client-Key"))
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"publish_id":"pub123"},"error":{"code":"ok"}}`))
	}))
	defer server.Close()

	adapter := NewTikTokAdapter(TikTokConfig{APIURL: server.URL, APIKey: "ck-test"}, activeTikTokCred())

	result, err := adapter.PostVideo(context.Background(), &ports.PostVideoRequest{
		UserID:   uuid.New(),
		VideoURL: "http://files.local/v.mp4",
		Caption:  "launch day",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExternalPostID != "pub123" {
		t.Errorf("expected publish id pub123, got %s", result.ExternalPostID)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("expected transient 502 to be retried once, got %d requests", got)
	}
	if key, _ := clientKey.Load().(string); key != "ck-test" {
		t.Errorf("expected Client-Key header ck-test, got %q", key)
	}
}

func TestTikTokAdapter_PostVideo_MissingCredentialNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	adapter := NewTikTokAdapter(TikTokConfig{APIURL: server.URL}, &fakeCredRepo{err: gorm.ErrRecordNotFound})

	_, err := adapter.PostVideo(context.Background(), &ports.PostVideoRequest{UserID: uuid.New()})
	if !errors.Is(err, ports.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 0 {
		t.Errorf("credential error must fail fast, got %d requests", got)
	}
}

func TestTikTokAdapter_GetAnalytics_ExpiredCredentialNotRetried(t *testing.T) {
	repo := &fakeCredRepo{cred: &models.PlatformCredential{
		Platform:       models.PlatformTikTok,
		AccessToken:    "tok-old",
		TokenExpiresAt: time.Now().Add(-time.Hour),
	}}
	adapter := NewTikTokAdapter(TikTokConfig{APIURL: "http://tiktok.invalid"}, repo)

	_, err := adapter.GetAnalytics(context.Background(), uuid.New(), "ext-1")
	if !errors.Is(err, ports.ErrCredentialExpired) {
		t.Fatalf("expected ErrCredentialExpired, got %v", err)
	}
}
