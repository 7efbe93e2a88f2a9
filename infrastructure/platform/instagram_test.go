package platform

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

func activeInstagramCred(token string) *fakeCredRepo {
	return &fakeCredRepo{cred: &models.PlatformCredential{
		UserID:         uuid.New(),
		Platform:       models.PlatformInstagram,
		AccessToken:    token,
		TokenExpiresAt: time.Now().Add(time.Hour),
		IsActive:       true,
	}}
}

func TestInstagramAdapter_PostVideo_TwoStepPublishWithProof(t *testing.T) {
	const token = "ig-tok"
	const appSecret = "ig-secret"

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(token))
	wantProof := hex.EncodeToString(mac.Sum(nil))

	var proofs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/me/media":
			proofs = append(proofs, r.FormValue("appsecret_proof"))
			w.Write([]byte(`{"id":"container-1"}`))
		case "/me/media_publish":
			proofs = append(proofs, r.FormValue("appsecret_proof"))
			if r.FormValue("creation_id") != "container-1" {
				t.Errorf("publish used wrong creation_id: %s", r.FormValue("creation_id"))
			}
			w.Write([]byte(`{"id":"media-9"}`))
		default:
			// permalink lookup (best-effort)
			w.Write([]byte(`{"id":"media-9","permalink":"https://www.instagram.com/reel/abc/"}`))
		}
	}))
	defer server.Close()

	adapter := NewInstagramAdapter(InstagramConfig{APIURL: server.URL, APIKey: appSecret}, activeInstagramCred(token))

	result, err := adapter.PostVideo(context.Background(), &ports.PostVideoRequest{
		UserID:   uuid.New(),
		VideoURL: "http://files.local/v.mp4",
		Caption:  "new reel",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExternalPostID != "media-9" {
		t.Errorf("expected media id media-9, got %s", result.ExternalPostID)
	}
	if result.URL != "https://www.instagram.com/reel/abc/" {
		t.Errorf("unexpected permalink: %s", result.URL)
	}

	if len(proofs) != 2 {
		t.Fatalf("expected 2 signed calls, got %d", len(proofs))
	}
	for i, proof := range proofs {
		if proof != wantProof {
			t.Errorf("call %d: appsecret_proof = %q, want %q", i, proof, wantProof)
		}
	}
}

func TestInstagramAdapter_GetAnalytics_RetriesServerError(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"name":"plays","values":[{"value":42}]},{"name":"likes","values":[{"value":7}]}]}`))
	}))
	defer server.Close()

	adapter := NewInstagramAdapter(InstagramConfig{APIURL: server.URL}, activeInstagramCred("tok"))

	analytics, err := adapter.GetAnalytics(context.Background(), uuid.New(), "media-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analytics.Views != 42 || analytics.Likes != 7 {
		t.Errorf("unexpected analytics: %+v", analytics)
	}
	if hits != 2 {
		t.Errorf("expected 500 to be retried once, got %d requests", hits)
	}
}
