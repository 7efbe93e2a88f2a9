package platform

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

type fakeAdapter struct {
	name string
}

func (f *fakeAdapter) Name() string { return f.name }
func (f *fakeAdapter) PostVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	return &ports.PostVideoResult{}, nil
}
func (f *fakeAdapter) GetAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	return &ports.Analytics{}, nil
}
func (f *fakeAdapter) GetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "token", nil
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(
		&fakeAdapter{name: "youtube"},
		&fakeAdapter{name: "tiktok"},
	)

	adapter, err := registry.Get(models.PlatformYouTube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adapter.Name() != "youtube" {
		t.Errorf("expected youtube adapter, got %s", adapter.Name())
	}

	if _, err := registry.Get(models.PlatformInstagram); err == nil {
		t.Error("expected error for unregistered platform")
	}
}

func TestRegistry_Platforms(t *testing.T) {
	registry := NewRegistry(
		&fakeAdapter{name: "youtube"},
		&fakeAdapter{name: "tiktok"},
		&fakeAdapter{name: "instagram"},
	)

	if got := len(registry.Platforms()); got != 3 {
		t.Errorf("expected 3 platforms, got %d", got)
	}
}

func TestAppendHashtags(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		hashtags []string
		expected string
	}{
		{"empty tags", "desc", nil, "desc"},
		{"adds hash prefix", "", []string{"sale", "new"}, "#sale #new"},
		{"keeps existing prefix", "", []string{"#promo"}, "#promo"},
		{"appends to description", "Great product", []string{"deal"}, "Great product\n\n#deal"},
		{"skips blank tags", "desc", []string{"", "  "}, "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := appendHashtags(tt.desc, tt.hashtags); got != tt.expected {
				t.Errorf("appendHashtags(%q, %v) = %q, want %q", tt.desc, tt.hashtags, got, tt.expected)
			}
		})
	}
}

func TestSplitCaption(t *testing.T) {
	title, desc := splitCaption("My Title\nLine one\nLine two")
	if title != "My Title" {
		t.Errorf("expected title %q, got %q", "My Title", title)
	}
	if desc != "Line one\nLine two" {
		t.Errorf("unexpected description: %q", desc)
	}

	// caption บรรทัดเดียว ใช้เป็นทั้ง title และ description
	title, desc = splitCaption("Single line")
	if title != "Single line" || desc != "Single line" {
		t.Errorf("single line: got title=%q desc=%q", title, desc)
	}
}
