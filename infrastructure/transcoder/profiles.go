package transcoder

import (
	"fmt"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

// platformProfiles ค่า encode ต่อ platform
// vertical 9:16 สำหรับ shorts/reels/tiktok, landscape 16:9 สำหรับ youtube ปกติ
var platformProfiles = map[string]ports.PlatformProfile{
	"youtube_shorts": {
		Name:         "youtube_shorts",
		Width:        1080,
		Height:       1920,
		FPS:          30,
		VideoBitrate: "6M",
		AudioBitrate: "192k",
		H264Profile:  "high",
		H264Level:    "4.1",
	},
	"tiktok": {
		Name:         "tiktok",
		Width:        1080,
		Height:       1920,
		FPS:          30,
		VideoBitrate: "5M",
		AudioBitrate: "192k",
		H264Profile:  "high",
		H264Level:    "4.1",
	},
	"instagram_reels": {
		Name:         "instagram_reels",
		Width:        1080,
		Height:       1920,
		FPS:          30,
		VideoBitrate: "5M",
		AudioBitrate: "128k",
		H264Profile:  "main",
		H264Level:    "4.0",
	},
	"landscape": {
		Name:         "landscape",
		Width:        1920,
		Height:       1080,
		FPS:          30,
		VideoBitrate: "8M",
		AudioBitrate: "192k",
		H264Profile:  "high",
		H264Level:    "4.2",
	},
}

// GetPlatformProfile ดึง profile ตามชื่อ
func GetPlatformProfile(name string) (*ports.PlatformProfile, error) {
	profile, ok := platformProfiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform profile: %s", name)
	}
	return &profile, nil
}

// ProfileNames รายชื่อ profile ที่รองรับ
func ProfileNames() []string {
	names := make([]string, 0, len(platformProfiles))
	for name := range platformProfiles {
		names = append(names, name)
	}
	return names
}

// ProfileForPlatform map platform + aspect ratio เป็นชื่อ profile
func ProfileForPlatform(platform string, aspectRatio string) string {
	if aspectRatio == "16:9" {
		return "landscape"
	}
	switch platform {
	case "tiktok":
		return "tiktok"
	case "instagram":
		return "instagram_reels"
	default:
		return "youtube_shorts"
	}
}
