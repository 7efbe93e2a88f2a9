package ports

import (
	"context"
	"fmt"
)

// WatermarkPosition ตำแหน่ง watermark บนวิดีโอ
type WatermarkPosition string

const (
	WatermarkTopLeft     WatermarkPosition = "top_left"
	WatermarkTopRight    WatermarkPosition = "top_right"
	WatermarkBottomLeft  WatermarkPosition = "bottom_left"
	WatermarkBottomRight WatermarkPosition = "bottom_right"
	WatermarkCenter      WatermarkPosition = "center"
)

// WatermarkOptions ตัวเลือกสำหรับ drawtext watermark
type WatermarkOptions struct {
	Text     string
	Position WatermarkPosition // default: bottom_right
	FontSize int               // default: 24
	Color    string            // default: white
	Opacity  float64           // 0.0-1.0, default: 0.5
}

// SubtitleOptions ตัวเลือกสำหรับ burn-in subtitles
type SubtitleOptions struct {
	Script         string  // text ที่จะตัดเป็น cues
	SecondsPerCue  float64 // default: 3.0
	FontSize       int     // default: 24
	PrimaryColor   string  // ASS &HBBGGRR format, default: &HFFFFFF
	OutlineColor   string  // default: &H000000
}

// MusicOptions ตัวเลือกสำหรับ background music mix
type MusicOptions struct {
	MusicPath string
	Volume    float64 // ตัวคูณ volume ของ music track, default: 0.3
}

// PlatformProfile ค่า encode สำหรับแต่ละ platform
type PlatformProfile struct {
	Name         string // youtube_shorts, tiktok, instagram_reels, landscape
	Width        int
	Height       int
	FPS          int
	VideoBitrate string // เช่น "6M"
	AudioBitrate string // เช่น "192k"
	H264Profile  string // high, main
	H264Level    string
}

// MediaInfo ข้อมูลจาก ffprobe
type MediaInfo struct {
	Duration   float64 // วินาที
	Width      int
	Height     int
	VideoCodec string
	AudioCodec string
	HasAudio   bool
	Bitrate    int64
}

// TransformError ห่อ failure ของ ffmpeg พร้อม stderr ที่ capture ไว้
// ไม่ retryable by default - encode พังซ้ำด้วย input เดิม
type TransformError struct {
	Transform string // mux_voiceover, burn_subtitles, ...
	Err       error
	Stderr    string
}

func (e *TransformError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Transform, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Transform, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// TranscoderPort interface สำหรับ media transforms (Port/Adapter pattern)
// ทุก transform อ่าน input จาก path เขียน output ไป path ใหม่ ไม่แก้ input
type TranscoderPort interface {
	// MuxVoiceover รวม voiceover audio เข้ากับ video (copy video stream)
	MuxVoiceover(ctx context.Context, videoPath, audioPath, outputPath string) error

	// BurnSubtitles ตัด script เป็น SRT cues แล้ว burn ลงบนภาพ
	BurnSubtitles(ctx context.Context, videoPath, outputPath string, opts *SubtitleOptions) error

	// ApplyWatermark วาง drawtext watermark
	ApplyWatermark(ctx context.Context, videoPath, outputPath string, opts *WatermarkOptions) error

	// MixMusic ผสม background music กับ audio เดิม
	MixMusic(ctx context.Context, videoPath, outputPath string, opts *MusicOptions) error

	// OptimizeForPlatform re-encode ตาม platform profile (scale + letterbox pad)
	OptimizeForPlatform(ctx context.Context, videoPath, outputPath, profileName string) error

	// GenerateThumbnail ดึง frame ที่ offset เป็นภาพ jpg
	GenerateThumbnail(ctx context.Context, videoPath, outputPath string, atSecond float64) error

	// GetMediaInfo ดึงข้อมูลวิดีโอด้วย ffprobe
	GetMediaInfo(ctx context.Context, path string) (*MediaInfo, error)

	// IsAvailable ตรวจสอบว่า ffmpeg พร้อมใช้งาน
	IsAvailable() bool
}
