package transcoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
)

type FFmpegConfig struct {
	FFmpegPath  string // path to ffmpeg binary
	FFprobePath string // path to ffprobe binary
	TempPath    string // scratch dir สำหรับไฟล์ชั่วคราว (subtitle files)
}

type FFmpegTranscoder struct {
	ffmpegPath  string
	ffprobePath string
	tempPath    string
}

func NewFFmpegTranscoder(config FFmpegConfig) (ports.TranscoderPort, error) {
	ffmpegPath := config.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	ffprobePath := config.FFprobePath
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	tempPath := config.TempPath
	if tempPath == "" {
		tempPath = os.TempDir()
	}
	if err := os.MkdirAll(tempPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	transcoder := &FFmpegTranscoder{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		tempPath:    tempPath,
	}

	// ตรวจสอบว่า ffmpeg ใช้งานได้
	if !transcoder.IsAvailable() {
		return nil, fmt.Errorf("ffmpeg not available at path: %s", ffmpegPath)
	}

	return transcoder, nil
}

// IsAvailable ตรวจสอบว่า ffmpeg พร้อมใช้งาน
func (t *FFmpegTranscoder) IsAvailable() bool {
	cmd := exec.Command(t.ffmpegPath, "-version")
	err := cmd.Run()
	return err == nil
}

// MuxVoiceover รวม voiceover audio เข้ากับ video
// copy video stream (ไม่ re-encode ภาพ) แล้ว encode audio เป็น aac
func (t *FFmpegTranscoder) MuxVoiceover(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-y",
		outputPath,
	}

	return t.runFFmpeg(ctx, "mux_voiceover", args)
}

// BurnSubtitles ตัด script เป็น SRT cues แล้ว burn ลงบนภาพ
func (t *FFmpegTranscoder) BurnSubtitles(ctx context.Context, videoPath, outputPath string, opts *ports.SubtitleOptions) error {
	if opts == nil || strings.TrimSpace(opts.Script) == "" {
		return &ports.TransformError{Transform: "burn_subtitles", Err: fmt.Errorf("empty subtitle script")}
	}

	secondsPerCue := opts.SecondsPerCue
	if secondsPerCue <= 0 {
		secondsPerCue = 3.0
	}
	fontSize := opts.FontSize
	if fontSize == 0 {
		fontSize = 24
	}
	primaryColor := opts.PrimaryColor
	if primaryColor == "" {
		primaryColor = "&HFFFFFF"
	}
	outlineColor := opts.OutlineColor
	if outlineColor == "" {
		outlineColor = "&H000000"
	}

	cues := BuildCues(opts.Script, secondsPerCue)
	if len(cues) == 0 {
		return &ports.TransformError{Transform: "burn_subtitles", Err: fmt.Errorf("script produced no subtitle cues")}
	}

	// เขียน SRT ลง scratch dir แล้วลบทิ้งหลังเสร็จ
	scratchDir, err := os.MkdirTemp(t.tempPath, "subtitles-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	srtPath := filepath.Join(scratchDir, "subtitles.srt")
	if err := os.WriteFile(srtPath, []byte(FormatSRT(cues)), 0644); err != nil {
		return fmt.Errorf("failed to write srt file: %w", err)
	}

	style := fmt.Sprintf("FontSize=%d,PrimaryColour=%s,OutlineColour=%s,BorderStyle=1,Outline=2",
		fontSize, primaryColor, outlineColor)
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", escapeFilterPath(srtPath), style)

	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-c:a", "copy",
		"-y",
		outputPath,
	}

	return t.runFFmpeg(ctx, "burn_subtitles", args)
}

// ApplyWatermark วาง drawtext watermark ตามตำแหน่งที่กำหนด
func (t *FFmpegTranscoder) ApplyWatermark(ctx context.Context, videoPath, outputPath string, opts *ports.WatermarkOptions) error {
	if opts == nil || strings.TrimSpace(opts.Text) == "" {
		return &ports.TransformError{Transform: "apply_watermark", Err: fmt.Errorf("empty watermark text")}
	}

	fontSize := opts.FontSize
	if fontSize == 0 {
		fontSize = 24
	}
	color := opts.Color
	if color == "" {
		color = "white"
	}
	opacity := opts.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 0.5
	}

	x, y := watermarkExpr(opts.Position)
	filter := fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=%s@%.2f:x=%s:y=%s",
		escapeDrawtext(opts.Text), fontSize, color, opacity, x, y)

	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-c:a", "copy",
		"-y",
		outputPath,
	}

	return t.runFFmpeg(ctx, "apply_watermark", args)
}

// MixMusic ผสม background music เข้ากับ audio track เดิม
// music ถูกลด volume แล้ว mix ด้วย amix (จบตาม input ที่สั้นกว่า กัน track ลากยาวเกิน video)
func (t *FFmpegTranscoder) MixMusic(ctx context.Context, videoPath, outputPath string, opts *ports.MusicOptions) error {
	if opts == nil || opts.MusicPath == "" {
		return &ports.TransformError{Transform: "mix_music", Err: fmt.Errorf("missing music path")}
	}

	volume := opts.Volume
	if volume <= 0 {
		volume = 0.3
	}

	filter := mixMusicFilter(volume)

	args := []string{
		"-i", videoPath,
		"-i", opts.MusicPath,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-y",
		outputPath,
	}

	return t.runFFmpeg(ctx, "mix_music", args)
}

// OptimizeForPlatform re-encode ตาม platform profile
// scale แบบรักษา aspect ratio แล้ว pad เป็น letterbox ให้ได้ขนาดเป้าหมาย
func (t *FFmpegTranscoder) OptimizeForPlatform(ctx context.Context, videoPath, outputPath, profileName string) error {
	profile, err := GetPlatformProfile(profileName)
	if err != nil {
		return &ports.TransformError{Transform: "optimize_platform", Err: err}
	}

	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black",
		profile.Width, profile.Height, profile.Width, profile.Height,
	)

	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-r", strconv.Itoa(profile.FPS),
		"-c:v", "libx264",
		"-profile:v", profile.H264Profile,
		"-level", profile.H264Level,
		"-b:v", profile.VideoBitrate,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", profile.AudioBitrate,
		"-movflags", "+faststart",
		"-y",
		outputPath,
	}

	return t.runFFmpeg(ctx, "optimize_platform", args)
}

// GenerateThumbnail ดึง frame ที่ offset เป็นภาพ jpg
func (t *FFmpegTranscoder) GenerateThumbnail(ctx context.Context, videoPath, outputPath string, atSecond float64) error {
	if atSecond < 0 {
		atSecond = 0
	}

	args := []string{
		"-ss", strconv.FormatFloat(atSecond, 'f', 2, 64),
		"-i", videoPath,
		"-vframes", "1",
		"-vf", "scale=640:-1", // width 640px, maintain aspect ratio
		"-q:v", "2",
		"-y",
		outputPath,
	}

	return t.runFFmpeg(ctx, "generate_thumbnail", args)
}

// GetMediaInfo ดึงข้อมูลวิดีโอด้วย ffprobe
func (t *FFmpegTranscoder) GetMediaInfo(ctx context.Context, path string) (*ports.MediaInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, t.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		logger.ErrorContext(ctx, "ffprobe failed", "error", err, "path", path)
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probeData ffprobeOutput
	if err := json.Unmarshal(output, &probeData); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &ports.MediaInfo{}

	if probeData.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(probeData.Format.Duration, 64); err == nil {
			info.Duration = duration
		}
	}

	if probeData.Format.BitRate != "" {
		if bitrate, err := strconv.ParseInt(probeData.Format.BitRate, 10, 64); err == nil {
			info.Bitrate = bitrate
		}
	}

	for _, stream := range probeData.Streams {
		switch stream.CodecType {
		case "video":
			info.Width = stream.Width
			info.Height = stream.Height
			info.VideoCodec = stream.CodecName
		case "audio":
			info.AudioCodec = stream.CodecName
			info.HasAudio = true
		}
	}

	return info, nil
}

// runFFmpeg รัน ffmpeg พร้อม capture stderr
// ถ้าพัง return TransformError พร้อม stderr tail เพื่อ debug encode failures
func (t *FFmpegTranscoder) runFFmpeg(ctx context.Context, transform string, args []string) error {
	logger.DebugContext(ctx, "Executing ffmpeg", "transform", transform, "args", strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.ErrorContext(ctx, "ffmpeg transform failed",
			"transform", transform,
			"error", err,
		)
		return &ports.TransformError{
			Transform: transform,
			Err:       err,
			Stderr:    stderrTail(stderr.String()),
		}
	}

	return nil
}

// mixMusicFilter สร้าง filter graph สำหรับ amix
// duration=shortest เพื่อให้ output จบพร้อม input ที่สั้นที่สุด
func mixMusicFilter(volume float64) string {
	return fmt.Sprintf("[1:a]volume=%.2f[music];[0:a][music]amix=inputs=2:duration=shortest:dropout_transition=2[aout]", volume)
}

// stderrTail ตัด stderr เหลือท้ายๆ (ส่วนที่มี error message จริง)
func stderrTail(s string) string {
	const maxLen = 2000
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[len(s)-maxLen:]
}

// watermarkExpr แปลงตำแหน่ง watermark เป็น drawtext x/y expressions
func watermarkExpr(pos ports.WatermarkPosition) (x, y string) {
	const margin = "20"
	switch pos {
	case ports.WatermarkTopLeft:
		return margin, margin
	case ports.WatermarkTopRight:
		return "w-tw-" + margin, margin
	case ports.WatermarkBottomLeft:
		return margin, "h-th-" + margin
	case ports.WatermarkCenter:
		return "(w-tw)/2", "(h-th)/2"
	default: // bottom_right
		return "w-tw-" + margin, "h-th-" + margin
	}
}

// escapeDrawtext escape ตัวอักษรพิเศษสำหรับ drawtext filter
// ลำดับสำคัญ: escape backslash ก่อน ไม่งั้น escape ซ้อนกัน
func escapeDrawtext(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `'`, `\'`)
	text = strings.ReplaceAll(text, `:`, `\:`)
	text = strings.ReplaceAll(text, `%`, `\%`)
	return text
}

// escapeFilterPath escape path สำหรับใช้ใน filter graph (Windows drive colon)
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `/`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	return path
}

// ffprobe JSON output structures
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}
