package ports

import "context"

// ScriptRequest input สำหรับ AI script generation
type ScriptRequest struct {
	ProductName        string
	ProductDescription string
	Price              float64
	Duration           int    // target duration (วินาที)
	Model              string // model override (optional)
	Tone               string // เช่น "energetic", "professional"
}

// ScriptGeneratorPort สร้าง marketing script จากข้อมูล product
type ScriptGeneratorPort interface {
	GenerateScript(ctx context.Context, req *ScriptRequest) (string, error)
}

// VideoRequest input สำหรับ AI video generation
type VideoRequest struct {
	Script      string
	Duration    int
	AspectRatio string // 9:16, 16:9, 1:1
	Model       string
	ImageURL    string // product image สำหรับ reference (optional)
}

// VideoGeneratorPort สร้างวิดีโอจาก script ผ่าน provider ภายนอก
// return: MP4 bytes
type VideoGeneratorPort interface {
	GenerateVideo(ctx context.Context, req *VideoRequest) ([]byte, error)
}

// TTSResult ผลลัพธ์จาก speech synthesis
type TTSResult struct {
	AudioData []byte // MP3
	Duration  int    // วินาที (ประมาณจาก bitrate)
	CharCount int
}

// SpeechGeneratorPort แปลง script เป็นเสียง voiceover
type SpeechGeneratorPort interface {
	GenerateSpeech(ctx context.Context, text string, voiceID string) (*TTSResult, error)
}
