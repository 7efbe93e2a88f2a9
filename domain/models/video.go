package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// VideoStatus สถานะของ video ใน production pipeline
// เดินหน้าอย่างเดียว: pending → generating_script → generating_video →
// adding_audio → adding_subtitles → optimizing → completed
// failed เข้าได้จากทุกสถานะที่ยังไม่จบ และเป็น terminal
type VideoStatus string

const (
	VideoStatusPending          VideoStatus = "pending"
	VideoStatusGeneratingScript VideoStatus = "generating_script"
	VideoStatusGeneratingVideo  VideoStatus = "generating_video"
	VideoStatusAddingAudio      VideoStatus = "adding_audio"
	VideoStatusAddingSubtitles  VideoStatus = "adding_subtitles"
	VideoStatusOptimizing       VideoStatus = "optimizing"
	VideoStatusCompleted        VideoStatus = "completed"
	VideoStatusFailed           VideoStatus = "failed"
)

// AspectRatio อัตราส่วนวิดีโอที่รองรับ
type AspectRatio string

const (
	AspectRatioVertical   AspectRatio = "9:16"
	AspectRatioHorizontal AspectRatio = "16:9"
	AspectRatioSquare     AspectRatio = "1:1"
)

// GenerationMode โหมดการสร้างวิดีโอ
type GenerationMode string

const (
	ModeAuto   GenerationMode = "auto"   // AI เขียน script เอง
	ModeManual GenerationMode = "manual" // user ส่ง script มาเอง
)

// ModelSelections model ที่ user เลือกสำหรับแต่ละ stage
// Example: {"script": "gemini-1.5-pro", "video": "runway-gen3", "voice": "rachel"}
type ModelSelections map[string]string

// Scan implements sql.Scanner for ModelSelections
func (m *ModelSelections) Scan(value interface{}) error {
	if value == nil {
		*m = ModelSelections{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value implements driver.Valuer for ModelSelections
func (m ModelSelections) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// ErrorRecord บันทึกข้อผิดพลาดแต่ละครั้ง
type ErrorRecord struct {
	Attempt   int    `json:"attempt"`
	Error     string `json:"error"`
	Stage     string `json:"stage"` // generating_script, generating_video, ...
	Timestamp string `json:"timestamp"`
}

// ErrorHistory เก็บประวัติ errors ทั้งหมด
type ErrorHistory []ErrorRecord

// Scan implements sql.Scanner for ErrorHistory
func (e *ErrorHistory) Scan(value interface{}) error {
	if value == nil {
		*e = ErrorHistory{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, e)
}

// Value implements driver.Valuer for ErrorHistory
func (e ErrorHistory) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	return json.Marshal(e)
}

type Video struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code      string    `gorm:"size:50;uniqueIndex;not null"`

	Status VideoStatus `gorm:"size:30;default:'pending';index"`

	// Production inputs
	Mode        GenerationMode  `gorm:"size:10;default:'auto'"`
	Script      string          `gorm:"type:text"` // AI generated หรือ user ส่งมา (manual)
	Duration    int             `gorm:"default:30"` // target duration (วินาที)
	AspectRatio AspectRatio     `gorm:"size:10;default:'9:16'"`
	Models      ModelSelections `gorm:"type:jsonb;default:'{}'"`
	Voiceover   bool            `gorm:"default:true"`
	Subtitles   bool            `gorm:"default:true"`

	// Artifact paths ใน blob storage - เชื่อถือได้เมื่อ status = completed เท่านั้น
	OriginalPath  string `gorm:"type:text"` // raw generated video
	AudioPath     string `gorm:"type:text"` // voiceover track
	OptimizedPath string `gorm:"type:text"` // platform-optimized output
	ThumbnailPath string `gorm:"type:text"`

	// ค่าจริงหลัง probe (ไม่ใช่ target)
	ActualDuration int `gorm:"default:0"`

	// Failure bookkeeping
	ErrorMessage        string       `gorm:"type:text"` // non-empty iff failed
	RetryCount          int          `gorm:"default:0"`
	LastError           string       `gorm:"type:text"`
	ErrorHistory        ErrorHistory `gorm:"type:jsonb;default:'[]'"`
	ProcessingStartedAt *time.Time   `gorm:"type:timestamptz"` // สำหรับ stuck detection

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Product *Product `gorm:"foreignKey:ProductID"`
	Posts   []*Post  `gorm:"foreignKey:VideoID"`
}

func (Video) TableName() string {
	return "videos"
}

// IsTerminal ตรวจสอบว่า video อยู่ในสถานะสุดท้ายแล้ว
func (v *Video) IsTerminal() bool {
	return v.Status == VideoStatusCompleted || v.Status == VideoStatusFailed
}

// IsProcessing ตรวจสอบว่า pipeline กำลังทำงานอยู่
func (v *Video) IsProcessing() bool {
	switch v.Status {
	case VideoStatusGeneratingScript,
		VideoStatusGeneratingVideo,
		VideoStatusAddingAudio,
		VideoStatusAddingSubtitles,
		VideoStatusOptimizing:
		return true
	}
	return false
}

// IsCompleted ตรวจสอบว่า production เสร็จสมบูรณ์
func (v *Video) IsCompleted() bool {
	return v.Status == VideoStatusCompleted
}

// IsFailed ตรวจสอบว่า production ล้มเหลว
func (v *Video) IsFailed() bool {
	return v.Status == VideoStatusFailed
}

// CanDelete ลบได้เฉพาะตอนที่ pipeline ไม่ทำงาน
func (v *Video) CanDelete() bool {
	return !v.IsProcessing()
}

// AppendErrorHistory เพิ่ม error record ลงในประวัติ
func (v *Video) AppendErrorHistory(record ErrorRecord) {
	if v.ErrorHistory == nil {
		v.ErrorHistory = ErrorHistory{}
	}
	v.ErrorHistory = append(v.ErrorHistory, record)
	v.LastError = record.Error
}

// pipelineOrder ลำดับ stage สำหรับตรวจ forward-only transition
var pipelineOrder = map[VideoStatus]int{
	VideoStatusPending:          0,
	VideoStatusGeneratingScript: 1,
	VideoStatusGeneratingVideo:  2,
	VideoStatusAddingAudio:      3,
	VideoStatusAddingSubtitles:  4,
	VideoStatusOptimizing:       5,
	VideoStatusCompleted:        6,
}

// CanTransitionTo ตรวจสอบว่าเปลี่ยนจาก status ปัจจุบันไป next ได้หรือไม่
// อนุญาตให้ข้าม stage ได้ (เช่น ไม่ทำ voiceover) แต่ถอยหลังไม่ได้
func (v *Video) CanTransitionTo(next VideoStatus) bool {
	if v.IsTerminal() {
		return false
	}
	if next == VideoStatusFailed {
		return true
	}
	cur, ok := pipelineOrder[v.Status]
	if !ok {
		return false
	}
	nxt, ok := pipelineOrder[next]
	if !ok {
		return false
	}
	return nxt > cur
}
