package progress

import (
	"sync"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
)

// JobData สถานะ ephemeral ของ production job 1 งาน
// อยู่ใน memory เท่านั้น - restart แล้วหาย (status ใน DB เป็น fallback)
type JobData struct {
	VideoID     string `json:"videoId"`
	VideoCode   string `json:"videoCode"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"` // 0-100, ไม่ลดลง
	CurrentStep string `json:"currentStep"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
}

// Notifier รับ update ทุกครั้งที่ job เปลี่ยน (websocket hub)
type Notifier interface {
	NotifyProgress(userID uuid.UUID, data *JobData)
}

// Tracker จัดการ progress ของ production jobs ทั้งหมดใน process
type Tracker struct {
	mutex     sync.RWMutex
	jobs      map[string]*JobData      // key: videoID
	notifier  Notifier                 // optional
	publisher ports.EventPublisherPort // optional, best-effort
}

func NewTracker(notifier Notifier, publisher ports.EventPublisherPort) *Tracker {
	return &Tracker{
		jobs:      make(map[string]*JobData),
		notifier:  notifier,
		publisher: publisher,
	}
}

// Start เริ่ม tracking job ใหม่ (progress 0)
func (t *Tracker) Start(userID, videoID uuid.UUID, videoCode string) {
	data := &JobData{
		VideoID:     videoID.String(),
		VideoCode:   videoCode,
		Status:      string(models.VideoStatusPending),
		Progress:    0,
		CurrentStep: "pending",
		Message:     "รอเริ่มงาน",
	}

	t.mutex.Lock()
	t.jobs[videoID.String()] = data
	snapshot := *data
	t.mutex.Unlock()

	t.notify(userID, &snapshot)
}

// Update อัพเดท progress - percent ไม่มีวันลดลง (clamp ไว้)
func (t *Tracker) Update(userID, videoID uuid.UUID, percent int, status models.VideoStatus, step, message string) {
	t.mutex.Lock()
	data, ok := t.jobs[videoID.String()]
	if !ok {
		t.mutex.Unlock()
		return
	}
	if percent > data.Progress {
		data.Progress = percent
	}
	data.Status = string(status)
	data.CurrentStep = step
	data.Message = message
	snapshot := *data
	t.mutex.Unlock()

	t.notify(userID, &snapshot)
}

// SetError mark job เป็น failed - คง progress ล่าสุดไว้
func (t *Tracker) SetError(userID, videoID uuid.UUID, errorMessage string) {
	t.mutex.Lock()
	data, ok := t.jobs[videoID.String()]
	if !ok {
		t.mutex.Unlock()
		return
	}
	data.Status = string(models.VideoStatusFailed)
	data.Error = errorMessage
	data.Message = "ล้มเหลว"
	snapshot := *data
	t.mutex.Unlock()

	t.notify(userID, &snapshot)
}

// Complete job เสร็จสมบูรณ์ (progress 100)
func (t *Tracker) Complete(userID, videoID uuid.UUID) {
	t.mutex.Lock()
	data, ok := t.jobs[videoID.String()]
	if !ok {
		t.mutex.Unlock()
		return
	}
	data.Progress = 100
	data.Status = string(models.VideoStatusCompleted)
	data.CurrentStep = "completed"
	data.Message = "เสร็จสิ้น"
	snapshot := *data
	t.mutex.Unlock()

	t.notify(userID, &snapshot)
}

// Get ดึง snapshot ปัจจุบัน (nil ถ้าไม่มี entry - caller fallback ไปที่ DB)
func (t *Tracker) Get(videoID string) *JobData {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if data, ok := t.jobs[videoID]; ok {
		snapshot := *data
		return &snapshot
	}
	return nil
}

// Remove ลบ entry (เรียกตอน delete video)
func (t *Tracker) Remove(videoID string) {
	t.mutex.Lock()
	delete(t.jobs, videoID)
	t.mutex.Unlock()
}

// notify ส่ง update ไป websocket hub + NATS แบบ best-effort
func (t *Tracker) notify(userID uuid.UUID, data *JobData) {
	if t.notifier != nil {
		t.notifier.NotifyProgress(userID, data)
	}

	if t.publisher != nil {
		err := t.publisher.PublishProgress(&ports.ProgressEvent{
			VideoID:     data.VideoID,
			Status:      data.Status,
			Progress:    data.Progress,
			CurrentStep: data.CurrentStep,
			Message:     data.Message,
			Error:       data.Error,
		})
		if err != nil {
			logger.Warn("Failed to publish progress event", "video_id", data.VideoID, "error", err)
		}
	}
}

// statusEstimates ตาราง fallback: สถานะ → percent โดยประมาณ
// ใช้ตอน tracker ไม่มี entry (เช่น หลัง restart) - เป็น heuristic ไม่ใช่ค่าจริง
var statusEstimates = map[models.VideoStatus]int{
	models.VideoStatusPending:          0,
	models.VideoStatusGeneratingScript: 10,
	models.VideoStatusGeneratingVideo:  40,
	models.VideoStatusAddingAudio:      70,
	models.VideoStatusAddingSubtitles:  80,
	models.VideoStatusOptimizing:       90,
	models.VideoStatusCompleted:        100,
}

// EstimateFromStatus ประมาณ percent จาก durable status
// failed คืน 0 เพราะไม่รู้ว่าพังที่ stage ไหน
func EstimateFromStatus(status models.VideoStatus) int {
	if pct, ok := statusEstimates[status]; ok {
		return pct
	}
	return 0
}

// StepMessage ข้อความมาตรฐานของแต่ละ stage
func StepMessage(status models.VideoStatus) string {
	switch status {
	case models.VideoStatusPending:
		return "รอเริ่มงาน"
	case models.VideoStatusGeneratingScript:
		return "กำลังเขียน script"
	case models.VideoStatusGeneratingVideo:
		return "กำลังสร้างวิดีโอ"
	case models.VideoStatusAddingAudio:
		return "กำลังใส่เสียงพากย์"
	case models.VideoStatusAddingSubtitles:
		return "กำลังใส่ subtitle"
	case models.VideoStatusOptimizing:
		return "กำลัง optimize สำหรับ platform"
	case models.VideoStatusCompleted:
		return "เสร็จสิ้น"
	case models.VideoStatusFailed:
		return "ล้มเหลว"
	}
	return ""
}
