package ports

// ProgressEvent progress update ที่ publish ออก messaging
type ProgressEvent struct {
	VideoID     string `json:"videoId"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	CurrentStep string `json:"currentStep"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
}

// PostPublishedEvent event เมื่อ publisher โพสต์สำเร็จหรือล้มเหลว
type PostPublishedEvent struct {
	PostID         string `json:"postId"`
	Platform       string `json:"platform"`
	Success        bool   `json:"success"`
	ExternalPostID string `json:"externalPostId,omitempty"`
	Error          string `json:"error,omitempty"`
}

// EventPublisherPort publish events แบบ best-effort (ระบบทำงานต่อได้ถ้า broker ล่ม)
type EventPublisherPort interface {
	PublishProgress(event *ProgressEvent) error
	PublishPostResult(event *PostPublishedEvent) error
}
