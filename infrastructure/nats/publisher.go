package nats

import (
	"encoding/json"
	"fmt"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
)

// EventPublisher implements EventPublisherPort ผ่าน NATS core publish
// best-effort: caller log warning แล้วทำงานต่อเมื่อ publish พัง
type EventPublisher struct {
	client *Client
}

func NewEventPublisher(client *Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// PublishProgress publish pipeline progress update
func (p *EventPublisher) PublishProgress(event *ports.ProgressEvent) error {
	return p.publish(SubjectProgress, event)
}

// PublishPostResult publish ผลโพสต์จาก publisher
func (p *EventPublisher) PublishPostResult(event *ports.PostPublishedEvent) error {
	return p.publish(SubjectPostPublished, event)
}

func (p *EventPublisher) publish(subject string, event interface{}) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("nats not connected")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Conn().Publish(subject, data); err != nil {
		logger.Warn("Failed to publish event", "subject", subject, "error", err)
		return err
	}

	return nil
}

var _ ports.EventPublisherPort = (*EventPublisher)(nil)
