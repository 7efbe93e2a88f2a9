package progress

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
)

type fakeNotifier struct {
	mu      sync.Mutex
	updates []*JobData
}

func (f *fakeNotifier) NotifyProgress(userID uuid.UUID, data *JobData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, data)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func TestTrackerStartAndGet(t *testing.T) {
	tracker := NewTracker(nil, nil)
	userID := uuid.New()
	videoID := uuid.New()

	tracker.Start(userID, videoID, "abc12345")

	data := tracker.Get(videoID.String())
	if data == nil {
		t.Fatal("expected job data after Start")
	}
	if data.Progress != 0 {
		t.Errorf("expected progress 0, got %d", data.Progress)
	}
	if data.VideoCode != "abc12345" {
		t.Errorf("unexpected code: %s", data.VideoCode)
	}
}

func TestTrackerProgressNeverDecreases(t *testing.T) {
	tracker := NewTracker(nil, nil)
	userID := uuid.New()
	videoID := uuid.New()

	tracker.Start(userID, videoID, "abc12345")
	tracker.Update(userID, videoID, 40, models.VideoStatusGeneratingVideo, "generating_video", "")
	tracker.Update(userID, videoID, 25, models.VideoStatusGeneratingVideo, "generating_video", "")

	data := tracker.Get(videoID.String())
	if data.Progress != 40 {
		t.Errorf("progress must not decrease: expected 40, got %d", data.Progress)
	}

	tracker.Update(userID, videoID, 70, models.VideoStatusAddingAudio, "adding_audio", "")
	data = tracker.Get(videoID.String())
	if data.Progress != 70 {
		t.Errorf("expected 70, got %d", data.Progress)
	}
}

func TestTrackerSetErrorKeepsProgress(t *testing.T) {
	tracker := NewTracker(nil, nil)
	userID := uuid.New()
	videoID := uuid.New()

	tracker.Start(userID, videoID, "abc12345")
	tracker.Update(userID, videoID, 40, models.VideoStatusGeneratingVideo, "generating_video", "")
	tracker.SetError(userID, videoID, "provider unavailable")

	data := tracker.Get(videoID.String())
	if data.Status != string(models.VideoStatusFailed) {
		t.Errorf("expected failed status, got %s", data.Status)
	}
	if data.Error != "provider unavailable" {
		t.Errorf("unexpected error message: %s", data.Error)
	}
	if data.Progress != 40 {
		t.Errorf("failure must keep last progress, got %d", data.Progress)
	}
}

func TestTrackerGetMissReturnsNil(t *testing.T) {
	tracker := NewTracker(nil, nil)
	if data := tracker.Get(uuid.New().String()); data != nil {
		t.Errorf("expected nil for unknown video")
	}
}

func TestTrackerRemove(t *testing.T) {
	tracker := NewTracker(nil, nil)
	userID := uuid.New()
	videoID := uuid.New()

	tracker.Start(userID, videoID, "abc12345")
	tracker.Remove(videoID.String())

	if data := tracker.Get(videoID.String()); data != nil {
		t.Errorf("expected nil after Remove")
	}
}

func TestTrackerNotifiesOnEveryMutation(t *testing.T) {
	notifier := &fakeNotifier{}
	tracker := NewTracker(notifier, nil)
	userID := uuid.New()
	videoID := uuid.New()

	tracker.Start(userID, videoID, "abc12345")
	tracker.Update(userID, videoID, 10, models.VideoStatusGeneratingScript, "generating_script", "")
	tracker.Complete(userID, videoID)

	if notifier.count() != 3 {
		t.Errorf("expected 3 notifications, got %d", notifier.count())
	}
}

func TestTrackerUpdateUnknownVideoNoops(t *testing.T) {
	notifier := &fakeNotifier{}
	tracker := NewTracker(notifier, nil)

	tracker.Update(uuid.New(), uuid.New(), 50, models.VideoStatusOptimizing, "optimizing", "")

	if notifier.count() != 0 {
		t.Errorf("update for unknown job must not notify")
	}
}

func TestEstimateFromStatus(t *testing.T) {
	tests := []struct {
		status models.VideoStatus
		want   int
	}{
		{models.VideoStatusPending, 0},
		{models.VideoStatusGeneratingScript, 10},
		{models.VideoStatusGeneratingVideo, 40},
		{models.VideoStatusAddingAudio, 70},
		{models.VideoStatusAddingSubtitles, 80},
		{models.VideoStatusOptimizing, 90},
		{models.VideoStatusCompleted, 100},
		{models.VideoStatusFailed, 0},
	}

	for _, tt := range tests {
		if got := EstimateFromStatus(tt.status); got != tt.want {
			t.Errorf("EstimateFromStatus(%s) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
