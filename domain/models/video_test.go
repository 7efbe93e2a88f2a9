package models

import (
	"encoding/json"
	"testing"
)

func TestVideo_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from VideoStatus
		to   VideoStatus
		want bool
	}{
		{"pending to generating_script", VideoStatusPending, VideoStatusGeneratingScript, true},
		{"forward one stage", VideoStatusGeneratingScript, VideoStatusGeneratingVideo, true},
		{"skip voiceover stage", VideoStatusGeneratingVideo, VideoStatusAddingSubtitles, true},
		{"skip to completed", VideoStatusOptimizing, VideoStatusCompleted, true},
		{"backward not allowed", VideoStatusAddingAudio, VideoStatusGeneratingScript, false},
		{"same status not allowed", VideoStatusOptimizing, VideoStatusOptimizing, false},
		{"failed from any active stage", VideoStatusGeneratingVideo, VideoStatusFailed, true},
		{"completed is terminal", VideoStatusCompleted, VideoStatusFailed, false},
		{"failed is terminal", VideoStatusFailed, VideoStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Video{Status: tt.from}
			if got := v.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s→%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

// TestErrorRecord_JSONBElement ตรวจว่า record marshal เป็น jsonb element ที่ append
// เข้า error_history แล้ว scan กลับมาได้ครบ
func TestErrorRecord_JSONBElement(t *testing.T) {
	record := ErrorRecord{
		Attempt:   2,
		Error:     "video generation timed out",
		Stage:     string(VideoStatusGeneratingVideo),
		Timestamp: "2026-08-29T10:00:00Z",
	}

	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}

	// จำลองผลของ COALESCE(error_history, '[]') || payload ฝั่ง postgres
	appended := []byte(`[` + string(payload) + `]`)

	var history ErrorHistory
	if err := history.Scan(appended); err != nil {
		t.Fatalf("scan appended history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	if history[0] != record {
		t.Errorf("round-trip mismatch: got %+v, want %+v", history[0], record)
	}
}

func TestErrorHistory_ScanNil(t *testing.T) {
	var history ErrorHistory
	if err := history.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if history == nil || len(history) != 0 {
		t.Errorf("expected empty history, got %v", history)
	}
}
