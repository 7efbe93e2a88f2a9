package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/config"
)

func TestRunDetection_MarksStuckVideosFailed(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	cfg := &config.Config{
		Production: config.ProductionConfig{
			ProcessingTimeout: 30 * time.Minute,
			StuckCheckCron:    "*/1 * * * *",
		},
	}
	detector := NewStuckDetectorService(videoRepo, newNoopScheduler(), cfg)

	old := time.Now().Add(-1 * time.Hour)
	recent := time.Now().Add(-1 * time.Minute)

	stuck := &models.Video{
		ID: uuid.New(), UserID: uuid.New(), Code: "stuck1",
		Status: models.VideoStatusGeneratingVideo, ProcessingStartedAt: &old,
	}
	healthy := &models.Video{
		ID: uuid.New(), UserID: uuid.New(), Code: "fresh1",
		Status: models.VideoStatusOptimizing, ProcessingStartedAt: &recent,
	}
	done := &models.Video{
		ID: uuid.New(), UserID: uuid.New(), Code: "done1",
		Status: models.VideoStatusCompleted,
	}
	videoRepo.Create(context.Background(), stuck)
	videoRepo.Create(context.Background(), healthy)
	videoRepo.Create(context.Background(), done)

	marked := detector.RunDetection(context.Background())
	if marked != 1 {
		t.Fatalf("expected 1 stuck video, got %d", marked)
	}

	failed, _ := videoRepo.GetByID(context.Background(), stuck.ID)
	if failed.Status != models.VideoStatusFailed {
		t.Errorf("stuck video should be failed, got %s", failed.Status)
	}
	if failed.ErrorMessage == "" {
		t.Error("stuck video should carry timeout message")
	}

	alive, _ := videoRepo.GetByID(context.Background(), healthy.ID)
	if alive.Status != models.VideoStatusOptimizing {
		t.Errorf("recent video should be untouched, got %s", alive.Status)
	}
}

func TestRegisterDetectorJob(t *testing.T) {
	sched := newNoopScheduler()
	cfg := &config.Config{
		Production: config.ProductionConfig{StuckCheckCron: "*/1 * * * *"},
	}
	detector := NewStuckDetectorService(newFakeVideoRepo(), sched, cfg)

	if err := detector.RegisterDetectorJob(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cron, ok := sched.jobs[stuckDetectorJobID]; !ok || cron != "*/1 * * * *" {
		t.Errorf("detector job not registered correctly: %v", sched.jobs)
	}
}
