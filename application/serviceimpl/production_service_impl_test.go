package serviceimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/config"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/progress"
)

func productionTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Storage: config.StorageConfig{
			TempPath: t.TempDir(),
		},
		AI: config.AIConfig{
			TTSVoiceID: "default-voice",
		},
		Production: config.ProductionConfig{
			Workers:           1,
			MinFreeSpaceGB:    0,
			StageTimeout:      5 * time.Second,
			MaxRetries:        2,
			ProcessingTimeout: 1 * time.Minute,
		},
	}
}

type productionFixture struct {
	svc         *ProductionServiceImpl
	videoRepo   *fakeVideoRepo
	productRepo *fakeProductRepo
	storage     *fakeStorage
	transcoder  *fakeTranscoder
	scriptGen   *fakeScriptGen
	videoGen    *fakeVideoGen
	speechGen   *fakeSpeechGen
	tracker     *progress.Tracker
	product     *models.Product
	userID      uuid.UUID
}

func newProductionFixture(t *testing.T) *productionFixture {
	t.Helper()

	f := &productionFixture{
		videoRepo:   newFakeVideoRepo(),
		productRepo: newFakeProductRepo(),
		storage:     newFakeStorage(),
		transcoder:  &fakeTranscoder{probeDuration: 12.2},
		scriptGen:   &fakeScriptGen{script: "Buy this amazing product today!"},
		videoGen:    &fakeVideoGen{},
		speechGen:   &fakeSpeechGen{},
		tracker:     progress.NewTracker(nil, nil),
		userID:      uuid.New(),
	}

	f.product = &models.Product{
		ID:            uuid.New(),
		UserID:        f.userID,
		Name:          "Test Product",
		Slug:          "test-product",
		Description:   "A product worth buying",
		Price:         99.0,
		StorageFolder: "products/test-product",
	}
	f.productRepo.Create(context.Background(), f.product)

	svc := NewProductionService(
		f.videoRepo, f.productRepo, f.storage, f.transcoder,
		f.scriptGen, f.videoGen, f.speechGen, f.tracker,
		productionTestConfig(t),
	)
	f.svc = svc.(*ProductionServiceImpl)
	return f
}

// waitForTerminal รอจน video เข้า terminal state (pipeline รันใน goroutine)
func (f *productionFixture) waitForTerminal(t *testing.T, videoID uuid.UUID) *models.Video {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		video, err := f.videoRepo.GetByID(context.Background(), videoID)
		if err == nil && video.IsTerminal() {
			return video
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("video did not reach terminal state in time")
	return nil
}

func TestStartProduction_FullPipeline(t *testing.T) {
	f := newProductionFixture(t)

	resp, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: f.product.ID,
		Platform:  "youtube",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "processing" || resp.Code == "" {
		t.Errorf("unexpected response: %+v", resp)
	}

	video := f.waitForTerminal(t, uuid.MustParse(resp.VideoID))
	if video.Status != models.VideoStatusCompleted {
		t.Fatalf("expected completed, got %s (error: %s)", video.Status, video.ErrorMessage)
	}

	if video.Script == "" {
		t.Error("generated script should be persisted")
	}
	if video.OriginalPath == "" || video.OptimizedPath == "" || video.ThumbnailPath == "" || video.AudioPath == "" {
		t.Errorf("artifact paths missing: %+v", video)
	}
	if video.ActualDuration != 12 {
		t.Errorf("expected actual duration 12, got %d", video.ActualDuration)
	}
	if f.storage.uploadCount() != 4 {
		t.Errorf("expected 4 uploaded artifacts, got %d", f.storage.uploadCount())
	}
	if job := f.tracker.Get(resp.VideoID); job == nil || job.Progress != 100 {
		t.Error("tracker should report 100% after completion")
	}
}

func TestStartProduction_ManualModeSkipsScriptGeneration(t *testing.T) {
	f := newProductionFixture(t)

	resp, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: f.product.ID,
		Mode:      "manual",
		Script:    "My own script.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	video := f.waitForTerminal(t, uuid.MustParse(resp.VideoID))
	if video.Status != models.VideoStatusCompleted {
		t.Fatalf("expected completed, got %s (error: %s)", video.Status, video.ErrorMessage)
	}
	if video.Script != "My own script." {
		t.Errorf("manual script was replaced: %q", video.Script)
	}
	if f.scriptGen.calls != 0 {
		t.Errorf("script generator should not be called in manual mode, got %d calls", f.scriptGen.calls)
	}
}

func TestStartProduction_ManualModeRequiresScript(t *testing.T) {
	f := newProductionFixture(t)

	_, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: f.product.ID,
		Mode:      "manual",
	})
	if err != ErrScriptRequired {
		t.Fatalf("expected ErrScriptRequired, got %v", err)
	}
}

func TestStartProduction_RejectsUninitializedStorage(t *testing.T) {
	f := newProductionFixture(t)

	bare := &models.Product{ID: uuid.New(), UserID: f.userID, Name: "No Folder", Slug: "no-folder"}
	f.productRepo.Create(context.Background(), bare)

	_, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: bare.ID,
	})
	if err != ErrFolderNotInitialized {
		t.Fatalf("expected ErrFolderNotInitialized, got %v", err)
	}
}

func TestStartProduction_RejectsUnknownProduct(t *testing.T) {
	f := newProductionFixture(t)

	_, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: uuid.New(),
	})
	if err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestStartProduction_ScriptFailureMarksVideoFailed(t *testing.T) {
	f := newProductionFixture(t)
	f.scriptGen.err = errors.New("quota exceeded")

	resp, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: f.product.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	video := f.waitForTerminal(t, uuid.MustParse(resp.VideoID))
	if video.Status != models.VideoStatusFailed {
		t.Fatalf("expected failed, got %s", video.Status)
	}
	if video.ErrorMessage == "" {
		t.Error("failed video should carry error message")
	}
	if len(video.ErrorHistory) == 0 {
		t.Error("error history should record the failure")
	}
	if video.ErrorHistory[0].Stage != "generating_script" {
		t.Errorf("expected stage generating_script, got %s", video.ErrorHistory[0].Stage)
	}
	// retryable error ถูกลองซ้ำจนครบ MaxRetries
	if f.scriptGen.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", f.scriptGen.calls)
	}
}

func TestStartProduction_TransformErrorNotRetried(t *testing.T) {
	f := newProductionFixture(t)
	f.transcoder.failTransform = "optimize"

	resp, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: f.product.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	video := f.waitForTerminal(t, uuid.MustParse(resp.VideoID))
	if video.Status != models.VideoStatusFailed {
		t.Fatalf("expected failed, got %s", video.Status)
	}

	optimizeCalls := 0
	for _, call := range f.transcoder.calls {
		if call == "optimize" {
			optimizeCalls++
		}
	}
	if optimizeCalls != 1 {
		t.Errorf("transform error should not be retried, got %d optimize calls", optimizeCalls)
	}
}

func TestStartProduction_TransientTranscoderErrorRetried(t *testing.T) {
	f := newProductionFixture(t)
	f.transcoder.flakyTransform = "mux_voiceover"
	f.transcoder.flakyRemaining = 1

	resp, err := f.svc.StartProduction(context.Background(), f.userID, &dto.GenerateVideoRequest{
		ProductID: f.product.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	video := f.waitForTerminal(t, uuid.MustParse(resp.VideoID))
	if video.Status != models.VideoStatusCompleted {
		t.Fatalf("expected completed after retry, got %s (error: %s)", video.Status, video.ErrorMessage)
	}

	muxCalls := 0
	for _, call := range f.transcoder.calls {
		if call == "mux_voiceover" {
			muxCalls++
		}
	}
	if muxCalls != 2 {
		t.Errorf("expected transient mux failure to be retried once, got %d calls", muxCalls)
	}
}

func TestGetStatus_FallsBackToDurableRecord(t *testing.T) {
	f := newProductionFixture(t)

	video := &models.Video{
		ID:            uuid.New(),
		UserID:        f.userID,
		ProductID:     f.product.ID,
		Code:          "restart1",
		Status:        models.VideoStatusCompleted,
		OptimizedPath: "products/test-product/videos/restart1/optimized.mp4",
		ThumbnailPath: "products/test-product/videos/restart1/thumbnail.jpg",
	}
	f.videoRepo.Create(context.Background(), video)

	// ไม่มี tracker entry (เหมือนหลัง process restart) - ต้อง estimate จาก status
	status, err := f.svc.GetStatus(context.Background(), f.userID, video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Progress != 100 || !status.IsCompleted {
		t.Errorf("expected completed at 100%%, got %d%% completed=%v", status.Progress, status.IsCompleted)
	}
	if status.ArtifactURLs["optimized"] == "" || status.ArtifactURLs["thumbnail"] == "" {
		t.Errorf("artifact URLs missing: %v", status.ArtifactURLs)
	}
}

func TestDeleteVideo_RejectsWhileProcessing(t *testing.T) {
	f := newProductionFixture(t)

	video := &models.Video{
		ID:        uuid.New(),
		UserID:    f.userID,
		ProductID: f.product.ID,
		Code:      "busy1",
		Status:    models.VideoStatusGeneratingVideo,
	}
	f.videoRepo.Create(context.Background(), video)

	if err := f.svc.DeleteVideo(context.Background(), f.userID, video.ID); err != ErrVideoProcessing {
		t.Fatalf("expected ErrVideoProcessing, got %v", err)
	}

	// เสร็จแล้วลบได้
	f.videoRepo.UpdateStatus(context.Background(), video.ID, models.VideoStatusCompleted)
	if err := f.svc.DeleteVideo(context.Background(), f.userID, video.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.videoRepo.GetByID(context.Background(), video.ID); err == nil {
		t.Error("video should be deleted")
	}
}
