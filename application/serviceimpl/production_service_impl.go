package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/transcoder"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/config"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/progress"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/retry"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

// Production errors ที่ handler แปลงเป็น response code
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrFolderNotInitialized = errors.New("product storage folder not initialized")
	ErrInsufficientDisk     = errors.New("insufficient disk space")
	ErrVideoNotFound        = errors.New("video not found")
	ErrVideoProcessing      = errors.New("video is currently processing")
	ErrScriptRequired       = errors.New("script is required in manual mode")
)

type ProductionServiceImpl struct {
	videoRepo   repositories.VideoRepository
	productRepo repositories.ProductRepository
	storage     ports.StoragePort
	transcoder  ports.TranscoderPort
	scriptGen   ports.ScriptGeneratorPort
	videoGen    ports.VideoGeneratorPort
	speechGen   ports.SpeechGeneratorPort
	tracker     *progress.Tracker
	config      *config.Config

	// worker pool semaphore - จำกัดจำนวน pipeline ที่รันพร้อมกัน
	workers chan struct{}
}

func NewProductionService(
	videoRepo repositories.VideoRepository,
	productRepo repositories.ProductRepository,
	storage ports.StoragePort,
	tc ports.TranscoderPort,
	scriptGen ports.ScriptGeneratorPort,
	videoGen ports.VideoGeneratorPort,
	speechGen ports.SpeechGeneratorPort,
	tracker *progress.Tracker,
	cfg *config.Config,
) services.ProductionService {
	workers := cfg.Production.Workers
	if workers <= 0 {
		workers = 2
	}

	return &ProductionServiceImpl{
		videoRepo:   videoRepo,
		productRepo: productRepo,
		storage:     storage,
		transcoder:  tc,
		scriptGen:   scriptGen,
		videoGen:    videoGen,
		speechGen:   speechGen,
		tracker:     tracker,
		config:      cfg,
		workers:     make(chan struct{}, workers),
	}
}

func (s *ProductionServiceImpl) StartProduction(ctx context.Context, userID uuid.UUID, req *dto.GenerateVideoRequest) (*dto.GenerateVideoResponse, error) {
	// manual mode ต้องส่ง script มาเอง
	mode := models.GenerationMode(req.Mode)
	if mode == "" {
		mode = models.ModeAuto
	}
	if mode == models.ModeManual && req.Script == "" {
		return nil, ErrScriptRequired
	}

	// ตรวจสอบ product + storage folder
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil || product.UserID != userID {
		return nil, ErrProductNotFound
	}
	if !product.HasStorageFolder() {
		return nil, ErrFolderNotInitialized
	}

	// ตรวจสอบ disk space ก่อนรับงาน
	required := int64(s.config.Production.MinFreeSpaceGB) * 1024 * 1024 * 1024
	ok, info, err := utils.CheckDiskSpace(s.config.Storage.TempPath, required, 0)
	if err != nil {
		logger.WarnContext(ctx, "Disk space check failed", "path", s.config.Storage.TempPath, "error", err)
	} else if !ok {
		logger.WarnContext(ctx, "Insufficient disk space for production",
			"required", utils.FormatBytes(uint64(required)), "free", utils.FormatBytes(info.Free))
		return nil, ErrInsufficientDisk
	}

	duration := req.Duration
	if duration == 0 {
		duration = 30
	}
	aspectRatio := models.AspectRatio(req.AspectRatio)
	if aspectRatio == "" {
		aspectRatio = models.AspectRatioVertical
	}
	voiceover := req.Voiceover == nil || *req.Voiceover
	subtitles := req.Subtitles == nil || *req.Subtitles

	video := &models.Video{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   product.ID,
		Code:        utils.GenerateVideoCode(),
		Status:      models.VideoStatusPending,
		Mode:        mode,
		Script:      req.Script,
		Duration:    duration,
		AspectRatio: aspectRatio,
		Models:      req.Models,
		Voiceover:   voiceover,
		Subtitles:   subtitles,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		logger.ErrorContext(ctx, "Failed to create video record", "error", err)
		return nil, err
	}

	s.tracker.Start(userID, video.ID, video.Code)

	logger.InfoContext(ctx, "Video production accepted",
		"video_id", video.ID, "code", video.Code, "product_id", product.ID, "mode", mode)

	// pipeline ทำงานเบื้องหลัง - request context จบไปแล้วตอนนั้น
	go s.runPipeline(userID, video, product, req)

	return &dto.GenerateVideoResponse{
		VideoID: video.ID.String(),
		Code:    video.Code,
		Status:  "processing",
	}, nil
}

// ==========================================================================
// Pipeline
// ==========================================================================

// runPipeline รัน production stages ตามลำดับจนจบหรือ fail
// ถือ 1 slot ของ worker pool ตลอดการทำงาน
func (s *ProductionServiceImpl) runPipeline(userID uuid.UUID, video *models.Video, product *models.Product, req *dto.GenerateVideoRequest) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Production.ProcessingTimeout)
	defer cancel()

	// scratch dir สำหรับไฟล์ระหว่างทาง
	workDir, err := os.MkdirTemp(s.config.Storage.TempPath, "produce-")
	if err != nil {
		s.failPipeline(ctx, userID, video, "pending", fmt.Errorf("failed to create work dir: %w", err))
		return
	}
	defer os.RemoveAll(workDir)

	start := time.Now()

	// Stage 1: script
	if err := s.stageScript(ctx, userID, video, product, req); err != nil {
		s.failPipeline(ctx, userID, video, string(models.VideoStatusGeneratingScript), err)
		return
	}

	// Stage 2: video generation
	rawPath := filepath.Join(workDir, "original.mp4")
	if err := s.stageGenerateVideo(ctx, userID, video, product, rawPath); err != nil {
		s.failPipeline(ctx, userID, video, string(models.VideoStatusGeneratingVideo), err)
		return
	}
	currentPath := rawPath

	// Stage 3: voiceover (optional)
	var audioPath string
	if video.Voiceover {
		voicedPath := filepath.Join(workDir, "voiced.mp4")
		audioPath = filepath.Join(workDir, "voiceover.mp3")
		if err := s.stageVoiceover(ctx, userID, video, req.VoiceID, currentPath, audioPath, voicedPath); err != nil {
			s.failPipeline(ctx, userID, video, string(models.VideoStatusAddingAudio), err)
			return
		}
		currentPath = voicedPath
	}

	// Stage 4: subtitles (optional)
	if video.Subtitles && video.Script != "" {
		subtitledPath := filepath.Join(workDir, "subtitled.mp4")
		if err := s.stageSubtitles(ctx, userID, video, currentPath, subtitledPath); err != nil {
			s.failPipeline(ctx, userID, video, string(models.VideoStatusAddingSubtitles), err)
			return
		}
		currentPath = subtitledPath
	}

	// Stage 5: optimize + thumbnail
	optimizedPath := filepath.Join(workDir, "optimized.mp4")
	thumbPath := filepath.Join(workDir, "thumbnail.jpg")
	actualDuration, err := s.stageOptimize(ctx, userID, video, req.Platform, currentPath, optimizedPath, thumbPath)
	if err != nil {
		s.failPipeline(ctx, userID, video, string(models.VideoStatusOptimizing), err)
		return
	}

	// อัปโหลด artifacts ขึ้น storage
	fields, err := s.uploadArtifacts(ctx, video, product, rawPath, audioPath, optimizedPath, thumbPath)
	if err != nil {
		s.failPipeline(ctx, userID, video, string(models.VideoStatusOptimizing), err)
		return
	}

	fields["script"] = video.Script
	fields["actual_duration"] = actualDuration
	fields["status"] = models.VideoStatusCompleted
	fields["processing_started_at"] = nil
	fields["error_message"] = ""
	if err := s.videoRepo.UpdateArtifacts(ctx, video.ID, fields); err != nil {
		logger.ErrorContext(ctx, "Failed to persist artifacts", "video_id", video.ID, "error", err)
		s.failPipeline(ctx, userID, video, string(models.VideoStatusOptimizing), err)
		return
	}

	s.tracker.Complete(userID, video.ID)

	logger.InfoContext(ctx, "Video production completed",
		"video_id", video.ID, "code", video.Code, "elapsed", time.Since(start).String())
}

// advance ย้าย video ไป stage ถัดไป: persist status + reset stuck timer + แจ้ง tracker
func (s *ProductionServiceImpl) advance(ctx context.Context, userID uuid.UUID, video *models.Video, status models.VideoStatus) error {
	if !video.CanTransitionTo(status) {
		return fmt.Errorf("invalid status transition from %s to %s", video.Status, status)
	}
	if err := s.videoRepo.UpdateStatus(ctx, video.ID, status); err != nil {
		return fmt.Errorf("failed to update status to %s: %w", status, err)
	}
	if err := s.videoRepo.UpdateProcessingTimestamp(ctx, video.ID); err != nil {
		logger.WarnContext(ctx, "Failed to update processing timestamp", "video_id", video.ID, "error", err)
	}
	video.Status = status
	s.tracker.Update(userID, video.ID, progress.EstimateFromStatus(status), status, string(status), progress.StepMessage(status))
	return nil
}

func (s *ProductionServiceImpl) stageScript(ctx context.Context, userID uuid.UUID, video *models.Video, product *models.Product, req *dto.GenerateVideoRequest) error {
	if err := s.advance(ctx, userID, video, models.VideoStatusGeneratingScript); err != nil {
		return err
	}

	// manual mode ใช้ script ที่ user ส่งมา
	if video.Mode == models.ModeManual {
		return nil
	}

	script, err := retry.DoValue(ctx, s.retryConfig(video, "generating_script"), func(ctx context.Context) (string, error) {
		return s.scriptGen.GenerateScript(ctx, &ports.ScriptRequest{
			ProductName:        product.Name,
			ProductDescription: product.Description,
			Price:              product.Price,
			Duration:           video.Duration,
			Model:              video.Models["script"],
			Tone:               req.Tone,
		})
	})
	if err != nil {
		return err
	}

	video.Script = script
	return nil
}

func (s *ProductionServiceImpl) stageGenerateVideo(ctx context.Context, userID uuid.UUID, video *models.Video, product *models.Product, outputPath string) error {
	if err := s.advance(ctx, userID, video, models.VideoStatusGeneratingVideo); err != nil {
		return err
	}

	data, err := retry.DoValue(ctx, s.retryConfig(video, "generating_video"), func(ctx context.Context) ([]byte, error) {
		return s.videoGen.GenerateVideo(ctx, &ports.VideoRequest{
			Script:      video.Script,
			Duration:    video.Duration,
			AspectRatio: string(video.AspectRatio),
			Model:       video.Models["video"],
			ImageURL:    product.ImageURL,
		})
	})
	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, data, 0644)
}

func (s *ProductionServiceImpl) stageVoiceover(ctx context.Context, userID uuid.UUID, video *models.Video, voiceID, videoPath, audioPath, outputPath string) error {
	if err := s.advance(ctx, userID, video, models.VideoStatusAddingAudio); err != nil {
		return err
	}

	if voiceID == "" {
		voiceID = s.config.AI.TTSVoiceID
	}

	result, err := retry.DoValue(ctx, s.retryConfig(video, "adding_audio"), func(ctx context.Context) (*ports.TTSResult, error) {
		return s.speechGen.GenerateSpeech(ctx, video.Script, voiceID)
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(audioPath, result.AudioData, 0644); err != nil {
		return fmt.Errorf("failed to write voiceover: %w", err)
	}

	return retry.Do(ctx, s.retryConfig(video, "adding_audio"), func(ctx context.Context) error {
		return s.transcoder.MuxVoiceover(ctx, videoPath, audioPath, outputPath)
	})
}

func (s *ProductionServiceImpl) stageSubtitles(ctx context.Context, userID uuid.UUID, video *models.Video, videoPath, outputPath string) error {
	if err := s.advance(ctx, userID, video, models.VideoStatusAddingSubtitles); err != nil {
		return err
	}

	return retry.Do(ctx, s.retryConfig(video, "adding_subtitles"), func(ctx context.Context) error {
		return s.transcoder.BurnSubtitles(ctx, videoPath, outputPath, &ports.SubtitleOptions{
			Script: video.Script,
		})
	})
}

func (s *ProductionServiceImpl) stageOptimize(ctx context.Context, userID uuid.UUID, video *models.Video, platform, videoPath, outputPath, thumbPath string) (int, error) {
	if err := s.advance(ctx, userID, video, models.VideoStatusOptimizing); err != nil {
		return 0, err
	}

	// brand watermark ก่อน re-encode รอบสุดท้าย
	if s.config.Production.WatermarkText != "" {
		marked := outputPath + ".marked.mp4"
		err := retry.Do(ctx, s.retryConfig(video, "optimizing"), func(ctx context.Context) error {
			return s.transcoder.ApplyWatermark(ctx, videoPath, marked, &ports.WatermarkOptions{
				Text: s.config.Production.WatermarkText,
			})
		})
		if err != nil {
			return 0, err
		}
		videoPath = marked
	}

	profile := transcoder.ProfileForPlatform(platform, string(video.AspectRatio))
	err := retry.Do(ctx, s.retryConfig(video, "optimizing"), func(ctx context.Context) error {
		return s.transcoder.OptimizeForPlatform(ctx, videoPath, outputPath, profile)
	})
	if err != nil {
		return 0, err
	}

	err = retry.Do(ctx, s.retryConfig(video, "optimizing"), func(ctx context.Context) error {
		return s.transcoder.GenerateThumbnail(ctx, outputPath, thumbPath, 1.0)
	})
	if err != nil {
		return 0, err
	}

	info, err := s.transcoder.GetMediaInfo(ctx, outputPath)
	if err != nil {
		logger.WarnContext(ctx, "Failed to probe optimized video", "video_id", video.ID, "error", err)
		return video.Duration, nil
	}
	return int(info.Duration + 0.5), nil
}

// uploadArtifacts อัปโหลดไฟล์ผลลัพธ์ขึ้น blob storage ใต้ folder ของ product
func (s *ProductionServiceImpl) uploadArtifacts(ctx context.Context, video *models.Video, product *models.Product, rawPath, audioPath, optimizedPath, thumbPath string) (map[string]interface{}, error) {
	prefix := fmt.Sprintf("%s/videos/%s", product.StorageFolder, video.Code)
	fields := make(map[string]interface{})

	uploads := []struct {
		local       string
		remote      string
		contentType string
		field       string
	}{
		{rawPath, prefix + "/original.mp4", "video/mp4", "original_path"},
		{audioPath, prefix + "/voiceover.mp3", "audio/mpeg", "audio_path"},
		{optimizedPath, prefix + "/optimized.mp4", "video/mp4", "optimized_path"},
		{thumbPath, prefix + "/thumbnail.jpg", "image/jpeg", "thumbnail_path"},
	}

	for _, u := range uploads {
		if u.local == "" {
			continue
		}
		file, err := os.Open(u.local)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open artifact %s: %w", u.local, err)
		}

		_, err = s.storage.UploadFile(file, u.remote, u.contentType)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload artifact %s: %w", u.remote, err)
		}
		fields[u.field] = u.remote
	}

	return fields, nil
}

// failPipeline บันทึก failure: mark failed + error history + แจ้ง tracker
func (s *ProductionServiceImpl) failPipeline(ctx context.Context, userID uuid.UUID, video *models.Video, stage string, err error) {
	logger.ErrorContext(ctx, "Video production failed",
		"video_id", video.ID, "code", video.Code, "stage", stage, "error", err)

	attempts := 1
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		attempts = exhausted.Attempts
	}

	// ใช้ context ใหม่ - ctx เดิมอาจ timeout ไปแล้ว
	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if markErr := s.videoRepo.MarkVideoFailed(dbCtx, video.ID, err.Error()); markErr != nil {
		logger.ErrorContext(dbCtx, "Failed to mark video as failed", "video_id", video.ID, "error", markErr)
	}

	record := models.ErrorRecord{
		Attempt:   attempts,
		Error:     err.Error(),
		Stage:     stage,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if histErr := s.videoRepo.AppendErrorHistory(dbCtx, video.ID, record); histErr != nil {
		logger.WarnContext(dbCtx, "Failed to append error history", "video_id", video.ID, "error", histErr)
	}

	s.tracker.SetError(userID, video.ID, err.Error())
}

// retryConfig นโยบาย retry ของ external call แต่ละ stage
// ffmpeg failure (TransformError) ไม่ retry - input เดิม encode พังซ้ำแน่นอน
func (s *ProductionServiceImpl) retryConfig(video *models.Video, stage string) retry.Config {
	return retry.Config{
		MaxAttempts: s.config.Production.MaxRetries,
		Timeout:     s.config.Production.StageTimeout,
		Jitter:      true,
		ShouldRetry: func(err error) bool {
			var te *ports.TransformError
			return !errors.As(err, &te)
		},
		OnRetry: func(attempt int, err error, delay time.Duration) {
			logger.Warn("Retrying production stage",
				"video_id", video.ID, "stage", stage, "attempt", attempt, "delay", delay.String(), "error", err)
		},
	}
}

// ==========================================================================
// Queries
// ==========================================================================

func (s *ProductionServiceImpl) GetStatus(ctx context.Context, userID, videoID uuid.UUID) (*dto.VideoStatusResponse, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil || video.UserID != userID {
		return nil, ErrVideoNotFound
	}

	resp := &dto.VideoStatusResponse{
		VideoID:      video.ID.String(),
		Status:       string(video.Status),
		IsProcessing: video.IsProcessing(),
		IsCompleted:  video.IsCompleted(),
		IsFailed:     video.IsFailed(),
		ErrorMessage: video.ErrorMessage,
	}

	// tracker มี entry = live data, ไม่มี = ประมาณจาก durable status
	if job := s.tracker.Get(videoID.String()); job != nil {
		resp.Status = job.Status
		resp.Progress = job.Progress
		resp.CurrentStep = job.CurrentStep
		resp.StepMessage = job.Message
		if job.Error != "" {
			resp.ErrorMessage = job.Error
			resp.IsFailed = true
			resp.IsProcessing = false
		}
	} else {
		resp.Progress = progress.EstimateFromStatus(video.Status)
		resp.CurrentStep = string(video.Status)
		resp.StepMessage = progress.StepMessage(video.Status)
	}

	if video.IsCompleted() {
		resp.ArtifactURLs = map[string]string{}
		if video.OptimizedPath != "" {
			resp.ArtifactURLs["optimized"] = s.storage.GetFileURL(video.OptimizedPath)
		}
		if video.ThumbnailPath != "" {
			resp.ArtifactURLs["thumbnail"] = s.storage.GetFileURL(video.ThumbnailPath)
		}
		if video.OriginalPath != "" {
			resp.ArtifactURLs["original"] = s.storage.GetFileURL(video.OriginalPath)
		}
	}

	return resp, nil
}

func (s *ProductionServiceImpl) GetVideo(ctx context.Context, userID, videoID uuid.UUID) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil || video.UserID != userID {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *ProductionServiceImpl) ListVideos(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Video, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	videos, err := s.videoRepo.GetByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.videoRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

func (s *ProductionServiceImpl) DeleteVideo(ctx context.Context, userID, videoID uuid.UUID) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil || video.UserID != userID {
		return ErrVideoNotFound
	}

	if !video.CanDelete() {
		return ErrVideoProcessing
	}

	// ลบ artifacts ใน storage แบบ best-effort
	if product, perr := s.productRepo.GetByID(ctx, video.ProductID); perr == nil && product.HasStorageFolder() {
		prefix := fmt.Sprintf("%s/videos/%s", product.StorageFolder, video.Code)
		if derr := s.storage.DeleteFolder(prefix); derr != nil {
			logger.WarnContext(ctx, "Failed to delete video artifacts", "prefix", prefix, "error", derr)
		}
	}

	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return err
	}

	s.tracker.Remove(videoID.String())

	logger.InfoContext(ctx, "Video deleted", "video_id", videoID, "code", video.Code)
	return nil
}
