package serviceimpl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/models"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

// ==========================================================================
// In-memory repositories
// ==========================================================================

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*models.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uuid.UUID]*models.Video)}
}

func (r *fakeVideoRepo) Create(ctx context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, errors.New("not found")
}

func (r *fakeVideoRepo) GetByCode(ctx context.Context, code string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.videos {
		if v.Code == code {
			copied := *v
			return &copied, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeVideoRepo) GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Video
	for _, v := range r.videos {
		if v.UserID == userID {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) GetByStatus(ctx context.Context, status models.VideoStatus, offset, limit int) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Video
	for _, v := range r.videos {
		if v.Status == status {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) Update(ctx context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.VideoStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		v.Status = status
	}
	return nil
}

func (r *fakeVideoRepo) UpdateArtifacts(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return errors.New("not found")
	}
	for key, value := range fields {
		switch key {
		case "status":
			v.Status = value.(models.VideoStatus)
		case "script":
			v.Script = value.(string)
		case "original_path":
			v.OriginalPath = value.(string)
		case "audio_path":
			v.AudioPath = value.(string)
		case "optimized_path":
			v.OptimizedPath = value.(string)
		case "thumbnail_path":
			v.ThumbnailPath = value.(string)
		case "actual_duration":
			v.ActualDuration = value.(int)
		case "error_message":
			v.ErrorMessage = value.(string)
		case "processing_started_at":
			v.ProcessingStartedAt = nil
		}
	}
	return nil
}

func (r *fakeVideoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.videos {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeVideoRepo) GetStuckProcessing(ctx context.Context, threshold time.Time) ([]*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Video
	for _, v := range r.videos {
		if v.IsProcessing() && v.ProcessingStartedAt != nil && v.ProcessingStartedAt.Before(threshold) {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) MarkVideoFailed(ctx context.Context, id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return errors.New("not found")
	}
	v.Status = models.VideoStatusFailed
	v.ErrorMessage = errorMsg
	v.LastError = errorMsg
	v.RetryCount++
	v.ProcessingStartedAt = nil
	return nil
}

func (r *fakeVideoRepo) UpdateProcessingTimestamp(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		now := time.Now()
		v.ProcessingStartedAt = &now
	}
	return nil
}

func (r *fakeVideoRepo) AppendErrorHistory(ctx context.Context, id uuid.UUID, record models.ErrorRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		v.ErrorHistory = append(v.ErrorHistory, record)
	}
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]*models.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errors.New("not found")
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetByVideoID(ctx context.Context, videoID uuid.UUID) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.VideoID == videoID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		p.Status = status
		if status != models.PostStatusFailed {
			p.ErrorMessage = ""
		}
	}
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) GetDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.IsDue(now) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(*out[j].ScheduledAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) GetPostedForAnalytics(ctx context.Context, syncedBefore time.Time, limit int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.Status != models.PostStatusPosted || p.ExternalPostID == "" {
			continue
		}
		if p.AnalyticsSyncedAt != nil && !p.AnalyticsSyncedAt.Before(syncedBefore) {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakePostRepo) MarkPosted(ctx context.Context, id uuid.UUID, externalPostID, externalURL string, postedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return errors.New("not found")
	}
	p.Status = models.PostStatusPosted
	p.ExternalPostID = externalPostID
	p.ExternalURL = externalURL
	p.PostedAt = &postedAt
	p.ErrorMessage = ""
	return nil
}

func (r *fakePostRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return errors.New("not found")
	}
	p.Status = models.PostStatusFailed
	p.ErrorMessage = errorMsg
	return nil
}

func (r *fakePostRepo) UpdateAnalytics(ctx context.Context, id uuid.UUID, analytics map[string]interface{}, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return errors.New("not found")
	}
	if v, ok := analytics["views"].(int64); ok {
		p.Views = v
	}
	if v, ok := analytics["likes"].(int64); ok {
		p.Likes = v
	}
	if v, ok := analytics["comments"].(int64); ok {
		p.Comments = v
	}
	if v, ok := analytics["shares"].(int64); ok {
		p.Shares = v
	}
	if v, ok := analytics["clicks"].(int64); ok {
		p.Clicks = v
	}
	p.AnalyticsSyncedAt = &syncedAt
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errors.New("not found")
}

func (r *fakeProductRepo) GetBySlug(ctx context.Context, s string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == s {
			copied := *p
			return &copied, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeProductRepo) GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Product
	for _, p := range r.products {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) UpdateStorageFolder(ctx context.Context, id uuid.UUID, folder string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.StorageFolder = folder
	}
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.products {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ==========================================================================
// Fake ports
// ==========================================================================

type fakeStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) UploadFile(file io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return s.GetFileURL(path), nil
}

func (s *fakeStorage) DeleteFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStorage) DeleteFolder(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path := range s.files {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			delete(s.files, path)
		}
	}
	s.deleted = append(s.deleted, prefix)
	return nil
}

func (s *fakeStorage) GetFileURL(path string) string {
	return "http://files.local/" + path
}

func (s *fakeStorage) GetFileContent(path string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "application/octet-stream", nil
}

func (s *fakeStorage) ListFolder(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for path := range s.files {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			out = append(out, path)
		}
	}
	return out, nil
}

func (s *fakeStorage) GetProviderName() string { return "fake" }

func (s *fakeStorage) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// fakeTranscoder เขียน output file จริงเพื่อให้ stage ถัดไปอ่านได้
type fakeTranscoder struct {
	probeDuration  float64
	failTransform  string // transform ที่จะ fail ถาวรด้วย TransformError (ว่าง = ไม่ fail)
	flakyTransform string // transform ที่จะ fail ชั่วคราวด้วย error ธรรมดา
	flakyRemaining int    // จำนวนครั้งที่ flakyTransform จะ fail ก่อนกลับมาปกติ
	mu             sync.Mutex
	calls          []string
}

func (t *fakeTranscoder) record(name, outputPath string) error {
	t.mu.Lock()
	t.calls = append(t.calls, name)
	flaky := t.flakyTransform == name && t.flakyRemaining > 0
	if flaky {
		t.flakyRemaining--
	}
	t.mu.Unlock()
	if flaky {
		return errors.New("transcoder i/o interrupted")
	}
	if t.failTransform == name {
		return &ports.TransformError{Transform: name, Err: errors.New("boom"), Stderr: "fake stderr"}
	}
	if outputPath != "" {
		return os.WriteFile(outputPath, []byte(name), 0644)
	}
	return nil
}

func (t *fakeTranscoder) MuxVoiceover(ctx context.Context, videoPath, audioPath, outputPath string) error {
	return t.record("mux_voiceover", outputPath)
}

func (t *fakeTranscoder) BurnSubtitles(ctx context.Context, videoPath, outputPath string, opts *ports.SubtitleOptions) error {
	return t.record("burn_subtitles", outputPath)
}

func (t *fakeTranscoder) ApplyWatermark(ctx context.Context, videoPath, outputPath string, opts *ports.WatermarkOptions) error {
	return t.record("apply_watermark", outputPath)
}

func (t *fakeTranscoder) MixMusic(ctx context.Context, videoPath, outputPath string, opts *ports.MusicOptions) error {
	return t.record("mix_music", outputPath)
}

func (t *fakeTranscoder) OptimizeForPlatform(ctx context.Context, videoPath, outputPath, profileName string) error {
	return t.record("optimize", outputPath)
}

func (t *fakeTranscoder) GenerateThumbnail(ctx context.Context, videoPath, outputPath string, atSecond float64) error {
	return t.record("thumbnail", outputPath)
}

func (t *fakeTranscoder) GetMediaInfo(ctx context.Context, path string) (*ports.MediaInfo, error) {
	return &ports.MediaInfo{Duration: t.probeDuration, Width: 1080, Height: 1920, HasAudio: true}, nil
}

func (t *fakeTranscoder) IsAvailable() bool { return true }

type fakeScriptGen struct {
	script string
	err    error
	mu     sync.Mutex
	calls  int
}

func (g *fakeScriptGen) GenerateScript(ctx context.Context, req *ports.ScriptRequest) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.script, nil
}

type fakeVideoGen struct {
	err error
}

func (g *fakeVideoGen) GenerateVideo(ctx context.Context, req *ports.VideoRequest) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []byte("mp4-data"), nil
}

type fakeSpeechGen struct {
	err error
}

func (g *fakeSpeechGen) GenerateSpeech(ctx context.Context, text string, voiceID string) (*ports.TTSResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &ports.TTSResult{AudioData: []byte("mp3-data"), Duration: 10, CharCount: len(text)}, nil
}

type stubAdapter struct {
	name      string
	postErr   error
	analytics ports.Analytics
	mu        sync.Mutex
	posted    int
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) PostVideo(ctx context.Context, req *ports.PostVideoRequest) (*ports.PostVideoResult, error) {
	a.mu.Lock()
	a.posted++
	a.mu.Unlock()
	if a.postErr != nil {
		return nil, a.postErr
	}
	return &ports.PostVideoResult{
		ExternalPostID: a.name + "-ext-1",
		URL:            "https://" + a.name + ".example/v/1",
		PostedAt:       time.Now(),
	}, nil
}

func (a *stubAdapter) GetAnalytics(ctx context.Context, userID uuid.UUID, externalPostID string) (*ports.Analytics, error) {
	copied := a.analytics
	return &copied, nil
}

func (a *stubAdapter) GetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "token", nil
}

// noopScheduler เก็บ job ที่ลงทะเบียนไว้เฉยๆ ไม่รันจริง
type noopScheduler struct {
	jobs map[string]string
}

func newNoopScheduler() *noopScheduler {
	return &noopScheduler{jobs: make(map[string]string)}
}

func (s *noopScheduler) Start() {}
func (s *noopScheduler) Stop()  {}
func (s *noopScheduler) AddJob(id, cronExpr string, task func()) error {
	if _, exists := s.jobs[id]; exists {
		return errors.New("duplicate job")
	}
	s.jobs[id] = cronExpr
	return nil
}
func (s *noopScheduler) RemoveJob(id string) error {
	delete(s.jobs, id)
	return nil
}
func (s *noopScheduler) IsRunning() bool { return false }
