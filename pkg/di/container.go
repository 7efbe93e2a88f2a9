package di

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/WzGTO/ai-video-poster-pro-sub001/application/serviceimpl"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/repositories"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/generator"
	natspkg "github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/nats"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/platform"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/postgres"
	redispkg "github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/redis"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/storage"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/transcoder"
	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/websocket"
	"github.com/WzGTO/ai-video-poster-pro-sub001/interfaces/api/handlers"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/config"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/logger"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/progress"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client         // distributed lock ของ publisher batch (optional)
	NATSClient     *natspkg.Client          // NATS event bus (optional)
	EventPublisher ports.EventPublisherPort // publish progress/post events ผ่าน NATS
	Storage        ports.StoragePort        // Port/Adapter pattern
	Transcoder     ports.TranscoderPort     // FFmpeg transcoder
	EventScheduler scheduler.EventScheduler

	// WebSocket & Progress
	Hub     *websocket.Hub
	Tracker *progress.Tracker

	// Repositories
	VideoRepository      repositories.VideoRepository
	PostRepository       repositories.PostRepository
	ProductRepository    repositories.ProductRepository
	CredentialRepository repositories.CredentialRepository

	// AI Generators
	GeminiClient *generator.GeminiClient // เก็บ concrete type สำหรับ cleanup
	VideoClient  *generator.VideoProviderClient
	TTSClient    *generator.ElevenLabsClient

	// Platform Adapters
	YouTubeAdapter   *platform.YouTubeAdapter
	TikTokAdapter    *platform.TikTokAdapter
	InstagramAdapter *platform.InstagramAdapter
	PlatformRegistry *platform.Registry

	// Services
	ProductionService services.ProductionService
	PostService       services.PostService
	PublisherService  services.PublisherService
	ProductService    services.ProductService
	StuckDetector     *serviceimpl.StuckDetectorService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initGenerators(); err != nil {
		return err
	}

	c.initPlatforms()

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.startScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	// Initialize Database
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	// Run migrations
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Initialize Redis Client (optional - graceful degradation)
	// ไม่มี Redis = publisher batch รันโดยไม่มี distributed lock
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (publisher lock disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			logger.Info("Redis client initialized", "url", c.Config.Redis.URL)
		}
	}

	// Initialize NATS Client (optional - progress/post events)
	natsConfig := natspkg.ClientConfig{
		URL: c.Config.NATS.URL,
	}
	natsClient, err := natspkg.NewClient(natsConfig)
	if err != nil {
		logger.Warn("NATS client initialization failed (event publishing disabled)", "error", err)
	} else {
		c.NATSClient = natsClient
		c.EventPublisher = natspkg.NewEventPublisher(natsClient)
		logger.Info("NATS client initialized", "url", c.Config.NATS.URL)
	}

	// Initialize Storage (Port/Adapter pattern)
	if err := c.initStorage(); err != nil {
		return err
	}

	// FFmpeg Transcoder - pipeline ทำงานไม่ได้ถ้าไม่มี ffmpeg
	ffmpegConfig := transcoder.FFmpegConfig{
		FFmpegPath:  c.Config.Storage.FFmpegPath,
		FFprobePath: c.Config.Storage.FFprobePath,
		TempPath:    c.Config.Storage.TempPath,
	}
	trans, err := transcoder.NewFFmpegTranscoder(ffmpegConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize ffmpeg transcoder: %w", err)
	}
	c.Transcoder = trans
	logger.Info("FFmpeg transcoder initialized", "ffmpeg", c.Config.Storage.FFmpegPath)

	// WebSocket hub + progress tracker (hub ทำหน้าที่ Notifier ของ tracker)
	c.Hub = websocket.NewHub()
	c.Tracker = progress.NewTracker(c.Hub, c.EventPublisher)
	logger.Info("WebSocket hub and progress tracker initialized")

	return nil
}

// initStorage สร้าง storage adapter ตาม config
func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		// S3-Compatible Storage (MinIO / Cloudflare R2)
		s3Config := storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		}
		s3Storage, err := storage.NewS3Storage(s3Config)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Storage = s3Storage
		logger.Info("S3 Storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)

	default:
		localConfig := storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		}
		localStorage, err := storage.NewLocalStorage(localConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		logger.Info("Local Storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.VideoRepository = postgres.NewVideoRepository(c.DB)
	c.PostRepository = postgres.NewPostRepository(c.DB)
	c.ProductRepository = postgres.NewProductRepository(c.DB)
	c.CredentialRepository = postgres.NewCredentialRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

// initGenerators สร้าง AI provider clients (script / video / voiceover)
func (c *Container) initGenerators() error {
	gemini, err := generator.NewGeminiClient(c.Config.AI.GeminiAPIKey, c.Config.AI.ScriptModel)
	if err != nil {
		return fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	c.GeminiClient = gemini
	logger.Info("Gemini script generator initialized", "model", c.Config.AI.ScriptModel)

	c.VideoClient = generator.NewVideoProviderClient(generator.VideoProviderConfig{
		BaseURL: c.Config.AI.VideoProviderURL,
		APIKey:  c.Config.AI.VideoProviderAPIKey,
		Model:   c.Config.AI.VideoModel,
	})
	logger.Info("Video generator initialized", "model", c.Config.AI.VideoModel)

	c.TTSClient = generator.NewElevenLabsClient(generator.ElevenLabsConfig{
		APIKey:  c.Config.AI.TTSAPIKey,
		VoiceID: c.Config.AI.TTSVoiceID,
		Model:   c.Config.AI.TTSModel,
	})
	logger.Info("TTS generator initialized", "model", c.Config.AI.TTSModel)

	return nil
}

// initPlatforms สร้าง adapter ต่อ platform แล้วรวมเข้า registry
func (c *Container) initPlatforms() {
	c.YouTubeAdapter = platform.NewYouTubeAdapter(platform.YouTubeConfig{
		ClientID:     c.Config.Platforms.YouTubeClientID,
		ClientSecret: c.Config.Platforms.YouTubeClientSecret,
		RedirectURL:  c.Config.Platforms.YouTubeRedirectURL,
	}, c.CredentialRepository)

	c.TikTokAdapter = platform.NewTikTokAdapter(platform.TikTokConfig{
		APIURL: c.Config.Platforms.TikTokAPIURL,
		APIKey: c.Config.Platforms.TikTokAPIKey,
	}, c.CredentialRepository)

	c.InstagramAdapter = platform.NewInstagramAdapter(platform.InstagramConfig{
		APIURL: c.Config.Platforms.InstagramAPIURL,
		APIKey: c.Config.Platforms.InstagramAPIKey,
	}, c.CredentialRepository)

	c.PlatformRegistry = platform.NewRegistry(c.YouTubeAdapter, c.TikTokAdapter, c.InstagramAdapter)
	logger.Info("Platform adapters initialized", "youtube_oauth", c.Config.Platforms.YouTubeClientID != "")
}

func (c *Container) initServices() error {
	// scheduler ต้องมีก่อน เพราะ publisher/stuck detector ลงทะเบียน cron jobs
	c.EventScheduler = scheduler.NewEventScheduler()

	c.ProductionService = serviceimpl.NewProductionService(
		c.VideoRepository,
		c.ProductRepository,
		c.Storage,
		c.Transcoder,
		c.GeminiClient,
		c.VideoClient,
		c.TTSClient,
		c.Tracker,
		c.Config,
	)
	logger.Info("Production service initialized", "workers", c.Config.Production.Workers)

	c.PostService = serviceimpl.NewPostService(c.PostRepository, c.VideoRepository)

	c.PublisherService = serviceimpl.NewPublisherService(
		c.PostRepository,
		c.VideoRepository,
		c.PlatformRegistry,
		c.Storage,
		c.EventPublisher,
		c.RedisClient,
		c.EventScheduler,
		c.Config,
	)

	c.ProductService = serviceimpl.NewProductService(c.ProductRepository, c.VideoRepository, c.Storage)

	c.StuckDetector = serviceimpl.NewStuckDetectorService(c.VideoRepository, c.EventScheduler, c.Config)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) startScheduler() error {
	if err := c.PublisherService.RegisterJobs(); err != nil {
		return fmt.Errorf("failed to register publisher jobs: %w", err)
	}
	logger.Info("Publisher jobs registered",
		"publish_cron", c.Config.Publisher.Cron,
		"analytics_cron", c.Config.Publisher.AnalyticsCron,
	)

	if err := c.StuckDetector.RegisterDetectorJob(); err != nil {
		return fmt.Errorf("failed to register stuck detector job: %w", err)
	}
	logger.Info("Stuck detector job registered",
		"cron", c.Config.Production.StuckCheckCron,
		"processing_timeout", c.Config.Production.ProcessingTimeout.String(),
	)

	c.EventScheduler.Start()
	logger.Info("Event scheduler started")
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	// Stop scheduler
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		}
	}

	// Close Gemini client
	if c.GeminiClient != nil {
		if err := c.GeminiClient.Close(); err != nil {
			logger.Warn("Failed to close Gemini client", "error", err)
		}
	}

	// Close database connection
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	// YouTube OAuth endpoints เปิดเฉพาะตอน config ครบ
	var yt *platform.YouTubeAdapter
	if c.Config.Platforms.YouTubeClientID != "" && c.Config.Platforms.YouTubeClientSecret != "" {
		yt = c.YouTubeAdapter
	}

	return &handlers.Services{
		ProductionService: c.ProductionService,
		PostService:       c.PostService,
		PublisherService:  c.PublisherService,
		ProductService:    c.ProductService,
		StoragePort:       c.Storage,
		YouTubeAdapter:    yt,
		JWTSecret:         c.Config.JWT.Secret,
	}
}
