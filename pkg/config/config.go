package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NATS       NATSConfig
	JWT        JWTConfig
	Log        LogConfig
	Storage    StorageConfig
	AI         AIConfig
	Platforms  PlatformsConfig
	Publisher  PublisherConfig
	Production ProductionConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig สำหรับ cache credential/analytics (optional)
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
}

// NATSConfig สำหรับ publish progress/post events (optional)
type NATSConfig struct {
	URL string // nats://localhost:4222
}

type JWTConfig struct {
	Secret string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type StorageConfig struct {
	Type       string // local, s3
	BasePath   string // สำหรับ local: ./uploads
	BaseURL    string // URL สำหรับเข้าถึงไฟล์
	TempPath   string // scratch dir สำหรับ ffmpeg
	FFmpegPath string // path ถึง ffmpeg binary
	FFprobePath string

	// S3-Compatible Storage (MinIO / Cloudflare R2)
	S3 S3Config
}

type S3Config struct {
	Endpoint  string // minio:9000 หรือ xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string // URL สำหรับเข้าถึงไฟล์ public (optional)
}

// AIConfig credentials ของ AI providers
type AIConfig struct {
	GeminiAPIKey string
	ScriptModel  string // default: gemini-1.5-flash

	VideoProviderURL    string // HTTP video generation API
	VideoProviderAPIKey string
	VideoModel          string

	TTSAPIKey  string // ElevenLabs-compatible
	TTSVoiceID string
	TTSModel   string
}

// PlatformsConfig credentials ต่อ platform
type PlatformsConfig struct {
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeRedirectURL  string

	TikTokAPIURL string
	TikTokAPIKey string

	InstagramAPIURL string
	InstagramAPIKey string
}

// PublisherConfig การตั้งค่า scheduled publisher
type PublisherConfig struct {
	Cron          string        // default: ทุก 2 นาที
	BatchSize     int           // default: 50
	ItemDelay     time.Duration // pacing ระหว่าง post, default: 1s
	Sequential    bool          // default: true
	AnalyticsCron string        // default: daily 02:00
}

// ProductionConfig การตั้งค่า production pipeline
type ProductionConfig struct {
	Workers           int           // ขนาด worker pool, default: 2
	MinFreeSpaceGB    int           // disk ขั้นต่ำก่อนรับงาน, default: 5
	StageTimeout      time.Duration // timeout ต่อ external call, default: 2m
	MaxRetries        int           // retry ต่อ external call, default: 3
	ProcessingTimeout time.Duration // stuck detection, default: 30m
	StuckCheckCron    string        // default: ทุก 30 วินาที
	WatermarkText     string        // optional brand watermark
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	}

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	s3UseSSL := getEnv("S3_USE_SSL", "false") == "true"

	batchSize, _ := strconv.Atoi(getEnv("PUBLISHER_BATCH_SIZE", "50"))
	itemDelayMs, _ := strconv.Atoi(getEnv("PUBLISHER_ITEM_DELAY_MS", "1000"))
	sequential := getEnv("PUBLISHER_SEQUENTIAL", "true") == "true"

	workers, _ := strconv.Atoi(getEnv("PRODUCTION_WORKERS", "2"))
	minFreeGB, _ := strconv.Atoi(getEnv("PRODUCTION_MIN_FREE_GB", "5"))
	stageTimeoutSec, _ := strconv.Atoi(getEnv("PRODUCTION_STAGE_TIMEOUT_SEC", "120"))
	maxRetries, _ := strconv.Atoi(getEnv("PRODUCTION_MAX_RETRIES", "3"))
	processingTimeoutMin, _ := strconv.Atoi(getEnv("PRODUCTION_PROCESSING_TIMEOUT_MIN", "30"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "AI Video Poster"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "video_poster"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", "nats://localhost:4222"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "both"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Storage: StorageConfig{
			Type:        getEnv("STORAGE_TYPE", "local"),
			BasePath:    getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
			TempPath:    getEnv("STORAGE_TEMP_PATH", "./temp"),
			FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
				Bucket:    getEnv("S3_BUCKET", "videos"),
				UseSSL:    s3UseSSL,
				Region:    getEnv("S3_REGION", "auto"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		AI: AIConfig{
			GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
			ScriptModel:         getEnv("GEMINI_SCRIPT_MODEL", "gemini-1.5-flash"),
			VideoProviderURL:    getEnv("VIDEO_PROVIDER_URL", ""),
			VideoProviderAPIKey: getEnv("VIDEO_PROVIDER_API_KEY", ""),
			VideoModel:          getEnv("VIDEO_MODEL", "gen3"),
			TTSAPIKey:           getEnv("TTS_API_KEY", ""),
			TTSVoiceID:          getEnv("TTS_VOICE_ID", ""),
			TTSModel:            getEnv("TTS_MODEL", "eleven_multilingual_v2"),
		},
		Platforms: PlatformsConfig{
			YouTubeClientID:     getEnv("YOUTUBE_CLIENT_ID", ""),
			YouTubeClientSecret: getEnv("YOUTUBE_CLIENT_SECRET", ""),
			YouTubeRedirectURL:  getEnv("YOUTUBE_REDIRECT_URL", ""),
			TikTokAPIURL:        getEnv("TIKTOK_API_URL", "https://open.tiktokapis.com/v2"),
			TikTokAPIKey:        getEnv("TIKTOK_API_KEY", ""),
			InstagramAPIURL:     getEnv("INSTAGRAM_API_URL", "https://graph.facebook.com/v19.0"),
			InstagramAPIKey:     getEnv("INSTAGRAM_API_KEY", ""),
		},
		Publisher: PublisherConfig{
			Cron:          getEnv("PUBLISHER_CRON", "*/2 * * * *"),
			BatchSize:     batchSize,
			ItemDelay:     time.Duration(itemDelayMs) * time.Millisecond,
			Sequential:    sequential,
			AnalyticsCron: getEnv("ANALYTICS_CRON", "0 2 * * *"),
		},
		Production: ProductionConfig{
			Workers:           workers,
			MinFreeSpaceGB:    minFreeGB,
			StageTimeout:      time.Duration(stageTimeoutSec) * time.Second,
			MaxRetries:        maxRetries,
			ProcessingTimeout: time.Duration(processingTimeoutMin) * time.Minute,
			StuckCheckCron:    getEnv("STUCK_CHECK_CRON", "*/1 * * * *"),
			WatermarkText:     getEnv("WATERMARK_TEXT", ""),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
