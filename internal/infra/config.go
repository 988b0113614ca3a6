package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Media pipeline
	FFmpegPath       string
	YtdlpPath        string
	AudioBitrateKbps int
	MinTrackSeconds  int
	MaxTrackSeconds  int
	MaxAudioBytes    int64
	TranscodeTimeout time.Duration
	ResolveTimeout   time.Duration

	// Content store
	StorageBackend string // "fs" or "s3"
	StorageBaseURL string
	StorageBase    string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3Prefix       string

	// External catalog API
	YouTubeAPIKey string

	GeoIPDBPath      string
	AllowedOrigins   []string
	DefaultLocale    string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
		YtdlpPath:        getEnv("YTDLP_PATH", "yt-dlp"),
		AudioBitrateKbps: getEnvInt("AUDIO_BITRATE_KBPS", 128),
		MinTrackSeconds:  getEnvInt("MIN_TRACK_SECONDS", 1),
		MaxTrackSeconds:  getEnvInt("MAX_TRACK_SECONDS", 360),
		MaxAudioBytes:    int64(getEnvInt("MAX_AUDIO_MEGABYTES", 64)) * 1024 * 1024,
		TranscodeTimeout: time.Second * time.Duration(getEnvInt("TRANSCODE_TIMEOUT_SECONDS", 300)),
		ResolveTimeout:   time.Second * time.Duration(getEnvInt("RESOLVE_TIMEOUT_SECONDS", 30)),

		StorageBackend: getEnv("STORAGE_BACKEND", "fs"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		StorageBase:    getEnv("STORAGE_BASE_PATH", "./data/tracks"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Prefix:       os.Getenv("S3_PREFIX"),

		YouTubeAPIKey: os.Getenv("YT_API_KEY"),

		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 600)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StorageBackend != "fs" && cfg.StorageBackend != "s3" {
		return nil, fmt.Errorf("STORAGE_BACKEND must be fs or s3, got %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
	}
	if cfg.MaxTrackSeconds <= 0 || cfg.MinTrackSeconds <= 0 || cfg.MinTrackSeconds > cfg.MaxTrackSeconds {
		return nil, fmt.Errorf("invalid track duration bounds: min=%d max=%d", cfg.MinTrackSeconds, cfg.MaxTrackSeconds)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
