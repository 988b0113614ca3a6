package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/pipeline"
	"server/internal/providers/ytdlp"
	"server/internal/providers/youtube"
	"server/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	// Content store backend
	var store storage.ObjectStore
	staticDir := ""
	switch cfg.StorageBackend {
	case "s3":
		s3store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3Prefix,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize s3 store")
		}
		store = s3store
	default:
		fileStore, err := storage.NewFileStore(cfg.StorageBase)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize file store")
		}
		store = fileStore
		staticDir = fileStore.BasePath()
	}

	// Media pipeline
	transcoder := pipeline.NewFFmpegTranscoder(cfg.FFmpegPath, cfg.AudioBitrateKbps)
	if !transcoder.Available() {
		logger.Fatal().Str("path", cfg.FFmpegPath).Msg("ffmpeg binary not found")
	}
	resolver := ytdlp.NewResolver(cfg.YtdlpPath, cfg.ResolveTimeout, logger)
	tracks := repo.NewTrackRepository(dbpool)

	converter := &pipeline.Converter{
		Resolver: resolver,
		Policy: domain.AdmissionPolicy{
			MinDurationSeconds: cfg.MinTrackSeconds,
			MaxDurationSeconds: cfg.MaxTrackSeconds,
		},
		Fetcher:    pipeline.NewHTTPFetcher(nil),
		Transcoder: transcoder,
		Publisher: &pipeline.Publisher{
			Store:   store,
			Tracks:  tracks,
			BaseURL: cfg.StorageBaseURL,
			Logger:  logger,
		},
		MaxOutputBytes: cfg.MaxAudioBytes,
		Timeout:        cfg.TranscodeTimeout,
		Logger:         logger,
	}

	playlist := youtube.NewClient(youtube.Options{APIKey: cfg.YouTubeAPIKey})

	// GeoIP country lookup (optional)
	var countryLookup middleware.CountryLookup
	if geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip resolver disabled")
	} else if geoResolver != nil {
		countryLookup = geoResolver.CountryCode
	}

	app := handlers.NewApp(logger, tracks, store, converter, playlist)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   countryLookup,
		StaticDir:       staticDir,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
