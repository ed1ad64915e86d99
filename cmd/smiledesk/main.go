package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smiledesk/internal/config"
	"smiledesk/internal/constants"
	"smiledesk/internal/content"
	"smiledesk/internal/database"
	"smiledesk/internal/models"
	"smiledesk/internal/retry"
	"smiledesk/internal/service"
	"smiledesk/internal/tracing"
	"smiledesk/pkg/facebook"
	"smiledesk/pkg/instagram"
	"smiledesk/pkg/voice"

	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("SmileDesk %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
		"commit":  GitCommit,
	}).Info("Starting SmileDesk")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
		logger.SetLevel(logrus.InfoLevel)
	}

	tracingManager := tracing.NewManager(cfg.Tracing, logger)
	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	// Database init behind exponential backoff; SQLite may briefly hold
	// locks across restarts.
	var db *database.Database
	backoff := retry.NewBackoff(retry.BackoffConfig{
		InitialDelay: time.Duration(cfg.Retry.InitialBackoffMs) * time.Millisecond,
		MaxDelay:     time.Duration(cfg.Retry.MaxBackoffMs) * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  cfg.Retry.MaxAttempts,
		Jitter:       true,
	})
	err = backoff.Retry(ctx, func() error {
		var initErr error
		db, initErr = database.New(cfg.Database.Path)
		if initErr != nil {
			logger.Warnf("Failed to initialize database: %v", initErr)
		}
		return initErr
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database after retries: %w", err)
	}
	defer db.Close()

	stream := service.NewStream()
	registry := service.NewRegistry()
	sources := make(map[models.Platform]service.MessageSource)

	fbSyncer := service.NewSyncer(models.PlatformFacebook, db, stream, logger)
	if creds := cfg.Facebook.Credentials(); creds.Configured() {
		source := service.NewFacebookSource(facebook.NewClient(facebook.ClientConfig{
			BaseURL:     cfg.Facebook.APIBaseURL,
			AccessToken: cfg.Facebook.AccessToken,
			PageID:      cfg.Facebook.PageID,
			PageName:    cfg.Facebook.PageName,
			Timeout:     time.Duration(cfg.Facebook.TimeoutSec) * time.Second,
		}), creds)
		fbSyncer.Initialize(source)
		sources[models.PlatformFacebook] = source
	} else {
		logger.Info("Facebook credentials not configured, channel disabled")
	}
	registry.Register(fbSyncer)

	igSyncer := service.NewSyncer(models.PlatformInstagram, db, stream, logger)
	if creds := cfg.Instagram.Credentials(); creds.Configured() {
		source := service.NewInstagramSource(instagram.NewClient(instagram.ClientConfig{
			BaseURL:     cfg.Instagram.APIBaseURL,
			AccessToken: cfg.Instagram.AccessToken,
			PageID:      cfg.Instagram.PageID,
			AccountName: cfg.Instagram.PageName,
			Timeout:     time.Duration(cfg.Instagram.TimeoutSec) * time.Second,
		}), creds)
		igSyncer.Initialize(source)
		sources[models.PlatformInstagram] = source
	} else {
		logger.Info("Instagram credentials not configured, channel disabled")
	}
	registry.Register(igSyncer)

	if cfg.Facebook.SyncEnabled && sources[models.PlatformFacebook] != nil {
		if err := fbSyncer.Start(ctx, cfg.Facebook.SyncIntervalMs); err != nil {
			logger.Warnf("Failed to start Facebook sync loop: %v", err)
		}
	}
	if cfg.Instagram.SyncEnabled && sources[models.PlatformInstagram] != nil {
		if err := igSyncer.Start(ctx, cfg.Instagram.SyncIntervalMs); err != nil {
			logger.Warnf("Failed to start Instagram sync loop: %v", err)
		}
	}
	defer registry.StopAll()

	// Warm the store once at boot so the first dashboard read is not
	// empty while the loops wait out their first interval.
	go func() {
		warmCtx, cancelWarm := context.WithTimeout(ctx, constants.DefaultSyncTickTimeoutSec*time.Second)
		defer cancelWarm()
		if err := registry.SyncAll(warmCtx); err != nil {
			logger.Warnf("Initial sync failed: %v", err)
		}
	}()

	background := service.NewBackgroundSync(registry, logger)
	go background.Run(ctx)

	inbox := service.NewInboxService(sources, db, background, stream, logger)

	var voiceClient voice.Client
	if cfg.Voice.APIBaseURL != "" && cfg.Voice.APIKey != "" {
		voiceClient = voice.NewClient(cfg.Voice.APIBaseURL, cfg.Voice.APIKey, time.Duration(cfg.Voice.TimeoutSec)*time.Second)
	} else {
		logger.Info("Voice provider not configured, call volume served from stored records only")
	}
	analytics := service.NewAnalyticsService(db, db, voiceClient, logger)

	var generator content.Generator
	if cfg.Content.Enabled {
		generator, err = content.NewGeminiGenerator(ctx, cfg.Content.APIKey, cfg.Content.Model)
		if err != nil {
			logger.Warnf("Content generation disabled: %v", err)
		}
	}
	contentSvc := service.NewContentService(db, generator, logger)

	scheduler, err := service.NewScheduler(logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := scheduler.AddCleanupJob(cfg.Content.CleanupCron, db, cfg.RetentionDays); err != nil {
		return err
	}
	if err := scheduler.AddContentPublishJob(contentSvc); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Warnf("Failed to stop scheduler: %v", err)
		}
	}()

	server := NewServer(cfg, inbox, registry, analytics, contentSvc, stream, logger)
	serverErrCh := make(chan error, constants.ServerErrorChannelSize)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultGracefulShutdownSec*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	logger.Info("Server shutdown completed")
	return nil
}
