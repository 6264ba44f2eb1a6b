package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/chatframe/internal/api"
	"github.com/dgallion1/chatframe/internal/config"
	"github.com/dgallion1/chatframe/internal/page"
	"github.com/dgallion1/chatframe/internal/telemetry"
	"github.com/dgallion1/chatframe/internal/watch"
)

func main() {
	config.LoadDotEnv(".env")
	cfg := config.Load()

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var log *slog.Logger
	if cfg.LogFormat == "text" {
		log = slog.New(slog.NewTextHandler(os.Stdout, opts))
	} else {
		log = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MetricsEnabled {
		telemetry.Init()
	}

	p := page.New()

	// Seed the page from disk and keep it in sync.
	if cfg.PageFile != "" {
		reloader := watch.NewReloader(p, cfg.PageFile, cfg.FramesDir, cfg.WatchDebounce, log)
		rev, err := reloader.Load()
		if err != nil {
			log.Error("initial page load failed", "error", err)
			os.Exit(1)
		}
		log.Info("page loaded", "revision", rev.ID, "frames", len(rev.Frames))
		go func() {
			if err := reloader.Run(ctx); err != nil {
				log.Error("page watcher stopped", "error", err)
			}
		}()
	}

	srv := api.NewServer(p, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting chatframe", "port", cfg.Port, "frame_id", cfg.FrameID)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
