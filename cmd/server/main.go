package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qolzam/hcaptcha/internal/pkg/log"
	platformconfig "github.com/qolzam/hcaptcha/internal/platform/config"
	"github.com/qolzam/hcaptcha/internal/server"
	"github.com/qolzam/hcaptcha/verify"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load platform config: %v", err)
		os.Exit(1)
	}
	log.SetDebug(cfg.Server.Debug)
	log.DebugStruct(cfg.Server)

	ctx := context.Background()

	var secret verify.Secret
	if !cfg.Captcha.Disabled {
		secret, err = cfg.ResolveSecret(ctx)
		if err != nil {
			log.Error("Failed to resolve hcaptcha secret: %v", err)
			os.Exit(1)
		}
	}

	client := verify.NewClient(
		verify.WithURL(cfg.Captcha.VerifyURL),
		verify.WithTimeout(cfg.Captcha.Timeout),
	)

	app := server.NewApp(cfg, client, secret)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("Server shutdown failed: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting hCaptcha demo server on %s (verify url %s)", addr, client.URL())
	if err := app.Listen(addr); err != nil {
		log.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
