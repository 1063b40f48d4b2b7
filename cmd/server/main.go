package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/di"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app, err := di.InitializeApp()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	err = run(app)
	app.Close()
	if err != nil {
		app.Logger.Error("http_server_failed", "err", err)
		os.Exit(1)
	}
}

// run: SIGINT/SIGTERM 을 받으면 진행 중인 요청을 shutdownTimeout 동안 기다린 뒤 반환합니다.
func run(app *di.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LogEnvStatus(app.Config, app.Logger)
	probeBackend(ctx, app)

	app.Logger.Info("http_server_start",
		"addr", app.Server.Addr,
		"http2", app.Config.HTTP.HTTP2Enabled,
		"provider", app.Config.LLM.Provider,
	)

	serveErr := make(chan error, 1)
	go func() { serveErr <- app.Server.ListenAndServe() }()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("http_server_shutdown_signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		_ = app.Server.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	app.Logger.Info("http_server_stopped")
	return nil
}

// probeBackend: 예시 문장을 한 번 생성해 백엔드 연결을 확인합니다. 실패해도 기동은 계속합니다.
func probeBackend(ctx context.Context, app *di.App) {
	ctx, cancel := context.WithTimeout(ctx, app.Config.LLM.Timeout())
	defer cancel()

	sample, err := app.Service.GenerateSample(ctx)
	if err != nil {
		app.Logger.Warn("llm_startup_probe_failed",
			"provider", app.Config.LLM.Provider,
			"url", app.Config.LLM.BaseURL,
			"err", err,
		)
		return
	}
	app.Logger.Info("llm_startup_probe_ok", "model", app.Config.LLM.DefaultModel, "sample", sample)
}
