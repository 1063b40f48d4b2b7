package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/ratelimit"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/telemetry"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usage"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usecase/emojichat"
)

const telemetryShutdownTimeout = 5 * time.Second

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server      *http.Server
	Logger      *slog.Logger
	Config      *config.Config
	Service     *emojichat.Service
	Telemetry   *telemetry.Provider
	RateCounter ratelimit.Counter
	UsageStore  usage.Store
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	service *emojichat.Service,
	telemetryProvider *telemetry.Provider,
	rateCounter ratelimit.Counter,
	usageStore usage.Store,
) *App {
	return &App{
		Server:      server,
		Logger:      logger,
		Config:      cfg,
		Service:     service,
		Telemetry:   telemetryProvider,
		RateCounter: rateCounter,
		UsageStore:  usageStore,
	}
}

// Close: 앱 리소스를 정리합니다.
func (a *App) Close() {
	if a.RateCounter != nil {
		a.RateCounter.Close()
	}
	if a.UsageStore != nil {
		a.UsageStore.Close()
	}
	if a.Telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := a.Telemetry.Shutdown(ctx); err != nil && a.Logger != nil {
			a.Logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
}
