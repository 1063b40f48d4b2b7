//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/backend"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	emojichatdomain "github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/domain/emojichat"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/guard"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/handler"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/metrics"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/server"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usage"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usecase/emojichat"
)

func InitializeApp() (*App, error) {
	wire.Build(
		config.ProvideConfig,
		ProvideLogger,
		ProvideTelemetry,
		metrics.NewStore,
		ProvideCollectors,
		ProvideUsageStore,
		usage.NewRecorder,
		ProvideBackend,
		wire.Bind(new(llm.Backend), new(*backend.Instrumented)),
		ProvideGuard,
		wire.Bind(new(guard.Guard), new(*guard.InjectionGuard)),
		emojichatdomain.NewPrompts,
		ProvideModerator,
		emojichat.New,
		ProvideRateLimitCounter,
		handler.NewEmojiHandler,
		handler.NewGuardHandler,
		handler.NewLLMHandler,
		ProvideUsageHandler,
		handler.NewRouter,
		server.NewHTTPServer,
		NewApp,
	)
	return nil, nil
}
