package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

const logFileName = "emoji-server.log"

// New: 전역 기본 로거까지 교체합니다. LogDir 이 있으면 stdout 과 회전 파일에 함께 기록합니다.
// traceCorrelation 이 true 면 활성 span 의 trace_id, span_id 가 레코드에 붙습니다.
func New(cfg config.LoggingConfig, traceCorrelation bool) (*slog.Logger, error) {
	out, rotating, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler = tint.NewHandler(out, &tint.Options{
		Level:      parseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    rotating != nil,
	})
	if traceCorrelation {
		handler = NewOTelHandler(handler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	if rotating != nil {
		logger.Info("file_logging_enabled", "path", rotating.Filename, "trace_correlation", traceCorrelation)
	}
	return logger, nil
}

// openOutput: 파일 로깅이 꺼져 있으면 rotating 은 nil 입니다.
func openOutput(cfg config.LoggingConfig) (io.Writer, *lumberjack.Logger, error) {
	dir := strings.TrimSpace(cfg.LogDir)
	if dir == "" {
		return os.Stdout, nil, nil
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, nil, fmt.Errorf("invalid log rotation: size_mb=%d backups=%d age_days=%d",
			cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return io.MultiWriter(os.Stdout, rotating), rotating, nil
}

// parseLevel: 알 수 없는 값은 info 로 봅니다.
func parseLevel(value string) slog.Level {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}
