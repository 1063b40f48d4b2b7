package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const requestLogMessage = "http_request"

// RequestLogger 는 요청마다 한 줄의 접근 로그를 남긴다.
// 성공한 헬스체크, 메트릭 스크랩, CORS preflight 는 기록하지 않는다.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()

		status := c.Writer.Status()
		failed := status >= http.StatusBadRequest || len(c.Errors) > 0
		if !failed && isQuietRequest(c.Request.Method, c.Request.URL.Path) {
			return
		}

		attrs := []slog.Attr{
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(startedAt).Milliseconds()),
			slog.String("client_ip", c.ClientIP()),
			slog.Int("bytes", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logger.LogAttrs(c.Request.Context(), levelForStatus(status), requestLogMessage, attrs...)
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func isQuietRequest(method string, path string) bool {
	if method == http.MethodOptions {
		return true
	}
	switch path {
	case "/", "/health", "/health/ready", "/health/models", "/metrics":
		return true
	default:
		return false
	}
}
