package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/httperror"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/ratelimit"
)

const (
	rateLimitWindow = time.Minute

	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
)

// RateLimit 는 고정 1분 창 요청 제한 미들웨어다. 카운터 오류 시에는 요청을 통과시킨다.
func RateLimit(cfg *config.Config, counter ratelimit.Counter, logger *slog.Logger) gin.HandlerFunc {
	limit := 0
	if cfg != nil {
		limit = cfg.HTTPRateLimit.RequestsPerMinute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		if limit <= 0 || counter == nil ||
			c.Request.Method == http.MethodOptions || !shouldProtectPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		identity := rateLimitIdentity(c)
		window, retryAfter := currentWindow(time.Now())
		key := identity + ":" + strconv.FormatInt(window, 10)

		count, err := counter.Incr(c.Request.Context(), key, rateLimitWindow)
		if err != nil {
			logger.WarnContext(c.Request.Context(), "rate_limit_counter_failed",
				"request_id", GetRequestID(c),
				"err", err,
			)
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header(headerRateLimitLimit, strconv.Itoa(limit))
		c.Header(headerRateLimitRemaining, strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			details := map[string]any{
				"path":             c.Request.URL.Path,
				"identity":         identity,
				"limit_per_minute": limit,
			}
			status, payload := httperror.Response(httperror.NewRateLimitExceeded(details), GetRequestID(c))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

// currentWindow: now 가 속한 창 번호와 다음 창까지 남은 초를 반환합니다.
func currentWindow(now time.Time) (int64, int) {
	windowSeconds := int64(rateLimitWindow / time.Second)
	unix := now.Unix()
	return unix / windowSeconds, int(windowSeconds - unix%windowSeconds)
}

// rateLimitIdentity: API 키가 있으면 키 해시, 없으면 클라이언트 IP 로 구분합니다.
func rateLimitIdentity(c *gin.Context) string {
	if key := extractAPIKey(c); key != "" {
		return "key:" + hashKey(key)
	}
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
