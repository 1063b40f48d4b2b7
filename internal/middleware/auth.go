package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/httperror"
)

const (
	headerAPIKey        = "X-API-Key"
	headerAuthorization = "Authorization"
	bearerScheme        = "bearer"
)

// 인증과 요청 제한을 받는 /api/ 밖의 별칭 경로.
var protectedAliases = map[string]struct{}{
	"/emojis": {},
	"/sample": {},
}

// APIKeyAuth 는 HTTP_API_KEY 가 설정된 경우에만 보호 경로에 키를 요구한다.
// 키는 X-API-Key 헤더 또는 Authorization: Bearer 로 받는다.
func APIKeyAuth(cfg *config.Config) gin.HandlerFunc {
	var expected []byte
	if cfg != nil {
		expected = []byte(strings.TrimSpace(cfg.HTTPAuth.APIKey))
	}
	if len(expected) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || !shouldProtectPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(extractAPIKey(c)), expected) == 1 {
			c.Next()
			return
		}

		status, payload := httperror.Response(
			httperror.NewUnauthorized(map[string]any{"path": c.Request.URL.Path}),
			GetRequestID(c),
		)
		c.AbortWithStatusJSON(status, payload)
	}
}

func extractAPIKey(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if key := strings.TrimSpace(c.GetHeader(headerAPIKey)); key != "" {
		return key
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader(headerAuthorization)), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// shouldProtectPath: 헬스체크, 메트릭, 인덱스는 보호하지 않습니다.
func shouldProtectPath(path string) bool {
	if strings.HasPrefix(path, "/api/") {
		return true
	}
	_, ok := protectedAliases[path]
	return ok
}
