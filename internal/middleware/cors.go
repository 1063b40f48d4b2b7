package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

// CORS 는 설정된 출처만 허용하는 CORS 미들웨어다. "*" 이면 모든 출처를 허용한다.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(newCORSConfig(cfg))
}

func newCORSConfig(cfg config.CORSConfig) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	if cfg.AllowAll() {
		corsConfig.AllowAllOrigins = true
		return corsConfig
	}
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowCredentials = true
	return corsConfig
}
