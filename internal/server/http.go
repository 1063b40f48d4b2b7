package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
	// 검열 + 이모지 생성 두 번의 백엔드 호출에 여유를 둡니다.
	writeTimeoutSlack = 10 * time.Second
)

// NewHTTPServer 는 HTTP 서버를 생성한다. HTTP2Enabled 이면 h2c 로 감싼다.
func NewHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout(cfg.LLM.Timeout()),
		IdleTimeout:       idleTimeout,
	}

	if cfg.HTTP.HTTP2Enabled {
		server.Handler = h2c.NewHandler(router, &http2.Server{IdleTimeout: idleTimeout})
	}

	return server
}

func writeTimeout(backendTimeout time.Duration) time.Duration {
	if backendTimeout <= 0 {
		return 0
	}
	return 2*backendTimeout + writeTimeoutSlack
}
