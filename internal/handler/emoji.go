package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/middleware"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usecase/emojichat"
)

// EmojiRequest 는 이모지 생성 요청 본문이다.
type EmojiRequest struct {
	Message           string `json:"message"`
	DisableModeration bool   `json:"disable_moderation"`
}

// EmojiResponse 는 이모지 생성 응답 본문이다.
type EmojiResponse struct {
	Emojis           []string `json:"emojis"`
	Names            []string `json:"names"`
	Message          string   `json:"message"`
	ModerationPassed *bool    `json:"moderation_passed"`
}

// SampleResponse 는 예시 문장 응답 본문이다.
type SampleResponse struct {
	Sample string `json:"sample"`
}

// EmojiHandler 는 이모지/예시 문장 API 핸들러다.
type EmojiHandler struct {
	service *emojichat.Service
	logger  *slog.Logger
}

// NewEmojiHandler 는 이모지 핸들러를 생성한다.
func NewEmojiHandler(service *emojichat.Service, logger *slog.Logger) *EmojiHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmojiHandler{service: service, logger: logger}
}

// RegisterRoutes 는 이모지 라우트를 등록한다. /emojis, /sample 은 기존 클라이언트용 별칭이다.
func (h *EmojiHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/emojis", h.handleEmojis)
	router.POST("/emojis", h.handleEmojis)
	router.GET("/api/sample", h.handleSample)
	router.GET("/sample", h.handleSample)
}

func (h *EmojiHandler) handleEmojis(c *gin.Context) {
	var req EmojiRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	h.logger.InfoContext(c.Request.Context(), "emoji_request",
		"request_id", middleware.GetRequestID(c),
		"message_preview", previewText(req.Message, 50),
		"disable_moderation", req.DisableModeration,
	)

	result, err := h.service.Generate(c.Request.Context(), req.Message, req.DisableModeration)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, EmojiResponse{
		Emojis:           result.Emojis,
		Names:            result.Names,
		Message:          result.Message,
		ModerationPassed: result.ModerationPassed,
	})
}

func (h *EmojiHandler) handleSample(c *gin.Context) {
	c.JSON(http.StatusOK, SampleResponse{Sample: h.service.Sample(c.Request.Context())})
}
