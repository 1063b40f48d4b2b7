package handler

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/guard"
)

// GuardRequest 는 /api/guard 엔드포인트 공통 요청이다.
type GuardRequest struct {
	InputText string `json:"input_text" binding:"required"`
}

// GuardResponse 는 점수와 걸린 규칙을 그대로 노출한다. 운영자가 룰팩을 조정할 때 쓴다.
type GuardResponse struct {
	Score     float64       `json:"score"`
	Malicious bool          `json:"malicious"`
	Threshold float64       `json:"threshold"`
	Hits      []guard.Match `json:"hits"`
}

type GuardCheckResponse struct {
	Malicious bool `json:"malicious"`
}

// GuardHandler 는 이모지 요청 흐름과 같은 가드를 직접 호출해 본다.
type GuardHandler struct {
	guard guard.Guard
}

func NewGuardHandler(injectionGuard guard.Guard) *GuardHandler {
	return &GuardHandler{guard: injectionGuard}
}

func (h *GuardHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/api/guard")
	group.POST("/evaluations", h.handleEvaluate)
	group.POST("/checks", h.handleCheck)
}

func (h *GuardHandler) handleEvaluate(c *gin.Context) {
	var req GuardRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, toGuardResponse(h.guard.Evaluate(req.InputText)))
}

// handleCheck: 차단 대상이면 400 GUARD_BLOCKED 입니다.
func (h *GuardHandler) handleCheck(c *gin.Context) {
	var req GuardRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.guard.EnsureSafe(req.InputText); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GuardCheckResponse{Malicious: false})
}

// toGuardResponse: 꺼진 가드의 +Inf 임계값은 JSON 으로 쓸 수 없어 0 으로 내보냅니다.
func toGuardResponse(evaluation guard.Evaluation) GuardResponse {
	resp := GuardResponse{
		Score:     evaluation.Score,
		Malicious: evaluation.Malicious(),
		Threshold: evaluation.Threshold,
		Hits:      evaluation.Hits,
	}
	if math.IsInf(resp.Threshold, 0) {
		resp.Threshold = 0
	}
	if resp.Hits == nil {
		resp.Hits = []guard.Match{}
	}
	return resp
}
