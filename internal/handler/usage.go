package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/httperror"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/usage"
)

const (
	dateLayout        = "2006-01-02"
	defaultRecentDays = 7
	defaultTotalDays  = 30
)

type DailyUsageResponse struct {
	UsageDate    string `json:"usage_date"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	TotalTokens  int64  `json:"total_tokens"`
	RequestCount int64  `json:"request_count"`
	Model        string `json:"model"`
}

// UsageListResponse 는 최근 N일 행과 그 합계다. 행은 최신 날짜가 먼저 온다.
type UsageListResponse struct {
	Usages            []DailyUsageResponse `json:"usages"`
	TotalInputTokens  int64                `json:"total_input_tokens"`
	TotalOutputTokens int64                `json:"total_output_tokens"`
	TotalTokens       int64                `json:"total_tokens"`
	TotalRequestCount int64                `json:"total_request_count"`
	Model             string               `json:"model"`
}

type UsageResponse struct {
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	TotalTokens  int64  `json:"total_tokens"`
	RequestCount int64  `json:"request_count"`
	Model        string `json:"model"`
}

// usageQuery: days 는 지정된 경우 1 이상 365 이하여야 합니다.
type usageQuery struct {
	Days *int      `form:"days" binding:"omitempty,min=1,max=365"`
	Date time.Time `form:"date" time_format:"2006-01-02"`
}

// UsageHandler 는 DB_USAGE_ENABLED 일 때만 라우터에 붙는다.
// 이모지 서버는 단일 모델 기준으로 집계하므로 응답의 model 은 기본 모델이다.
type UsageHandler struct {
	store  usage.Store
	model  string
	logger *slog.Logger
}

func NewUsageHandler(cfg *config.Config, store usage.Store, logger *slog.Logger) *UsageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageHandler{store: store, model: cfg.LLM.DefaultModel, logger: logger}
}

func (h *UsageHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/api/usage")
	group.GET("/daily", h.handleDaily)
	group.GET("/recent", h.handleRecent)
	group.GET("/total", h.handleTotal)
}

// handleDaily: date 가 없으면 오늘입니다. 기록이 없는 날은 0 으로 채워 응답합니다.
func (h *UsageHandler) handleDaily(c *gin.Context) {
	query, ok := bindUsageQuery(c)
	if !ok {
		return
	}
	row, err := h.store.GetDailyUsage(c.Request.Context(), query.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	if row == nil {
		day := query.Date
		if day.IsZero() {
			day = time.Now()
		}
		row = &usage.DailyUsage{UsageDate: day}
	}
	c.JSON(http.StatusOK, h.daily(*row))
}

func (h *UsageHandler) handleRecent(c *gin.Context) {
	query, ok := bindUsageQuery(c)
	if !ok {
		return
	}
	rows, err := h.store.GetRecentUsage(c.Request.Context(), query.days(defaultRecentDays))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.list(rows))
}

func (h *UsageHandler) handleTotal(c *gin.Context) {
	query, ok := bindUsageQuery(c)
	if !ok {
		return
	}
	total, err := h.store.GetTotalUsage(c.Request.Context(), query.days(defaultTotalDays))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, UsageResponse{
		InputTokens:  total.InputTokens,
		OutputTokens: total.OutputTokens,
		TotalTokens:  total.TotalTokens(),
		RequestCount: total.RequestCount,
		Model:        h.model,
	})
}

func (h *UsageHandler) daily(row usage.DailyUsage) DailyUsageResponse {
	return DailyUsageResponse{
		UsageDate:    row.UsageDate.Format(dateLayout),
		InputTokens:  row.InputTokens,
		OutputTokens: row.OutputTokens,
		TotalTokens:  row.TotalTokens(),
		RequestCount: row.RequestCount,
		Model:        h.model,
	}
}

func (h *UsageHandler) list(rows []usage.DailyUsage) UsageListResponse {
	resp := UsageListResponse{Usages: make([]DailyUsageResponse, 0, len(rows)), Model: h.model}
	for _, row := range rows {
		resp.Usages = append(resp.Usages, h.daily(row))
		resp.TotalInputTokens += row.InputTokens
		resp.TotalOutputTokens += row.OutputTokens
		resp.TotalRequestCount += row.RequestCount
	}
	resp.TotalTokens = resp.TotalInputTokens + resp.TotalOutputTokens
	return resp
}

// fail: 저장소 오류 내용은 로그에만 남기고 응답은 500 으로 가립니다.
func (h *UsageHandler) fail(c *gin.Context, err error) {
	h.logger.WarnContext(c.Request.Context(), "usage_request_failed", "path", c.FullPath(), "err", err)
	writeError(c, err)
}

func bindUsageQuery(c *gin.Context) (usageQuery, bool) {
	var query usageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, httperror.NewValidationError(err))
		return usageQuery{}, false
	}
	return query, true
}

func (q usageQuery) days(def int) int {
	if q.Days == nil {
		return def
	}
	return *q.Days
}
