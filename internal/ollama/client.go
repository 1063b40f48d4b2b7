// Package ollama: Ollama 호환 HTTP 생성 API 클라이언트입니다.
package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
)

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"

	maxResponseBytes = 1 << 20
	errorSnippetLen  = 200
)

// Options: 클라이언트 생성 옵션입니다.
type Options struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// Transport: nil 이면 http.DefaultTransport 를 사용합니다.
	Transport http.RoundTripper
}

// Client: Ollama 생성 API 호출을 담당합니다. 생성 이후 설정은 변하지 않습니다.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	httpClient  *http.Client
}

var (
	_ llm.Backend     = (*Client)(nil)
	_ llm.Pinger      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)

// NewClient: 옵션으로 클라이언트를 생성합니다.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ollama base url is empty")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("ollama model is empty")
	}
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("invalid ollama timeout: %s", opts.Timeout)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		baseURL:     baseURL,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		httpClient:  &http.Client{Transport: transport},
	}, nil
}

// NewClientFromConfig: 설정에서 클라이언트를 생성합니다. tracing 이 true 면 otelhttp 로 감쌉니다.
func NewClientFromConfig(cfg config.LLMConfig, tracing bool) (*Client, error) {
	var transport http.RoundTripper = http.DefaultTransport
	if tracing {
		transport = otelhttp.NewTransport(transport)
	}
	return NewClient(Options{
		BaseURL:     cfg.BaseURL,
		Model:       cfg.DefaultModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout(),
		Transport:   transport,
	})
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Model           string  `json:"model"`
	Response        *string `json:"response"`
	Done            bool    `json:"done"`
	PromptEvalCount int     `json:"prompt_eval_count"`
	EvalCount       int     `json:"eval_count"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate: 프롬프트를 보내고 응답 텍스트를 반환합니다. 재시도하지 않습니다.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return llm.Result{}, llm.ErrEmptyPrompt
	}

	payload := generateRequest{
		Model:  firstNonEmpty(req.Model, c.model),
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
		},
	}
	if req.Temperature > 0 {
		payload.Options.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		payload.Options.NumPredict = req.MaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return llm.Result{}, fmt.Errorf("encode generate request: %w", err)
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := c.do(ctx, http.MethodPost, generatePath, body)
	if err != nil {
		return llm.Result{}, err
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return llm.Result{}, llm.Unavailable("decode generate response", err)
	}
	if decoded.Response == nil {
		return llm.Result{}, llm.Unavailable("decode generate response", errors.New("missing response field"))
	}

	return llm.Result{
		Text:  strings.TrimSpace(*decoded.Response),
		Model: firstNonEmpty(decoded.Model, payload.Model),
		Usage: llm.Usage{
			InputTokens:  decoded.PromptEvalCount,
			OutputTokens: decoded.EvalCount,
			TotalTokens:  decoded.PromptEvalCount + decoded.EvalCount,
		},
	}, nil
}

// Ping: 모델 목록 엔드포인트로 연결 상태를 확인합니다.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, err := c.do(ctx, http.MethodGet, tagsPath, nil)
	return err
}

// ListModels: 백엔드에 설치된 모델 이름을 반환합니다.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.do(ctx, http.MethodGet, tagsPath, nil)
	if err != nil {
		return nil, err
	}

	var decoded tagsResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, llm.Unavailable("decode tags response", err)
	}
	names := make([]string, 0, len(decoded.Models))
	for _, model := range decoded.Models {
		if model.Name != "" {
			names = append(names, model.Name)
		}
	}
	return names, nil
}

// BaseURL: 설정된 백엔드 주소입니다.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method string, path string, body []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, llm.Unavailable(method+" "+path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, llm.Unavailable("read "+path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, llm.Unavailable(
			method+" "+path,
			fmt.Errorf("status %d: %s", resp.StatusCode, snippet(raw)),
		)
	}
	return raw, nil
}

func snippet(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > errorSnippetLen {
		return text[:errorSnippetLen]
	}
	return text
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
