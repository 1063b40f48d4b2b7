package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/llm"
)

var (
	// ErrMissingAPIKey: Gemini API 키가 없을 때 반환됩니다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrInvalidModel: 모델이 비어 있을 때 반환됩니다.
	ErrInvalidModel = errors.New("invalid model")
)

// Client: Gemini 생성 호출을 담당합니다. API 키는 라운드로빈으로 사용합니다.
type Client struct {
	cfg       config.LLMConfig
	mu        sync.Mutex
	clients   map[string]*genai.Client
	apiKeyIdx int
}

var (
	_ llm.Backend     = (*Client)(nil)
	_ llm.Pinger      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)

// NewClient: Gemini 클라이언트를 생성합니다.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(cfg.DefaultModel) == "" {
		return nil, ErrInvalidModel
	}
	keys := make([]string, len(cfg.APIKeys))
	copy(keys, cfg.APIKeys)
	cfg.APIKeys = keys
	return &Client{
		cfg:     cfg,
		clients: make(map[string]*genai.Client),
	}, nil
}

// Generate: 프롬프트에 대한 단일 응답을 생성합니다.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return llm.Result{}, llm.ErrEmptyPrompt
	}

	client, err := c.selectClient(ctx)
	if err != nil {
		return llm.Result{}, llm.Unavailable("select client", err)
	}

	model := c.resolveModel(req.Model)
	timeout := c.cfg.Timeout()
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	response, err := client.Models.GenerateContent(ctx, model, contents, c.buildGenerateConfig(req))
	if err != nil {
		return llm.Result{}, llm.Unavailable("generate content", err)
	}

	text := strings.TrimSpace(extractText(response))
	if text == "" {
		return llm.Result{}, llm.Unavailable("generate content", errors.New("empty candidate text"))
	}

	return llm.Result{
		Text:  text,
		Model: model,
		Usage: extractUsage(response),
	}, nil
}

// ListModels: 사용 가능한 모델 이름을 반환합니다.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	client, err := c.selectClient(ctx)
	if err != nil {
		return nil, llm.Unavailable("select client", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	page, err := client.Models.List(ctx, nil)
	if err != nil {
		return nil, llm.Unavailable("list models", err)
	}
	names := make([]string, 0, len(page.Items))
	for _, model := range page.Items {
		if model != nil && model.Name != "" {
			names = append(names, strings.TrimPrefix(model.Name, "models/"))
		}
	}
	return names, nil
}

// Ping: 모델 목록 조회로 연결을 확인합니다.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

func (c *Client) nextKey() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cfg.APIKeys) == 0 {
		return "", ErrMissingAPIKey
	}
	key := c.cfg.APIKeys[c.apiKeyIdx%len(c.cfg.APIKeys)]
	c.apiKeyIdx++
	return key, nil
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	key, err := c.nextKey()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(c.cfg.Timeout()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) resolveModel(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return c.cfg.DefaultModel
}

func (c *Client) buildGenerateConfig(req llm.Request) *genai.GenerateContentConfig {
	temperature := c.cfg.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := c.cfg.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
}

func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 {
		return ""
	}
	content := response.Candidates[0].Content
	if content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		builder.WriteString(part.Text)
	}
	return builder.String()
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	usage := response.UsageMetadata
	output := int(usage.CandidatesTokenCount) + int(usage.ThoughtsTokenCount)
	return llm.Usage{
		InputTokens:  int(usage.PromptTokenCount),
		OutputTokens: output,
		TotalTokens:  int(usage.TotalTokenCount),
	}
}
