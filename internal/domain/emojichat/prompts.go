package emojichat

import (
	"embed"
	"fmt"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

const (
	promptModeration = "moderation"
	promptEmoji      = "emoji"
	promptSample     = "sample"
)

// Prompts: 이모지 챗 프롬프트 모음입니다.
type Prompts struct {
	bundle *prompt.Bundle
}

// NewPrompts: 내장 프롬프트를 로드하고 필수 항목을 확인합니다.
func NewPrompts() (*Prompts, error) {
	bundle, err := prompt.LoadBundle(promptsFS, "prompts", "emojichat")
	if err != nil {
		return nil, fmt.Errorf("load emojichat prompts: %w", err)
	}
	if err := bundle.Require(promptModeration, promptEmoji, promptSample); err != nil {
		return nil, err
	}
	return &Prompts{bundle: bundle}, nil
}

// Moderation: 검열 프롬프트를 반환합니다.
func (p *Prompts) Moderation(message string) (string, error) {
	return p.bundle.Render(promptModeration, map[string]string{"message": message})
}

// Emoji: 이모지 생성 프롬프트를 반환합니다.
func (p *Prompts) Emoji(message string) (string, error) {
	return p.bundle.Render(promptEmoji, map[string]string{"message": message})
}

// Sample: 예시 문장 생성 프롬프트를 반환합니다.
func (p *Prompts) Sample() (string, error) {
	return p.bundle.Render(promptSample, nil)
}
