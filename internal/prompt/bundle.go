package prompt

import (
	"fmt"
	"io/fs"
	"sort"
)

// TemplateField: 프롬프트 YAML 에서 본문 템플릿을 담는 키입니다.
const TemplateField = "template"

// Bundle: 한 도메인의 프롬프트 모음입니다. 로드 이후 읽기 전용입니다.
type Bundle struct {
	label   string
	prompts map[string]map[string]string
}

// LoadBundle: fsys 의 dir 디렉터리에서 YAML 프롬프트를 읽어 Bundle 을 만듭니다.
func LoadBundle(fsys fs.FS, dir string, label string) (*Bundle, error) {
	loaded, err := LoadYAMLDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	return &Bundle{label: label, prompts: loaded}, nil
}

// Require: 이름마다 템플릿 필드가 있는지 확인합니다.
func (b *Bundle) Require(names ...string) error {
	for _, name := range names {
		if _, err := b.Field(name, TemplateField); err != nil {
			return err
		}
	}
	return nil
}

// Field: 프롬프트의 특정 필드를 반환합니다.
func (b *Bundle) Field(name string, key string) (string, error) {
	if b == nil || b.prompts == nil {
		return "", fmt.Errorf("%s prompts not initialized", b.labelOrDefault())
	}
	data, ok := b.prompts[name]
	if !ok {
		return "", fmt.Errorf("%s prompt not found: %s", b.labelOrDefault(), name)
	}
	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("%s prompt field missing: %s.%s", b.labelOrDefault(), name, key)
	}
	return value, nil
}

// Render: 이름의 템플릿을 values 로 채워 반환합니다.
func (b *Bundle) Render(name string, values map[string]string) (string, error) {
	template, err := b.Field(name, TemplateField)
	if err != nil {
		return "", err
	}
	rendered, err := FormatTemplate(template, values)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return rendered, nil
}

// Names: 로드된 프롬프트 이름을 정렬해 반환합니다.
func (b *Bundle) Names() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.prompts))
	for name := range b.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Bundle) labelOrDefault() string {
	if b == nil || b.label == "" {
		return "llm"
	}
	return b.label
}
