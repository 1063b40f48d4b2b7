package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var errNotMapping = errors.New("prompt file must be a mapping of scalar fields")

// LoadYAMLMapping: 프롬프트 파일의 최상위 필드를 원문 문자열 그대로 읽습니다.
// 템플릿 필드가 있으면 자리표시자 문법까지 검사합니다.
func LoadYAMLMapping(fsys fs.FS, filePath string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prompt yaml %s: %w", filePath, err)
	}
	fields, err := scalarFields(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	if template, ok := fields[TemplateField]; ok {
		if _, err := Placeholders(template); err != nil {
			return nil, fmt.Errorf("%s: %w", filePath, err)
		}
	}
	return fields, nil
}

// scalarFields: 문서 노드에서 key: scalar 쌍만 꺼냅니다. null 은 빈 문자열입니다.
func scalarFields(doc *yaml.Node) (map[string]string, error) {
	if doc.Kind == 0 {
		return map[string]string{}, nil
	}
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	fields := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s", errNotMapping, key.Value)
		}
		if value.ShortTag() == "!!null" {
			fields[key.Value] = ""
			continue
		}
		fields[key.Value] = value.Value
	}
	return fields, nil
}

// LoadYAMLDir: dir 바로 아래의 *.yml, *.yaml 을 확장자를 뺀 파일명으로 묶어 읽습니다.
func LoadYAMLDir(fsys fs.FS, dir string) (map[string]map[string]string, error) {
	var files []string
	for _, ext := range []string{".yml", ".yaml"} {
		matches, err := fs.Glob(fsys, path.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("glob prompt dir: %w", err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no prompt files in %s", dir)
	}
	slices.Sort(files)

	prompts := make(map[string]map[string]string, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		if _, dup := prompts[name]; dup {
			return nil, fmt.Errorf("duplicate prompt name %q in %s", name, dir)
		}
		fields, err := LoadYAMLMapping(fsys, file)
		if err != nil {
			return nil, err
		}
		prompts[name] = fields
	}
	return prompts, nil
}
