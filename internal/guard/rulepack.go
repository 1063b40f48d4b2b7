package guard

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"
)

// 룰팩 YAML 형식:
//
//	version: 1
//	threshold: 0.85
//	rules:
//	  - id: ignore_previous_instructions
//	    type: regex
//	    pattern: '(ignore|disregard)\s+previous'
//	    weight: 0.9
//	  - id: jailbreak_terms
//	    type: phrases
//	    phrases: [jailbreak, "developer mode"]
//	    weight: 0.4
type rulepackFile struct {
	Version     int        `yaml:"version"`
	Threshold   float64    `yaml:"threshold"`
	Normalizers []string   `yaml:"normalizers"`
	Rules       []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	ID      string   `yaml:"id"`
	Type    string   `yaml:"type"`
	Pattern string   `yaml:"pattern"`
	Phrases []string `yaml:"phrases"`
	Weight  float64  `yaml:"weight"`
}

const (
	ruleTypeRegex   = "regex"
	ruleTypePhrases = "phrases"
)

var errInvalidRule = errors.New("invalid rule")

type patternRule struct {
	id      string
	pattern *regexp.Regexp
	weight  float64
}

type phraseEntry struct {
	text   string
	weight float64
}

// rulepack 은 컴파일된 룰팩 하나다. 구절 규칙은 하나의 Aho-Corasick 매처로 합친다.
type rulepack struct {
	name      string
	threshold float64
	patterns  []patternRule
	phrases   []phraseEntry
	matcher   *ahocorasick.Matcher
}

// loadRulepacks: fsys 루트의 *.yml, *.yaml 파일을 이름 순으로 컴파일합니다. 실패한 파일은 건너뜁니다.
func loadRulepacks(fsys fs.FS, logger *slog.Logger) []rulepack {
	if logger == nil {
		logger = slog.Default()
	}

	var names []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err == nil {
			names = append(names, matches...)
		}
	}
	if len(names) == 0 {
		logger.Warn("rulepacks_not_found")
		return nil
	}
	slices.Sort(names)

	packs := make([]rulepack, 0, len(names))
	for _, name := range names {
		pack, err := readRulepack(fsys, name, logger)
		if err != nil {
			logger.Warn("rulepack_skipped", "path", name, "err", err)
			continue
		}
		packs = append(packs, pack)
	}
	return packs
}

func readRulepack(fsys fs.FS, name string, logger *slog.Logger) (rulepack, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return rulepack{}, fmt.Errorf("read: %w", err)
	}
	var file rulepackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return rulepack{}, fmt.Errorf("parse: %w", err)
	}
	pack, err := compileRulepack(file, logger)
	if err != nil {
		return rulepack{}, err
	}
	base := path.Base(name)
	pack.name = strings.TrimSuffix(base, path.Ext(base))
	return pack, nil
}

// compileRulepack: 규칙을 컴파일합니다. 잘못된 정규식은 그 규칙만 버리고, 형식 오류는 룰팩 전체를 거부합니다.
func compileRulepack(file rulepackFile, logger *slog.Logger) (rulepack, error) {
	pack := rulepack{threshold: file.Threshold}
	if pack.threshold <= 0 {
		pack.threshold = defaultThreshold
	}

	seen := make(map[string]int)
	for _, rule := range file.Rules {
		if strings.TrimSpace(rule.ID) == "" {
			return rulepack{}, fmt.Errorf("%w: missing id", errInvalidRule)
		}

		switch strings.ToLower(strings.TrimSpace(rule.Type)) {
		case ruleTypeRegex:
			if rule.Pattern == "" {
				return rulepack{}, fmt.Errorf("%w: %s has no pattern", errInvalidRule, rule.ID)
			}
			compiled, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				logger.Warn("rulepack_regex_invalid", "rule_id", rule.ID, "err", err)
				continue
			}
			pack.patterns = append(pack.patterns, patternRule{id: rule.ID, pattern: compiled, weight: rule.Weight})
		case ruleTypePhrases:
			if len(rule.Phrases) == 0 {
				return rulepack{}, fmt.Errorf("%w: %s has no phrases", errInvalidRule, rule.ID)
			}
			for _, phrase := range rule.Phrases {
				text := strings.ToLower(strings.TrimSpace(phrase))
				if text == "" {
					continue
				}
				// 같은 구절은 마지막 가중치를 따른다.
				if idx, ok := seen[text]; ok {
					pack.phrases[idx].weight = rule.Weight
					continue
				}
				seen[text] = len(pack.phrases)
				pack.phrases = append(pack.phrases, phraseEntry{text: text, weight: rule.Weight})
			}
		default:
			return rulepack{}, fmt.Errorf("%w: unknown type %q", errInvalidRule, rule.Type)
		}
	}

	if len(pack.phrases) > 0 {
		dictionary := make([]string, len(pack.phrases))
		for i, entry := range pack.phrases {
			dictionary[i] = entry.text
		}
		pack.matcher = ahocorasick.NewStringMatcher(dictionary)
	}
	return pack, nil
}

// match: 정규화된 text 에 걸린 규칙들의 가중치 합과 목록을 반환합니다.
func (p rulepack) match(text string) (float64, []Match) {
	var (
		score float64
		hits  []Match
	)
	for _, rule := range p.patterns {
		if rule.pattern.MatchString(text) {
			score += rule.weight
			hits = append(hits, Match{ID: rule.id, Weight: rule.weight})
		}
	}

	if p.matcher == nil {
		return score, hits
	}
	for _, idx := range p.matcher.MatchThreadSafe([]byte(strings.ToLower(text))) {
		if idx < 0 || idx >= len(p.phrases) {
			continue
		}
		entry := p.phrases[idx]
		if entry.weight <= 0 {
			continue
		}
		score += entry.weight
		hits = append(hits, Match{ID: "phrase:" + entry.text, Weight: entry.weight})
	}
	return score, hits
}
