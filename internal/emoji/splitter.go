package emoji

import "strings"

type splitState int

const (
	stateIdle splitState = iota
	stateAccumulating
)

// splitter: 코드포인트 단위 상태 기계입니다.
// 누적 중인 토큰은 항상 base 코드포인트로 시작하므로 modifier 만으로 된 토큰은 만들어지지 않습니다.
type splitter struct {
	state   splitState
	current strings.Builder
	prev    rune
	tokens  []string
}

func splitTokens(candidate string) []string {
	s := &splitter{}
	for _, r := range candidate {
		s.feed(r)
	}
	s.flush()
	return s.tokens
}

func (s *splitter) feed(r rune) {
	switch classify(r) {
	case classBase:
		if s.state == stateAccumulating && s.prev == zeroWidthJoiner {
			s.current.WriteRune(r)
			break
		}
		s.flush()
		s.current.WriteRune(r)
		s.state = stateAccumulating
	case classModifier:
		if s.state == stateAccumulating {
			s.current.WriteRune(r)
		}
	default:
		s.flush()
	}
	s.prev = r
}

func (s *splitter) flush() {
	if s.state == stateAccumulating && s.current.Len() > 0 {
		s.tokens = append(s.tokens, s.current.String())
	}
	s.current.Reset()
	s.state = stateIdle
}
