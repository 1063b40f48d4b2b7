package emoji

type codepointClass int

const (
	classOther codepointClass = iota
	classBase
	classModifier
)

const (
	zeroWidthJoiner    = '\u200d'
	zeroWidthNonJoiner = '\u200c'
)

type runeRange struct {
	lo rune
	hi rune
}

var baseRanges = []runeRange{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // misc symbols & pictographs
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F1E0, 0x1F1FF}, // regional indicators
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
}

func classify(r rune) codepointClass {
	for _, rr := range baseRanges {
		if r >= rr.lo && r <= rr.hi {
			return classBase
		}
	}
	if (r >= 0xFE00 && r <= 0xFE0F) || r == zeroWidthJoiner || r == zeroWidthNonJoiner {
		return classModifier
	}
	return classOther
}
