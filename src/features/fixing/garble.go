package fixing

import "fmt"

// ScriptRange is a closed range of runes belonging to an expected script.
type ScriptRange struct {
	Lo, Hi rune
}

// Contains reports whether r falls inside the range.
func (s ScriptRange) Contains(r rune) bool {
	return r >= s.Lo && r <= s.Hi
}

// scriptRanges maps config names to rune ranges.
var scriptRanges = map[string][]ScriptRange{
	"kana":   {{0x3040, 0x30FF}}, // Hiragana and Katakana
	"cjk":    {{0x4E00, 0x9FFF}}, // CJK Unified Ideographs
	"hangul": {{0xAC00, 0xD7A3}}, // Hangul syllables
}

// DefaultScriptNames matches the default East-Asian tag corpus.
var DefaultScriptNames = []string{"kana", "cjk", "hangul"}

// ScriptsByName resolves config script names to rune ranges.
func ScriptsByName(names []string) ([]ScriptRange, error) {
	var scripts []ScriptRange
	for _, name := range names {
		ranges, ok := scriptRanges[name]
		if !ok {
			return nil, fmt.Errorf("unknown script name %q", name)
		}
		scripts = append(scripts, ranges...)
	}
	return scripts, nil
}

// IsGarbled reports whether text looks mis-decoded. A correctly decoded
// tag from the target corpus contains at least one rune in the expected
// script ranges; total absence is the corruption signal. Purely Latin
// values therefore classify as garbled, which is the accepted tradeoff
// for an East-Asian corpus.
func IsGarbled(text string, scripts []ScriptRange) bool {
	for _, r := range text {
		for _, s := range scripts {
			if s.Contains(r) {
				return false
			}
		}
	}
	return true
}
