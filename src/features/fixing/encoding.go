package fixing

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// DefaultConfidenceThreshold gates the statistical detector.
const DefaultConfidenceThreshold = 0.8

// DefaultCandidates are tried in order when detection is inconclusive.
// Korean encodings come before Japanese on purpose: the expected corpus
// is mostly Korean, and byte sequences are often valid under several of
// these encodings at once.
var DefaultCandidates = []string{"cp949", "euc-kr", "shift_jis", "euc_jp", "iso2022_jp"}

// Policy holds the tunable constants of the repair cascade.
type Policy struct {
	Scripts             []ScriptRange
	ConfidenceThreshold float64
	Candidates          []string
}

// DefaultPolicy returns the policy matching the default configuration.
func DefaultPolicy() Policy {
	scripts, _ := ScriptsByName(DefaultScriptNames)
	return Policy{
		Scripts:             scripts,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		Candidates:          DefaultCandidates,
	}
}

// FixEncoding attempts to recover the intended text of a mojibake tag
// value. It returns ok=false when the value looks garbled but no
// decoding recovers usable text.
//
// The cascade, short-circuiting on first success:
//  1. values without an expected-script rune are reinterpreted as the
//     Latin-1 bytes they were presumably mis-decoded from;
//  2. values that don't fit in single bytes can't be byte-level mojibake
//     and pass through unchanged;
//  3. a statistical detector guess above the confidence threshold is
//     tried first, then the fixed candidate list in order.
//
// A decoding only counts as a success if it is byte-exact (no
// substitution runes) and the decoded text contains an expected-script
// rune; plain ASCII decodes cleanly under every candidate, and without
// that check it would round-trip to itself instead of being reported
// unrecoverable.
func FixEncoding(text string, p Policy) (string, bool) {
	if text == "" {
		return "", false
	}

	if !IsGarbled(text, p.Scripts) {
		return text, true
	}

	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	if err != nil {
		// Not representable as single bytes, so not byte-level
		// mojibake. Assume it's fine despite the garble heuristic.
		return text, true
	}

	if res, err := chardet.NewTextDetector().DetectBest(raw); err == nil && res != nil {
		if float64(res.Confidence)/100 > p.ConfidenceThreshold {
			if enc := lookupEncoding(res.Charset); enc != nil {
				if decoded, err := decodeStrict(raw, enc); err == nil && !IsGarbled(decoded, p.Scripts) {
					return decoded, true
				}
			}
		}
	}

	for _, name := range p.Candidates {
		enc := lookupEncoding(name)
		if enc == nil {
			continue
		}
		decoded, err := decodeStrict(raw, enc)
		if err != nil {
			continue
		}
		if IsGarbled(decoded, p.Scripts) {
			continue
		}
		return decoded, true
	}

	return "", false
}

var errInvalidSequence = errors.New("byte sequence not valid for encoding")

// decodeStrict decodes raw under enc, rejecting any input the encoding
// cannot represent exactly. The x/text decoders substitute U+FFFD for
// invalid sequences instead of failing, so the output is scanned for it.
func decodeStrict(raw []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errInvalidSequence
	}
	return string(out), nil
}

// lookupEncoding resolves an encoding label, from either the candidate
// list or the detector's charset names. Unknown labels yield nil.
func lookupEncoding(name string) encoding.Encoding {
	switch normalizeEncodingName(name) {
	case "cp949", "euckr", "uhc", "windows949", "ksc5601", "ksc56011987":
		// x/text's EUC-KR tables are the WHATWG index, which is the
		// cp949 superset, so both labels resolve to the same decoder.
		return korean.EUCKR
	case "shiftjis", "sjis", "cp932", "windows31j":
		return japanese.ShiftJIS
	case "eucjp":
		return japanese.EUCJP
	case "iso2022jp", "csiso2022jp":
		return japanese.ISO2022JP
	case "utf8":
		return unicode.UTF8
	}
	if e, err := ianaindex.IANA.Encoding(name); err == nil && e != nil {
		return e
	}
	return nil
}

func normalizeEncodingName(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	return name
}
