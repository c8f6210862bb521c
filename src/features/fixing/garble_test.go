package fixing

import "testing"

func defaultScripts(t *testing.T) []ScriptRange {
	t.Helper()
	scripts, err := ScriptsByName(DefaultScriptNames)
	if err != nil {
		t.Fatalf("failed to resolve default scripts: %v", err)
	}
	return scripts
}

func TestIsGarbled_ExpectedScriptMeansClean(t *testing.T) {
	scripts := defaultScripts(t)

	clean := []string{
		"안녕하세요",        // Hangul
		"こんにちは",        // Hiragana
		"ミュージック",       // Katakana
		"音楽",           // CJK ideographs
		"BTS - 봄날",     // mixed Latin and Hangul
		"宇多田ヒカル First", // mixed CJK, Katakana, Latin
	}
	for _, text := range clean {
		if IsGarbled(text, scripts) {
			t.Errorf("IsGarbled(%q) = true, want false", text)
		}
	}
}

func TestIsGarbled_NoExpectedScriptMeansGarbled(t *testing.T) {
	scripts := defaultScripts(t)

	garbled := []string{
		"¾È³çÇÏ¼¼¿ä", // EUC-KR bytes shown as Latin-1
		"Love",       // plain ASCII: the accepted false positive
		"Café del Mar",
		"!!!---###",
	}
	for _, text := range garbled {
		if !IsGarbled(text, scripts) {
			t.Errorf("IsGarbled(%q) = false, want true", text)
		}
	}
}

func TestIsGarbled_RespectsConfiguredScripts(t *testing.T) {
	hangulOnly, err := ScriptsByName([]string{"hangul"})
	if err != nil {
		t.Fatalf("failed to resolve scripts: %v", err)
	}

	// Japanese text counts as garbled when only Hangul is expected.
	if !IsGarbled("こんにちは", hangulOnly) {
		t.Error("expected kana text to be garbled under a hangul-only policy")
	}
	if IsGarbled("안녕", hangulOnly) {
		t.Error("expected hangul text to be clean under a hangul-only policy")
	}
}

func TestScriptsByName_UnknownName(t *testing.T) {
	if _, err := ScriptsByName([]string{"hangul", "klingon"}); err == nil {
		t.Error("expected an error for an unknown script name")
	}
}
