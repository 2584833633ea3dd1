package improver

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// It capitalises the first letter and collapses doubled spaces.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	text := prompt.User
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text, nil
	}
	return string(unicode.ToUpper(r)) + text[size:], nil
}
