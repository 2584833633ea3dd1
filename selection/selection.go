// Package selection reads the text the user currently has highlighted.
package selection

import (
	"context"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// Source returns the raw current selection, or "" when nothing is selected.
type Source interface {
	Selection(ctx context.Context) (string, error)
}

// Capture pulls from src and trims surrounding whitespace. Errors read as an
// empty selection.
func Capture(ctx context.Context, src Source) string {
	if src == nil {
		return ""
	}
	text, err := src.Selection(ctx)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// Static is a fixed selection. Set may change it between reads.
type Static struct {
	mu   sync.Mutex
	text string
}

func NewStatic(text string) *Static {
	return &Static{text: text}
}

func (s *Static) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

func (s *Static) Selection(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, nil
}

// Primary reads the X11 primary selection (the highlighted text) where one
// exists, the regular clipboard elsewhere.
type Primary struct{}

var primaryMu sync.Mutex

func (Primary) Selection(context.Context) (string, error) {
	primaryMu.Lock()
	defer primaryMu.Unlock()
	clipboard.Primary = true
	defer func() { clipboard.Primary = false }()
	return clipboard.ReadAll()
}
