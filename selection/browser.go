package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
)

const selectionJS = `() => {
	const sel = window.getSelection ? window.getSelection() : null;
	return sel ? sel.toString() : "";
}`

// Browser reads the selection from the first page of a Chromium instance
// started with --remote-debugging-port.
type Browser struct {
	ControlURL string
}

func (b Browser) Selection(ctx context.Context) (string, error) {
	if b.ControlURL == "" {
		return "", errors.New("browser control url is required")
	}
	// Cancelling the context drops the CDP connection and leaves the
	// user's browser running; Browser.Close would quit it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	browser := rod.New().ControlURL(b.ControlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect to chrome: %w", err)
	}

	pages, err := browser.Pages()
	if err != nil {
		return "", fmt.Errorf("list pages: %w", err)
	}
	if len(pages) == 0 {
		return "", nil
	}
	res, err := pages[0].Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      selectionJS,
		ByValue: true,
	})
	if err != nil || res == nil || res.Value.Nil() {
		return "", err
	}
	return res.Value.Str(), nil
}
