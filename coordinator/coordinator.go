// Package coordinator runs the page side of a text improvement: it resolves the
// selection, keeps at most one request in flight, and turns the reply into a
// review or a toast.
package coordinator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"grammar_enhancer/bridge"
	"grammar_enhancer/clipboard"
	"grammar_enhancer/improver"
	"grammar_enhancer/overlay"
	"grammar_enhancer/selection"
	"grammar_enhancer/trigger"
)

const (
	DefaultDebounce = 100 * time.Millisecond

	CopiedMessage     = "Improved text copied to clipboard!"
	CopyFailedMessage = "Failed to copy text. Please try again."
)

// Overlays is the part of overlay.Manager the coordinator drives.
type Overlays interface {
	ShowReview(original, improved string, onAccept, onCancel func()) string
	Notify(message string, tone overlay.Tone) string
}

// Frame describes where this coordinator's page lives.
type Frame struct {
	// Embedded is true for a frame nested inside another document.
	Embedded bool
	// MultiFrameHost is true when the top-level page hosts several frames that
	// all receive the same broadcast.
	MultiFrameHost bool
}

type Options struct {
	Channel   bridge.Channel
	Selection selection.Source
	Overlays  Overlays
	// Clipboard is tried first on accept; Fallback only when it fails.
	Clipboard clipboard.Writer
	Fallback  clipboard.Writer
	Frame     Frame
	Debounce  time.Duration
	Logger    *zap.Logger
}

// Coordinator is one per frame. Its processing flag is the single-flight guard.
type Coordinator struct {
	channel   bridge.Channel
	selection selection.Source
	overlays  Overlays
	clipboard clipboard.Writer
	fallback  clipboard.Writer
	frame     Frame
	debounce  time.Duration
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	processing  bool
	closed      bool
	debounceGen uint64
	timer       *time.Timer
}

func New(opts Options) (*Coordinator, error) {
	if opts.Channel == nil {
		return nil, errors.New("message channel is required")
	}
	if opts.Overlays == nil {
		return nil, errors.New("overlays are required")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.System{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		channel:   opts.Channel,
		selection: opts.Selection,
		overlays:  opts.Overlays,
		clipboard: opts.Clipboard,
		fallback:  opts.Fallback,
		frame:     opts.Frame,
		debounce:  opts.Debounce,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// HandleTrigger is the entry point for both trigger kinds. Events that arrive
// while a request is in flight are dropped.
func (c *Coordinator) HandleTrigger(ctx context.Context, ev trigger.Event) {
	// Every frame of the page receives broadcasts; only the one holding the
	// selection answers.
	if c.frame.Embedded && c.frame.MultiFrameHost && selection.Capture(ctx, c.selection) == "" {
		c.logger.Debug("no selection in this frame, ignoring event", zap.String("action", ev.Action))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.processing {
		c.logger.Info("already processing a request, ignoring new request", zap.String("action", ev.Action))
		return
	}

	switch ev.Action {
	case trigger.ActionProcessText:
		c.startLocked(ev.Text)
	case trigger.ActionGetSelectedTextAndProcess:
		if c.timer != nil && c.timer.Stop() {
			c.wg.Done()
		}
		c.debounceGen++
		gen := c.debounceGen
		c.wg.Add(1)
		c.timer = time.AfterFunc(c.debounce, func() { c.fireDebounced(gen) })
	default:
		c.logger.Debug("ignoring unknown action", zap.String("action", ev.Action))
	}
}

func (c *Coordinator) fireDebounced(gen uint64) {
	defer c.wg.Done()

	c.mu.Lock()
	if gen != c.debounceGen || c.closed || c.processing {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.processing = true
	c.mu.Unlock()

	text := selection.Capture(c.ctx, c.selection)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.processing = false
	if c.closed {
		return
	}
	c.startLocked(text)
}

// startLocked moves Idle -> Processing. Caller holds c.mu. Whitespace-only
// text counts as empty; anything else is forwarded as is.
func (c *Coordinator) startLocked(text string) {
	if strings.TrimSpace(text) == "" {
		c.overlays.Notify(improver.EmptySelectionMessage, overlay.ToneError)
		return
	}
	c.processing = true
	c.wg.Add(1)
	go c.run(text)
}

func (c *Coordinator) run(text string) {
	defer c.wg.Done()

	c.logger.Debug("sending text to background", zap.Int("chars", len(text)))
	resp, err := c.channel.Send(c.ctx, bridge.ImproveText(text))

	c.mu.Lock()
	c.processing = false
	closed := c.closed
	c.mu.Unlock()
	if closed {
		c.logger.Debug("frame closed, dropping reply")
		return
	}

	res := bridge.ToResult(resp, err)
	if !res.OK() {
		c.overlays.Notify("Error: "+res.Failure.Message, overlay.ToneError)
		return
	}
	improved := res.ImprovedText
	c.overlays.ShowReview(text, improved, func() { c.accept(improved) }, func() {})
}

// accept copies the improved text and reports exactly one outcome.
func (c *Coordinator) accept(text string) {
	err := c.clipboard.WriteAll(text)
	if err == nil {
		c.overlays.Notify(CopiedMessage, overlay.ToneSuccess)
		return
	}
	c.logger.Warn("failed to copy text", zap.Error(err))
	if c.fallback != nil {
		if err = c.fallback.WriteAll(text); err == nil {
			c.overlays.Notify(CopiedMessage, overlay.ToneSuccess)
			return
		}
		c.logger.Warn("fallback copy failed", zap.Error(err))
	}
	c.overlays.Notify(CopyFailedMessage, overlay.ToneError)
}

// Processing reports whether a request is in flight.
func (c *Coordinator) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// Wait blocks until pending debounces and in-flight requests have settled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close tears the frame down. A pending debounce is dropped and any late
// reply is discarded.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil && c.timer.Stop() {
		c.wg.Done()
	}
	c.timer = nil
	c.mu.Unlock()
	c.cancel()
}
