// Package trigger turns the two user entry points (keyboard command and
// context menu) into events delivered to every frame of the active page.
package trigger

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionProcessText               = "processText"
	ActionGetSelectedTextAndProcess = "getSelectedTextAndProcess"

	MenuItemID            = "grammar-enhancer"
	MenuTitle             = "Improve Grammar and Clarity"
	CommandImproveGrammar = "improve-grammar"
)

// Event is the trigger→coordinator message.
type Event struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
}

func ProcessText(text string) Event {
	return Event{Action: ActionProcessText, Text: text}
}

func GetSelectedTextAndProcess() Event {
	return Event{Action: ActionGetSelectedTextAndProcess}
}

// Target receives events; one per frame.
type Target interface {
	HandleTrigger(ctx context.Context, ev Event)
}

// Dispatcher broadcasts events to every registered frame.
type Dispatcher struct {
	mu     sync.RWMutex
	frames map[string]Target
	logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{frames: make(map[string]Target), logger: logger}
}

// Register adds a frame and returns the function that removes it.
func (d *Dispatcher) Register(t Target) func() {
	id := uuid.NewString()
	d.mu.Lock()
	d.frames[id] = t
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.frames, id)
		d.mu.Unlock()
	}
}

// Frames reports how many frames are registered.
func (d *Dispatcher) Frames() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.frames)
}

// Broadcast delivers ev to every frame and returns how many received it.
func (d *Dispatcher) Broadcast(ctx context.Context, ev Event) int {
	d.mu.RLock()
	targets := make([]Target, 0, len(d.frames))
	for _, t := range d.frames {
		targets = append(targets, t)
	}
	d.mu.RUnlock()
	for _, t := range targets {
		t.HandleTrigger(ctx, ev)
	}
	return len(targets)
}

// OnCommand handles a keyboard command. Unknown commands are ignored.
func (d *Dispatcher) OnCommand(ctx context.Context, name string) bool {
	if name != CommandImproveGrammar {
		d.logger.Debug("ignoring command", zap.String("command", name))
		return false
	}
	d.Broadcast(ctx, GetSelectedTextAndProcess())
	return true
}

// OnContextMenu handles a menu click; it needs our item and a non-empty selection.
func (d *Dispatcher) OnContextMenu(ctx context.Context, menuItemID, selectionText string) bool {
	if menuItemID != MenuItemID || selectionText == "" {
		return false
	}
	d.Broadcast(ctx, ProcessText(selectionText))
	return true
}
