// Package bridge is the request/response channel between a page context
// (no network) and the background context that owns the completion client.
package bridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"grammar_enhancer/improver"
)

const ActionImproveText = "improveText"

// Message is what a page sends to the background.
type Message struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
}

// Response is the single reply to a Message.
type Response struct {
	Success      bool   `json:"success"`
	ImprovedText string `json:"improvedText,omitempty"`
	Error        string `json:"error,omitempty"`
}

func ImproveText(text string) Message {
	return Message{Action: ActionImproveText, Text: text}
}

// Channel delivers one message and waits for exactly one reply.
type Channel interface {
	Send(ctx context.Context, msg Message) (Response, error)
}

// Completer is the part of improver.Improver the background needs.
type Completer interface {
	Improve(ctx context.Context, req improver.Request) improver.Result
}

// Background answers page messages.
type Background struct {
	completer Completer
	logger    *zap.Logger
}

func NewBackground(c Completer, logger *zap.Logger) *Background {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Background{completer: c, logger: logger}
}

func (b *Background) Handle(ctx context.Context, msg Message) Response {
	switch msg.Action {
	case ActionImproveText:
		res := b.completer.Improve(ctx, improver.Request{Text: msg.Text})
		if !res.OK() {
			b.logger.Error("error improving text", zap.String("error", res.Failure.Message))
			return Response{Success: false, Error: res.Failure.Message}
		}
		return Response{Success: true, ImprovedText: res.ImprovedText}
	default:
		return Response{Success: false, Error: fmt.Sprintf("unknown action: %s", msg.Action)}
	}
}

// InProcess is a Channel for pages living in the same process as the background.
type InProcess struct {
	bg *Background
}

func NewInProcess(bg *Background) *InProcess {
	return &InProcess{bg: bg}
}

func (c *InProcess) Send(ctx context.Context, msg Message) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	return c.bg.Handle(ctx, msg), nil
}

// ToResult maps a wire reply back onto the improver result type.
func ToResult(resp Response, err error) improver.Result {
	if err != nil {
		return improver.Fail(improver.FailureAPIError, err.Error())
	}
	if resp.Success && resp.ImprovedText != "" {
		return improver.Success(resp.ImprovedText)
	}
	if resp.Error == "" {
		return improver.Fail(improver.FailureAPIError, "Unknown error occurred")
	}
	return improver.Fail(improver.FailureAPIError, resp.Error)
}
