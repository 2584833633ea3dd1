package improver

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// Improver is the completion client: one request in, one Result out.
type Improver struct {
	llm    LLMClient
	logger *zap.Logger
}

func New(llm LLMClient, logger *zap.Logger) (*Improver, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Improver{llm: llm, logger: logger}, nil
}

// Improve sends req.Text to the model. The improved text is returned as the
// model produced it, without trimming.
func (a *Improver) Improve(ctx context.Context, req Request) Result {
	if req.Text == "" {
		return Fail(FailureEmptySelection, EmptySelectionMessage)
	}
	raw, err := a.llm.Complete(ctx, BuildImprovePrompt(req.Text))
	if err != nil {
		res := classify(err)
		a.logger.Warn("improve text failed",
			zap.Stringer("kind", res.Failure.Kind),
			zap.Error(err))
		return res
	}
	if raw == "" {
		return Fail(FailureMalformedResponse, MalformedResponseMessage)
	}
	a.logger.Debug("improve text done",
		zap.Int("in_chars", len(req.Text)),
		zap.Int("out_chars", len(raw)))
	return Success(raw)
}

func classify(err error) Result {
	var apiErr *APIError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, ErrMissingSecret):
		return Fail(FailureMissingSecret, MissingSecretMessage)
	case errors.Is(err, ErrMalformedResponse), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return Fail(FailureMalformedResponse, MalformedResponseMessage)
	case errors.As(err, &apiErr):
		return Fail(FailureAPIError, apiErr.Error())
	default:
		return Fail(FailureAPIError, err.Error())
	}
}
