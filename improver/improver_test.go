package improver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	out    string
	err    error
	calls  int
	prompt Prompt
}

func (s *stubLLM) Complete(_ context.Context, p Prompt) (string, error) {
	s.calls++
	s.prompt = p
	return s.out, s.err
}

func newImprover(t *testing.T, llm LLMClient) *Improver {
	t.Helper()
	imp, err := New(llm, nil)
	require.NoError(t, err)
	return imp
}

func TestNew_RequiresLLM(t *testing.T) {
	_, err := New(nil, nil)
	require.EqualError(t, err, "llm client is required")
}

func TestImprove_Success_Unmodified(t *testing.T) {
	llm := &stubLLM{out: "  He goes to school.\n"}
	res := newImprover(t, llm).Improve(context.Background(), Request{Text: "He go to school."})

	require.True(t, res.OK())
	require.Equal(t, "  He goes to school.\n", res.ImprovedText)
	require.Equal(t, 1, llm.calls)
	require.Equal(t, "He go to school.", llm.prompt.User)
	require.Equal(t, SystemInstruction, llm.prompt.System)
}

func TestImprove_EmptyTextNeverCallsModel(t *testing.T) {
	llm := &stubLLM{out: "x"}
	res := newImprover(t, llm).Improve(context.Background(), Request{})

	require.False(t, res.OK())
	require.Equal(t, FailureEmptySelection, res.Failure.Kind)
	require.Zero(t, llm.calls)
}

func TestImprove_ClassifiesFailures(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		out     string
		kind    FailureKind
		message string
	}{
		{"missing secret", ErrMissingSecret, "", FailureMissingSecret, MissingSecretMessage},
		{"api error", &APIError{StatusCode: 429, Message: "rate limit exceeded"}, "", FailureAPIError, "API Error: rate limit exceeded"},
		{"malformed", ErrMalformedResponse, "", FailureMalformedResponse, MalformedResponseMessage},
		{"empty completion", nil, "", FailureMalformedResponse, MalformedResponseMessage},
		{"transport", errors.New("dial tcp: connection refused"), "", FailureAPIError, "dial tcp: connection refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newImprover(t, &stubLLM{out: tc.out, err: tc.err}).Improve(context.Background(), Request{Text: "x"})
			require.False(t, res.OK())
			require.Equal(t, tc.kind, res.Failure.Kind)
			require.Equal(t, tc.message, res.Failure.Message)
		})
	}
}

func TestFailureKind_String(t *testing.T) {
	require.Equal(t, "MissingSecret", FailureMissingSecret.String())
	require.Equal(t, "ClipboardWriteFailure", FailureClipboardWrite.String())
	require.Equal(t, "FailureKind(42)", FailureKind(42).String())
}

func TestMockLLM(t *testing.T) {
	out, err := MockLLM{}.Complete(context.Background(), BuildImprovePrompt("he  go to school."))
	require.NoError(t, err)
	require.Equal(t, "He go to school.", out)

	out, err = MockLLM{}.Complete(context.Background(), BuildImprovePrompt(""))
	require.NoError(t, err)
	require.Equal(t, "", out)
}
