package improver

import "fmt"

// Request is one improvement request; immutable once created.
type Request struct {
	Text string `json:"text"`
}

// FailureKind classifies why a request produced no improved text.
type FailureKind int

const (
	FailureMissingSecret FailureKind = iota + 1
	FailureAPIError
	FailureMalformedResponse
	FailureEmptySelection
	FailureClipboardWrite
)

func (k FailureKind) String() string {
	switch k {
	case FailureMissingSecret:
		return "MissingSecret"
	case FailureAPIError:
		return "ApiError"
	case FailureMalformedResponse:
		return "MalformedResponse"
	case FailureEmptySelection:
		return "EmptySelection"
	case FailureClipboardWrite:
		return "ClipboardWriteFailure"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure is the error half of Result.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Result 是 Success 或 Failure 二选一，每个 Request 恰好产生一次。
type Result struct {
	ImprovedText string
	Failure      *Failure
}

func Success(improved string) Result {
	return Result{ImprovedText: improved}
}

func Fail(kind FailureKind, message string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message}}
}

// OK reports whether the result carries improved text.
func (r Result) OK() bool {
	return r.Failure == nil
}
