// Package overlay owns the transient surfaces drawn above the page: at most one
// review modal plus any number of self-dismissing toasts.
package overlay

import (
	"grammar_enhancer/diff"
)

type Kind int

const (
	KindReview Kind = iota + 1
	KindToast
)

func (k Kind) String() string {
	switch k {
	case KindReview:
		return "review"
	case KindToast:
		return "toast"
	default:
		return "unknown"
	}
}

// Tone picks the toast colour.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// Review shows original against improved text.
type Review struct {
	Original string
	Improved string
	Segments []diff.Segment
}

// Toast is a short status message.
type Toast struct {
	Message string
	Tone    Tone
}

// Overlay is either a Review or a Toast; Kind says which field is set.
type Overlay struct {
	ID     string
	Kind   Kind
	Review *Review
	Toast  *Toast
}

// Document is the surface overlays are mounted on.
type Document interface {
	Mount(o Overlay)
	Unmount(id string)
}
