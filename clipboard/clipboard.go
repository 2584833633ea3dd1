// Package clipboard copies accepted text out of the review overlay.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

func (f WriterFunc) WriteAll(text string) error { return f(text) }

// System writes through the OS clipboard utilities (xclip, xsel, wl-copy, pbcopy...).
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no system clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// OSC52 asks the terminal to set the clipboard with an OSC 52 escape. It is
// the fallback when no clipboard utility is installed (SSH sessions, containers).
type OSC52 struct {
	// Out defaults to the controlling terminal.
	Out io.Writer
}

func (o OSC52) WriteAll(text string) error {
	out := o.Out
	if out == nil {
		tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("open tty: %w", err)
		}
		defer tty.Close()
		out = tty
	}
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	_, err := seq.WriteTo(out)
	return err
}
