package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grammar_enhancer/diff"
)

// renderDiff styles each segment line by line so a highlight never pads or
// joins across a line break.
func renderDiff(segs []diff.Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		var style *lipgloss.Style
		switch s.Op {
		case diff.Insert:
			style = &addedStyle
		case diff.Delete:
			style = &removedStyle
		}
		for i, line := range strings.Split(s.Text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			if style == nil {
				sb.WriteString(line)
				continue
			}
			sb.WriteString(style.Render(line))
		}
	}
	return sb.String()
}
