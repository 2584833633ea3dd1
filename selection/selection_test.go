package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type errSource struct{}

func (errSource) Selection(context.Context) (string, error) {
	return "ignored", errors.New("no display")
}

func TestCapture_Trims(t *testing.T) {
	require.Equal(t, "He go to school.", Capture(context.Background(), NewStatic("  He go to school.\n")))
}

func TestCapture_WhitespaceOnlyIsEmpty(t *testing.T) {
	require.Equal(t, "", Capture(context.Background(), NewStatic(" \t\n ")))
}

func TestCapture_ErrorIsEmpty(t *testing.T) {
	require.Equal(t, "", Capture(context.Background(), errSource{}))
	require.Equal(t, "", Capture(context.Background(), nil))
}

func TestCapture_KeepsInnerWhitespace(t *testing.T) {
	require.Equal(t, "line one\n\n  line two", Capture(context.Background(), NewStatic("\nline one\n\n  line two  ")))
}

func TestStatic_Set(t *testing.T) {
	s := NewStatic("a")
	s.Set("b")
	got, err := s.Selection(context.Background())
	require.NoError(t, err)
	require.Equal(t, "b", got)
}

func TestBrowser_RequiresControlURL(t *testing.T) {
	_, err := Browser{}.Selection(context.Background())
	require.EqualError(t, err, "browser control url is required")
}
