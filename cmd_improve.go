package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"grammar_enhancer/selection"
	"grammar_enhancer/trigger"
	"grammar_enhancer/tui"
)

func (a *app) improveCmd() *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "improve [text]",
		Short: "Improve the given text (or stdin) and review the result",
		Long: `improve runs the context-menu flow once: the text is sent for improvement,
the result is shown as a review, and accepting copies it to the clipboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.oneShot(cmd.Context(), remote, selection.NewStatic(text), trigger.ProcessText(text))
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "base URL of a running serve process")
	markTUI(cmd)
	return cmd
}

func (a *app) shortcutCmd() *cobra.Command {
	var remote, source string
	cmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Improve the current selection, as the keyboard shortcut does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := selectionSource(a.cfg, source)
			if err != nil {
				return err
			}
			return a.oneShot(cmd.Context(), remote, src, trigger.GetSelectedTextAndProcess())
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "base URL of a running serve process")
	cmd.Flags().StringVar(&source, "source", "", "selection source: primary or browser (overrides config)")
	markTUI(cmd)
	return cmd
}

// oneShot delivers a single trigger to a fresh page and exits once the
// review and any notification are gone.
func (a *app) oneShot(ctx context.Context, remote string, src selection.Source, ev trigger.Event) error {
	ch, closeCh, err := a.channel(remote)
	if err != nil {
		return err
	}
	defer closeCh()

	p, err := a.newPage(ch, src)
	if err != nil {
		return err
	}
	defer p.Close()

	p.frames[0].HandleTrigger(ctx, ev)
	return p.run(tui.Config{ExitWhenIdle: true})
}

// readText joins args, or reads stdin when there are none. Surrounding
// whitespace is kept; the coordinator treats whitespace-only text as empty.
func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
