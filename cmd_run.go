package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"grammar_enhancer/bridge"
	"grammar_enhancer/server"
	"grammar_enhancer/trigger"
	"grammar_enhancer/tui"
)

func (a *app) runCmd() *cobra.Command {
	var (
		addr   string
		source string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the background and a terminal page that answers triggers",
		Long: `run starts the full session: the background service, a terminal page that
shows reviews and notifications, and the trigger endpoints. Bind a desktop
shortcut to POST /api/commands/improve-grammar, or press ctrl+g in the page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := selectionSources(a.cfg, source)
			if err != nil {
				return err
			}
			ln, err := bind(listenAddr(addr, a.cfg.ServerAddr))
			if err != nil {
				return err
			}
			defer ln.Close()

			bg, err := a.openBackground()
			if err != nil {
				return err
			}
			defer bg.Close()

			p, err := a.newPage(bridge.NewInProcess(bg.handler), srcs...)
			if err != nil {
				return err
			}
			defer p.Close()

			dispatcher := trigger.NewDispatcher(a.logger.Named("trigger"))
			unregister := p.register(dispatcher)
			defer unregister()

			srv, err := server.New(bg.handler, bg.store, dispatcher, a.logger.Named("server"))
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			prog := p.program(tui.Config{
				Status: fmt.Sprintf("Settings and triggers on http://%s", ln.Addr()),
				OnShortcut: func() {
					dispatcher.OnCommand(ctx, trigger.CommandImproveGrammar)
				},
			})
			errCh := make(chan error, 1)
			go func() {
				err := a.serve(ctx, ln, srv.Routes())
				if err != nil {
					a.logger.Error("web server stopped", zap.Error(err))
					prog.Quit()
				}
				errCh <- err
			}()

			_, uiErr := prog.Run()
			cancel()
			if err := <-errCh; err != nil {
				return err
			}
			return uiErr
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config server_addr)")
	cmd.Flags().StringVar(&source, "source", "", "selection sources, comma separated: primary, browser (overrides config)")
	markTUI(cmd)
	return cmd
}
