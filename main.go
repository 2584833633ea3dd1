package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"grammar_enhancer/config"
)

// tuiAnnotation marks commands that hand the terminal to bubbletea; their
// logs go to a file instead of stderr.
const tuiAnnotation = "tui"

type app struct {
	verbose    bool
	configPath string
	logPath    string

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "grammar-enhancer",
		Short: "Improve the grammar and clarity of selected text",
		Long: `grammar-enhancer sends selected text to a language model and shows the
corrected version as a word-level diff. Accepting copies it to the clipboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (.json or .yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logs")
	root.PersistentFlags().StringVar(&a.logPath, "log-file", "", "log file for terminal UI commands (default in the user cache dir)")

	root.AddCommand(
		a.serveCmd(),
		a.runCmd(),
		a.improveCmd(),
		a.shortcutCmd(),
		a.keyCmd(),
	)
	return root
}

func markTUI(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[tuiAnnotation] = "true"
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cmd.Annotations[tuiAnnotation] != "" {
		path, err := a.logFile()
		if err != nil {
			return err
		}
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) logFile() (string, error) {
	path := a.logPath
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "grammar-enhancer", "grammar-enhancer.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return path, nil
}
