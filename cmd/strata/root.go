package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/strata/internal/config"
	"github.com/dshills/strata/internal/engine/buffer"
	"github.com/dshills/strata/internal/engine/syntax"
	"github.com/dshills/strata/internal/log"
	"github.com/dshills/strata/internal/session"
	"github.com/dshills/strata/internal/tracing"
)

// flagBindings maps config keys to the persistent flags that override them.
var flagBindings = map[string]string{
	"log.level":       "log-level",
	"log.file":        "log-file",
	"selection.mode":  "mode",
	"selection.wrap":  "wrap",
	"tracing.enabled": "trace",
}

// env is the state shared by every subcommand of one invocation.
type env struct {
	out    io.Writer
	errOut io.Writer

	cfgFile string
	cfg     *config.Config
	table   *syntax.Table
	scopes  *syntax.Cache

	logger   *log.Logger
	closeLog func() error
	provider *tracing.Provider
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	e := &env{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "strata",
		Short:         "Structural selection over source files",
		Long:          `strata enumerates the regions a selection mode offers in a file and walks up through enclosing lines.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return e.teardown(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&e.cfgFile, "config", "c", "", "config file (default: ~/.config/strata/config.toml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "write logs to this file instead of stderr")
	pf.StringP("mode", "m", "line", "selection mode")
	pf.Bool("wrap", false, "wrap next/previous around the file")
	pf.Bool("trace", false, "print navigation spans to stderr")

	root.AddCommand(
		newRegionsCmd(e),
		newUpCmd(e),
		newWalkCmd(e),
		newMoveCmd(e),
		newParentsCmd(e),
		newWatchCmd(e),
		newVersionCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(
		config.WithFile(e.cfgFile),
		config.WithFlags(cmd.Flags(), flagBindings),
	)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	e.cfg = cfg

	logCfg := log.Config{Level: cfg.LogLevel(), Output: e.errOut, Prefix: "strata"}
	if cfg.Log.File != "" {
		e.logger, e.closeLog, err = log.Open(cfg.Log.File, logCfg)
		if err != nil {
			return err
		}
	} else {
		e.logger = log.New(logCfg)
	}
	log.SetDefault(e.logger)

	e.table, err = cfg.LanguageTable()
	if err != nil {
		return err
	}
	e.scopes = syntax.NewCache(cfg.Syntax.CacheTTL)

	e.provider, err = tracing.NewProvider(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Exporter:    cfg.Tracing.Exporter,
		ServiceName: cfg.Tracing.ServiceName,
		Writer:      e.errOut,
	})
	if err != nil {
		return err
	}

	e.logger.Debug("config loaded, mode=%s wrap=%t", cfg.Selection.Mode, cfg.Selection.Wrap)
	return nil
}

func (e *env) teardown(cmd *cobra.Command) error {
	var firstErr error
	if e.provider != nil {
		if err := e.provider.Shutdown(cmd.Context()); err != nil {
			firstErr = fmt.Errorf("flushing traces: %w", err)
		}
	}
	if e.closeLog != nil {
		if err := e.closeLog(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// loadBuffer reads path into a buffer with the language its extension names.
func (e *env) loadBuffer(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path) //nolint:gosec // path is a command argument
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lang := e.table.Detect(path)
	buf, err := buffer.NewBufferFromReader(f, buffer.WithLanguage(lang), buffer.WithScopeCache(e.scopes))
	if err != nil {
		return nil, err
	}
	e.logger.WithField("file", path).Debug("loaded %d lines as %s", buf.LenLines(), lang.Name)
	return buf, nil
}

func (e *env) newSession(buf *buffer.Buffer) (*session.Session, error) {
	return session.New(buf,
		session.WithMode(e.cfg.Selection.Mode),
		session.WithWrap(e.cfg.Selection.Wrap),
		session.WithCursorDirection(e.cfg.CursorDirection()),
		session.WithLogger(e.logger),
		session.WithTracer(e.provider.Tracer()),
	)
}
