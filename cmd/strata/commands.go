package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/strata/internal/engine/buffer"
	"github.com/dshills/strata/internal/selectmode"
	"github.com/dshills/strata/internal/session"
	"github.com/dshills/strata/internal/watcher"
)

const noMovement = "no movement"

func newRegionsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "regions FILE",
		Short: "Print every region the selection mode offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := e.loadBuffer(args[0])
			if err != nil {
				return err
			}
			return e.printRegions(cmd, buf)
		},
	}
}

func (e *env) printRegions(cmd *cobra.Command, buf *buffer.Buffer) error {
	s, err := e.newSession(buf)
	if err != nil {
		return err
	}
	for r, err := range s.Regions(cmd.Context()) {
		if err != nil {
			return err
		}
		if err := printRow(e.out, buf, r.Start, r.End); err != nil {
			return err
		}
	}
	return nil
}

// lineFlag registers --line, a 1-based line number.
func lineFlag(cmd *cobra.Command, target *int, required bool) {
	cmd.Flags().IntVarP(target, "line", "l", 1, "1-based line to start from")
	if required {
		_ = cmd.MarkFlagRequired("line")
	}
}

// sessionAtLine opens path and selects the 1-based line.
func (e *env) sessionAtLine(path string, line int) (*buffer.Buffer, *session.Session, error) {
	buf, err := e.loadBuffer(path)
	if err != nil {
		return nil, nil, err
	}
	if n := selectableLines(buf); line < 1 || line > n {
		return nil, nil, fmt.Errorf("line %d outside 1..%d", line, n)
	}
	s, err := e.newSession(buf)
	if err != nil {
		return nil, nil, err
	}
	if err := s.SelectLine(line - 1); err != nil {
		return nil, nil, err
	}
	return buf, s, nil
}

// selectableLines counts the lines line mode enumerates: the empty line
// after a final newline is not one of them.
func selectableLines(buf *buffer.Buffer) int {
	n := buf.LenLines()
	if length, err := buf.LineLen(n - 1); err == nil && length == 0 {
		n--
	}
	return n
}

func (e *env) printSelection(buf *buffer.Buffer, s *session.Session) error {
	sel := s.Selection()
	return printRow(e.out, buf, sel.Start(), sel.End())
}

func newUpCmd(e *env) *cobra.Command {
	var line int
	cmd := &cobra.Command{
		Use:   "up FILE",
		Short: "Select the line enclosing --line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runMove(cmd, args[0], line, selectmode.Up)
		},
	}
	lineFlag(cmd, &line, true)
	return cmd
}

func newMoveCmd(e *env) *cobra.Command {
	var (
		line int
		dir  string
	)
	cmd := &cobra.Command{
		Use:   "move FILE",
		Short: "Move the selection from --line in direction --dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := selectmode.ParseDirection(dir)
			if !ok {
				return fmt.Errorf("unknown direction %q", dir)
			}
			return e.runMove(cmd, args[0], line, d)
		},
	}
	lineFlag(cmd, &line, false)
	cmd.Flags().StringVarP(&dir, "dir", "d", "next",
		"direction: current, up, down, left, right, first, last, next, previous")
	return cmd
}

func (e *env) runMove(cmd *cobra.Command, path string, line int, dir selectmode.Direction) error {
	buf, s, err := e.sessionAtLine(path, line)
	if err != nil {
		return err
	}
	moved, err := s.Move(cmd.Context(), dir)
	if err != nil {
		return err
	}
	if !moved {
		_, err := fmt.Fprintln(e.out, noMovement)
		return err
	}
	return e.printSelection(buf, s)
}

func newWalkCmd(e *env) *cobra.Command {
	var line int
	cmd := &cobra.Command{
		Use:   "walk FILE",
		Short: "Repeat up from --line until there is nowhere further to go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, s, err := e.sessionAtLine(args[0], line)
			if err != nil {
				return err
			}
			if err := e.printSelection(buf, s); err != nil {
				return err
			}
			for {
				moved, err := s.Move(cmd.Context(), selectmode.Up)
				if err != nil {
					return err
				}
				if !moved {
					return nil
				}
				if err := e.printSelection(buf, s); err != nil {
					return err
				}
			}
		},
	}
	lineFlag(cmd, &line, true)
	return cmd
}

func newParentsCmd(e *env) *cobra.Command {
	var line int
	cmd := &cobra.Command{
		Use:   "parents FILE",
		Short: "Print the lines that enclose --line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := e.loadBuffer(args[0])
			if err != nil {
				return err
			}
			if n := selectableLines(buf); line < 1 || line > n {
				return fmt.Errorf("line %d outside 1..%d", line, n)
			}
			parents, err := buf.ParentLines(line - 1)
			if err != nil {
				return err
			}
			if len(parents) == 0 {
				_, err := fmt.Fprintln(e.out, "top level")
				return err
			}
			for _, pl := range parents {
				text, err := buf.LineText(pl.Line)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(e.out, "L%-4d depth %d %-7s %s\n",
					pl.Line+1, pl.Depth, pl.Kind, strings.TrimSpace(text)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	lineFlag(cmd, &line, true)
	return cmd
}

func newWatchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Print regions again each time FILE changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			w, err := watcher.New(watcher.Config{
				Path:     path,
				Debounce: e.cfg.Watch.Debounce,
				Logger:   e.logger,
			})
			if err != nil {
				return err
			}
			defer w.Close()

			refresh := func(header string) error {
				if _, err := fmt.Fprintln(e.out, header); err != nil {
					return err
				}
				buf, err := e.loadBuffer(path)
				if err != nil {
					e.logger.ErrorErr("reload failed", err)
					return nil
				}
				return e.printRegions(cmd, buf)
			}

			if err := refresh("== " + path); err != nil {
				return err
			}

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					header := fmt.Sprintf("== %s %s %s", path, ev.Op, ev.Time.Format(time.TimeOnly))
					if err := refresh(header); err != nil {
						return err
					}
				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					e.logger.ErrorErr("watch", err)
				}
			}
		},
	}
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(e.out, "strata %s\n", cmd.Root().Version)
			return err
		},
	}
}
