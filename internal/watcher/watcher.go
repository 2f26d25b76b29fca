// Package watcher reports changes to a single file.
//
// The file's directory is watched rather than the file itself so that
// editors which save by writing a temporary file and renaming it over the
// original keep being observed. Bursts of events are coalesced.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/strata/internal/log"
)

// Errors returned by the watcher.
var (
	ErrPathNotExist = errors.New("path does not exist")
	ErrIsDirectory  = errors.New("path is a directory")
)

// Op is a set of file operations.
type Op uint8

const (
	OpWrite Op = 1 << iota
	OpCreate
	OpRemove
	OpRename
)

// Has reports whether o includes every bit of other.
func (o Op) Has(other Op) bool {
	return o&other == other
}

// String returns the operations joined by "|".
func (o Op) String() string {
	var parts []string
	for _, p := range []struct {
		op   Op
		name string
	}{
		{OpWrite, "WRITE"},
		{OpCreate, "CREATE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
	} {
		if o.Has(p.op) {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

func fromFSNotify(op fsnotify.Op) Op {
	var o Op
	if op.Has(fsnotify.Write) {
		o |= OpWrite
	}
	if op.Has(fsnotify.Create) {
		o |= OpCreate
	}
	if op.Has(fsnotify.Remove) {
		o |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		o |= OpRename
	}
	return o
}

// Event is a coalesced change to the watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Config holds watcher options.
type Config struct {
	Path string
	// Debounce is how long the file must stay quiet before an event is sent.
	Debounce time.Duration
	// BufferSize is the capacity of the event channel.
	BufferSize int
	Logger     *log.Logger
}

// DefaultConfig returns the default options for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		Debounce:   100 * time.Millisecond,
		BufferSize: 16,
	}
}

// Watcher watches one file.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *log.Logger

	events chan Event
	errors chan error

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New starts watching cfg.Path.
func New(cfg Config) (*Watcher, error) {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", abs, ErrPathNotExist)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrIsDirectory)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig("").Debounce
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig("").BufferSize
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Null()
	}

	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		debounce: cfg.Debounce,
		logger:   cfg.Logger.WithComponent("watcher").WithField("path", abs),
		events:   make(chan Event, cfg.BufferSize),
		errors:   make(chan error, cfg.BufferSize),
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	w.logger.Debug("watching")
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the channel of coalesced changes. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Op
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			op := fromFSNotify(ev.Op)
			if op == 0 {
				continue
			}
			pending |= op

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			ev := Event{Path: w.path, Op: pending, Time: time.Now()}
			pending = 0

			w.logger.Debug("changed: %s", ev.Op)
			select {
			case w.events <- ev:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.ErrorErr("watch error", err)
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}
