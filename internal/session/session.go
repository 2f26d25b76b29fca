// Package session holds the navigation state of one buffer: its active
// selection mode and its current selection.
package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dshills/strata/internal/engine/selection"
	"github.com/dshills/strata/internal/log"
	"github.com/dshills/strata/internal/selectmode"
	"github.com/dshills/strata/internal/tracing"
)

// ErrSelectionOutOfRange is returned when a selection falls outside the buffer.
var ErrSelectionOutOfRange = errors.New("selection out of range")

// Session is the navigation state of one buffer.
// All methods are safe for concurrent use; navigation is serialised.
type Session struct {
	mu sync.Mutex

	id       string
	buf      selectmode.Buffer
	registry *selectmode.Registry
	mode     selectmode.Mode
	sel      selection.Selection
	dir      selection.CursorDirection
	ctx      selectmode.Context

	logger *log.Logger
	tracer trace.Tracer
}

// Option configures a Session.
type Option func(*options)

type options struct {
	registry *selectmode.Registry
	mode     string
	dir      selection.CursorDirection
	wrap     bool
	logger   *log.Logger
	tracer   trace.Tracer
}

// WithRegistry sets the registry modes are looked up in.
func WithRegistry(r *selectmode.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithMode sets the initial mode by name.
func WithMode(name string) Option {
	return func(o *options) {
		o.mode = name
	}
}

// WithCursorDirection sets which end of the selection the cursor is on.
func WithCursorDirection(d selection.CursorDirection) Option {
	return func(o *options) {
		o.dir = d
	}
}

// WithWrap makes next and previous wrap around the buffer.
func WithWrap(wrap bool) Option {
	return func(o *options) {
		o.wrap = wrap
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTracer sets the tracer used for navigation spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// New creates a session over buf. The initial selection is the first
// region of the active mode, or a cursor at offset 0 in an empty buffer.
func New(buf selectmode.Buffer, opts ...Option) (*Session, error) {
	o := options{mode: "line"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = selectmode.DefaultRegistry()
	}
	if o.logger == nil {
		o.logger = log.Null()
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("noop")
	}

	mode, err := o.registry.Lookup(o.mode)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		id:       id,
		buf:      buf,
		registry: o.registry,
		mode:     mode,
		sel:      selection.NewCursorSelection(0),
		dir:      o.dir,
		ctx:      selectmode.Context{Wrap: o.wrap},
		logger:   o.logger.WithComponent("session").WithField("session", id[:8]),
		tracer:   o.tracer,
	}

	first, ok, err := selectmode.Move(mode, s.params(), selectmode.First)
	if err != nil {
		return nil, fmt.Errorf("initial selection: %w", err)
	}
	if ok {
		s.sel = first
	}
	return s, nil
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the active mode.
func (s *Session) Mode() selectmode.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the active mode. The selection is kept.
func (s *Session) SetMode(name string) error {
	m, err := s.registry.Lookup(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.logger.Debug("mode set to %s", m.Name())
	return nil
}

// Selection returns the current selection.
func (s *Session) Selection() selection.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Select replaces the selection with anchor..head.
func (s *Session) Select(anchor, head int) error {
	n := s.buf.Len()
	if anchor < 0 || head < 0 || anchor > n || head > n {
		return fmt.Errorf("%d..%d of %d: %w", anchor, head, n, ErrSelectionOutOfRange)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = selection.NewSelection(anchor, head)
	return nil
}

// SelectLine selects line including its newline.
func (s *Session) SelectLine(line int) error {
	start, err := s.buf.LineToByte(line)
	if err != nil {
		return err
	}
	length, err := s.buf.LineLen(line)
	if err != nil {
		return err
	}
	return s.Select(start, start+length)
}

// SetExtending starts or ends an extension gesture on the current selection.
func (s *Session) SetExtending(extending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if extending {
		s.sel = s.sel.Extend()
	} else {
		s.sel = s.sel.StopExtending()
	}
}

// Move navigates in dir with the active mode. When there is nowhere to go
// the selection is left unchanged and moved is false.
func (s *Session) Move(ctx context.Context, dir selectmode.Direction) (moved bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, span := s.tracer.Start(ctx, "session.move", trace.WithAttributes(
		attribute.String(tracing.AttrSessionID, s.id),
		attribute.String(tracing.AttrModeName, s.mode.Name()),
		attribute.String(tracing.AttrMoveDirection, dir.String()),
	))
	defer func() {
		span.SetAttributes(attribute.Bool(tracing.AttrMoveMoved, moved))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	next, ok, err := selectmode.Move(s.mode, s.params(), dir)
	if err != nil {
		s.logger.ErrorErr("move "+dir.String(), err)
		return false, fmt.Errorf("%s %s: %w", s.mode.Name(), dir, err)
	}
	if !ok {
		s.logger.Debug("no movement %s from %s", dir, s.sel)
		return false, nil
	}

	s.logger.Debug("%s: %s -> %s", dir, s.sel, next)
	s.sel = next
	return true, nil
}

// Regions returns the regions of the mode active at the time of the call.
// The buffer is read as the sequence is consumed; a buffer failure is
// yielded as the final element.
func (s *Session) Regions(ctx context.Context) iter.Seq2[selectmode.Region, error] {
	s.mu.Lock()
	mode, params := s.mode, s.params()
	s.mu.Unlock()

	return func(yield func(selectmode.Region, error) bool) {
		_, span := s.tracer.Start(ctx, "session.regions", trace.WithAttributes(
			attribute.String(tracing.AttrSessionID, s.id),
			attribute.String(tracing.AttrModeName, mode.Name()),
			attribute.Int(tracing.AttrBufferLines, params.Buffer.LenLines()),
		))
		defer span.End()

		for r, err := range mode.Iter(params) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				yield(selectmode.Region{}, fmt.Errorf("%s regions: %w", mode.Name(), err))
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// params must be called with s.mu held.
func (s *Session) params() selectmode.Params {
	return selectmode.Params{
		Buffer:          s.buf,
		Current:         s.sel,
		CursorDirection: s.dir,
		Context:         s.ctx,
	}
}
