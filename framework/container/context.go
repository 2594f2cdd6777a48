package container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Phase is the lifecycle state of a Context.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseStarted
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseStarted:
		return "started"
	case PhaseStopped:
		return "stopped"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Context owns every declared slot and drives the lifecycle:
//
//	Initial ──Start──▶ Started ──Stop──▶ Stopped ──Start──▶ Started …
//	   ▲                                    │
//	   └──────────────── Clear ◀────────────┘
//
// A Context is meant to be built and driven by one goroutine, typically the
// composition root at process startup and shutdown. It is not safe for
// concurrent use.
type Context struct {
	id      string
	records []*record
	phase   Phase
	sink    Sink
}

// Option configures a Context.
type Option func(*Context)

// WithSink installs the diagnostics sink.
func WithSink(s Sink) Option {
	return func(c *Context) { c.sink = s }
}

// WithID overrides the generated context identifier.
func WithID(id string) Option {
	return func(c *Context) { c.id = id }
}

// New returns an empty Context in the Initial phase.
func New(opts ...Option) *Context {
	c := &Context{id: uuid.NewString(), phase: PhaseInitial}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the context identifier used in diagnostics.
func (c *Context) ID() string { return c.id }

// Phase returns the current lifecycle phase.
func (c *Context) Phase() Phase { return c.phase }

// IsStarted reports whether the last Start succeeded and no Stop followed.
func (c *Context) IsStarted() bool { return c.phase == PhaseStarted }

// IsStopped reports whether the context is not started. A fresh context
// counts as stopped.
func (c *Context) IsStopped() bool { return c.phase != PhaseStarted }

// Len returns the number of declared slots.
func (c *Context) Len() int { return len(c.records) }

// ── Lifecycle ────────────────────────────────────────────────────────────────

// Start instantiates every slot, wires every requirement and runs every
// post-construct hook. On failure every instantiated slot is reset without
// running its pre-destroy hook, the context ends Stopped, and the returned
// *Error names the offending slot and requirement.
func (c *Context) Start() error {
	if c.phase == PhaseStarted {
		err := &Error{Kind: ErrDoubleStart, Err: fmt.Errorf("context %s", c.id)}
		c.reportError(err)
		return err
	}
	c.report(LevelDebug, "container: starting context %s with %d slots", c.id, len(c.records))

	if err := c.instantiate(); err != nil {
		return c.rollback(err)
	}
	if err := c.wire(); err != nil {
		return c.rollback(err)
	}
	if err := c.postConstruct(); err != nil {
		return c.rollback(err)
	}

	c.phase = PhaseStarted
	c.report(LevelDebug, "container: context %s started", c.id)
	return nil
}

// instantiate runs the fixed-point worklist: every pass builds each slot
// whose factory is ready, until nothing is left or a pass makes no progress.
func (c *Context) instantiate() *Error {
	pending := make([]*record, 0, len(c.records))
	for _, r := range c.records {
		if !r.instantiated {
			pending = append(pending, r)
		}
	}

	for len(pending) > 0 {
		stuck := pending[:0:0]
		for _, r := range pending {
			if !r.factory.ready(c) {
				stuck = append(stuck, r)
				continue
			}
			if err := r.instantiate(c); err != nil {
				return stageError(err, r, StageInstantiation)
			}
		}
		if len(stuck) == len(pending) {
			first := stuck[0]
			return &Error{
				Kind:  ErrUnresolvableInstantiationOrder,
				Slot:  first.String(),
				Stage: StageInstantiation,
				Err: fmt.Errorf("%d slots waiting, first on [%s]",
					len(stuck), strings.Join(first.factory.describe(), ", ")),
			}
		}
		pending = stuck
	}
	return nil
}

func (c *Context) wire() *Error {
	for _, r := range c.records {
		for _, q := range r.requirements {
			if err := q.resolve(c); err != nil {
				return stageError(err, r, StageWiring)
			}
		}
	}
	return nil
}

func (c *Context) postConstruct() *Error {
	for _, r := range c.records {
		if err := r.runPostConstruct(); err != nil {
			return &Error{Kind: ErrPostConstruct, Slot: r.String(), Stage: StagePostConstruct, Err: err}
		}
	}
	return nil
}

// rollback resets every instantiated slot, collecting reset failures on
// cause without stopping, and leaves the context Stopped.
func (c *Context) rollback(cause *Error) error {
	for _, r := range c.records {
		if err := r.reset(); err != nil {
			terr := &Error{Kind: ErrTeardown, Slot: r.String(), Stage: StageReset, Err: err}
			c.reportError(terr)
			cause.Teardown = append(cause.Teardown, terr)
		}
	}
	c.phase = PhaseStopped
	c.reportError(cause)
	return cause
}

// Stop runs the pre-destroy hook of every instantiated slot, then resets
// every slot, both in declaration order. A failing hook or reset does not
// prevent the others; the failures are returned joined, each wrapping
// ErrTeardown. The context ends Stopped in every case.
func (c *Context) Stop() error {
	var errs []error
	for _, r := range c.records {
		if err := r.runPreDestroy(); err != nil {
			terr := &Error{Kind: ErrTeardown, Slot: r.String(), Stage: StagePreDestroy, Err: err}
			c.reportError(terr)
			errs = append(errs, terr)
		}
	}
	for _, r := range c.records {
		if err := r.reset(); err != nil {
			terr := &Error{Kind: ErrTeardown, Slot: r.String(), Stage: StageReset, Err: err}
			c.reportError(terr)
			errs = append(errs, terr)
		}
	}
	c.phase = PhaseStopped
	c.report(LevelDebug, "container: context %s stopped", c.id)
	return errors.Join(errs...)
}

// Clear stops the context, discarding any teardown error, and drops every
// slot. Call Stop first to observe teardown failures.
func (c *Context) Clear() {
	_ = c.Stop()
	c.records = nil
	c.phase = PhaseInitial
}

// ── Lookup ───────────────────────────────────────────────────────────────────

// match returns the slots satisfying key in declaration order.
func (c *Context) match(key Key, exact bool) []*record {
	var out []*record
	for _, r := range c.records {
		if r.satisfies(key, exact) {
			out = append(out, r)
		}
	}
	return out
}

// Get returns the value of the single instantiated slot providing T,
// optionally scoped to a name. It reports false when no slot or more than
// one slot matches.
//
//	car, ok := container.Get[*Car](ctx)
//	engine, ok := container.Get[EngineIf](ctx, "v8")
func Get[T any](c *Context, name ...string) (T, bool) {
	var zero T
	all := instantiated(c.match(lookupKey[T](name), false))
	if len(all) != 1 {
		return zero, false
	}
	v, ok := view[T](c, all[0])
	if !ok {
		return zero, false
	}
	return v, true
}

// GetAll returns the values of every instantiated slot providing T, in
// declaration order.
func GetAll[T any](c *Context, name ...string) []T {
	all := instantiated(c.match(lookupKey[T](name), false))
	out := make([]T, 0, len(all))
	for _, r := range all {
		if v, ok := view[T](c, r); ok {
			out = append(out, v)
		}
	}
	return out
}

// MustGet is Get for composition roots: it panics when the value is absent.
func MustGet[T any](c *Context, name ...string) T {
	v, ok := Get[T](c, name...)
	if !ok {
		panic(fmt.Sprintf("container: no single instantiated slot provides %s", lookupKey[T](name)))
	}
	return v
}

func lookupKey[T any](name []string) Key {
	k := TypeOf[T]()
	if len(name) > 0 {
		k = k.Named(name[0])
	}
	return k
}

func instantiated(recs []*record) []*record {
	out := recs[:0:0]
	for _, r := range recs {
		if r.instantiated {
			out = append(out, r)
		}
	}
	return out
}

func view[T any](c *Context, r *record) (T, bool) {
	var zero T
	v, err := r.convertTo(TypeOf[T]().tag)
	if err != nil {
		c.reportError(err)
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// ── Diagnostics ──────────────────────────────────────────────────────────────

func (c *Context) report(level Level, format string, args ...any) {
	if c.sink == nil {
		return
	}
	c.sink.Report(level, fmt.Sprintf(format, args...))
}

func (c *Context) reportError(err error) {
	if c.sink == nil || err == nil {
		return
	}
	level := LevelError
	if errors.Is(kindOf(err), ErrConversion) {
		level = LevelFatal
	}
	c.sink.Report(level, err.Error())
}

// declarationPanic reports err and panics with it. Declaration mistakes are
// programming errors and surface at the declaring call.
func (c *Context) declarationPanic(err *Error) {
	err.Stage = StageDeclaration
	c.reportError(err)
	panic(err)
}

// stageError attaches slot and stage to err, wrapping non-container errors.
func stageError(err error, r *record, stage Stage) *Error {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return &Error{Kind: ErrConstruction, Slot: r.String(), Stage: stage, Err: err}
	}
	if cerr.Slot == "" {
		cerr.Slot = r.String()
	}
	if cerr.Stage == "" {
		cerr.Stage = stage
	}
	return cerr
}
