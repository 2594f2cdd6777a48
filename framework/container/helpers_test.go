package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-wiring/framework/container"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type EngineIf interface {
	Power() int
}

type Engine struct {
	hp int
}

func NewEngine() *Engine { return &Engine{hp: 300} }

func (e *Engine) Power() int { return e.hp }

func newEngine(hp int) func() *Engine {
	return func() *Engine { return &Engine{hp: hp} }
}

type WheelIf interface {
	Position() string
}

type Wheel struct {
	pos string
}

func (w *Wheel) Position() string { return w.pos }

func newWheel(pos string) func() *Wheel {
	return func() *Wheel { return &Wheel{pos: pos} }
}

type Car struct {
	engine  EngineIf
	wheels  []WheelIf
	plate   string
	started int
	parked  int
}

func NewCar() *Car { return &Car{} }

func (c *Car) SetEngine(e EngineIf)  { c.engine = e }
func (c *Car) SetWheels(w []WheelIf) { c.wheels = w }
func (c *Car) SetPlate(p string)     { c.plate = p }
func (c *Car) Start() error          { c.started++; return nil }
func (c *Car) Park() error           { c.parked++; return nil }

// ── sink ─────────────────────────────────────────────────────────────────────

type entry struct {
	level container.Level
	msg   string
}

type recorder struct {
	entries []entry
}

func (r *recorder) Report(level container.Level, msg string) {
	r.entries = append(r.entries, entry{level, msg})
}

// at returns the messages reported at level.
func (r *recorder) at(level container.Level) []string {
	var out []string
	for _, e := range r.entries {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}

// ── helpers ──────────────────────────────────────────────────────────────────

// declarationError runs fn and returns the *container.Error it panicked with.
func declarationError(t *testing.T, fn func()) (err *container.Error) {
	t.Helper()
	defer func() {
		v := recover()
		require.NotNil(t, v, "expected a panic")
		e, ok := v.(error)
		require.True(t, ok, "panic value %v is not an error", v)
		require.True(t, errors.As(e, &err))
	}()
	fn()
	return nil
}

func asContainerError(t *testing.T, err error) *container.Error {
	t.Helper()
	var cerr *container.Error
	require.ErrorAs(t, err, &cerr)
	return cerr
}
