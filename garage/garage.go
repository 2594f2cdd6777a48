// Package garage is the demonstration domain wired by the container: an
// engine, a set of named wheels and a car that needs both.
package garage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// EngineIf is the capability a car drives.
type EngineIf interface {
	Power() int
	Ignite() error
	Off()
	Running() bool
}

// WheelIf is the capability a car rolls on.
type WheelIf interface {
	Position() string
	Pressure() float64
}

// ── Engine ───────────────────────────────────────────────────────────────────

type Engine struct {
	horsepower int
	running    bool
}

func NewEngine(horsepower int) *Engine { return &Engine{horsepower: horsepower} }

func (e *Engine) Power() int    { return e.horsepower }
func (e *Engine) Running() bool { return e.running }
func (e *Engine) Off()          { e.running = false }

func (e *Engine) Ignite() error {
	if e.horsepower <= 0 {
		return fmt.Errorf("engine has no power (%d hp)", e.horsepower)
	}
	e.running = true
	return nil
}

// ── Wheel ────────────────────────────────────────────────────────────────────

type Wheel struct {
	position string
	pressure float64
}

func NewWheel(position string, pressure float64) *Wheel {
	return &Wheel{position: position, pressure: pressure}
}

func (w *Wheel) Position() string  { return w.position }
func (w *Wheel) Pressure() float64 { return w.pressure }

// ── Car ──────────────────────────────────────────────────────────────────────

// Car gets everything through setters; Start runs once the container has
// wired it.
type Car struct {
	engine  EngineIf
	wheels  []WheelIf
	plate   string
	logger  *zap.Logger
	started bool
}

func NewCar() *Car { return &Car{logger: zap.NewNop()} }

func (c *Car) SetEngine(e EngineIf)    { c.engine = e }
func (c *Car) SetWheels(w []WheelIf)   { c.wheels = w }
func (c *Car) SetPlate(plate string)   { c.plate = plate }
func (c *Car) SetLogger(l *zap.Logger) { c.logger = l.Named("car") }
func (c *Car) Engine() EngineIf        { return c.engine }
func (c *Car) Wheels() []WheelIf       { return c.wheels }
func (c *Car) Plate() string           { return c.plate }
func (c *Car) Started() bool           { return c.started }

// Start ignites the engine. A car needs at least one wheel.
func (c *Car) Start() error {
	if c.engine == nil {
		return errors.New("car has no engine")
	}
	if len(c.wheels) == 0 {
		return errors.New("car has no wheels")
	}
	if err := c.engine.Ignite(); err != nil {
		return fmt.Errorf("start %s: %w", c.plate, err)
	}
	c.started = true
	c.logger.Info("car started",
		zap.String("plate", c.plate),
		zap.Int("horsepower", c.engine.Power()),
		zap.Int("wheels", len(c.wheels)))
	return nil
}

// Park switches the engine off.
func (c *Car) Park() error {
	if !c.started {
		return nil
	}
	c.engine.Off()
	c.started = false
	c.logger.Info("car parked", zap.String("plate", c.plate))
	return nil
}

// View is the JSON rendering of a car.
type View struct {
	Plate      string   `json:"plate"`
	Horsepower int      `json:"horsepower"`
	Running    bool     `json:"running"`
	Wheels     []string `json:"wheels"`
}

// View renders the car.
func (c *Car) View() View {
	v := View{Plate: c.plate, Running: c.started, Wheels: make([]string, 0, len(c.wheels))}
	if c.engine != nil {
		v.Horsepower = c.engine.Power()
	}
	for _, w := range c.wheels {
		v.Wheels = append(v.Wheels, w.Position())
	}
	return v
}
