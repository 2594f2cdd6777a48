package garage

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/km-arc/go-wiring/framework/app"
	"github.com/km-arc/go-wiring/framework/config"
	"github.com/km-arc/go-wiring/framework/container"
	"github.com/km-arc/go-wiring/framework/routing"
	"github.com/km-arc/go-wiring/framework/validation"
)

// Blueprint is the YAML composition of a garage.
//
//	plate: ZX-81
//	engine:
//	  horsepower: 300
//	wheels:
//	  - name: front-left
//	    pressure: 2.2
type Blueprint struct {
	Plate  string           `yaml:"plate"`
	Engine EngineBlueprint  `yaml:"engine"`
	Wheels []WheelBlueprint `yaml:"wheels"`
}

type EngineBlueprint struct {
	Horsepower int `yaml:"horsepower"`
}

type WheelBlueprint struct {
	Name     string  `yaml:"name"`
	Pressure float64 `yaml:"pressure"`
}

// DefaultBlueprint returns a four-wheeled 150 hp car.
func DefaultBlueprint() Blueprint {
	return Blueprint{
		Plate:  "GO-0001",
		Engine: EngineBlueprint{Horsepower: 150},
		Wheels: []WheelBlueprint{
			{Name: "front-left", Pressure: 2.2},
			{Name: "front-right", Pressure: 2.2},
			{Name: "rear-left", Pressure: 2.0},
			{Name: "rear-right", Pressure: 2.0},
		},
	}
}

// LoadBlueprint reads a Blueprint from a YAML file on top of DefaultBlueprint.
func LoadBlueprint(path string) (Blueprint, error) {
	blueprint := DefaultBlueprint()
	if err := config.LoadYAML(path, &blueprint); err != nil {
		return Blueprint{}, err
	}
	if err := blueprint.Validate(); err != nil {
		return Blueprint{}, fmt.Errorf("invalid garage blueprint %s: %w", path, err)
	}
	return blueprint, nil
}

// Validate checks the plate, the engine and that every wheel has a unique,
// non-empty name.
func (b Blueprint) Validate() error {
	v := validation.Make(map[string]string{
		"plate":      b.Plate,
		"horsepower": strconv.Itoa(b.Engine.Horsepower),
	}, validation.Rules{
		"plate":      "required|alpha_dash|max:16",
		"horsepower": "integer|gte:0",
	})
	if v.Fails() {
		return v.Errors()
	}

	seen := make(map[string]bool, len(b.Wheels))
	for i, w := range b.Wheels {
		if w.Name == "" {
			return fmt.Errorf("wheel %d has no name", i)
		}
		if seen[w.Name] {
			return fmt.Errorf("wheel %q declared twice", w.Name)
		}
		seen[w.Name] = true
	}
	return nil
}

// ── ServiceProvider ──────────────────────────────────────────────────────────

// ServiceProvider declares the garage slots and serves GET /garage/car.
//
// Slots:
//   - *Engine, provided as EngineIf
//   - one *Wheel per blueprint wheel, named after it, provided as WheelIf
//   - *Car, requiring EngineIf, every WheelIf, the plate and *zap.Logger
type ServiceProvider struct {
	container.BaseProvider
	Blueprint Blueprint
}

// NewServiceProvider loads the blueprint at path, or uses DefaultBlueprint
// when path is empty.
func NewServiceProvider(path string) (*ServiceProvider, error) {
	if path == "" {
		return &ServiceProvider{Blueprint: DefaultBlueprint()}, nil
	}
	blueprint, err := LoadBlueprint(path)
	if err != nil {
		return nil, err
	}
	return &ServiceProvider{Blueprint: blueprint}, nil
}

func (p *ServiceProvider) Register(ctx *container.Context) error {
	if err := p.Blueprint.Validate(); err != nil {
		return err
	}

	hp := p.Blueprint.Engine.Horsepower
	engine := container.Has(ctx, container.Constructor(func() *Engine { return NewEngine(hp) }))
	container.Provides[EngineIf](engine)

	for _, w := range p.Blueprint.Wheels {
		w := w
		wheel := container.HasNamed(ctx, w.Name, container.Constructor(func() *Wheel {
			return NewWheel(w.Name, w.Pressure)
		}))
		container.Provides[WheelIf](wheel)
	}

	car := container.Has(ctx, container.Constructor(NewCar)).
		PostConstruct((*Car).Start).
		PreDestroy((*Car).Park)
	container.Requires(car, (*Car).SetEngine)
	container.RequiresAll(car, (*Car).SetWheels)
	container.RequiresConst(car, p.Blueprint.Plate, (*Car).SetPlate)
	container.Requires(car, (*Car).SetLogger)
	return nil
}

// Boot mounts the garage routes.
func (p *ServiceProvider) Boot(ctx *container.Context) error {
	c := &controller{ctx: ctx}
	app.RouterOf(ctx).Prefix("/garage", func(r *routing.Router) {
		r.Get("/car", c.showCar)
		r.Get("/wheels/{name}", c.showWheel)
	})
	return nil
}

// ── Controller ───────────────────────────────────────────────────────────────

type controller struct {
	app.Controller
	ctx *container.Context
}

func (c *controller) showCar(w http.ResponseWriter, r *http.Request) {
	res := c.Response(w)
	car, ok := container.Get[*Car](c.ctx)
	if !ok {
		res.ServiceUnavailable("The garage is closed.")
		return
	}
	res.Success(car.View())
}

func (c *controller) showWheel(w http.ResponseWriter, r *http.Request) {
	name := c.Request(r).RouteParam("name")
	res := c.Response(w)
	wheel, ok := container.Get[WheelIf](c.ctx, name)
	if !ok {
		res.NotFound("No wheel named " + name + ".")
		return
	}
	res.Success(map[string]any{"position": wheel.Position(), "pressure": wheel.Pressure()})
}
