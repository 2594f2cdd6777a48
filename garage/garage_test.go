package garage_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-wiring/framework/container"
	"github.com/km-arc/go-wiring/framework/providers"
	"github.com/km-arc/go-wiring/garage"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func boot(t *testing.T, blueprint garage.Blueprint) (*container.Context, *container.ProviderRegistry) {
	t.Helper()
	ctx := container.New()
	reg := container.NewProviderRegistry(ctx)
	require.NoError(t, reg.Register(&providers.LoggingServiceProvider{Logger: zap.NewNop()}))
	require.NoError(t, reg.Register(&providers.RoutingServiceProvider{}))
	require.NoError(t, reg.Register(&garage.ServiceProvider{Blueprint: blueprint}))
	require.NoError(t, reg.Boot())
	return ctx, reg
}

// ── Blueprint ────────────────────────────────────────────────────────────────

func TestLoadBlueprint(t *testing.T) {
	blueprint, err := garage.LoadBlueprint("testdata/roadster.yaml")
	require.NoError(t, err)

	assert.Equal(t, "RD-2000", blueprint.Plate)
	assert.Equal(t, 420, blueprint.Engine.Horsepower)
	require.Len(t, blueprint.Wheels, 3)
	assert.Equal(t, garage.WheelBlueprint{Name: "rear-left", Pressure: 2.1}, blueprint.Wheels[1])
}

func TestLoadBlueprint_Invalid(t *testing.T) {
	_, err := garage.LoadBlueprint("testdata/twin.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `wheel "front" declared twice`)

	_, err = garage.LoadBlueprint("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestNewServiceProvider_Default(t *testing.T) {
	p, err := garage.NewServiceProvider("")
	require.NoError(t, err)
	assert.Equal(t, garage.DefaultBlueprint(), p.Blueprint)
}

// ── Wiring ───────────────────────────────────────────────────────────────────

func TestGarage_Wiring(t *testing.T) {
	ctx, reg := boot(t, garage.DefaultBlueprint())

	car, ok := container.Get[*garage.Car](ctx)
	require.True(t, ok)
	assert.True(t, car.Started())
	assert.Equal(t, "GO-0001", car.Plate())

	engine, ok := container.Get[*garage.Engine](ctx)
	require.True(t, ok)
	assert.Same(t, engine, car.Engine())
	assert.True(t, engine.Running())

	positions := make([]string, 0, 4)
	for _, w := range car.Wheels() {
		positions = append(positions, w.Position())
	}
	assert.Equal(t, []string{"front-left", "front-right", "rear-left", "rear-right"}, positions)

	rear, ok := container.Get[garage.WheelIf](ctx, "rear-left")
	require.True(t, ok)
	assert.Equal(t, 2.0, rear.Pressure())

	require.NoError(t, reg.Shutdown())
	assert.False(t, engine.Running(), "pre-destroy parked the car")
	assert.False(t, car.Started())
}

func TestGarage_NoWheels(t *testing.T) {
	blueprint := garage.DefaultBlueprint()
	blueprint.Wheels = nil

	ctx := container.New()
	reg := container.NewProviderRegistry(ctx)
	require.NoError(t, reg.Register(&providers.LoggingServiceProvider{Logger: zap.NewNop()}))
	require.NoError(t, reg.Register(&garage.ServiceProvider{Blueprint: blueprint}))

	err := reg.Boot()

	require.ErrorIs(t, err, container.ErrPostConstruct)
	assert.Contains(t, err.Error(), "car has no wheels")
	assert.True(t, ctx.IsStopped())
}

func TestGarage_NeedsLogger(t *testing.T) {
	ctx := container.New()
	reg := container.NewProviderRegistry(ctx)
	require.NoError(t, reg.Register(&garage.ServiceProvider{Blueprint: garage.DefaultBlueprint()}))

	err := reg.Boot()

	require.ErrorIs(t, err, container.ErrUnsatisfiedRequirement)
	assert.Contains(t, err.Error(), "requires *zap.Logger")
}

func TestGarage_InvalidBlueprintRejectedOnRegister(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	err := reg.Register(&garage.ServiceProvider{Blueprint: garage.Blueprint{}})
	assert.ErrorContains(t, err, "The plate field is required.")
}

// ── HTTP ─────────────────────────────────────────────────────────────────────

func TestGarage_Routes(t *testing.T) {
	ctx, _ := boot(t, garage.DefaultBlueprint())
	handler := container.MustGet[http.Handler](ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/garage/car", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data garage.View `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, garage.View{
		Plate:      "GO-0001",
		Horsepower: 150,
		Running:    true,
		Wheels:     []string{"front-left", "front-right", "rear-left", "rear-right"},
	}, body.Data)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/garage/wheels/front-right", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/garage/wheels/spare", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ── Car ──────────────────────────────────────────────────────────────────────

func TestCar_StartWithoutEngine(t *testing.T) {
	car := garage.NewCar()
	assert.EqualError(t, car.Start(), "car has no engine")
	assert.NoError(t, car.Park(), "parking a stopped car is a no-op")
}

func TestCar_EngineWithoutPower(t *testing.T) {
	car := garage.NewCar()
	car.SetEngine(garage.NewEngine(0))
	car.SetWheels([]garage.WheelIf{garage.NewWheel("front", 2)})
	car.SetPlate("ZERO")

	err := car.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start ZERO: engine has no power")
	assert.False(t, car.Started())
}
