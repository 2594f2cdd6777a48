package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-wiring/framework/container"
)

// ── Phases ───────────────────────────────────────────────────────────────────

func TestContext_Phases(t *testing.T) {
	ctx := container.New(container.WithID("test-ctx"))
	assert.Equal(t, "test-ctx", ctx.ID())
	assert.Equal(t, container.PhaseInitial, ctx.Phase())
	assert.True(t, ctx.IsStopped(), "a fresh context counts as stopped")
	assert.False(t, ctx.IsStarted())

	container.Has(ctx, container.Constructor(NewEngine))
	require.NoError(t, ctx.Start())
	assert.Equal(t, container.PhaseStarted, ctx.Phase())
	assert.True(t, ctx.IsStarted())
	assert.False(t, ctx.IsStopped())

	require.NoError(t, ctx.Stop())
	assert.Equal(t, container.PhaseStopped, ctx.Phase())
	assert.Equal(t, "stopped", ctx.Phase().String())

	ctx.Clear()
	assert.Equal(t, container.PhaseInitial, ctx.Phase())
	assert.Zero(t, ctx.Len())
}

func TestContext_GeneratesID(t *testing.T) {
	a, b := container.New(), container.New()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestContext_DoubleStartKeepsWiring(t *testing.T) {
	sink := &recorder{}
	ctx := container.New(container.WithSink(sink))
	container.Provides[EngineIf](container.Has(ctx, container.Constructor(NewEngine)))
	container.Requires(container.Has(ctx, container.Constructor(NewCar)).PostConstruct((*Car).Start), (*Car).SetEngine)
	require.NoError(t, ctx.Start())
	car := container.MustGet[*Car](ctx)
	engine := container.MustGet[*Engine](ctx)

	err := ctx.Start()

	require.ErrorIs(t, err, container.ErrDoubleStart)
	assert.True(t, ctx.IsStarted())
	assert.Same(t, car, container.MustGet[*Car](ctx))
	assert.Same(t, engine, car.engine)
	assert.Equal(t, 1, car.started)
	assert.Len(t, sink.at(container.LevelError), 1)
}

func TestContext_Restart(t *testing.T) {
	ctx := container.New()
	builds := 0
	container.Has(ctx, container.Constructor(func() *Engine { builds++; return NewEngine() }))

	require.NoError(t, ctx.Start())
	first := container.MustGet[*Engine](ctx)
	require.NoError(t, ctx.Stop())

	_, ok := container.Get[*Engine](ctx)
	assert.False(t, ok, "values are dropped on stop")

	require.NoError(t, ctx.Start())
	second := container.MustGet[*Engine](ctx)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, builds)
}

func TestContext_DeclarationWhileStarted(t *testing.T) {
	ctx := container.New()
	container.Has(ctx, container.Constructor(NewEngine))
	require.NoError(t, ctx.Start())

	wheel := container.Has(ctx, container.Constructor(newWheel("spare")))
	assert.False(t, wheel.Instantiated(), "takes effect on the next start")

	require.NoError(t, ctx.Stop())
	require.NoError(t, ctx.Start())
	w, ok := wheel.Get()
	require.True(t, ok)
	assert.Equal(t, "spare", w.Position())
}

func TestContext_StopBeforeStart(t *testing.T) {
	ctx := container.New()
	parks := 0
	container.Has(ctx, container.Constructor(NewCar)).PreDestroy(func(*Car) error { parks++; return nil })

	require.NoError(t, ctx.Stop())
	assert.Equal(t, container.PhaseStopped, ctx.Phase())
	assert.Zero(t, parks, "nothing instantiated, no hook")
}

// ── Instantiation order ──────────────────────────────────────────────────────

type nodeA struct{ b *nodeB }
type nodeB struct{ a *nodeA }

func TestContext_ConstructorCycle(t *testing.T) {
	ctx := container.New()
	calls := 0
	container.Has(ctx, container.FactoryOf(func(a container.Args) (*nodeA, error) {
		calls++
		return &nodeA{b: container.Arg[*nodeB](a, 0)}, nil
	}, container.Ref[*nodeB]()))
	container.Has(ctx, container.FactoryOf(func(a container.Args) (*nodeB, error) {
		calls++
		return &nodeB{a: container.Arg[*nodeA](a, 0)}, nil
	}, container.Ref[*nodeA]()))
	container.Has(ctx, container.Constructor(NewEngine))

	err := ctx.Start()

	require.ErrorIs(t, err, container.ErrUnresolvableInstantiationOrder)
	cerr := asContainerError(t, err)
	assert.Equal(t, "*container_test.nodeA", cerr.Slot, "names the first stuck slot")
	assert.Zero(t, calls)
	assert.True(t, ctx.IsStopped())
	for _, s := range ctx.Slots() {
		assert.False(t, s.Instantiated, s.Key)
	}
}

func TestContext_MissingConstructorDependency(t *testing.T) {
	ctx := container.New()
	container.Has(ctx, container.FactoryOf(func(a container.Args) (*Dash, error) {
		return &Dash{}, nil
	}, container.Ref[EngineIf]()))

	err := ctx.Start()

	require.ErrorIs(t, err, container.ErrUnresolvableInstantiationOrder)
	assert.Contains(t, err.Error(), "ref container_test.EngineIf")
}

func TestContext_ChainDeclaredBackwards(t *testing.T) {
	ctx := container.New()
	var order []string
	container.Has(ctx, container.FactoryOf(func(container.Args) (*Car, error) {
		order = append(order, "car")
		return NewCar(), nil
	}, container.Ref[*Dash]()))
	container.Has(ctx, container.FactoryOf(func(container.Args) (*Dash, error) {
		order = append(order, "dash")
		return &Dash{}, nil
	}, container.Ref[*Engine]()))
	container.Has(ctx, container.Constructor(func() *Engine {
		order = append(order, "engine")
		return NewEngine()
	}))

	require.NoError(t, ctx.Start())
	assert.Equal(t, []string{"engine", "dash", "car"}, order)
}

// ── Rollback ─────────────────────────────────────────────────────────────────

func TestContext_RollbackReleasesWithoutPreDestroy(t *testing.T) {
	ctx := container.New()
	released, destroyed := 0, 0
	container.Has(ctx, container.Constructor(NewEngine)).
		PreDestroy(func(*Engine) error { destroyed++; return nil }).
		Release(func(*Engine) error { released++; return nil })
	container.Has(ctx, container.Constructor(NewCar)).
		PostConstruct(func(*Car) error { return errors.New("stalled") })

	err := ctx.Start()

	require.ErrorIs(t, err, container.ErrPostConstruct)
	cerr := asContainerError(t, err)
	assert.Equal(t, "*container_test.Car", cerr.Slot)
	assert.Equal(t, container.StagePostConstruct, cerr.Stage)
	assert.Equal(t, 1, released)
	assert.Zero(t, destroyed)
	assert.True(t, ctx.IsStopped())
	_, ok := container.Get[*Engine](ctx)
	assert.False(t, ok)
}

func TestContext_RollbackCollectsTeardownErrors(t *testing.T) {
	sink := &recorder{}
	ctx := container.New(container.WithSink(sink))
	leak := errors.New("leak")
	container.Has(ctx, container.Constructor(NewEngine)).
		Release(func(*Engine) error { return leak })
	wheelReleased := false
	container.Has(ctx, container.Constructor(newWheel("front"))).
		Release(func(*Wheel) error { wheelReleased = true; return nil })
	container.Requires(container.Has(ctx, container.Constructor(NewCar)), (*Car).SetEngine)

	err := ctx.Start()

	require.ErrorIs(t, err, container.ErrUnsatisfiedRequirement)
	assert.ErrorIs(t, err, container.ErrTeardown)
	assert.ErrorIs(t, err, leak)
	cerr := asContainerError(t, err)
	require.Len(t, cerr.Teardown, 1)
	assert.True(t, wheelReleased, "a failing reset does not abort the rollback")
	assert.Len(t, sink.at(container.LevelError), 2, "one report per structured error")
}

// ── Stop ─────────────────────────────────────────────────────────────────────

func TestContext_StopRunsEveryPreDestroy(t *testing.T) {
	ctx := container.New()
	var order []string
	hook := func(name string, err error) func(*Wheel) error {
		return func(*Wheel) error {
			order = append(order, name)
			return err
		}
	}
	container.HasNamed(ctx, "a", container.Constructor(newWheel("a"))).PreDestroy(hook("a", errors.New("flat")))
	container.HasNamed(ctx, "b", container.Constructor(newWheel("b"))).PreDestroy(func(*Wheel) error { panic("bent") })
	container.HasNamed(ctx, "c", container.Constructor(newWheel("c"))).PreDestroy(hook("c", nil))
	container.HasNamed(ctx, "d", container.Constructor(newWheel("d"))).
		PreDestroy(hook("d", nil)).
		Release(func(*Wheel) error { return errors.New("stuck") })
	require.NoError(t, ctx.Start())

	err := ctx.Stop()

	require.ErrorIs(t, err, container.ErrTeardown)
	assert.Equal(t, []string{"a", "c", "d"}, order, "registration order, nothing skipped")
	assert.True(t, ctx.IsStopped())
	assert.Empty(t, container.GetAll[*Wheel](ctx))

	var joined interface{ Unwrap() []error }
	require.ErrorAs(t, err, &joined)
	assert.Len(t, joined.Unwrap(), 3)
}

func TestContext_StopIsRepeatable(t *testing.T) {
	ctx := container.New()
	car := container.Has(ctx, container.Constructor(NewCar)).PreDestroy((*Car).Park)
	require.NoError(t, ctx.Start())
	c, _ := car.Get()

	require.NoError(t, ctx.Stop())
	require.NoError(t, ctx.Stop())
	assert.Equal(t, 1, c.parked)
}

func TestContext_ClearSwallowsTeardown(t *testing.T) {
	ctx := container.New()
	container.Has(ctx, container.Constructor(NewCar)).PreDestroy(func(*Car) error { return errors.New("no brakes") })
	require.NoError(t, ctx.Start())

	assert.NotPanics(t, ctx.Clear)
	assert.Zero(t, ctx.Len())
	assert.Empty(t, ctx.Slots())
}

// ── Hooks ────────────────────────────────────────────────────────────────────

func TestSlot_DuplicateHooks(t *testing.T) {
	ctx := container.New()
	car := container.Has(ctx, container.Constructor(NewCar)).
		PostConstruct((*Car).Start).
		PreDestroy((*Car).Park)

	err := declarationError(t, func() { car.PostConstruct((*Car).Start) })
	assert.ErrorIs(t, err, container.ErrDuplicateLifecycleHook)

	err = declarationError(t, func() { car.PreDestroy((*Car).Park) })
	assert.ErrorIs(t, err, container.ErrDuplicateLifecycleHook)
	assert.Equal(t, "*container_test.Car", err.Slot)
}

// ── Retrieval ────────────────────────────────────────────────────────────────

func TestGet(t *testing.T) {
	ctx := container.New()
	container.Provides[WheelIf](container.HasNamed(ctx, "left", container.Constructor(newWheel("left"))))
	container.Provides[WheelIf](container.HasNamed(ctx, "right", container.Constructor(newWheel("right"))))

	_, ok := container.Get[WheelIf](ctx, "left")
	assert.False(t, ok, "nothing before start")

	require.NoError(t, ctx.Start())

	left, ok := container.Get[WheelIf](ctx, "left")
	require.True(t, ok)
	assert.Equal(t, "left", left.Position())

	_, ok = container.Get[WheelIf](ctx)
	assert.False(t, ok, "two matches is not found")

	_, ok = container.Get[*Car](ctx)
	assert.False(t, ok, "no match is not found")

	assert.Len(t, container.GetAll[WheelIf](ctx), 2)
	assert.Panics(t, func() { container.MustGet[*Car](ctx) })
}
