package container

import "fmt"

// ── Factory ──────────────────────────────────────────────────────────────────

// Args holds the resolved parameter values handed to a factory, in the order
// the parameters were declared.
type Args []any

// Arg returns args[i] as T, or T's zero value if the index is out of range or
// the value has another type.
func Arg[T any](args Args, i int) T {
	var zero T
	if i < 0 || i >= len(args) {
		return zero
	}
	v, ok := args[i].(T)
	if !ok {
		return zero
	}
	return v
}

// Factory is the creation recipe of a slot: an ordered list of parameter
// sources plus the function building the value from their resolved values.
type Factory[T any] struct {
	params []Param
	create func(Args) (T, error)
}

// Constructor returns a factory without parameters.
//
//	container.Has(ctx, container.Constructor(NewEngine))
func Constructor[T any](ctor func() T) Factory[T] {
	return Factory[T]{create: func(Args) (T, error) { return ctor(), nil }}
}

// FactoryOf returns a factory calling create with the resolved params.
//
//	container.FactoryOf(func(a container.Args) (*Car, error) {
//	    return NewCar(container.Arg[EngineIf](a, 0), container.Arg[int](a, 1)), nil
//	}, container.Ref[EngineIf](), container.Const(4))
func FactoryOf[T any](create func(Args) (T, error), params ...Param) Factory[T] {
	return Factory[T]{params: params, create: create}
}

// Params returns the declared parameter sources.
func (f Factory[T]) Params() []Param { return f.params }

// Ready reports whether every parameter source can be resolved.
func (f Factory[T]) Ready(c *Context) bool {
	for _, p := range f.params {
		if !p.Ready(c) {
			return false
		}
	}
	return true
}

// Create resolves every parameter in order and builds the value.
func (f Factory[T]) Create(c *Context) (T, error) {
	var zero T
	if f.create == nil {
		return zero, fmt.Errorf("factory has no create function")
	}
	args := make(Args, len(f.params))
	for i, p := range f.params {
		v, err := p.Resolve(c)
		if err != nil {
			return zero, err
		}
		args[i] = v
	}
	return f.create(args)
}

func (f Factory[T]) ready(c *Context) bool { return f.Ready(c) }

func (f Factory[T]) build(c *Context) (any, error) {
	v, err := f.Create(c)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (f Factory[T]) describe() []string {
	out := make([]string, 0, len(f.params))
	for _, p := range f.params {
		out = append(out, p.String())
	}
	return out
}

// factory is the untyped view a record keeps of its Factory.
type factory interface {
	ready(c *Context) bool
	build(c *Context) (any, error)
	describe() []string
}
