package container

import (
	"fmt"
	"strings"
)

// ── Parameter sources ────────────────────────────────────────────────────────

// Param is one constructor-injection input of a Factory.
//
// Ready reports whether the value can be produced right now; Resolve produces
// it. The instantiation phase only calls Resolve after Ready returned true.
type Param interface {
	Ready(c *Context) bool
	Resolve(c *Context) (any, error)
	String() string
}

// Ref returns a parameter resolved from another slot declared under T (or
// providing T), optionally scoped to an instance name.
//
//	container.FactoryOf(NewCar, container.Ref[EngineIf]())
//	container.FactoryOf(NewCar, container.Ref[EngineIf]("v8"))
func Ref[T any](name ...string) Param {
	k := TypeOf[T]()
	if len(name) > 0 {
		k = k.Named(name[0])
	}
	return RefKey(k)
}

// RefKey returns a parameter resolved from the slot matching key.
func RefKey(key Key) Param {
	return reference{key: key}
}

// Const returns a parameter that always resolves to v.
//
//	container.FactoryOf(NewPool, container.Const(8), container.Const("primary"))
func Const(v any) Param {
	return constant{value: v}
}

type reference struct {
	key Key
}

// Ready is true once every slot matching the key is instantiated. A key
// nobody provides never becomes ready, which the instantiation phase reports
// as an unresolvable order.
func (r reference) Ready(c *Context) bool {
	matches := c.match(r.key, false)
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if !m.instantiated {
			return false
		}
	}
	return true
}

func (r reference) Resolve(c *Context) (any, error) {
	matches := c.match(r.key, false)
	switch len(matches) {
	case 0:
		return nil, &Error{Kind: ErrUnsatisfiedRequirement, Requirement: r.String()}
	case 1:
		return matches[0].convertTo(r.key.tag)
	default:
		return nil, &Error{Kind: ErrAmbiguousRequirement, Requirement: r.String(),
			Err: candidates(matches)}
	}
}

func (r reference) String() string { return "ref " + r.key.String() }

type constant struct {
	value any
}

func (constant) Ready(*Context) bool             { return true }
func (k constant) Resolve(*Context) (any, error) { return k.value, nil }
func (k constant) String() string                { return fmt.Sprintf("const %T", k.value) }

func candidates(recs []*record) error {
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.String())
	}
	return fmt.Errorf("%d candidates [%s]", len(recs), strings.Join(names, ", "))
}
