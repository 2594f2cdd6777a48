package container

import (
	"fmt"
	"reflect"
)

// capability is a declared edge "the slot's concrete value also satisfies
// target", together with the conversion into target's view.
type capability struct {
	target  reflect.Type
	convert func(concrete any) (any, bool)
}

// Provides declares that the slot's value can be requested as K. The
// conversion is a plain type assertion performed when the value is handed
// out.
//
//	engine := container.Has(ctx, container.Constructor(NewEngine))
//	container.Provides[EngineIf](engine)
//
// Every slot implicitly provides its own type; declaring it again panics
// with ErrRedundantCapability, as does declaring the same K twice. A K that
// no value of T can be asserted to panics with ErrIncompatibleCapability.
func Provides[K, T any](s *Slot[T]) *Slot[T] {
	target, own := reflect.TypeOf((*K)(nil)).Elem(), reflect.TypeOf((*T)(nil)).Elem()
	if !assertable(own, target) {
		s.ctx.declarationPanic(&Error{Kind: ErrIncompatibleCapability, Slot: s.rec.String(),
			Err: fmt.Errorf("%s does not implement %s", typeName(own), typeName(target))})
	}
	s.addCapability(target, func(concrete any) (any, bool) {
		v, ok := concrete.(T)
		if !ok {
			return nil, false
		}
		k, ok := any(v).(K)
		return k, ok
	})
	return s
}

// assertable reports whether a value of static type from can hold a dynamic
// value of type to. Only an interface-typed slot defers the answer to the
// concrete value.
func assertable(from, to reflect.Type) bool {
	if from.AssignableTo(to) {
		return true
	}
	if from.Kind() != reflect.Interface {
		return false
	}
	return to.Kind() == reflect.Interface || to.Implements(from)
}

// ProvidesVia declares that the slot's value can be requested as K using an
// explicit converter. A converter returning a nil view is treated as a
// conversion failure.
//
//	container.ProvidesVia(pool, func(p *Pool) Querier { return p.Primary() })
func ProvidesVia[T, K any](s *Slot[T], convert func(T) K) *Slot[T] {
	s.addCapability(reflect.TypeOf((*K)(nil)).Elem(), func(concrete any) (any, bool) {
		v, ok := concrete.(T)
		if !ok {
			return nil, false
		}
		k := convert(v)
		if isNil(k) {
			return nil, false
		}
		return k, true
	})
	return s
}

// convertTo returns the view of r's concrete value as target.
func (r *record) convertTo(target reflect.Type) (view any, err error) {
	if !r.instantiated {
		return nil, &Error{Kind: ErrConversion, Slot: r.String(),
			Err: fmt.Errorf("slot is not instantiated")}
	}
	if target == r.key.tag {
		return r.obj, nil
	}
	for _, c := range r.capabilities {
		if c.target != target {
			continue
		}
		var ok bool
		if perr := guard(func() error {
			view, ok = c.convert(r.obj)
			return nil
		}); perr != nil {
			return nil, &Error{Kind: ErrConversion, Slot: r.String(), Err: perr}
		}
		if !ok {
			return nil, &Error{Kind: ErrConversion, Slot: r.String(),
				Err: fmt.Errorf("%T does not convert to %s", r.obj, typeName(target))}
		}
		return view, nil
	}
	return nil, &Error{Kind: ErrConversion, Slot: r.String(),
		Err: fmt.Errorf("no capability declared for %s", typeName(target))}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
