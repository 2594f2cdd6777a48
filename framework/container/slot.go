package container

import (
	"errors"
	"fmt"
	"reflect"
)

// record is one managed object: its declaration plus the concrete value
// built for it during Start. The Context owns every record.
type record struct {
	key          Key
	factory      factory
	capabilities []capability
	requirements []*requirement
	postHook     func(any) error
	preHook      func(any) error
	release      func(any) error

	obj          any
	instantiated bool
}

func (r *record) String() string { return r.key.String() }

// provides lists the capability tags r was declared with, own type excluded.
func (r *record) provides() []reflect.Type {
	out := make([]reflect.Type, 0, len(r.capabilities))
	for _, c := range r.capabilities {
		out = append(out, c.target)
	}
	return out
}

func (r *record) satisfies(k Key, exact bool) bool {
	return k.matches(r.key, r.provides(), exact)
}

// instantiate builds the concrete value. It is called at most once between
// two resets.
func (r *record) instantiate(c *Context) error {
	var obj any
	err := guard(func() error {
		var err error
		obj, err = r.factory.build(c)
		return err
	})
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			if cerr.Slot == "" {
				cerr.Slot = r.String()
			}
			return cerr
		}
		return &Error{Kind: ErrConstruction, Slot: r.String(), Err: err}
	}
	if isNil(obj) {
		return &Error{Kind: ErrConstruction, Slot: r.String(), Err: fmt.Errorf("factory returned nil")}
	}
	r.obj = obj
	r.instantiated = true
	return nil
}

// reset runs the release function, if any, and drops the concrete value.
// The value is dropped even when release fails.
func (r *record) reset() error {
	if !r.instantiated {
		return nil
	}
	obj := r.obj
	r.obj = nil
	r.instantiated = false
	if r.release == nil {
		return nil
	}
	return guard(func() error { return r.release(obj) })
}

func (r *record) runPostConstruct() error {
	if r.postHook == nil || !r.instantiated {
		return nil
	}
	return guard(func() error { return r.postHook(r.obj) })
}

func (r *record) runPreDestroy() error {
	if r.preHook == nil || !r.instantiated {
		return nil
	}
	return guard(func() error { return r.preHook(r.obj) })
}

// ── Slot ─────────────────────────────────────────────────────────────────────

// Slot is the typed declaration handle returned by Has and HasNamed. Its
// methods, and the package functions taking a *Slot, chain:
//
//	car := container.Has(ctx, container.Constructor(NewCar)).
//	    PostConstruct((*Car).Start).
//	    PreDestroy((*Car).Park)
//	container.Requires(car, (*Car).SetEngine)
type Slot[T any] struct {
	ctx *Context
	rec *record
}

// Has declares an unnamed slot built by f.
//
//	// Laravel-style: $app->singleton(Engine::class)
//	engine := container.Has(ctx, container.Constructor(NewEngine))
func Has[T any](c *Context, f Factory[T]) *Slot[T] {
	return HasNamed(c, "", f)
}

// HasNamed declares a slot named name built by f.
//
//	container.HasNamed(ctx, "front-left", container.Constructor(NewWheel))
func HasNamed[T any](c *Context, name string, f Factory[T]) *Slot[T] {
	rec := &record{key: Named[T](name), factory: f}
	c.records = append(c.records, rec)
	c.report(LevelDebug, "container: declared slot %s", rec)
	return &Slot[T]{ctx: c, rec: rec}
}

// Key returns the slot's own key.
func (s *Slot[T]) Key() Key { return s.rec.key }

// Get returns the concrete value while the slot is instantiated. The value is
// borrowed: it stays valid until the next Stop, Clear or failed Start.
func (s *Slot[T]) Get() (T, bool) {
	var zero T
	if !s.rec.instantiated {
		return zero, false
	}
	v, ok := s.rec.obj.(T)
	return v, ok
}

// Instantiated reports whether the slot currently holds a concrete value.
func (s *Slot[T]) Instantiated() bool { return s.rec.instantiated }

// PostConstruct registers the hook run after every slot has been wired.
// Registering a second one panics with ErrDuplicateLifecycleHook.
func (s *Slot[T]) PostConstruct(hook func(T) error) *Slot[T] {
	if s.rec.postHook != nil {
		s.ctx.declarationPanic(&Error{Kind: ErrDuplicateLifecycleHook, Slot: s.rec.String(),
			Err: fmt.Errorf("post-construct hook already registered")})
	}
	s.rec.postHook = func(obj any) error { return hook(obj.(T)) }
	return s
}

// PreDestroy registers the hook run when the context stops. Registering a
// second one panics with ErrDuplicateLifecycleHook.
func (s *Slot[T]) PreDestroy(hook func(T) error) *Slot[T] {
	if s.rec.preHook != nil {
		s.ctx.declarationPanic(&Error{Kind: ErrDuplicateLifecycleHook, Slot: s.rec.String(),
			Err: fmt.Errorf("pre-destroy hook already registered")})
	}
	s.rec.preHook = func(obj any) error { return hook(obj.(T)) }
	return s
}

// Release registers the function run when the concrete value is dropped,
// whether by Stop or by the rollback of a failed Start. A later call
// replaces an earlier one.
//
//	container.Has(ctx, container.FactoryOf(OpenPool, container.Const(dsn))).
//	    Release((*Pool).Close)
func (s *Slot[T]) Release(fn func(T) error) *Slot[T] {
	s.rec.release = func(obj any) error { return fn(obj.(T)) }
	return s
}

func (s *Slot[T]) addCapability(target reflect.Type, convert func(any) (any, bool)) {
	if target == s.rec.key.tag {
		s.ctx.declarationPanic(&Error{Kind: ErrRedundantCapability, Slot: s.rec.String(),
			Err: fmt.Errorf("every slot provides its own type %s", typeName(target))})
	}
	for _, c := range s.rec.capabilities {
		if c.target == target {
			s.ctx.declarationPanic(&Error{Kind: ErrRedundantCapability, Slot: s.rec.String(),
				Err: fmt.Errorf("%s already declared", typeName(target))})
		}
	}
	s.rec.capabilities = append(s.rec.capabilities, capability{target: target, convert: convert})
}
