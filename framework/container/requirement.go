package container

import "fmt"

// Cardinality is the number of slots a requirement binds to.
type Cardinality int

const (
	// Single requires exactly one matching slot.
	Single Cardinality = iota
	// All collects every matching slot, zero included.
	All
	// Constant injects a value fixed at declaration time.
	Constant
)

func (c Cardinality) String() string {
	switch c {
	case Single:
		return "single"
	case All:
		return "all"
	case Constant:
		return "constant"
	}
	return fmt.Sprintf("cardinality(%d)", int(c))
}

// requirement is a setter-injection edge from a consumer slot to a key.
type requirement struct {
	consumer    *record
	key         Key
	cardinality Cardinality
	value       any
	inject      func(consumer any, views []any)
}

// ── Declaration ──────────────────────────────────────────────────────────────

// Requires declares that the slot needs exactly one D, injected through set
// during wiring. Method expressions make natural setters:
//
//	car := container.Has(ctx, container.Constructor(NewCar))
//	container.Requires(car, (*Car).SetEngine)
func Requires[T, D any](s *Slot[T], set func(T, D)) *Slot[T] {
	return RequiresNamed(s, "", set)
}

// RequiresNamed is Requires scoped to the slot named name.
//
//	container.RequiresNamed(car, "v8", (*Car).SetEngine)
func RequiresNamed[T, D any](s *Slot[T], name string, set func(T, D)) *Slot[T] {
	s.addRequirement(Named[D](name), Single, nil, func(consumer any, views []any) {
		set(consumer.(T), views[0].(D))
	})
	return s
}

// RequiresAll declares that the slot collects every D, injected once with
// the whole collection in declaration order. No match injects an empty
// slice.
//
//	container.RequiresAll(car, (*Car).SetWheels)
func RequiresAll[T, D any](s *Slot[T], set func(T, []D)) *Slot[T] {
	return RequiresAllNamed(s, "", set)
}

// RequiresAllNamed is RequiresAll restricted to slots named name.
func RequiresAllNamed[T, D any](s *Slot[T], name string, set func(T, []D)) *Slot[T] {
	s.addRequirement(Named[D](name), All, nil, func(consumer any, views []any) {
		out := make([]D, 0, len(views))
		for _, v := range views {
			out = append(out, v.(D))
		}
		set(consumer.(T), out)
	})
	return s
}

// RequiresConst declares that value is injected through set during wiring.
//
//	container.RequiresConst(car, "ZX-81", (*Car).SetPlate)
func RequiresConst[T, V any](s *Slot[T], value V, set func(T, V)) *Slot[T] {
	s.addRequirement(TypeOf[V](), Constant, value, func(consumer any, views []any) {
		set(consumer.(T), views[0].(V))
	})
	return s
}

func (s *Slot[T]) addRequirement(key Key, card Cardinality, value any, inject func(any, []any)) {
	req := &requirement{consumer: s.rec, key: key, cardinality: card, value: value, inject: inject}
	s.rec.requirements = append(s.rec.requirements, req)
	s.ctx.report(LevelDebug, "container: declared requirement %s", req)
}

// ── Resolution ───────────────────────────────────────────────────────────────

// resolve matches the requirement against every slot of c and injects the
// result into the consumer.
func (q *requirement) resolve(c *Context) error {
	var views []any
	switch q.cardinality {
	case Constant:
		views = []any{q.value}
	case Single:
		matches := c.match(q.key, false)
		switch len(matches) {
		case 0:
			return q.fail(ErrUnsatisfiedRequirement, nil)
		case 1:
		default:
			return q.fail(ErrAmbiguousRequirement, candidates(matches))
		}
		view, err := matches[0].convertTo(q.key.tag)
		if err != nil {
			return q.conversionFailed(err)
		}
		views = []any{view}
	case All:
		matches := c.match(q.key, false)
		views = make([]any, 0, len(matches))
		for _, m := range matches {
			view, err := m.convertTo(q.key.tag)
			if err != nil {
				return q.conversionFailed(err)
			}
			views = append(views, view)
		}
	}

	if err := guard(func() error {
		q.inject(q.consumer.obj, views)
		return nil
	}); err != nil {
		return q.fail(ErrInjection, err)
	}
	return nil
}

func (q *requirement) fail(kind, detail error) *Error {
	return &Error{
		Kind:        kind,
		Slot:        q.consumer.String(),
		Requirement: q.String(),
		Stage:       StageWiring,
		Err:         detail,
	}
}

func (q *requirement) conversionFailed(err error) *Error {
	cerr, ok := err.(*Error)
	if !ok {
		return q.fail(ErrConversion, err)
	}
	cerr.Requirement = q.String()
	cerr.Stage = StageWiring
	return cerr
}

// String renders the requirement as "(Car requires EngineIf with id v8)".
func (q *requirement) String() string {
	dep := typeName(q.key.tag)
	switch q.cardinality {
	case All:
		dep = "all " + dep
	case Constant:
		return fmt.Sprintf("(%s requires constant %s)", q.consumer.key.String(), dep)
	}
	if q.key.name == "" {
		return fmt.Sprintf("(%s requires %s)", q.consumer.key.String(), dep)
	}
	return fmt.Sprintf("(%s requires %s with id %s)", q.consumer.key.String(), dep, q.key.name)
}
