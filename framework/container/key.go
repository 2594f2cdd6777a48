package container

import "reflect"

// ── Key ──────────────────────────────────────────────────────────────────────

// Key identifies a capability: a type tag plus an optional instance name.
//
// The type tag is only ever compared for identity. The container never walks
// a type's method set to decide that one type satisfies another; that
// relationship has to be declared with Provides or ProvidesVia.
//
//	container.TypeOf[EngineIf]()            // any EngineIf
//	container.Named[EngineIf]("v8")         // the EngineIf slot named "v8"
type Key struct {
	tag  reflect.Type
	name string
}

// TypeOf returns the unnamed key for T.
func TypeOf[T any]() Key {
	return Key{tag: reflect.TypeOf((*T)(nil)).Elem()}
}

// Named returns the key for T scoped to name.
func Named[T any](name string) Key {
	return Key{tag: reflect.TypeOf((*T)(nil)).Elem(), name: name}
}

// Named returns a copy of k scoped to name. An empty name removes the scope.
func (k Key) Named(name string) Key {
	return Key{tag: k.tag, name: name}
}

// Type returns the type tag.
func (k Key) Type() reflect.Type { return k.tag }

// Name returns the instance name, or "" for an unnamed key.
func (k Key) Name() string { return k.name }

// HasName reports whether k is scoped to an instance name.
func (k Key) HasName() bool { return k.name != "" }

// IsZero reports whether k carries no type tag.
func (k Key) IsZero() bool { return k.tag == nil }

// Equal reports whether both keys carry the same tag and the same name.
func (k Key) Equal(other Key) bool {
	return k.tag == other.tag && k.name == other.name
}

// String renders the key as "name:Type", or just "Type" when unnamed.
func (k Key) String() string {
	if k.name == "" {
		return typeName(k.tag)
	}
	return k.name + ":" + typeName(k.tag)
}

// matches reports whether a slot declared under own, providing the given
// capability tags, can be handed out for a lookup of k.
//
// A name-scoped lookup only matches slots carrying exactly that name. A
// name-less lookup matches named and unnamed slots alike.
func (k Key) matches(own Key, provides []reflect.Type, exact bool) bool {
	if k.name != "" && own.name != k.name {
		return false
	}
	if own.tag == k.tag {
		return true
	}
	if exact {
		return false
	}
	for _, t := range provides {
		if t == k.tag {
			return true
		}
	}
	return false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
