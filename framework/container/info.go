package container

import (
	"reflect"
	"slices"
)

// SlotInfo is a read-only snapshot of one slot's declaration and state.
type SlotInfo struct {
	Key           string   `json:"key"`
	Name          string   `json:"name,omitempty"`
	Type          string   `json:"type"`
	Provides      []string `json:"provides"`
	Params        []string `json:"params"`
	Requirements  []string `json:"requirements"`
	PostConstruct bool     `json:"post_construct"`
	PreDestroy    bool     `json:"pre_destroy"`
	Release       bool     `json:"release"`
	Instantiated  bool     `json:"instantiated"`
}

func (r *record) info() SlotInfo {
	provides := make([]string, 0, len(r.capabilities))
	for _, c := range r.capabilities {
		provides = append(provides, typeName(c.target))
	}
	reqs := make([]string, 0, len(r.requirements))
	for _, q := range r.requirements {
		reqs = append(reqs, q.String())
	}
	return SlotInfo{
		Key:           r.key.String(),
		Name:          r.key.name,
		Type:          typeName(r.key.tag),
		Provides:      provides,
		Params:        r.factory.describe(),
		Requirements:  reqs,
		PostConstruct: r.postHook != nil,
		PreDestroy:    r.preHook != nil,
		Release:       r.release != nil,
		Instantiated:  r.instantiated,
	}
}

// Slots returns a snapshot of every slot in declaration order.
func (c *Context) Slots() []SlotInfo {
	out := make([]SlotInfo, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.info())
	}
	return out
}

// Lookup returns a snapshot of every slot matching key. An exact lookup only
// considers each slot's own type; otherwise declared capabilities count too.
//
//	ctx.Lookup(container.TypeOf[EngineIf](), false) // Engine, via Provides
//	ctx.Lookup(container.TypeOf[EngineIf](), true)  // none
func (c *Context) Lookup(key Key, exact bool) []SlotInfo {
	matches := c.match(key, exact)
	out := make([]SlotInfo, 0, len(matches))
	for _, r := range matches {
		out = append(out, r.info())
	}
	return out
}

// LookupType is Lookup for a rendered type name, as found in SlotInfo.Type
// and SlotInfo.Provides. The name is resolved against the types the context
// knows; every type rendering to it is looked up.
//
//	ctx.LookupType("garage.EngineIf", false)
func (c *Context) LookupType(name string, exact bool) []SlotInfo {
	var keys []Key
	for _, r := range c.records {
		for _, t := range append([]reflect.Type{r.key.tag}, r.provides()...) {
			k := Key{tag: t}
			if typeName(t) == name && !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}

	out := []SlotInfo{}
	for _, r := range c.records {
		for _, k := range keys {
			if r.satisfies(k, exact) {
				out = append(out, r.info())
				break
			}
		}
	}
	return out
}
