// Package inspect serves a read-only JSON view of a wiring context.
//
//	GET {prefix}/phase          context id, phase and slot count
//	GET {prefix}/slots          every slot; ?provides=T&exact=true&instantiated=true filter
//	GET {prefix}/slots/{name}   the slots declared under name
//	GET {prefix}/routes         the routes of the router the handler is registered on
package inspect

import (
	"net/http"

	"github.com/km-arc/go-wiring/framework/container"
	gohttp "github.com/km-arc/go-wiring/framework/http"
	"github.com/km-arc/go-wiring/framework/routing"
)

// Source is what the handler reads. *container.Context implements it.
type Source interface {
	ID() string
	Phase() container.Phase
	Slots() []container.SlotInfo
	LookupType(name string, exact bool) []container.SlotInfo
}

// Handler serves the inspection endpoints for one Source.
type Handler struct {
	src    Source
	router *routing.Router
}

// New returns a handler reading src.
func New(src Source) *Handler {
	return &Handler{src: src}
}

// Register mounts the endpoints on r under prefix.
//
//	inspect.New(ctx).Register(router, "/_container")
func (h *Handler) Register(r *routing.Router, prefix string) {
	h.router = r
	r.Prefix(prefix, func(sub *routing.Router) {
		sub.Get("/phase", h.Phase)
		sub.Get("/slots", h.Slots)
		sub.Get("/slots/{name}", h.Slot)
		sub.Get("/routes", h.Routes)
	})
}

// PhaseView is the body of GET /phase.
type PhaseView struct {
	ID    string `json:"id"`
	Phase string `json:"phase"`
	Slots int    `json:"slots"`
}

// Phase serves the lifecycle state.
func (h *Handler) Phase(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(PhaseView{
		ID:    h.src.ID(),
		Phase: h.src.Phase().String(),
		Slots: len(h.src.Slots()),
	})
}

// Slots serves every slot, optionally filtered by capability and state.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	provides := req.Query("provides")
	exact := req.QueryBool("exact", false)
	onlyLive := req.QueryBool("instantiated", false)

	slots := h.src.Slots()
	if provides != "" {
		slots = h.src.LookupType(provides, exact)
	}
	out := []container.SlotInfo{}
	for _, s := range slots {
		if onlyLive && !s.Instantiated {
			continue
		}
		out = append(out, s)
	}
	gohttp.NewResponse(w).Success(out)
}

// Slot serves the slots declared under the {name} route parameter.
func (h *Handler) Slot(w http.ResponseWriter, r *http.Request) {
	name := gohttp.NewRequest(r).RouteParam("name")
	res := gohttp.NewResponse(w)

	var out []container.SlotInfo
	for _, s := range h.src.Slots() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		res.NotFound("No slot named " + name + ".")
		return
	}
	res.Success(out)
}

// Routes serves the routes of the router the handler was registered on.
func (h *Handler) Routes(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	if h.router == nil {
		res.ServiceUnavailable("Handler is not registered on a router.")
		return
	}
	res.Success(h.router.Routes())
}
