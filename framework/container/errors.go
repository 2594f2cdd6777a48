package container

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every *Error returned or panicked by the container wraps
// exactly one of them, so callers branch with errors.Is:
//
//	if errors.Is(err, container.ErrAmbiguousRequirement) { ... }
var (
	ErrDoubleStart                    = errors.New("context already started")
	ErrUnresolvableInstantiationOrder = errors.New("unresolvable instantiation order")
	ErrUnsatisfiedRequirement         = errors.New("unsatisfied requirement")
	ErrAmbiguousRequirement           = errors.New("ambiguous requirement")
	ErrDuplicateLifecycleHook         = errors.New("duplicate lifecycle hook registration")
	ErrRedundantCapability            = errors.New("redundant capability declaration")
	ErrIncompatibleCapability         = errors.New("incompatible capability declaration")
	ErrConversion                     = errors.New("capability conversion failed")
	ErrTeardown                       = errors.New("teardown failed")
	ErrConstruction                   = errors.New("construction failed")
	ErrInjection                      = errors.New("injection failed")
	ErrPostConstruct                  = errors.New("post-construct hook failed")
)

// Stage names the lifecycle sub-phase an error was raised in.
type Stage string

const (
	StageDeclaration   Stage = "declaration"
	StageInstantiation Stage = "instantiation"
	StageWiring        Stage = "wiring"
	StagePostConstruct Stage = "post-construct"
	StagePreDestroy    Stage = "pre-destroy"
	StageReset         Stage = "reset"
)

// Error is the structured error of the container.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Slot is the description of the offending slot, if any.
	Slot string
	// Requirement is the description of the unmet requirement, if any.
	Requirement string
	Stage       Stage
	// Err is the underlying detail: a callback's error, a recovered panic,
	// the candidate list of an ambiguous match.
	Err error
	// Teardown collects reset failures raised while rolling back a failed
	// Start. They never replace the triggering error.
	Teardown []error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Stage != "" {
		b.WriteString(string(e.Stage))
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("container error")
	}
	if e.Slot != "" {
		fmt.Fprintf(&b, " [slot %s]", e.Slot)
	}
	if e.Requirement != "" {
		fmt.Fprintf(&b, " %s", e.Requirement)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Teardown) > 0 {
		fmt.Fprintf(&b, " (%d teardown errors during rollback)", len(e.Teardown))
	}
	return b.String()
}

// Unwrap exposes the kind, the detail and every teardown error.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2+len(e.Teardown))
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return append(out, e.Teardown...)
}

// PanicError carries a value recovered from a user callback.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string { return fmt.Sprintf("panic: %v", p.Value) }

// Unwrap returns the panic value when it is itself an error.
func (p *PanicError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// guard runs fn and converts a panic into a *PanicError.
func guard(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v}
		}
	}()
	return fn()
}

// kindOf returns the sentinel carried by err, or nil.
func kindOf(err error) error {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return nil
}
