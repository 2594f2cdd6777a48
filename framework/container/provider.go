package container

import (
	"errors"
	"fmt"
)

// ── ServiceProvider interface ────────────────────────────────────────────────

// ServiceProvider groups the declarations of one concern, the way Laravel's
// Illuminate\Support\ServiceProvider does.
//
// Register declares slots, capabilities and requirements. Boot runs after
// the Context has started, so every slot can be read with Get.
//
//	type GarageProvider struct{ container.BaseProvider }
//
//	func (p *GarageProvider) Register(ctx *container.Context) error {
//	    engine := container.Has(ctx, container.Constructor(NewEngine))
//	    container.Provides[EngineIf](engine)
//	    return nil
//	}
type ServiceProvider interface {
	Register(ctx *Context) error
	Boot(ctx *Context) error
}

// ── BaseProvider ─────────────────────────────────────────────────────────────

// BaseProvider is embeddable and supplies a no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Context) error { return nil }

// ── ProviderRegistry ─────────────────────────────────────────────────────────

// ProviderRegistry registers providers against one Context and drives its
// lifecycle: Boot starts the Context then boots every provider, Shutdown
// stops it.
type ProviderRegistry struct {
	ctx        *Context
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to ctx.
func NewProviderRegistry(ctx *Context) *ProviderRegistry {
	return &ProviderRegistry{
		ctx:        ctx,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register calls provider.Register once. Registering the same provider
// again is a no-op. A declaration error panicked inside provider.Register is
// returned as the *Error it carries; slots the provider declared before it
// stay declared.
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	err := guard(func() error { return provider.Register(r.ctx) })
	var perr *PanicError
	if errors.As(err, &perr) {
		if cerr, ok := perr.Value.(*Error); ok {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)
	return nil
}

// Boot starts the Context and calls Boot on every provider in registration
// order. A provider failing to boot stops the Context again.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	if err := r.ctx.Start(); err != nil {
		return err
	}
	for _, p := range r.providers {
		if err := p.Boot(r.ctx); err != nil {
			berr := fmt.Errorf("boot %T: %w", p, err)
			return errors.Join(berr, r.ctx.Stop())
		}
	}
	r.booted = true
	return nil
}

// Shutdown stops the Context. The registry can be booted again afterwards.
func (r *ProviderRegistry) Shutdown() error {
	r.booted = false
	return r.ctx.Stop()
}

// Booted reports whether Boot succeeded and Shutdown has not been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }

// Context returns the Context the registry drives.
func (r *ProviderRegistry) Context() *Context { return r.ctx }
