// Package container is the wiring engine of the framework: an IoC container
// in which callers declare slots, the dependencies of each slot and the
// capabilities each slot offers, then let the Context build, wire and tear
// down the whole object graph.
//
// # Declaring slots
//
//	ctx := container.New()
//
//	// Laravel: $app->singleton(Engine::class)
//	engine := container.Has(ctx, container.Constructor(NewEngine))
//	container.Provides[EngineIf](engine)
//
//	// Constructor injection: the factory runs once Ref[EngineIf] is ready.
//	container.Has(ctx, container.FactoryOf(func(a container.Args) (*Dash, error) {
//	    return NewDash(container.Arg[EngineIf](a, 0)), nil
//	}, container.Ref[EngineIf]()))
//
//	// Setter injection plus lifecycle hooks.
//	car := container.Has(ctx, container.Constructor(NewCar)).
//	    PostConstruct((*Car).Start).
//	    PreDestroy((*Car).Park)
//	container.Requires(car, (*Car).SetEngine)
//	container.RequiresAll(car, (*Car).SetWheels)
//
// A slot only satisfies its own type and the capabilities declared with
// Provides or ProvidesVia. The container never infers that a type
// implements an interface.
//
// # Lifecycle
//
//  1. Start: instantiate every slot (repeated passes until nothing is left
//     or no progress is made), wire every requirement, run post-construct
//     hooks. Any failure resets what was built and leaves the context
//     Stopped.
//  2. Get / GetAll: read wired values while Started.
//  3. Stop: run pre-destroy hooks, then reset every slot, both in
//     declaration order.
//  4. Clear: Stop and forget every declaration.
//
// # Errors
//
// Every failure is an *Error wrapping one of the Err* kinds:
//
//	if err := ctx.Start(); errors.Is(err, container.ErrUnsatisfiedRequirement) {
//	    ...
//	}
//
// Declaration mistakes, such as a second PostConstruct hook on one slot,
// panic with an *Error at the declaring call, like registering the same
// pattern twice on an http.ServeMux.
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(ctx)
//	registry.Register(&GarageProvider{})
//	registry.Boot()     // ctx.Start, then every provider's Boot
//	registry.Shutdown() // ctx.Stop
package container
