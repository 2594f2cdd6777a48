package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-wiring/framework/config"
	"github.com/km-arc/go-wiring/framework/container"
	gohttp "github.com/km-arc/go-wiring/framework/http"
	"github.com/km-arc/go-wiring/framework/logging"
	"github.com/km-arc/go-wiring/framework/providers"
	"github.com/km-arc/go-wiring/framework/routing"
)

// Application is the composition root: one wiring Context, the providers
// declaring into it, and the configuration and logger the framework needs
// before the Context starts.
type Application struct {
	Context   *container.Context
	Providers *container.ProviderRegistry
	Config    *config.Config
	Logger    *zap.Logger
}

// New loads the configuration, builds the logger and registers the
// framework providers.
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return NewWith(cfg, logger)
}

// NewWith is New with a ready configuration and logger.
func NewWith(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := container.New(container.WithSink(logging.ZapSink(logger)))
	logger = logger.With(zap.String("context", ctx.ID()))
	registry := container.NewProviderRegistry(ctx)

	a := &Application{
		Context:   ctx,
		Providers: registry,
		Config:    cfg,
		Logger:    logger,
	}

	// Register framework core providers (same order as Laravel)
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: logger},
		&providers.RoutingServiceProvider{},
		&providers.InspectServiceProvider{},
	} {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Start wires the context and boots every provider.
func (a *Application) Start() error {
	if err := a.Providers.Boot(); err != nil {
		return fmt.Errorf("start application: %w", err)
	}
	a.Logger.Info("application started", zap.Int("slots", a.Context.Len()))
	return nil
}

// Stop tears the context down.
func (a *Application) Stop() error {
	err := a.Providers.Shutdown()
	if err != nil {
		a.Logger.Error("application stopped with errors", zap.Error(err))
		return err
	}
	a.Logger.Info("application stopped")
	return nil
}

// Router returns the wired router. It is only available while started.
func (a *Application) Router() (*routing.Router, bool) {
	return container.Get[*routing.Router](a.Context)
}

// RouterOf returns the router wired into ctx. Providers call it from Boot
// to add routes; it panics when ctx is not started.
//
//	func (p *GarageProvider) Boot(ctx *container.Context) error {
//	    app.RouterOf(ctx).Get("/garage/car", p.showCar)
//	    return nil
//	}
func RouterOf(ctx *container.Context) *routing.Router {
	return container.MustGet[*routing.Router](ctx)
}

// Run starts the application, serves HTTP on APP_PORT until ctx is done
// or the server fails, then drains the server and stops the application.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.Config.App.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener. When in-flight requests outlive
// ShutdownTimeout, Serve returns the shutdown error without stopping the
// application.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if !a.Providers.Booted() {
		if err := a.Start(); err != nil {
			_ = ln.Close()
			return err
		}
	}
	handler, ok := container.Get[http.Handler](a.Context)
	if !ok {
		_ = ln.Close()
		return errors.Join(errors.New("no single http.Handler slot"), a.Stop())
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	a.Logger.Info("http server listening",
		zap.String("app", a.Config.App.Name),
		zap.String("addr", ln.Addr().String()),
		zap.String("env", a.Config.App.Env))

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.Config.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Handlers may still read slots; the context stays started until
		// they are gone and the caller calls Stop.
		_ = srv.Close()
		a.Logger.Warn("http server did not drain, context left started", zap.Error(err))
		return errors.Join(runErr, fmt.Errorf("shutdown: %w", err))
	}
	return errors.Join(runErr, a.Stop())
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
