package providers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-wiring/framework/config"
	"github.com/km-arc/go-wiring/framework/container"
	"github.com/km-arc/go-wiring/framework/inspect"
	"github.com/km-arc/go-wiring/framework/logging"
	"github.com/km-arc/go-wiring/framework/routing"
)

// ── ConfigServiceProvider ────────────────────────────────────────────────────

// ConfigServiceProvider declares the application configuration.
//
// Slots:
//   - *config.Config, also provided as config.LogConfig and config.AppConfig
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	// Config is used as is when set; otherwise it is loaded from EnvFiles.
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(ctx *container.Context) error {
	cfg, envFiles := p.Config, p.EnvFiles
	slot := container.Has(ctx, container.Constructor(func() *config.Config {
		if cfg != nil {
			return cfg
		}
		return config.Load(envFiles...)
	}))
	container.ProvidesVia(slot, func(c *config.Config) config.LogConfig { return c.Log })
	container.ProvidesVia(slot, func(c *config.Config) config.AppConfig { return c.App })
	return nil
}

// ── LoggingServiceProvider ───────────────────────────────────────────────────

// LoggingServiceProvider declares the zap logger.
//
// Slots:
//   - *zap.Logger, built from config.LogConfig unless Logger is set
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(ctx *container.Context) error {
	var slot *container.Slot[*zap.Logger]
	if p.Logger != nil {
		logger := p.Logger
		slot = container.Has(ctx, container.Constructor(func() *zap.Logger { return logger }))
	} else {
		slot = container.Has(ctx, container.FactoryOf(func(a container.Args) (*zap.Logger, error) {
			return logging.New(container.Arg[config.LogConfig](a, 0))
		}, container.Ref[config.LogConfig]()))
	}
	// Sync fails on terminals; nothing to do about it at shutdown.
	slot.PreDestroy(func(l *zap.Logger) error {
		_ = l.Sync()
		return nil
	})
	return nil
}

// ── RoutingServiceProvider ───────────────────────────────────────────────────

// RoutingServiceProvider declares the HTTP router with request logging.
//
// Slots:
//   - *routing.Router, also provided as http.Handler
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(ctx *container.Context) error {
	router := container.Has(ctx, container.FactoryOf(func(a container.Args) (*routing.Router, error) {
		return routing.New(logging.Middleware(container.Arg[*zap.Logger](a, 0))), nil
	}, container.Ref[*zap.Logger]()))
	container.Provides[http.Handler](router)
	return nil
}

// ── InspectServiceProvider ───────────────────────────────────────────────────

// InspectServiceProvider mounts the read-only view of the context on the
// router once everything is wired. It does nothing when
// config.Inspect.Enabled is false.
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(ctx *container.Context) error {
	mount := container.Has(ctx, container.FactoryOf(func(a container.Args) (*inspectMount, error) {
		return &inspectMount{handler: inspect.New(container.Arg[inspect.Source](a, 0))}, nil
	}, container.Const(ctx))).
		PostConstruct((*inspectMount).mount)
	container.Requires(mount, (*inspectMount).setRouter)
	container.Requires(mount, (*inspectMount).setConfig)
	return nil
}

type inspectMount struct {
	handler *inspect.Handler
	router  *routing.Router
	cfg     *config.Config
}

func (m *inspectMount) setRouter(r *routing.Router) { m.router = r }
func (m *inspectMount) setConfig(c *config.Config)  { m.cfg = c }

func (m *inspectMount) mount() error {
	if !m.cfg.Inspect.Enabled {
		return nil
	}
	m.handler.Register(m.router, m.cfg.Inspect.Path)
	return nil
}
