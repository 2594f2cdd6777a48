package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-wiring/framework/validation"
)

// Config is the central typed configuration struct.
// Embed or extend it in your app's own AppConfig.
type Config struct {
	App     AppConfig
	Log     LogConfig
	Inspect InspectConfig
	Garage  GarageConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
	// ShutdownTimeout is the number of seconds the HTTP server gets to drain.
	ShutdownTimeout int
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | console
}

// InspectConfig controls the read-only HTTP view of the wiring context.
type InspectConfig struct {
	Enabled bool
	Path    string
}

// GarageConfig points at the YAML composition file of the demo garage.
type GarageConfig struct {
	File string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:            env("APP_NAME", "GoWiring"),
			Env:             env("APP_ENV", "local"),
			Debug:           envBool("APP_DEBUG", true),
			URL:             env("APP_URL", "http://localhost"),
			Port:            env("APP_PORT", "8000"),
			ShutdownTimeout: GetInt("APP_SHUTDOWN_TIMEOUT", 5),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "json"),
		},
		Inspect: InspectConfig{
			Enabled: envBool("INSPECT_ENABLED", true),
			Path:    env("INSPECT_PATH", "/_container"),
		},
		Garage: GarageConfig{
			File: env("GARAGE_FILE", "garage.yaml"),
		},
	}
}

// Validate checks the values the framework cannot run with.
func (c *Config) Validate() error {
	v := validation.Make(map[string]string{
		"APP_PORT":             c.App.Port,
		"APP_SHUTDOWN_TIMEOUT": strconv.Itoa(c.App.ShutdownTimeout),
		"LOG_LEVEL":            c.Log.Level,
		"LOG_FORMAT":           c.Log.Format,
		"INSPECT_PATH":         c.Inspect.Path,
	}, validation.Rules{
		"APP_PORT":             "required|integer|gte:0|lte:65535",
		"APP_SHUTDOWN_TIMEOUT": "integer|gte:0",
		"LOG_LEVEL":            "required|in:debug,info,warn,warning,error",
		"LOG_FORMAT":           "required|in:json,console",
		"INSPECT_PATH":         `sometimes|regex:^/[\w./-]*$`,
	})
	if v.Fails() {
		return fmt.Errorf("invalid configuration: %w", v.Errors())
	}
	return nil
}

// LoadYAML decodes the YAML document at path into out.
//
//	var g garage.Blueprint
//	if err := config.LoadYAML(cfg.Garage.File, &g); err != nil { ... }
func LoadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML config file %s: %w", path, err)
	}
	return nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
