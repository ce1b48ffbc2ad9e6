package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-sahara/framework/validation"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Log       LogConfig
	Metrics   MetricsConfig
	HTTP      HTTPConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

type ContainerConfig struct {
	ConcurrentInjection bool
	DefaultLifetime     string // transient | singleton
}

type LogConfig struct {
	Level string // debug | info | warn | error
}

type MetricsConfig struct {
	Namespace string
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// rules validates the raw environment before it is typed.
var rules = validation.Rules{
	"APP_NAME":                       "required|min:2|max:64",
	"APP_ENV":                        "required|in:local,production,testing",
	"APP_DEBUG":                      "required|bool",
	"CONTAINER_CONCURRENT_INJECTION": "required|bool",
	"CONTAINER_DEFAULT_LIFETIME":     "required|in:transient,singleton",
	"LOG_LEVEL":                      "required|in:debug,info,warn,error",
	"METRICS_NAMESPACE":              `required|regex:^[a-zA-Z_][a-zA-Z0-9_]*$`,
	"HTTP_ADDR":                      "required",
	"HTTP_SHUTDOWN_TIMEOUT":          "required|numeric",
}

var defaults = map[string]string{
	"APP_NAME":                       "go-sahara",
	"APP_ENV":                        "local",
	"APP_DEBUG":                      "true",
	"CONTAINER_CONCURRENT_INJECTION": "false",
	"CONTAINER_DEFAULT_LIFETIME":     "transient",
	"LOG_LEVEL":                      "info",
	"METRICS_NAMESPACE":              "sahara",
	"HTTP_ADDR":                      ":8000",
	"HTTP_SHUTDOWN_TIMEOUT":          "5",
}

// Load reads the given .env files (".env" when none are given) and builds a
// Config. Process environment variables win over file values, file values
// win over defaults. Missing files are skipped; invalid values are reported
// as a *validation.Error.
//
//	cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	src := source{file: make(map[string]string)}
	for _, f := range files {
		values, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			// .env may not exist in production
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", f, err)
		}
		for k, v := range values {
			if _, seen := src.file[k]; !seen {
				src.file[k] = v
			}
		}
	}

	raw := make(map[string]string, len(defaults))
	for k, def := range defaults {
		raw[k] = src.get(k, def)
	}
	if err := validation.Make(raw, rules).Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &Config{
		App: AppConfig{
			Name:  raw["APP_NAME"],
			Env:   raw["APP_ENV"],
			Debug: src.getBool("APP_DEBUG", true),
		},
		Container: ContainerConfig{
			ConcurrentInjection: src.getBool("CONTAINER_CONCURRENT_INJECTION", false),
			DefaultLifetime:     raw["CONTAINER_DEFAULT_LIFETIME"],
		},
		Log:     LogConfig{Level: raw["LOG_LEVEL"]},
		Metrics: MetricsConfig{Namespace: raw["METRICS_NAMESPACE"]},
		HTTP: HTTPConfig{
			Addr:            raw["HTTP_ADDR"],
			ShutdownTimeout: seconds(raw["HTTP_SHUTDOWN_TIMEOUT"]),
		},
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return source{}.get(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	return source{}.getInt(key, defaultVal)
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return source{}.getBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

// seconds converts a validated numeric string to a Duration.
func seconds(v string) time.Duration {
	f, _ := strconv.ParseFloat(v, 64)
	return time.Duration(f * float64(time.Second))
}

// ── source ──────────────────────────────────────────────────────────────────

// source looks a key up in the process environment, then in values read
// from .env files.
type source struct {
	file map[string]string
}

func (s source) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.file[key]; v != "" {
		return v
	}
	return fallback
}

func (s source) getInt(key string, fallback int) int {
	v := s.get(key, "")
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func (s source) getBool(key string, fallback bool) bool {
	v := s.get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
