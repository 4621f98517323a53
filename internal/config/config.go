// Package config handles the XDG configuration directory, config.yaml and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"dtask/internal/storage"
)

const (
	// AppName is the application directory name.
	AppName = "dtask"

	// ConfigFile is the optional settings filename inside Dir.
	ConfigFile = "config.yaml"

	// DefaultTimeout bounds every backend call.
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrNoBackend is returned when no backend URL is configured.
	ErrNoBackend = errors.New("backend URL not configured (set backend_url in config.yaml, DTASK_BACKEND_URL or --backend)")

	// ErrInvalidBackend is returned when the backend URL is not an http(s) URL.
	ErrInvalidBackend = errors.New("invalid backend URL")
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend describes the servlet endpoints.
	Backend Backend

	// Log receives debug output. Nil means discard.
	Log *log.Logger

	// Stdin supplies passwords not given as flags. Nil disables prompting.
	Stdin io.Reader
}

// Backend holds the servlet connection settings.
type Backend struct {
	URL         string   `yaml:"backend_url" env:"DTASK_BACKEND_URL"`
	TaskPath    string   `yaml:"task_path" env:"DTASK_TASK_PATH" env-default:"TaskServlet"`
	AuthPath    string   `yaml:"auth_path" env:"DTASK_AUTH_PATH" env-default:"AuthServlet"`
	Timeout     Duration `yaml:"timeout" env:"DTASK_TIMEOUT" env-default:"10s"`
	AccessToken string   `yaml:"access_token" env:"DTASK_ACCESS_TOKEN"`
}

type fileConfig struct {
	Backend `yaml:",inline"`
}

// New creates a new Config with the default or specified config directory,
// then applies config.yaml from that directory and DTASK_* environment variables.
// If configDir is empty, uses XDG_CONFIG_HOME/dtask or $HOME/.config/dtask.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	var fc fileConfig
	path := cfg.FilePath()
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &fc); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	} else if err := cleanenv.ReadEnv(&fc); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	cfg.Backend = fc.Backend
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// Storage returns the key/value store kept in the config directory.
func (c *Config) Storage() *storage.Store {
	return storage.New(c.Dir)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Logger returns the debug logger, or one that discards everything.
func (c *Config) Logger() *log.Logger {
	if c.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return c.Log
}

// SetLogger points debug output at w when Debug is set.
func (c *Config) SetLogger(w io.Writer) {
	if c.Debug {
		c.Log = log.New(w, "debug: ", log.Ltime|log.Lmicroseconds)
		return
	}
	c.Log = log.New(io.Discard, "", 0)
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	if d := c.Backend.Timeout.Duration(); d > 0 {
		return d
	}
	return DefaultTimeout
}

// TaskURL returns the absolute task endpoint.
func (c *Config) TaskURL() (string, error) {
	return c.endpoint(c.Backend.TaskPath, "TaskServlet")
}

// AuthURL returns the absolute auth endpoint.
func (c *Config) AuthURL() (string, error) {
	return c.endpoint(c.Backend.AuthPath, "AuthServlet")
}

func (c *Config) endpoint(path, fallback string) (string, error) {
	base := strings.TrimSpace(c.Backend.URL)
	if base == "" {
		return "", ErrNoBackend
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidBackend, base)
	}
	if path == "" {
		path = fallback
	}
	// Absolute endpoint overrides are allowed.
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	return u.JoinPath(strings.TrimPrefix(path, "/")).String(), nil
}

// Duration parses "10s", "5m" or a bare number of seconds.
type Duration time.Duration

// Duration returns the value as time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(s string) error {
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalText lets config.yaml use the same syntax as the environment.
func (d *Duration) UnmarshalText(text []byte) error {
	return d.SetValue(string(text))
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}
