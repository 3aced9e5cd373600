// Package config loads bridge settings from a TOML file and the environment.
//
// Precedence, lowest first: built-in defaults, the config file, HOSTBRIDGE_*
// environment variables, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"mvdan.cc/sh/v3/shell"

	"github.com/jonwraymond/hostbridge/supervisor"
)

// Environment variables read by Load and ApplyEnv.
const (
	EnvConfig   = "HOSTBRIDGE_CONFIG"
	EnvHostPath = "HOSTBRIDGE_HOST_PATH"
	EnvHostArgs = "HOSTBRIDGE_HOST_ARGS"
	EnvLogLevel = "HOSTBRIDGE_LOG_LEVEL"
)

// DefaultHostArgs loads the bridge entry point in the reference host.
const DefaultHostArgs = "-P bridge"

// ErrInvalid indicates a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full bridge configuration.
type Config struct {
	Host   Host   `toml:"host"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Host describes how to launch the host application.
type Host struct {
	// Name is the tool namespace for this host.
	Name string `toml:"name"`
	// Path is the host executable.
	Path string `toml:"path"`
	// Args is a shell-quoted argument string.
	Args string `toml:"args"`
	// Dir is the host's working directory.
	Dir string `toml:"dir"`
	// Enabled exposes the host's tools. A disabled host is never started.
	Enabled          bool          `toml:"enabled"`
	TerminateTimeout time.Duration `toml:"terminate_timeout"`
	KillTimeout      time.Duration `toml:"kill_timeout"`
}

// Server configures the MCP server.
type Server struct {
	Name string `toml:"name"`
}

// Log configures diagnostics on stderr.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host: Host{
			Name:             "host",
			Args:             DefaultHostArgs,
			Enabled:          true,
			TerminateTimeout: supervisor.DefaultTerminateTimeout,
			KillTimeout:      supervisor.DefaultKillTimeout,
		},
		Server: Server{Name: "hostbridge"},
		Log:    Log{Level: "info"},
	}
}

// Path returns the config file location: $HOSTBRIDGE_CONFIG, else
// $XDG_CONFIG_HOME/hostbridge/config.toml, else
// ~/.config/hostbridge/config.toml.
func Path(getenv func(string) string) string {
	if p := getenv(EnvConfig); p != "" {
		return p
	}
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hostbridge", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hostbridge", "config.toml")
}

// Load reads the file at path over the defaults and then applies the
// environment. A missing file yields the defaults. Unknown keys are errors.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			cfg = Default()
		case err != nil:
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
			}
		}
	}
	cfg.ApplyEnv(getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from HOSTBRIDGE_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvHostPath); v != "" {
		c.Host.Path = v
	}
	if v := getenv(EnvHostArgs); v != "" {
		c.Host.Args = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Host.Path == "" {
		return fmt.Errorf("%w: host.path is required (set it in the config file, %s or --host-path)", ErrInvalid, EnvHostPath)
	}
	if c.Host.Name == "" || strings.ContainsAny(c.Host.Name, ": ") {
		return fmt.Errorf("%w: host.name %q must be non-empty without ':' or spaces", ErrInvalid, c.Host.Name)
	}
	if _, err := c.LaunchArgs(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LaunchArgs splits Host.Args with shell quoting rules. Variables expand
// from the environment.
func (c Config) LaunchArgs() ([]string, error) {
	args, err := shell.Fields(c.Host.Args, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("%w: host.args: %v", ErrInvalid, err)
	}
	return args, nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return level, nil
}

// Supervisor converts the host section into a supervisor configuration.
func (c Config) Supervisor(logger supervisor.Logger) (supervisor.Config, error) {
	args, err := c.LaunchArgs()
	if err != nil {
		return supervisor.Config{}, err
	}
	return supervisor.Config{
		Path:             c.Host.Path,
		Args:             args,
		Dir:              c.Host.Dir,
		TerminateTimeout: c.Host.TerminateTimeout,
		KillTimeout:      c.Host.KillTimeout,
		Logger:           logger,
	}, nil
}
