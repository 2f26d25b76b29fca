package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/strata/internal/config/loader"
	"github.com/dshills/strata/internal/engine/selection"
	"github.com/dshills/strata/internal/log"
)

// Config is the decoded configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Selection SelectionConfig `mapstructure:"selection"`
	Syntax    SyntaxConfig    `mapstructure:"syntax"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File receives log output. Empty means stderr.
	File string `mapstructure:"file"`
}

// SelectionConfig sets the initial navigation state.
type SelectionConfig struct {
	// Mode names the selection mode a session starts in.
	Mode string `mapstructure:"mode"`
	// Wrap lets next and previous continue from the other end.
	Wrap bool `mapstructure:"wrap"`
	// CursorDirection is "start" or "end".
	CursorDirection string `mapstructure:"cursor_direction"`
}

// SyntaxConfig controls scope detection.
type SyntaxConfig struct {
	// CacheTTL bounds how long a parsed scope tree is kept. Zero keeps
	// trees until the buffer changes.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// Languages adds languages or overrides built-in ones, keyed by name.
	Languages map[string]LanguageConfig `mapstructure:"languages"`
}

// LanguageConfig describes one language entry.
type LanguageConfig struct {
	Extensions   []string `mapstructure:"extensions"`
	Strategy     string   `mapstructure:"strategy"`
	LineComments []string `mapstructure:"line_comments"`
	StringDelims []string `mapstructure:"string_delims"`
	TabWidth     int      `mapstructure:"tab_width"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter is "stdout" or "none".
	Exporter    string `mapstructure:"exporter"`
	ServiceName string `mapstructure:"service_name"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the built-in configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"level": "info",
			"file":  "",
		},
		"selection": map[string]any{
			"mode":             "line",
			"wrap":             false,
			"cursor_direction": "start",
		},
		"syntax": map[string]any{
			"cache_ttl": "0s",
		},
		"tracing": map[string]any{
			"enabled":      false,
			"exporter":     "stdout",
			"service_name": "strata",
		},
		"watch": map[string]any{
			"debounce": "100ms",
		},
	}
}

// DefaultPath returns the user config file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "strata", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "strata", "config.toml")
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	path      string
	explicit  bool
	fs        loader.FileSystem
	envPrefix string
	flags     *pflag.FlagSet
	bindings  map[string]string
}

// WithFile reads the config file at path. Unlike the default location, an
// explicit file must exist.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		if path != "" {
			o.path = path
			o.explicit = true
		}
	}
}

// WithFS reads config files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithFlags overlays flags that were set on the command line. bindings maps
// config keys such as "log.level" to flag names.
func WithFlags(flags *pflag.FlagSet, bindings map[string]string) Option {
	return func(o *loadOptions) {
		o.flags = flags
		o.bindings = bindings
	}
}

// Load builds the configuration from defaults, the config file, the
// environment and flags, then validates it.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{
		path:      DefaultPath(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := Defaults()

	if o.path != "" {
		fileMap, err := loadFile(o)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileMap)
	}

	envMap, err := loader.NewEnvLoader(o.envPrefix).Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envMap)

	v := viper.New()
	if err := v.MergeConfigMap(merged); err != nil {
		return nil, fmt.Errorf("merging config: %w", err)
	}

	if o.flags != nil {
		for key, name := range o.bindings {
			f := o.flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(o loadOptions) (map[string]any, error) {
	l, err := loader.ForPath(o.fs, o.path)
	if err != nil {
		return nil, err
	}

	if o.explicit {
		if _, err := o.fs.Stat(o.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", o.path, ErrFileNotFound)
			}
			return nil, fmt.Errorf("checking config file: %w", err)
		}
	}

	return l.Load()
}

var (
	logLevels = []string{"debug", "info", "warn", "warning", "error"}
	exporters = []string{"stdout", "none"}
)

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return &ValidationError{Path: "log.level", Message: "unknown level", Value: c.Log.Level}
	}
	if strings.TrimSpace(c.Selection.Mode) == "" {
		return &ValidationError{Path: "selection.mode", Message: "must not be empty", Value: c.Selection.Mode}
	}
	if _, ok := selection.ParseCursorDirection(c.Selection.CursorDirection); !ok {
		return &ValidationError{Path: "selection.cursor_direction", Message: "must be start or end", Value: c.Selection.CursorDirection}
	}
	if c.Syntax.CacheTTL < 0 {
		return &ValidationError{Path: "syntax.cache_ttl", Message: "must not be negative", Value: c.Syntax.CacheTTL}
	}
	if c.Watch.Debounce < 0 {
		return &ValidationError{Path: "watch.debounce", Message: "must not be negative", Value: c.Watch.Debounce}
	}
	if !slices.Contains(exporters, strings.ToLower(c.Tracing.Exporter)) {
		return &ValidationError{Path: "tracing.exporter", Message: "unknown exporter", Value: c.Tracing.Exporter}
	}
	if _, err := c.LanguageTable(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() log.Level {
	return log.ParseLevel(c.Log.Level)
}

// CursorDirection returns the configured cursor direction.
func (c *Config) CursorDirection() selection.CursorDirection {
	d, _ := selection.ParseCursorDirection(c.Selection.CursorDirection)
	return d
}
