package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config captures the settings storefront reads at startup.
type Config struct {
	APIBase        string
	PageLimit      int
	Locale         string
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/storefront/config.toml"
	defaultAPIBase        = "https://dummyjson.com"
	defaultPageLimit      = 100
	defaultLocale         = "en"
	defaultRequestTimeout = 10 * time.Second
	defaultLogFile        = "~/.local/state/storefront/storefront.log"
	defaultLogLevel       = "info"

	envPrefix = "storefront"
)

type fileConfig struct {
	APIBase        string `toml:"api_base" yaml:"api_base"`
	PageLimit      int    `toml:"page_limit" yaml:"page_limit"`
	Locale         string `toml:"locale" yaml:"locale"`
	RequestTimeout string `toml:"request_timeout" yaml:"request_timeout"`
	LogFile        string `toml:"log_file" yaml:"log_file"`
	LogLevel       string `toml:"log_level" yaml:"log_level"`
}

// envOverrides is filled from STOREFRONT_* variables.
type envOverrides struct {
	APIBase        string        `envconfig:"API_BASE"`
	PageLimit      int           `envconfig:"PAGE_LIMIT"`
	Locale         string        `envconfig:"LOCALE"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	LogFile        string        `envconfig:"LOG_FILE"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		PageLimit:      defaultPageLimit,
		Locale:         defaultLocale,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load reads the config file at path (or the default location), applies
// STOREFRONT_* environment overrides, and falls back to defaults for
// anything missing or blank.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := cfg.applyFile(*raw); err != nil {
			return Config{}, err
		}
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c Config) Validate() error {
	if c.PageLimit <= 0 {
		return errors.Errorf("page_limit must be positive, got %d", c.PageLimit)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return errors.Wrapf(err, "invalid locale %q", c.Locale)
	}
	if c.RequestTimeout <= 0 {
		return errors.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// LanguageTag returns the collation locale, English when unparsable.
func (c Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func readFile(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open config")
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return &raw, nil
}

func (c *Config) applyFile(raw fileConfig) error {
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		c.APIBase = v
	}
	if raw.PageLimit != 0 {
		c.PageLimit = raw.PageLimit
	}
	if v := strings.TrimSpace(raw.Locale); v != "" {
		c.Locale = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "parse config: request_timeout")
		}
		c.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

func (c *Config) applyEnv(env envOverrides) {
	if v := strings.TrimSpace(env.APIBase); v != "" {
		c.APIBase = v
	}
	if env.PageLimit != 0 {
		c.PageLimit = env.PageLimit
	}
	if v := strings.TrimSpace(env.Locale); v != "" {
		c.Locale = v
	}
	if env.RequestTimeout != 0 {
		c.RequestTimeout = env.RequestTimeout
	}
	if v := strings.TrimSpace(env.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(env.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
