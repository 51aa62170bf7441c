package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"toydbclient/internal/domain"
	"toydbclient/internal/eventbus"
	"toydbclient/internal/transport"
)

// EnvEndpoint overrides the endpoint from the config file
const EnvEndpoint = "TOYDB_ENDPOINT"

// DefaultTimeout bounds a single query round trip
const DefaultTimeout = 30 * time.Second

// Config represents the application configuration
type Config struct {
	Version        int        `toml:"version"`
	Endpoint       string     `toml:"endpoint"`
	RequestTimeout string     `toml:"request_timeout"` // Go duration, e.g. "30s"
	Placeholder    string     `toml:"placeholder"`
	LogFile        string     `toml:"log_file"`
	UISettings     UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	PrettyPrint     bool   `toml:"pretty_print"`     // start with pretty mode on
	SyntaxHighlight bool   `toml:"syntax_highlight"` // colour pretty JSON
	Theme           string `toml:"theme"`            // glamour style: dark, light, notty
	EditorHeight    int    `toml:"editor_height"`
}

// Timeout returns the parsed request timeout, falling back to DefaultTimeout
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Validate checks the fields a client cannot run without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return transport.ErrEmptyEndpoint
	}
	if c.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the config file location under the user config dir
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "toydbclient", "config.toml")
}

// NewConfigService creates a config service backed by path ("" = DefaultPath)
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service that reports loads on bus
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file, returning defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	found := true
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		found = false
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Endpoint: cfg.Endpoint,
			Path:     cs.filePath,
			Found:    found,
		})
	}

	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path.
// Missing keys keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Placeholder == "" {
		cfg.Placeholder = domain.Placeholder
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:        1,
		Endpoint:       transport.DefaultEndpoint,
		RequestTimeout: DefaultTimeout.String(),
		Placeholder:    domain.Placeholder,
		LogFile:        "toydbclient.log",
		UISettings: UISettings{
			PrettyPrint:     false,
			SyntaxHighlight: true,
			Theme:           "dark",
			EditorHeight:    8,
		},
	}
}
