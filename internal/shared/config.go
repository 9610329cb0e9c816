package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed settings.example.toml
var exampleConf []byte

// Config is the remote's configuration.
//
// Values come from the embedded defaults, then settings.toml, then the environment.
type Config struct {
	ClientID     string `toml:"client_id" env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"SPOTIFY_CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" env:"SPOTIFY_REDIRECT_URI"`
	Scopes       string `toml:"scopes" env:"SPOTIFY_SCOPES"`
	DeviceName   string `toml:"device_name" env:"DEVICE_NAME"`
	VolumeStep   int    `toml:"volume_step" env:"VOLUME_STEP"`
	LogLevel     string `toml:"log_level" env:"PIFI_LOG_LEVEL"`

	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	GPIO     GPIOConfig     `toml:"gpio"`
}

// ServerConfig contains the OAuth callback listener settings.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr" env:"PIFI_LISTEN_ADDR"`
}

// DatabaseConfig contains the credential store location.
type DatabaseConfig struct {
	Path string `toml:"path" env:"PIFI_DATABASE"`
}

// GPIOConfig contains the physical pin assignment (periph.io pin names).
type GPIOConfig struct {
	Enabled       bool   `toml:"enabled" env:"PIFI_GPIO"`
	EncoderA      string `toml:"encoder_a"`
	EncoderB      string `toml:"encoder_b"`
	EncoderSwitch string `toml:"encoder_switch"`
	Play          string `toml:"play"`
	Next          string `toml:"next"`
	Previous      string `toml:"previous"`
	DebounceMS    int    `toml:"debounce_ms"`
}

// Debounce returns the minimum interval between two accepted button presses.
func (g GPIOConfig) Debounce() time.Duration {
	return time.Duration(g.DebounceMS) * time.Millisecond
}

// ScopeList splits the comma separated scopes.
func (c *Config) ScopeList() []string {
	var scopes []string
	for _, s := range strings.Split(c.Scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// DatabasePath returns the configured database path or the default under the user cache directory.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pifi", "pifi.db")
}

// Validate reports configuration the remote cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "SPOTIFY_REDIRECT_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (environment or settings.toml)", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	if c.VolumeStep < 1 || c.VolumeStep > 100 {
		return fmt.Errorf("%w: volume_step must be within 1..100, got %d", ErrInvalidConfig, c.VolumeStep)
	}
	if c.DeviceName == "" {
		return fmt.Errorf("%w: device_name is empty", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads the TOML file at path (if it exists) over the defaults and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigFrom(path, environ())
}

// LoadConfigFrom is [LoadConfig] with an explicit environment.
//
// Empty variables count as unset, so an empty SPOTIFY_CLIENT_ID falls back to the file.
func LoadConfigFrom(path string, environment map[string]string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
			}
		}
	}

	set := make(map[string]string, len(environment))
	for k, v := range environment {
		if v != "" {
			set[k] = v
		}
	}
	if err := env.ParseWithOptions(config, env.Options{Environment: set}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example settings.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile writes the example settings to path. It refuses to overwrite.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func environ() map[string]string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
