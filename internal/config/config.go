package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"

	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

const (
	configDir  = ".teams-recordings"
	configFile = "config.json"

	// PathEnv overrides the location of the configuration file.
	PathEnv = "TEAMS_RECORDINGS_CONFIG_PATH"

	MinWorkers       = 1
	MaxWorkers       = 16
	MinRetryAttempts = 1
	MaxRetryAttempts = 20

	permDir  = 0700
	permFile = 0600
)

// HTTPConfig holds transport, retry and pacing settings for Graph calls.
type HTTPConfig struct {
	Timeout           time.Duration `json:"timeout"`
	RetryAttempts     int           `json:"retryAttempts"`
	RetryDelay        time.Duration `json:"retryDelay"`
	MaxRetryDelay     time.Duration `json:"maxRetryDelay"`
	RequestsPerSecond float64       `json:"requestsPerSecond"`
	Burst             int           `json:"burst"`
}

// DefaultHTTPConfig returns the settings used when the file has none.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:           graph.DefaultTimeout,
		RetryAttempts:     graph.DefaultRetryAttempts,
		RetryDelay:        graph.DefaultRetryDelay,
		MaxRetryDelay:     graph.DefaultMaxRetryDelay,
		RequestsPerSecond: graph.DefaultRequestsPerSecond,
		Burst:             graph.DefaultBurst,
	}
}

// RetryPolicy converts the settings into the client's retry policy.
func (h HTTPConfig) RetryPolicy() graph.RetryPolicy {
	return graph.RetryPolicy{
		MaxAttempts: h.RetryAttempts,
		BaseDelay:   h.RetryDelay,
		MaxDelay:    h.MaxRetryDelay,
	}
}

// Configuration holds the application's persisted settings.
// The client secret is only ever read from the environment.
type Configuration struct {
	TenantID     string     `json:"tenantId,omitempty"`
	ClientID     string     `json:"clientId,omitempty"`
	ClientSecret string     `json:"-"`
	Authority    string     `json:"authority,omitempty"`
	BaseURL      string     `json:"baseUrl,omitempty"`
	Workers      int        `json:"workers"`
	Debug        bool       `json:"debug"`
	HTTP         HTTPConfig `json:"http"`
	mu           sync.RWMutex
}

// Environment is the set of variables that overlay the file.
type Environment struct {
	TenantID     string `env:"AZURE_TENANT_ID"`
	ClientID     string `env:"AZURE_CLIENT_ID"`
	ClientSecret string `env:"AZURE_CLIENT_SECRET"`
	Authority    string `env:"GRAPH_AUTHORITY"`
	BaseURL      string `env:"GRAPH_BASE_URL"`
	Workers      int    `env:"TEAMS_RECORDINGS_WORKERS"`
	Debug        bool   `env:"TEAMS_RECORDINGS_DEBUG"`
}

// New returns a configuration with default settings.
func New() *Configuration {
	return &Configuration{
		Workers: MinWorkers,
		HTTP:    DefaultHTTPConfig(),
	}
}

// Path returns the configuration file location.
func Path() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

// Dir returns the directory holding the configuration file.
func Dir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// Save persists the configuration to disk.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config to JSON: %w", err)
	}

	configPath, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), permDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, jsonData, permFile); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}
	return nil
}

// Load reads the configuration file. Settings missing from the file keep
// their defaults.
func Load() (*Configuration, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling json: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadOrCreate loads the configuration file, writing one with defaults if
// it does not exist yet.
func LoadOrCreate() (*Configuration, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = New()
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ReadEnvironment reads the overlay variables.
func ReadEnvironment() (Environment, error) {
	var e Environment
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return Environment{}, fmt.Errorf("reading environment: %w", err)
	}
	return e, nil
}

// ApplyEnvironment overlays every variable that is set onto the configuration.
func (c *Configuration) ApplyEnvironment(e Environment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&c.TenantID, e.TenantID)
	overlay(&c.ClientID, e.ClientID)
	overlay(&c.ClientSecret, e.ClientSecret)
	overlay(&c.Authority, e.Authority)
	overlay(&c.BaseURL, e.BaseURL)
	if e.Workers != 0 {
		c.Workers = e.Workers
	}
	if e.Debug {
		c.Debug = true
	}
	c.normalize()
}

// Credentials returns the client credentials for the token endpoint.
func (c *Configuration) Credentials() graph.ClientCredentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return graph.ClientCredentials{
		TenantID:     c.TenantID,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Authority:    c.Authority,
	}
}

// Normalize clamps out-of-range settings and fills in missing ones.
func (c *Configuration) Normalize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.normalize()
}

func (c *Configuration) normalize() {
	c.Workers = ClampWorkers(c.Workers)

	def := DefaultHTTPConfig()
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = def.Timeout
	}
	if c.HTTP.RetryAttempts == 0 {
		c.HTTP.RetryAttempts = def.RetryAttempts
	}
	c.HTTP.RetryAttempts = clamp(c.HTTP.RetryAttempts, MinRetryAttempts, MaxRetryAttempts)
	if c.HTTP.RetryDelay <= 0 {
		c.HTTP.RetryDelay = def.RetryDelay
	}
	if c.HTTP.MaxRetryDelay <= 0 {
		c.HTTP.MaxRetryDelay = def.MaxRetryDelay
	}
	if c.HTTP.MaxRetryDelay < c.HTTP.RetryDelay {
		c.HTTP.MaxRetryDelay = c.HTTP.RetryDelay
	}
	if c.HTTP.RequestsPerSecond < 0 {
		c.HTTP.RequestsPerSecond = def.RequestsPerSecond
	}
	if c.HTTP.Burst <= 0 {
		c.HTTP.Burst = def.Burst
	}
}

// ClampWorkers limits a worker count to the supported range.
func ClampWorkers(n int) int {
	return clamp(n, MinWorkers, MaxWorkers)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
