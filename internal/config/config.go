// Package config loads costvar settings from a TOML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/costvar/internal/llm"
	"github.com/pelletier/go-toml/v2"
)

const (
	appDir       = ".costvar"
	fileName     = "config.toml"
	dbFileName   = "costvar.db"
	DefaultAddr  = "127.0.0.1:8080"
	defaultMaxMB = 32
)

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	LLM     LLMConfig     `toml:"llm"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type ServerConfig struct {
	Addr        string `toml:"addr"`
	DevMode     bool   `toml:"dev_mode"`
	MaxUploadMB int    `toml:"max_upload_mb"`
}

type LogConfig struct {
	Enabled bool `toml:"enabled"`
}

// LLMConfig is the file form of llm.LLMConfig. Zero values keep the llm
// package defaults.
type LLMConfig struct {
	Enabled         bool   `toml:"enabled"`
	LogCalls        bool   `toml:"log_calls"`
	Endpoint        string `toml:"endpoint,omitempty"`
	Model           string `toml:"model,omitempty"`
	TimeoutMs       int    `toml:"timeout_ms,omitempty"`
	MaxRetries      *int   `toml:"max_retries,omitempty"`
	ReportTimeoutMs int    `toml:"report_timeout_ms,omitempty"`
}

// HomeDir returns ~/.costvar, or .costvar when the home directory is unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appDir
	}
	return filepath.Join(home, appDir)
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{DBPath: filepath.Join(HomeDir(), dbFileName)},
		Server:  ServerConfig{Addr: DefaultAddr, MaxUploadMB: defaultMaxMB},
	}
}

// DefaultPath is COSTVAR_CONFIG when set, otherwise ~/.costvar/config.toml.
func DefaultPath() string {
	if p := os.Getenv("COSTVAR_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(HomeDir(), fileName)
}

// Load reads path over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = defaultMaxMB
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COSTVAR_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("COSTVAR_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("COSTVAR_LOG"); v != "" {
		cfg.Log.Enabled, _ = strconv.ParseBool(v)
	}
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// LLMSettings merges the [llm] section over llm.DefaultConfig and then
// applies the COSTVAR_LLM_* variables, which win over the file.
func (c *Config) LLMSettings() llm.LLMConfig {
	out := llm.DefaultConfig()
	f := c.LLM
	out.Enabled = f.Enabled
	out.LogCalls = f.LogCalls
	if f.Endpoint != "" {
		out.Endpoint = f.Endpoint
	}
	if f.Model != "" {
		out.Model = f.Model
	}
	if f.TimeoutMs > 0 {
		out.TimeoutMs = f.TimeoutMs
	}
	if f.MaxRetries != nil && *f.MaxRetries >= 0 {
		out.MaxRetries = *f.MaxRetries
	}
	if f.ReportTimeoutMs > 0 {
		tc := out.Tasks[llm.TaskReport]
		tc.TimeoutMs = f.ReportTimeoutMs
		out.Tasks[llm.TaskReport] = tc
	}
	llm.ApplyEnv(&out)
	return out
}
