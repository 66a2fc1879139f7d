package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Player    PlayerConfig    `toml:"player"`
	Downloads DownloadsConfig `toml:"downloads"`
	Catalogs  CatalogsConfig  `toml:"catalogs"`
	Database  DatabaseConfig  `toml:"database"`
	Log       LogConfig       `toml:"log"`
	UI        UIConfig        `toml:"ui"`
}

// PlayerConfig names the external fetch and play tools and the pipeline timings.
type PlayerConfig struct {
	FetchPath        string   `toml:"fetch_path"`
	PlayPath         string   `toml:"play_path"`
	PlayArgs         []string `toml:"play_args"`
	ProbeTitle       bool     `toml:"probe_title"`
	StartupGraceMS   int      `toml:"startup_grace_ms"`
	SampleIntervalMS int      `toml:"sample_interval_ms"`
}

// DownloadsConfig controls where completed downloads land and how they are named.
type DownloadsConfig struct {
	Dir    string `toml:"dir"`
	Suffix string `toml:"suffix"`
	Tag    bool   `toml:"tag"`
}

// CatalogsConfig contains per-catalog settings plus the shared HTTP client options.
type CatalogsConfig struct {
	UserAgent      string        `toml:"user_agent"`
	RateLimit      float64       `toml:"rate_limit"`
	TimeoutSeconds int           `toml:"timeout_seconds"`
	YouTube        YouTubeConfig `toml:"youtube"`
	Archive        ArchiveConfig `toml:"archive"`
	FMA            FMAConfig     `toml:"fma"`
}

// YouTubeConfig configures the yt-dlp backed catalog.
type YouTubeConfig struct {
	Enabled     bool `toml:"enabled"`
	SearchLimit int  `toml:"search_limit"`
}

// ArchiveConfig configures the Internet Archive catalog.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Rows    int    `toml:"rows"`
}

// FMAConfig configures the Free Music Archive catalog.
type FMAConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Limit   int    `toml:"limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains the session log destination and level.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// UIConfig contains render loop settings.
type UIConfig struct {
	TickMS int `toml:"tick_ms"`
}

// StartupGrace is the window in which an early process exit counts as a spawn failure.
func (c PlayerConfig) StartupGrace() time.Duration {
	return millis(c.StartupGraceMS, 300)
}

// SampleInterval is the visualization polling period.
func (c PlayerConfig) SampleInterval() time.Duration {
	return millis(c.SampleIntervalMS, 100)
}

// Timeout returns the HTTP timeout for catalog requests.
func (c CatalogsConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Tick returns the render tick period.
func (c UIConfig) Tick() time.Duration {
	return millis(c.TickMS, 250)
}

func millis(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads path when it exists and falls back to [DefaultConfig] otherwise, then applies environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := LoadEnv(); err != nil {
		return nil, err
	}
	ApplyEnv(config)
	return config, nil
}
