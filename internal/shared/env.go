package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised by [ApplyEnv].
const (
	EnvDownloadDir  = "PLAYX_DOWNLOAD_DIR"
	EnvFetchPath    = "PLAYX_FETCH_PATH"
	EnvPlayPath     = "PLAYX_PLAY_PATH"
	EnvDatabasePath = "PLAYX_DATABASE_PATH"
	EnvLogFile      = "PLAYX_LOG_FILE"
	EnvLogLevel     = "PLAYX_LOG_LEVEL"
	EnvFMAKey       = "PLAYX_FMA_API_KEY"
)

// LoadEnv loads variables from the given .env files (default ".env") into the process environment.
//
// Missing files are ignored; existing variables are never overwritten.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with any PLAYX_* variables that are set.
//
// Setting an FMA key also enables the FMA catalog.
func ApplyEnv(c *Config) {
	override(&c.Downloads.Dir, EnvDownloadDir)
	override(&c.Player.FetchPath, EnvFetchPath)
	override(&c.Player.PlayPath, EnvPlayPath)
	override(&c.Database.Path, EnvDatabasePath)
	override(&c.Log.File, EnvLogFile)
	override(&c.Log.Level, EnvLogLevel)

	if override(&c.Catalogs.FMA.APIKey, EnvFMAKey) {
		c.Catalogs.FMA.Enabled = true
	}
}

func override(dst *string, key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return false
	}
	*dst = strings.TrimSpace(v)
	return true
}
