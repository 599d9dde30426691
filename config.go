package mole

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dracory/env"
	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/types"
)

// Config holds all configuration for a mole instance.
type Config struct {
	// Server settings
	HTTPPort    int    // Port to listen on (default: 8080)
	BasePath    string // Mount path of the action endpoint (default: "/")
	ActionParam string // Query parameter selecting the action (default: "action")

	// Metadata database holding connection records and audit events
	DatabasePath string

	// Key material for sealing stored passwords
	EncryptionKey string
	// Accept the older CBC ciphertext format on read
	LegacyCipherEnabled bool

	// Engines accepted on create (default: all)
	EnabledEngines []string

	SampleConnectionEnabled bool

	LogLevel string

	// Header carrying the authenticated user id
	UserIDHeader string
}

func (c *Config) toWebConfig() types.Config {
	return types.Config{
		BasePath:       c.BasePath,
		ActionParam:    c.ActionParam,
		EnabledEngines: c.EnabledEngines,
		UserID:         types.HeaderUserID(c.UserIDHeader),
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig reads flags/env with sensible defaults.
// Flags take precedence over env.
func LoadConfig() (Config, error) {
	return loadConfig(flag.CommandLine, os.Args[1:])
}

func loadConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config

	// Optionally load from .env files (missing files are ignored inside the lib)
	env.Load(".env")

	cfg.HTTPPort = env.GetIntOrDefault("HTTP_PORT", 8080)
	cfg.BasePath = env.GetStringOrDefault("BASE_URL", "/")
	cfg.ActionParam = env.GetStringOrDefault("ACTION_PARAM", "action")
	cfg.DatabasePath = env.GetStringOrDefault("DATABASE_PATH", "mole.db")
	cfg.EncryptionKey = env.GetStringOrDefault("MOLE_ENCRYPTION_KEY", "")
	cfg.LegacyCipherEnabled = env.GetBoolOrDefault("LEGACY_CIPHER_ENABLED", false)
	cfg.EnabledEngines = splitCSV(env.GetStringOrDefault("ENABLED_ENGINES", ""))
	cfg.SampleConnectionEnabled = env.GetBoolOrDefault("SAMPLE_CONNECTION_ENABLED", true)
	cfg.LogLevel = env.GetStringOrDefault("LOG_LEVEL", "info")
	cfg.UserIDHeader = env.GetStringOrDefault("USER_ID_HEADER", constants.DefaultUserIDHeader)

	// Flags
	port := fs.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	base := fs.String("base", cfg.BasePath, "Base path to mount handler under (e.g. /db)")
	dbPath := fs.String("db", cfg.DatabasePath, "Path of the SQLite metadata database")
	engines := fs.String("engines", strings.Join(cfg.EnabledEngines, ","), "Comma separated list of enabled engines")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.HTTPPort = *port
	cfg.BasePath = *base
	cfg.DatabasePath = *dbPath
	cfg.EnabledEngines = splitCSV(*engines)
	cfg.LogLevel = *logLevel

	if cfg.EncryptionKey == "" {
		return cfg, fmt.Errorf("MOLE_ENCRYPTION_KEY is required")
	}
	return cfg, nil
}
