package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DBPostgres = "postgres"
	DBPgx      = "pgx"
	DBSQLite   = "sqlite"
)

// Dedup match modes
const (
	MatchShared = "shared"
	MatchExact  = "exact"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Connection descriptor, used when DatabaseURL is empty
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	StoreTimeout time.Duration
	MatchMode    string

	LogLevel string
	LogFile  string
	EnvFile  string
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("polygon", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, pgx or sqlite)")

	fs.StringVar(&cfg.DBHost, "db-host", "", "Database host")
	fs.IntVar(&cfg.DBPort, "db-port", 0, "Database port")
	fs.StringVar(&cfg.DBUser, "db-user", "", "Database user")
	fs.StringVar(&cfg.DBPassword, "db-password", "", "Database password (prefer env)")
	fs.StringVar(&cfg.DBName, "db-name", "", "Database name (file path for sqlite)")
	fs.StringVar(&cfg.DBSSLMode, "db-sslmode", "", "PostgreSQL sslmode")

	fs.DurationVar(&cfg.StoreTimeout, "store-timeout", 0, "Timeout for each store operation")
	fs.StringVar(&cfg.MatchMode, "match-mode", "", "Polygon dedup rule (shared or exact)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Also write logs to this file")
	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "dotenv file loaded before reading env")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Values already in the environment win over the dotenv file
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", 8080)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	cfg.DatabaseURL = orEnv(cfg.DatabaseURL, "DATABASE_URL", "")
	cfg.DatabaseType = strings.ToLower(orEnv(cfg.DatabaseType, "DATABASE_TYPE", DBPostgres))
	switch cfg.DatabaseType {
	case DBPostgres, DBPgx, DBSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	cfg.DBHost = orEnv(cfg.DBHost, "DB_HOST", "localhost")
	if cfg.DBPort == 0 {
		port, err := envInt("DB_PORT", 5432)
		if err != nil {
			return Config{}, err
		}
		cfg.DBPort = port
	}
	cfg.DBUser = orEnv(cfg.DBUser, "DB_USER", "")
	cfg.DBPassword = orEnv(cfg.DBPassword, "DB_PASSWORD", "")
	cfg.DBName = orEnv(cfg.DBName, "DB_NAME", "")
	cfg.DBSSLMode = orEnv(cfg.DBSSLMode, "DB_SSLMODE", "disable")

	if cfg.DatabaseURL == "" && cfg.DBName == "" {
		return Config{}, errors.New("database required (use -d, DATABASE_URL, -db-name or DB_NAME)")
	}

	if cfg.StoreTimeout == 0 {
		if s := os.Getenv("STORE_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid STORE_TIMEOUT env variable")
			}
			cfg.StoreTimeout = d
		} else {
			cfg.StoreTimeout = 5 * time.Second
		}
	}
	if cfg.StoreTimeout <= 0 {
		return Config{}, errors.New("store timeout must be positive")
	}

	cfg.MatchMode = strings.ToLower(orEnv(cfg.MatchMode, "MATCH_MODE", MatchShared))
	if cfg.MatchMode != MatchShared && cfg.MatchMode != MatchExact {
		return Config{}, fmt.Errorf("unsupported match mode %q", cfg.MatchMode)
	}

	cfg.LogLevel = strings.ToLower(orEnv(cfg.LogLevel, "LOG_LEVEL", "info"))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("unsupported log level %q", cfg.LogLevel)
	}
	cfg.LogFile = orEnv(cfg.LogFile, "LOG_FILE", "")

	return cfg, nil
}

func orEnv(value, key, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
