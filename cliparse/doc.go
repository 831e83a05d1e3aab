// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8080)
  - DatabaseURL: Full connection string (optional)
  - DatabaseType: postgres, pgx or sqlite (default: postgres)
  - DBHost, DBPort, DBUser, DBPassword, DBName, DBSSLMode: connection
    descriptor used when DatabaseURL is empty
  - StoreTimeout: Bound on every store operation (default: 5s)
  - MatchMode: Polygon dedup rule, shared or exact (default: shared)
  - LogLevel, LogFile: Logging setup

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	DB_HOST       → -db-host
	DB_PORT       → -db-port
	DB_USER       → -db-user
	DB_PASSWORD   → -db-password
	DB_NAME       → -db-name
	DB_SSLMODE    → -db-sslmode
	STORE_TIMEOUT → -store-timeout
	MATCH_MODE    → -match-mode
	LOG_LEVEL     → -log-level
	LOG_FILE      → -log-file

CLI flags take precedence over environment variables. Before the
environment is read, the dotenv file named by -env-file (default .env) is
loaded if it exists; variables already set in the environment are kept.

# Validation

ParseFlags returns an error if:

  - neither DATABASE_URL nor DB_NAME is provided
  - the database type, match mode or log level is unknown
  - the store timeout is not positive
*/
package cliparse
