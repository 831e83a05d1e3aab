// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ninetiop/polygon/cliparse"
)

// SQL dialects. The postgres and pgx drivers share one.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// DialectFor maps a configured database type to its SQL dialect
func DialectFor(dbType string) string {
	if dbType == cliparse.DBSQLite {
		return DialectSQLite
	}
	return DialectPostgres
}

// Open connects to the configured database and verifies the connection.
// The driver name equals cfg.DatabaseType: lib/pq registers "postgres",
// pgx/stdlib registers "pgx" and modernc registers "sqlite".
func Open(ctx context.Context, cfg cliparse.Config) (*sql.DB, error) {
	dsn := DSN(cfg)

	conn, err := sql.Open(cfg.DatabaseType, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DatabaseType, err)
	}

	switch cfg.DatabaseType {
	case cliparse.DBSQLite:
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY
		// between concurrent requests.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	default:
		conn.SetMaxOpenConns(16)
		conn.SetMaxIdleConns(4)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, &StorageError{Op: "connect", Err: err}
	}

	return conn, nil
}

// DSN returns cfg.DatabaseURL, or assembles one from the connection
// descriptor when it is empty
func DSN(cfg cliparse.Config) string {
	if cfg.DatabaseType == cliparse.DBSQLite {
		return sqliteDSN(cfg)
	}
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}

	dsn := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort)),
		Path:   "/" + cfg.DBName,
	}
	if cfg.DBUser != "" {
		if cfg.DBPassword != "" {
			dsn.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
		} else {
			dsn.User = url.User(cfg.DBUser)
		}
	}
	params := url.Values{}
	if cfg.DBSSLMode != "" {
		params.Set("sslmode", cfg.DBSSLMode)
	}
	dsn.RawQuery = params.Encode()
	return dsn.String()
}

// sqliteDSN enables foreign keys (required for ON DELETE CASCADE) and a
// busy timeout on every connection modernc opens
func sqliteDSN(cfg cliparse.Config) string {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = cfg.DBName
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// newPlaceholderGenerator yields $1, $2, ... for PostgreSQL and ? for SQLite
func newPlaceholderGenerator(dialect string) func() string {
	if dialect == DialectPostgres {
		counter := 0
		return func() string {
			counter++
			return fmt.Sprintf("$%d", counter)
		}
	}
	return func() string { return "?" }
}
