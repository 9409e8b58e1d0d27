// Package db wraps the SQL Server connection used by the stores.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb"
)

const (
	maxRetries  = 5
	initialWait = 100 * time.Millisecond
)

// Config holds the connection settings.
type Config struct {
	Host           string
	Port           int
	Database       string
	Username       string
	Password       string
	MaxOpenConns   int
	MaxIdleConns   int
	ConnectTimeout time.Duration
}

// DB wraps a SQL database connection with connect-time retry. Queries
// themselves are never retried; a failed query surfaces to the caller.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection with connection pooling and
// verifies connectivity before returning.
func Open(cfg Config) (*DB, error) {
	dsn := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	q := url.Values{}
	q.Set("database", cfg.Database)
	if cfg.ConnectTimeout > 0 {
		q.Set("dial timeout", fmt.Sprintf("%d", int(cfg.ConnectTimeout.Seconds())))
	}
	dsn.RawQuery = q.Encode()

	conn, err := sql.Open("sqlserver", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(0)

	db := &DB{conn: conn}
	if err := db.pingWithRetry(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// Conn exposes the underlying connection pool to the stores.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// WithTx executes a function within a transaction. If the function
// returns an error, the transaction is rolled back.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pingWithRetry attempts to ping the database with exponential backoff.
// Retrying happens at connect time only.
func (db *DB) pingWithRetry(ctx context.Context) error {
	wait := initialWait
	for i := 0; i < maxRetries; i++ {
		if err := db.conn.PingContext(ctx); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			time.Sleep(wait)
			wait *= 2
		}
	}
	return fmt.Errorf("ping database after %d retries", maxRetries)
}
