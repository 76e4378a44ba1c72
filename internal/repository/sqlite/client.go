package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Client wraps the SQLite connection
type Client struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// NewClient opens the SQLite database file, creating it if needed.
// WAL mode keeps report reads from blocking behind ingest commits.
func NewClient(ctx context.Context, path string, log *zap.Logger) (*Client, error) {
	log.Info("Opening SQLite database", zap.String("path", path))

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single writer connection avoids SQLITE_BUSY between concurrent
	// ingest transactions; readers are served from the WAL snapshot.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("SQLite database opened successfully")

	return &Client{db: db, path: path, log: log}, nil
}

// DB returns the underlying database handle
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	c.log.Info("Closing SQLite database")
	if err := c.db.Close(); err != nil {
		c.log.Error("Error closing SQLite database", zap.Error(err))
		return err
	}
	return nil
}
