// Package ch provides a clickhouse client
package ch

import (
	"context"
	"errors"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL  string
	Role string
	Tag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a clickhouse-go native connection
type CH struct {
	Conn driver.Conn
}

var openConn = clickhouse.Open // seam

// Open parses the DSN, tags the connection with client info and dials lazily
func Open(_ context.Context, cfg Config) (*CH, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{Conn: conn}, nil
}

// Ping checks the server answers
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.Conn == nil {
		return errors.New("ch: not connected")
	}
	return c.Conn.Ping(ctx)
}

// ServerVersion returns the server handshake; ctx bounds the implicit dial
func (c *CH) ServerVersion(ctx context.Context) (*driver.ServerVersion, error) {
	if c == nil || c.Conn == nil {
		return nil, errors.New("ch: not connected")
	}
	if err := c.Conn.Ping(ctx); err != nil {
		return nil, err
	}
	return c.Conn.ServerVersion()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c == nil || c.Conn == nil {
		return nil, errors.New("ch: not connected")
	}
	return c.Conn.Query(ctx, sql, args...)
}

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}
