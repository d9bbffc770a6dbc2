// ABOUTME: Connection manager holding the single shared database handle of a process.
// ABOUTME: Creation is double-checked under a mutex; Release closes and clears the handle.
package db

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns one lazily opened connection. Build one per process and pass
// the handle it returns to the repositories.
//
// Only creation is serialized. Statements run on the returned handle are not
// coordinated by the Manager.
type Manager struct {
	conn atomic.Pointer[sql.DB]

	mu      sync.Mutex
	path    string
	session uuid.UUID

	logger zerolog.Logger
	open   func(ctx context.Context, path string) (*sql.DB, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for open/close events.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager with no open connection.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: zerolog.Nop(),
		open:   Open,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire returns the shared connection, opening it at path on first use.
// An empty path selects DefaultPath. Once a connection exists the path
// argument is ignored. Open failures are returned and nothing is cached.
func (m *Manager) Acquire(ctx context.Context, path string) (*sql.DB, error) {
	if conn := m.conn.Load(); conn != nil {
		return conn, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if conn := m.conn.Load(); conn != nil {
		return conn, nil
	}

	if path == "" {
		path = DefaultPath
	}
	conn, err := m.open(ctx, path)
	if err != nil {
		return nil, err
	}

	m.path = path
	m.session = uuid.New()
	m.conn.Store(conn)
	m.logger.Debug().
		Str("path", path).
		Str("session", m.session.String()).
		Msg("database connection opened")

	return conn, nil
}

// Release closes the shared connection if one is open. Calling it with no
// open connection is a no-op. A later Acquire opens a fresh connection.
func (m *Manager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn := m.conn.Swap(nil)
	if conn == nil {
		return nil
	}

	m.logger.Debug().
		Str("path", m.path).
		Str("session", m.session.String()).
		Msg("database connection closed")
	m.path = ""
	m.session = uuid.Nil

	return conn.Close()
}

// Path returns the path of the open connection, or "" when none is open.
func (m *Manager) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// SessionID identifies the currently open connection. It is uuid.Nil when
// no connection is open and changes every time a fresh connection is made.
func (m *Manager) SessionID() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}
