// Package storage provides PostgreSQL persistence and the filesystem
// artifact store for captured job postings.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx used by the repository. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so the same queries run pooled or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks database connectivity, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Repo returns a repository bound to the pool, outside any transaction.
func (s *Store) Repo() Repo {
	return NewRepository(s.pool)
}

// WithinTx runs fn against a repository bound to a single transaction,
// committing on nil and rolling back on error or panic.
func (s *Store) WithinTx(ctx context.Context, fn func(Repo) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(NewRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// schema is applied idempotently at startup. Uniqueness constraints are the
// backstop for concurrent captures of the same posting.
const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id          SERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	website     TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS companies_name_ci_idx ON companies (LOWER(name));

CREATE TABLE IF NOT EXISTS roles (
	id              SERIAL PRIMARY KEY,
	company_id      INTEGER NOT NULL REFERENCES companies(id),
	title           TEXT NOT NULL,
	team_division   TEXT,
	salary_min      INTEGER,
	salary_max      INTEGER,
	salary_currency TEXT NOT NULL DEFAULT 'USD',
	url             TEXT NOT NULL UNIQUE,
	raw_html_path   TEXT NOT NULL DEFAULT '',
	cleaned_md_path TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'active',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS skills (
	id          SERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	category    TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS skills_name_ci_idx ON skills (LOWER(name));

CREATE TABLE IF NOT EXISTS role_skills (
	id                SERIAL PRIMARY KEY,
	role_id           INTEGER NOT NULL REFERENCES roles(id),
	skill_id          INTEGER NOT NULL REFERENCES skills(id),
	requirement_level TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (role_id, skill_id)
);
`

// InitSchema creates the tables if they do not exist. Safe to run on every
// startup.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
