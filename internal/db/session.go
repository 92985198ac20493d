package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/updater/pkg/updater"
)

// Querier is the subset of a pgx connection used to run extraction queries.
// *pgxpool.Conn and *pgx.Conn both satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Session holds one database connection for the duration of an extraction.
//
// Thread-Safety: NOT safe for concurrent use. Queries run strictly in order
// on the held connection.
//
// Lifecycle:
//  1. Created by Open()
//  2. Used for ExecuteAll()
//  3. Cleaned up via Close() (idempotent)
type Session struct {
	pool   *pgxpool.Pool
	conn   *pgxpool.Conn
	logger updater.Logger
}

// Open connects through connector and acquires the single connection used
// for every query of the run.
func Open(ctx context.Context, connector updater.Connector, logger updater.Logger) (*Session, error) {
	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", updater.ErrConnectionFailed, err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to acquire connection: %w", updater.ErrConnectionFailed, err)
	}

	return &Session{pool: pool, conn: conn, logger: logger}, nil
}

// NewSessionOpener returns an updater.SessionOpener backed by StandardConnector.
func NewSessionOpener(logger updater.Logger) updater.SessionOpener {
	return func(ctx context.Context, connConfig *updater.ConnectionConfig) (updater.Extractor, error) {
		logger.Verbose("Connecting to database '%s' on %s:%d", connConfig.Database, connConfig.Host, connConfig.Port)
		session, err := Open(ctx, NewConnector(connConfig), logger)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

// ExecuteAll runs every query in order on the held connection.
func (s *Session) ExecuteAll(ctx context.Context, specs []updater.QuerySpec) ([]updater.NamedDataset, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("%w: session is closed", updater.ErrExecutionFailed)
	}
	return ExecuteAll(ctx, s.conn, specs, s.logger)
}

// Close releases the connection back to the pool, then closes the pool.
// This method is idempotent and safe to call multiple times.
func (s *Session) Close() error {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	return nil
}

// ExecuteAll runs specs in order on q and materializes each result.
// The first failure aborts the batch and no datasets are returned.
func ExecuteAll(ctx context.Context, q Querier, specs []updater.QuerySpec, logger updater.Logger) ([]updater.NamedDataset, error) {
	results := make([]updater.NamedDataset, 0, len(specs))

	for _, spec := range specs {
		logger.Verbose("Executing query %q", spec.Name)

		rows, err := q.Query(ctx, spec.SQL)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w: %w", spec.Name, updater.ErrExecutionFailed, err)
		}

		dataset, err := Materialize(rows)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w: %w", spec.Name, updater.ErrExecutionFailed, err)
		}

		logger.Verbose("Query %q returned %d row(s) with %d column(s)", spec.Name, len(dataset.Rows), len(dataset.Columns))
		results = append(results, updater.NamedDataset{Name: spec.Name, Data: dataset})
	}

	return results, nil
}

var _ updater.Extractor = (*Session)(nil)
