package updater

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes database connections.
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// Extractor executes named queries on one held database connection.
type Extractor interface {
	// ExecuteAll runs every query in order and returns the datasets in the same order.
	// Any failure aborts the whole batch; no partial results are returned.
	ExecuteAll(ctx context.Context, specs []QuerySpec) ([]NamedDataset, error)

	// Close releases the connection. Idempotent.
	Close() error
}

// SessionOpener connects to the database and returns an Extractor bound to one connection.
type SessionOpener func(ctx context.Context, connConfig *ConnectionConfig) (Extractor, error)

// Serializer converts datasets to and from artifact bytes.
type Serializer interface {
	Encode(d *Dataset) ([]byte, error)
	Decode(b []byte) (*Dataset, error)
}

// Encryptor applies authenticated symmetric encryption with the shared key.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Uploader delivers a batch to the ingestion service and triggers its reload.
// Failures are reported in the CallResult, never as a fatal error.
type Uploader interface {
	Upload(ctx context.Context, batch *Batch) CallResult
	Reload(ctx context.Context) CallResult
}

// UploaderFactory builds an Uploader for one run.
type UploaderFactory func(apiURL, apiKey, runID string) Uploader
