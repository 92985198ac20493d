package updater

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

// QuerySpec is one named SQL statement from the query definition file.
type QuerySpec struct {
	Name string
	SQL  string
}

// ColumnKind is the value type shared by every non-null value of a column.
type ColumnKind int

const (
	KindNull      ColumnKind = iota // every value is nil
	KindBool                        // bool
	KindInt                         // int64
	KindFloat                       // float64
	KindString                      // string
	KindBytes                       // []byte
	KindTimestamp                   // time.Time, UTC, microsecond precision
)

var kindNames = map[ColumnKind]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindInt:       "int",
	KindFloat:     "float",
	KindString:    "string",
	KindBytes:     "bytes",
	KindTimestamp: "timestamp",
}

// String returns the stable name used in artifact metadata.
func (k ColumnKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// ParseColumnKind is the inverse of ColumnKind.String.
func ParseColumnKind(s string) (ColumnKind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindNull, false
}

// Column describes one dataset column.
type Column struct {
	Name string
	Kind ColumnKind
}

// Dataset is the fully materialized result of one query: ordered columns
// and ordered rows, each row aligned to the columns.
//
// Datasets should be built with NewDataset so values are normalized;
// only normalized datasets round-trip through an artifact exactly.
type Dataset struct {
	Columns []Column
	Rows    [][]any
}

// NewDataset builds a Dataset from column names and raw rows.
// Values are normalized to the Go type of their kind (see ColumnKind) and
// each column's kind is inferred from its first non-null value.
func NewDataset(names []string, rows [][]any) (*Dataset, error) {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Kind: KindNull}
	}

	normalized := make([][]any, 0, len(rows))
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", r, len(row), len(names), ErrRowWidth)
		}

		out := make([]any, len(row))
		for c, raw := range row {
			value, kind, err := NormalizeValue(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", r, names[c], err)
			}
			if kind != KindNull {
				switch columns[c].Kind {
				case KindNull:
					columns[c].Kind = kind
				case kind:
				default:
					return nil, fmt.Errorf("column %q holds %s and %s values: %w", names[c], columns[c].Kind, kind, ErrMixedColumn)
				}
			}
			out[c] = value
		}
		normalized = append(normalized, out)
	}

	return &Dataset{Columns: columns, Rows: normalized}, nil
}

// NormalizeValue converts v to the canonical Go type of its kind.
func NormalizeValue(v any) (any, ColumnKind, error) {
	switch x := v.(type) {
	case nil:
		return nil, KindNull, nil
	case bool:
		return x, KindBool, nil
	case int:
		return int64(x), KindInt, nil
	case int8:
		return int64(x), KindInt, nil
	case int16:
		return int64(x), KindInt, nil
	case int32:
		return int64(x), KindInt, nil
	case int64:
		return x, KindInt, nil
	case uint8:
		return int64(x), KindInt, nil
	case uint16:
		return int64(x), KindInt, nil
	case uint32:
		return int64(x), KindInt, nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, KindNull, fmt.Errorf("uint64 %d overflows int64: %w", x, ErrUnsupportedValue)
		}
		return int64(x), KindInt, nil
	case float32:
		return float64(x), KindFloat, nil
	case float64:
		return x, KindFloat, nil
	case string:
		return x, KindString, nil
	case []byte:
		if x == nil {
			return nil, KindNull, nil
		}
		return bytes.Clone(x), KindBytes, nil
	case time.Time:
		return x.UTC().Truncate(time.Microsecond), KindTimestamp, nil
	default:
		return nil, KindNull, fmt.Errorf("%T: %w", v, ErrUnsupportedValue)
	}
}

// ColumnNames returns the dataset's column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// NamedDataset pairs a dataset with the query name that produced it.
type NamedDataset struct {
	Name string
	Data *Dataset
}

// Artifact is the serialized form of one dataset.
type Artifact struct {
	Name  string
	Bytes []byte
}

// EncryptedArtifact is an artifact after encryption with the shared key.
type EncryptedArtifact struct {
	Name       string
	Ciphertext []byte
}

// ConnectionConfig represents parsed database connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Additional connection parameters
	AppName        string
	ConnectTimeout time.Duration
}

// RunConfig contains everything one pipeline execution needs.
type RunConfig struct {
	// Connection holds the resolved database parameters
	Connection ConnectionConfig

	// APIURL is the ingestion service base URL; it must end with "/"
	APIURL string

	// APIKey is the shared secret sent in the api_key header
	APIKey string

	// EncryptionKey is the Fernet key shared with the ingestion service
	EncryptionKey string

	// QueriesPath is the query definition file
	QueriesPath string

	// MaxArtifacts caps the batch size, 0 means DefaultMaxArtifacts
	MaxArtifacts int

	// DryRun stops after assembling the batch; no HTTP requests are made
	DryRun bool

	// OutputDir, when set, receives the encrypted artifacts of a dry run
	OutputDir string
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("db_params.dbname is required: %w", ErrInvalidConfig))
	}
	if c.Connection.Port < 0 || c.Connection.Port > 65535 {
		errs = append(errs, fmt.Errorf("db_params.port %d is out of range: %w", c.Connection.Port, ErrInvalidConfig))
	}
	if c.QueriesPath == "" {
		errs = append(errs, fmt.Errorf("queries path is required: %w", ErrInvalidConfig))
	}
	if c.EncryptionKey == "" {
		errs = append(errs, fmt.Errorf("encryption_key is required: %w", ErrInvalidConfig))
	}
	if c.MaxArtifacts < 0 {
		errs = append(errs, fmt.Errorf("max_artifacts cannot be negative: %w", ErrInvalidConfig))
	}
	if c.OutputDir != "" && !c.DryRun {
		errs = append(errs, fmt.Errorf("output dir requires dry run: %w", ErrInvalidConfig))
	}

	if !c.DryRun {
		if c.APIKey == "" {
			errs = append(errs, fmt.Errorf("api_key is required: %w", ErrInvalidConfig))
		}
		if err := validateAPIURL(c.APIURL); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// EffectiveMaxArtifacts returns MaxArtifacts with the default applied.
func (c *RunConfig) EffectiveMaxArtifacts() int {
	if c.MaxArtifacts <= 0 {
		return DefaultMaxArtifacts
	}
	return c.MaxArtifacts
}

func validateAPIURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("api_url is required: %w", ErrInvalidConfig)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api_url %q: %v: %w", raw, err, ErrInvalidConfig)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url %q must use http or https: %w", raw, ErrInvalidConfig)
	}
	if !strings.HasSuffix(raw, "/") {
		return fmt.Errorf("api_url %q must end with \"/\": %w", raw, ErrInvalidConfig)
	}
	return nil
}
