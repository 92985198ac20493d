package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/ipc"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/vvka-141/updater/pkg/updater"
)

// KindMetadataKey is the Arrow field metadata key holding the column kind.
const KindMetadataKey = "updater.kind"

// Codec implements updater.Serializer with Arrow IPC streams.
// The zero value is ready to use and safe for concurrent use.
type Codec struct {
	mem memory.Allocator
}

// NewCodec returns a Codec backed by the Go allocator.
func NewCodec() *Codec {
	return &Codec{mem: memory.NewGoAllocator()}
}

func (c *Codec) allocator() memory.Allocator {
	if c.mem == nil {
		return memory.DefaultAllocator
	}
	return c.mem
}

func arrowType(kind updater.ColumnKind) (arrow.DataType, error) {
	switch kind {
	case updater.KindNull, updater.KindString:
		return arrow.BinaryTypes.String, nil
	case updater.KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case updater.KindInt:
		return arrow.PrimitiveTypes.Int64, nil
	case updater.KindFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case updater.KindBytes:
		return arrow.BinaryTypes.Binary, nil
	case updater.KindTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	default:
		return nil, fmt.Errorf("unknown column kind %s", kind)
	}
}

func schemaFor(ds *updater.Dataset) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(ds.Columns))
	for i, col := range ds.Columns {
		dt, err := arrowType(col.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		fields[i] = arrow.Field{
			Name:     col.Name,
			Type:     dt,
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{KindMetadataKey}, []string{col.Kind.String()}),
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

// Encode writes ds as an Arrow IPC stream.
func (c *Codec) Encode(ds *updater.Dataset) ([]byte, error) {
	if ds == nil {
		return nil, errors.New("cannot encode nil dataset")
	}

	schema, err := schemaFor(ds)
	if err != nil {
		return nil, err
	}

	mem := c.allocator()
	columns := make([]arrow.Array, len(ds.Columns))
	defer func() {
		for _, col := range columns {
			if col != nil {
				col.Release()
			}
		}
	}()

	for i, col := range ds.Columns {
		arr, err := buildColumn(mem, schema.Field(i).Type, col, ds.Rows, i)
		if err != nil {
			return nil, err
		}
		columns[i] = arr
	}

	rec := array.NewRecord(schema, columns, int64(len(ds.Rows)))
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := w.Write(rec); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write record batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close arrow stream: %w", err)
	}

	return buf.Bytes(), nil
}

func buildColumn(mem memory.Allocator, dt arrow.DataType, col updater.Column, rows [][]any, idx int) (arrow.Array, error) {
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	b.Reserve(len(rows))

	for r, row := range rows {
		v := row[idx]
		if v == nil {
			b.AppendNull()
			continue
		}

		ok := false
		switch bb := b.(type) {
		case *array.BooleanBuilder:
			var x bool
			if x, ok = v.(bool); ok {
				bb.Append(x)
			}
		case *array.Int64Builder:
			var x int64
			if x, ok = v.(int64); ok {
				bb.Append(x)
			}
		case *array.Float64Builder:
			var x float64
			if x, ok = v.(float64); ok {
				bb.Append(x)
			}
		case *array.StringBuilder:
			var x string
			if x, ok = v.(string); ok && col.Kind == updater.KindString {
				bb.Append(x)
			} else {
				ok = false
			}
		case *array.BinaryBuilder:
			var x []byte
			if x, ok = v.([]byte); ok {
				bb.Append(x)
			}
		case *array.TimestampBuilder:
			var x time.Time
			if x, ok = v.(time.Time); ok {
				bb.Append(arrow.Timestamp(x.UnixMicro()))
			}
		}
		if !ok {
			return nil, fmt.Errorf("row %d, column %q: %T in %s column: %w", r, col.Name, v, col.Kind, updater.ErrMixedColumn)
		}
	}

	return b.NewArray(), nil
}

// Decode reads an Arrow IPC stream written by Encode.
// Any stream it cannot read as a dataset yields updater.ErrCorruptArtifact.
func (c *Codec) Decode(data []byte) (ds *updater.Dataset, err error) {
	// The IPC reader panics on some malformed flatbuffers.
	defer func() {
		if r := recover(); r != nil {
			ds = nil
			err = fmt.Errorf("%w: %v", updater.ErrCorruptArtifact, r)
		}
	}()

	rdr, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(c.allocator()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", updater.ErrCorruptArtifact, err)
	}
	defer rdr.Release()

	columns, err := columnsFromSchema(rdr.Schema())
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0)
	for rdr.Next() {
		rec := rdr.Record()
		decoded, err := decodeRecord(rec, columns)
		if err != nil {
			return nil, err
		}
		rows = append(rows, decoded...)
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", updater.ErrCorruptArtifact, err)
	}

	return &updater.Dataset{Columns: columns, Rows: rows}, nil
}

func columnsFromSchema(schema *arrow.Schema) ([]updater.Column, error) {
	columns := make([]updater.Column, len(schema.Fields()))
	for i, f := range schema.Fields() {
		idx := f.Metadata.FindKey(KindMetadataKey)
		if idx < 0 {
			return nil, fmt.Errorf("%w: field %q has no %s metadata", updater.ErrCorruptArtifact, f.Name, KindMetadataKey)
		}
		kind, ok := updater.ParseColumnKind(f.Metadata.Values()[idx])
		if !ok {
			return nil, fmt.Errorf("%w: field %q has unknown kind %q", updater.ErrCorruptArtifact, f.Name, f.Metadata.Values()[idx])
		}
		want, _ := arrowType(kind)
		if !arrow.TypeEqual(want, f.Type) {
			return nil, fmt.Errorf("%w: field %q of kind %s has arrow type %s", updater.ErrCorruptArtifact, f.Name, kind, f.Type)
		}
		columns[i] = updater.Column{Name: f.Name, Kind: kind}
	}
	return columns, nil
}

func decodeRecord(rec arrow.Record, columns []updater.Column) ([][]any, error) {
	n := int(rec.NumRows())
	rows := make([][]any, n)
	for r := range rows {
		rows[r] = make([]any, len(columns))
	}

	for c, col := range columns {
		arr := rec.Column(c)
		if arr.Len() != n {
			return nil, fmt.Errorf("%w: column %q has %d values for %d rows", updater.ErrCorruptArtifact, col.Name, arr.Len(), n)
		}
		if col.Kind == updater.KindNull {
			if arr.NullN() != n {
				return nil, fmt.Errorf("%w: null column %q holds values", updater.ErrCorruptArtifact, col.Name)
			}
			continue
		}

		for r := 0; r < n; r++ {
			if arr.IsNull(r) {
				continue
			}
			switch a := arr.(type) {
			case *array.Boolean:
				rows[r][c] = a.Value(r)
			case *array.Int64:
				rows[r][c] = a.Value(r)
			case *array.Float64:
				rows[r][c] = a.Value(r)
			case *array.String:
				rows[r][c] = strings.Clone(a.Value(r))
			case *array.Binary:
				rows[r][c] = append([]byte{}, a.Value(r)...)
			case *array.Timestamp:
				rows[r][c] = time.UnixMicro(int64(a.Value(r))).UTC()
			default:
				return nil, fmt.Errorf("%w: column %q has unexpected array %T", updater.ErrCorruptArtifact, col.Name, arr)
			}
		}
	}

	return rows, nil
}

var _ updater.Serializer = (*Codec)(nil)
