package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vvka-141/updater/pkg/updater"
)

// Materialize reads every row of rows into a Dataset and closes rows.
//
// Decoded pgx values are mapped onto dataset kinds: integers to int64,
// floats to float64, numeric to its exact decimal text, uuid to its
// canonical string, json and jsonb to compact JSON text, timestamps and
// dates to UTC time.Time. Other pgtype values use their PostgreSQL text
// form, anything else its fmt string.
func Materialize(rows pgx.Rows) (*updater.Dataset, error) {
	defer rows.Close()

	var raw [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", len(raw)+1, err)
		}

		fields := rows.FieldDescriptions()
		row := make([]any, len(values))
		for i, v := range values {
			var oid uint32
			if i < len(fields) {
				oid = fields[i].DataTypeOID
			}
			converted, err := convertValue(v, oid)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", len(raw)+1, i+1, err)
			}
			row[i] = converted
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	return updater.NewDataset(names, raw)
}

func convertValue(v any, oid uint32) (any, error) {
	if v == nil {
		return nil, nil
	}

	if oid == pgtype.JSONOID || oid == pgtype.JSONBOID {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json value: %w", err)
		}
		return string(b), nil
	}

	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return nil, nil
		}
		return textValue(x)
	case [16]byte:
		return uuid.UUID(x).String(), nil
	case time.Time:
		return x, nil
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T: %w", v, err)
		}
		return string(b), nil
	}

	if _, _, err := updater.NormalizeValue(v); err == nil {
		return v, nil
	}
	if valuer, ok := v.(driver.Valuer); ok {
		return textValue(valuer)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return fmt.Sprint(v), nil
}

// textValue renders a pgtype value through its driver.Valuer, which
// produces the PostgreSQL text encoding.
func textValue(v driver.Valuer) (any, error) {
	val, err := v.Value()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	if val == nil {
		return nil, nil
	}
	if _, _, err := updater.NormalizeValue(val); err == nil {
		return val, nil
	}
	return fmt.Sprint(val), nil
}
