package db

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/updater/pkg/updater"
)

func TestMaterialize_ConvertsPgxValues(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	id := [16]byte{0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4, 0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00}
	numeric := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}

	rows := newFakeRows(
		[]string{"small", "ratio", "amount", "uid", "payload", "updated_at", "flag", "raw"},
		[]any{int16(7), float32(1.5), numeric, id, map[string]any{"a": float64(1)}, ts, true, []byte{1, 2}},
		[]any{nil, nil, pgtype.Numeric{}, nil, nil, nil, nil, nil},
	).withOID(4, pgtype.JSONBOID)

	ds, err := Materialize(rows)
	require.NoError(t, err)
	assert.True(t, rows.closed)

	assert.Equal(t, []updater.Column{
		{Name: "small", Kind: updater.KindInt},
		{Name: "ratio", Kind: updater.KindFloat},
		{Name: "amount", Kind: updater.KindString},
		{Name: "uid", Kind: updater.KindString},
		{Name: "payload", Kind: updater.KindString},
		{Name: "updated_at", Kind: updater.KindTimestamp},
		{Name: "flag", Kind: updater.KindBool},
		{Name: "raw", Kind: updater.KindBytes},
	}, ds.Columns)

	first := ds.Rows[0]
	assert.Equal(t, int64(7), first[0])
	assert.Equal(t, 1.5, first[1])
	assert.Equal(t, "123.45", first[2])
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", first[3])
	assert.Equal(t, `{"a":1}`, first[4])
	assert.Equal(t, ts.UTC(), first[5])

	for i, v := range ds.Rows[1] {
		assert.Nil(t, v, "column %d should be nil", i)
	}
}

func TestMaterialize_JSONScalarsStayText(t *testing.T) {
	rows := newFakeRows([]string{"doc"},
		[]any{"plain"},
		[]any{float64(3)},
	).withOID(0, pgtype.JSONOID)

	ds, err := Materialize(rows)
	require.NoError(t, err)
	assert.Equal(t, updater.KindString, ds.Columns[0].Kind)
	assert.Equal(t, `"plain"`, ds.Rows[0][0])
	assert.Equal(t, "3", ds.Rows[1][0])
}

func TestMaterialize_NumericKeepsExactDigits(t *testing.T) {
	wide, ok := new(big.Int).SetString("12345678901234567890123", 10)
	require.True(t, ok)

	rows := newFakeRows([]string{"amount"},
		[]any{pgtype.Numeric{Int: wide, Exp: -4, Valid: true}},
	)

	ds, err := Materialize(rows)
	require.NoError(t, err)
	assert.Equal(t, updater.KindString, ds.Columns[0].Kind)
	assert.Equal(t, "1234567890123456789.0123", ds.Rows[0][0])
}

func TestMaterialize_IntervalUsesPostgresText(t *testing.T) {
	rows := newFakeRows([]string{"wait"},
		[]any{pgtype.Interval{Days: 1, Microseconds: 90 * 60 * 1_000_000, Valid: true}},
		[]any{pgtype.Interval{}},
	)

	ds, err := Materialize(rows)
	require.NoError(t, err)
	assert.Equal(t, updater.KindString, ds.Columns[0].Kind)

	text, ok := ds.Rows[0][0].(string)
	require.True(t, ok)
	assert.Contains(t, text, "1 day")
	assert.Contains(t, text, "01:30:00")
	assert.NotContains(t, text, "{")
	assert.Nil(t, ds.Rows[1][0])
}

type stringerValue struct{}

func (stringerValue) String() string { return "stringer" }

func TestMaterialize_FallsBackToStringForm(t *testing.T) {
	rows := newFakeRows([]string{"a", "b"},
		[]any{stringerValue{}, struct{ X int }{X: 4}},
	)

	ds, err := Materialize(rows)
	require.NoError(t, err)
	assert.Equal(t, "stringer", ds.Rows[0][0])
	assert.Equal(t, "{4}", ds.Rows[0][1])
}

func TestMaterialize_EmptyResultKeepsColumns(t *testing.T) {
	ds, err := Materialize(newFakeRows([]string{"id", "name"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, ds.ColumnNames())
	assert.Empty(t, ds.Rows)
	assert.NotNil(t, ds.Rows)
}

func TestMaterialize_ValuesError(t *testing.T) {
	rows := newFakeRows([]string{"a"}, []any{int64(1)})
	rows.valErr = errors.New("cannot decode")

	_, err := Materialize(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.True(t, rows.closed)
}
