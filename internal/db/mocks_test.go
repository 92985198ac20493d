package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRows struct {
	fields []pgconn.FieldDescription
	rows   [][]any
	pos    int
	err    error
	valErr error
	closed bool
}

func newFakeRows(columns []string, rows ...[]any) *fakeRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, c := range columns {
		fields[i] = pgconn.FieldDescription{Name: c}
	}
	return &fakeRows{fields: fields, rows: rows}
}

func (r *fakeRows) withOID(col int, oid uint32) *fakeRows {
	r.fields[col].DataTypeOID = oid
	return r
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.rows) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return errors.New("Scan not supported by fakeRows")
}

func (r *fakeRows) Values() ([]any, error) {
	if r.valErr != nil {
		return nil, r.valErr
	}
	return r.rows[r.pos-1], nil
}

type fakeQuerier struct {
	results  map[string]*fakeRows
	errs     map[string]error
	executed []string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.executed = append(q.executed, sql)
	if err, ok := q.errs[sql]; ok {
		return nil, err
	}
	rows, ok := q.results[sql]
	if !ok {
		return nil, errors.New("unexpected query: " + sql)
	}
	return rows, nil
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}
