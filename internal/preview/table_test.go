package preview

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/updater/pkg/updater"
)

func sampleDataset(t *testing.T) *updater.Dataset {
	t.Helper()
	ds, err := updater.NewDataset([]string{"id", "name", "rating", "opened_at", "raw"}, [][]any{
		{1, "School 1", 4.5, time.Date(2001, 9, 1, 8, 0, 0, 0, time.UTC), []byte{0xde, 0xad}},
		{2, "School, Two", nil, nil, nil},
	})
	require.NoError(t, err)
	return ds
}

func TestRender_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleDataset(t), FormatCSV))

	assert.Equal(t,
		"id,name,rating,opened_at,raw\n"+
			"1,School 1,4.5,2001-09-01T08:00:00Z,\\xdead\n"+
			"2,\"School, Two\",NULL,NULL,NULL\n",
		buf.String())
}

func TestRender_CSVQuotingRoundTrips(t *testing.T) {
	ds, err := updater.NewDataset([]string{"name", "note"}, [][]any{
		{"School, Two", `say "hi"`},
		{"multi\nline", `back\slash`},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, ds, FormatCSV))
	assert.NotContains(t, buf.String(), `\,`)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "note"},
		{"School, Two", `say "hi"`},
		{"multi\nline", `back\slash`},
	}, records)
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleDataset(t), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "opened_at")
	assert.Contains(t, out, "School 1")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "2 row(s)")
	assert.Contains(t, out, "┌")
}

func TestRender_Nil(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, nil, FormatCSV))
}

func TestDescribe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Describe(&buf, sampleDataset(t)))
	assert.Equal(t, "id\tint\nname\tstring\nrating\tfloat\nopened_at\ttimestamp\nraw\tbytes\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{true, "true"},
		{int64(-3), "-3"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{[]byte{}, `\x`},
		{time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC), "2024-01-02T03:04:05.000006Z"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}
