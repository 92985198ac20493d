// Package preview prints decoded artifacts for humans and scripts.
package preview

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/vvka-141/updater/pkg/updater"
)

const nullValue = "NULL"

// Render writes ds to w in the given format.
func Render(w io.Writer, ds *updater.Dataset, format Format) error {
	if ds == nil {
		return fmt.Errorf("attempt to render nil dataset")
	}

	if format != FormatTable {
		return renderCSV(w, ds)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col.Name
	}
	t.AppendHeader(header)

	for _, row := range ds.Rows {
		out := make(table.Row, len(row))
		for i, v := range row {
			out[i] = FormatValue(v)
		}
		t.AppendRow(out)
	}

	t.SetStyle(table.StyleLight)
	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault
	t.SetCaption("%d row(s)", len(ds.Rows))
	setAlignment(t, ds.Columns)
	t.Render()
	return nil
}

// Describe writes one "name<TAB>kind" line per column.
func Describe(w io.Writer, ds *updater.Dataset) error {
	for _, col := range ds.Columns {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", col.Name, col.Kind); err != nil {
			return err
		}
	}
	return nil
}

// renderCSV writes ds as RFC 4180 CSV with a header record.
func renderCSV(w io.Writer, ds *updater.Dataset) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(ds.Columns))
	for n, row := range ds.Rows {
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		if err := cw.Write(record[:len(row)]); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", n+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func setAlignment(t table.Writer, columns []updater.Column) {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		if col.Kind == updater.KindInt || col.Kind == updater.KindFloat {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	t.SetColumnConfigs(configs)
}

// FormatValue renders one dataset value as text.
// Bytes use PostgreSQL's hex form and timestamps RFC 3339.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return nullValue
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []byte:
		return `\x` + hex.EncodeToString(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}
