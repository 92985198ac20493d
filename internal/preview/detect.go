package preview

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Format selects how a dataset is printed.
type Format int

const (
	// FormatCSV is used for pipes, files, and CI logs.
	FormatCSV Format = iota
	// FormatTable is used when a human is at the terminal.
	FormatTable
)

// DetectFormat picks FormatTable when w is a terminal, FormatCSV otherwise.
//
// Returns FormatCSV if:
//   - w is not an *os.File or is not a terminal
//   - CI is set (common CI/CD convention)
//   - UPDATER_PLAIN=1 is set
func DetectFormat(w io.Writer) Format {
	if os.Getenv("UPDATER_PLAIN") == "1" {
		return FormatCSV
	}
	if os.Getenv("CI") != "" {
		return FormatCSV
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return FormatCSV
	}
	return FormatTable
}
