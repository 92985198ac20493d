package queries

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/updater/pkg/updater"
)

// Delimiter separates the query name from its SQL text.
const Delimiter = ": "

// maxLineSize bounds a single query line.
const maxLineSize = 16 * 1024 * 1024

// Parse reads query definitions from r, preserving file order.
func Parse(r io.Reader) ([]updater.QuerySpec, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var specs []updater.QuerySpec
	seen := make(map[string]int)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Only empty lines are skipped; a CR left by CRLF endings counts as empty.
		if strings.TrimSuffix(line, "\r") == "" {
			continue
		}

		name, sql, ok := strings.Cut(line, Delimiter)
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"<name>%s<sql>\", got %q: %w",
				lineNum, Delimiter, preview(line), updater.ErrMalformedQueryLine)
		}

		if first, dup := seen[name]; dup {
			return nil, fmt.Errorf("line %d: query %q already defined on line %d: %w",
				lineNum, name, first, updater.ErrDuplicateQuery)
		}
		seen[name] = lineNum

		specs = append(specs, updater.QuerySpec{
			Name: name,
			SQL:  strings.TrimRight(sql, " \t\r\n\v\f"),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries at line %d: %w", lineNum+1, err)
	}

	return specs, nil
}

// LoadFile parses the query definition file at path.
func LoadFile(path string) ([]updater.QuerySpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query file: %w", err)
	}
	defer f.Close()

	specs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// Names returns the query names in order.
func Names(specs []updater.QuerySpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

func preview(line string) string {
	const max = 80
	if len(line) <= max {
		return line
	}
	return line[:max] + "..."
}
