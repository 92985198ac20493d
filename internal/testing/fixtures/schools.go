package fixtures

import (
	"fmt"
	"strings"
)

// SchoolsSchema creates the tables the sample queries read from.
const SchoolsSchema = `
CREATE TABLE schools (
    id         integer PRIMARY KEY,
    name       text NOT NULL,
    region     text,
    rating     numeric(4, 2),
    opened_at  timestamptz,
    is_active  boolean NOT NULL DEFAULT true
);

CREATE TABLE similar_schools (
    school_id  integer NOT NULL REFERENCES schools (id),
    reference  integer NOT NULL REFERENCES schools (id),
    score      double precision NOT NULL
);
`

// SchoolsData seeds three schools and two similarity edges.
const SchoolsData = `
INSERT INTO schools (id, name, region, rating, opened_at, is_active) VALUES
    (1, 'School 1', 'North', 4.50, '2001-09-01 08:00:00+00', true),
    (2, 'School 2', 'South', NULL, '1998-09-01 08:00:00+00', true),
    (3, 'School 3', NULL,    3.25, NULL,                      false);

INSERT INTO similar_schools (school_id, reference, score) VALUES
    (1, 2, 0.87),
    (1, 3, 0.42);
`

// QueryFileBuilder builds the contents of a queries file.
//
// Example usage:
//
//	content := NewQueryFileBuilder().
//	    Add("schools", "SELECT * FROM schools").
//	    Blank().
//	    Add("similar_schools", "SELECT * FROM similar_schools").
//	    String()
type QueryFileBuilder struct {
	lines []string
}

// NewQueryFileBuilder returns an empty builder.
func NewQueryFileBuilder() *QueryFileBuilder {
	return &QueryFileBuilder{}
}

// Add appends a "<name>: <sql>" line.
func (b *QueryFileBuilder) Add(name, sql string) *QueryFileBuilder {
	b.lines = append(b.lines, fmt.Sprintf("%s: %s", name, sql))
	return b
}

// Blank appends an empty line.
func (b *QueryFileBuilder) Blank() *QueryFileBuilder {
	b.lines = append(b.lines, "")
	return b
}

// Raw appends line verbatim.
func (b *QueryFileBuilder) Raw(line string) *QueryFileBuilder {
	b.lines = append(b.lines, line)
	return b
}

// String returns the file content with a trailing newline.
func (b *QueryFileBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// SchoolQueries is the two-query file used by end-to-end tests.
func SchoolQueries() string {
	return NewQueryFileBuilder().
		Add("schools", "SELECT id, name, region, rating, opened_at, is_active FROM schools ORDER BY id").
		Add("similar_schools", "SELECT s.id AS school_id, s.name, ss.reference, s.region FROM similar_schools ss JOIN schools s ON s.id = ss.school_id ORDER BY ss.reference").
		String()
}
