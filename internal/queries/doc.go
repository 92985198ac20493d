// Package queries parses query definition files.
//
// A query file holds one query per line in the form
//
//	<name>: <SQL text>
//
// The line is split on the first ": " occurrence, so the SQL may itself
// contain ": ". Blank lines are skipped; multi-line statements are not supported.
package queries
