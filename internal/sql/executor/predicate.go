package executor

import (
	"strconv"
	"strings"

	"github.com/tuannm99/minisql/internal/record"
	"github.com/tuannm99/minisql/internal/storage"
)

// compareOps is probed in this order: two-character operators first, or a
// condition like "a >= 1" would split on the bare '=' and leave "a >" as
// the column side.
var compareOps = []string{">=", "<=", "!=", "=", ">", "<"}

// BuildPredicate turns a raw WHERE string into a row predicate. The string
// is scanned for the first operator in priority order and split into a
// column (any table qualifier stripped) and a literal. A string with no
// recognized operator yields a predicate matching every row; that is a
// deliberate pass-through, not an error.
func BuildPredicate(cond string) storage.Predicate {
	for _, op := range compareOps {
		idx := strings.Index(cond, op)
		if idx < 0 {
			continue
		}

		column := stripQualifier(strings.TrimSpace(cond[:idx]))
		raw := strings.TrimSpace(cond[idx+len(op):])

		if s, ok := unquote(raw); ok {
			return textPredicate(column, op, s)
		}
		return valuePredicate(column, op, coerceLiteral(raw))
	}

	return func(record.Row) bool { return true }
}

// stripQualifier removes a leading "table." qualifier from a column name.
func stripQualifier(column string) string {
	if i := strings.LastIndex(column, "."); i >= 0 {
		return column[i+1:]
	}
	return column
}

// unquote strips one level of matching single or double quotes.
func unquote(raw string) (string, bool) {
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') ||
			(raw[0] == '"' && raw[len(raw)-1] == '"') {
			return raw[1 : len(raw)-1], true
		}
	}
	return "", false
}

// coerceLiteral parses an unquoted WHERE literal: integer, then float,
// then the raw text. Unlike VALUES/SET literals there is no NULL or
// boolean keyword handling here.
func coerceLiteral(raw string) record.Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return record.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return record.Float(f)
	}
	return record.Text(raw)
}

// textPredicate compares the row value coerced to its string form against
// a quoted literal. Null and missing values coerce to the empty string for
// equality; ordering against them is false.
func textPredicate(column, op, want string) storage.Predicate {
	return func(row record.Row) bool {
		rv := row.Get(column)
		got := ""
		if !rv.IsNull() {
			got = rv.String()
		}

		switch op {
		case "=":
			return got == want
		case "!=":
			return got != want
		}
		if rv.IsNull() {
			return false
		}
		return cmpMatches(op, strings.Compare(got, want))
	}
}

// valuePredicate compares the row value against an unquoted literal.
// Ordering against a null/missing value, or between non-orderable kinds,
// evaluates to false rather than erroring.
func valuePredicate(column, op string, want record.Value) storage.Predicate {
	return func(row record.Row) bool {
		rv := row.Get(column)

		switch op {
		case "=":
			return rv.Equal(want)
		case "!=":
			return !rv.Equal(want)
		}
		if rv.IsNull() {
			return false
		}
		c, ok := rv.Compare(want)
		if !ok {
			return false
		}
		return cmpMatches(op, c)
	}
}

func cmpMatches(op string, c int) bool {
	switch op {
	case ">":
		return c > 0
	case "<":
		return c < 0
	case ">=":
		return c >= 0
	case "<=":
		return c <= 0
	default:
		return false
	}
}
