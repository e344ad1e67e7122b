package schema

import (
	"fmt"
	"strings"

	"github.com/tuannm99/minisql/internal/record"
)

// DataType is a declared column type.
type DataType string

const (
	Integer DataType = "INTEGER"
	Text    DataType = "TEXT"
	Boolean DataType = "BOOLEAN"
	Float   DataType = "FLOAT"
)

// ParseDataType maps a (case-insensitive) type token to a DataType.
func ParseDataType(s string) (DataType, error) {
	switch DataType(strings.ToUpper(s)) {
	case Integer:
		return Integer, nil
	case Text:
		return Text, nil
	case Boolean:
		return Boolean, nil
	case Float:
		return Float, nil
	default:
		return "", &SchemaError{Msg: fmt.Sprintf("unknown data type: %s", s)}
	}
}

// SchemaError reports an invalid schema definition or a row/type mismatch.
type SchemaError struct {
	Column string
	Msg    string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema: column '%s': %s", e.Column, e.Msg)
	}
	return "schema: " + e.Msg
}

// Column describes one table column and its constraints.
type Column struct {
	Name       string   `json:"name"`
	Type       DataType `json:"data_type"`
	PrimaryKey bool     `json:"primary_key"`
	Unique     bool     `json:"unique"`
	NotNull    bool     `json:"not_null"`
}

// Validate reports whether v matches the column's declared type. NULL is
// valid only when the column is neither NOT NULL nor the primary key.
// INTEGER requires an exact integral value; FLOAT accepts integral and
// fractional numbers.
func (c Column) Validate(v record.Value) bool {
	if v.IsNull() {
		return !c.NotNull && !c.PrimaryKey
	}
	switch c.Type {
	case Integer:
		return v.Kind() == record.KindInt
	case Text:
		return v.Kind() == record.KindText
	case Boolean:
		return v.Kind() == record.KindBool
	case Float:
		return v.Kind() == record.KindInt || v.Kind() == record.KindFloat
	default:
		return false
	}
}

// Schema is an immutable ordered column list for one table. Column order
// defines the value-binding order for a column-less INSERT.
type Schema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// New validates and builds a schema: column names must be unique
// (case-sensitive) and at most one column may be the primary key.
func New(name string, columns []Column) (*Schema, error) {
	seen := make(map[string]struct{}, len(columns))
	pk := 0
	for _, col := range columns {
		if _, dup := seen[col.Name]; dup {
			return nil, &SchemaError{Column: col.Name, Msg: "duplicate column name"}
		}
		seen[col.Name] = struct{}{}
		if col.PrimaryKey {
			pk++
		}
	}
	if pk > 1 {
		return nil, &SchemaError{Msg: "table can have at most one primary key"}
	}
	return &Schema{Name: name, Columns: columns}, nil
}

// Column returns the named column, or nil if the schema has no such column.
func (s *Schema) Column(name string) *Column {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}

// PrimaryKey returns the primary key column, or nil when none is declared.
func (s *Schema) PrimaryKey() *Column {
	for i := range s.Columns {
		if s.Columns[i].PrimaryKey {
			return &s.Columns[i]
		}
	}
	return nil
}

// ValidateRow checks every schema column of row. Missing columns are filled
// with NULL in place, so row is an in/out parameter; a missing NOT NULL or
// primary key column fails instead. Any type mismatch fails with a
// SchemaError naming the column and value.
func (s *Schema) ValidateRow(row record.Row) error {
	for _, col := range s.Columns {
		if _, ok := row[col.Name]; !ok {
			if col.NotNull || col.PrimaryKey {
				return &SchemaError{Column: col.Name, Msg: "cannot be NULL"}
			}
			row[col.Name] = record.Null()
		}
	}
	for _, col := range s.Columns {
		if !col.Validate(row[col.Name]) {
			return &SchemaError{
				Column: col.Name,
				Msg:    fmt.Sprintf("invalid value: %s", row[col.Name]),
			}
		}
	}
	return nil
}
