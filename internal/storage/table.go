package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tuannm99/minisql/internal/record"
	"github.com/tuannm99/minisql/internal/schema"
)

// ConstraintError reports a primary-key, unique or assignment violation,
// naming the offending column and value.
type ConstraintError struct {
	Column string
	Value  record.Value
	Msg    string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: %s: %s=%s", e.Msg, e.Column, e.Value)
}

// StorageError reports a persistence I/O failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// Predicate selects rows; a nil Predicate matches every row.
type Predicate func(record.Row) bool

// Assignment is one column update applied by Update, in statement order.
type Assignment struct {
	Column string
	Value  record.Value
}

// Table owns one table's rows exclusively and persists the whole unit
// (schema + rows + next rowid) to a single JSON file after every successful
// mutation. The mutex makes the single-writer assumption explicit: one
// read-modify-persist sequence at a time. Concurrent processes on the same
// file remain out of contract.
type Table struct {
	mu        sync.Mutex
	schema    *schema.Schema
	dataDir   string
	rows      []record.Row
	nextRowID int64
}

// tableUnit is the persisted form of a table.
type tableUnit struct {
	Schema    *schema.Schema `json:"schema"`
	Rows      []record.Row   `json:"rows"`
	NextRowID int64          `json:"next_rowid"`
}

// Open returns a table for sc backed by a file under dataDir, loading any
// previously persisted rows. A table created for the first time is
// persisted immediately so the unit exists on disk from creation.
func Open(sc *schema.Schema, dataDir string) (*Table, error) {
	t := &Table{
		schema:    sc,
		dataDir:   dataDir,
		nextRowID: 1,
	}

	data, err := os.ReadFile(t.filePath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, &StorageError{Op: "read table unit", Err: err}
		}
		if err := t.persist(); err != nil {
			return nil, err
		}
		return t, nil
	}

	var unit tableUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, &StorageError{Op: "decode table unit", Err: err}
	}
	t.rows = unit.Rows
	if unit.NextRowID > 0 {
		t.nextRowID = unit.NextRowID
	}
	return t, nil
}

func (t *Table) Schema() *schema.Schema { return t.schema }

func (t *Table) filePath() string {
	return filepath.Join(t.dataDir, t.schema.Name+".json")
}

// persist rewrites the entire table unit synchronously. Not atomic: a crash
// mid-write can leave a partially written unit.
func (t *Table) persist() error {
	unit := tableUnit{
		Schema:    t.schema,
		Rows:      t.rows,
		NextRowID: t.nextRowID,
	}
	data, err := json.MarshalIndent(unit, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode table unit", Err: err}
	}
	if err := os.WriteFile(t.filePath(), data, 0o644); err != nil {
		return &StorageError{Op: "write table unit", Err: err}
	}
	return nil
}

// Insert validates row against the schema (filling absent columns with
// NULL), scans the primary key and every unique column for conflicts, then
// appends a copy and persists the unit. On any failure nothing is appended
// and persisted state is unchanged. The returned row carries the assigned
// rowid.
func (t *Table) Insert(row record.Row) (record.Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := row[record.RowIDKey]; !ok {
		row[record.RowIDKey] = record.Int(t.nextRowID)
		t.nextRowID++
	}

	if err := t.schema.ValidateRow(row); err != nil {
		return nil, err
	}

	if pk := t.schema.PrimaryKey(); pk != nil {
		v := row.Get(pk.Name)
		for _, existing := range t.rows {
			if existing.Get(pk.Name).Equal(v) {
				return nil, &ConstraintError{
					Column: pk.Name,
					Value:  v,
					Msg:    "primary key already exists",
				}
			}
		}
	}

	for _, col := range t.schema.Columns {
		if !col.Unique {
			continue
		}
		v := row.Get(col.Name)
		if v.IsNull() {
			continue
		}
		for _, existing := range t.rows {
			if existing.Get(col.Name).Equal(v) {
				return nil, &ConstraintError{
					Column: col.Name,
					Value:  v,
					Msg:    "unique value already exists",
				}
			}
		}
	}

	t.rows = append(t.rows, row.Clone())
	if err := t.persist(); err != nil {
		return nil, err
	}
	return row, nil
}

// Select returns copies of the rows matching pred, in storage order, each
// reduced to the requested columns. A nil column list or a "*" entry keeps
// the full row; requested columns absent from a row are silently omitted.
func (t *Table) Select(columns []string, pred Predicate) []record.Row {
	t.mu.Lock()
	defer t.mu.Unlock()

	all := columns == nil
	for _, c := range columns {
		if c == "*" {
			all = true
			break
		}
	}

	var out []record.Row
	for _, row := range t.rows {
		if pred != nil && !pred(row) {
			continue
		}
		if all {
			out = append(out, row.Clone())
			continue
		}
		projected := make(record.Row, len(columns))
		for _, c := range columns {
			if v, ok := row[c]; ok {
				projected[c] = v
			}
		}
		out = append(out, projected)
	}
	return out
}

// Update applies the assignments in order to every row matching pred,
// re-validating each value against its column type. It fails on the first
// unknown column or invalid value; rows already mutated in the call stay
// mutated in memory but the partial state is not persisted. On success it
// persists once, only if at least one row matched, and returns the matched
// count.
func (t *Table) Update(assigns []Assignment, pred Predicate) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, row := range t.rows {
		if pred != nil && !pred(row) {
			continue
		}
		for _, a := range assigns {
			col := t.schema.Column(a.Column)
			if col == nil {
				return count, &ConstraintError{
					Column: a.Column,
					Value:  a.Value,
					Msg:    "unknown column",
				}
			}
			if !col.Validate(a.Value) {
				return count, &ConstraintError{
					Column: a.Column,
					Value:  a.Value,
					Msg:    "invalid value",
				}
			}
			row[col.Name] = a.Value
		}
		count++
	}

	if count > 0 {
		if err := t.persist(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Delete removes every row matching pred in one pass, persists once if any
// row was removed, and returns the removed count.
func (t *Table) Delete(pred Predicate) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pred == nil {
		count := len(t.rows)
		t.rows = nil
		if count > 0 {
			if err := t.persist(); err != nil {
				return count, err
			}
		}
		return count, nil
	}

	kept := t.rows[:0]
	for _, row := range t.rows {
		if !pred(row) {
			kept = append(kept, row)
		}
	}
	count := len(t.rows) - len(kept)
	t.rows = kept
	if count > 0 {
		if err := t.persist(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Drop removes the backing file and clears in-memory rows. Dropping a table
// whose file is already gone is not an error.
func (t *Table) Drop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.Remove(t.filePath()); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "remove table unit", Err: err}
	}
	t.rows = nil
	return nil
}

// Count returns the current row count.
func (t *Table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Rows returns a copy of every row in storage order. The join evaluator
// iterates these directly.
func (t *Table) Rows() []record.Row {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]record.Row, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.Clone()
	}
	return out
}
