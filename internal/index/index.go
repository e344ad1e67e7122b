package index

import (
	"github.com/tuannm99/minisql/internal/record"
)

// IndexError reports index management failures.
type IndexError struct {
	Msg string
}

func (e *IndexError) Error() string { return "index: " + e.Msg }

// Operation names the row mutation an index update reacts to.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Index is an in-memory hash index mapping a column value to the set of
// rowids holding it. Indexes are never persisted; Rebuild from a full row
// scan is the authoritative recovery path.
type Index struct {
	Column string
	data   map[record.Value]map[int64]struct{}
}

// New creates an empty index on column.
func New(column string) *Index {
	return &Index{
		Column: column,
		data:   make(map[record.Value]map[int64]struct{}),
	}
}

// Add records rowID under value.
func (idx *Index) Add(value record.Value, rowID int64) {
	ids, ok := idx.data[value]
	if !ok {
		ids = make(map[int64]struct{})
		idx.data[value] = ids
	}
	ids[rowID] = struct{}{}
}

// Remove drops the (value, rowID) pairing; absent pairings are a no-op.
// Removing the last rowid for a value drops the value's entry entirely.
func (idx *Index) Remove(value record.Value, rowID int64) {
	ids, ok := idx.data[value]
	if !ok {
		return
	}
	delete(ids, rowID)
	if len(ids) == 0 {
		delete(idx.data, value)
	}
}

// Lookup returns a defensive copy of the rowid set for value; the set is
// empty when the value is absent.
func (idx *Index) Lookup(value record.Value) map[int64]struct{} {
	out := make(map[int64]struct{}, len(idx.data[value]))
	for id := range idx.data[value] {
		out[id] = struct{}{}
	}
	return out
}

// Len returns the number of distinct indexed values.
func (idx *Index) Len() int { return len(idx.data) }

// Clear empties the index.
func (idx *Index) Clear() {
	idx.data = make(map[record.Value]map[int64]struct{})
}

// Rebuild clears the index and repopulates it from a full row scan. Rows
// without a rowid or without the indexed column are skipped.
func (idx *Index) Rebuild(rows []record.Row) {
	idx.Clear()
	for _, row := range rows {
		if _, ok := row[record.RowIDKey]; !ok {
			continue
		}
		if v, ok := row[idx.Column]; ok {
			idx.Add(v, row.RowID())
		}
	}
}

// Manager maintains the per-column indexes of one table.
type Manager struct {
	indexes map[string]*Index
}

func NewManager() *Manager {
	return &Manager{indexes: make(map[string]*Index)}
}

// CreateIndex creates an index on column, failing if one already exists.
func (m *Manager) CreateIndex(column string) (*Index, error) {
	if _, ok := m.indexes[column]; ok {
		return nil, &IndexError{Msg: "index already exists on column: " + column}
	}
	idx := New(column)
	m.indexes[column] = idx
	return idx, nil
}

// Index returns the index on column, or nil when none exists.
func (m *Manager) Index(column string) *Index {
	return m.indexes[column]
}

// Has reports whether column is indexed.
func (m *Manager) Has(column string) bool {
	_, ok := m.indexes[column]
	return ok
}

// DropIndex removes the index on column, if any.
func (m *Manager) DropIndex(column string) {
	delete(m.indexes, column)
}

// UpdateAll applies a row mutation to every index covering one of the
// row's columns. Only insert and delete are handled; an update leaves the
// indexes untouched, so Rebuild is required before indexed values changed
// by UPDATE can be trusted.
func (m *Manager) UpdateAll(row record.Row, op Operation) {
	if _, ok := row[record.RowIDKey]; !ok {
		return
	}
	rowID := row.RowID()

	for column, idx := range m.indexes {
		v, ok := row[column]
		if !ok {
			continue
		}
		switch op {
		case OpInsert:
			idx.Add(v, rowID)
		case OpDelete:
			idx.Remove(v, rowID)
		}
	}
}
