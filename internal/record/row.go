package record

// RowIDKey is the reserved column holding the engine-assigned row identifier.
// It is monotonically increasing per table and never reused after deletion.
const RowIDKey = "_rowid"

// Row maps column names to values. Absent columns read as NULL.
type Row map[string]Value

// Get returns the value for col, or NULL when the column is absent.
func (r Row) Get(col string) Value {
	if v, ok := r[col]; ok {
		return v
	}
	return Null()
}

// RowID returns the stored row identifier, or 0 when unassigned.
func (r Row) RowID() int64 {
	v, ok := r[RowIDKey]
	if !ok || v.Kind() != KindInt {
		return 0
	}
	return v.Int()
}

// Clone returns a shallow copy; Values are immutable so this is a full copy.
func (r Row) Clone() Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}
