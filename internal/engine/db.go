package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tuannm99/minisql/internal/index"
	"github.com/tuannm99/minisql/internal/schema"
	"github.com/tuannm99/minisql/internal/storage"
)

var (
	ErrTableExists   = errors.New("already exists")
	ErrTableNotFound = errors.New("does not exist")
)

// Database is the table registry: it owns every Table and its IndexManager
// and persists a lightweight metadata record (table name -> schema) so
// table structure can be reconstructed at startup. A hosting layer should
// hold one long-lived Database and inject it where queries are executed.
type Database struct {
	Name    string
	DataDir string

	mu      sync.RWMutex
	tables  map[string]*storage.Table
	indexes map[string]*index.Manager
}

// metadata is the persisted registry record, one per database.
type metadata struct {
	DBName string                    `json:"db_name"`
	Tables map[string]*schema.Schema `json:"tables"`
}

// Open creates or reopens the database under dataDir, reconstructing every
// table recorded in the metadata unit.
func Open(name, dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, &storage.StorageError{Op: "create data dir", Err: err}
	}

	db := &Database{
		Name:    name,
		DataDir: dataDir,
		tables:  make(map[string]*storage.Table),
		indexes: make(map[string]*index.Manager),
	}
	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) metadataPath() string {
	return filepath.Join(db.DataDir, "_metadata.json")
}

func (db *Database) load() error {
	data, err := os.ReadFile(db.metadataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &storage.StorageError{Op: "read metadata", Err: err}
	}

	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return &storage.StorageError{Op: "decode metadata", Err: err}
	}

	for tableName, sc := range meta.Tables {
		tbl, err := storage.Open(sc, db.DataDir)
		if err != nil {
			return fmt.Errorf("load table '%s': %w", tableName, err)
		}
		db.tables[tableName] = tbl
		db.indexes[tableName] = index.NewManager()
	}

	slog.Debug("database loaded", "name", db.Name, "tables", len(db.tables))
	return nil
}

// saveMetadata rewrites the metadata unit. Caller holds db.mu.
func (db *Database) saveMetadata() error {
	meta := metadata{
		DBName: db.Name,
		Tables: make(map[string]*schema.Schema, len(db.tables)),
	}
	for name, tbl := range db.tables {
		meta.Tables[name] = tbl.Schema()
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return &storage.StorageError{Op: "encode metadata", Err: err}
	}
	if err := os.WriteFile(db.metadataPath(), data, 0o644); err != nil {
		return &storage.StorageError{Op: "write metadata", Err: err}
	}
	return nil
}

// CreateTable registers a new table for sc, persists its (empty) unit and
// the updated metadata, and attaches a fresh index manager.
func (db *Database) CreateTable(sc *schema.Schema) (*storage.Table, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.tables[sc.Name]; exists {
		return nil, fmt.Errorf("table '%s' %w", sc.Name, ErrTableExists)
	}

	tbl, err := storage.Open(sc, db.DataDir)
	if err != nil {
		return nil, err
	}

	db.tables[sc.Name] = tbl
	db.indexes[sc.Name] = index.NewManager()

	if err := db.saveMetadata(); err != nil {
		return nil, err
	}
	return tbl, nil
}

// Table returns the named table, if registered.
func (db *Database) Table(name string) (*storage.Table, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	tbl, ok := db.tables[name]
	return tbl, ok
}

// IndexManager returns the index manager for the named table.
func (db *Database) IndexManager(name string) (*index.Manager, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	im, ok := db.indexes[name]
	return im, ok
}

// ListTables returns all table names, sorted.
func (db *Database) ListTables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableInfo is the introspection record returned by Describe.
type TableInfo struct {
	Name     string          `json:"name"`
	Columns  []schema.Column `json:"columns"`
	RowCount int             `json:"row_count"`
}

// Describe returns the named table's columns and row count.
func (db *Database) Describe(name string) (*TableInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tbl, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("table '%s' %w", name, ErrTableNotFound)
	}
	return &TableInfo{
		Name:     name,
		Columns:  tbl.Schema().Columns,
		RowCount: tbl.Count(),
	}, nil
}

// DropTable removes the table's backing unit, clears its in-memory state
// and index manager, and rewrites the metadata.
func (db *Database) DropTable(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tbl, ok := db.tables[name]
	if !ok {
		return fmt.Errorf("table '%s' %w", name, ErrTableNotFound)
	}
	if err := tbl.Drop(); err != nil {
		return err
	}
	delete(db.tables, name)
	delete(db.indexes, name)
	return db.saveMetadata()
}

// CreateIndex builds a hash index on table.column and populates it from the
// current rows. Lookups are not yet wired into query evaluation; the index
// is maintained on insert and delete only.
func (db *Database) CreateIndex(table, column string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tbl, ok := db.tables[table]
	if !ok {
		return fmt.Errorf("table '%s' %w", table, ErrTableNotFound)
	}
	if tbl.Schema().Column(column) == nil {
		return &schema.SchemaError{Column: column, Msg: "no such column"}
	}

	idx, err := db.indexes[table].CreateIndex(column)
	if err != nil {
		return err
	}
	idx.Rebuild(tbl.Rows())
	return nil
}

// RebuildIndexes re-derives every index of the named table from a full row
// scan, the authoritative recovery path after bulk changes.
func (db *Database) RebuildIndexes(table string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tbl, ok := db.tables[table]
	if !ok {
		return fmt.Errorf("table '%s' %w", table, ErrTableNotFound)
	}
	im := db.indexes[table]
	rows := tbl.Rows()
	for _, col := range tbl.Schema().Columns {
		if idx := im.Index(col.Name); idx != nil {
			idx.Rebuild(rows)
		}
	}
	return nil
}
