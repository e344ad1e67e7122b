package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/minisql/internal/record"
	"github.com/tuannm99/minisql/internal/schema"
	"github.com/tuannm99/minisql/internal/storage"
)

func newSchema(t *testing.T, name string) *schema.Schema {
	t.Helper()
	sc, err := schema.New(name, []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
		{Name: "name", Type: schema.Text},
	})
	require.NoError(t, err)
	return sc
}

func TestCreateTableAndMetadata(t *testing.T) {
	dir := t.TempDir()
	db, err := Open("testdb", dir)
	require.NoError(t, err)

	_, err = db.CreateTable(newSchema(t, "users"))
	require.NoError(t, err)

	_, err = db.CreateTable(newSchema(t, "users"))
	assert.ErrorIs(t, err, ErrTableExists)

	_, err = os.Stat(filepath.Join(dir, "_metadata.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "users.json"))
	assert.NoError(t, err)
}

func TestReopenReconstructsTables(t *testing.T) {
	dir := t.TempDir()
	db, err := Open("testdb", dir)
	require.NoError(t, err)

	tbl, err := db.CreateTable(newSchema(t, "users"))
	require.NoError(t, err)
	_, err = tbl.Insert(record.Row{"id": record.Int(1), "name": record.Text("Alice")})
	require.NoError(t, err)

	reopened, err := Open("testdb", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"users"}, reopened.ListTables())
	got, ok := reopened.Table("users")
	require.True(t, ok)
	assert.Equal(t, 1, got.Count())

	im, ok := reopened.IndexManager("users")
	require.True(t, ok, "every reconstructed table gets a fresh index manager")
	assert.False(t, im.Has("id"))
}

func TestDescribe(t *testing.T) {
	db, err := Open("testdb", t.TempDir())
	require.NoError(t, err)

	tbl, err := db.CreateTable(newSchema(t, "users"))
	require.NoError(t, err)
	_, err = tbl.Insert(record.Row{"id": record.Int(1)})
	require.NoError(t, err)

	info, err := db.Describe("users")
	require.NoError(t, err)
	assert.Equal(t, "users", info.Name)
	assert.Equal(t, 1, info.RowCount)
	require.Len(t, info.Columns, 2)
	assert.True(t, info.Columns[0].PrimaryKey)

	_, err = db.Describe("ghost")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestDropTable(t *testing.T) {
	dir := t.TempDir()
	db, err := Open("testdb", dir)
	require.NoError(t, err)

	_, err = db.CreateTable(newSchema(t, "users"))
	require.NoError(t, err)

	require.NoError(t, db.DropTable("users"))
	assert.Empty(t, db.ListTables())
	_, err = os.Stat(filepath.Join(dir, "users.json"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, db.DropTable("users"), ErrTableNotFound)

	// The drop survives a reopen because the metadata was rewritten.
	reopened, err := Open("testdb", dir)
	require.NoError(t, err)
	assert.Empty(t, reopened.ListTables())
}

func TestCreateIndex(t *testing.T) {
	db, err := Open("testdb", t.TempDir())
	require.NoError(t, err)

	tbl, err := db.CreateTable(newSchema(t, "users"))
	require.NoError(t, err)
	_, err = tbl.Insert(record.Row{"id": record.Int(1), "name": record.Text("Alice")})
	require.NoError(t, err)
	_, err = tbl.Insert(record.Row{"id": record.Int(2), "name": record.Text("Alice")})
	require.NoError(t, err)

	require.NoError(t, db.CreateIndex("users", "name"))

	im, _ := db.IndexManager("users")
	idx := im.Index("name")
	require.NotNil(t, idx)
	assert.Len(t, idx.Lookup(record.Text("Alice")), 2, "index populated from existing rows")

	err = db.CreateIndex("users", "nope")
	var serr *schema.SchemaError
	assert.ErrorAs(t, err, &serr)

	assert.ErrorIs(t, db.CreateIndex("ghost", "name"), ErrTableNotFound)
}

func TestRebuildIndexes(t *testing.T) {
	db, err := Open("testdb", t.TempDir())
	require.NoError(t, err)

	tbl, err := db.CreateTable(newSchema(t, "users"))
	require.NoError(t, err)
	_, err = tbl.Insert(record.Row{"id": record.Int(1), "name": record.Text("Old")})
	require.NoError(t, err)
	require.NoError(t, db.CreateIndex("users", "name"))

	// Mutate past the index (Update does not maintain indexes), then rebuild.
	_, err = tbl.Update(
		[]storage.Assignment{{Column: "name", Value: record.Text("New")}},
		nil,
	)
	require.NoError(t, err)

	im, _ := db.IndexManager("users")
	assert.Len(t, im.Index("name").Lookup(record.Text("Old")), 1, "stale until rebuilt")

	require.NoError(t, db.RebuildIndexes("users"))
	assert.Empty(t, im.Index("name").Lookup(record.Text("Old")))
	assert.Len(t, im.Index("name").Lookup(record.Text("New")), 1)
}
