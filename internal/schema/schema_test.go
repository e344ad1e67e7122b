package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/minisql/internal/record"
)

func TestParseDataType(t *testing.T) {
	for _, in := range []string{"INTEGER", "integer", "Float", "TEXT", "boolean"} {
		_, err := ParseDataType(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseDataType("VARCHAR")
	require.Error(t, err)
	var serr *SchemaError
	assert.ErrorAs(t, err, &serr)
}

func TestNewSchemaRejectsBadDefinitions(t *testing.T) {
	_, err := New("t", []Column{
		{Name: "id", Type: Integer},
		{Name: "id", Type: Text},
	})
	assert.Error(t, err, "duplicate column name")

	_, err = New("t", []Column{
		{Name: "a", Type: Integer, PrimaryKey: true},
		{Name: "b", Type: Integer, PrimaryKey: true},
	})
	assert.Error(t, err, "two primary keys")
}

func TestColumnValidate(t *testing.T) {
	intCol := Column{Name: "age", Type: Integer}
	assert.True(t, intCol.Validate(record.Int(30)))
	assert.True(t, intCol.Validate(record.Null()))
	assert.False(t, intCol.Validate(record.Text("30")))
	assert.False(t, intCol.Validate(record.Float(30.0)), "INTEGER does not accept floats")

	floatCol := Column{Name: "score", Type: Float}
	assert.True(t, floatCol.Validate(record.Float(1.5)))
	assert.True(t, floatCol.Validate(record.Int(2)), "FLOAT accepts integers")

	notNull := Column{Name: "name", Type: Text, NotNull: true}
	assert.False(t, notNull.Validate(record.Null()))

	pk := Column{Name: "id", Type: Integer, PrimaryKey: true}
	assert.False(t, pk.Validate(record.Null()), "primary key implies NOT NULL")
}

func TestValidateRowFillsMissingColumns(t *testing.T) {
	sc, err := New("users", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "name", Type: Text},
		{Name: "email", Type: Text},
	})
	require.NoError(t, err)

	row := record.Row{"id": record.Int(1), "name": record.Text("Alice")}
	require.NoError(t, sc.ValidateRow(row))
	v, ok := row["email"]
	require.True(t, ok, "missing nullable column filled in place")
	assert.True(t, v.IsNull())
}

func TestValidateRowMissingRequired(t *testing.T) {
	sc, err := New("users", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "name", Type: Text, NotNull: true},
	})
	require.NoError(t, err)

	err = sc.ValidateRow(record.Row{"id": record.Int(1)})
	require.Error(t, err)
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "name", serr.Column)
}

func TestValidateRowTypeMismatch(t *testing.T) {
	sc, err := New("users", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
	})
	require.NoError(t, err)

	err = sc.ValidateRow(record.Row{"id": record.Text("one")})
	require.Error(t, err)
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "id", serr.Column)
}

func TestSchemaLookups(t *testing.T) {
	sc, err := New("users", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "name", Type: Text},
	})
	require.NoError(t, err)

	col := sc.Column("name")
	require.NotNil(t, col)
	assert.Equal(t, Text, col.Type)

	assert.Nil(t, sc.Column("NAME"), "column lookup is case sensitive")
	assert.Nil(t, sc.Column("missing"))

	pk := sc.PrimaryKey()
	require.NotNil(t, pk)
	assert.Equal(t, "id", pk.Name)
}
