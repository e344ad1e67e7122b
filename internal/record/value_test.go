package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqual_NumericCrossKind(t *testing.T) {
	assert.True(t, Int(1).Equal(Float(1.0)))
	assert.True(t, Float(2.5).Equal(Float(2.5)))
	assert.False(t, Int(1).Equal(Int(2)))
	assert.False(t, Int(1).Equal(Text("1")))
	assert.False(t, Bool(true).Equal(Int(1)))
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Null().Equal(Int(0)))
}

func TestValueCompare(t *testing.T) {
	c, ok := Int(1).Compare(Float(2.0))
	require.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = Text("b").Compare(Text("a"))
	require.True(t, ok)
	assert.Equal(t, 1, c)

	_, ok = Null().Compare(Int(1))
	assert.False(t, ok)

	_, ok = Bool(true).Compare(Bool(false))
	assert.False(t, ok)

	_, ok = Text("1").Compare(Int(1))
	assert.False(t, ok)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "1.5", Float(1.5).String())
	assert.Equal(t, "1.0", Float(1).String())
	assert.Equal(t, "hello", Text("hello").String())
	assert.Equal(t, "true", Bool(true).String())
}

func TestValueJSON_RoundTripKeepsKind(t *testing.T) {
	values := []Value{
		Null(),
		Int(1),
		Int(-99),
		Float(1.0), // must not collapse to an integer on reload
		Float(3.25),
		Text("Alice"),
		Text(`quote " and \ slash`),
		Bool(true),
		Bool(false),
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var got Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, v.Kind(), got.Kind(), "kind lost for %s (wire: %s)", v, data)
		assert.True(t, v.Equal(got), "value changed for %s (wire: %s)", v, data)
	}
}

func TestValueJSON_FloatKeepsMarker(t *testing.T) {
	data, err := json.Marshal(Float(1))
	require.NoError(t, err)
	assert.Equal(t, "1.0", string(data))
}

func TestRowCloneAndGet(t *testing.T) {
	row := Row{"id": Int(1), RowIDKey: Int(7)}
	cp := row.Clone()
	cp["id"] = Int(2)

	assert.True(t, row.Get("id").Equal(Int(1)))
	assert.True(t, row.Get("missing").IsNull())
	assert.Equal(t, int64(7), row.RowID())
}
