package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfs/structfs/pkg/path"
)

func TestGetNavigatesMapsAndArrays(t *testing.T) {
	v := Map(map[string]Value{
		"users": Array(
			Map(map[string]Value{"name": String("Alice")}),
			Map(map[string]Value{"name": String("Bob")}),
		),
	})

	got, ok := v.Get(path.MustParse("users/1/name"))
	require.True(t, ok)
	name, _ := got.AsString()
	assert.Equal(t, "Bob", name)

	_, ok = v.Get(path.MustParse("users/5/name"))
	assert.False(t, ok)

	_, ok = v.Get(path.MustParse("users/name/x"))
	assert.False(t, ok)
}

func TestSetCreatesIntermediateMaps(t *testing.T) {
	out, err := Set(Null, path.MustParse("a/b/c"), Integer(1))
	require.NoError(t, err)

	got, ok := out.Get(path.MustParse("a/b/c"))
	require.True(t, ok)
	i, _ := got.AsInteger()
	assert.Equal(t, int64(1), i)
}

func TestSetFailsThroughNonContainer(t *testing.T) {
	v := Map(map[string]Value{"a": String("leaf")})
	_, err := Set(v, path.MustParse("a/b"), Integer(1))
	assert.Error(t, err)
}

func TestEqualSemantics(t *testing.T) {
	assert.True(t, Equal(Map(map[string]Value{"a": Integer(1), "b": Integer(2)}),
		Map(map[string]Value{"b": Integer(2), "a": Integer(1)})), "map order must not matter")

	assert.False(t, Equal(Array(Integer(1), Integer(2)), Array(Integer(2), Integer(1))),
		"array order must matter")

	nan := Float(math.NaN())
	assert.False(t, Equal(nan, nan), "NaN must never equal itself")
}

func TestMapKeysSorted(t *testing.T) {
	v := Map(map[string]Value{"z": Null, "a": Null, "m": Null})
	assert.Equal(t, []string{"a", "m", "z"}, v.MapKeys())
}

func TestRecordRawIsZeroCopyAndMemoizes(t *testing.T) {
	rec := NewRaw([]byte(`{"a":1}`), FormatJSON)
	assert.True(t, rec.IsRaw())

	codec := JSONCodec{}
	v1, err := rec.IntoValue(codec)
	require.NoError(t, err)
	v2, err := rec.IntoValue(codec)
	require.NoError(t, err)
	assert.True(t, Equal(v1, v2))

	cached, ok := rec.AsValue()
	require.True(t, ok)
	assert.True(t, Equal(cached, v1))
}

func TestRecordParsedRoundTrip(t *testing.T) {
	v := Map(map[string]Value{"name": String("Alice")})
	rec := NewParsed(v)
	assert.False(t, rec.IsRaw())
	assert.Equal(t, ValueFormat, rec.Format())

	got, ok := rec.AsValue()
	require.True(t, ok)
	assert.True(t, Equal(v, got))
}

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := JSONCodec{}
	v := Map(map[string]Value{
		"name":   String("Alice"),
		"age":    Integer(30),
		"tags":   Array(String("a"), String("b")),
		"active": Bool(true),
		"score":  Float(1.5),
	})

	data, err := codec.Encode(v, FormatJSON)
	require.NoError(t, err)

	back, err := codec.Decode(data, FormatJSON)
	require.NoError(t, err)
	assert.True(t, Equal(v, back))
}

func TestNoCodecRejectsEverything(t *testing.T) {
	var c NoCodec
	_, err := c.Decode([]byte("x"), FormatJSON)
	assert.Error(t, err)
	_, err = c.Encode(Null, FormatJSON)
	assert.Error(t, err)
	assert.False(t, c.Supports(FormatJSON))
}
