package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalization(t *testing.T) {
	// "" and "/" both normalize to the root path.
	for _, in := range []string{"", "/"} {
		p, err := Parse(in)
		require.NoError(t, err)
		assert.True(t, p.IsEmpty(), "input %q", in)
		assert.Equal(t, "", p.String())
	}

	p1, err := Parse("a//b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", p1.String())

	p2, err := Parse("a/")
	require.NoError(t, err)
	assert.Equal(t, "a", p2.String())

	p3, err := Parse("/a/b/")
	require.NoError(t, err)
	assert.True(t, p3.Equal(p1))
}

func TestParseInvalidComponents(t *testing.T) {
	cases := []string{"1foo", "a b", ".", ".."}
	for _, c := range cases {
		_, err := Parse("x/" + c)
		assert.Error(t, err, "expected error for component %q", c)
		var perr *Error
		assert.ErrorAs(t, err, &perr)
	}
}

func TestParseRepeatedSlashSkipsEmptySegment(t *testing.T) {
	p, err := Parse("x//y")
	require.NoError(t, err)
	assert.Equal(t, "x/y", p.String())
}

func TestValidateComponentIntegerIndex(t *testing.T) {
	assert.NoError(t, ValidateComponent("0"))
	assert.NoError(t, ValidateComponent("1234"))
	assert.Error(t, ValidateComponent("01a"))
}

func TestHasPrefixAndStripPrefix(t *testing.T) {
	p := MustParse("a/b/c/d")
	prefix := MustParse("a/b")
	assert.True(t, p.HasPrefix(prefix))

	suffix, err := p.StripPrefix(prefix)
	require.NoError(t, err)
	assert.Equal(t, "c/d", suffix.String())

	notPrefix := MustParse("a/x")
	assert.False(t, p.HasPrefix(notPrefix))
	_, err = p.StripPrefix(notPrefix)
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	a := MustParse("a/b")
	b := MustParse("c/d")
	assert.Equal(t, "a/b/c/d", a.Join(b).String())
	assert.True(t, Empty.Join(a).Equal(a))
}

func TestSliceAndLen(t *testing.T) {
	p := MustParse("a/b/c")
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "b/c", p.Slice(1, 3).String())
	assert.Equal(t, "a", p.At(0))
}

func TestEqualityIgnoresTextualForm(t *testing.T) {
	a := MustParse("/a/b//c/")
	b := MustParse("a/b/c")
	assert.True(t, a.Equal(b))
}

func TestEmptyPathIsRoot(t *testing.T) {
	assert.Equal(t, 0, Empty.Len())
	assert.True(t, Empty.IsEmpty())
	assert.Equal(t, "", Empty.String())
}
