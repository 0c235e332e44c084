package register

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/value"
)

func TestRegisterWriteThenRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Write(ctx, path.MustParse("scratch"), value.NewParsed(value.Integer(5)))
	require.NoError(t, err)

	rec, err := s.Read(ctx, path.MustParse("scratch"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	i, _ := v.AsInteger()
	assert.Equal(t, int64(5), i)
}

func TestRegisterRootListsNames(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Write(ctx, path.MustParse("b"), value.NewParsed(value.Integer(1)))
	_, _ = s.Write(ctx, path.MustParse("a"), value.NewParsed(value.Integer(2)))

	rec, err := s.Read(ctx, path.Empty)
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	arr, ok := v.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 2)
	first, _ := arr[0].AsString()
	second, _ := arr[1].AsString()
	assert.Equal(t, "a", first)
	assert.Equal(t, "b", second)
}

func TestRegisterWriteToRootFails(t *testing.T) {
	s := New()
	_, err := s.Write(context.Background(), path.Empty, value.NewParsed(value.Integer(1)))
	require.Error(t, err)
}

func TestRegisterReadMissingNameReturnsNil(t *testing.T) {
	s := New()
	rec, err := s.Read(context.Background(), path.MustParse("nope"))
	require.NoError(t, err)
	assert.Nil(t, rec)
}
