package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

func TestStoreWriteThenRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, err := s.Write(ctx, path.MustParse("users/1/name"), value.NewParsed(value.String("Alice")))
	require.NoError(t, err)
	assert.Equal(t, "users/1/name", p.String())

	rec, err := s.Read(ctx, path.MustParse("users/1/name"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, ok := rec.AsValue()
	require.True(t, ok)
	got, _ := v.AsString()
	assert.Equal(t, "Alice", got)
}

func TestStoreReadAbsentReturnsNilRecord(t *testing.T) {
	s := New()
	rec, err := s.Read(context.Background(), path.MustParse("missing"))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStoreWriteBlockedByScalarIntermediateFailsTypeMismatch(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Write(ctx, path.MustParse("a"), value.NewParsed(value.Integer(1)))
	require.NoError(t, err)

	_, err = s.Write(ctx, path.MustParse("a/b"), value.NewParsed(value.Integer(2)))
	require.Error(t, err)
	var serr *store.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, store.KindTypeMismatch, serr.Kind)
}

func TestStoreRootGetReturnsWholeTree(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.Write(ctx, path.MustParse("x"), value.NewParsed(value.Integer(42)))
	require.NoError(t, err)

	rec, err := s.Read(ctx, path.Empty)
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	m, ok := v.AsMap()
	require.True(t, ok)
	i, _ := m["x"].AsInteger()
	assert.Equal(t, int64(42), i)
}
