package sys

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/value"
)

func TestCompositeRoutesTimeNowToRFC3339(t *testing.T) {
	s := New()
	rec, err := s.Read(context.Background(), path.MustParse("now"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	str, _ := v.AsString()
	assert.NotEmpty(t, str)
	_, perr := time.Parse(time.RFC3339Nano, str)
	assert.NoError(t, perr)
}

func TestCompositeRoutesEnvVar(t *testing.T) {
	t.Setenv("STRUCTFS_TEST_VAR", "hello")
	s := New()
	rec, err := s.Read(context.Background(), path.MustParse("env/STRUCTFS_TEST_VAR"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	got, _ := v.AsString()
	assert.Equal(t, "hello", got)
}

func TestCompositeEnvMissingVarReturnsNil(t *testing.T) {
	s := New()
	rec, err := s.Read(context.Background(), path.MustParse("env/STRUCTFS_DOES_NOT_EXIST"))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCompositeRandomUUIDsDiffer(t *testing.T) {
	s := New()
	ctx := context.Background()
	rec1, err := s.Read(ctx, path.MustParse("uuid"))
	require.NoError(t, err)
	rec2, err := s.Read(ctx, path.MustParse("uuid"))
	require.NoError(t, err)
	v1, _ := rec1.AsValue()
	v2, _ := rec2.AsValue()
	s1, _ := v1.AsString()
	s2, _ := v2.AsString()
	assert.NotEqual(t, s1, s2)
}

func TestCompositeRandomBytesLength(t *testing.T) {
	s := New()
	rec, err := s.Read(context.Background(), path.MustParse("bytes/16"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	b, _ := v.AsBytes()
	assert.Len(t, b, 16)
}

func TestCompositeProcessPid(t *testing.T) {
	s := New()
	rec, err := s.Read(context.Background(), path.MustParse("pid"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	_, ok := v.AsInteger()
	assert.True(t, ok)
}

func TestCompositeWriteAlwaysFails(t *testing.T) {
	s := New()
	_, err := s.Write(context.Background(), path.MustParse("pid"), value.NewParsed(value.Null))
	require.Error(t, err)
}
