package broker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

type mockExecutor struct {
	calls int32
	resp  Response
	err   error
}

func (m *mockExecutor) Execute(context.Context, Request) (Response, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.resp, m.err
}

func requestValue(method, url string) value.Value {
	return value.Map(map[string]value.Value{
		"method": value.String(method),
		"path":   value.String(url),
	})
}

func TestBrokerQueueReturnsOutstandingPath(t *testing.T) {
	s := New(&mockExecutor{resp: Response{Status: 200, StatusText: "OK", Body: value.String("ok")}})
	p, err := s.Write(context.Background(), path.Empty, value.NewParsed(requestValue("GET", "https://example.com/")))
	require.NoError(t, err)
	assert.Equal(t, "outstanding/0", p.String())
}

func TestBrokerExecutesOnceAndCaches(t *testing.T) {
	exec := &mockExecutor{resp: Response{Status: 200, StatusText: "OK", Body: value.String("ok")}}
	s := New(exec)
	ctx := context.Background()

	p, err := s.Write(ctx, path.Empty, value.NewParsed(requestValue("GET", "https://example.com/")))
	require.NoError(t, err)

	rec1, err := s.Read(ctx, p)
	require.NoError(t, err)
	rec2, err := s.Read(ctx, p)
	require.NoError(t, err)

	v1, _ := rec1.AsValue()
	v2, _ := rec2.AsValue()
	assert.True(t, value.Equal(v1, v2))
	assert.EqualValues(t, 1, exec.calls)
}

func TestBrokerRequestSubpathNeverExecutes(t *testing.T) {
	exec := &mockExecutor{resp: Response{Status: 200}}
	s := New(exec)
	ctx := context.Background()

	p, err := s.Write(ctx, path.Empty, value.NewParsed(requestValue("POST", "https://example.com/x")))
	require.NoError(t, err)

	reqPath, err := path.Parse(p.String() + "/request")
	require.NoError(t, err)
	rec, err := s.Read(ctx, reqPath)
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	m, _ := v.AsMap()
	method, _ := m["method"].AsString()
	assert.Equal(t, "POST", method)
	assert.EqualValues(t, 0, exec.calls)
}

func TestBrokerResponseSubpathNavigatesIntoBody(t *testing.T) {
	exec := &mockExecutor{resp: Response{
		Status: 200,
		Body:   value.Map(map[string]value.Value{"name": value.String("Alice")}),
	}}
	s := New(exec)
	ctx := context.Background()

	p, err := s.Write(ctx, path.Empty, value.NewParsed(requestValue("GET", "https://example.com/")))
	require.NoError(t, err)

	bodyNamePath, err := path.Parse(p.String() + "/response/body/name")
	require.NoError(t, err)
	rec, err := s.Read(ctx, bodyNamePath)
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.AsValue()
	got, _ := v.AsString()
	assert.Equal(t, "Alice", got)
}

func TestBrokerDeleteRemovesHandle(t *testing.T) {
	s := New(&mockExecutor{resp: Response{Status: 200}})
	ctx := context.Background()

	p, err := s.Write(ctx, path.Empty, value.NewParsed(requestValue("GET", "https://example.com/")))
	require.NoError(t, err)

	_, err = s.Write(ctx, p, value.NewParsed(value.Null))
	require.NoError(t, err)

	_, err = s.Read(ctx, p)
	require.Error(t, err)
	var serr *store.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, store.KindNotFound, serr.Kind)
}

func TestBrokerInvalidMethodRejected(t *testing.T) {
	s := New(&mockExecutor{})
	_, err := s.Write(context.Background(), path.Empty, value.NewParsed(requestValue("FETCH", "https://example.com/")))
	require.Error(t, err)
	var serr *store.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, store.KindValidationFailed, serr.Kind)
}
