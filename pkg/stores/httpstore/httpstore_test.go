package httpstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/value"
)

func TestReadGetsFromBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Alice"}`))
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	rec, err := s.Read(context.Background(), path.MustParse("users/1"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "/users/1", gotPath)
	data, ok := rec.AsBytes()
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Alice"}`, string(data))
}

func TestReadNotFoundReturnsNilRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	rec, err := s.Read(context.Background(), path.MustParse("missing"))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReadUpstreamErrorFailsStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	_, err := s.Read(context.Background(), path.MustParse("broken"))
	require.Error(t, err)
}

func TestWritePutsParsedValueAsJSON(t *testing.T) {
	var gotBody map[string]interface{}
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	rec := value.NewParsed(value.Map(map[string]value.Value{"name": value.String("Bob")}))
	written, err := s.Write(context.Background(), path.MustParse("users/2"), rec)
	require.NoError(t, err)
	assert.Equal(t, "users/2", written.String())
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Bob", gotBody["name"])
}

func TestWriteAppliesDefaultHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(srv.URL, map[string]string{"Authorization": "Bearer token"})
	_, err := s.Write(context.Background(), path.MustParse("x"), value.NewParsed(value.Null))
	require.NoError(t, err)
	assert.Equal(t, "Bearer token", gotAuth)
}

func TestWriteUpstreamErrorFailsStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	_, err := s.Write(context.Background(), path.MustParse("x"), value.NewParsed(value.Null))
	require.Error(t, err)
}
