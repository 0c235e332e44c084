// Package httpstore implements the Http mount variant: a Store whose reads
// and writes translate directly into GET/PUT requests against a remote base
// URL, rather than the broker's deferred-execution handle pattern.
package httpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// Store issues synchronous HTTP requests against baseURL, one per
// read/write, with no caching: unlike the broker, every access hits the
// network.
type Store struct {
	client         *retryablehttp.Client
	baseURL        string
	defaultHeaders map[string]string
}

// New returns a Store rooted at baseURL.
func New(baseURL string, defaultHeaders map[string]string) *Store {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2
	return &Store{client: client, baseURL: strings.TrimSuffix(baseURL, "/"), defaultHeaders: defaultHeaders}
}

func (s *Store) url(p path.Path) string {
	if p.IsEmpty() {
		return s.baseURL
	}
	return s.baseURL + "/" + p.String()
}

func (s *Store) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url(p), nil)
	if err != nil {
		return nil, store.NewIO(p, err)
	}
	s.applyHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, store.NewIO(p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, store.NewStore("http", "read", fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, store.NewIO(p, err)
	}
	rec := value.NewRaw(data, value.Format(resp.Header.Get("Content-Type")))
	return &rec, nil
}

func (s *Store) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	var body io.Reader
	contentType := "application/json"
	if raw, ok := rec.AsBytes(); ok {
		body = strings.NewReader(string(raw))
		if rec.Format() != "" {
			contentType = string(rec.Format())
		}
	} else if v, ok := rec.AsValue(); ok {
		data, err := json.Marshal(valueToJSONAny(v))
		if err != nil {
			return path.Empty, store.NewCodec(p, err)
		}
		body = strings.NewReader(string(data))
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, s.url(p), body)
	if err != nil {
		return path.Empty, store.NewIO(p, err)
	}
	req.Header.Set("Content-Type", contentType)
	s.applyHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return path.Empty, store.NewIO(p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return path.Empty, store.NewStore("http", "write", fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}
	return p, nil
}

func (s *Store) applyHeaders(req *retryablehttp.Request) {
	for k, v := range s.defaultHeaders {
		req.Header.Set(k, v)
	}
}

func valueToJSONAny(v value.Value) interface{} {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindInteger:
		i, _ := v.AsInteger()
		return i
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f
	case value.KindString:
		str, _ := v.AsString()
		return str
	case value.KindBytes:
		b, _ := v.AsBytes()
		return b
	case value.KindArray:
		arr, _ := v.AsArray()
		out := make([]interface{}, len(arr))
		for i, e := range arr {
			out[i] = valueToJSONAny(e)
		}
		return out
	case value.KindMap:
		m, _ := v.AsMap()
		out := make(map[string]interface{}, len(m))
		for k, e := range m {
			out[k] = valueToJSONAny(e)
		}
		return out
	default:
		return nil
	}
}

var _ store.Store = (*Store)(nil)
