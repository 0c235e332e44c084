package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/structfs/structfs/pkg/value"
)

// HTTPExecutor is the production Executor: it issues requests through a
// retrying HTTP client, so a transient upstream failure doesn't poison a
// handle's single-execution guarantee with a spurious error.
type HTTPExecutor struct {
	client         *retryablehttp.Client
	defaultHeaders map[string]string
}

// NewHTTPExecutor builds an Executor with the given per-request timeout and
// default headers merged into every outgoing request (overridden by
// request-specific headers of the same name).
func NewHTTPExecutor(timeout time.Duration, defaultHeaders map[string]string) *HTTPExecutor {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2
	client.HTTPClient.Timeout = timeout
	return &HTTPExecutor{client: client, defaultHeaders: defaultHeaders}
}

func (h *HTTPExecutor) Execute(ctx context.Context, req Request) (Response, error) {
	var bodyReader io.Reader
	if !req.Body.IsNull() {
		data, err := json.Marshal(valueToJSONAny(req.Body))
		if err != nil {
			return Response{}, err
		}
		bodyReader = bytes.NewReader(data)
	}

	rreq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return Response{}, err
	}
	for k, v := range h.defaultHeaders {
		rreq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		rreq.Header.Set(k, v)
	}
	if bodyReader != nil && rreq.Header.Get("Content-Type") == "" {
		rreq.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(rreq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	body, bodyText := decodeResponseBody(data)

	return Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    headers,
		Body:       body,
		BodyText:   bodyText,
	}, nil
}

// decodeResponseBody parses the body as JSON when possible, falling back to
// a text or opaque-bytes representation so any upstream response is
// representable.
func decodeResponseBody(data []byte) (value.Value, *string) {
	if len(data) == 0 {
		return value.Null, nil
	}
	var any interface{}
	if err := json.Unmarshal(data, &any); err == nil {
		return jsonAnyToValue(any), nil
	}
	if utf8.Valid(data) {
		s := string(data)
		return value.String(s), &s
	}
	return value.Bytes(data), nil
}

func jsonAnyToValue(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(t)
	case float64:
		return value.Float(t)
	case string:
		return value.String(t)
	case []interface{}:
		items := make([]value.Value, len(t))
		for i, e := range t {
			items[i] = jsonAnyToValue(e)
		}
		return value.Array(items...)
	case map[string]interface{}:
		m := make(map[string]value.Value, len(t))
		for k, e := range t {
			m[k] = jsonAnyToValue(e)
		}
		return value.Map(m)
	default:
		return value.Null
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
		s, _ := v.AsString()
		return s
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

var _ Executor = (*HTTPExecutor)(nil)
