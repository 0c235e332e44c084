package broker

import (
	"sort"
	"strings"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// parseRequest validates and decodes a queued request from its Value shape:
// {method, path, headers?, body?}.
func parseRequest(p path.Path, v value.Value) (Request, error) {
	m, ok := v.AsMap()
	if !ok {
		return Request{}, store.NewValidationFailed(p, "broker request must be a map")
	}

	methodVal, ok := m["method"]
	if !ok {
		return Request{}, store.NewValidationFailed(p, "broker request missing \"method\"")
	}
	method, ok := methodVal.AsString()
	if !ok {
		return Request{}, store.NewValidationFailed(p, "\"method\" must be a string")
	}
	method = strings.ToUpper(method)
	if !validMethods[method] {
		return Request{}, store.NewValidationFailed(p, "\"method\" must be one of GET/POST/PUT/PATCH/DELETE/HEAD/OPTIONS")
	}

	urlVal, ok := m["path"]
	if !ok {
		return Request{}, store.NewValidationFailed(p, "broker request missing \"path\"")
	}
	url, ok := urlVal.AsString()
	if !ok {
		return Request{}, store.NewValidationFailed(p, "\"path\" must be a string")
	}

	headers := map[string]string{}
	if hv, ok := m["headers"]; ok {
		hm, ok := hv.AsMap()
		if !ok {
			return Request{}, store.NewValidationFailed(p, "\"headers\" must be a map")
		}
		for k, hvv := range hm {
			s, ok := hvv.AsString()
			if !ok {
				return Request{}, store.NewValidationFailed(p, "header values must be strings")
			}
			headers[k] = s
		}
	}

	body := value.Null
	if bv, ok := m["body"]; ok {
		body = bv
	}

	return Request{Method: method, URL: url, Headers: headers, Body: body}, nil
}

func requestToValue(r Request) value.Value {
	headers := make(map[string]value.Value, len(r.Headers))
	for k, v := range r.Headers {
		headers[k] = value.String(v)
	}
	return value.Map(map[string]value.Value{
		"method":  value.String(r.Method),
		"path":    value.String(r.URL),
		"headers": value.Map(headers),
		"body":    r.Body,
	})
}

func responseToValue(r Response) value.Value {
	headers := make(map[string]value.Value, len(r.Headers))
	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		headers[k] = value.String(r.Headers[k])
	}

	bodyText := value.Null
	if r.BodyText != nil {
		bodyText = value.String(*r.BodyText)
	}

	return value.Map(map[string]value.Value{
		"status":      value.Integer(int64(r.Status)),
		"status_text": value.String(r.StatusText),
		"headers":     value.Map(headers),
		"body":        r.Body,
		"body_text":   bodyText,
	})
}
