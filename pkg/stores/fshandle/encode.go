package fshandle

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// encodeBytes presents raw bytes as a Value per the handle's encoding.
func encodeBytes(p path.Path, enc Encoding, data []byte) (value.Value, error) {
	switch enc {
	case EncodingBase64:
		return value.String(base64.StdEncoding.EncodeToString(data)), nil
	case EncodingUtf8:
		if !utf8.Valid(data) {
			return value.Value{}, store.NewValidationFailed(p, "file contents are not valid utf8")
		}
		return value.String(string(data)), nil
	case EncodingBytes:
		return value.Bytes(data), nil
	default:
		return value.Value{}, store.NewValidationFailed(p, "unknown encoding")
	}
}

// decodeBytes recovers raw bytes from a write Value per the handle's
// encoding.
func decodeBytes(p path.Path, enc Encoding, v value.Value) ([]byte, error) {
	switch enc {
	case EncodingBase64:
		s, ok := v.AsString()
		if !ok {
			return nil, store.NewValidationFailed(p, "base64-encoded write requires a string value")
		}
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, store.NewValidationFailed(p, "invalid base64: "+err.Error())
		}
		return data, nil
	case EncodingUtf8:
		s, ok := v.AsString()
		if !ok {
			return nil, store.NewValidationFailed(p, "utf8 write requires a string value")
		}
		return []byte(s), nil
	case EncodingBytes:
		b, ok := v.AsBytes()
		if !ok {
			return nil, store.NewValidationFailed(p, "bytes write requires a bytes value")
		}
		return b, nil
	default:
		return nil, store.NewValidationFailed(p, "unknown encoding")
	}
}
