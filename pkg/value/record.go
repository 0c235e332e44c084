package value

import "sync"

// Format is an opaque media-type-like hint describing how a Record's bytes
// are encoded, e.g. "application/json" or the designated value-format
// sentinel used for already-Parsed records.
type Format string

// ValueFormat is the format hint attached to Records that wrap a Parsed
// Value rather than raw bytes — Store implementations return this as the
// Record's Format() for anything that was never serialized.
const ValueFormat Format = "application/x-structfs-value"

// Record is either raw bytes tagged with a format, or an already-parsed
// Value. Cheap inspections never parse or serialize; into_value/into_bytes
// do, and memoize the result so repeated calls stay O(1) after the first.
type Record struct {
	raw    bool
	format Format

	// Raw state.
	bytesBuf *sharedBytes

	// Parsed state (also used to memoize a Raw record's first parse).
	mu       sync.Mutex
	value    *Value
	hasValue bool
}

// sharedBytes is a refcounted-by-sharing (via pointer) immutable byte
// buffer, giving Record's Raw variant O(1) clone semantics: copying a
// Record copies the pointer, not the bytes.
type sharedBytes struct {
	data []byte
}

// NewRaw builds a Record from raw bytes tagged with format. Cloning the
// returned Record is O(1); the bytes are shared, never copied, until a
// caller asks for a Value.
func NewRaw(data []byte, format Format) Record {
	buf := make([]byte, len(data))
	copy(buf, data)
	return Record{raw: true, format: format, bytesBuf: &sharedBytes{data: buf}}
}

// NewParsed builds a Record directly from a Value. The Record holds a
// pointer to its Value, so copying a Parsed Record shares that Value.
func NewParsed(v Value) Record {
	return Record{raw: false, format: ValueFormat, value: &v, hasValue: true}
}

// IsRaw reports whether the Record currently holds unparsed bytes. Once
// IntoValue has been called on a Raw record this remains true — IsRaw
// describes how the Record was constructed, not whether a Value has since
// been memoized; use AsValue for the latter.
func (r Record) IsRaw() bool { return r.raw }

// Format returns the Record's format hint.
func (r Record) Format() Format { return r.format }

// AsBytes returns the raw bytes and true if the Record is Raw. It never
// parses or serializes.
func (r Record) AsBytes() ([]byte, bool) {
	if !r.raw || r.bytesBuf == nil {
		return nil, false
	}
	return r.bytesBuf.data, true
}

// AsValue returns the parsed Value and true only if a Value is already
// available without parsing (a Parsed record, or a Raw record that has
// already been parsed via IntoValue).
func (r *Record) AsValue() (Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasValue {
		return *r.value, true
	}
	return Value{}, false
}

// IntoValue returns the Record's Value, parsing through codec on first call
// if the Record is Raw, and memoizing the result so subsequent calls are
// O(1).
func (r *Record) IntoValue(codec Codec) (Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasValue {
		return *r.value, nil
	}
	if !r.raw {
		// Parsed records always have a value; unreachable in practice.
		return Value{}, nil
	}
	v, err := codec.Decode(r.bytesBuf.data, r.format)
	if err != nil {
		return Value{}, err
	}
	r.value = &v
	r.hasValue = true
	return v, nil
}

// IntoBytes returns the Record's bytes in targetFormat, transcoding through
// Value via codec if the Record's current representation is not already in
// that format.
func (r *Record) IntoBytes(codec Codec, targetFormat Format) ([]byte, error) {
	if r.raw && r.format == targetFormat {
		if data, ok := r.AsBytes(); ok {
			return data, nil
		}
	}
	v, err := r.IntoValue(codec)
	if err != nil {
		return nil, err
	}
	return codec.Encode(v, targetFormat)
}
