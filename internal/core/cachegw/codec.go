package cachegw

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// JSON stores T as JSON bytes and decodes strictly: unknown fields, trailing
// data and non string values are all misses
// numbers landing in interface values decode as json.Number so large integers stay exact
type JSON[T any] struct{}

// Encode implements Codec
func (JSON[T]) Encode(v T) (any, error) { return json.Marshal(v) }

// Decode implements Codec
func (JSON[T]) Decode(raw any) (T, bool) {
	var out T
	var b []byte
	switch x := raw.(type) {
	case []byte:
		b = x
	case string:
		b = []byte(x)
	default:
		return out, false
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		var zero T
		return zero, false
	}
	if dec.More() {
		var zero T
		return zero, false
	}
	return out, true
}

// Integer stores int64 values; a decoded zero is a miss since backends cannot
// tell a stored 0 from an absent entry
type Integer struct{}

// Encode implements Codec
func (Integer) Encode(v int64) (any, error) { return v, nil }

// Decode implements Codec
func (Integer) Decode(raw any) (int64, bool) {
	var n int64
	switch x := raw.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, false
		}
		n = int64(x)
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		n = v
	case []byte:
		v, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		if err != nil {
			return 0, false
		}
		n = v
	default:
		return 0, false
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}
