package qs

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// AddQueryPrefix prepends "?" to a non-empty result.
	AddQueryPrefix bool
}

// UnsupportedValueError is returned for values Encode cannot serialize.
type UnsupportedValueError struct {
	Key   string
	Value any
}

// Error implements the error interface.
func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported query value for %q: %T", e.Key, e.Value)
}

// Encode serializes a query object. Keys are sorted; nested maps use
// "a[b]" keys and slices use "a[0]" keys. Nil values encode as "a=".
func Encode(values map[string]any, opts EncodeOptions) (string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		encoded, err := encodeValue(k, values[k])
		if err != nil {
			return "", err
		}
		pairs = append(pairs, encoded...)
	}

	if len(pairs) == 0 {
		return "", nil
	}

	out := strings.Join(pairs, "&")
	if opts.AddQueryPrefix {
		out = "?" + out
	}
	return out, nil
}

func encodeValue(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case Values:
		return encodeMap(key, v)
	case map[string]any:
		return encodeMap(key, v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return encodeMap(key, m)
	case []any:
		return encodeSlice(key, v)
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return encodeSlice(key, items)
	case url.Values:
		m := make(map[string]any, len(v))
		for k, vs := range v {
			m[k] = vs
		}
		return encodeMap(key, m)
	}

	s, err := Stringify(value)
	if err != nil {
		return nil, &UnsupportedValueError{Key: key, Value: value}
	}
	return []string{Escape(key) + "=" + Escape(s)}, nil
}

func encodeMap(prefix string, m map[string]any) ([]string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		encoded, err := encodeValue(prefix+"["+k+"]", m[k])
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return out, nil
}

func encodeSlice(prefix string, items []any) ([]string, error) {
	var out []string
	for i, item := range items {
		encoded, err := encodeValue(prefix+"["+strconv.Itoa(i)+"]", item)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return out, nil
}

// Escape percent-encodes everything except RFC 3986 unreserved characters.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Stringify formats a primitive value: strings, integers, floats, bools,
// fmt.Stringer and nil (as "").
func Stringify(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

// FromStruct converts a struct with `url` tags into Values using
// go-querystring. Repeated values become slices.
func FromStruct(v any) (Values, error) {
	encoded, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("encoding query struct: %w", err)
	}

	out := make(Values, len(encoded))
	for k, vs := range encoded {
		switch len(vs) {
		case 0:
		case 1:
			out[k] = vs[0]
		default:
			items := make([]any, len(vs))
			for i, s := range vs {
				items[i] = s
			}
			out[k] = items
		}
	}
	return out, nil
}
