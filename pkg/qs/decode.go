// Package qs encodes and decodes query strings with bracket nesting.
//
// Decoding turns "a=1&a=2&b[c]=3&d[]=4" into
//
//	Values{"a": []any{"1", "2"}, "b": map[string]any{"c": "3"}, "d": []any{"4"}}
//
// Encoding is the reverse, writing arrays with explicit indices
// ("d%5B0%5D=4") and sorting keys for stable output.
package qs

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// maxDepth is the number of bracket levels decoded as nesting.
	// Deeper brackets stay part of the last key.
	maxDepth = 5

	// maxArrayIndex is the largest "a[n]" index decoded as an array slot.
	// Larger indices become object keys.
	maxArrayIndex = 20

	// maxParameters is the number of "&"-separated pairs decoded. Later
	// pairs are ignored.
	maxParameters = 1000
)

// Values is a decoded query object. Values are string, []any or
// map[string]any.
type Values map[string]any

// list collects array entries by index while decoding. next is one past
// the highest index set.
type list struct {
	items map[int]any
	next  int
}

func newList(items ...any) *list {
	l := &list{items: make(map[int]any, len(items))}
	for _, item := range items {
		l.push(item)
	}
	return l
}

func (l *list) set(idx int, v any) {
	l.items[idx] = v
	if idx >= l.next {
		l.next = idx + 1
	}
}

func (l *list) push(v any) {
	l.set(l.next, v)
}

// Decode parses a query string. A leading "?" is ignored.
func Decode(query string) Values {
	query = strings.TrimPrefix(query, "?")

	parts := strings.SplitN(query, "&", maxParameters+1)
	if len(parts) > maxParameters {
		parts = parts[:maxParameters]
	}

	root := map[string]any{}
	for _, part := range parts {
		if part == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(part, "=")
		key := decodeComponent(rawKey)
		if key == "" {
			continue
		}
		insert(root, splitKey(key), decodeComponent(rawValue))
	}

	return Values(finalize(root).(map[string]any))
}

// decodeComponent decodes "+" as space and percent escapes, keeping the
// raw text when it is not valid.
func decodeComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// splitKey splits "a[b][]" into ["a", "b", ""].
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}

	segments := []string{key[:open]}
	rest := key[open:]
	for len(segments) <= maxDepth && strings.HasPrefix(rest, "[") {
		closeIdx := strings.IndexByte(rest, ']')
		if closeIdx < 0 {
			break
		}
		segments = append(segments, rest[1:closeIdx])
		rest = rest[closeIdx+1:]
	}

	if rest != "" {
		if len(segments) == 1 {
			return []string{key}
		}
		segments = append(segments, rest)
	}
	return segments
}

// insert places value under the key path segs inside container.
func insert(container map[string]any, segs []string, value string) {
	key := segs[0]
	if len(segs) == 1 {
		container[key] = combine(container[key], value)
		return
	}
	container[key] = insertChild(container[key], segs[1:], value)
}

// insertChild descends into existing (which may be nil) for the key path
// segs and returns the updated node.
func insertChild(existing any, segs []string, value string) any {
	seg := segs[0]

	if seg == "" {
		l := asList(existing)
		if len(segs) == 1 {
			l.push(value)
			return l
		}
		child := map[string]any{}
		insert(child, segs[1:], value)
		l.push(child)
		return l
	}

	if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 && idx <= maxArrayIndex && strconv.Itoa(idx) == seg {
		if m, ok := existing.(map[string]any); ok {
			insert(m, segs, value)
			return m
		}
		l := asList(existing)
		if len(segs) == 1 {
			l.set(idx, combine(l.items[idx], value))
			return l
		}
		l.set(idx, insertChild(l.items[idx], segs[1:], value))
		return l
	}

	m := asMap(existing)
	insert(m, segs, value)
	return m
}

func asList(existing any) *list {
	switch v := existing.(type) {
	case *list:
		return v
	case nil:
		return newList()
	default:
		return newList(v)
	}
}

func asMap(existing any) map[string]any {
	switch v := existing.(type) {
	case map[string]any:
		return v
	case *list:
		m := make(map[string]any, len(v.items))
		for i, item := range v.items {
			m[strconv.Itoa(i)] = item
		}
		return m
	case nil:
		return map[string]any{}
	default:
		return map[string]any{"0": v}
	}
}

// combine merges a repeated key into an array.
func combine(existing any, value string) any {
	switch v := existing.(type) {
	case nil:
		return value
	case *list:
		v.push(value)
		return v
	case map[string]any:
		v[value] = ""
		return v
	default:
		return newList(v, value)
	}
}

// finalize converts index lists to compact slices.
func finalize(node any) any {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			v[k] = finalize(child)
		}
		return v
	case *list:
		indexes := make([]int, 0, len(v.items))
		for i := range v.items {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		out := make([]any, 0, len(indexes))
		for _, i := range indexes {
			out = append(out, finalize(v.items[i]))
		}
		return out
	default:
		return v
	}
}
