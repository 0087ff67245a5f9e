package pattern

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const delimiter = "/"

// KeyKind tells a parameter from a wildcard.
type KeyKind int

const (
	// KeyParam is a single-segment parameter (:name).
	KeyParam KeyKind = iota
	// KeyWildcard is a multi-segment wildcard (*name).
	KeyWildcard
)

// Key describes one capture of a compiled template.
type Key struct {
	Name     string
	Kind     KeyKind
	Optional bool
}

// DecodeFunc decodes a raw captured segment.
type DecodeFunc func(string) (string, error)

// Options configures template compilation.
type Options struct {
	// Sensitive makes literal text match case-sensitively.
	Sensitive bool

	// Trailing accepts an optional trailing "/" on matched paths.
	Trailing bool

	// Decode is applied to every captured segment. Nil keeps raw values.
	Decode DecodeFunc
}

// Option is a functional option for Compile.
type Option func(*Options)

// WithSensitive sets case-sensitive matching.
func WithSensitive(sensitive bool) Option {
	return func(o *Options) {
		o.Sensitive = sensitive
	}
}

// WithTrailing sets trailing delimiter tolerance.
func WithTrailing(trailing bool) Option {
	return func(o *Options) {
		o.Trailing = trailing
	}
}

// WithDecode replaces the segment decoder.
func WithDecode(decode DecodeFunc) Option {
	return func(o *Options) {
		o.Decode = decode
	}
}

// DefaultOptions returns the options used when Compile gets none.
func DefaultOptions() Options {
	return Options{
		Sensitive: false,
		Trailing:  true,
		Decode:    url.PathUnescape,
	}
}

// Matcher is a compiled template. It is safe for concurrent use.
type Matcher struct {
	pattern string
	regex   *regexp.Regexp
	keys    []Key
	decode  DecodeFunc
}

// Match is a successful match result.
type Match struct {
	// Path is the matched portion of the input.
	Path string

	// Params holds the decoded captures. Optional captures that did not
	// participate in the match are absent.
	Params Params
}

// Compile parses a template and builds its matcher.
func Compile(pattern string, opts ...Option) (*Matcher, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	tokens, err := Parse(pattern)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("(?s")
	if !options.Sensitive {
		sb.WriteString("i")
	}
	sb.WriteString(")^")

	var keys []Key
	loose := emitRoot(tokens, &sb, &keys, options.Trailing)
	if options.Trailing && !loose {
		sb.WriteString("(?:" + regexp.QuoteMeta(delimiter) + ")?")
	}
	sb.WriteString("$")

	regex, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, &SyntaxError{Pattern: pattern, Message: fmt.Sprintf("regexp: %v", err)}
	}

	return &Matcher{
		pattern: pattern,
		regex:   regex,
		keys:    keys,
		decode:  options.Decode,
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string, opts ...Option) *Matcher {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// emitRoot writes the top-level tokens. When trailing is set and the last
// required token is text ending in the delimiter, that delimiter is made
// optional; the return value reports whether that happened. The delimiter
// stays bound to the optional groups after it, so "/a/{b}" accepts "/a",
// "/a/" and "/a/b" but not "/ab".
func emitRoot(tokens []Token, sb *strings.Builder, keys *[]Key, trailing bool) bool {
	lastRequired := -1
	for i, tok := range tokens {
		if _, ok := tok.(Group); !ok {
			lastRequired = i
		}
	}

	for i, tok := range tokens {
		text, ok := tok.(Text)
		if trailing && i == lastRequired && ok && strings.HasSuffix(text.Value, delimiter) {
			sep := regexp.QuoteMeta(delimiter)
			sb.WriteString(regexp.QuoteMeta(strings.TrimSuffix(text.Value, delimiter)))
			rest := tokens[i+1:]
			if len(rest) == 0 {
				sb.WriteString(sep + "?")
				return true
			}
			sb.WriteString("(?:" + sep)
			for _, group := range rest {
				emit(group, sb, keys, false)
			}
			sb.WriteString("|" + sep + "?)")
			return true
		}
		emit(tok, sb, keys, false)
	}
	return false
}

func emit(tok Token, sb *strings.Builder, keys *[]Key, optional bool) {
	switch t := tok.(type) {
	case Text:
		sb.WriteString(regexp.QuoteMeta(t.Value))
	case Parameter:
		sb.WriteString("([^" + regexp.QuoteMeta(delimiter) + "]+)")
		*keys = append(*keys, Key{Name: t.Name, Kind: KeyParam, Optional: optional})
	case Wildcard:
		sb.WriteString("(.+)")
		*keys = append(*keys, Key{Name: t.Name, Kind: KeyWildcard, Optional: optional})
	case Group:
		sb.WriteString("(?:")
		for _, inner := range t.Tokens {
			emit(inner, sb, keys, true)
		}
		sb.WriteString(")?")
	}
}

// Pattern returns the source template.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Keys returns the captures in template order.
func (m *Matcher) Keys() []Key {
	keys := make([]Key, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Regexp returns the compiled expression.
func (m *Matcher) Regexp() *regexp.Regexp {
	return m.regex
}

// Test reports whether Match would succeed on path. Captures are only
// checked for decoding, never returned.
func (m *Matcher) Test(path string) bool {
	if m.decode == nil || len(m.keys) == 0 {
		return m.regex.MatchString(path)
	}
	_, ok := m.Match(path)
	return ok
}

// Match matches path and returns its decoded captures. A capture that fails
// to decode makes the whole match fail.
func (m *Matcher) Match(path string) (*Match, bool) {
	idx := m.regex.FindStringSubmatchIndex(path)
	if idx == nil {
		return nil, false
	}

	params := make(Params, len(m.keys))
	for i, key := range m.keys {
		start, end := idx[2*(i+1)], idx[2*(i+1)+1]
		if start < 0 {
			continue
		}
		raw := path[start:end]

		if key.Kind == KeyWildcard {
			parts := strings.Split(raw, delimiter)
			for j, part := range parts {
				decoded, err := m.decodeSegment(part)
				if err != nil {
					return nil, false
				}
				parts[j] = decoded
			}
			params[key.Name] = ListValue(parts)
			continue
		}

		decoded, err := m.decodeSegment(raw)
		if err != nil {
			return nil, false
		}
		params[key.Name] = TextValue(decoded)
	}

	return &Match{Path: path[idx[0]:idx[1]], Params: params}, true
}

func (m *Matcher) decodeSegment(s string) (string, error) {
	if m.decode == nil {
		return s, nil
	}
	return m.decode(s)
}
