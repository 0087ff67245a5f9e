package route

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/vyrodovalexey/routekit/pkg/pattern"
)

// Kind is the type of a coerced parameter.
type Kind int

const (
	// KindString is a value that is neither a boolean nor a number.
	KindString Kind = iota
	// KindNumber is a numeric literal.
	KindNumber
	// KindBool is "true" or "false" in any case.
	KindBool
	// KindStrings is a multi-segment wildcard capture.
	KindStrings
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindStrings:
		return "strings"
	default:
		return "string"
	}
}

// Param is a coerced parameter value. The zero value is an empty string.
type Param struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	list    []string
}

// StringParam returns a string parameter.
func StringParam(s string) Param {
	return Param{kind: KindString, str: s}
}

// NumberParam returns a numeric parameter.
func NumberParam(n float64) Param {
	return Param{kind: KindNumber, num: n}
}

// BoolParam returns a boolean parameter.
func BoolParam(b bool) Param {
	return Param{kind: KindBool, boolean: b}
}

// StringsParam returns a list parameter.
func StringsParam(list []string) Param {
	return Param{kind: KindStrings, list: list}
}

// Kind returns the variant held.
func (p Param) Kind() Kind {
	return p.kind
}

// Str returns the string value and whether p is a string.
func (p Param) Str() (string, bool) {
	return p.str, p.kind == KindString
}

// Number returns the numeric value and whether p is a number.
func (p Param) Number() (float64, bool) {
	return p.num, p.kind == KindNumber
}

// Bool returns the boolean value and whether p is a boolean.
func (p Param) Bool() (bool, bool) {
	return p.boolean, p.kind == KindBool
}

// Strings returns the list value and whether p is a list.
func (p Param) Strings() ([]string, bool) {
	return p.list, p.kind == KindStrings
}

// Value returns the held value as string, float64, bool or []string.
func (p Param) Value() any {
	switch p.kind {
	case KindNumber:
		return p.num
	case KindBool:
		return p.boolean
	case KindStrings:
		return p.list
	default:
		return p.str
	}
}

// String formats the value the way Build writes it into a path.
func (p Param) String() string {
	switch p.kind {
	case KindNumber:
		return formatNumber(p.num)
	case KindBool:
		return strconv.FormatBool(p.boolean)
	case KindStrings:
		return strings.Join(p.list, "/")
	default:
		return p.str
	}
}

// MarshalYAML encodes the held value.
func (p Param) MarshalYAML() (interface{}, error) {
	if p.kind == KindNumber && (math.IsInf(p.num, 0) || p.num != math.Trunc(p.num)) {
		return p.num, nil
	}
	if p.kind == KindNumber && math.Abs(p.num) < 1<<53 {
		return int64(p.num), nil
	}
	return p.Value(), nil
}

// Params maps parameter names to coerced values.
type Params map[string]Param

// Values returns the params as plain Go values.
func (p Params) Values() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v.Value()
	}
	return out
}

// Coerce converts raw captures. Booleans are checked first, then numbers;
// anything else stays a string. Lists pass through unchanged.
func Coerce(raw pattern.Params) Params {
	if len(raw) == 0 {
		return nil
	}
	out := make(Params, len(raw))
	for name, v := range raw {
		out[name] = CoerceValue(v)
	}
	return out
}

// CoerceValue converts one raw capture.
func CoerceValue(v pattern.Value) Param {
	if v.IsList() {
		return StringsParam(v.List())
	}
	return CoerceString(v.Text())
}

// CoerceString converts one captured segment.
func CoerceString(s string) Param {
	switch strings.ToLower(s) {
	case "true":
		return BoolParam(true)
	case "false":
		return BoolParam(false)
	}
	if n, ok := parseNumber(s); ok {
		return NumberParam(n)
	}
	return StringParam(s)
}

// parseNumber accepts decimal and exponent literals, "Infinity" with an
// optional sign and unsigned 0x, 0o and 0b integers. Surrounding whitespace
// is ignored; blank input, "NaN" and Go-only spellings such as "inf" or
// "1_000" are rejected.
func parseNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, false
	}

	switch t {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(t) > 2 && t[0] == '0' {
		base := 0
		switch t[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if strings.ContainsRune(t, '_') {
				return 0, false
			}
			n, err := strconv.ParseUint(t[2:], base, 64)
			if err != nil {
				var numErr *strconv.NumError
				if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
					return parseBigUnsigned(t[2:], base)
				}
				return 0, false
			}
			return float64(n), true
		}
	}

	if !isDecimalLiteral(t) {
		return 0, false
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return n, true
		}
		return 0, false
	}
	return n, true
}

// isDecimalLiteral reports whether s is [+-]digits[.digits][e[+-]digits]
// with at least one digit in the mantissa.
func isDecimalLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func parseBigUnsigned(digits string, base int) (float64, bool) {
	var n float64
	for i := 0; i < len(digits); i++ {
		d, err := strconv.ParseUint(digits[i:i+1], base, 8)
		if err != nil {
			return 0, false
		}
		n = n*float64(base) + float64(d)
	}
	return n, true
}

func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
