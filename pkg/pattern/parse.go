package pattern

import (
	"strings"
	"unicode"
)

// Token is one element of a parsed template.
// It is one of Text, Parameter, Wildcard or Group.
type Token interface {
	token()
}

// Text is a literal run of characters.
type Text struct {
	Value string
}

// Parameter matches a single path segment.
type Parameter struct {
	Name string
}

// Wildcard matches one or more path segments.
type Wildcard struct {
	Name string
}

// Group is an optional sequence of tokens.
type Group struct {
	Tokens []Token
}

func (Text) token()      {}
func (Parameter) token() {}
func (Wildcard) token()  {}
func (Group) token()     {}

// reservedChars cannot appear unescaped in a template.
const reservedChars = "()[]?+!"

type lexKind int

const (
	lexChar lexKind = iota
	lexEscaped
	lexParam
	lexWildcard
	lexOpen
	lexClose
	lexEnd
)

type lexToken struct {
	kind  lexKind
	index int
	value string
}

// lex splits a template into lexical tokens. Indexes are rune offsets.
func lex(pattern string) ([]lexToken, error) {
	chars := []rune(pattern)
	tokens := make([]lexToken, 0, len(chars)+1)

	i := 0
	for i < len(chars) {
		c := chars[i]
		switch {
		case c == '{':
			tokens = append(tokens, lexToken{kind: lexOpen, index: i, value: "{"})
			i++
		case c == '}':
			tokens = append(tokens, lexToken{kind: lexClose, index: i, value: "}"})
			i++
		case c == '\\':
			if i+1 >= len(chars) {
				return nil, newSyntaxError(pattern, i, "unexpected end after escape")
			}
			tokens = append(tokens, lexToken{kind: lexEscaped, index: i, value: string(chars[i+1])})
			i += 2
		case c == ':' || c == '*':
			name, next, err := readName(pattern, chars, i+1)
			if err != nil {
				return nil, err
			}
			if name == "" {
				return nil, newSyntaxError(pattern, i, "missing parameter name")
			}
			kind := lexParam
			if c == '*' {
				kind = lexWildcard
			}
			tokens = append(tokens, lexToken{kind: kind, index: i, value: name})
			i = next
		case strings.ContainsRune(reservedChars, c):
			return nil, newSyntaxError(pattern, i, "unexpected %q", c)
		default:
			tokens = append(tokens, lexToken{kind: lexChar, index: i, value: string(c)})
			i++
		}
	}

	tokens = append(tokens, lexToken{kind: lexEnd, index: len(chars)})
	return tokens, nil
}

// readName reads a parameter name starting at pos and returns it with the
// offset of the first rune after it.
func readName(pattern string, chars []rune, pos int) (name string, next int, err error) {
	if pos < len(chars) && chars[pos] == '"' {
		var sb strings.Builder
		i := pos + 1
		for i < len(chars) {
			switch chars[i] {
			case '"':
				return sb.String(), i + 1, nil
			case '\\':
				i++
				if i >= len(chars) {
					return "", 0, newSyntaxError(pattern, i, "unexpected end after escape")
				}
			}
			sb.WriteRune(chars[i])
			i++
		}
		return "", 0, newSyntaxError(pattern, pos, "unterminated quote")
	}

	i := pos
	for i < len(chars) && isNameChar(chars[i]) {
		i++
	}
	return string(chars[pos:i]), i, nil
}

func isNameChar(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Parse parses a template into tokens.
func Parse(pattern string) ([]Token, error) {
	lexed, err := lex(pattern)
	if err != nil {
		return nil, err
	}

	p := &parser{pattern: pattern, tokens: lexed}
	return p.parse(false)
}

type parser struct {
	pattern string
	tokens  []lexToken
	pos     int
}

func (p *parser) next() lexToken {
	t := p.tokens[p.pos]
	if t.kind != lexEnd {
		p.pos++
	}
	return t
}

func (p *parser) parse(inGroup bool) ([]Token, error) {
	var out []Token
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			out = append(out, Text{Value: text.String()})
			text.Reset()
		}
	}

	for {
		t := p.next()
		switch t.kind {
		case lexChar, lexEscaped:
			text.WriteString(t.value)
		case lexParam:
			flush()
			out = append(out, Parameter{Name: t.value})
		case lexWildcard:
			flush()
			out = append(out, Wildcard{Name: t.value})
		case lexOpen:
			flush()
			inner, err := p.parse(true)
			if err != nil {
				return nil, err
			}
			out = append(out, Group{Tokens: inner})
		case lexClose:
			if !inGroup {
				return nil, newSyntaxError(p.pattern, t.index, "unexpected \"}\"")
			}
			flush()
			return out, nil
		case lexEnd:
			if inGroup {
				return nil, newSyntaxError(p.pattern, t.index, "unterminated group")
			}
			flush()
			return out, nil
		}
	}
}
