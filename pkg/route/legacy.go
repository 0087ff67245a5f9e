package route

import (
	"regexp"
	"strings"
)

// DefaultSplatKey names the capture produced for a translated "/*" splat.
const DefaultSplatKey = "path"

// legacyOptionalParam matches "/:name?".
var legacyOptionalParam = regexp.MustCompile(`/:([A-Za-z0-9_]+)\?`)

// TranslateLegacy rewrites the legacy template dialect into the one
// understood by package pattern:
//
//	/:name?  ->  /{.:name}
//	/*       ->  {/*splatKey}
//
// Every occurrence is rewritten. A "/*" already inside "{" or followed by a
// name is left alone, so translating twice changes nothing. An empty
// splatKey means DefaultSplatKey. Repeat modifiers ("+") are not rewritten.
func TranslateLegacy(template, splatKey string) string {
	if splatKey == "" {
		splatKey = DefaultSplatKey
	}

	out := legacyOptionalParam.ReplaceAllString(template, "/{.:$1}")

	if !strings.Contains(out, "/*") {
		return out
	}

	var sb strings.Builder
	sb.Grow(len(out) + len(splatKey) + 2)
	for i := 0; i < len(out); i++ {
		if out[i] == '/' && i+1 < len(out) && out[i+1] == '*' &&
			(i == 0 || out[i-1] != '{') &&
			(i+2 >= len(out) || !isIdentByte(out[i+2])) {
			sb.WriteString("{/*")
			sb.WriteString(splatKey)
			sb.WriteString("}")
			i++
			continue
		}
		sb.WriteByte(out[i])
	}
	return sb.String()
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b == '"' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
