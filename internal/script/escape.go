package script

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsafeEmbedding is returned when user-supplied text cannot be made safe
// to embed in the generated program. Escaping covers every printable rune
// plus tab/newline/carriage return; any other control character has no
// representation in the string syntax we emit.
var ErrUnsafeEmbedding = errors.New("text cannot be safely embedded in program")

// QuoteString renders s as a double-quoted Python string literal. All quoting
// characters in the input are escaped, so the generated program cannot be
// broken out of by user text.
func QuoteString(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				return "", fmt.Errorf("%w: control character %U", ErrUnsafeEmbedding, r)
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

// UnquoteString reverses QuoteString. It exists so the embedding contract is
// testable as a round trip: unquoting an embedded literal must yield the
// original text.
func UnquoteString(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", fmt.Errorf("not a quoted literal: %q", lit)
	}
	body := lit[1 : len(lit)-1]
	var b strings.Builder
	escaped := false
	for _, r := range body {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf("unknown escape \\%c", r)
		}
		escaped = false
	}
	if escaped {
		return "", fmt.Errorf("dangling escape in %q", lit)
	}
	return b.String(), nil
}
