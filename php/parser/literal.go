package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dhamidi/phparse/lalr"
)

// parseInt converts an integer literal. Literals that do not fit into an
// int64 become float64, as in PHP.
func parseInt(raw string) (any, error) {
	s := strings.ReplaceAll(raw, "_", "")
	if s[0] != '0' || s == "0" {
		v, err := strconv.ParseInt(s, 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return strconv.ParseFloat(s, 64)
		}
		return v, err
	}
	switch s[1] {
	case 'x', 'X':
		return parseRadix(s[2:], 16), nil
	case 'b', 'B':
		return parseRadix(s[2:], 2), nil
	}
	if strings.ContainsAny(s, "89") {
		return nil, lalr.NewError("Invalid numeric literal")
	}
	if s[1] == 'o' || s[1] == 'O' {
		s = s[2:]
	}
	return parseRadix(s, 8), nil
}

func parseRadix(digits string, base int) any {
	if v, err := strconv.ParseInt(digits, base, 64); err == nil {
		return v
	}
	f := 0.0
	for i := 0; i < len(digits); i++ {
		f = f*float64(base) + float64(digitValue(digits[i]))
	}
	return f
}

func digitValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	}
	return 0
}

func parseFloat(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, "_", "")
	if len(s) > 1 && s[0] == '0' {
		switch {
		case s[1] == 'x' || s[1] == 'X':
			return toFloat(parseRadix(s[2:], 16)), nil
		case s[1] == 'b' || s[1] == 'B':
			return toFloat(parseRadix(s[2:], 2)), nil
		case !strings.ContainsAny(s, ".eE"):
			if i := strings.IndexAny(s, "89"); i >= 0 {
				s = s[:i]
			}
			return toFloat(parseRadix(s, 8)), nil
		}
	}
	return strconv.ParseFloat(s, 64)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

var singleQuoteReplacer = strings.NewReplacer(`\\`, `\`, `\'`, `'`)

// parseString unquotes a single or double quoted literal. Unknown escape
// sequences are kept verbatim.
func parseString(raw string) (string, error) {
	if len(raw) < 2 {
		return raw, nil
	}
	body := raw[1 : len(raw)-1]
	if raw[0] == '\'' {
		return singleQuoteReplacer.Replace(body), nil
	}
	return unescape(body)
}

var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'$':  '$',
	'"':  '"',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'f':  '\f',
	'v':  '\v',
	'e':  0x1b,
}

func unescape(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		if c, ok := simpleEscapes[next]; ok {
			b.WriteByte(c)
			i++
			continue
		}
		switch {
		case (next == 'x' || next == 'X') && i+2 < len(s) && isHex(s[i+2]):
			end := i + 3
			if end < len(s) && isHex(s[end]) {
				end++
			}
			v, _ := strconv.ParseUint(s[i+2:end], 16, 8)
			b.WriteByte(byte(v))
			i = end - 1
		case next == 'u' && i+2 < len(s) && s[i+2] == '{':
			end := strings.IndexByte(s[i+3:], '}')
			if end <= 0 || !allHex(s[i+3:i+3+end]) {
				b.WriteByte('\\')
				continue
			}
			digits := s[i+3 : i+3+end]
			cp, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || cp > 0x1FFFFF {
				return "", lalr.NewError("Invalid UTF-8 codepoint escape sequence: Codepoint too large")
			}
			writeCodePoint(&b, uint32(cp))
			i += 3 + end
		case next >= '0' && next <= '7':
			end := i + 2
			for end < len(s) && end < i+4 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			v, _ := strconv.ParseUint(s[i+1:end], 8, 16)
			b.WriteByte(byte(v & 255))
			i = end - 1
		default:
			b.WriteByte('\\')
		}
	}
	return b.String(), nil
}

// writeCodePoint encodes cp like PHP does, surrogates included.
func writeCodePoint(b *strings.Builder, cp uint32) {
	switch {
	case cp <= 0x7F:
		b.WriteByte(byte(cp))
	case cp <= 0x7FF:
		b.WriteByte(byte(cp>>6) + 0xC0)
		b.WriteByte(byte(cp&0x3F) + 0x80)
	case cp <= 0xFFFF:
		b.WriteByte(byte(cp>>12) + 0xE0)
		b.WriteByte(byte((cp>>6)&0x3F) + 0x80)
		b.WriteByte(byte(cp&0x3F) + 0x80)
	default:
		b.WriteByte(byte(cp>>18) + 0xF0)
		b.WriteByte(byte((cp>>12)&0x3F) + 0x80)
		b.WriteByte(byte((cp>>6)&0x3F) + 0x80)
		b.WriteByte(byte(cp&0x3F) + 0x80)
	}
}

func isHex(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func allHex(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return false
		}
	}
	return true
}
