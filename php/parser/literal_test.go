package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"0", int64(0)},
		{"42", int64(42)},
		{"1_000", int64(1000)},
		{"0x1F", int64(31)},
		{"0XfF", int64(255)},
		{"0b101", int64(5)},
		{"017", int64(15)},
		{"0o17", int64(15)},
		{"0O17", int64(15)},
		{"9223372036854775807", int64(math.MaxInt64)},
		{"9223372036854775808", float64(9223372036854775808)},
		{"0xFFFFFFFFFFFFFFFF", float64(18446744073709551615)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseInt(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInt_InvalidOctal(t *testing.T) {
	_, err := parseInt("018")
	var perr *lalr.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Invalid numeric literal", perr.Message)
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.5", 1.5},
		{".5", 0.5},
		{"1e3", 1000},
		{"1_0.2_5", 10.25},
		{"1E-2", 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseFloat(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single", `'a\'b\\c\n'`, `a'b\c\n`},
		{"double simple", `"a\tb\n\$x\"\\"`, "a\tb\n$x\"\\"},
		{"escape char", `"\e"`, "\x1b"},
		{"hex and octal", `"\x41\101"`, "AA"},
		{"one hex digit", `"\x9z"`, "\tz"},
		{"octal wraps", `"\400"`, "\x00"},
		{"unicode", `"\u{1F600}"`, "\U0001F600"},
		{"unicode ascii", `"\u{41}"`, "A"},
		{"unknown kept", `"\q\u"`, `\q\u`},
		{"empty", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseString(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseString_CodepointTooLarge(t *testing.T) {
	_, err := parseString(`"\u{200000}"`)
	var perr *lalr.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Invalid UTF-8 codepoint escape sequence: Codepoint too large", perr.Message)
}

func TestParse_ScalarNodes(t *testing.T) {
	stmts := mustParse(t, `<?php echo 0x10, 1.5, 9223372036854775808, "a\x41";`)
	require.Len(t, stmts, 1)
	exprs := stmts[0].Children
	require.Len(t, exprs, 4)

	assert.Equal(t, ast.KindLNumber, exprs[0].Kind)
	assert.Equal(t, int64(16), exprs[0].Value)
	assert.Equal(t, ast.KindDNumber, exprs[1].Kind)
	assert.Equal(t, 1.5, exprs[1].Value)
	assert.Equal(t, ast.KindDNumber, exprs[2].Kind, "integer overflow yields a float")
	assert.Equal(t, ast.KindString, exprs[3].Kind)
	assert.Equal(t, "aA", exprs[3].Value)
}

func TestParse_InvalidOctalIsReportedAtLiteral(t *testing.T) {
	_, err := Parse([]byte("<?php\n$x = 018;"))
	var perr *lalr.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Invalid numeric literal on line 2", perr.Error())
}
