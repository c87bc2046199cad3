package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidLiteral = errors.New("invalid string literal")
	ErrInvalidEscape  = errors.New("invalid escape sequence")
)

var escapedChars = map[byte]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  '\b',
	'f':  '\f',
	'\\': '\\',
	'\'': '\'',
}

// StringFromLiteral decodes a quoted grammar literal such as `'a\n'`.
func StringFromLiteral(literal string) (string, error) {
	if len(literal) < 2 || literal[0] != '\'' || literal[len(literal)-1] != '\'' {
		return "", fmt.Errorf("%w: %v", ErrInvalidLiteral, literal)
	}
	return Unescape(literal[1:len(literal)-1], escapedChars)
}

// Unescape decodes the escape sequences of s. escapes maps the character following a backslash
// to its value; `\uXXXX` and `\u{X...}` are always recognised.
func Unescape(s string, escapes map[byte]rune) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("%w: %v", ErrInvalidEscape, s[i:])
		}
		c := s[i+1]
		if c == 'u' {
			r, n, err := decodeUnicodeEscape(s[i:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
			continue
		}
		r, ok := escapes[c]
		if !ok {
			return "", fmt.Errorf("%w: \\%c", ErrInvalidEscape, c)
		}
		b.WriteRune(r)
		i += 2
	}
	return b.String(), nil
}

// decodeUnicodeEscape decodes `\uXXXX` or `\u{X...}` at the head of s and returns the code
// point and the number of bytes consumed.
func decodeUnicodeEscape(s string) (rune, int, error) {
	var hex string
	var n int
	if strings.HasPrefix(s, `\u{`) {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, fmt.Errorf("%w: %v", ErrInvalidEscape, s)
		}
		hex = s[3:end]
		n = end + 1
	} else {
		if len(s) < 6 {
			return 0, 0, fmt.Errorf("%w: %v", ErrInvalidEscape, s)
		}
		hex = s[2:6]
		n = 6
	}
	if hex == "" || len(hex) > 6 {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidEscape, s[:n])
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidEscape, s[:n])
	}
	return rune(v), n, nil
}

// CharValueFromLiteral returns the code point of a literal holding exactly one character, or -1.
func CharValueFromLiteral(literal string) int {
	s, err := StringFromLiteral(literal)
	if err != nil {
		return -1
	}
	if utf8.RuneCountInString(s) != 1 {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s)
	return int(r)
}

// CharString returns a readable form of a code point, quoting it like a grammar literal.
func CharString(c int) string {
	switch {
	case c < 0:
		return "<EOF>"
	case c == '\n':
		return `'\n'`
	case c == '\r':
		return `'\r'`
	case c == '\t':
		return `'\t'`
	case c == '\'':
		return `'\''`
	case c == '\\':
		return `'\\'`
	case c < 0x20 || c == 0x7f || c > 0xffff:
		return fmt.Sprintf(`'\u{%X}'`, c)
	case c > 0x7e:
		return fmt.Sprintf(`'\u%04X'`, c)
	}
	return fmt.Sprintf("'%c'", rune(c))
}
