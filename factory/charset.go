package factory

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/antlr4-go/antlr/v4"
	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
	"github.com/nihei9/atnc/ucd"
)

var charSetEscapes = map[byte]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  '\b',
	'f':  '\f',
	'\\': '\\',
	'-':  '-',
	']':  ']',
	'[':  '[',
}

// charSetElement is a code point or, for `\p{...}` and `\P{...}`, a set of code points.
type charSetElement struct {
	char int
	set  *atn.IntervalSet
}

// parseCharSet parses a lexer char set such as `[a-z_\p{Lu}]`. A `-` between two code points
// makes a range; a `-` at the start or at the end stands for itself.
func parseCharSet(text string) (*atn.IntervalSet, error) {
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCharSet, text)
	}
	body := text[1 : len(text)-1]

	set := atn.NewIntervalSet()
	prev := -1
	inRange := false
	for i := 0; i < len(body); {
		if body[i] == '-' && prev >= 0 && !inRange && i+1 < len(body) {
			inRange = true
			i++
			continue
		}

		e, n, err := parseCharSetElement(body[i:])
		if err != nil {
			return nil, err
		}
		i += n

		if e.set != nil {
			if inRange {
				return nil, fmt.Errorf("%w: a character property cannot bound a range: %v", ErrInvalidCharSet, text)
			}
			set.AddSet(e.set)
			prev = -1
			continue
		}
		if inRange {
			if e.char < prev {
				return nil, fmt.Errorf("%w: %v-%v", ErrEmptyRange, ast.CharString(prev), ast.CharString(e.char))
			}
			set.AddRange(prev, e.char)
			prev = -1
			inRange = false
			continue
		}
		set.Add(e.char)
		prev = e.char
	}
	return set, nil
}

func parseCharSetElement(s string) (*charSetElement, int, error) {
	if s[0] != '\\' {
		r, n := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && n <= 1 {
			return nil, 0, fmt.Errorf("%w: invalid UTF-8 sequence", ErrInvalidCharSet)
		}
		return &charSetElement{char: int(r)}, n, nil
	}
	if len(s) < 2 {
		return nil, 0, fmt.Errorf("%w: an escape sequence is incomplete", ErrInvalidCharSet)
	}

	switch s[1] {
	case 'u':
		n := unicodeEscapeLen(s)
		v, err := ast.Unescape(s[:n], nil)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidCharSet, err)
		}
		r, _ := utf8.DecodeRuneInString(v)
		return &charSetElement{char: int(r)}, n, nil
	case 'p', 'P':
		end := strings.IndexByte(s, '}')
		if len(s) < 3 || s[2] != '{' || end < 0 {
			return nil, 0, fmt.Errorf("%w: a character property must be enclosed in {}: %v", ErrInvalidCharSet, s)
		}
		set, err := propertySet(s[3:end], s[1] == 'P')
		if err != nil {
			return nil, 0, err
		}
		return &charSetElement{set: set}, end + 1, nil
	}

	r, ok := charSetEscapes[s[1]]
	if !ok {
		return nil, 0, fmt.Errorf("%w: invalid escape sequence: \\%c", ErrInvalidCharSet, s[1])
	}
	return &charSetElement{char: int(r)}, 2, nil
}

// unicodeEscapeLen returns the length of the `\uXXXX` or `\u{X...}` sequence at the head of s.
func unicodeEscapeLen(s string) int {
	if strings.HasPrefix(s, `\u{`) {
		if end := strings.IndexByte(s, '}'); end >= 0 {
			return end + 1
		}
		return len(s)
	}
	if len(s) < 6 {
		return len(s)
	}
	return 6
}

// propertySet resolves `Name=Value` or `Value` of a character property.
func propertySet(prop string, negate bool) (*atn.IntervalSet, error) {
	var name, value string
	if i := strings.IndexByte(prop, '='); i >= 0 {
		name = prop[:i]
		value = prop[i+1:]
	} else {
		value = prop
	}
	if value == "" {
		return nil, fmt.Errorf("%w: a character property value is missing", ErrInvalidCharSet)
	}
	if ucd.IsContributoryProperty(name) || name == "" && ucd.IsContributoryProperty(value) {
		return nil, fmt.Errorf("%w: a contributory property is not allowed: %v", ErrInvalidCharSet, prop)
	}

	ranges, inverse, err := ucd.FindCodePointRanges(name, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCharSet, err)
	}
	set := atn.NewIntervalSet()
	for _, r := range ranges {
		set.AddRange(int(r.From), int(r.To))
	}
	if inverse != negate {
		set = set.Complement(antlr.LexerMinCharValue, antlr.LexerMaxCharValue)
	}
	return set, nil
}
