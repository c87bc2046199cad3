package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringFromLiteral(t *testing.T) {
	tests := []struct {
		caption  string
		literal  string
		expected string
		err      error
	}{
		{
			caption:  "plain characters",
			literal:  `'abc'`,
			expected: "abc",
		},
		{
			caption:  "escape sequences",
			literal:  `'\n\r\t\b\f\\\''`,
			expected: "\n\r\t\b\f\\'",
		},
		{
			caption:  "unicode escapes",
			literal:  `'A\u{1F600}'`,
			expected: "A\U0001F600",
		},
		{
			caption: "an unknown escape is an error",
			literal: `'\q'`,
			err:     ErrInvalidEscape,
		},
		{
			caption: "a truncated unicode escape is an error",
			literal: `'\u00'`,
			err:     ErrInvalidEscape,
		},
		{
			caption: "a missing quote is an error",
			literal: `'abc`,
			err:     ErrInvalidLiteral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			s, err := StringFromLiteral(tt.literal)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestCharValueFromLiteral(t *testing.T) {
	assert.Equal(t, int('x'), CharValueFromLiteral(`'x'`))
	assert.Equal(t, int('\n'), CharValueFromLiteral(`'\n'`))
	assert.Equal(t, 0x3042, CharValueFromLiteral(`'あ'`))
	assert.Equal(t, 0x1F600, CharValueFromLiteral(`'\u{1F600}'`))
	assert.Equal(t, -1, CharValueFromLiteral(`'xy'`))
	assert.Equal(t, -1, CharValueFromLiteral(`''`))
	assert.Equal(t, -1, CharValueFromLiteral(`'\q'`))
}

func TestCharString(t *testing.T) {
	assert.Equal(t, "'a'", CharString('a'))
	assert.Equal(t, `'\n'`, CharString('\n'))
	assert.Equal(t, `'\u{0}'`, CharString(0))
	assert.Equal(t, `'あ'`, CharString(0x3042))
	assert.Equal(t, `'\u{1F600}'`, CharString(0x1F600))
}
