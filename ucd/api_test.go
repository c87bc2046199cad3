package ucd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contains(ranges []*CodePointRange, cp rune) bool {
	for _, r := range ranges {
		if cp >= r.From && cp <= r.To {
			return true
		}
	}
	return false
}

func TestFindCodePointRanges(t *testing.T) {
	tests := []struct {
		caption  string
		propName string
		propVal  string
		in       []rune
		out      []rune
		inverse  bool
	}{
		{
			caption: "a general category by its short name",
			propVal: "Lu",
			in:      []rune{'A', 'Z', 'Ä'},
			out:     []rune{'a', '0'},
		},
		{
			caption: "a general category by its long name",
			propVal: "Decimal_Number",
			in:      []rune{'0', '9', '٣'},
			out:     []rune{'a'},
		},
		{
			caption:  "a general category with an explicit property name",
			propName: "General_Category",
			propVal:  "letter",
			in:       []rune{'a', 'Z', 'あ'},
			out:      []rune{'1', ' '},
		},
		{
			caption: "a composite category",
			propVal: "LC",
			in:      []rune{'a', 'A', 'ǅ'},
			out:     []rune{'あ'},
		},
		{
			caption: "unassigned code points are the complement of the assigned ones",
			propVal: "Cn",
			in:      []rune{'a', '0', ' '},
			inverse: true,
		},
		{
			caption:  "a script",
			propName: "Script",
			propVal:  "Greek",
			in:       []rune{'α', 'Ω'},
			out:      []rune{'a'},
		},
		{
			caption: "a script without a property name",
			propVal: "Hiragana",
			in:      []rune{'あ'},
			out:     []rune{'ア'},
		},
		{
			caption: "a derived binary property",
			propVal: "Alphabetic",
			in:      []rune{'a', 'Ⅳ'},
			out:     []rune{'1'},
		},
		{
			caption:  "a binary property with a negative value",
			propName: "White_Space",
			propVal:  "no",
			in:       []rune{' ', '\t'},
			inverse:  true,
		},
		{
			caption: "a binary property known only to the unicode tables",
			propVal: "Hex_Digit",
			in:      []rune{'0', 'f', 'F'},
			out:     []rune{'g'},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ranges, inverse, err := FindCodePointRanges(tt.propName, tt.propVal)
			require.NoError(t, err)
			assert.Equal(t, tt.inverse, inverse)
			for _, cp := range tt.in {
				assert.True(t, contains(ranges, cp), "%U", cp)
			}
			for _, cp := range tt.out {
				assert.False(t, contains(ranges, cp), "%U", cp)
			}
			for i := 1; i < len(ranges); i++ {
				assert.LessOrEqual(t, ranges[i-1].From, ranges[i].From)
			}
		})
	}
}

func TestFindCodePointRanges_Errors(t *testing.T) {
	tests := []struct {
		caption  string
		propName string
		propVal  string
	}{
		{
			caption: "an unknown value",
			propVal: "Klingon",
		},
		{
			caption:  "an unknown property",
			propName: "Emoji_Flavour",
			propVal:  "yes",
		},
		{
			caption:  "an unknown category",
			propName: "gc",
			propVal:  "Xx",
		},
		{
			caption:  "a binary property with a non-binary value",
			propName: "Alphabetic",
			propVal:  "maybe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, _, err := FindCodePointRanges(tt.propName, tt.propVal)
			assert.Error(t, err)
		})
	}
}

func TestIsContributoryProperty(t *testing.T) {
	assert.True(t, IsContributoryProperty("Other_Alphabetic"))
	assert.True(t, IsContributoryProperty("oupper"))
	assert.False(t, IsContributoryProperty("Alphabetic"))
	assert.False(t, IsContributoryProperty(""))
}
