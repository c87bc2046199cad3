package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCharSet(t *testing.T) {
	tests := []struct {
		caption     string
		text        string
		set         string
		contains    []rune
		notContains []rune
	}{
		{
			caption: "a range",
			text:    `[a-z]`,
			set:     "{97..122}",
		},
		{
			caption: "adjacent characters merge",
			text:    `[abc]`,
			set:     "{97..99}",
		},
		{
			caption: "a leading hyphen stands for itself",
			text:    `[-a]`,
			set:     "{45, 97}",
		},
		{
			caption: "a trailing hyphen stands for itself",
			text:    `[a-]`,
			set:     "{45, 97}",
		},
		{
			caption: "an escaped hyphen does not make a range",
			text:    `[a\-z]`,
			set:     "{45, 97, 122}",
		},
		{
			caption: "a hyphen after a range stands for itself",
			text:    `[a-c-e]`,
			set:     "{45, 97..99, 101}",
		},
		{
			caption: "escapes",
			text:    `[\t\n\]\\]`,
			set:     "{9..10, 92..93}",
		},
		{
			caption: "unicode escapes",
			text:    `[A-C\u{1F600}]`,
			set:     "{65..67, 128512}",
		},
		{
			caption: "an empty set",
			text:    `[]`,
			set:     "{}",
		},
		{
			caption:     "a general category",
			text:        `[\p{Lu}]`,
			contains:    []rune{'A', 'Z', 'Ä'},
			notContains: []rune{'a', '0'},
		},
		{
			caption:     "a negated general category",
			text:        `[\P{Lu}]`,
			contains:    []rune{'a', '0'},
			notContains: []rune{'A', 'Z'},
		},
		{
			caption:     "a property and characters",
			text:        `[_\p{Nd}]`,
			contains:    []rune{'_', '0', '9'},
			notContains: []rune{'a'},
		},
		{
			caption:     "a named property",
			text:        `[\p{Script=Greek}]`,
			contains:    []rune{'α'},
			notContains: []rune{'a'},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			set, err := parseCharSet(tt.text)
			require.NoError(t, err)
			if tt.set != "" {
				assert.Equal(t, tt.set, set.String())
			}
			for _, c := range tt.contains {
				assert.True(t, set.Contains(int(c)), "%q must be in the set", c)
			}
			for _, c := range tt.notContains {
				assert.False(t, set.Contains(int(c)), "%q must not be in the set", c)
			}
		})
	}
}

func TestParseCharSet_Errors(t *testing.T) {
	tests := []struct {
		caption string
		text    string
		cause   error
	}{
		{
			caption: "missing brackets",
			text:    `a-z`,
			cause:   ErrInvalidCharSet,
		},
		{
			caption: "a reversed range",
			text:    `[z-a]`,
			cause:   ErrEmptyRange,
		},
		{
			caption: "an unknown escape",
			text:    `[\q]`,
			cause:   ErrInvalidCharSet,
		},
		{
			caption: "an incomplete unicode escape",
			text:    `[\u00]`,
			cause:   ErrInvalidCharSet,
		},
		{
			caption: "a property bounding a range",
			text:    `[a-\p{Lu}]`,
			cause:   ErrInvalidCharSet,
		},
		{
			caption: "an unclosed property",
			text:    `[\p{Lu]`,
			cause:   ErrInvalidCharSet,
		},
		{
			caption: "an unknown property",
			text:    `[\p{NoSuchProperty}]`,
			cause:   ErrInvalidCharSet,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := parseCharSet(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.cause), "unexpected error: %v", err)
		})
	}
}
