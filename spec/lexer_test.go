package spec

import (
	"strings"
	"testing"

	verr "github.com/nihei9/atnc/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Run(t *testing.T) {
	tok := func(kind tokenKind, text string) *token {
		return &token{
			kind: kind,
			text: text,
		}
	}
	sym := func(kind tokenKind) *token {
		return tok(kind, string(kind))
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*token
		err     error
	}{
		{
			caption: "the lexer can recognize keywords and identifiers",
			src:     `lexer parser grammar fragment mode import returns throws locals catch finally public private protected grammarSpec Mode ID`,
			tokens: []*token{
				sym(tokenKindKWLexer),
				sym(tokenKindKWParser),
				sym(tokenKindKWGrammar),
				sym(tokenKindKWFragment),
				sym(tokenKindKWMode),
				sym(tokenKindKWImport),
				sym(tokenKindKWReturns),
				sym(tokenKindKWThrows),
				sym(tokenKindKWLocals),
				sym(tokenKindKWCatch),
				sym(tokenKindKWFinally),
				sym(tokenKindKWPublic),
				sym(tokenKindKWPrivate),
				sym(tokenKindKWProtected),
				tok(tokenKindRuleRef, "grammarSpec"),
				tok(tokenKindTokenRef, "Mode"),
				tok(tokenKindTokenRef, "ID"),
				tok(tokenKindEOF, ""),
			},
		},
		{
			caption: "the lexer can recognize symbols",
			src:     `:: : ; | ( ) ? * += + = ~ .. . # , < > @ -> }`,
			tokens: []*token{
				sym(tokenKindColonColon),
				sym(tokenKindColon),
				sym(tokenKindSemicolon),
				sym(tokenKindOr),
				sym(tokenKindLParen),
				sym(tokenKindRParen),
				sym(tokenKindQuestion),
				sym(tokenKindStar),
				sym(tokenKindPlusAssign),
				sym(tokenKindPlus),
				sym(tokenKindAssign),
				sym(tokenKindTilde),
				sym(tokenKindRange),
				sym(tokenKindDot),
				sym(tokenKindPound),
				sym(tokenKindComma),
				sym(tokenKindLT),
				sym(tokenKindGT),
				sym(tokenKindAt),
				sym(tokenKindRArrow),
				sym(tokenKindRBrace),
				tok(tokenKindEOF, ""),
			},
		},
		{
			caption: "`options`, `tokens` and `channels` take their brace",
			src:     "options {tokens{ channels\n{",
			tokens: []*token{
				tok(tokenKindKWOptions, "options {"),
				tok(tokenKindKWTokens, "tokens{"),
				tok(tokenKindKWChannels, "channels\n{"),
				tok(tokenKindEOF, ""),
			},
		},
		{
			caption: "the lexer can recognize literals, integers, actions, and brackets",
			src:     `'a' '\'' '\u{1F600}' 42 {x = {y};} [a-z\]] // comment` + "\n" + `/* block * comment */`,
			tokens: []*token{
				tok(tokenKindString, `'a'`),
				tok(tokenKindString, `'\''`),
				tok(tokenKindString, `'\u{1F600}'`),
				tok(tokenKindInt, "42"),
				tok(tokenKindAction, "{x = {y};}"),
				tok(tokenKindBracket, `[a-z\]]`),
				tok(tokenKindEOF, ""),
			},
		},
		{
			caption: "an unclosed action is an error",
			src:     `{ x = {y}`,
			err:     synErrUnclosedAction,
		},
		{
			caption: "an unclosed bracket is an error",
			src:     `[a-z`,
			err:     synErrUnclosedBracket,
		},
		{
			caption: "an unknown character is an invalid token",
			src:     `$`,
			tokens: []*token{
				tok(tokenKindInvalid, "$"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLexer(strings.NewReader(tt.src))
			require.NoError(t, err)
			n := 0
			for {
				tok, err := l.next()
				if tt.err != nil {
					if err == nil {
						continue
					}
					var specErr *verr.SpecError
					require.ErrorAs(t, err, &specErr)
					assert.Equal(t, tt.err, specErr.Cause)
					return
				}
				require.NoError(t, err)
				require.Less(t, n, len(tt.tokens), "unexpected token: %v %v", tok.kind, tok.text)
				expected := tt.tokens[n]
				assert.Equal(t, expected.kind, tok.kind)
				assert.Equal(t, expected.text, tok.text)
				n++
				if tok.kind == tokenKindEOF || tok.kind == tokenKindInvalid {
					break
				}
			}
			assert.Equal(t, len(tt.tokens), n)
		})
	}
}

func TestLexer_Position(t *testing.T) {
	l, err := newLexer(strings.NewReader("grammar G;\n  a : 'x' ;"))
	require.NoError(t, err)

	expected := [][2]int{{1, 1}, {1, 9}, {1, 10}, {2, 3}, {2, 5}, {2, 7}, {2, 11}}
	for _, pos := range expected {
		tok, err := l.next()
		require.NoError(t, err)
		assert.Equal(t, pos[0], tok.row, "%v", tok.text)
		assert.Equal(t, pos[1], tok.col, "%v", tok.text)
	}
}
