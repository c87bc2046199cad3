package spec

import (
	"strings"
	"testing"

	"github.com/nihei9/atnc/ast"
	verr "github.com/nihei9/atnc/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tree    string
		synErr  *SyntaxError
	}{
		{
			caption: "a combined grammar with one rule",
			src: `
grammar G;
a : 'x' | B ;
`,
			tree: `(combined G (RULES (RULE a (BLOCK (ALT 'x') (ALT B)))))`,
		},
		{
			caption: "a lexer grammar with commands, fragments, and modes",
			src: `
lexer grammar L;
A : 'a'..'z'+ -> skip ;
fragment B : [0-9] ;
mode M;
C : '"' -> pushMode(M), type(A) ;
D : ~[\n] -> mode(DEFAULT_MODE), channel(2) ;
`,
			tree: `(lexer L (RULES ` +
				`(RULE A (BLOCK (LEXER_ALT_ACTION (ALT (+ (BLOCK (ALT (.. 'a' 'z'))))) skip))) ` +
				`(RULE B (RULEMODIFIERS fragment) (BLOCK (ALT [0-9])))) ` +
				`(MODE M ` +
				`(RULE C (BLOCK (LEXER_ALT_ACTION (ALT '"') (LEXER_ACTION_CALL pushMode M) (LEXER_ACTION_CALL type A)))) ` +
				`(RULE D (BLOCK (LEXER_ALT_ACTION (ALT (~ (SET [\n]))) (LEXER_ACTION_CALL mode DEFAULT_MODE) (LEXER_ACTION_CALL channel 2))))))`,
		},
		{
			caption: "a parser rule with arguments, labels, actions, predicates, sets, and an empty alternative",
			src: `
grammar P;
options { tokenVocab = L; }
r[int x] returns [int y] : a=A b+=r* {act} {p}? ~(A|B) . # lab
  |
  ;
`,
			tree: `(combined P (OPTIONS (= tokenVocab L)) (RULES ` +
				`(RULE r int x (returns int y) (BLOCK ` +
				`(ALT (= a A) (* (BLOCK (ALT (+= b r)))) {act} {p}? (~ (SET A B)) .) ` +
				`(ALT EPSILON)))))`,
		},
		{
			caption: "prequels and rule prequels",
			src: `
parser grammar P;
import A, B=C;
tokens { X, Y, }
channels { COMMENTS }
@header {package p}
@parser::members {int n;}
public r throws E locals [int z] options { k = 2; } @init {n = 0;} : <assoc=right> X<fail={msg}> r[1] ;
catch [Exception e] {handle();}
finally {done();}
`,
			tree: `(parser P (import A (= B C)) (tokens X Y) (channels COMMENTS) (@ header {package p}) (@ parser members {int n;}) (RULES ` +
				`(RULE r (RULEMODIFIERS public) (throws E) (locals int z) (OPTIONS (= k 2)) (@ init {n = 0;}) ` +
				`(BLOCK (ALT (ELEMENT_OPTIONS (= assoc right)) (X (ELEMENT_OPTIONS (= fail {msg}))) (r 1))) ` +
				`(catch Exception e {handle();}) (finally {done();}))))`,
		},
		{
			caption: "blocks with options and quantifiers",
			src: `
grammar G;
a : ( options { greedy = false; } : 'x' | 'y' )?? ( 'z' )+ ;
`,
			tree: `(combined G (RULES (RULE a (BLOCK (ALT (? (BLOCK (OPTIONS (= greedy false)) (ALT 'x') (ALT 'y'))) (+ (BLOCK (ALT 'z'))))))))`,
		},
		{
			caption: "a grammar declaration is required",
			src:     `a : 'x' ;`,
			synErr:  synErrNoGrammarDecl,
		},
		{
			caption: "a grammar name is required",
			src:     `grammar ;`,
			synErr:  synErrNoGrammarName,
		},
		{
			caption: "a rule needs a semicolon",
			src:     `grammar G; a : 'x'`,
			synErr:  synErrNoSemicolon,
		},
		{
			caption: "a rule needs a colon",
			src:     `grammar G; a 'x' ;`,
			synErr:  synErrNoColon,
		},
		{
			caption: "a block must be closed",
			src:     `grammar G; a : ( 'x' ;`,
			synErr:  synErrUnclosedBlock,
		},
		{
			caption: "an action must be closed",
			src:     `grammar G; a : 'x' { ;`,
			synErr:  synErrUnclosedAction,
		},
		{
			caption: "a character set is not allowed in parser rules",
			src:     `grammar G; a : [a-z] ;`,
			synErr:  synErrCharSetInParser,
		},
		{
			caption: "a set cannot contain a rule reference",
			src:     `grammar G; a : ~(b | C) ;`,
			synErr:  synErrNoSetElement,
		},
		{
			caption: "an invalid token is an error",
			src:     `grammar G; a : $ ;`,
			synErr:  synErrInvalidToken,
		},
		{
			caption: "a lexer command needs a closing parenthesis",
			src:     `lexer grammar L; A : 'a' -> pushMode(M ;`,
			synErr:  synErrUnclosedLexerCommand,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			root, err := Parse(strings.NewReader(tt.src))
			if tt.synErr != nil {
				var specErr *verr.SpecError
				require.ErrorAs(t, err, &specErr)
				assert.Equal(t, tt.synErr, specErr.Cause)
				assert.NotZero(t, specErr.Row)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tree, root.StringTree())
		})
	}
}

func TestParse_NodeProperties(t *testing.T) {
	root, err := Parse(strings.NewReader(`
lexer grammar L;
COMMENT : '/*' .*? '*/' ;
`))
	require.NoError(t, err)

	g, err := ast.NewGrammar(root)
	require.NoError(t, err)
	assert.Equal(t, "L", g.Name)
	assert.Equal(t, ast.GrammarTypeLexer, g.Type)

	rule := root.FirstChildWithKind(ast.KindRules).Child(0)
	require.Equal(t, ast.KindRule, rule.Kind)
	assert.Equal(t, 3, rule.Pos.Row)
	assert.Equal(t, 1, rule.Pos.Col)

	alt := rule.FirstChildWithKind(ast.KindBlock).Child(0)
	closure := alt.Child(1)
	require.Equal(t, ast.KindClosure, closure.Kind)
	assert.True(t, closure.NonGreedy)
	assert.Same(t, g, closure.Child(0).Child(0).Child(0).Grammar)
}

func TestParse_AltLabels(t *testing.T) {
	root, err := Parse(strings.NewReader(`
grammar G;
e : e '*' e # Mul
  | INT     # Int
  ;
`))
	require.NoError(t, err)

	blk := root.FirstChildWithKind(ast.KindRules).Child(0).FirstChildWithKind(ast.KindBlock)
	require.Equal(t, 2, blk.ChildCount())
	assert.Equal(t, "Mul", blk.Child(0).AltLabel)
	assert.Equal(t, "Int", blk.Child(1).AltLabel)
}
