package transform

import (
	"strings"
	"testing"

	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/spec"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseGrammar(t *testing.T, src string) *ast.Grammar {
	t.Helper()
	root, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	g, err := ast.NewGrammar(root)
	require.NoError(t, err)
	return g
}

func TestReduceBlocksToSets(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tree    string
	}{
		{
			caption: "single-character literals of a lexer rule become one set",
			src:     `lexer grammar L; A : 'x' | 'y' | 'z' ;`,
			tree:    `(lexer L (RULES (RULE A (BLOCK (ALT (SET 'x' 'y' 'z'))))))`,
		},
		{
			caption: "token references and literals of a parser rule become one set",
			src:     `grammar G; a : A | 'bc' | C<assoc=right> ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT (SET A 'bc' (C (ELEMENT_OPTIONS (= assoc right)))))))))`,
		},
		{
			caption: "alternative options are dropped",
			src:     `grammar G; a : <x> A | B ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT (SET A B))))))`,
		},
		{
			caption: "ranges and character sets are set elements in a lexer rule",
			src:     `lexer grammar L; A : 'a'..'z' | [0-9] | '_' ;`,
			tree:    `(lexer L (RULES (RULE A (BLOCK (ALT (SET (.. 'a' 'z') [0-9] '_'))))))`,
		},
		{
			caption: "a quantified block becomes a quantified set",
			src:     `grammar G; a : (A | B)*? C ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT (* (BLOCK (ALT (SET A B)))) C)))))`,
		},
		{
			caption: "a nested block becomes a bare set",
			src:     `grammar G; a : x=(A | B) (C | D) ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT (= x (SET A B)) (SET C D))))))`,
		},
		{
			caption: "rules in modes are rewritten too",
			src:     `lexer grammar L; A : 'a' ; mode M; B : 'b' | 'c' ;`,
			tree:    `(lexer L (RULES (RULE A (BLOCK (ALT 'a')))) (MODE M (RULE B (BLOCK (ALT (SET 'b' 'c'))))))`,
		},
		{
			caption: "a block with an alternative label is left alone",
			src:     `grammar G; a : A # x | B # y ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT A) (ALT B)))))`,
		},
		{
			caption: "a block with one unlabeled and one labeled alternative is left alone",
			src:     `grammar G; a : A | B # y ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT A) (ALT B)))))`,
		},
		{
			caption: "a multi-character literal is not a set element in a lexer rule",
			src:     `lexer grammar L; A : 'ab' | 'c' ;`,
			tree:    `(lexer L (RULES (RULE A (BLOCK (ALT 'ab') (ALT 'c')))))`,
		},
		{
			caption: "a range is not a set element in a parser rule",
			src:     `grammar G; a : 'a'..'z' | 'b' ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT (.. 'a' 'z')) (ALT 'b')))))`,
		},
		{
			caption: "a token reference is not a set element in a lexer rule",
			src:     `lexer grammar L; A : B | C ; B : 'b' ; C : 'c' ;`,
			tree:    `(lexer L (RULES (RULE A (BLOCK (ALT B) (ALT C))) (RULE B (BLOCK (ALT 'b'))) (RULE C (BLOCK (ALT 'c')))))`,
		},
		{
			caption: "an alternative with more than one element is not a set",
			src:     `grammar G; a : A B | C ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT A B) (ALT C)))))`,
		},
		{
			caption: "a rule reference is not a set element",
			src:     `grammar G; a : b | C ; b : D ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT b) (ALT C))) (RULE b (BLOCK (ALT D)))))`,
		},
		{
			caption: "a lexer alternative with commands is not a set element",
			src:     `lexer grammar L; A : 'a' | 'b' -> skip ;`,
			tree:    `(lexer L (RULES (RULE A (BLOCK (ALT 'a') (LEXER_ALT_ACTION (ALT 'b') skip)))))`,
		},
		{
			caption: "a block with a single alternative is left alone",
			src:     `grammar G; a : (A)+ ;`,
			tree:    `(combined G (RULES (RULE a (BLOCK (ALT (+ (BLOCK (ALT A))))))))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := parseGrammar(t, tt.src)
			err := ReduceBlocksToSets(g)
			require.NoError(t, err)
			assert.Equal(t, tt.tree, g.AST.StringTree())

			once := g.AST.DupTree()
			err = ReduceBlocksToSets(g)
			require.NoError(t, err)
			assert.True(t, ast.Equal(once, g.AST), "the second run changed the tree: %v", g.AST.StringTree())
		})
	}
}

func TestReduceBlocksToSets_Properties(t *testing.T) {
	g := parseGrammar(t, `grammar G; a : (A | B)* ;`)
	require.NoError(t, ReduceBlocksToSets(g))

	closure := g.AST.FirstChildWithKind(ast.KindRules).Child(0).FirstChildWithKind(ast.KindBlock).Child(0).Child(0)
	require.Equal(t, ast.KindClosure, closure.Kind)
	set := closure.Child(0).Child(0).Child(0)
	require.Equal(t, ast.KindSet, set.Kind)
	assert.Same(t, closure, closure.Child(0).Parent())
	assert.Equal(t, 0, closure.Child(0).ChildIndex())
	assert.Equal(t, "(* (BLOCK (ALT (SET A B))))", closure.StringTree())

	ast.Walk(closure, func(n *ast.Node) {
		assert.Same(t, g, n.Grammar, "%v", n)
	})
	assert.Same(t, closure, set.Ancestor(ast.KindClosure))
	assert.True(t, set.Parent().InContext(ast.KindClosure, ast.KindBlock))
}

func TestReduceBlocksToSets_ShowTransformations(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	g := parseGrammar(t, `lexer grammar L; A : 'x' | 'y' ; B : 'z' ;`)
	require.NoError(t, ReduceBlocksToSets(g, WithLogger(logger), ShowTransformations()))

	var msgs []string
	for _, e := range hook.AllEntries() {
		if e.Data["rule"] != nil {
			msgs = append(msgs, e.Message)
			assert.Equal(t, "A", e.Data["rule"])
		}
	}
	assert.Equal(t, []string{`(BLOCK (ALT 'x') (ALT 'y')) -> (BLOCK (ALT (SET 'x' 'y')))`}, msgs)

	hook.Reset()
	g = parseGrammar(t, `lexer grammar L; A : 'x' | 'y' ;`)
	require.NoError(t, ReduceBlocksToSets(g, WithLogger(logger)))
	for _, e := range hook.AllEntries() {
		assert.Nil(t, e.Data["rule"])
	}
}
