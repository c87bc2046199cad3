package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(text string) *Node {
	return New(KindStringLiteral, text)
}

func TestNode_AddChild(t *testing.T) {
	t.Run("a nil root is flattened into the children", func(t *testing.T) {
		l := Nil()
		l.AddChild(lit("'a'"))
		l.AddChild(lit("'b'"))

		n := New(KindSet, "SET")
		n.AddChild(l)

		require.Equal(t, 2, n.ChildCount())
		assert.Equal(t, "(SET 'a' 'b')", n.StringTree())
		for i, c := range n.Children() {
			assert.Same(t, n, c.Parent())
			assert.Equal(t, i, c.ChildIndex())
		}
		assert.Equal(t, 0, l.ChildCount())
	})

	t.Run("nil is ignored", func(t *testing.T) {
		n := New(KindAlt, "")
		n.AddChild(nil)
		assert.Equal(t, 0, n.ChildCount())
	})
}

func TestNode_ReplaceChildren(t *testing.T) {
	newTree := func() *Node {
		return New(KindAlt, "",
			lit("'a'"),
			lit("'b'"),
			lit("'c'"),
			lit("'d'"),
		)
	}

	tests := []struct {
		caption  string
		from     int
		to       int
		repl     func() *Node
		expected string
	}{
		{
			caption:  "replace one node with one node",
			from:     1,
			to:       1,
			repl:     func() *Node { return lit("'x'") },
			expected: "(ALT 'a' 'x' 'c' 'd')",
		},
		{
			caption:  "replace many nodes with one node",
			from:     0,
			to:       2,
			repl:     func() *Node { return New(KindSet, "SET", lit("'x'"), lit("'y'")) },
			expected: "(ALT (SET 'x' 'y') 'd')",
		},
		{
			caption: "replace one node with a list",
			from:    3,
			to:      3,
			repl: func() *Node {
				l := Nil()
				l.AddChild(lit("'x'"))
				l.AddChild(lit("'y'"))
				return l
			},
			expected: "(ALT 'a' 'b' 'c' 'x' 'y')",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			n := newTree()
			old := n.Child(tt.from)
			n.ReplaceChildren(tt.from, tt.to, tt.repl())
			assert.Equal(t, tt.expected, n.StringTree())
			for i, c := range n.Children() {
				assert.Same(t, n, c.Parent())
				assert.Equal(t, i, c.ChildIndex())
			}
			assert.Nil(t, old.Parent())
		})
	}

	t.Run("invalid indexes panic", func(t *testing.T) {
		n := newTree()
		assert.PanicsWithError(t, "invalid child index: 2..9 (4 children)", func() {
			n.ReplaceChildren(2, 9, lit("'x'"))
		})
		assert.Panics(t, func() {
			New(KindAlt, "").ReplaceChildren(0, 0, lit("'x'"))
		})
	})
}

func TestNode_DeleteChild(t *testing.T) {
	n := New(KindAlt, "", lit("'a'"), lit("'b'"), lit("'c'"))
	c := n.DeleteChild(1)
	require.NotNil(t, c)
	assert.Equal(t, "'b'", c.Text)
	assert.Equal(t, "(ALT 'a' 'c')", n.StringTree())
	assert.Equal(t, 1, n.Child(1).ChildIndex())
	assert.Nil(t, n.DeleteChild(5))
}

func TestNode_InContext(t *testing.T) {
	alt := New(KindAlt, "", lit("'a'"))
	blk := New(KindBlock, "BLOCK", alt)
	rule := New(KindRule, "RULE", New(KindTokenRef, "A"), blk)
	_ = New(KindRules, "RULES", rule)

	assert.True(t, alt.InContext(KindRule, KindBlock))
	assert.True(t, alt.InContext(KindBlock))
	assert.True(t, blk.InContext(KindRule))
	assert.False(t, alt.InContext(KindRule))
	assert.False(t, alt.InContext(KindGrammar, KindRules, KindRule, KindBlock))
	assert.True(t, alt.InContext())
	assert.Same(t, rule, alt.Ancestor(KindRule))
	assert.Nil(t, alt.Ancestor(KindMode))
}

func TestNode_DupTree(t *testing.T) {
	orig := New(KindClosure, "*", New(KindBlock, "BLOCK", New(KindAlt, "", lit("'a'"))))
	orig.NonGreedy = true
	d := orig.DupTree()

	assert.True(t, Equal(orig, d))
	assert.NotSame(t, orig.Child(0), d.Child(0))
	assert.Same(t, d, d.Child(0).Parent())
	assert.Nil(t, d.Parent())

	d.Child(0).Child(0).Child(0).Text = "'b'"
	assert.False(t, Equal(orig, d))
}

func TestPrintTree(t *testing.T) {
	alt1 := New(KindAlt, "", lit("'a'"))
	alt1.AltLabel = "first"
	tree := New(KindBlock, "BLOCK", alt1, New(KindAlt, "", lit("'b'"), New(KindTokenRef, "B")))

	var b strings.Builder
	PrintTree(&b, tree)
	expected := `BLOCK
├─ ALT #first
│  └─ 'a'
└─ ALT
   ├─ 'b'
   └─ B
`
	assert.Equal(t, expected, b.String())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "POSITIVE_CLOSURE", KindPositiveClosure.String())
	assert.Equal(t, "DOWN", KindDown.String())
	k, ok := KindByName("LEXER_CHAR_SET")
	require.True(t, ok)
	assert.Equal(t, KindLexerCharSet, k)
	_, ok = KindByName("NOPE")
	assert.False(t, ok)
}
