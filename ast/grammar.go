package ast

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var ErrNotGrammarRoot = errors.New("the root node must be GRAMMAR")

type GrammarType string

const (
	GrammarTypeCombined = GrammarType("combined")
	GrammarTypeLexer    = GrammarType("lexer")
	GrammarTypeParser   = GrammarType("parser")
)

// Grammar is the handle the passes use to resolve a node back to the grammar owning it.
type Grammar struct {
	Name     string
	Type     GrammarType
	FileName string
	AST      *Node
}

// NewGrammar wraps a GRAMMAR root and points every node of the tree at the new handle.
func NewGrammar(root *Node) (*Grammar, error) {
	if root == nil || root.Kind != KindGrammar {
		return nil, ErrNotGrammarRoot
	}
	id := root.FirstChildWithKind(KindID)
	if id == nil {
		return nil, fmt.Errorf("%w: a grammar name is missing", ErrNotGrammarRoot)
	}
	t := GrammarType(root.Text)
	switch t {
	case GrammarTypeCombined, GrammarTypeLexer, GrammarTypeParser:
	default:
		return nil, fmt.Errorf("%w: unknown grammar type: %v", ErrNotGrammarRoot, root.Text)
	}
	g := &Grammar{
		Name: id.Text,
		Type: t,
		AST:  root,
	}
	SetGrammar(g, root)
	return g, nil
}

func (g *Grammar) IsLexer() bool {
	return g.Type == GrammarTypeLexer
}

func (g *Grammar) IsParser() bool {
	return g.Type == GrammarTypeParser
}

func (g *Grammar) IsCombined() bool {
	return g.Type == GrammarTypeCombined
}

// SetGrammar points every node of t at g.
func SetGrammar(g *Grammar, t *Node) {
	Walk(t, func(n *Node) {
		n.Grammar = g
	})
}

// IsTokenName reports whether name is a token (lexer rule) name, that is, it starts with an
// upper-case letter.
func IsTokenName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
