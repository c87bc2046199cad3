package ast

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidChildIndex = errors.New("invalid child index")
	ErrSetNilChild       = errors.New("cannot set a single child to a nil root")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

// Node is a grammar AST node. A node owns its children; the parent field is a back-reference
// used only for context checks and in-place replacement.
type Node struct {
	Kind Kind
	Text string
	Pos  Position

	// AltLabel is the `#label` of an ALT node.
	AltLabel string

	// NonGreedy marks the quantifiers `??`, `*?` and `+?`.
	NonGreedy bool

	// Grammar is the grammar owning the node.
	Grammar *Grammar

	isNil      bool
	children   []*Node
	parent     *Node
	childIndex int
}

// New returns a node of kind k with the given children. An empty text falls back to the
// kind name when the node is printed.
func New(k Kind, text string, children ...*Node) *Node {
	n := &Node{
		Kind:       k,
		Text:       text,
		childIndex: -1,
	}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// NewAt is like New but records a source position.
func NewAt(k Kind, text string, row, col int) *Node {
	n := New(k, text)
	n.Pos = newPosition(row, col)
	return n
}

// Nil returns a synthetic nil root, a list of nodes without a node of its own.
func Nil() *Node {
	return &Node{
		isNil:      true,
		childIndex: -1,
	}
}

func (n *Node) IsNil() bool {
	return n.isNil
}

func (n *Node) String() string {
	if n.isNil {
		return "nil"
	}
	if n.Text != "" {
		return n.Text
	}
	return n.Kind.String()
}

// StringTree prints the node and its descendants in the form `(BLOCK (ALT 'a'))`.
func (n *Node) StringTree() string {
	if len(n.children) == 0 {
		return n.String()
	}

	var b strings.Builder
	if !n.isNil {
		fmt.Fprintf(&b, "(%v ", n)
	}
	for i, c := range n.children {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.StringTree())
	}
	if !n.isNil {
		b.WriteString(")")
	}
	return b.String()
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) ChildIndex() int {
	return n.childIndex
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the children of n. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) FirstChildWithKind(k Kind) *Node {
	for _, c := range n.children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

func (n *Node) ChildrenWithKind(k Kind) []*Node {
	var cs []*Node
	for _, c := range n.children {
		if c.Kind == k {
			cs = append(cs, c)
		}
	}
	return cs
}

// AddChild appends c to the children of n. When c is a nil root, its children are appended
// instead.
func (n *Node) AddChild(c *Node) {
	if c == nil {
		return
	}
	if c.isNil {
		if n == c {
			panic(fmt.Errorf("%w: cannot add a nil root to itself", ErrInvalidChildIndex))
		}
		for _, cc := range c.children {
			n.appendChild(cc)
		}
		c.children = nil
		return
	}
	n.appendChild(c)
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	c.childIndex = len(n.children)
	n.children = append(n.children, c)
}

// SetChild replaces the i-th child with c.
func (n *Node) SetChild(i int, c *Node) {
	if c == nil {
		return
	}
	if c.isNil {
		panic(ErrSetNilChild)
	}
	if i < 0 || i >= len(n.children) {
		panic(fmt.Errorf("%w: %v (%v children)", ErrInvalidChildIndex, i, len(n.children)))
	}
	n.children[i] = c
	c.parent = n
	c.childIndex = i
}

// DeleteChild removes the i-th child and returns it.
func (n *Node) DeleteChild(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	c := n.children[i]
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
	c.childIndex = -1
	n.freshenParentAndChildIndexes(i)
	return c
}

// ReplaceChildren replaces the children from..to (inclusive) with t. When t is a nil root,
// its children are spliced in; the number of replaced and replacing nodes may differ.
func (n *Node) ReplaceChildren(from, to int, t *Node) {
	if len(n.children) == 0 {
		panic(fmt.Errorf("%w: %v has no children", ErrInvalidChildIndex, n))
	}
	if from < 0 || to >= len(n.children) || from > to {
		panic(fmt.Errorf("%w: %v..%v (%v children)", ErrInvalidChildIndex, from, to, len(n.children)))
	}

	var repl []*Node
	if t.isNil {
		repl = append(repl, t.children...)
	} else {
		repl = []*Node{t}
	}

	cs := make([]*Node, 0, len(n.children)-(to-from+1)+len(repl))
	cs = append(cs, n.children[:from]...)
	cs = append(cs, repl...)
	cs = append(cs, n.children[to+1:]...)
	for _, old := range n.children[from : to+1] {
		old.parent = nil
		old.childIndex = -1
	}
	n.children = cs
	n.freshenParentAndChildIndexes(from)
}

func (n *Node) freshenParentAndChildIndexes(from int) {
	for i := from; i < len(n.children); i++ {
		n.children[i].parent = n
		n.children[i].childIndex = i
	}
}

// Dup returns a copy of n without children or parent.
func (n *Node) Dup() *Node {
	return &Node{
		Kind:       n.Kind,
		Text:       n.Text,
		Pos:        n.Pos,
		AltLabel:   n.AltLabel,
		NonGreedy:  n.NonGreedy,
		Grammar:    n.Grammar,
		isNil:      n.isNil,
		childIndex: -1,
	}
}

// DupTree returns a deep copy of n.
func (n *Node) DupTree() *Node {
	d := n.Dup()
	for _, c := range n.children {
		d.appendChild(c.DupTree())
	}
	return d
}

// InContext reports whether the nearest ancestors of n have the given kinds, listed from the
// outermost to the parent. `InContext(KindRule, KindBlock)` holds for an ALT whose parent is a
// BLOCK whose parent is a RULE.
func (n *Node) InContext(kinds ...Kind) bool {
	p := n.parent
	for i := len(kinds) - 1; i >= 0; i-- {
		if p == nil || p.isNil || p.Kind != kinds[i] {
			return false
		}
		p = p.parent
	}
	return true
}

// Ancestor returns the nearest ancestor of kind k.
func (n *Node) Ancestor(k Kind) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Kind == k && !p.isNil {
			return p
		}
	}
	return nil
}

// Walk calls fn for n and every descendant in pre-order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// Equal reports whether two trees have the same shape, kinds and texts.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Text != b.Text || a.isNil != b.isNil || a.AltLabel != b.AltLabel || a.NonGreedy != b.NonGreedy {
		return false
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}
