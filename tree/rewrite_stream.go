package tree

import (
	"github.com/nihei9/atnc/ast"
)

// RewriteStream is an ordered collection of the nodes or subtrees a rewrite rule matched under
// one label or element. A rewrite reads them back in order. A stream of a single element can be
// read more than once; every read after the first one returns a copy.
type RewriteStream struct {
	desc     string
	elements []*ast.Node
	cursor   int

	// dirty is set once the stream has been reset. Nodes read from a dirty stream are copies
	// so that one node never ends up in two places of a tree.
	dirty bool
}

// NewRewriteStream returns a stream described by desc, which names the element in fault
// messages.
func NewRewriteStream(desc string, elems ...*ast.Node) *RewriteStream {
	s := &RewriteStream{
		desc: desc,
	}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

func (s *RewriteStream) Add(e *ast.Node) {
	if e == nil {
		return
	}
	s.elements = append(s.elements, e)
}

func (s *RewriteStream) Size() int {
	return len(s.elements)
}

func (s *RewriteStream) HasNext() bool {
	return s.cursor < len(s.elements)
}

// Reset rewinds the stream for another pass. Later reads return copies.
func (s *RewriteStream) Reset() {
	s.cursor = 0
	s.dirty = true
}

// NextTree returns the next subtree.
func (s *RewriteStream) NextTree() *ast.Node {
	n := len(s.elements)
	if s.dirty || (s.cursor >= n && n == 1) {
		return s.next().DupTree()
	}
	return s.next()
}

// NextNode returns the next node without its children. The node is always a copy.
func (s *RewriteStream) NextNode() *ast.Node {
	return s.next().Dup()
}

func (s *RewriteStream) next() *ast.Node {
	n := len(s.elements)
	if n == 0 {
		raiseFatal(ErrRewriteEmptyStream, "%v", s.desc)
	}
	if s.cursor >= n {
		if n == 1 {
			return s.elements[0]
		}
		raiseFatal(ErrRewriteCardinality, "%v has %v elements", s.desc, n)
	}
	e := s.elements[s.cursor]
	s.cursor++
	return e
}
