package tree

import (
	"fmt"
	"strings"

	"github.com/nihei9/atnc/ast"
)

var (
	downNode = ast.New(ast.KindDown, "DOWN")
	upNode   = ast.New(ast.KindUp, "UP")
	eofNode  = ast.New(ast.KindEOF, "EOF")
)

// Marker is a checkpoint returned by NodeStream.Mark.
type Marker int

// NodeStream is a flattened pre-order view of a tree. The children of a node are enclosed in a
// DOWN and an UP node. A nil root contributes its children only.
type NodeStream struct {
	root    *ast.Node
	nodes   []*ast.Node
	p       int
	markers []int
}

func NewNodeStream(root *ast.Node) *NodeStream {
	s := &NodeStream{
		root: root,
	}
	s.fill(root)
	return s
}

func (s *NodeStream) fill(t *ast.Node) {
	if t == nil {
		return
	}
	if !t.IsNil() {
		s.nodes = append(s.nodes, t)
	}
	if t.ChildCount() == 0 {
		return
	}
	if !t.IsNil() {
		s.nodes = append(s.nodes, downNode)
	}
	for _, c := range t.Children() {
		s.fill(c)
	}
	if !t.IsNil() {
		s.nodes = append(s.nodes, upNode)
	}
}

func (s *NodeStream) Root() *ast.Node {
	return s.root
}

// Size returns the number of nodes in the stream, including the DOWN and UP nodes.
func (s *NodeStream) Size() int {
	return len(s.nodes)
}

func (s *NodeStream) Index() int {
	return s.p
}

// LT returns the node k positions ahead (k >= 1) or behind (k <= -1) without consuming it.
// Reading past either end returns the EOF node.
func (s *NodeStream) LT(k int) *ast.Node {
	switch {
	case k == 0:
		return nil
	case k < 0:
		i := s.p + k
		if i < 0 {
			return eofNode
		}
		return s.nodes[i]
	}
	i := s.p + k - 1
	if i >= len(s.nodes) {
		return eofNode
	}
	return s.nodes[i]
}

// LA returns the kind of LT(k).
func (s *NodeStream) LA(k int) ast.Kind {
	n := s.LT(k)
	if n == nil {
		return ast.KindInvalid
	}
	return n.Kind
}

// Consume advances one position. It does nothing at the end of the stream.
func (s *NodeStream) Consume() {
	if s.p < len(s.nodes) {
		s.p++
	}
}

// Seek moves to index. The end of the stream is a valid index.
func (s *NodeStream) Seek(index int) {
	if index < 0 || index > len(s.nodes) {
		raiseFatal(ErrInvalidSeek, "index %v is out of 0..%v", index, len(s.nodes))
	}
	s.p = index
}

// Mark records the current position and returns a checkpoint for it. Marks nest; a later
// Rewind may target any mark that has not been released.
func (s *NodeStream) Mark() Marker {
	s.markers = append(s.markers, s.p)
	return Marker(len(s.markers))
}

// Release invalidates m and every mark taken after it.
func (s *NodeStream) Release(m Marker) {
	s.checkMarker(m)
	s.markers = s.markers[:m-1]
}

// Rewind moves back to the position recorded by m and releases m.
func (s *NodeStream) Rewind(m Marker) {
	s.checkMarker(m)
	s.Seek(s.markers[m-1])
	s.Release(m)
}

func (s *NodeStream) checkMarker(m Marker) {
	if m < 1 || int(m) > len(s.markers) {
		raiseFatal(ErrStaleMarker, "marker %v (%v live)", m, len(s.markers))
	}
}

// Reset moves to the beginning and drops every mark.
func (s *NodeStream) Reset() {
	s.p = 0
	s.markers = nil
}

// SkipSubtree consumes LT(1) and, when it has children, everything up to its matching UP.
// It does nothing when LT(1) is an UP or the end of the stream.
func (s *NodeStream) SkipSubtree() {
	switch s.LA(1) {
	case ast.KindUp, ast.KindEOF:
		return
	}
	s.Consume()
	if s.LA(1) != ast.KindDown {
		return
	}
	depth := 0
	for {
		switch s.LA(1) {
		case ast.KindDown:
			depth++
		case ast.KindUp:
			depth--
		case ast.KindEOF:
			return
		}
		s.Consume()
		if depth == 0 {
			return
		}
	}
}

// ReplaceChildren replaces the children from..to of parent with t. The stream keeps its
// buffer; a walker that needs to see the new tree creates a new stream.
func (s *NodeStream) ReplaceChildren(parent *ast.Node, from, to int, t *ast.Node) {
	if parent == nil {
		return
	}
	parent.ReplaceChildren(from, to, t)
}

// String prints the kinds of the nodes from..to (inclusive).
func (s *NodeStream) String(from, to int) string {
	var b strings.Builder
	for i := from; i <= to && i < len(s.nodes); i++ {
		if i < 0 {
			continue
		}
		if i > from {
			b.WriteString(" ")
		}
		n := s.nodes[i]
		switch n.Kind {
		case ast.KindDown, ast.KindUp:
			fmt.Fprintf(&b, "%v", n.Kind)
		default:
			fmt.Fprintf(&b, "%v", n)
		}
	}
	return b.String()
}
