package tree

import (
	"github.com/nihei9/atnc/ast"
)

// Rewriter is a recognizer that builds a new tree while it walks the input. Rewrite rules
// collect the matched nodes into rewrite streams and assemble the replacement from them.
type Rewriter struct {
	*Recognizer
}

func NewRewriter(in *NodeStream) *Rewriter {
	return &Rewriter{
		Recognizer: NewRecognizer(in),
	}
}

// Nil returns a fresh nil root to collect a rewrite result.
func (w *Rewriter) Nil() *ast.Node {
	return ast.Nil()
}

// AddChild adds c under root. A nil root c contributes its children.
func (w *Rewriter) AddChild(root, c *ast.Node) {
	if root == nil || c == nil {
		return
	}
	root.AddChild(c)
}

// BecomeRoot makes newRoot the parent of the children of oldRoot and returns it. When newRoot
// is a nil root with a single child, that child becomes the root.
func (w *Rewriter) BecomeRoot(newRoot, oldRoot *ast.Node) *ast.Node {
	if newRoot == nil {
		return oldRoot
	}
	if newRoot.IsNil() {
		switch newRoot.ChildCount() {
		case 0:
			return oldRoot
		case 1:
			newRoot = newRoot.Child(0)
		default:
			raiseFatal(ErrRewriteCardinality, "more than one node cannot become a root")
		}
	}
	if oldRoot != nil {
		newRoot.AddChild(oldRoot)
	}
	return newRoot
}

// RulePostProcessing finishes the result of a rewrite rule. A nil root with a single child
// turns into the child; an empty nil root turns into nil.
func (w *Rewriter) RulePostProcessing(root *ast.Node) *ast.Node {
	if root == nil || !root.IsNil() {
		return root
	}
	switch root.ChildCount() {
	case 0:
		return nil
	case 1:
		c := root.Child(0)
		root.DeleteChild(0)
		return c
	}
	return root
}

func (w *Rewriter) DupNode(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	return n.Dup()
}

func (w *Rewriter) DupTree(t *ast.Node) *ast.Node {
	if t == nil {
		return nil
	}
	return t.DupTree()
}

// CheckDrained raises a fatal fault when a rewrite stream still has elements to deliver.
func (w *Rewriter) CheckDrained(streams ...*RewriteStream) {
	for _, s := range streams {
		if s.HasNext() {
			raiseFatal(ErrRewriteNotDrained, "%v has %v elements left", s.desc, s.Size()-s.cursor)
		}
	}
}
