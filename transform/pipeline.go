package transform

import (
	"io"

	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/tree"
	"github.com/sirupsen/logrus"
)

type transformConfig struct {
	logger              logrus.FieldLogger
	showTransformations bool
}

type TransformOption func(config *transformConfig)

func WithLogger(logger logrus.FieldLogger) TransformOption {
	return func(config *transformConfig) {
		config.logger = logger
	}
}

// ShowTransformations logs every rewrite at debug level.
func ShowTransformations() TransformOption {
	return func(config *transformConfig) {
		config.showTransformations = true
	}
}

// ReduceBlocksToSets replaces the blocks of g whose alternatives are all single set elements
// with SET nodes. A rule block `(BLOCK (ALT 'a') (ALT 'b'))` becomes
// `(BLOCK (ALT (SET 'a' 'b')))`; a nested block becomes a plain `(SET 'a' 'b')`. The tree is
// modified in place.
func ReduceBlocksToSets(g *ast.Grammar, opts ...TransformOption) (retErr error) {
	defer tree.Recover(&retErr)

	config := &transformConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		config.logger = l
	}

	d := &downup{
		g:                   g,
		in:                  tree.NewNodeStream(g.AST),
		w:                   newBlockSetTransformer(),
		logger:              config.logger,
		showTransformations: config.showTransformations,
	}
	g.AST = d.visit(g.AST)
	config.logger.WithField("grammar", g.Name).Debugf("%v blocks reduced to sets", d.rewrites)

	return nil
}

// downup applies the filter to every node top-down. A node replaced by the filter is visited
// no further; the children of the replacement are.
type downup struct {
	g                   *ast.Grammar
	in                  *tree.NodeStream
	w                   *blockSetTransformer
	logger              logrus.FieldLogger
	showTransformations bool
	rewrites            int
}

func (d *downup) visit(t *ast.Node) *ast.Node {
	if t == nil {
		return nil
	}
	if !t.IsNil() {
		t = d.applyOnce(t)
	}
	for i := 0; i < t.ChildCount(); i++ {
		c := t.Child(i)
		r := d.visit(c)
		if r != c {
			d.in.ReplaceChildren(t, i, i, r)
		}
	}
	return t
}

// applyOnce runs the filter on t in a fresh stream. The filter runs at backtracking depth 1,
// so a mismatch only leaves t as it is.
func (d *downup) applyOnce(t *ast.Node) *ast.Node {
	w := d.w
	w.SetInput(tree.NewNodeStream(t))
	w.SetBacktracking(1)
	r := w.topdown()
	if w.Failed() || r == nil {
		return t
	}
	if r == t {
		return t
	}

	ast.SetGrammar(d.g, r)
	d.rewrites++
	if d.showTransformations {
		fields := logrus.Fields{
			"rule": w.currentRuleName,
		}
		if w.currentAlt != nil {
			fields["alt"] = w.currentAlt.ChildIndex() + 1
		}
		d.logger.WithFields(fields).Debugf("%v -> %v", t.StringTree(), r.StringTree())
	}
	return r
}
