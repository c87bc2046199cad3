package transform

import (
	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/tree"
)

// blockSetTransformer is a tree filter recognizing blocks whose alternatives are single set
// elements. Each rule returns the replacement of the matched subtree, or the matched node
// itself when the alternative does not rewrite anything.
type blockSetTransformer struct {
	*tree.Rewriter
	currentRuleName string

	// currentAlt is the last outer alternative entered.
	currentAlt *ast.Node
}

func newBlockSetTransformer() *blockSetTransformer {
	return &blockSetTransformer{
		Rewriter: tree.NewRewriter(nil),
	}
}

// topdown
//
//	: ^(RULE (TOKEN_REF | RULE_REF) .+)
//	| setAlt
//	| ebnfBlockSet
//	| blockSet
//	;
func (w *blockSetTransformer) topdown() *ast.Node {
	start := w.Index()
	defer w.EndRule("topdown", start)

	switch w.LA(1) {
	case ast.KindRule:
		return w.ruleHeader()
	case ast.KindAlt:
		return w.setAlt()
	case ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure:
		return w.ebnfBlockSet()
	case ast.KindBlock:
		return w.blockSet()
	}
	w.NoViableAlt(1)
	return nil
}

func (w *blockSetTransformer) ruleHeader() *ast.Node {
	t := w.Match(ast.KindRule)
	if w.Failed() {
		return nil
	}
	w.Match(ast.KindDown)
	if w.Failed() {
		return nil
	}
	id := w.MatchSet(ast.KindTokenRef, ast.KindRuleRef)
	if w.Failed() {
		return nil
	}
	w.currentRuleName = id.Text
	w.currentAlt = nil
	w.MatchAny()
	if w.Failed() {
		return nil
	}
	for w.LA(1) != ast.KindUp && w.LA(1) != ast.KindEOF {
		w.MatchAny()
		if w.Failed() {
			return nil
		}
	}
	w.Match(ast.KindUp)
	if w.Failed() {
		return nil
	}
	return t
}

// setAlt
//
//	: {InContext(RULE BLOCK)}? ALT
//	;
func (w *blockSetTransformer) setAlt() *ast.Node {
	start := w.Index()
	defer w.EndRule("setAlt", start)

	if !w.LT(1).InContext(ast.KindRule, ast.KindBlock) {
		w.FailedPredicate()
		return nil
	}
	t := w.Match(ast.KindAlt)
	if w.Failed() {
		return nil
	}
	w.currentAlt = t
	return t
}

// ebnfBlockSet
//
//	: ^(ebnfSuffix blockSet) -> ^(ebnfSuffix ^(BLOCK ^(ALT blockSet)))
//	;
func (w *blockSetTransformer) ebnfBlockSet() *ast.Node {
	start := w.Index()
	defer w.EndRule("ebnfBlockSet", start)

	suffix := w.MatchSet(ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure)
	if w.Failed() {
		return nil
	}
	w.Match(ast.KindDown)
	if w.Failed() {
		return nil
	}
	blk := w.LT(1)
	set := w.blockSet()
	if w.Failed() {
		return nil
	}
	w.Match(ast.KindUp)
	if w.Failed() {
		return nil
	}

	streamSuffix := tree.NewRewriteStream("ebnfSuffix", suffix)
	streamBlockSet := tree.NewRewriteStream("blockSet", set)

	root := w.Nil()
	root1 := w.BecomeRoot(streamSuffix.NextNode(), w.Nil())
	root2 := w.BecomeRoot(ast.NewAt(ast.KindBlock, "BLOCK", blk.Pos.Row, blk.Pos.Col), w.Nil())
	root3 := w.BecomeRoot(ast.NewAt(ast.KindAlt, "ALT", blk.Pos.Row, blk.Pos.Col), w.Nil())
	w.AddChild(root3, streamBlockSet.NextTree())
	w.AddChild(root2, root3)
	w.AddChild(root1, root2)
	w.AddChild(root, root1)
	w.CheckDrained(streamSuffix, streamBlockSet)

	return w.RulePostProcessing(root)
}

// blockSet
//
//	: {InContext(RULE)}? ^(BLOCK ^(ALT elementOptions? setElement) (^(ALT elementOptions? setElement))+)
//	  -> ^(BLOCK ^(ALT ^(SET setElement+)))
//	| {!InContext(RULE)}? ^(BLOCK ^(ALT elementOptions? setElement) (^(ALT elementOptions? setElement))+)
//	  -> ^(SET setElement+)
//	;
//
// No alternative may carry a label.
func (w *blockSetTransformer) blockSet() *ast.Node {
	start := w.Index()
	defer w.EndRule("blockSet", start)

	inLexer := ast.IsTokenName(w.currentRuleName)
	ruleLevel := w.LT(1).InContext(ast.KindRule)

	blk := w.Match(ast.KindBlock)
	if w.Failed() {
		return nil
	}
	w.Match(ast.KindDown)
	if w.Failed() {
		return nil
	}
	streamSetElement := tree.NewRewriteStream("setElement")
	n := 0
	for w.LA(1) == ast.KindAlt {
		alt := w.Match(ast.KindAlt)
		if w.Failed() {
			return nil
		}
		if alt.AltLabel != "" {
			w.FailedPredicate()
			return nil
		}
		w.Match(ast.KindDown)
		if w.Failed() {
			return nil
		}
		if w.LA(1) == ast.KindElementOptions {
			w.elementOptions()
			if w.Failed() {
				return nil
			}
		}
		e := w.setElement(inLexer)
		if w.Failed() {
			return nil
		}
		streamSetElement.Add(e)
		w.Match(ast.KindUp)
		if w.Failed() {
			return nil
		}
		n++
	}
	if n < 2 {
		w.EarlyExit(1)
		return nil
	}
	w.Match(ast.KindUp)
	if w.Failed() {
		return nil
	}

	root := w.Nil()
	set := w.BecomeRoot(ast.NewAt(ast.KindSet, "SET", blk.Pos.Row, blk.Pos.Col), w.Nil())
	for streamSetElement.HasNext() {
		w.AddChild(set, w.DupTree(streamSetElement.NextTree()))
	}
	w.CheckDrained(streamSetElement)
	if !ruleLevel {
		w.AddChild(root, set)
		return w.RulePostProcessing(root)
	}

	root1 := w.BecomeRoot(ast.NewAt(ast.KindBlock, "BLOCK", blk.Pos.Row, blk.Pos.Col), w.Nil())
	root2 := w.BecomeRoot(ast.NewAt(ast.KindAlt, "ALT", blk.Pos.Row, blk.Pos.Col), w.Nil())
	w.AddChild(root2, set)
	w.AddChild(root1, root2)
	w.AddChild(root, root1)
	return w.RulePostProcessing(root)
}

// setElement
//
//	: ^(STRING_LITERAL elementOptions) {!inLexer || single character}?
//	| STRING_LITERAL {!inLexer || single character}?
//	| {!inLexer}? ^(TOKEN_REF elementOptions)
//	| {!inLexer}? TOKEN_REF
//	| {inLexer}? ^(RANGE STRING_LITERAL STRING_LITERAL) {both single characters}?
//	| {inLexer}? LEXER_CHAR_SET
//	;
func (w *blockSetTransformer) setElement(inLexer bool) *ast.Node {
	start := w.Index()
	defer w.EndRule("setElement", start)

	switch w.LA(1) {
	case ast.KindStringLiteral:
		if inLexer && ast.CharValueFromLiteral(w.LT(1).Text) == -1 {
			w.FailedPredicate()
			return nil
		}
		return w.terminalWithOptions(ast.KindStringLiteral)
	case ast.KindTokenRef:
		if inLexer {
			w.FailedPredicate()
			return nil
		}
		return w.terminalWithOptions(ast.KindTokenRef)
	case ast.KindRange:
		if !inLexer {
			w.FailedPredicate()
			return nil
		}
		t := w.Match(ast.KindRange)
		if w.Failed() {
			return nil
		}
		w.Match(ast.KindDown)
		if w.Failed() {
			return nil
		}
		a := w.Match(ast.KindStringLiteral)
		if w.Failed() {
			return nil
		}
		b := w.Match(ast.KindStringLiteral)
		if w.Failed() {
			return nil
		}
		w.Match(ast.KindUp)
		if w.Failed() {
			return nil
		}
		if ast.CharValueFromLiteral(a.Text) == -1 || ast.CharValueFromLiteral(b.Text) == -1 {
			w.FailedPredicate()
			return nil
		}
		return t
	case ast.KindLexerCharSet:
		if !inLexer {
			w.FailedPredicate()
			return nil
		}
		return w.Match(ast.KindLexerCharSet)
	}
	w.NoViableAlt(2)
	return nil
}

func (w *blockSetTransformer) terminalWithOptions(k ast.Kind) *ast.Node {
	t := w.Match(k)
	if w.Failed() {
		return nil
	}
	if w.LA(1) != ast.KindDown {
		return t
	}
	w.Match(ast.KindDown)
	if w.Failed() {
		return nil
	}
	w.elementOptions()
	if w.Failed() {
		return nil
	}
	w.Match(ast.KindUp)
	if w.Failed() {
		return nil
	}
	return t
}

func (w *blockSetTransformer) elementOptions() {
	start := w.Index()
	defer w.EndRule("elementOptions", start)

	if w.LA(1) != ast.KindElementOptions {
		w.Match(ast.KindElementOptions)
		return
	}
	w.MatchAny()
}
