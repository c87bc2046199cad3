package builder

import (
	"errors"
	"fmt"

	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
	"github.com/nihei9/atnc/tree"
)

// ErrNoFactory is returned when a Builder has no factory to delegate to.
var ErrNoFactory = errors.New("builder has no ATN factory")

// Builder walks a rule block and composes the ATN fragment of every construct bottom-up. The
// fragments themselves come from a Factory. A construct that fails to match is reported once,
// yields no fragment, and the walk goes on with the next sibling.
type Builder struct {
	*tree.Recognizer
	factory Factory

	currentOuterAlt int
}

func New(f Factory) *Builder {
	return &Builder{
		Recognizer: tree.NewRecognizer(nil),
		factory:    f,
	}
}

// RuleBlock builds the BLOCK of a rule. Outer alternatives are numbered from 1 and the factory
// is told the number before each one is built. h is nil when nothing could be built.
func (b *Builder) RuleBlock(blk *ast.Node) (h *atn.Handle, retErr error) {
	defer tree.Recover(&retErr)

	if err := b.setInput(blk, ast.KindBlock); err != nil {
		return nil, err
	}
	return b.ruleBlock(), nil
}

// Subrule builds a nested BLOCK, optionally wrapped by an OPTIONAL, CLOSURE or
// POSITIVE_CLOSURE node.
func (b *Builder) Subrule(t *ast.Node) (h *atn.Handle, retErr error) {
	defer tree.Recover(&retErr)

	if err := b.setInput(t, ast.KindBlock, ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure); err != nil {
		return nil, err
	}
	return b.subrule(), nil
}

func (b *Builder) setInput(t *ast.Node, kinds ...ast.Kind) error {
	if b.factory == nil {
		return ErrNoFactory
	}
	if t == nil {
		return fmt.Errorf("%w: a tree is nil", tree.ErrNoInput)
	}
	for _, k := range kinds {
		if t.Kind == k {
			b.SetInput(tree.NewNodeStream(t))
			return nil
		}
	}
	return fmt.Errorf("%w: cannot build %v", tree.ErrNoInput, t.Kind)
}

func appendHandle(hs []*atn.Handle, h *atn.Handle) []*atn.Handle {
	if h == nil {
		return hs
	}
	return append(hs, h)
}

// ruleBlock
//
//	: ^(BLOCK blockPrologue (alternative {outerAlt++})+)
//	;
func (b *Builder) ruleBlock() *atn.Handle {
	start := b.Index()
	defer b.EndRule("ruleBlock", start)

	blk := b.Match(ast.KindBlock)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	b.blockPrologue()
	if b.Failed() {
		return nil
	}
	b.currentOuterAlt = 1
	var alts []*atn.Handle
	n := 0
	for b.LA(1) == ast.KindAlt || b.LA(1) == ast.KindLexerAltAction {
		b.factory.SetCurrentOuterAlt(b.currentOuterAlt)
		a := b.alternative()
		if b.Failed() {
			return nil
		}
		alts = appendHandle(alts, a)
		b.currentOuterAlt++
		n++
	}
	if n == 0 {
		b.EarlyExit(1)
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	if len(alts) == 0 {
		return nil
	}
	return b.factory.Block(blk, nil, alts)
}

// block
//
//	: ^(BLOCK blockPrologue alternative+)
//	;
func (b *Builder) block(ebnfRoot *ast.Node) *atn.Handle {
	start := b.Index()
	defer b.EndRule("block", start)

	blk := b.Match(ast.KindBlock)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	b.blockPrologue()
	if b.Failed() {
		return nil
	}
	var alts []*atn.Handle
	n := 0
	for b.LA(1) == ast.KindAlt || b.LA(1) == ast.KindLexerAltAction {
		a := b.alternative()
		if b.Failed() {
			return nil
		}
		alts = appendHandle(alts, a)
		n++
	}
	if n == 0 {
		b.EarlyExit(2)
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	if len(alts) == 0 {
		return nil
	}
	return b.factory.Block(blk, ebnfRoot, alts)
}

// blockPrologue
//
//	: ^(OPTIONS .*)? ^(AT .*)*
//	;
//
// Block options and actions do not shape the ATN.
func (b *Builder) blockPrologue() {
	if b.LA(1) == ast.KindOptions {
		b.MatchAny()
		if b.Failed() {
			return
		}
	}
	for b.LA(1) == ast.KindAt {
		b.MatchAny()
		if b.Failed() {
			return
		}
	}
}

// alternative
//
//	: ^(LEXER_ALT_ACTION alternative lexerCommands)
//	| ^(ALT elementOptions? EPSILON)
//	| ^(ALT elementOptions? element+)
//	;
func (b *Builder) alternative() *atn.Handle {
	start := b.Index()
	defer b.EndRule("alternative", start)

	var alt int
	switch {
	case b.LA(1) == ast.KindLexerAltAction:
		alt = 1
	case b.LA(1) != ast.KindAlt || b.LA(2) != ast.KindDown:
		b.NoViableAlt(3)
		return nil
	case b.LA(3) == ast.KindEpsilon && b.LA(4) == ast.KindUp:
		alt = 2
	case b.LA(3) == ast.KindElementOptions:
		// The options hide what comes after them.
		if b.Speculate(func() { b.epsilonAlternative() }) {
			alt = 2
		} else {
			alt = 3
		}
	default:
		alt = 3
	}

	switch alt {
	case 1:
		return b.lexerAlternative()
	case 2:
		return b.epsilonAlternative()
	default:
		return b.elementAlternative()
	}
}

func (b *Builder) lexerAlternative() *atn.Handle {
	b.Match(ast.KindLexerAltAction)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	a := b.alternative()
	if b.Failed() {
		return nil
	}
	cmds := b.lexerCommands()
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	switch {
	case a == nil:
		return cmds
	case cmds == nil:
		return a
	}
	return b.factory.LexerAltCommands(a, cmds)
}

func (b *Builder) epsilonAlternative() *atn.Handle {
	b.Match(ast.KindAlt)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	if b.LA(1) == ast.KindElementOptions {
		b.elementOptions()
		if b.Failed() {
			return nil
		}
	}
	eps := b.Match(ast.KindEpsilon)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	if b.Backtracking() > 0 {
		return nil
	}
	return b.factory.Epsilon(eps)
}

func (b *Builder) elementAlternative() *atn.Handle {
	b.Match(ast.KindAlt)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	if b.LA(1) == ast.KindElementOptions {
		b.elementOptions()
		if b.Failed() {
			return nil
		}
	}
	var elems []*atn.Handle
	n := 0
	for b.LA(1) != ast.KindUp && b.LA(1) != ast.KindEOF {
		e := b.element()
		if b.Failed() {
			return nil
		}
		elems = appendHandle(elems, e)
		n++
	}
	if n == 0 {
		b.EarlyExit(4)
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	if len(elems) == 0 {
		return nil
	}
	return b.factory.Alt(elems)
}

// lexerCommands
//
//	: lexerCommand+
//	;
func (b *Builder) lexerCommands() *atn.Handle {
	start := b.Index()
	defer b.EndRule("lexerCommands", start)

	var cmds []*atn.Handle
	n := 0
	for b.LA(1) == ast.KindLexerActionCall || b.LA(1) == ast.KindID {
		c := b.lexerCommand()
		if b.Failed() {
			return nil
		}
		cmds = appendHandle(cmds, c)
		n++
	}
	if n == 0 {
		b.EarlyExit(5)
		return nil
	}
	if len(cmds) == 0 {
		return nil
	}
	return b.factory.Alt(cmds)
}

// lexerCommand
//
//	: ^(LEXER_ACTION_CALL ID lexerCommandExpr)
//	| ID
//	;
func (b *Builder) lexerCommand() *atn.Handle {
	start := b.Index()
	defer b.EndRule("lexerCommand", start)

	if b.LA(1) == ast.KindID {
		id := b.Match(ast.KindID)
		if b.Failed() {
			return nil
		}
		return b.factory.LexerCommand(id)
	}
	b.Match(ast.KindLexerActionCall)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	id := b.Match(ast.KindID)
	if b.Failed() {
		return nil
	}
	arg := b.MatchSet(ast.KindID, ast.KindInt)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	return b.factory.LexerCallCommand(id, arg)
}

// element
//
//	: labeledElement
//	| atom
//	| subrule
//	| ACTION | ^(ACTION elementOptions)
//	| SEMPRED | ^(SEMPRED elementOptions)
//	| LEXER_CHAR_SET
//	| EPSILON
//	;
func (b *Builder) element() *atn.Handle {
	start := b.Index()
	defer b.EndRule("element", start)

	switch b.LA(1) {
	case ast.KindAssign, ast.KindPlusAssign:
		return b.labeledElement()
	case ast.KindNot, ast.KindSet, ast.KindWildcard, ast.KindRuleRef, ast.KindRange,
		ast.KindStringLiteral, ast.KindTokenRef:
		return b.atom()
	case ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure, ast.KindBlock:
		return b.subrule()
	case ast.KindAction:
		act := b.Match(ast.KindAction)
		if b.Failed() {
			return nil
		}
		b.elementOptionsTail()
		if b.Failed() {
			return nil
		}
		return b.factory.Action(act)
	case ast.KindSempred:
		pred := b.Match(ast.KindSempred)
		if b.Failed() {
			return nil
		}
		b.elementOptionsTail()
		if b.Failed() {
			return nil
		}
		return b.factory.Sempred(pred)
	case ast.KindLexerCharSet:
		set := b.Match(ast.KindLexerCharSet)
		if b.Failed() {
			return nil
		}
		return b.factory.CharSetLiteral(set)
	case ast.KindEpsilon:
		eps := b.Match(ast.KindEpsilon)
		if b.Failed() {
			return nil
		}
		return b.factory.Epsilon(eps)
	}
	b.NoViableAlt(6)
	return nil
}

// labeledElement
//
//	: ^(ASSIGN ID element)
//	| ^(PLUS_ASSIGN ID element)
//	;
func (b *Builder) labeledElement() *atn.Handle {
	start := b.Index()
	defer b.EndRule("labeledElement", start)

	op := b.MatchSet(ast.KindAssign, ast.KindPlusAssign)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindID)
	if b.Failed() {
		return nil
	}
	e := b.element()
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	if e == nil {
		return nil
	}
	if op.Kind == ast.KindPlusAssign {
		return b.factory.ListLabel(e)
	}
	return b.factory.Label(e)
}

// subrule
//
//	: ^(OPTIONAL block)
//	| ^(CLOSURE block)
//	| ^(POSITIVE_CLOSURE block)
//	| block
//	;
func (b *Builder) subrule() *atn.Handle {
	start := b.Index()
	defer b.EndRule("subrule", start)

	switch b.LA(1) {
	case ast.KindBlock:
		return b.block(nil)
	case ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure:
	default:
		b.NoViableAlt(7)
		return nil
	}
	ebnfRoot := b.MatchSet(ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	h := b.block(ebnfRoot)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	return h
}

// atom
//
//	: ^(NOT blockSet)
//	| blockSet
//	| ^(WILDCARD elementOptions) | WILDCARD
//	| ruleref
//	| range
//	| terminal
//	;
func (b *Builder) atom() *atn.Handle {
	start := b.Index()
	defer b.EndRule("atom", start)

	switch b.LA(1) {
	case ast.KindNot:
		b.Match(ast.KindNot)
		if b.Failed() {
			return nil
		}
		b.Match(ast.KindDown)
		if b.Failed() {
			return nil
		}
		h := b.blockSet(true)
		if b.Failed() {
			return nil
		}
		b.Match(ast.KindUp)
		if b.Failed() {
			return nil
		}
		return h
	case ast.KindSet:
		return b.blockSet(false)
	case ast.KindWildcard:
		w := b.Match(ast.KindWildcard)
		if b.Failed() {
			return nil
		}
		b.elementOptionsTail()
		if b.Failed() {
			return nil
		}
		return b.factory.Wildcard(w)
	case ast.KindRuleRef:
		return b.ruleref()
	case ast.KindRange:
		return b.rangeElement()
	case ast.KindStringLiteral, ast.KindTokenRef:
		return b.terminal()
	}
	b.NoViableAlt(8)
	return nil
}

// blockSet
//
//	: ^(SET setElement+)
//	;
func (b *Builder) blockSet(invert bool) *atn.Handle {
	start := b.Index()
	defer b.EndRule("blockSet", start)

	set := b.Match(ast.KindSet)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	var elems []*ast.Node
	n := 0
	for b.LA(1) != ast.KindUp && b.LA(1) != ast.KindEOF {
		e := b.setElement()
		if b.Failed() {
			return nil
		}
		if e != nil {
			elems = append(elems, e)
		}
		n++
	}
	if n == 0 {
		b.EarlyExit(9)
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	if len(elems) == 0 {
		return nil
	}
	return b.factory.Set(set, elems, invert)
}

// setElement
//
//	: ^(STRING_LITERAL elementOptions) | STRING_LITERAL
//	| ^(TOKEN_REF elementOptions) | TOKEN_REF
//	| ^(RANGE STRING_LITERAL STRING_LITERAL)
//	| LEXER_CHAR_SET
//	;
func (b *Builder) setElement() *ast.Node {
	start := b.Index()
	defer b.EndRule("setElement", start)

	switch b.LA(1) {
	case ast.KindStringLiteral, ast.KindTokenRef:
		e := b.MatchSet(ast.KindStringLiteral, ast.KindTokenRef)
		if b.Failed() {
			return nil
		}
		b.elementOptionsTail()
		if b.Failed() {
			return nil
		}
		return e
	case ast.KindRange:
		if b.LA(2) != ast.KindDown || b.LA(3) != ast.KindStringLiteral || b.LA(4) != ast.KindStringLiteral {
			b.NoViableAlt(10)
			return nil
		}
		return b.MatchAny()
	case ast.KindLexerCharSet:
		return b.Match(ast.KindLexerCharSet)
	}
	b.NoViableAlt(10)
	return nil
}

// ruleref
//
//	: ^(RULE_REF ARG_ACTION? elementOptions?)
//	;
func (b *Builder) ruleref() *atn.Handle {
	start := b.Index()
	defer b.EndRule("ruleref", start)

	ref := b.Match(ast.KindRuleRef)
	if b.Failed() {
		return nil
	}
	if b.LA(1) == ast.KindDown {
		b.Match(ast.KindDown)
		if b.Failed() {
			return nil
		}
		if b.LA(1) == ast.KindArgAction {
			b.Match(ast.KindArgAction)
			if b.Failed() {
				return nil
			}
		}
		if b.LA(1) == ast.KindElementOptions {
			b.elementOptions()
			if b.Failed() {
				return nil
			}
		}
		b.Match(ast.KindUp)
		if b.Failed() {
			return nil
		}
	}
	return b.factory.RuleRef(ref)
}

// range
//
//	: ^(RANGE STRING_LITERAL STRING_LITERAL)
//	;
func (b *Builder) rangeElement() *atn.Handle {
	start := b.Index()
	defer b.EndRule("range", start)

	b.Match(ast.KindRange)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return nil
	}
	from := b.Match(ast.KindStringLiteral)
	if b.Failed() {
		return nil
	}
	to := b.Match(ast.KindStringLiteral)
	if b.Failed() {
		return nil
	}
	b.Match(ast.KindUp)
	if b.Failed() {
		return nil
	}
	return b.factory.Range(from, to)
}

// terminal
//
//	: ^(STRING_LITERAL elementOptions) | STRING_LITERAL
//	| ^(TOKEN_REF elementOptions) | TOKEN_REF
//	;
func (b *Builder) terminal() *atn.Handle {
	start := b.Index()
	defer b.EndRule("terminal", start)

	t := b.MatchSet(ast.KindStringLiteral, ast.KindTokenRef)
	if b.Failed() {
		return nil
	}
	b.elementOptionsTail()
	if b.Failed() {
		return nil
	}
	if t.Kind == ast.KindStringLiteral {
		return b.factory.StringLiteral(t)
	}
	return b.factory.TokenRef(t)
}

// elementOptionsTail matches the optional `elementOptions` child of `^(X elementOptions)`.
func (b *Builder) elementOptionsTail() {
	if b.LA(1) != ast.KindDown {
		return
	}
	b.Match(ast.KindDown)
	if b.Failed() {
		return
	}
	b.elementOptions()
	if b.Failed() {
		return
	}
	b.Match(ast.KindUp)
}

// elementOptions
//
//	: ^(ELEMENT_OPTIONS .*)
//	;
//
// Element options are read by the factory from the node they belong to.
func (b *Builder) elementOptions() {
	if b.LA(1) != ast.KindElementOptions {
		b.Match(ast.KindElementOptions)
		return
	}
	b.MatchAny()
}
