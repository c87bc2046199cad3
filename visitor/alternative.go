package visitor

import (
	"github.com/nihei9/atnc/ast"
)

// lexerAlternative
//
//	: ^(LEXER_ALT_ACTION lexerElements lexerCommand+)
//	| lexerElements
//	;
func (v *Visitor) lexerAlternative() {
	start := v.Index()
	defer v.EndRule("lexerAlternative", start)
	t := v.enter(ConstructLexerAlternative)
	defer v.exit(ConstructLexerAlternative, t)

	if v.LA(1) != ast.KindLexerAltAction {
		v.lexerElements()
		return
	}
	v.Match(ast.KindLexerAltAction)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	v.lexerElements()
	if v.Failed() {
		return
	}
	n := 0
	for v.LA(1) == ast.KindLexerActionCall || v.LA(1) == ast.KindID {
		v.lexerCommand()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(10)
		return
	}
	v.Match(ast.KindUp)
}

// lexerElements
//
//	: ^(ALT elementOptions? lexerElement+)
//	;
func (v *Visitor) lexerElements() {
	start := v.Index()
	defer v.EndRule("lexerElements", start)
	t := v.enter(ConstructLexerElements)
	defer v.exit(ConstructLexerElements, t)

	v.Match(ast.KindAlt)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	if v.LA(1) == ast.KindElementOptions {
		v.elementOptions()
		if v.Failed() {
			return
		}
	}
	n := 0
	for v.LA(1) != ast.KindUp && v.LA(1) != ast.KindEOF {
		v.lexerElement()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(11)
		return
	}
	v.Match(ast.KindUp)
}

// lexerCommand
//
//	: ^(LEXER_ACTION_CALL ID (ID | INT))
//	| ID
//	;
func (v *Visitor) lexerCommand() {
	start := v.Index()
	defer v.EndRule("lexerCommand", start)
	t := v.enter(ConstructLexerCommand)
	defer v.exit(ConstructLexerCommand, t)

	if v.LA(1) == ast.KindID {
		id := v.Match(ast.KindID)
		if v.Failed() {
			return
		}
		v.hooks.LexerCommand(v.currentOuterAltNumber, id)
		return
	}
	v.Match(ast.KindLexerActionCall)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	arg := v.MatchSet(ast.KindID, ast.KindInt)
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.LexerCallCommand(v.currentOuterAltNumber, id, arg)
}

// lexerElement
//
//	: labeledElement
//	| lexerAtom
//	| lexerSubrule
//	| ACTION | ^(ACTION elementOptions)
//	| SEMPRED | ^(SEMPRED elementOptions)
//	| EPSILON
//	;
func (v *Visitor) lexerElement() {
	start := v.Index()
	defer v.EndRule("lexerElement", start)
	t := v.enter(ConstructLexerElement)
	defer v.exit(ConstructLexerElement, t)

	switch v.LA(1) {
	case ast.KindAssign, ast.KindPlusAssign:
		v.labeledElement(true)
	case ast.KindStringLiteral, ast.KindTokenRef, ast.KindRuleRef, ast.KindRange, ast.KindNot,
		ast.KindSet, ast.KindWildcard, ast.KindLexerCharSet:
		v.lexerAtom()
	case ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure, ast.KindBlock:
		v.lexerSubrule()
	case ast.KindAction, ast.KindSempred:
		v.actionElement()
	case ast.KindEpsilon:
		v.Match(ast.KindEpsilon)
	default:
		v.NoViableAlt(12)
	}
}

// actionElement matches an action or a predicate with optional element options.
func (v *Visitor) actionElement() {
	k := v.LA(1)
	t := v.MatchSet(ast.KindAction, ast.KindSempred)
	if v.Failed() {
		return
	}
	if v.LA(1) == ast.KindDown {
		v.Match(ast.KindDown)
		if v.Failed() {
			return
		}
		v.elementOptions()
		if v.Failed() {
			return
		}
		v.Match(ast.KindUp)
		if v.Failed() {
			return
		}
	}
	if k == ast.KindSempred {
		v.hooks.SempredInAlt(t)
		return
	}
	v.hooks.ActionInAlt(t)
}

// lexerAtom
//
//	: terminal
//	| ^(NOT blockSet)
//	| blockSet
//	| ^(WILDCARD elementOptions) | WILDCARD
//	| LEXER_CHAR_SET
//	| range
//	| ruleref
//	;
func (v *Visitor) lexerAtom() {
	start := v.Index()
	defer v.EndRule("lexerAtom", start)
	t := v.enter(ConstructLexerAtom)
	defer v.exit(ConstructLexerAtom, t)

	switch v.LA(1) {
	case ast.KindStringLiteral, ast.KindTokenRef:
		v.terminal()
	case ast.KindNot:
		v.not()
	case ast.KindSet:
		v.blockSet()
	case ast.KindWildcard:
		v.wildcard()
	case ast.KindLexerCharSet:
		v.Match(ast.KindLexerCharSet)
	case ast.KindRange:
		v.rangeElement()
	case ast.KindRuleRef:
		v.ruleref()
	default:
		v.NoViableAlt(13)
	}
}

// lexerSubrule
//
//	: ^((OPTIONAL | CLOSURE | POSITIVE_CLOSURE) lexerBlock)
//	| lexerBlock
//	;
func (v *Visitor) lexerSubrule() {
	start := v.Index()
	defer v.EndRule("lexerSubrule", start)
	t := v.enter(ConstructLexerSubrule)
	defer v.exit(ConstructLexerSubrule, t)

	if v.LA(1) == ast.KindBlock {
		v.lexerBlock()
		return
	}
	v.MatchSet(ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	v.lexerBlock()
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
}

// lexerBlock
//
//	: ^(BLOCK optionsSpec? ruleAction* lexerAlternative+)
//	;
func (v *Visitor) lexerBlock() {
	start := v.Index()
	defer v.EndRule("lexerBlock", start)
	t := v.enter(ConstructLexerBlock)
	defer v.exit(ConstructLexerBlock, t)

	v.blockBody(v.lexerAlternative, ast.KindAlt, ast.KindLexerAltAction)
}

// alternative
//
//	: ^(ALT elementOptions? element+)
//	| ^(ALT elementOptions? EPSILON)
//	;
func (v *Visitor) alternative() {
	start := v.Index()
	defer v.EndRule("alternative", start)
	t := v.enter(ConstructAlternative)
	defer v.exit(ConstructAlternative, t)

	v.hooks.DiscoverAlt(t)
	v.Match(ast.KindAlt)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	if v.LA(1) == ast.KindElementOptions {
		v.elementOptions()
		if v.Failed() {
			return
		}
	}
	n := 0
	for v.LA(1) != ast.KindUp && v.LA(1) != ast.KindEOF {
		v.element()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(14)
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.FinishAlt(t)
}

// element
//
//	: labeledElement
//	| atom
//	| subrule
//	| ACTION | ^(ACTION elementOptions)
//	| SEMPRED | ^(SEMPRED elementOptions)
//	| range
//	| EPSILON
//	;
func (v *Visitor) element() {
	start := v.Index()
	defer v.EndRule("element", start)
	t := v.enter(ConstructElement)
	defer v.exit(ConstructElement, t)

	switch v.LA(1) {
	case ast.KindAssign, ast.KindPlusAssign:
		v.labeledElement(false)
	case ast.KindStringLiteral, ast.KindTokenRef, ast.KindRuleRef, ast.KindNot, ast.KindSet, ast.KindWildcard:
		v.atom()
	case ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure, ast.KindBlock:
		v.subrule()
	case ast.KindAction, ast.KindSempred:
		v.actionElement()
	case ast.KindRange:
		v.rangeElement()
	case ast.KindEpsilon:
		v.Match(ast.KindEpsilon)
	default:
		v.NoViableAlt(15)
	}
}

// labeledElement
//
//	: ^((ASSIGN | PLUS_ASSIGN) ID element)
//	;
//
// In a lexer rule the labeled element is a lexerAtom or a lexerBlock.
func (v *Visitor) labeledElement(lexer bool) {
	start := v.Index()
	defer v.EndRule("labeledElement", start)
	t := v.enter(ConstructLabeledElement)
	defer v.exit(ConstructLabeledElement, t)

	op := v.MatchSet(ast.KindAssign, ast.KindPlusAssign)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	elem := v.LT(1)
	switch {
	case !lexer:
		v.element()
	case v.LA(1) == ast.KindBlock:
		v.lexerBlock()
	default:
		v.lexerAtom()
	}
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.Label(op, id, elem)
}

// subrule
//
//	: ^((OPTIONAL | CLOSURE | POSITIVE_CLOSURE) block)
//	| block
//	;
func (v *Visitor) subrule() {
	start := v.Index()
	defer v.EndRule("subrule", start)
	t := v.enter(ConstructSubrule)
	defer v.exit(ConstructSubrule, t)

	if v.LA(1) == ast.KindBlock {
		v.block()
		return
	}
	v.MatchSet(ast.KindOptional, ast.KindClosure, ast.KindPositiveClosure)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	v.block()
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
}

// block
//
//	: ^(BLOCK optionsSpec? ruleAction* alternative+)
//	;
func (v *Visitor) block() {
	start := v.Index()
	defer v.EndRule("block", start)
	t := v.enter(ConstructBlock)
	defer v.exit(ConstructBlock, t)

	v.blockBody(v.alternative, ast.KindAlt)
}

func (v *Visitor) blockBody(alt func(), altKinds ...ast.Kind) {
	isAlt := func(k ast.Kind) bool {
		for _, ak := range altKinds {
			if k == ak {
				return true
			}
		}
		return false
	}

	v.Match(ast.KindBlock)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	if v.LA(1) == ast.KindOptions {
		v.optionsSpec()
		if v.Failed() {
			return
		}
	}
	for v.LA(1) == ast.KindAt {
		v.ruleAction()
		if v.Failed() {
			return
		}
	}
	n := 0
	for isAlt(v.LA(1)) {
		alt()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(16)
		return
	}
	v.Match(ast.KindUp)
}

// atom
//
//	: ^(NOT blockSet) | ^(NOT block)
//	| range
//	| ^(WILDCARD elementOptions) | WILDCARD
//	| terminal
//	| blockSet
//	| ruleref
//	;
func (v *Visitor) atom() {
	start := v.Index()
	defer v.EndRule("atom", start)
	t := v.enter(ConstructAtom)
	defer v.exit(ConstructAtom, t)

	switch v.LA(1) {
	case ast.KindNot:
		v.not()
	case ast.KindRange:
		v.rangeElement()
	case ast.KindWildcard:
		v.wildcard()
	case ast.KindStringLiteral, ast.KindTokenRef:
		v.terminal()
	case ast.KindSet:
		v.blockSet()
	case ast.KindRuleRef:
		v.ruleref()
	default:
		v.NoViableAlt(17)
	}
}

func (v *Visitor) not() {
	v.Match(ast.KindNot)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	switch v.LA(1) {
	case ast.KindSet:
		v.blockSet()
	case ast.KindBlock:
		v.block()
	default:
		v.NoViableAlt(18)
		return
	}
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
}

func (v *Visitor) wildcard() {
	t := v.Match(ast.KindWildcard)
	if v.Failed() {
		return
	}
	if v.LA(1) == ast.KindDown {
		v.Match(ast.KindDown)
		if v.Failed() {
			return
		}
		v.elementOptions()
		if v.Failed() {
			return
		}
		v.Match(ast.KindUp)
		if v.Failed() {
			return
		}
	}
	v.hooks.WildcardRef(t)
}

// blockSet
//
//	: ^(SET setElement+)
//	;
func (v *Visitor) blockSet() {
	start := v.Index()
	defer v.EndRule("blockSet", start)
	t := v.enter(ConstructBlockSet)
	defer v.exit(ConstructBlockSet, t)

	v.Match(ast.KindSet)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	n := 0
	for v.LA(1) != ast.KindUp && v.LA(1) != ast.KindEOF {
		v.setElement()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(19)
		return
	}
	v.Match(ast.KindUp)
}

// setElement
//
//	: ^(STRING_LITERAL elementOptions) | STRING_LITERAL
//	| ^(TOKEN_REF elementOptions) | TOKEN_REF
//	| ^(RANGE STRING_LITERAL STRING_LITERAL)
//	| LEXER_CHAR_SET
//	;
func (v *Visitor) setElement() {
	start := v.Index()
	defer v.EndRule("setElement", start)
	t := v.enter(ConstructSetElement)
	defer v.exit(ConstructSetElement, t)

	switch v.LA(1) {
	case ast.KindStringLiteral, ast.KindTokenRef:
		v.terminal()
	case ast.KindRange:
		v.Match(ast.KindRange)
		if v.Failed() {
			return
		}
		v.Match(ast.KindDown)
		if v.Failed() {
			return
		}
		a := v.Match(ast.KindStringLiteral)
		if v.Failed() {
			return
		}
		b := v.Match(ast.KindStringLiteral)
		if v.Failed() {
			return
		}
		v.Match(ast.KindUp)
		if v.Failed() {
			return
		}
		v.hooks.StringRef(a)
		v.hooks.StringRef(b)
	case ast.KindLexerCharSet:
		v.Match(ast.KindLexerCharSet)
	default:
		v.MatchSet(ast.KindStringLiteral, ast.KindTokenRef, ast.KindRange, ast.KindLexerCharSet)
	}
}

// ruleref
//
//	: ^(RULE_REF ARG_ACTION? elementOptions?)
//	;
func (v *Visitor) ruleref() {
	start := v.Index()
	defer v.EndRule("ruleref", start)
	t := v.enter(ConstructRuleref)
	defer v.exit(ConstructRuleref, t)

	ref := v.Match(ast.KindRuleRef)
	if v.Failed() {
		return
	}
	var arg *ast.Node
	if v.LA(1) == ast.KindDown {
		v.Match(ast.KindDown)
		if v.Failed() {
			return
		}
		if v.LA(1) == ast.KindArgAction {
			arg = v.Match(ast.KindArgAction)
			if v.Failed() {
				return
			}
		}
		if v.LA(1) == ast.KindElementOptions {
			v.elementOptions()
			if v.Failed() {
				return
			}
		}
		v.Match(ast.KindUp)
		if v.Failed() {
			return
		}
	}
	v.hooks.RuleRef(ref, arg)
}

// range
//
//	: ^(RANGE STRING_LITERAL STRING_LITERAL)
//	;
func (v *Visitor) rangeElement() {
	start := v.Index()
	defer v.EndRule("range", start)
	t := v.enter(ConstructRange)
	defer v.exit(ConstructRange, t)

	v.Match(ast.KindRange)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	a := v.Match(ast.KindStringLiteral)
	if v.Failed() {
		return
	}
	b := v.Match(ast.KindStringLiteral)
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.StringRef(a)
	v.hooks.StringRef(b)
}

// terminal
//
//	: ^(STRING_LITERAL elementOptions) | STRING_LITERAL
//	| ^(TOKEN_REF elementOptions) | TOKEN_REF
//	;
func (v *Visitor) terminal() {
	start := v.Index()
	defer v.EndRule("terminal", start)
	t := v.enter(ConstructTerminal)
	defer v.exit(ConstructTerminal, t)

	k := v.LA(1)
	ref := v.MatchSet(ast.KindStringLiteral, ast.KindTokenRef)
	if v.Failed() {
		return
	}
	if v.LA(1) == ast.KindDown {
		v.Match(ast.KindDown)
		if v.Failed() {
			return
		}
		v.elementOptions()
		if v.Failed() {
			return
		}
		v.Match(ast.KindUp)
		if v.Failed() {
			return
		}
	}
	if k == ast.KindStringLiteral {
		v.hooks.StringRef(ref)
		return
	}
	v.hooks.TokenRef(ref)
}

// elementOptions
//
//	: ^(ELEMENT_OPTIONS elementOption*)
//	;
func (v *Visitor) elementOptions() {
	start := v.Index()
	defer v.EndRule("elementOptions", start)
	t := v.enter(ConstructElementOptions)
	defer v.exit(ConstructElementOptions, t)

	opts := v.Match(ast.KindElementOptions)
	if v.Failed() {
		return
	}
	if v.LA(1) != ast.KindDown {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	for v.LA(1) == ast.KindID || v.LA(1) == ast.KindAssign {
		v.elementOption(opts.Parent())
		if v.Failed() {
			return
		}
	}
	v.Match(ast.KindUp)
}

// elementOption
//
//	: ID
//	| ^(ASSIGN ID (ID | STRING_LITERAL | ACTION | INT))
//	;
func (v *Visitor) elementOption(owner *ast.Node) {
	start := v.Index()
	defer v.EndRule("elementOption", start)
	t := v.enter(ConstructElementOption)
	defer v.exit(ConstructElementOption, t)

	if v.LA(1) == ast.KindID {
		id := v.Match(ast.KindID)
		if v.Failed() {
			return
		}
		v.hooks.ElementOption(owner, id, nil)
		return
	}
	v.Match(ast.KindAssign)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	value := v.MatchSet(ast.KindID, ast.KindStringLiteral, ast.KindAction, ast.KindInt)
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.ElementOption(owner, id, value)
}
