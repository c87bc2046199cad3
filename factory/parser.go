package factory

import (
	"strconv"
	"strings"

	"github.com/antlr4-go/antlr/v4"
	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
	"github.com/nihei9/atnc/builder"
	verr "github.com/nihei9/atnc/error"
	"github.com/nihei9/atnc/grammar"
	"github.com/nihei9/atnc/tree"
)

// precedenceOption is the element option carrying the precedence of a rule reference or a
// precedence predicate.
const precedenceOption = "p"

var _ builder.Factory = &ParserFactory{}

// ParserFactory creates the ATN fragments of a parser grammar.
type ParserFactory struct {
	atn  *atn.ATN
	syms *grammar.Symbols
	rep  tree.ErrorReporter

	currentRule     *grammar.Rule
	currentOuterAlt int
}

func NewParserFactory(syms *grammar.Symbols, rep tree.ErrorReporter) *ParserFactory {
	return newParserFactory(atn.GrammarTypeParser, syms, rep)
}

func newParserFactory(t atn.GrammarType, syms *grammar.Symbols, rep tree.ErrorReporter) *ParserFactory {
	if rep == nil {
		rep = tree.ErrorReporterFunc(func(err error) {})
	}
	return &ParserFactory{
		atn:  atn.NewATN(t, syms.MaxTokenType),
		syms: syms,
		rep:  rep,
	}
}

// ATN returns the ATN the factory builds.
func (f *ParserFactory) ATN() *atn.ATN {
	return f.atn
}

func (f *ParserFactory) report(cause error, n *ast.Node, detail string) {
	e := &verr.SpecError{
		Cause:  cause,
		Detail: detail,
	}
	if n != nil {
		e.Row = n.Pos.Row
		e.Col = n.Pos.Col
	}
	if f.currentRule != nil {
		e.Rule = f.currentRule.Name
	}
	if f.syms.Grammar != nil {
		e.FilePath = f.syms.Grammar.FileName
	}
	f.rep.ReportError(e)
}

func (f *ParserFactory) SetCurrentRuleName(name string) {
	f.currentRule, _ = f.syms.Rule(name)
}

func (f *ParserFactory) SetCurrentOuterAlt(alt int) {
	f.currentOuterAlt = alt
}

func (f *ParserFactory) ruleIndex() int {
	if f.currentRule == nil {
		return -1
	}
	return f.currentRule.Index
}

func (f *ParserFactory) newState(t atn.StateType) *atn.State {
	return f.atn.NewState(t, f.ruleIndex())
}

func epsilon(from, to *atn.State) {
	from.AddTransition(atn.NewEpsilonTransition(to))
}

// epsilonFirst adds an epsilon transition that from tries before its others.
func epsilonFirst(from, to *atn.State) {
	from.InsertTransition(0, atn.NewEpsilonTransition(to))
}

// createRuleStartAndStopStates creates the start and the stop state of every rule.
func (f *ParserFactory) createRuleStartAndStopStates() {
	f.atn.RuleToStartState = make([]*atn.State, len(f.syms.Rules))
	f.atn.RuleToStopState = make([]*atn.State, len(f.syms.Rules))
	for _, r := range f.syms.Rules {
		start := f.atn.NewState(atn.StateRuleStart, r.Index)
		stop := f.atn.NewState(atn.StateRuleStop, r.Index)
		start.StopState = stop
		f.atn.RuleToStartState[r.Index] = start
		f.atn.RuleToStopState[r.Index] = stop
	}
}

// Rule links the block of a rule between the rule's start and stop states.
func (f *ParserFactory) Rule(rule *ast.Node, name string, blk *atn.Handle) *atn.Handle {
	r, ok := f.syms.Rule(name)
	if !ok {
		f.report(ErrUndefinedRule, rule, name)
		return nil
	}
	start := f.atn.RuleToStartState[r.Index]
	stop := f.atn.RuleToStopState[r.Index]
	epsilon(start, blk.Left)
	epsilon(blk.Right, stop)
	return atn.NewHandle(start, stop)
}

// Label and ListLabel leave the fragment as it is. Labels do not change what a rule matches.
func (f *ParserFactory) Label(h *atn.Handle) *atn.Handle {
	return h
}

func (f *ParserFactory) ListLabel(h *atn.Handle) *atn.Handle {
	return h
}

func (f *ParserFactory) tokenType(n *ast.Node) int {
	if n.Kind == ast.KindStringLiteral {
		return f.syms.LiteralType(n.Text)
	}
	return f.syms.TokenType(n.Text)
}

func (f *ParserFactory) atom(n *ast.Node, ttype int) *atn.Handle {
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	left.AddTransition(atn.NewAtomTransition(right, ttype))
	return atn.NewHandle(left, right)
}

// TokenRef
//
//	o-A->o
func (f *ParserFactory) TokenRef(ref *ast.Node) *atn.Handle {
	return f.atom(ref, f.tokenType(ref))
}

// StringLiteral matches the token the literal stands for.
func (f *ParserFactory) StringLiteral(lit *ast.Node) *atn.Handle {
	return f.atom(lit, f.tokenType(lit))
}

// CharSetLiteral is a lexer construct. A parser matches nothing for it.
func (f *ParserFactory) CharSetLiteral(set *ast.Node) *atn.Handle {
	return nil
}

// Range is a lexer construct. A parser matches the first bound of the range as a token.
func (f *ParserFactory) Range(a, b *ast.Node) *atn.Handle {
	return f.TokenRef(a)
}

// Set
//
//	o-{A, B}->o
//	o-~{A, B}->o
func (f *ParserFactory) Set(set *ast.Node, elems []*ast.Node, invert bool) *atn.Handle {
	s := atn.NewIntervalSet()
	for _, e := range elems {
		if e.Kind == ast.KindRange {
			e = e.Child(0)
		}
		s.Add(f.tokenType(e))
	}
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	if invert {
		left.AddTransition(atn.NewNotSetTransition(right, s))
	} else {
		left.AddTransition(atn.NewSetTransition(right, s))
	}
	return atn.NewHandle(left, right)
}

// RuleRef
//
//	o-r->o
//
// The rule transition goes to the start state of r and returns to the right state. The stop
// state of r gets an epsilon back to it when the ATN is finished.
func (f *ParserFactory) RuleRef(ref *ast.Node) *atn.Handle {
	r, ok := f.syms.Rule(ref.Text)
	if !ok {
		f.report(ErrUndefinedRule, ref, ref.Text)
		return nil
	}
	prec, ok := f.precedence(ref)
	if !ok {
		return nil
	}
	start := f.atn.RuleToStartState[r.Index]
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	left.AddTransition(atn.NewRuleTransition(start, r.Index, prec, right))
	return atn.NewHandle(left, right)
}

func (f *ParserFactory) precedence(n *ast.Node) (int, bool) {
	v, ok := f.syms.ElementOptions(n)[precedenceOption]
	if !ok {
		return 0, true
	}
	prec, err := strconv.Atoi(v)
	if err != nil {
		f.report(ErrInvalidPrecedence, n, v)
		return 0, false
	}
	return prec, true
}

// Wildcard
//
//	o-.->o
func (f *ParserFactory) Wildcard(n *ast.Node) *atn.Handle {
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	left.AddTransition(atn.NewWildcardTransition(right))
	return atn.NewHandle(left, right)
}

// Epsilon
//
//	o->o
func (f *ParserFactory) Epsilon(n *ast.Node) *atn.Handle {
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	epsilon(left, right)
	return atn.NewHandle(left, right)
}

// Sempred
//
//	o-{pred}?->o
//
// A predicate carrying the `p` option is a precedence predicate.
func (f *ParserFactory) Sempred(pred *ast.Node) *atn.Handle {
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	if _, ok := f.syms.ElementOptions(pred)[precedenceOption]; ok {
		prec, ok := f.precedence(pred)
		if !ok {
			return nil
		}
		left.AddTransition(atn.NewPrecedencePredicateTransition(right, prec))
	} else {
		left.AddTransition(atn.NewPredicateTransition(right, f.ruleIndex(), f.syms.PredicateIndex(pred), isCtxDependent(pred)))
	}
	return atn.NewHandle(left, right)
}

// Action
//
//	o-{action}->o
func (f *ParserFactory) Action(action *ast.Node) *atn.Handle {
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	left.AddTransition(atn.NewActionTransition(right, f.ruleIndex(), f.syms.ActionIndex(action), isCtxDependent(action)))
	return atn.NewHandle(left, right)
}

// isCtxDependent reports whether an action refers to the attributes of its rule.
func isCtxDependent(action *ast.Node) bool {
	return strings.Contains(action.Text, "$")
}

// Alt chains the elements of an alternative.
func (f *ParserFactory) Alt(elems []*atn.Handle) *atn.Handle {
	return f.elemList(elems)
}

// elemList links each element to the next one with an epsilon transition. When an element is a
// single transition between two basic states, the transition is retargeted to the next element
// and the right state of the element is dropped.
func (f *ParserFactory) elemList(elems []*atn.Handle) *atn.Handle {
	n := len(elems)
	for i := 0; i < n-1; i++ {
		el := elems[i]
		next := elems[i+1]
		var tr *atn.Transition
		if el.Left.NumberOfTransitions() == 1 {
			tr = el.Left.Transition(0)
		}
		isRuleTrans := tr != nil && tr.Type == atn.TransitionRule
		if el.Left.Type == atn.StateBasic && el.Right.Type == atn.StateBasic && tr != nil &&
			(isRuleTrans && tr.FollowState == el.Right || tr.Target == el.Right) {
			if isRuleTrans {
				tr.FollowState = next.Left
			} else {
				tr.Target = next.Left
			}
			f.atn.RemoveState(el.Right)
			continue
		}
		epsilon(el.Right, next.Left)
	}
	return atn.NewHandle(elems[0].Left, elems[n-1].Right)
}

// Block joins the alternatives of a block.
//
// A block without a quantifier:
//
//	  |-alt1->|
//	o-|-alt2->|->o
//	  |-...-->|
//
// A block with one alternative and no quantifier is the alternative itself.
func (f *ParserFactory) Block(blk, ebnfRoot *ast.Node, alts []*atn.Handle) *atn.Handle {
	if ebnfRoot == nil {
		if len(alts) == 1 {
			return alts[0]
		}
		start := f.newState(atn.StateBlockStart)
		f.atn.DefineDecisionState(start)
		return f.makeBlock(start, alts)
	}

	switch ebnfRoot.Kind {
	case ast.KindOptional:
		start := f.newState(atn.StateBlockStart)
		f.atn.DefineDecisionState(start)
		h := f.makeBlock(start, alts)
		return f.optional(ebnfRoot, h)
	case ast.KindClosure:
		star := f.newState(atn.StateStarBlockStart)
		if len(alts) > 1 {
			f.atn.DefineDecisionState(star)
		}
		h := f.makeBlock(star, alts)
		return f.star(ebnfRoot, h)
	case ast.KindPositiveClosure:
		plus := f.newState(atn.StatePlusBlockStart)
		if len(alts) > 1 {
			f.atn.DefineDecisionState(plus)
		}
		h := f.makeBlock(plus, alts)
		return f.plus(ebnfRoot, h)
	}
	return nil
}

func (f *ParserFactory) makeBlock(start *atn.State, alts []*atn.Handle) *atn.Handle {
	end := f.newState(atn.StateBlockEnd)
	start.EndState = end
	end.StartState = start
	for _, alt := range alts {
		epsilon(start, alt.Left)
		epsilon(alt.Right, end)
	}
	return atn.NewHandle(start, end)
}

// optional
//
//	o->o-A->o->o
//	|          ^
//	o--------->|
//
// A non-greedy block tries the bypass first.
func (f *ParserFactory) optional(ebnfRoot *ast.Node, blk *atn.Handle) *atn.Handle {
	greedy := !ebnfRoot.NonGreedy
	blk.Left.NonGreedy = !greedy
	if greedy {
		epsilon(blk.Left, blk.Right)
	} else {
		epsilonFirst(blk.Left, blk.Right)
	}
	return blk
}

// star
//
//	            |---------------------|
//	            v                     |
//	[entry]->[start]-A->[end]->[loop back]
//	   |
//	   |--->[loop end]
//
// The entry decides between entering the block and leaving the loop. A greedy loop tries the
// block first.
func (f *ParserFactory) star(ebnfRoot *ast.Node, blk *atn.Handle) *atn.Handle {
	greedy := !ebnfRoot.NonGreedy
	blkStart := blk.Left
	blkEnd := blk.Right

	entry := f.newState(atn.StateStarLoopEntry)
	entry.NonGreedy = !greedy
	f.atn.DefineDecisionState(entry)
	end := f.newState(atn.StateLoopEnd)
	loop := f.newState(atn.StateStarLoopBack)
	entry.LoopBackState = loop
	end.LoopBackState = loop

	if greedy {
		epsilon(entry, blkStart)
		epsilon(entry, end)
	} else {
		epsilon(entry, end)
		epsilon(entry, blkStart)
	}
	epsilon(blkEnd, loop)
	epsilon(loop, entry)
	return atn.NewHandle(entry, end)
}

// plus
//
//	   |-----------------|
//	   v                 |
//	[start]-A->[end]->[loop back]->[loop end]
//
// The loop back decides between another iteration and leaving the loop. A greedy loop tries
// another iteration first.
func (f *ParserFactory) plus(ebnfRoot *ast.Node, blk *atn.Handle) *atn.Handle {
	greedy := !ebnfRoot.NonGreedy
	blkStart := blk.Left
	blkEnd := blk.Right

	loop := f.newState(atn.StatePlusLoopBack)
	loop.NonGreedy = !greedy
	f.atn.DefineDecisionState(loop)
	end := f.newState(atn.StateLoopEnd)
	blkStart.LoopBackState = loop
	end.LoopBackState = loop

	epsilon(blkEnd, loop)
	if greedy {
		epsilon(loop, blkStart)
		epsilon(loop, end)
	} else {
		epsilon(loop, end)
		epsilon(loop, blkStart)
	}
	return atn.NewHandle(blkStart, end)
}

// LexerAltCommands, LexerCallCommand and LexerCommand are lexer constructs. A parser matches
// nothing for them.
func (f *ParserFactory) LexerAltCommands(alt, cmds *atn.Handle) *atn.Handle {
	return alt
}

func (f *ParserFactory) LexerCallCommand(id, arg *ast.Node) *atn.Handle {
	return nil
}

func (f *ParserFactory) LexerCommand(id *ast.Node) *atn.Handle {
	return nil
}

// addRuleFollowLinks adds an epsilon transition from the stop state of every referenced rule to
// the state the reference returns to.
func (f *ParserFactory) addRuleFollowLinks() {
	for _, s := range f.atn.States {
		if s == nil || s.Type != atn.StateBasic || s.NumberOfTransitions() != 1 {
			continue
		}
		t := s.Transition(0)
		if t.Type != atn.TransitionRule {
			continue
		}
		epsilon(f.atn.RuleToStopState[t.RuleIndex], t.FollowState)
	}
}

// addEOFTransitionToStartRules adds an EOF transition to the stop state of every rule no other
// rule refers to. Such rules are the start rules. It returns the number of start rules.
func (f *ParserFactory) addEOFTransitionToStartRules() int {
	eofTarget := f.atn.NewState(atn.StateBasic, -1)
	n := 0
	for _, stop := range f.atn.RuleToStopState {
		if stop.NumberOfTransitions() > 0 {
			continue
		}
		stop.AddTransition(atn.NewAtomTransition(eofTarget, antlr.TokenEOF))
		n++
	}
	return n
}
