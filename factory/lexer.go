package factory

import (
	"unicode"
	"unicode/utf8"

	"github.com/antlr4-go/antlr/v4"
	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
	"github.com/nihei9/atnc/builder"
	"github.com/nihei9/atnc/grammar"
	"github.com/nihei9/atnc/tree"
)

const caseInsensitiveOption = "caseInsensitive"

var _ builder.Factory = &LexerFactory{}

// LexerFactory creates the ATN fragments of a lexer grammar. Symbols of its transitions are code
// points.
type LexerFactory struct {
	*ParserFactory
}

func NewLexerFactory(syms *grammar.Symbols, rep tree.ErrorReporter) *LexerFactory {
	return &LexerFactory{
		ParserFactory: newParserFactory(atn.GrammarTypeLexer, syms, rep),
	}
}

// createModeStartStates creates the token start state of every mode.
func (f *LexerFactory) createModeStartStates() {
	for _, m := range f.syms.Modes {
		s := f.atn.NewState(atn.StateTokenStart, -1)
		f.atn.DefineDecisionState(s)
		f.atn.ModeToStartState = append(f.atn.ModeToStartState, s)
		f.atn.ModeNames = append(f.atn.ModeNames, m)
	}
}

// linkModeStartStates adds an epsilon transition from the token start state of each mode to the
// start state of every token rule of the mode.
func (f *LexerFactory) linkModeStartStates() {
	for i, m := range f.atn.ModeNames {
		for _, r := range f.syms.LexerRules(m) {
			if r.IsFragment {
				continue
			}
			epsilon(f.atn.ModeToStartState[i], f.atn.RuleToStartState[r.Index])
		}
	}
}

func (f *LexerFactory) caseInsensitive() bool {
	if f.currentRule != nil {
		if v, ok := f.currentRule.Options[caseInsensitiveOption]; ok {
			return v == "true"
		}
	}
	return f.syms.Options[caseInsensitiveOption] == "true"
}

// foldCase adds the other cases of each symbol of s.
func foldCase(s *atn.IntervalSet) *atn.IntervalSet {
	folded := s.Copy()
	for _, c := range s.Symbols() {
		r := rune(c)
		folded.Add(int(unicode.ToLower(r)))
		folded.Add(int(unicode.ToUpper(r)))
	}
	return folded
}

// setTransition makes the smallest transition matching s.
func setTransition(target *atn.State, s *atn.IntervalSet) *atn.Transition {
	intervals := s.Intervals()
	if len(intervals) == 1 {
		iv := intervals[0]
		if iv.Start == iv.Stop {
			return atn.NewAtomTransition(target, iv.Start)
		}
		return atn.NewRangeTransition(target, iv.Start, iv.Stop)
	}
	return atn.NewSetTransition(target, s)
}

func (f *LexerFactory) charTransition(target *atn.State, s *atn.IntervalSet) *atn.Transition {
	if f.caseInsensitive() {
		s = foldCase(s)
	}
	return setTransition(target, s)
}

// TokenRef refers to another lexer rule, or to EOF.
func (f *LexerFactory) TokenRef(ref *ast.Node) *atn.Handle {
	if ref.Text == grammar.TokenNameEOF {
		return f.atom(ref, antlr.TokenEOF)
	}
	return f.RuleRef(ref)
}

// StringLiteral
//
//	o-'a'->o-'b'->o-'c'->o
func (f *LexerFactory) StringLiteral(lit *ast.Node) *atn.Handle {
	s, err := ast.StringFromLiteral(lit.Text)
	if err != nil {
		f.report(ErrInvalidLiteral, lit, lit.Text)
		return nil
	}
	if s == "" {
		f.report(ErrEmptyLiteral, lit, "")
		return nil
	}

	left := f.newState(atn.StateBasic)
	prev := left
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		next := f.newState(atn.StateBasic)
		prev.AddTransition(f.charTransition(next, atn.NewIntervalSetOf(int(r))))
		prev = next
	}
	return atn.NewHandle(left, prev)
}

// Range
//
//	o-'a'..'z'->o
func (f *LexerFactory) Range(a, b *ast.Node) *atn.Handle {
	s, ok := f.rangeSet(a, b)
	if !ok {
		return nil
	}
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	left.AddTransition(f.charTransition(right, s))
	return atn.NewHandle(left, right)
}

func (f *LexerFactory) rangeSet(a, b *ast.Node) (*atn.IntervalSet, bool) {
	from := ast.CharValueFromLiteral(a.Text)
	if from < 0 {
		f.report(ErrInvalidLiteralInSet, a, a.Text)
		return nil, false
	}
	to := ast.CharValueFromLiteral(b.Text)
	if to < 0 {
		f.report(ErrInvalidLiteralInSet, b, b.Text)
		return nil, false
	}
	if from > to {
		f.report(ErrEmptyRange, a, a.Text+".."+b.Text)
		return nil, false
	}
	return atn.NewIntervalSetRange(from, to), true
}

// CharSetLiteral
//
//	o-[a-z]->o
func (f *LexerFactory) CharSetLiteral(set *ast.Node) *atn.Handle {
	s, ok := f.charSet(set)
	if !ok {
		return nil
	}
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	left.AddTransition(f.charTransition(right, s))
	return atn.NewHandle(left, right)
}

func (f *LexerFactory) charSet(set *ast.Node) (*atn.IntervalSet, bool) {
	s, err := parseCharSet(set.Text)
	if err != nil {
		f.report(err, set, set.Text)
		return nil, false
	}
	if s.IsEmpty() {
		f.report(ErrEmptyCharSet, set, set.Text)
		return nil, false
	}
	return s, true
}

// Set merges the elements of a set into one transition.
//
//	o-{'a', 'x'..'z'}->o
//	o-~{'a', 'x'..'z'}->o
func (f *LexerFactory) Set(set *ast.Node, elems []*ast.Node, invert bool) *atn.Handle {
	s := atn.NewIntervalSet()
	for _, e := range elems {
		switch e.Kind {
		case ast.KindRange:
			r, ok := f.rangeSet(e.Child(0), e.Child(1))
			if !ok {
				return nil
			}
			s.AddSet(r)
		case ast.KindLexerCharSet:
			cs, ok := f.charSet(e)
			if !ok {
				return nil
			}
			s.AddSet(cs)
		case ast.KindStringLiteral:
			c := ast.CharValueFromLiteral(e.Text)
			if c < 0 {
				f.report(ErrInvalidLiteralInSet, e, e.Text)
				return nil
			}
			s.Add(c)
		case ast.KindTokenRef:
			f.report(ErrTokenRefInLexerSet, e, e.Text)
			return nil
		}
	}
	if f.caseInsensitive() {
		s = foldCase(s)
	}

	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	if invert {
		left.AddTransition(atn.NewNotSetTransition(right, s))
	} else {
		left.AddTransition(setTransition(right, s))
	}
	return atn.NewHandle(left, right)
}

// Action
//
//	o-{action}->o
//
// The transition refers to a custom lexer action.
func (f *LexerFactory) Action(action *ast.Node) *atn.Handle {
	i := f.atn.DefineLexerAction(atn.NewLexerCustomAction(f.ruleIndex(), f.syms.ActionIndex(action)))
	return f.lexerAction(i)
}

func (f *LexerFactory) lexerAction(actionIndex int) *atn.Handle {
	left := f.newState(atn.StateBasic)
	right := f.newState(atn.StateBasic)
	left.AddTransition(atn.NewActionTransition(right, f.ruleIndex(), actionIndex, false))
	return atn.NewHandle(left, right)
}

// LexerAltCommands
//
//	o-alt->o->o-commands->o
func (f *LexerFactory) LexerAltCommands(alt, cmds *atn.Handle) *atn.Handle {
	epsilon(alt.Right, cmds.Left)
	return atn.NewHandle(alt.Left, cmds.Right)
}

// LexerCallCommand builds a command taking an argument, such as `pushMode(M)`.
func (f *LexerFactory) LexerCallCommand(id, arg *ast.Node) *atn.Handle {
	t, ok := atn.LexerActionTypeByCommand(id.Text)
	if !ok || !t.TakesValue() {
		f.report(ErrInvalidLexerCommand, id, id.Text)
		return nil
	}
	v, err := f.syms.CommandArgValue(id.Text, arg)
	if err != nil {
		f.report(err, arg, arg.Text)
		return nil
	}
	return f.lexerAction(f.atn.DefineLexerAction(atn.NewLexerCommandAction(t, v)))
}

// LexerCommand builds a command taking no argument, such as `skip`.
func (f *LexerFactory) LexerCommand(id *ast.Node) *atn.Handle {
	t, ok := atn.LexerActionTypeByCommand(id.Text)
	if !ok || t.TakesValue() {
		f.report(ErrInvalidLexerCommand, id, id.Text)
		return nil
	}
	return f.lexerAction(f.atn.DefineLexerAction(atn.NewLexerCommandAction(t, 0)))
}
