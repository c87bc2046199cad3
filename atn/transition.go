package atn

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"
)

// TransitionType is one of the antlr.Transition* codes.
type TransitionType int

const (
	TransitionEpsilon    = TransitionType(antlr.TransitionEPSILON)
	TransitionRange      = TransitionType(antlr.TransitionRANGE)
	TransitionRule       = TransitionType(antlr.TransitionRULE)
	TransitionPredicate  = TransitionType(antlr.TransitionPREDICATE)
	TransitionAtom       = TransitionType(antlr.TransitionATOM)
	TransitionAction     = TransitionType(antlr.TransitionACTION)
	TransitionSet        = TransitionType(antlr.TransitionSET)
	TransitionNotSet     = TransitionType(antlr.TransitionNOTSET)
	TransitionWildcard   = TransitionType(antlr.TransitionWILDCARD)
	TransitionPrecedence = TransitionType(antlr.TransitionPRECEDENCE)
)

var transitionTypeNames = map[TransitionType]string{
	TransitionEpsilon:    "EPSILON",
	TransitionRange:      "RANGE",
	TransitionRule:       "RULE",
	TransitionPredicate:  "PREDICATE",
	TransitionAtom:       "ATOM",
	TransitionAction:     "ACTION",
	TransitionSet:        "SET",
	TransitionNotSet:     "NOT_SET",
	TransitionWildcard:   "WILDCARD",
	TransitionPrecedence: "PRECEDENCE",
}

func (t TransitionType) String() string {
	if name, ok := transitionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("<transition type %d>", int(t))
}

// Transition is an edge of the ATN. Which fields are meaningful depends on Type.
type Transition struct {
	Type   TransitionType
	Target *State

	// Label is the set of symbols an atom, range, set or not-set transition matches.
	Label *IntervalSet

	// RuleIndex is the rule a rule transition invokes or, for predicate and action transitions,
	// the rule holding the predicate or the action.
	RuleIndex int

	// FollowState is the state a rule transition returns to.
	FollowState *State

	// Precedence is the precedence of a rule transition or a precedence predicate.
	Precedence int

	PredIndex   int
	ActionIndex int

	// IsCtxDependent marks predicates and actions that refer to rule arguments or labels.
	IsCtxDependent bool

	// OutermostPrecedenceReturn is the rule index an epsilon transition returns to from the
	// outermost precedence context, or -1.
	OutermostPrecedenceReturn int
}

func newTransition(t TransitionType, target *State) *Transition {
	return &Transition{
		Type:                      t,
		Target:                    target,
		RuleIndex:                 -1,
		PredIndex:                 -1,
		ActionIndex:               -1,
		OutermostPrecedenceReturn: -1,
	}
}

func NewEpsilonTransition(target *State) *Transition {
	return newTransition(TransitionEpsilon, target)
}

func NewAtomTransition(target *State, symbol int) *Transition {
	tr := newTransition(TransitionAtom, target)
	tr.Label = NewIntervalSetOf(symbol)
	return tr
}

func NewRangeTransition(target *State, from, to int) *Transition {
	tr := newTransition(TransitionRange, target)
	tr.Label = NewIntervalSetRange(from, to)
	return tr
}

func NewSetTransition(target *State, set *IntervalSet) *Transition {
	tr := newTransition(TransitionSet, target)
	tr.Label = set
	return tr
}

func NewNotSetTransition(target *State, set *IntervalSet) *Transition {
	tr := newTransition(TransitionNotSet, target)
	tr.Label = set
	return tr
}

func NewWildcardTransition(target *State) *Transition {
	return newTransition(TransitionWildcard, target)
}

// NewRuleTransition returns a transition invoking the rule starting at ruleStart. The ATN
// returns to follow when the rule is done.
func NewRuleTransition(ruleStart *State, ruleIndex, precedence int, follow *State) *Transition {
	tr := newTransition(TransitionRule, ruleStart)
	tr.RuleIndex = ruleIndex
	tr.Precedence = precedence
	tr.FollowState = follow
	return tr
}

func NewPredicateTransition(target *State, ruleIndex, predIndex int, isCtxDependent bool) *Transition {
	tr := newTransition(TransitionPredicate, target)
	tr.RuleIndex = ruleIndex
	tr.PredIndex = predIndex
	tr.IsCtxDependent = isCtxDependent
	return tr
}

func NewPrecedencePredicateTransition(target *State, precedence int) *Transition {
	tr := newTransition(TransitionPrecedence, target)
	tr.Precedence = precedence
	return tr
}

func NewActionTransition(target *State, ruleIndex, actionIndex int, isCtxDependent bool) *Transition {
	tr := newTransition(TransitionAction, target)
	tr.RuleIndex = ruleIndex
	tr.ActionIndex = actionIndex
	tr.IsCtxDependent = isCtxDependent
	return tr
}

// IsEpsilon reports whether the transition consumes no symbol.
func (t *Transition) IsEpsilon() bool {
	switch t.Type {
	case TransitionEpsilon, TransitionRule, TransitionPredicate, TransitionAction, TransitionPrecedence:
		return true
	}
	return false
}

// Matches reports whether the transition consumes symbol. minVocab and maxVocab bound the
// symbols wildcard and not-set transitions match.
func (t *Transition) Matches(symbol, minVocab, maxVocab int) bool {
	switch t.Type {
	case TransitionAtom, TransitionRange, TransitionSet:
		return t.Label.Contains(symbol)
	case TransitionNotSet:
		return symbol >= minVocab && symbol <= maxVocab && !t.Label.Contains(symbol)
	case TransitionWildcard:
		return symbol >= minVocab && symbol <= maxVocab
	}
	return false
}

func (t *Transition) String() string {
	switch t.Type {
	case TransitionAtom, TransitionRange, TransitionSet:
		return fmt.Sprintf("%v %v -> %v", t.Type, t.Label, t.Target)
	case TransitionNotSet:
		return fmt.Sprintf("%v ~%v -> %v", t.Type, t.Label, t.Target)
	case TransitionRule:
		return fmt.Sprintf("%v %v -> %v follow %v", t.Type, t.RuleIndex, t.Target, t.FollowState)
	case TransitionPredicate:
		return fmt.Sprintf("%v %v:%v -> %v", t.Type, t.RuleIndex, t.PredIndex, t.Target)
	case TransitionAction:
		return fmt.Sprintf("%v %v:%v -> %v", t.Type, t.RuleIndex, t.ActionIndex, t.Target)
	case TransitionPrecedence:
		return fmt.Sprintf("%v %v -> %v", t.Type, t.Precedence, t.Target)
	}
	return fmt.Sprintf("%v -> %v", t.Type, t.Target)
}
