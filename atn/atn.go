package atn

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"
)

// GrammarType is antlr.ATNTypeLexer or antlr.ATNTypeParser.
type GrammarType int

const (
	GrammarTypeLexer  = GrammarType(antlr.ATNTypeLexer)
	GrammarTypeParser = GrammarType(antlr.ATNTypeParser)
)

func (t GrammarType) String() string {
	switch t {
	case GrammarTypeLexer:
		return "lexer"
	case GrammarTypeParser:
		return "parser"
	}
	return fmt.Sprintf("<grammar type %d>", int(t))
}

// ATN is the augmented transition network of a grammar.
type ATN struct {
	GrammarType  GrammarType
	MaxTokenType int

	// States is indexed by state number. A removed state leaves a nil entry.
	States []*State

	// DecisionToState is indexed by decision number.
	DecisionToState []*State

	// RuleToStartState and RuleToStopState are indexed by rule index.
	RuleToStartState []*State
	RuleToStopState  []*State

	// RuleToTokenType maps each lexer rule to the token type it emits. Fragment rules map to
	// antlr.TokenInvalidType.
	RuleToTokenType []int

	// ModeToStartState holds the token start state of each lexer mode, indexed by mode.
	ModeToStartState []*State
	ModeNames        []string

	// LexerActions holds each distinct lexer action once. Lexer action transitions refer to it
	// by ActionIndex.
	LexerActions []LexerAction
}

func NewATN(t GrammarType, maxTokenType int) *ATN {
	return &ATN{
		GrammarType:  t,
		MaxTokenType: maxTokenType,
	}
}

// NewState creates a state and adds it to the ATN.
func (a *ATN) NewState(t StateType, ruleIndex int) *State {
	s := newState(t, ruleIndex)
	a.AddState(s)
	return s
}

func (a *ATN) AddState(s *State) {
	s.Number = len(a.States)
	a.States = append(a.States, s)
}

// RemoveState drops a state. Its number is not reused.
func (a *ATN) RemoveState(s *State) {
	if s.Number < 0 || s.Number >= len(a.States) || a.States[s.Number] != s {
		return
	}
	a.States[s.Number] = nil
}

// DefineDecisionState registers s as the next decision and returns its decision number.
func (a *ATN) DefineDecisionState(s *State) int {
	if s.IsDecision() {
		return s.Decision
	}
	a.DecisionToState = append(a.DecisionToState, s)
	s.Decision = len(a.DecisionToState) - 1
	return s.Decision
}

func (a *ATN) NumberOfDecisions() int {
	return len(a.DecisionToState)
}

// NumberOfStates returns the number of live states.
func (a *ATN) NumberOfStates() int {
	n := 0
	for _, s := range a.States {
		if s != nil {
			n++
		}
	}
	return n
}

// DefineLexerAction returns the index of act in LexerActions, adding it when the ATN does not
// hold it yet.
func (a *ATN) DefineLexerAction(act LexerAction) int {
	for i, b := range a.LexerActions {
		if b == act {
			return i
		}
	}
	a.LexerActions = append(a.LexerActions, act)
	return len(a.LexerActions) - 1
}

// MinVocab and MaxVocab bound the symbols a wildcard or a not-set transition matches.
func (a *ATN) MinVocab() int {
	if a.GrammarType == GrammarTypeLexer {
		return antlr.LexerMinCharValue
	}
	return antlr.TokenMinUserTokenType
}

func (a *ATN) MaxVocab() int {
	if a.GrammarType == GrammarTypeLexer {
		return antlr.LexerMaxCharValue
	}
	return a.MaxTokenType
}
