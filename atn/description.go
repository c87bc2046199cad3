package atn

import (
	"strconv"

	"github.com/antlr4-go/antlr/v4"
)

type RuleDescription struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	StartState int    `json:"start_state"`
	StopState  int    `json:"stop_state"`
	TokenType  *int   `json:"token_type,omitempty"`
}

type ModeDescription struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	StartState int    `json:"start_state"`
}

type TransitionDescription struct {
	Type        string `json:"type"`
	Target      int    `json:"target"`
	Label       string `json:"label,omitempty"`
	Rule        *int   `json:"rule,omitempty"`
	FollowState *int   `json:"follow_state,omitempty"`
	Predicate   *int   `json:"predicate,omitempty"`
	Action      *int   `json:"action,omitempty"`
	Precedence  *int   `json:"precedence,omitempty"`
}

type StateDescription struct {
	Number        int                      `json:"number"`
	Type          string                   `json:"type"`
	Rule          int                      `json:"rule"`
	Decision      int                      `json:"decision"`
	NonGreedy     bool                     `json:"non_greedy,omitempty"`
	EndState      *int                     `json:"end_state,omitempty"`
	LoopBackState *int                     `json:"loop_back_state,omitempty"`
	Transitions   []*TransitionDescription `json:"transitions"`
}

type DecisionDescription struct {
	Number int    `json:"number"`
	State  int    `json:"state"`
	Rule   string `json:"rule"`
	LL1    bool   `json:"ll1"`

	// Lookahead holds the LL(1) lookahead of each alternative. An alternative whose lookahead
	// is unknown, because of a predicate, has an empty string.
	Lookahead []string `json:"lookahead"`
}

// Description is a JSON-friendly report of an ATN.
type Description struct {
	GrammarType  string                 `json:"grammar_type"`
	MaxTokenType int                    `json:"max_token_type"`
	Rules        []*RuleDescription     `json:"rules"`
	Modes        []*ModeDescription     `json:"modes,omitempty"`
	States       []*StateDescription    `json:"states"`
	Decisions    []*DecisionDescription `json:"decisions"`
	LexerActions []string               `json:"lexer_actions,omitempty"`
}

// Vocabulary names the rules and the symbols of an ATN in a description.
type Vocabulary interface {
	RuleName(index int) string
	SymbolName(symbol int) string
}

type numericVocabulary struct{}

func (numericVocabulary) RuleName(index int) string {
	return strconv.Itoa(index)
}

func (numericVocabulary) SymbolName(symbol int) string {
	return strconv.Itoa(symbol)
}

// Describe reports a. A nil vocab prints rules and symbols as numbers.
func Describe(a *ATN, vocab Vocabulary) *Description {
	if vocab == nil {
		vocab = numericVocabulary{}
	}
	desc := &Description{
		GrammarType:  a.GrammarType.String(),
		MaxTokenType: a.MaxTokenType,
		Rules:        []*RuleDescription{},
		States:       []*StateDescription{},
		Decisions:    []*DecisionDescription{},
	}

	for i, start := range a.RuleToStartState {
		rd := &RuleDescription{
			Index:      i,
			Name:       vocab.RuleName(i),
			StartState: start.Number,
			StopState:  a.RuleToStopState[i].Number,
		}
		if a.GrammarType == GrammarTypeLexer && i < len(a.RuleToTokenType) && a.RuleToTokenType[i] != antlr.TokenInvalidType {
			ttype := a.RuleToTokenType[i]
			rd.TokenType = &ttype
		}
		desc.Rules = append(desc.Rules, rd)
	}

	for i, start := range a.ModeToStartState {
		name := strconv.Itoa(i)
		if i < len(a.ModeNames) {
			name = a.ModeNames[i]
		}
		desc.Modes = append(desc.Modes, &ModeDescription{
			Index:      i,
			Name:       name,
			StartState: start.Number,
		})
	}

	for _, s := range a.States {
		if s == nil {
			continue
		}
		desc.States = append(desc.States, describeState(s, vocab))
	}

	for i, s := range a.DecisionToState {
		look := a.DecisionLookahead(s)
		dd := &DecisionDescription{
			Number: i,
			State:  s.Number,
			LL1:    IsLL1(look),
		}
		if s.RuleIndex >= 0 {
			dd.Rule = vocab.RuleName(s.RuleIndex)
		}
		for _, set := range look {
			if set == nil {
				dd.Lookahead = append(dd.Lookahead, "")
				continue
			}
			dd.Lookahead = append(dd.Lookahead, set.StringWith(vocab.SymbolName))
		}
		desc.Decisions = append(desc.Decisions, dd)
	}

	for _, act := range a.LexerActions {
		desc.LexerActions = append(desc.LexerActions, act.String())
	}

	return desc
}

func describeState(s *State, vocab Vocabulary) *StateDescription {
	sd := &StateDescription{
		Number:      s.Number,
		Type:        s.Type.String(),
		Rule:        s.RuleIndex,
		Decision:    s.Decision,
		NonGreedy:   s.NonGreedy,
		Transitions: []*TransitionDescription{},
	}
	if s.EndState != nil {
		n := s.EndState.Number
		sd.EndState = &n
	}
	if s.LoopBackState != nil {
		n := s.LoopBackState.Number
		sd.LoopBackState = &n
	}
	for _, t := range s.Transitions {
		td := &TransitionDescription{
			Type:   t.Type.String(),
			Target: t.Target.Number,
		}
		switch t.Type {
		case TransitionAtom, TransitionRange, TransitionSet, TransitionNotSet:
			td.Label = t.Label.StringWith(vocab.SymbolName)
		case TransitionRule:
			rule := t.RuleIndex
			td.Rule = &rule
			follow := t.FollowState.Number
			td.FollowState = &follow
			prec := t.Precedence
			td.Precedence = &prec
		case TransitionPredicate:
			pred := t.PredIndex
			td.Predicate = &pred
		case TransitionAction:
			act := t.ActionIndex
			td.Action = &act
		case TransitionPrecedence:
			prec := t.Precedence
			td.Precedence = &prec
		}
		sd.Transitions = append(sd.Transitions, td)
	}
	return sd
}
