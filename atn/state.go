package atn

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"
)

// StateType is one of the antlr.ATNState* codes.
type StateType int

const (
	StateBasic          = StateType(antlr.ATNStateBasic)
	StateRuleStart      = StateType(antlr.ATNStateRuleStart)
	StateBlockStart     = StateType(antlr.ATNStateBlockStart)
	StatePlusBlockStart = StateType(antlr.ATNStatePlusBlockStart)
	StateStarBlockStart = StateType(antlr.ATNStateStarBlockStart)
	StateTokenStart     = StateType(antlr.ATNStateTokenStart)
	StateRuleStop       = StateType(antlr.ATNStateRuleStop)
	StateBlockEnd       = StateType(antlr.ATNStateBlockEnd)
	StateStarLoopBack   = StateType(antlr.ATNStateStarLoopBack)
	StateStarLoopEntry  = StateType(antlr.ATNStateStarLoopEntry)
	StatePlusLoopBack   = StateType(antlr.ATNStatePlusLoopBack)
	StateLoopEnd        = StateType(antlr.ATNStateLoopEnd)
)

var stateTypeNames = map[StateType]string{
	StateBasic:          "BASIC",
	StateRuleStart:      "RULE_START",
	StateBlockStart:     "BLOCK_START",
	StatePlusBlockStart: "PLUS_BLOCK_START",
	StateStarBlockStart: "STAR_BLOCK_START",
	StateTokenStart:     "TOKEN_START",
	StateRuleStop:       "RULE_STOP",
	StateBlockEnd:       "BLOCK_END",
	StateStarLoopBack:   "STAR_LOOP_BACK",
	StateStarLoopEntry:  "STAR_LOOP_ENTRY",
	StatePlusLoopBack:   "PLUS_LOOP_BACK",
	StateLoopEnd:        "LOOP_END",
}

func (t StateType) String() string {
	if name, ok := stateTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("<state type %d>", int(t))
}

// IsBlockStart reports whether a state of type t opens a block and is paired with a block end.
func (t StateType) IsBlockStart() bool {
	switch t {
	case StateBlockStart, StatePlusBlockStart, StateStarBlockStart:
		return true
	}
	return false
}

// IsDecisionType reports whether a state of type t can be a decision state.
func (t StateType) IsDecisionType() bool {
	switch t {
	case StateBlockStart, StatePlusBlockStart, StateStarBlockStart, StateTokenStart,
		StateStarLoopEntry, StatePlusLoopBack:
		return true
	}
	return false
}

type State struct {
	// Number is the index of the state in ATN.States. It is -1 until the state is added.
	Number    int
	Type      StateType
	RuleIndex int

	Transitions []*Transition

	// Decision is the decision number of a decision state, or -1.
	Decision  int
	NonGreedy bool

	// EndState is the block end of a block start state.
	EndState *State

	// StartState is the block start of a block end state.
	StartState *State

	// LoopBackState is the loop back state of a plus block start or a loop end.
	LoopBackState *State

	// StopState is the rule stop state of a rule start state.
	StopState *State

	// IsPrecedenceRule marks the start state of a left-recursive rule.
	IsPrecedenceRule bool
}

func newState(t StateType, ruleIndex int) *State {
	return &State{
		Number:    -1,
		Type:      t,
		RuleIndex: ruleIndex,
		Decision:  -1,
	}
}

func (s *State) AddTransition(t *Transition) {
	s.Transitions = append(s.Transitions, t)
}

// InsertTransition puts t at index i of the transitions.
func (s *State) InsertTransition(i int, t *Transition) {
	s.Transitions = append(s.Transitions, nil)
	copy(s.Transitions[i+1:], s.Transitions[i:])
	s.Transitions[i] = t
}

func (s *State) RemoveTransition(i int) *Transition {
	t := s.Transitions[i]
	s.Transitions = append(s.Transitions[:i], s.Transitions[i+1:]...)
	return t
}

// SetTransition replaces the transition at index i.
func (s *State) SetTransition(i int, t *Transition) {
	s.Transitions[i] = t
}

func (s *State) Transition(i int) *Transition {
	return s.Transitions[i]
}

func (s *State) NumberOfTransitions() int {
	return len(s.Transitions)
}

// OnlyHasEpsilonTransitions reports whether every outgoing transition is an epsilon one. A state
// without transitions does not.
func (s *State) OnlyHasEpsilonTransitions() bool {
	if len(s.Transitions) == 0 {
		return false
	}
	for _, t := range s.Transitions {
		if !t.IsEpsilon() {
			return false
		}
	}
	return true
}

func (s *State) IsDecision() bool {
	return s.Decision >= 0
}

func (s *State) String() string {
	return fmt.Sprintf("%v/%v", s.Number, s.Type)
}

// Handle is the pair of states a construct of the grammar compiles into. Left is the entry and
// Right is the exit; they are the same state for a single-state fragment.
type Handle struct {
	Left  *State
	Right *State
}

func NewHandle(left, right *State) *Handle {
	return &Handle{
		Left:  left,
		Right: right,
	}
}

func (h *Handle) String() string {
	return fmt.Sprintf("(%v,%v)", h.Left, h.Right)
}
