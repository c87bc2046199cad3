package atn

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"
)

// LexerActionType is one of the antlr.LexerActionType* codes.
type LexerActionType int

const (
	LexerActionChannel  = LexerActionType(antlr.LexerActionTypeChannel)
	LexerActionCustom   = LexerActionType(antlr.LexerActionTypeCustom)
	LexerActionMode     = LexerActionType(antlr.LexerActionTypeMode)
	LexerActionMore     = LexerActionType(antlr.LexerActionTypeMore)
	LexerActionPopMode  = LexerActionType(antlr.LexerActionTypePopMode)
	LexerActionPushMode = LexerActionType(antlr.LexerActionTypePushMode)
	LexerActionSkip     = LexerActionType(antlr.LexerActionTypeSkip)
	LexerActionTypeType = LexerActionType(antlr.LexerActionTypeType)
)

var lexerActionTypeNames = map[LexerActionType]string{
	LexerActionChannel:  "channel",
	LexerActionCustom:   "custom",
	LexerActionMode:     "mode",
	LexerActionMore:     "more",
	LexerActionPopMode:  "popMode",
	LexerActionPushMode: "pushMode",
	LexerActionSkip:     "skip",
	LexerActionTypeType: "type",
}

func (t LexerActionType) String() string {
	if name, ok := lexerActionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("<lexer action type %d>", int(t))
}

// LexerActionTypeByCommand returns the action type of a lexer command name such as `pushMode`.
func LexerActionTypeByCommand(cmd string) (LexerActionType, bool) {
	for t, name := range lexerActionTypeNames {
		if t != LexerActionCustom && name == cmd {
			return t, true
		}
	}
	return 0, false
}

// LexerAction is an action a lexer runs when it emits a token. Two actions are the same action
// when they are equal as values, so the ATN keeps one copy of each.
type LexerAction struct {
	Type LexerActionType

	// Value is the channel, the mode or the token type the action sets.
	Value int

	// RuleIndex and ActionIndex locate a custom action.
	RuleIndex   int
	ActionIndex int
}

func NewLexerCommandAction(t LexerActionType, value int) LexerAction {
	return LexerAction{
		Type:        t,
		Value:       value,
		RuleIndex:   -1,
		ActionIndex: -1,
	}
}

func NewLexerCustomAction(ruleIndex, actionIndex int) LexerAction {
	return LexerAction{
		Type:        LexerActionCustom,
		RuleIndex:   ruleIndex,
		ActionIndex: actionIndex,
	}
}

// TakesValue reports whether the action type carries a value.
func (t LexerActionType) TakesValue() bool {
	switch t {
	case LexerActionChannel, LexerActionMode, LexerActionPushMode, LexerActionTypeType:
		return true
	}
	return false
}

func (a LexerAction) String() string {
	switch {
	case a.Type == LexerActionCustom:
		return fmt.Sprintf("custom(%v, %v)", a.RuleIndex, a.ActionIndex)
	case a.Type.TakesValue():
		return fmt.Sprintf("%v(%v)", a.Type, a.Value)
	}
	return a.Type.String()
}
