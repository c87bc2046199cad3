package ast

import "fmt"

// Kind is the token type of a grammar AST node.
type Kind int

const (
	KindEOF     = Kind(-1)
	KindInvalid = Kind(0)

	// KindDown and KindUp are the navigation markers a tree node stream inserts around
	// the children of a node.
	KindDown = Kind(2)
	KindUp   = Kind(3)
)

const (
	KindAction Kind = iota + 4
	KindAlt
	KindArgAction
	KindAssign
	KindAt
	KindBlock
	KindCatch
	KindChannels
	KindClosure
	KindElementOptions
	KindEpsilon
	KindFinally
	KindFragment
	KindGrammar
	KindID
	KindImport
	KindInt
	KindLexerActionCall
	KindLexerAltAction
	KindLexerCharSet
	KindLocals
	KindMode
	KindNot
	KindOptional
	KindOptions
	KindPlusAssign
	KindPositiveClosure
	KindPrivate
	KindProtected
	KindPublic
	KindRange
	KindReturns
	KindRule
	KindRuleModifiers
	KindRuleRef
	KindRules
	KindSempred
	KindSet
	KindStringLiteral
	KindThrows
	KindTokenRef
	KindTokensSpec
	KindWildcard
)

var kindNames = map[Kind]string{
	KindEOF:             "EOF",
	KindInvalid:         "<invalid>",
	KindDown:            "DOWN",
	KindUp:              "UP",
	KindAction:          "ACTION",
	KindAlt:             "ALT",
	KindArgAction:       "ARG_ACTION",
	KindAssign:          "ASSIGN",
	KindAt:              "AT",
	KindBlock:           "BLOCK",
	KindCatch:           "CATCH",
	KindChannels:        "CHANNELS",
	KindClosure:         "CLOSURE",
	KindElementOptions:  "ELEMENT_OPTIONS",
	KindEpsilon:         "EPSILON",
	KindFinally:         "FINALLY",
	KindFragment:        "FRAGMENT",
	KindGrammar:         "GRAMMAR",
	KindID:              "ID",
	KindImport:          "IMPORT",
	KindInt:             "INT",
	KindLexerActionCall: "LEXER_ACTION_CALL",
	KindLexerAltAction:  "LEXER_ALT_ACTION",
	KindLexerCharSet:    "LEXER_CHAR_SET",
	KindLocals:          "LOCALS",
	KindMode:            "MODE",
	KindNot:             "NOT",
	KindOptional:        "OPTIONAL",
	KindOptions:         "OPTIONS",
	KindPlusAssign:      "PLUS_ASSIGN",
	KindPositiveClosure: "POSITIVE_CLOSURE",
	KindPrivate:         "PRIVATE",
	KindProtected:       "PROTECTED",
	KindPublic:          "PUBLIC",
	KindRange:           "RANGE",
	KindReturns:         "RETURNS",
	KindRule:            "RULE",
	KindRuleModifiers:   "RULEMODIFIERS",
	KindRuleRef:         "RULE_REF",
	KindRules:           "RULES",
	KindSempred:         "SEMPRED",
	KindSet:             "SET",
	KindStringLiteral:   "STRING_LITERAL",
	KindThrows:          "THROWS",
	KindTokenRef:        "TOKEN_REF",
	KindTokensSpec:      "TOKENS_SPEC",
	KindWildcard:        "WILDCARD",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("<kind %d>", int(k))
}

// KindByName returns the kind named name, such as "BLOCK" or "TOKEN_REF".
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsEBNF reports whether k is one of the subrule quantifiers ?, * and +.
func (k Kind) IsEBNF() bool {
	switch k {
	case KindOptional, KindClosure, KindPositiveClosure:
		return true
	}
	return false
}
