package compiler

import (
	"strconv"

	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
	"github.com/nihei9/atnc/grammar"
)

// Description is the JSON report `atnc compile` writes.
type Description struct {
	Name  string           `json:"name"`
	Type  string           `json:"type"`
	ATN   *atn.Description `json:"atn"`
	Lexer *atn.Description `json:"lexer,omitempty"`
}

// Describe reports the ATNs of r with rule and token names. It returns nil when no ATN was built.
func (r *Result) Describe() *Description {
	if r.ATN == nil {
		return nil
	}
	desc := &Description{
		Name: r.Grammar.Name,
		Type: string(r.Grammar.Type),
		ATN:  atn.Describe(r.ATN, newVocabulary(r.Symbols, r.ATN.GrammarType)),
	}
	if r.LexerATN != nil {
		desc.Lexer = atn.Describe(r.LexerATN, newVocabulary(r.LexerSymbols, r.LexerATN.GrammarType))
	}
	return desc
}

// vocabulary names the symbols of a lexer ATN as characters and those of a parser ATN as tokens.
type vocabulary struct {
	syms  *grammar.Symbols
	lexer bool
}

func newVocabulary(syms *grammar.Symbols, t atn.GrammarType) *vocabulary {
	return &vocabulary{
		syms:  syms,
		lexer: t == atn.GrammarTypeLexer,
	}
}

func (v *vocabulary) RuleName(index int) string {
	if index < 0 || index >= len(v.syms.Rules) {
		return strconv.Itoa(index)
	}
	return v.syms.Rules[index].Name
}

func (v *vocabulary) SymbolName(symbol int) string {
	if v.lexer {
		return ast.CharString(symbol)
	}
	return v.syms.TokenDisplayName(symbol)
}
