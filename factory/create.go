package factory

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"
	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
	"github.com/nihei9/atnc/builder"
	"github.com/nihei9/atnc/grammar"
	"github.com/nihei9/atnc/tree"
)

// CreateATN builds the ATN of a grammar whose symbols have been collected. A lexer grammar gets
// a lexer ATN and any other grammar a parser ATN. Recognition errors of the walk and semantic
// errors go to rep, and a rule containing an error is built without the offending construct.
// Only a fatal fault is returned.
func CreateATN(g *ast.Grammar, syms *grammar.Symbols, rep tree.ErrorReporter) (a *atn.ATN, retErr error) {
	defer tree.Recover(&retErr)

	if g.IsLexer() {
		f := NewLexerFactory(syms, rep)
		f.createRuleStartAndStopStates()
		f.createModeStartStates()
		f.atn.RuleToTokenType = make([]int, len(syms.Rules))
		for _, r := range syms.Rules {
			if r.IsFragment {
				f.atn.RuleToTokenType[r.Index] = antlr.TokenInvalidType
				continue
			}
			f.atn.RuleToTokenType[r.Index] = syms.TokenType(r.Name)
		}
		err := buildRules(f, f.ParserFactory, syms.Rules, true)
		if err != nil {
			return nil, err
		}
		f.linkModeStartStates()
		return f.atn, nil
	}

	f := NewParserFactory(syms, rep)
	f.createRuleStartAndStopStates()
	err := buildRules(f, f, syms.Rules, false)
	if err != nil {
		return nil, err
	}
	f.addRuleFollowLinks()
	f.addEOFTransitionToStartRules()
	return f.atn, nil
}

func buildRules(f builder.Factory, pf *ParserFactory, rules []*grammar.Rule, lexer bool) error {
	for _, r := range rules {
		if r.IsLexer != lexer || r.Block == nil {
			continue
		}
		b := builder.New(f)
		b.SetErrorReporter(pf.rep)
		f.SetCurrentRuleName(r.Name)
		h, err := b.RuleBlock(r.Block)
		if err != nil {
			return fmt.Errorf("failed to build rule %v: %w", r.Name, err)
		}
		if h == nil {
			continue
		}
		f.Rule(r.AST, r.Name, h)
	}
	f.SetCurrentRuleName("")
	return nil
}
