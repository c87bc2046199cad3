package grammar

import (
	"fmt"
	"sort"

	"github.com/antlr4-go/antlr/v4"
	"github.com/nihei9/atnc/ast"
)

func (c *collector) check() {
	syms := c.syms
	if len(syms.Rules) == 0 && (c.vocab == nil || len(c.vocab.Rules) == 0) {
		c.report(semErrNoRules, nil, syms.Grammar.AST, syms.Grammar.Name)
	}
	c.checkRuleRefs()
	c.checkTokenRefs()
	c.checkLiterals()
	c.checkCommands()
	c.checkLabels()
	c.checkAltLabels()
}

func (c *collector) checkRuleRefs() {
	for _, ref := range c.ruleRefs {
		if ref.rule != nil && ref.rule.IsLexer {
			c.report(semErrParserRuleRefInLexerRule, ref.rule, ref.node, ref.node.Text)
			continue
		}
		if _, ok := c.syms.Rule(ref.node.Text); !ok {
			c.report(semErrUndefinedRule, ref.rule, ref.node, ref.node.Text)
		}
	}
}

// checkTokenRefs checks the references in lexer rules. They refer to other lexer rules.
// References in parser rules are tokens, and the undefined ones are defined implicitly.
func (c *collector) checkTokenRefs() {
	for _, ref := range c.tokenRefs {
		if ref.rule == nil || !ref.rule.IsLexer || ref.node.Text == TokenNameEOF {
			continue
		}
		if r, ok := c.syms.Rule(ref.node.Text); !ok || !r.IsLexer {
			c.report(semErrUndefinedRule, ref.rule, ref.node, ref.node.Text)
		}
	}
}

func (c *collector) checkLiterals() {
	for _, ref := range c.literalRefs {
		lexer := ref.rule != nil && ref.rule.IsLexer
		if p := ref.node.Parent(); !lexer && p != nil && p.Kind == ast.KindRange {
			if ref.node.ChildIndex() == 0 {
				c.report(semErrRangeInParser, ref.rule, p, fmt.Sprintf("%v..%v", p.Child(0).Text, p.Child(1).Text))
			}
			continue
		}
		s, err := ast.StringFromLiteral(ref.node.Text)
		if err != nil {
			c.report(semErrInvalidStringLiteral, ref.rule, ref.node, err.Error())
			continue
		}
		switch {
		case lexer && s == "":
			c.report(semErrEmptyStringLiteral, ref.rule, ref.node, ref.node.Text)
		case !lexer && c.syms.Grammar.IsParser() && c.syms.LiteralType(ref.node.Text) == antlr.TokenInvalidType:
			c.report(semErrImplicitStringLiteral, ref.rule, ref.node, ref.node.Text)
		}
	}
}

func (c *collector) checkCommands() {
	for _, r := range c.syms.Rules {
		for _, cmd := range r.Commands {
			takesArg, ok := lexerCommands[cmd.Name]
			switch {
			case !ok:
				c.report(semErrUnknownLexerCommand, r, cmd.Node, cmd.Name)
			case takesArg && cmd.Arg == nil:
				c.report(semErrMissingCommandArg, r, cmd.Node, cmd.Name)
			case !takesArg && cmd.Arg != nil:
				c.report(semErrUnexpectedCommandArg, r, cmd.Arg, fmt.Sprintf("%v(%v)", cmd.Name, cmd.Arg.Text))
			case takesArg:
				if _, err := c.syms.CommandArgValue(cmd.Name, cmd.Arg); err != nil {
					c.report(err, r, cmd.Arg, cmd.Arg.Text)
				}
			}
		}
	}
}

func (c *collector) checkLabels() {
	for _, r := range c.syms.Rules {
		for _, name := range sortedKeys(r.Labels) {
			l := r.Labels[name]
			if _, ok := c.syms.Rule(name); ok {
				c.report(semErrLabelConflictsWithRule, r, l.Node, name)
				continue
			}
			if !r.IsLexer && c.syms.TokenType(name) != antlr.TokenInvalidType {
				c.report(semErrLabelConflictsWithToken, r, l.Node, name)
			}
		}
	}
}

func (c *collector) checkAltLabels() {
	owners := map[string]*Rule{}
	for _, r := range c.syms.Rules {
		if len(r.AltLabels) == 0 {
			continue
		}
		id := r.AST.Child(0)
		labeled := 0
		for _, name := range sortedKeys(r.AltLabels) {
			labeled += len(r.AltLabels[name])
			if _, ok := c.syms.Rule(name); ok {
				c.report(semErrAltLabelConflictsWithRule, r, id, name)
				continue
			}
			if owner, ok := owners[name]; ok {
				c.report(semErrAltLabelRedefined, r, id, fmt.Sprintf("%v is used in %v", name, owner.Name))
				continue
			}
			owners[name] = r
		}
		if labeled < r.NumberOfAlts {
			c.report(semErrTooFewAltLabels, r, id, fmt.Sprintf("%v of %v alternatives are labeled", labeled, r.NumberOfAlts))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
