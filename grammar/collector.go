package grammar

import (
	"fmt"

	"github.com/nihei9/atnc/ast"
	verr "github.com/nihei9/atnc/error"
	"github.com/nihei9/atnc/tree"
	"github.com/nihei9/atnc/visitor"
)

type collectConfig struct {
	vocab *Symbols
}

type CollectOption func(config *collectConfig)

// ImportVocabulary makes the token types of vocab the first token types of the grammar. The
// parser part of a combined grammar imports the vocabulary of its implicit lexer.
func ImportVocabulary(vocab *Symbols) CollectOption {
	return func(config *collectConfig) {
		config.vocab = vocab
	}
}

// Collect walks a grammar, builds its symbol table, and checks it. Recognition errors of the walk
// and semantic errors go to rep; the walk goes on after an error. Only a fatal fault is returned.
func Collect(g *ast.Grammar, rep tree.ErrorReporter, opts ...CollectOption) (*Symbols, error) {
	config := &collectConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if rep == nil {
		rep = tree.ErrorReporterFunc(func(err error) {})
	}

	c := &collector{
		syms:  newSymbols(g),
		rep:   rep,
		vocab: config.vocab,
	}
	c.v = visitor.New(c)
	c.v.SetErrorReporter(rep)
	err := c.v.Visit(g.AST)
	if err != nil {
		return nil, fmt.Errorf("failed to collect symbols of %v: %w", g.Name, err)
	}

	c.assignTokenTypes()
	c.check()

	return c.syms, nil
}

type ref struct {
	rule *Rule
	node *ast.Node
}

type collector struct {
	visitor.BaseHooks
	v     *visitor.Visitor
	syms  *Symbols
	rep   tree.ErrorReporter
	vocab *Symbols

	// rule is the rule being visited. A rule that is not registered, such as a duplicate, is
	// still visited with its own Rule so that nothing leaks into the registered ones.
	rule *Rule

	tokenDefs   []*ast.Node
	channelDefs []*ast.Node

	ruleRefs    []ref
	tokenRefs   []ref
	literalRefs []ref
}

func (c *collector) report(cause error, rule *Rule, n *ast.Node, detail string) {
	e := &verr.SpecError{
		Cause:  cause,
		Detail: detail,
	}
	if n != nil {
		e.Row = n.Pos.Row
		e.Col = n.Pos.Col
	}
	if rule != nil {
		e.Rule = rule.Name
	}
	if c.syms.Grammar != nil {
		e.FilePath = c.syms.Grammar.FileName
	}
	c.rep.ReportError(e)
}

func (c *collector) GrammarOption(id, value *ast.Node) {
	c.syms.Options[id.Text] = value.Text
}

func (c *collector) ElementOption(t, id, value *ast.Node) {
	opts, ok := c.syms.elementOptions[t]
	if !ok {
		opts = map[string]string{}
		c.syms.elementOptions[t] = opts
	}
	if value == nil {
		opts[id.Text] = ""
		return
	}
	opts[id.Text] = value.Text
}

func (c *collector) DefineToken(id *ast.Node) {
	c.tokenDefs = append(c.tokenDefs, id)
}

func (c *collector) DefineChannel(id *ast.Node) {
	if !c.syms.Grammar.IsLexer() {
		c.report(semErrChannelsOutsideLexer, nil, id, id.Text)
		return
	}
	c.channelDefs = append(c.channelDefs, id)
}

func (c *collector) GlobalNamedAction(scope, id, action *ast.Node) {
	s := "parser"
	switch {
	case scope != nil:
		s = scope.Text
	case c.syms.Grammar.IsLexer():
		s = "lexer"
	}
	c.syms.NamedActions[s+"::"+id.Text] = action
}

func (c *collector) ImportGrammar(label, id *ast.Node) {
	c.syms.Imports = append(c.syms.Imports, id.Text)
}

func (c *collector) ModeDef(m, id *ast.Node) {
	if !c.syms.Grammar.IsLexer() {
		c.report(semErrModeOutsideLexer, nil, id, id.Text)
	}
	if _, ok := c.syms.ModeIndex(id.Text); ok {
		c.report(semErrDuplicateMode, nil, id, id.Text)
		return
	}
	c.syms.Modes = append(c.syms.Modes, id.Text)
}

func (c *collector) DiscoverRule(decl *visitor.RuleDecl) {
	r := newRule(decl.ID.Text, decl.Rule, decl.Block)
	for _, m := range decl.Modifiers {
		r.Modifiers = append(r.Modifiers, m.Text)
	}
	if decl.Arg != nil {
		r.Arg = decl.Arg.Text
	}
	if decl.Returns != nil {
		r.Returns = decl.Returns.Text
	}
	if decl.Locals != nil {
		r.Locals = decl.Locals.Text
	}
	if decl.Options != nil {
		for _, opt := range decl.Options.ChildrenWithKind(ast.KindAssign) {
			r.Options[opt.Child(0).Text] = opt.Child(1).Text
		}
	}
	for _, at := range decl.Actions {
		// ^(AT ID ACTION)
		r.NamedActions[at.Child(0).Text] = at.Child(1)
	}
	c.rule = r

	if c.syms.Grammar.IsLexer() {
		c.report(semErrParserRuleInLexer, r, decl.ID, r.Name)
		return
	}
	c.define(r, decl.ID)
}

func (c *collector) FinishRule(rule, id, block *ast.Node) {
	c.rule = nil
}

func (c *collector) DiscoverLexerRule(rule, id *ast.Node, modifiers []*ast.Node, block *ast.Node) {
	r := newRule(id.Text, rule, block)
	r.IsLexer = true
	r.Mode = c.v.CurrentModeName()
	for _, m := range modifiers {
		r.Modifiers = append(r.Modifiers, m.Text)
		if m.Kind == ast.KindFragment {
			r.IsFragment = true
		}
	}
	c.rule = r

	if c.syms.Grammar.IsParser() {
		c.report(semErrLexerRuleInParser, r, id, r.Name)
		return
	}
	c.define(r, id)
}

func (c *collector) FinishLexerRule(rule, id, block *ast.Node) {
	c.rule = nil
}

func (c *collector) define(r *Rule, id *ast.Node) {
	if _, ok := c.syms.rules[r.Name]; ok {
		c.report(semErrDuplicateRule, r, id, r.Name)
		return
	}
	c.syms.addRule(r)
}

func (c *collector) RuleCatch(arg, action *ast.Node) {
	if c.rule == nil {
		return
	}
	c.rule.Catches = append(c.rule.Catches, action)
}

func (c *collector) FinallyAction(action *ast.Node) {
	if c.rule == nil {
		return
	}
	c.rule.Finally = action
}

func (c *collector) DiscoverOuterAlt(alt *ast.Node) {
	if c.rule == nil {
		return
	}
	c.rule.NumberOfAlts++
	if alt.AltLabel != "" {
		c.rule.AltLabels[alt.AltLabel] = append(c.rule.AltLabels[alt.AltLabel], c.v.CurrentOuterAltNumber())
	}
}

func (c *collector) RuleRef(ref, arg *ast.Node) {
	c.ruleRefs = append(c.ruleRefs, c.newRef(ref))
}

func (c *collector) TokenRef(ref *ast.Node) {
	c.tokenRefs = append(c.tokenRefs, c.newRef(ref))
}

func (c *collector) StringRef(ref *ast.Node) {
	c.literalRefs = append(c.literalRefs, c.newRef(ref))
}

func (c *collector) newRef(n *ast.Node) ref {
	return ref{
		rule: c.rule,
		node: n,
	}
}

func (c *collector) ActionInAlt(action *ast.Node) {
	c.syms.Actions = append(c.syms.Actions, action)
	if c.rule != nil {
		c.rule.Actions = append(c.rule.Actions, action)
	}
}

func (c *collector) SempredInAlt(pred *ast.Node) {
	c.syms.Predicates = append(c.syms.Predicates, pred)
}

func (c *collector) Label(op, id, element *ast.Node) {
	if c.rule == nil {
		return
	}
	l := &Label{
		Name:    id.Text,
		Node:    id,
		Element: element,
	}
	switch {
	case c.rule.IsLexer:
		l.Type = LabelTypeLexerString
	case element.Kind == ast.KindRuleRef:
		l.Type = LabelTypeRule
		if op.Kind == ast.KindPlusAssign {
			l.Type = LabelTypeRuleList
		}
	case element.Kind == ast.KindBlock:
		c.report(semErrLabelBlockNotASet, c.rule, id, id.Text)
		return
	default:
		l.Type = LabelTypeToken
		if op.Kind == ast.KindPlusAssign {
			l.Type = LabelTypeTokenList
		}
	}
	if prev, ok := c.rule.Labels[l.Name]; ok {
		if prev.Type != l.Type {
			c.report(semErrLabelTypeConflict, c.rule, id, fmt.Sprintf("%v is a %v label and a %v label", l.Name, prev.Type, l.Type))
		}
		return
	}
	c.rule.Labels[l.Name] = l
}

func (c *collector) LexerCallCommand(outerAltNumber int, id, arg *ast.Node) {
	c.addCommand(outerAltNumber, id, arg)
}

func (c *collector) LexerCommand(outerAltNumber int, id *ast.Node) {
	c.addCommand(outerAltNumber, id, nil)
}

func (c *collector) addCommand(alt int, id, arg *ast.Node) {
	if c.rule == nil {
		return
	}
	c.rule.Commands = append(c.rule.Commands, &LexerCommand{
		Alt:  alt,
		Name: id.Text,
		Node: id,
		Arg:  arg,
	})
}

// assignTokenTypes numbers the tokens: the imported vocabulary first, then `tokens {...}`, then
// the non-fragment lexer rules, and at last the token references in parser rules nothing defines.
func (c *collector) assignTokenTypes() {
	syms := c.syms
	if c.vocab != nil {
		syms.importVocabulary(c.vocab)
	}
	for _, id := range c.tokenDefs {
		syms.defineTokenName(id.Text)
	}
	for _, r := range syms.Rules {
		if r.IsTokenRule() {
			syms.defineTokenName(r.Name)
		}
	}
	for lit, name := range literalAliases(syms.Grammar.AST) {
		syms.defineStringLiteral(lit, syms.TokenType(name))
	}
	next := minUserChannelValue
	for _, id := range c.channelDefs {
		if _, ok := syms.Channels[id.Text]; ok {
			continue
		}
		syms.Channels[id.Text] = next
		next++
	}
	for _, ref := range c.tokenRefs {
		if ref.rule == nil || ref.rule.IsLexer {
			continue
		}
		if _, ok := syms.TokenTypes[ref.node.Text]; ok {
			continue
		}
		syms.defineTokenName(ref.node.Text)
		syms.ImplicitTokens = append(syms.ImplicitTokens, ref.node.Text)
	}
}
