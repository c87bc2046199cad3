package grammar

import (
	"fmt"

	"github.com/nihei9/atnc/ast"
)

// Options of a combined grammar that its implicit lexer inherits.
var lexerOptions = map[string]struct{}{
	"language":        {},
	"accessLevel":     {},
	"exportMacro":     {},
	"caseInsensitive": {},
}

// ExtractImplicitLexer moves the lexer rules of a combined grammar into a new lexer grammar named
// `<name>Lexer`. The lexer also gets a `T__n` rule for each string literal in the parser rules
// that no lexer rule of the form `A : 'x' ;` stands for, the `tokens {...}`, the `@lexer::`
// actions, and the options a lexer understands. It returns nil when the grammar is not combined
// or there is nothing to extract.
func ExtractImplicitLexer(combined *ast.Grammar) (*ast.Grammar, error) {
	if !combined.IsCombined() {
		return nil, nil
	}
	root := combined.AST
	rules := root.FirstChildWithKind(ast.KindRules)
	if rules == nil {
		return nil, nil
	}

	var lexerRules []*ast.Node
	var parserRules []*ast.Node
	for _, r := range rules.Children() {
		if isLexerRule(r) {
			lexerRules = append(lexerRules, r)
		} else {
			parserRules = append(parserRules, r)
		}
	}

	aliases := literalAliases(root)
	var literals []*ast.Node
	seen := map[string]struct{}{}
	for _, r := range parserRules {
		walkLiterals(r, func(lit *ast.Node) {
			if _, ok := aliases[lit.Text]; ok {
				return
			}
			if _, ok := seen[lit.Text]; ok {
				return
			}
			seen[lit.Text] = struct{}{}
			literals = append(literals, lit)
		})
	}
	if len(lexerRules) == 0 && len(literals) == 0 {
		return nil, nil
	}

	lexerRoot := ast.NewAt(ast.KindGrammar, string(ast.GrammarTypeLexer), root.Pos.Row, root.Pos.Col)
	id := root.FirstChildWithKind(ast.KindID)
	lexerRoot.AddChild(ast.NewAt(ast.KindID, id.Text+"Lexer", id.Pos.Row, id.Pos.Col))
	lexerRoot.AddChild(lexerOptionsOf(root))
	for _, tokens := range root.ChildrenWithKind(ast.KindTokensSpec) {
		lexerRoot.AddChild(tokens.DupTree())
	}
	var actions []*ast.Node
	for i := root.ChildCount() - 1; i >= 0; i-- {
		// ^(AT lexer ID ACTION)
		at := root.Child(i)
		if at.Kind != ast.KindAt || at.ChildCount() != 3 || at.Child(0).Text != "lexer" {
			continue
		}
		actions = append([]*ast.Node{root.DeleteChild(i)}, actions...)
	}
	for _, at := range actions {
		lexerRoot.AddChild(at)
	}

	lexerRulesRoot := ast.NewAt(ast.KindRules, "RULES", rules.Pos.Row, rules.Pos.Col)
	for i, lit := range literals {
		lexerRulesRoot.AddChild(newLiteralRule(fmt.Sprintf("%v%v", implicitTokenPrefix, i), lit))
	}
	for i := rules.ChildCount() - 1; i >= 0; i-- {
		if isLexerRule(rules.Child(i)) {
			rules.DeleteChild(i)
		}
	}
	for _, r := range lexerRules {
		lexerRulesRoot.AddChild(r)
	}
	lexerRoot.AddChild(lexerRulesRoot)

	lexer, err := ast.NewGrammar(lexerRoot)
	if err != nil {
		return nil, err
	}
	lexer.FileName = combined.FileName
	return lexer, nil
}

func isLexerRule(rule *ast.Node) bool {
	return rule.Kind == ast.KindRule && rule.Child(0).Kind == ast.KindTokenRef
}

func lexerOptionsOf(root *ast.Node) *ast.Node {
	opts := root.FirstChildWithKind(ast.KindOptions)
	if opts == nil {
		return nil
	}
	lexerOpts := opts.Dup()
	for _, o := range opts.ChildrenWithKind(ast.KindAssign) {
		if _, ok := lexerOptions[o.Child(0).Text]; ok {
			lexerOpts.AddChild(o.DupTree())
		}
	}
	if lexerOpts.ChildCount() == 0 {
		return nil
	}
	return lexerOpts
}

// newLiteralRule returns `^(RULE name ^(BLOCK ^(ALT literal)))`.
func newLiteralRule(name string, lit *ast.Node) *ast.Node {
	at := func(k ast.Kind, text string, children ...*ast.Node) *ast.Node {
		n := ast.New(k, text, children...)
		n.Pos = lit.Pos
		return n
	}
	return at(ast.KindRule, "RULE",
		at(ast.KindTokenRef, name),
		at(ast.KindBlock, "BLOCK",
			at(ast.KindAlt, "ALT",
				at(ast.KindStringLiteral, lit.Text),
			),
		),
	)
}

// walkLiterals calls fn for each string literal a parser rule matches. Literals of options and
// range bounds are not matched by themselves.
func walkLiterals(n *ast.Node, fn func(lit *ast.Node)) {
	switch n.Kind {
	case ast.KindOptions, ast.KindElementOptions, ast.KindRange:
		return
	case ast.KindStringLiteral:
		fn(n)
	}
	for _, c := range n.Children() {
		walkLiterals(c, fn)
	}
}

// literalAliases finds the lexer rules that match exactly one string literal, such as
// `A : 'x' ;` or `A : 'x' -> skip ;`, and maps the literals to the rule names. A literal keeps
// the first rule standing for it.
func literalAliases(root *ast.Node) map[string]string {
	aliases := map[string]string{}
	var rules []*ast.Node
	for _, c := range root.Children() {
		switch c.Kind {
		case ast.KindRules:
			rules = append(rules, c.Children()...)
		case ast.KindMode:
			rules = append(rules, c.ChildrenWithKind(ast.KindRule)...)
		}
	}
	for _, r := range rules {
		if !isLexerRule(r) {
			continue
		}
		if mods := r.FirstChildWithKind(ast.KindRuleModifiers); mods != nil && mods.FirstChildWithKind(ast.KindFragment) != nil {
			continue
		}
		blk := r.FirstChildWithKind(ast.KindBlock)
		if blk == nil || blk.ChildCount() != 1 {
			continue
		}
		alt := blk.Child(0)
		if alt.Kind == ast.KindLexerAltAction {
			alt = alt.Child(0)
		}
		if alt.Kind != ast.KindAlt || alt.ChildCount() != 1 {
			continue
		}
		lit := alt.Child(0)
		if lit.Kind != ast.KindStringLiteral || lit.ChildCount() != 0 {
			continue
		}
		if _, ok := aliases[lit.Text]; ok {
			continue
		}
		aliases[lit.Text] = r.Child(0).Text
	}
	return aliases
}
