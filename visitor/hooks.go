package visitor

import (
	"github.com/nihei9/atnc/ast"
)

// Construct is a region of a grammar tree the visitor recognizes. Hooks receive a construct on
// entry and exit.
type Construct int

const (
	ConstructGrammar Construct = iota
	ConstructPrequelConstructs
	ConstructPrequelConstruct
	ConstructOptionsSpec
	ConstructOption
	ConstructDelegateGrammars
	ConstructDelegateGrammar
	ConstructTokensSpec
	ConstructChannelsSpec
	ConstructAction
	ConstructRules
	ConstructMode
	ConstructLexerRule
	ConstructRule
	ConstructRuleModifiers
	ConstructRulePrequels
	ConstructExceptionGroup
	ConstructLexerRuleBlock
	ConstructRuleBlock
	ConstructLexerOuterAlternative
	ConstructOuterAlternative
	ConstructLexerAlternative
	ConstructLexerElements
	ConstructLexerElement
	ConstructLexerBlock
	ConstructLexerAtom
	ConstructAlternative
	ConstructLexerCommand
	ConstructElement
	ConstructLabeledElement
	ConstructSubrule
	ConstructLexerSubrule
	ConstructBlockSet
	ConstructSetElement
	ConstructBlock
	ConstructAtom
	ConstructRuleref
	ConstructRange
	ConstructTerminal
	ConstructElementOptions
	ConstructElementOption
)

var constructNames = [...]string{
	ConstructGrammar:               "grammarSpec",
	ConstructPrequelConstructs:     "prequelConstructs",
	ConstructPrequelConstruct:      "prequelConstruct",
	ConstructOptionsSpec:           "optionsSpec",
	ConstructOption:                "option",
	ConstructDelegateGrammars:      "delegateGrammars",
	ConstructDelegateGrammar:       "delegateGrammar",
	ConstructTokensSpec:            "tokensSpec",
	ConstructChannelsSpec:          "channelsSpec",
	ConstructAction:                "action",
	ConstructRules:                 "rules",
	ConstructMode:                  "mode",
	ConstructLexerRule:             "lexerRule",
	ConstructRule:                  "rule",
	ConstructRuleModifiers:         "ruleModifiers",
	ConstructRulePrequels:          "rulePrequels",
	ConstructExceptionGroup:        "exceptionGroup",
	ConstructLexerRuleBlock:        "lexerRuleBlock",
	ConstructRuleBlock:             "ruleBlock",
	ConstructLexerOuterAlternative: "lexerOuterAlternative",
	ConstructOuterAlternative:      "outerAlternative",
	ConstructLexerAlternative:      "lexerAlternative",
	ConstructLexerElements:         "lexerElements",
	ConstructLexerElement:          "lexerElement",
	ConstructLexerBlock:            "lexerBlock",
	ConstructLexerAtom:             "lexerAtom",
	ConstructAlternative:           "alternative",
	ConstructLexerCommand:          "lexerCommand",
	ConstructElement:               "element",
	ConstructLabeledElement:        "labeledElement",
	ConstructSubrule:               "subrule",
	ConstructLexerSubrule:          "lexerSubrule",
	ConstructBlockSet:              "blockSet",
	ConstructSetElement:            "setElement",
	ConstructBlock:                 "block",
	ConstructAtom:                  "atom",
	ConstructRuleref:               "ruleref",
	ConstructRange:                 "range",
	ConstructTerminal:              "terminal",
	ConstructElementOptions:        "elementOptions",
	ConstructElementOption:         "elementOption",
}

func (c Construct) String() string {
	if c < 0 || int(c) >= len(constructNames) {
		return "<unknown construct>"
	}
	return constructNames[c]
}

// RuleDecl holds the parts of a parser rule that precede its block.
type RuleDecl struct {
	Rule      *ast.Node
	ID        *ast.Node
	Modifiers []*ast.Node
	Arg       *ast.Node
	Returns   *ast.Node
	Throws    *ast.Node
	Locals    *ast.Node
	Options   *ast.Node
	Actions   []*ast.Node
	Block     *ast.Node
}

// Hooks receives the constructs the visitor discovers. Any argument that is absent in the tree
// is nil. Implementations embed BaseHooks and override what they need.
type Hooks interface {
	DiscoverGrammar(root, id *ast.Node)
	FinishPrequels(firstPrequel *ast.Node)
	FinishGrammar(root, id *ast.Node)

	GrammarOption(id, value *ast.Node)
	RuleOption(id, value *ast.Node)
	BlockOption(id, value *ast.Node)
	ElementOption(t, id, value *ast.Node)

	DefineToken(id *ast.Node)
	DefineChannel(id *ast.Node)
	GlobalNamedAction(scope, id, action *ast.Node)
	ImportGrammar(label, id *ast.Node)

	ModeDef(m, id *ast.Node)

	DiscoverRules(rules *ast.Node)
	FinishRules(rules *ast.Node)
	DiscoverRule(decl *RuleDecl)
	FinishRule(rule, id, block *ast.Node)
	DiscoverLexerRule(rule, id *ast.Node, modifiers []*ast.Node, block *ast.Node)
	FinishLexerRule(rule, id, block *ast.Node)
	RuleCatch(arg, action *ast.Node)
	FinallyAction(action *ast.Node)

	DiscoverOuterAlt(alt *ast.Node)
	FinishOuterAlt(alt *ast.Node)
	DiscoverAlt(alt *ast.Node)
	FinishAlt(alt *ast.Node)

	RuleRef(ref, arg *ast.Node)
	TokenRef(ref *ast.Node)
	StringRef(ref *ast.Node)
	WildcardRef(ref *ast.Node)
	ActionInAlt(action *ast.Node)
	SempredInAlt(pred *ast.Node)
	Label(op, id, element *ast.Node)

	LexerCallCommand(outerAltNumber int, id, arg *ast.Node)
	LexerCommand(outerAltNumber int, id *ast.Node)

	Enter(c Construct, t *ast.Node)
	Exit(c Construct, t *ast.Node)
}

// BaseHooks implements every hook as a no-op.
type BaseHooks struct{}

var _ Hooks = BaseHooks{}

func (BaseHooks) DiscoverGrammar(root, id *ast.Node)                                            {}
func (BaseHooks) FinishPrequels(firstPrequel *ast.Node)                                         {}
func (BaseHooks) FinishGrammar(root, id *ast.Node)                                              {}
func (BaseHooks) GrammarOption(id, value *ast.Node)                                             {}
func (BaseHooks) RuleOption(id, value *ast.Node)                                                {}
func (BaseHooks) BlockOption(id, value *ast.Node)                                               {}
func (BaseHooks) ElementOption(t, id, value *ast.Node)                                          {}
func (BaseHooks) DefineToken(id *ast.Node)                                                      {}
func (BaseHooks) DefineChannel(id *ast.Node)                                                    {}
func (BaseHooks) GlobalNamedAction(scope, id, action *ast.Node)                                 {}
func (BaseHooks) ImportGrammar(label, id *ast.Node)                                             {}
func (BaseHooks) ModeDef(m, id *ast.Node)                                                       {}
func (BaseHooks) DiscoverRules(rules *ast.Node)                                                 {}
func (BaseHooks) FinishRules(rules *ast.Node)                                                   {}
func (BaseHooks) DiscoverRule(decl *RuleDecl)                                                   {}
func (BaseHooks) FinishRule(rule, id, block *ast.Node)                                          {}
func (BaseHooks) DiscoverLexerRule(rule, id *ast.Node, modifiers []*ast.Node, block *ast.Node) {}
func (BaseHooks) FinishLexerRule(rule, id, block *ast.Node)                                     {}
func (BaseHooks) RuleCatch(arg, action *ast.Node)                                               {}
func (BaseHooks) FinallyAction(action *ast.Node)                                                {}
func (BaseHooks) DiscoverOuterAlt(alt *ast.Node)                                                {}
func (BaseHooks) FinishOuterAlt(alt *ast.Node)                                                  {}
func (BaseHooks) DiscoverAlt(alt *ast.Node)                                                     {}
func (BaseHooks) FinishAlt(alt *ast.Node)                                                       {}
func (BaseHooks) RuleRef(ref, arg *ast.Node)                                                    {}
func (BaseHooks) TokenRef(ref *ast.Node)                                                        {}
func (BaseHooks) StringRef(ref *ast.Node)                                                       {}
func (BaseHooks) WildcardRef(ref *ast.Node)                                                     {}
func (BaseHooks) ActionInAlt(action *ast.Node)                                                  {}
func (BaseHooks) SempredInAlt(pred *ast.Node)                                                   {}
func (BaseHooks) Label(op, id, element *ast.Node)                                               {}
func (BaseHooks) LexerCallCommand(outerAltNumber int, id, arg *ast.Node)                        {}
func (BaseHooks) LexerCommand(outerAltNumber int, id *ast.Node)                                 {}
func (BaseHooks) Enter(c Construct, t *ast.Node)                                                {}
func (BaseHooks) Exit(c Construct, t *ast.Node)                                                 {}
