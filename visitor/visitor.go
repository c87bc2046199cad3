package visitor

import (
	"fmt"

	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/tree"
)

const DefaultModeName = "DEFAULT_MODE"

// Visitor walks a grammar tree once, top to bottom, and calls its hooks for every construct it
// recognizes. It never modifies the tree.
type Visitor struct {
	*tree.Recognizer
	hooks Hooks

	currentRuleName       string
	currentModeName       string
	currentOuterAltNumber int
}

func New(hooks Hooks) *Visitor {
	return &Visitor{
		Recognizer:      tree.NewRecognizer(nil),
		hooks:           hooks,
		currentModeName: DefaultModeName,
	}
}

// CurrentRuleName returns the name of the rule being visited.
func (v *Visitor) CurrentRuleName() string {
	return v.currentRuleName
}

// CurrentModeName returns the name of the mode being visited. Rules before the first `mode`
// belong to DEFAULT_MODE.
func (v *Visitor) CurrentModeName() string {
	return v.currentModeName
}

// CurrentOuterAltNumber returns the 1-based number of the outer alternative being visited,
// or 0 outside an alternative.
func (v *Visitor) CurrentOuterAltNumber() int {
	return v.currentOuterAltNumber
}

// Visit walks t, which is a GRAMMAR, RULE, BLOCK or ALT node. Recognition errors go to the
// error reporter and the walk goes on with the next construct. A fatal fault is returned.
func (v *Visitor) Visit(t *ast.Node) (retErr error) {
	defer tree.Recover(&retErr)

	if t == nil {
		return fmt.Errorf("%w: a tree is nil", tree.ErrNoInput)
	}
	v.SetInput(tree.NewNodeStream(t))
	switch t.Kind {
	case ast.KindGrammar:
		v.grammarSpec()
	case ast.KindRule:
		v.anyRule()
	case ast.KindBlock:
		v.block()
	case ast.KindAlt:
		v.alternative()
	default:
		return fmt.Errorf("%w: cannot visit %v", tree.ErrNoInput, t.Kind)
	}
	return nil
}

func (v *Visitor) enter(c Construct) *ast.Node {
	t := v.LT(1)
	v.hooks.Enter(c, t)
	return t
}

func (v *Visitor) exit(c Construct, t *ast.Node) {
	if v.Failed() {
		return
	}
	v.hooks.Exit(c, t)
}

// grammarSpec
//
//	: ^(GRAMMAR ID prequelConstructs rules mode*)
//	;
func (v *Visitor) grammarSpec() {
	start := v.Index()
	defer v.EndRule("grammarSpec", start)
	t := v.enter(ConstructGrammar)
	defer v.exit(ConstructGrammar, t)

	v.currentModeName = DefaultModeName

	root := v.Match(ast.KindGrammar)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	v.hooks.DiscoverGrammar(root, id)
	first := v.prequelConstructs()
	if v.Failed() {
		return
	}
	v.hooks.FinishPrequels(first)
	v.rules()
	if v.Failed() {
		return
	}
	for v.LA(1) == ast.KindMode {
		v.mode()
		if v.Failed() {
			return
		}
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.FinishGrammar(root, id)
}

func isPrequel(k ast.Kind) bool {
	switch k {
	case ast.KindOptions, ast.KindImport, ast.KindTokensSpec, ast.KindChannels, ast.KindAt:
		return true
	}
	return false
}

// prequelConstructs
//
//	: prequelConstruct*
//	;
func (v *Visitor) prequelConstructs() *ast.Node {
	start := v.Index()
	defer v.EndRule("prequelConstructs", start)
	t := v.enter(ConstructPrequelConstructs)
	defer v.exit(ConstructPrequelConstructs, t)

	var first *ast.Node
	if isPrequel(v.LA(1)) {
		first = v.LT(1)
	}
	for isPrequel(v.LA(1)) {
		v.prequelConstruct()
		if v.Failed() {
			return nil
		}
	}
	return first
}

// prequelConstruct
//
//	: optionsSpec
//	| delegateGrammars
//	| tokensSpec
//	| channelsSpec
//	| action
//	;
func (v *Visitor) prequelConstruct() {
	start := v.Index()
	defer v.EndRule("prequelConstruct", start)
	t := v.enter(ConstructPrequelConstruct)
	defer v.exit(ConstructPrequelConstruct, t)

	switch v.LA(1) {
	case ast.KindOptions:
		v.optionsSpec()
	case ast.KindImport:
		v.delegateGrammars()
	case ast.KindTokensSpec:
		v.tokensSpec()
	case ast.KindChannels:
		v.channelsSpec()
	case ast.KindAt:
		v.action()
	default:
		v.NoViableAlt(1)
	}
}

// optionsSpec
//
//	: ^(OPTIONS option*)
//	;
func (v *Visitor) optionsSpec() *ast.Node {
	start := v.Index()
	defer v.EndRule("optionsSpec", start)
	t := v.enter(ConstructOptionsSpec)
	defer v.exit(ConstructOptionsSpec, t)

	opts := v.Match(ast.KindOptions)
	if v.Failed() {
		return nil
	}
	if v.LA(1) != ast.KindDown {
		return opts
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return nil
	}
	for v.LA(1) == ast.KindAssign {
		v.option()
		if v.Failed() {
			return nil
		}
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return nil
	}
	return opts
}

// option
//
//	: ^(ASSIGN ID optionValue)
//	;
//
// An option inside a block is a block option, one inside a rule a rule option, and any other a
// grammar option.
func (v *Visitor) option() {
	start := v.Index()
	defer v.EndRule("option", start)
	t := v.enter(ConstructOption)
	defer v.exit(ConstructOption, t)

	inBlock := t.Ancestor(ast.KindBlock) != nil
	inRule := t.Ancestor(ast.KindRule) != nil

	v.Match(ast.KindAssign)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	value := v.MatchSet(ast.KindID, ast.KindStringLiteral, ast.KindInt, ast.KindAction)
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	switch {
	case inBlock:
		v.hooks.BlockOption(id, value)
	case inRule:
		v.hooks.RuleOption(id, value)
	default:
		v.hooks.GrammarOption(id, value)
	}
}

// delegateGrammars
//
//	: ^(IMPORT delegateGrammar+)
//	;
func (v *Visitor) delegateGrammars() {
	start := v.Index()
	defer v.EndRule("delegateGrammars", start)
	t := v.enter(ConstructDelegateGrammars)
	defer v.exit(ConstructDelegateGrammars, t)

	v.Match(ast.KindImport)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	n := 0
	for v.LA(1) == ast.KindAssign || v.LA(1) == ast.KindID {
		v.delegateGrammar()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(2)
		return
	}
	v.Match(ast.KindUp)
}

// delegateGrammar
//
//	: ^(ASSIGN label=ID id=ID)
//	| id=ID
//	;
func (v *Visitor) delegateGrammar() {
	start := v.Index()
	defer v.EndRule("delegateGrammar", start)
	t := v.enter(ConstructDelegateGrammar)
	defer v.exit(ConstructDelegateGrammar, t)

	if v.LA(1) == ast.KindID {
		id := v.Match(ast.KindID)
		if v.Failed() {
			return
		}
		v.hooks.ImportGrammar(nil, id)
		return
	}
	v.Match(ast.KindAssign)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	label := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.ImportGrammar(label, id)
}

// tokensSpec
//
//	: ^(TOKENS_SPEC ID*)
//	;
func (v *Visitor) tokensSpec() {
	start := v.Index()
	defer v.EndRule("tokensSpec", start)
	t := v.enter(ConstructTokensSpec)
	defer v.exit(ConstructTokensSpec, t)

	v.idList(ast.KindTokensSpec, v.hooks.DefineToken)
}

// channelsSpec
//
//	: ^(CHANNELS ID*)
//	;
func (v *Visitor) channelsSpec() {
	start := v.Index()
	defer v.EndRule("channelsSpec", start)
	t := v.enter(ConstructChannelsSpec)
	defer v.exit(ConstructChannelsSpec, t)

	v.idList(ast.KindChannels, v.hooks.DefineChannel)
}

func (v *Visitor) idList(k ast.Kind, define func(id *ast.Node)) {
	v.Match(k)
	if v.Failed() {
		return
	}
	if v.LA(1) != ast.KindDown {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	for v.LA(1) == ast.KindID {
		id := v.Match(ast.KindID)
		if v.Failed() {
			return
		}
		define(id)
	}
	v.Match(ast.KindUp)
}

// action
//
//	: ^(AT scope=ID? name=ID ACTION)
//	;
func (v *Visitor) action() {
	start := v.Index()
	defer v.EndRule("action", start)
	t := v.enter(ConstructAction)
	defer v.exit(ConstructAction, t)

	v.Match(ast.KindAt)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	var scope *ast.Node
	name := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	if v.LA(1) == ast.KindID {
		scope = name
		name = v.Match(ast.KindID)
		if v.Failed() {
			return
		}
	}
	act := v.Match(ast.KindAction)
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.GlobalNamedAction(scope, name, act)
}

// rules
//
//	: ^(RULES rule*)
//	;
func (v *Visitor) rules() {
	start := v.Index()
	defer v.EndRule("rules", start)
	t := v.enter(ConstructRules)
	defer v.exit(ConstructRules, t)

	rules := v.Match(ast.KindRules)
	if v.Failed() {
		return
	}
	v.hooks.DiscoverRules(rules)
	if v.LA(1) == ast.KindDown {
		v.Match(ast.KindDown)
		if v.Failed() {
			return
		}
		for v.LA(1) == ast.KindRule {
			v.anyRule()
			if v.Failed() {
				return
			}
		}
		v.Match(ast.KindUp)
		if v.Failed() {
			return
		}
	}
	v.hooks.FinishRules(rules)
}

// anyRule chooses between lexerRule and rule by the kind of the rule name.
func (v *Visitor) anyRule() {
	switch v.LA(3) {
	case ast.KindTokenRef:
		v.lexerRule()
	case ast.KindRuleRef:
		v.rule()
	default:
		start := v.Index()
		defer v.EndRule("rules", start)
		v.NoViableAlt(3)
	}
}

// mode
//
//	: ^(MODE ID rule*)
//	;
func (v *Visitor) mode() {
	start := v.Index()
	defer v.EndRule("mode", start)
	t := v.enter(ConstructMode)
	defer v.exit(ConstructMode, t)

	m := v.Match(ast.KindMode)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindID)
	if v.Failed() {
		return
	}
	v.currentModeName = id.Text
	v.hooks.ModeDef(m, id)
	for v.LA(1) == ast.KindRule {
		v.anyRule()
		if v.Failed() {
			return
		}
	}
	v.Match(ast.KindUp)
}

// lexerRule
//
//	: ^(RULE TOKEN_REF ruleModifiers? lexerRuleBlock)
//	;
func (v *Visitor) lexerRule() {
	start := v.Index()
	defer v.EndRule("lexerRule", start)
	t := v.enter(ConstructLexerRule)
	defer v.exit(ConstructLexerRule, t)

	rule := v.Match(ast.KindRule)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindTokenRef)
	if v.Failed() {
		return
	}
	v.currentRuleName = id.Text
	v.currentOuterAltNumber = 0
	var mods []*ast.Node
	if v.LA(1) == ast.KindRuleModifiers {
		mods = v.ruleModifiers()
		if v.Failed() {
			return
		}
	}
	block := v.LT(1)
	v.hooks.DiscoverLexerRule(rule, id, mods, block)
	v.lexerRuleBlock()
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.FinishLexerRule(rule, id, block)
	v.currentOuterAltNumber = 0
}

// rule
//
//	: ^(RULE RULE_REF ruleModifiers? ARG_ACTION? ruleReturns? throwsSpec? locals? rulePrequels
//	     ruleBlock exceptionGroup)
//	;
func (v *Visitor) rule() {
	start := v.Index()
	defer v.EndRule("rule", start)
	t := v.enter(ConstructRule)
	defer v.exit(ConstructRule, t)

	rule := v.Match(ast.KindRule)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	id := v.Match(ast.KindRuleRef)
	if v.Failed() {
		return
	}
	v.currentRuleName = id.Text
	v.currentOuterAltNumber = 0
	decl := &RuleDecl{
		Rule: rule,
		ID:   id,
	}
	if v.LA(1) == ast.KindRuleModifiers {
		decl.Modifiers = v.ruleModifiers()
		if v.Failed() {
			return
		}
	}
	if v.LA(1) == ast.KindArgAction {
		decl.Arg = v.Match(ast.KindArgAction)
		if v.Failed() {
			return
		}
	}
	if v.LA(1) == ast.KindReturns {
		decl.Returns = v.wrappedArgAction(ast.KindReturns)
		if v.Failed() {
			return
		}
	}
	if v.LA(1) == ast.KindThrows {
		decl.Throws = v.throwsSpec()
		if v.Failed() {
			return
		}
	}
	if v.LA(1) == ast.KindLocals {
		decl.Locals = v.wrappedArgAction(ast.KindLocals)
		if v.Failed() {
			return
		}
	}
	v.rulePrequels(decl)
	if v.Failed() {
		return
	}
	decl.Block = v.LT(1)
	v.hooks.DiscoverRule(decl)
	v.ruleBlock()
	if v.Failed() {
		return
	}
	v.exceptionGroup()
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.FinishRule(rule, id, decl.Block)
	v.currentOuterAltNumber = 0
}

// ruleModifiers
//
//	: ^(RULEMODIFIERS (PUBLIC | PRIVATE | PROTECTED | FRAGMENT)+)
//	;
func (v *Visitor) ruleModifiers() []*ast.Node {
	start := v.Index()
	defer v.EndRule("ruleModifiers", start)
	t := v.enter(ConstructRuleModifiers)
	defer v.exit(ConstructRuleModifiers, t)

	v.Match(ast.KindRuleModifiers)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return nil
	}
	var mods []*ast.Node
	for {
		switch v.LA(1) {
		case ast.KindPublic, ast.KindPrivate, ast.KindProtected, ast.KindFragment:
			mods = append(mods, v.MatchAny())
			continue
		}
		break
	}
	if len(mods) == 0 {
		v.EarlyExit(4)
		return nil
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return nil
	}
	return mods
}

// wrappedArgAction matches `^(RETURNS ARG_ACTION)` or `^(LOCALS ARG_ACTION)` and returns the
// ARG_ACTION.
func (v *Visitor) wrappedArgAction(k ast.Kind) *ast.Node {
	start := v.Index()
	defer v.EndRule(k.String(), start)

	v.Match(k)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return nil
	}
	arg := v.Match(ast.KindArgAction)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return nil
	}
	return arg
}

// throwsSpec
//
//	: ^(THROWS ID+)
//	;
func (v *Visitor) throwsSpec() *ast.Node {
	start := v.Index()
	defer v.EndRule("throwsSpec", start)

	t := v.Match(ast.KindThrows)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return nil
	}
	n := 0
	for v.LA(1) == ast.KindID {
		v.Match(ast.KindID)
		n++
	}
	if n == 0 {
		v.EarlyExit(5)
		return nil
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return nil
	}
	return t
}

// rulePrequels
//
//	: (optionsSpec | ruleAction)*
//	;
func (v *Visitor) rulePrequels(decl *RuleDecl) {
	start := v.Index()
	defer v.EndRule("rulePrequels", start)
	t := v.enter(ConstructRulePrequels)
	defer v.exit(ConstructRulePrequels, t)

	for {
		switch v.LA(1) {
		case ast.KindOptions:
			decl.Options = v.optionsSpec()
		case ast.KindAt:
			decl.Actions = append(decl.Actions, v.ruleAction())
		default:
			return
		}
		if v.Failed() {
			return
		}
	}
}

// ruleAction
//
//	: ^(AT ID ACTION)
//	;
func (v *Visitor) ruleAction() *ast.Node {
	start := v.Index()
	defer v.EndRule("ruleAction", start)

	t := v.Match(ast.KindAt)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindID)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindAction)
	if v.Failed() {
		return nil
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return nil
	}
	return t
}

// exceptionGroup
//
//	: ^(CATCH ARG_ACTION ACTION)* ^(FINALLY ACTION)?
//	;
func (v *Visitor) exceptionGroup() {
	start := v.Index()
	defer v.EndRule("exceptionGroup", start)
	t := v.enter(ConstructExceptionGroup)
	defer v.exit(ConstructExceptionGroup, t)

	for v.LA(1) == ast.KindCatch {
		v.Match(ast.KindCatch)
		if v.Failed() {
			return
		}
		v.Match(ast.KindDown)
		if v.Failed() {
			return
		}
		arg := v.Match(ast.KindArgAction)
		if v.Failed() {
			return
		}
		act := v.Match(ast.KindAction)
		if v.Failed() {
			return
		}
		v.Match(ast.KindUp)
		if v.Failed() {
			return
		}
		v.hooks.RuleCatch(arg, act)
	}
	if v.LA(1) != ast.KindFinally {
		return
	}
	v.Match(ast.KindFinally)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	act := v.Match(ast.KindAction)
	if v.Failed() {
		return
	}
	v.Match(ast.KindUp)
	if v.Failed() {
		return
	}
	v.hooks.FinallyAction(act)
}

// ruleBlock
//
//	: ^(BLOCK outerAlternative+)
//	;
func (v *Visitor) ruleBlock() {
	start := v.Index()
	defer v.EndRule("ruleBlock", start)
	t := v.enter(ConstructRuleBlock)
	defer v.exit(ConstructRuleBlock, t)

	v.Match(ast.KindBlock)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	n := 0
	for v.LA(1) == ast.KindAlt {
		v.currentOuterAltNumber++
		v.outerAlternative()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(6)
		return
	}
	v.Match(ast.KindUp)
}

// outerAlternative
//
//	: alternative
//	;
func (v *Visitor) outerAlternative() {
	start := v.Index()
	defer v.EndRule("outerAlternative", start)
	t := v.enter(ConstructOuterAlternative)
	defer v.exit(ConstructOuterAlternative, t)

	v.hooks.DiscoverOuterAlt(t)
	v.alternative()
	if v.Failed() {
		return
	}
	v.hooks.FinishOuterAlt(t)
}

// lexerRuleBlock
//
//	: ^(BLOCK lexerOuterAlternative+)
//	;
func (v *Visitor) lexerRuleBlock() {
	start := v.Index()
	defer v.EndRule("lexerRuleBlock", start)
	t := v.enter(ConstructLexerRuleBlock)
	defer v.exit(ConstructLexerRuleBlock, t)

	v.Match(ast.KindBlock)
	if v.Failed() {
		return
	}
	v.Match(ast.KindDown)
	if v.Failed() {
		return
	}
	n := 0
	for v.LA(1) == ast.KindAlt || v.LA(1) == ast.KindLexerAltAction {
		v.currentOuterAltNumber++
		v.lexerOuterAlternative()
		if v.Failed() {
			return
		}
		n++
	}
	if n == 0 {
		v.EarlyExit(7)
		return
	}
	v.Match(ast.KindUp)
}

// lexerOuterAlternative
//
//	: lexerAlternative
//	;
func (v *Visitor) lexerOuterAlternative() {
	start := v.Index()
	defer v.EndRule("lexerOuterAlternative", start)
	t := v.enter(ConstructLexerOuterAlternative)
	defer v.exit(ConstructLexerOuterAlternative, t)

	v.hooks.DiscoverOuterAlt(t)
	v.lexerAlternative()
	if v.Failed() {
		return
	}
	v.hooks.FinishOuterAlt(t)
}
