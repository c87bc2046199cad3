package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/atnc/ast"
	verr "github.com/nihei9/atnc/error"
	"github.com/nihei9/atnc/spec"
	"github.com/nihei9/atnc/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseGrammar(t *testing.T, src string) *ast.Grammar {
	t.Helper()
	root, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	g, err := ast.NewGrammar(root)
	require.NoError(t, err)
	return g
}

func collect(t *testing.T, g *ast.Grammar, opts ...CollectOption) (*Symbols, []error) {
	t.Helper()
	var errs []error
	syms, err := Collect(g, tree.ErrorReporterFunc(func(err error) {
		errs = append(errs, err)
	}), opts...)
	require.NoError(t, err)
	return syms, errs
}

func findNode(root *ast.Node, k ast.Kind, text string) *ast.Node {
	var found *ast.Node
	ast.Walk(root, func(n *ast.Node) {
		if found == nil && n.Kind == k && n.Text == text {
			found = n
		}
	})
	return found
}

func ruleNames(rules []*Rule) []string {
	var names []string
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return names
}

func TestCollect_LexerGrammar(t *testing.T) {
	g := parseGrammar(t, `
lexer grammar L;
tokens { KW }
channels { COMMENTS, WS_CH }
A : 'a' ;
fragment D : [0-9] ;
INT : D+ -> channel(COMMENTS) ;
mode M;
B : 'b' -> popMode ;
`)
	syms, errs := collect(t, g)
	require.Empty(t, errs)

	assert.Equal(t, []string{"A", "D", "INT", "B"}, ruleNames(syms.Rules))
	for i, r := range syms.Rules {
		assert.Equal(t, i, r.Index)
		assert.True(t, r.IsLexer)
	}
	d, ok := syms.Rule("D")
	require.True(t, ok)
	assert.True(t, d.IsFragment)
	assert.Equal(t, []string{"fragment"}, d.Modifiers)
	assert.Equal(t, []string{"A", "D", "INT"}, ruleNames(syms.LexerRules("DEFAULT_MODE")))
	assert.Equal(t, []string{"B"}, ruleNames(syms.LexerRules("M")))
	assert.Equal(t, []string{"DEFAULT_MODE", "M"}, syms.Modes)

	assert.Equal(t, map[string]int{
		"EOF": -1,
		"KW":  1,
		"A":   2,
		"INT": 3,
		"B":   4,
	}, syms.TokenTypes)
	assert.Equal(t, []string{"", "KW", "A", "INT", "B"}, syms.TokenNames)
	assert.Equal(t, 4, syms.MaxTokenType)
	assert.Equal(t, map[string]int{
		"'a'": 2,
		"'b'": 4,
	}, syms.Literals)
	assert.Equal(t, map[string]int{
		"DEFAULT_TOKEN_CHANNEL": 0,
		"HIDDEN":                1,
		"COMMENTS":              2,
		"WS_CH":                 3,
	}, syms.Channels)

	intRule, _ := syms.Rule("INT")
	require.Len(t, intRule.Commands, 1)
	cmd := intRule.Commands[0]
	assert.Equal(t, 1, cmd.Alt)
	assert.Equal(t, "channel", cmd.Name)
	v, err := syms.CommandArgValue(cmd.Name, cmd.Arg)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	b, _ := syms.Rule("B")
	require.Len(t, b.Commands, 1)
	assert.Equal(t, "popMode", b.Commands[0].Name)
	assert.Nil(t, b.Commands[0].Arg)
	assert.Equal(t, "M", b.Mode)
}

func TestCollect_ParserRuleDetails(t *testing.T) {
	g := parseGrammar(t, `
grammar G;
options { language = Go; }
@header {h}
@lexer::members {m}
a[int x] returns [int y] locals [int z] options { k = 2; } @init {i}
  : b=B {act} # first
  | c+=a[1] {p}? Z<assoc=right> # second
  ;
catch [E e] {c}
finally {f}
`)
	syms, errs := collect(t, g)
	require.Empty(t, errs)

	assert.Equal(t, "Go", syms.Options["language"])
	require.Contains(t, syms.NamedActions, "parser::header")
	assert.Equal(t, "{h}", syms.NamedActions["parser::header"].Text)
	require.Contains(t, syms.NamedActions, "lexer::members")

	require.Len(t, syms.Rules, 1)
	a := syms.Rules[0]
	assert.False(t, a.IsLexer)
	assert.Equal(t, "int x", a.Arg)
	assert.Equal(t, "int y", a.Returns)
	assert.Equal(t, "int z", a.Locals)
	assert.Equal(t, map[string]string{"k": "2"}, a.Options)
	require.Contains(t, a.NamedActions, "init")
	assert.Equal(t, "{i}", a.NamedActions["init"].Text)
	require.Len(t, a.Catches, 1)
	assert.Equal(t, "{c}", a.Catches[0].Text)
	require.NotNil(t, a.Finally)
	assert.Equal(t, "{f}", a.Finally.Text)

	assert.Equal(t, 2, a.NumberOfAlts)
	assert.Equal(t, map[string][]int{
		"first":  {1},
		"second": {2},
	}, a.AltLabels)

	require.Contains(t, a.Labels, "b")
	assert.Equal(t, LabelTypeToken, a.Labels["b"].Type)
	require.Contains(t, a.Labels, "c")
	assert.Equal(t, LabelTypeRuleList, a.Labels["c"].Type)

	require.Len(t, syms.Actions, 1)
	assert.Equal(t, "{act}", syms.Actions[0].Text)
	assert.Equal(t, 0, syms.ActionIndex(syms.Actions[0]))
	require.Len(t, syms.Predicates, 1)
	assert.Equal(t, "{p}?", syms.Predicates[0].Text)
	assert.Equal(t, 0, syms.PredicateIndex(syms.Predicates[0]))
	assert.Equal(t, -1, syms.ActionIndex(syms.Predicates[0]))

	z := findNode(g.AST, ast.KindTokenRef, "Z")
	require.NotNil(t, z)
	assert.Equal(t, map[string]string{"assoc": "right"}, syms.ElementOptions(z))

	assert.Equal(t, []string{"B", "Z"}, syms.ImplicitTokens)
	assert.Equal(t, 1, syms.TokenType("B"))
	assert.Equal(t, 2, syms.TokenType("Z"))
	assert.Equal(t, 0, syms.TokenType("Y"))
}

func TestCollect_CombinedGrammar(t *testing.T) {
	g := parseGrammar(t, `
grammar G;
tokens { X }
a : 'if' ID | 'x' | B ;
b : 'if' c=ID ;
ID : [a-z]+ ;
IF2 : 'x' ;
WS : ' ' -> skip ;
`)
	lexer, err := ExtractImplicitLexer(g)
	require.NoError(t, err)
	require.NotNil(t, lexer)
	assert.Equal(t, "GLexer", lexer.Name)
	assert.True(t, lexer.IsLexer())
	assert.Equal(t, `(lexer GLexer (tokens X) (RULES (RULE T__0 (BLOCK (ALT 'if'))) (RULE ID (BLOCK (ALT (+ (BLOCK (ALT [a-z])))))) (RULE IF2 (BLOCK (ALT 'x'))) (RULE WS (BLOCK (LEXER_ALT_ACTION (ALT ' ') skip)))))`, lexer.AST.StringTree())
	assert.Equal(t, `(combined G (tokens X) (RULES (RULE a (BLOCK (ALT 'if' ID) (ALT 'x') (ALT B))) (RULE b (BLOCK (ALT 'if' (= c ID))))))`, g.AST.StringTree())
	ast.Walk(lexer.AST, func(n *ast.Node) {
		assert.Same(t, lexer, n.Grammar, "%v", n)
	})

	lexSyms, errs := collect(t, lexer)
	require.Empty(t, errs)
	assert.Equal(t, []string{"", "X", "T__0", "ID", "IF2", "WS"}, lexSyms.TokenNames)
	assert.Equal(t, map[string]int{
		"'if'": 2,
		"'x'":  4,
		"' '":  5,
	}, lexSyms.Literals)

	syms, errs := collect(t, g, ImportVocabulary(lexSyms))
	require.Empty(t, errs)
	assert.Equal(t, []string{"a", "b"}, ruleNames(syms.Rules))
	assert.Equal(t, []string{"", "X", "T__0", "ID", "IF2", "WS", "B"}, syms.TokenNames)
	assert.Equal(t, []string{"B"}, syms.ImplicitTokens)
	assert.Equal(t, 6, syms.MaxTokenType)
	assert.Equal(t, 2, syms.LiteralType("'if'"))
	assert.Equal(t, 4, syms.LiteralType("'x'"))
	assert.Equal(t, "'if'", syms.TokenDisplayName(2))
	assert.Equal(t, "ID", syms.TokenDisplayName(3))
	assert.Equal(t, "EOF", syms.TokenDisplayName(-1))
}

func TestExtractImplicitLexer_NothingToExtract(t *testing.T) {
	tests := []struct {
		caption string
		src     string
	}{
		{
			caption: "a lexer grammar",
			src:     `lexer grammar L; A : 'a' ;`,
		},
		{
			caption: "a parser grammar",
			src:     `parser grammar P; a : A ;`,
		},
		{
			caption: "a combined grammar without lexer rules and literals",
			src:     `grammar G; a : A ;`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := parseGrammar(t, tt.src)
			before := g.AST.StringTree()
			lexer, err := ExtractImplicitLexer(g)
			require.NoError(t, err)
			assert.Nil(t, lexer)
			assert.Equal(t, before, g.AST.StringTree())
		})
	}
}

func TestExtractImplicitLexer_OptionsAndActions(t *testing.T) {
	g := parseGrammar(t, `
grammar G;
options { language = Go; superClass = P; }
@lexer::members {m}
@parser::members {p}
a : A ;
A : 'a' ;
`)
	lexer, err := ExtractImplicitLexer(g)
	require.NoError(t, err)
	require.NotNil(t, lexer)
	assert.Equal(t, `(lexer GLexer (OPTIONS (= language Go)) (@ lexer members {m}) (RULES (RULE A (BLOCK (ALT 'a')))))`, lexer.AST.StringTree())
	assert.Equal(t, `(combined G (OPTIONS (= language Go) (= superClass P)) (@ parser members {p}) (RULES (RULE a (BLOCK (ALT A)))))`, g.AST.StringTree())
}

func TestCollect_SemanticErrors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		errs    []*SemanticError
	}{
		{
			caption: "a grammar without rules",
			src:     `grammar G;`,
			errs:    []*SemanticError{semErrNoRules},
		},
		{
			caption: "a parser rule in a lexer grammar",
			src:     `lexer grammar L; a : 'x' ; B : 'b' ;`,
			errs:    []*SemanticError{semErrParserRuleInLexer},
		},
		{
			caption: "a lexer rule in a parser grammar",
			src:     `parser grammar P; a : A ; B : 'b' ;`,
			errs:    []*SemanticError{semErrLexerRuleInParser},
		},
		{
			caption: "a duplicate rule",
			src:     `grammar G; a : A ; a : B ;`,
			errs:    []*SemanticError{semErrDuplicateRule},
		},
		{
			caption: "an undefined rule",
			src:     `grammar G; a : b ;`,
			errs:    []*SemanticError{semErrUndefinedRule},
		},
		{
			caption: "a lexer rule referencing a parser rule",
			src:     `lexer grammar L; A : b ;`,
			errs:    []*SemanticError{semErrParserRuleRefInLexerRule},
		},
		{
			caption: "a lexer rule referencing an undefined lexer rule",
			src:     `lexer grammar L; A : B ;`,
			errs:    []*SemanticError{semErrUndefinedRule},
		},
		{
			caption: "EOF in a lexer rule",
			src:     `lexer grammar L; A : 'a' EOF ;`,
		},
		{
			caption: "an unknown lexer command",
			src:     `lexer grammar L; A : 'a' -> jump ;`,
			errs:    []*SemanticError{semErrUnknownLexerCommand},
		},
		{
			caption: "a lexer command without its argument",
			src:     `lexer grammar L; A : 'a' -> pushMode ;`,
			errs:    []*SemanticError{semErrMissingCommandArg},
		},
		{
			caption: "a lexer command with an unexpected argument",
			src:     `lexer grammar L; A : 'a' -> skip(1) ;`,
			errs:    []*SemanticError{semErrUnexpectedCommandArg},
		},
		{
			caption: "an undefined mode",
			src:     `lexer grammar L; A : 'a' -> mode(N) ;`,
			errs:    []*SemanticError{semErrUndefinedMode},
		},
		{
			caption: "an undefined channel",
			src:     `lexer grammar L; A : 'a' -> channel(C) ;`,
			errs:    []*SemanticError{semErrUndefinedChannel},
		},
		{
			caption: "an undefined token type",
			src:     `lexer grammar L; A : 'a' -> type(T) ;`,
			errs:    []*SemanticError{semErrUndefinedTokenType},
		},
		{
			caption: "defined command arguments",
			src:     `lexer grammar L; tokens { T } channels { C } A : 'a' -> type(T), channel(C), pushMode(M) ; mode M; B : 'b' -> mode(DEFAULT_MODE), channel(HIDDEN) ;`,
		},
		{
			caption: "a label conflicting with a rule",
			src:     `grammar G; a : x=A ; x : B ;`,
			errs:    []*SemanticError{semErrLabelConflictsWithRule},
		},
		{
			caption: "a label conflicting with a token",
			src:     `grammar G; tokens { X } a : X=B ;`,
			errs:    []*SemanticError{semErrLabelConflictsWithToken},
		},
		{
			caption: "a label with two types",
			src:     `grammar G; a : x=A x=b ; b : B ;`,
			errs:    []*SemanticError{semErrLabelTypeConflict},
		},
		{
			caption: "a label on a block",
			src:     `grammar G; a : x=(A B) ;`,
			errs:    []*SemanticError{semErrLabelBlockNotASet},
		},
		{
			caption: "an alternative label conflicting with a rule",
			src:     `grammar G; a : A # b | B # c ; b : C ;`,
			errs:    []*SemanticError{semErrAltLabelConflictsWithRule},
		},
		{
			caption: "an alternative label used in two rules",
			src:     `grammar G; a : A # x | B # y ; b : C # x | D # z ;`,
			errs:    []*SemanticError{semErrAltLabelRedefined},
		},
		{
			caption: "an alternative label repeated in one rule",
			src:     `grammar G; a : A # x | B # x ;`,
		},
		{
			caption: "a rule with some unlabeled alternatives",
			src:     `grammar G; a : A # x | B ;`,
			errs:    []*SemanticError{semErrTooFewAltLabels},
		},
		{
			caption: "a mode in a combined grammar",
			src:     `grammar G; a : A ; mode M; B : 'b' ;`,
			errs:    []*SemanticError{semErrModeOutsideLexer},
		},
		{
			caption: "a duplicate mode",
			src:     `lexer grammar L; mode M; A : 'a' ; mode M; B : 'b' ;`,
			errs:    []*SemanticError{semErrDuplicateMode},
		},
		{
			caption: "channels in a combined grammar",
			src:     `grammar G; channels { C } a : A ;`,
			errs:    []*SemanticError{semErrChannelsOutsideLexer},
		},
		{
			caption: "an empty string literal in a lexer rule",
			src:     `lexer grammar L; A : '' ;`,
			errs:    []*SemanticError{semErrEmptyStringLiteral},
		},
		{
			caption: "an invalid escape sequence",
			src:     `lexer grammar L; A : '\q' ;`,
			errs:    []*SemanticError{semErrInvalidStringLiteral},
		},
		{
			caption: "a string literal in a parser grammar",
			src:     `parser grammar P; a : 'x' ;`,
			errs:    []*SemanticError{semErrImplicitStringLiteral},
		},
		{
			caption: "a range in a parser rule",
			src:     `grammar G; a : 'a'..'z' ;`,
			errs:    []*SemanticError{semErrRangeInParser},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := parseGrammar(t, tt.src)
			_, errs := collect(t, g)
			require.Len(t, errs, len(tt.errs), "%v", errs)
			for i, err := range errs {
				var specErr *verr.SpecError
				require.ErrorAs(t, err, &specErr)
				assert.ErrorIs(t, specErr, tt.errs[i])
				assert.NotZero(t, specErr.Row)
			}
		})
	}
}

func TestCollect_ErrorsCarryRuleNames(t *testing.T) {
	g := parseGrammar(t, `grammar G;
a : b ;
c : d ;
`)
	_, errs := collect(t, g)
	require.Len(t, errs, 2)
	var first, second *verr.SpecError
	require.ErrorAs(t, errs[0], &first)
	require.ErrorAs(t, errs[1], &second)
	assert.Equal(t, "a", first.Rule)
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "b", first.Detail)
	assert.Equal(t, "c", second.Rule)
	assert.Equal(t, 3, second.Row)
}
