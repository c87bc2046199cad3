package grammar

import (
	"strconv"

	"github.com/antlr4-go/antlr/v4"
	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/visitor"
)

const (
	// TokenNameEOF is the predefined name of the EOF token.
	TokenNameEOF = "EOF"

	ChannelNameDefault = "DEFAULT_TOKEN_CHANNEL"
	ChannelNameHidden  = "HIDDEN"

	// minUserChannelValue is the value of the first channel a `channels {...}` defines.
	minUserChannelValue = 2

	implicitTokenPrefix = "T__"
)

type LabelType string

const (
	LabelTypeRule        = LabelType("rule")
	LabelTypeToken       = LabelType("token")
	LabelTypeRuleList    = LabelType("rule list")
	LabelTypeTokenList   = LabelType("token list")
	LabelTypeLexerString = LabelType("lexer string")
)

func (t LabelType) String() string {
	return string(t)
}

// Label is a `x=` or `x+=` label of an element.
type Label struct {
	Name    string
	Type    LabelType
	Node    *ast.Node
	Element *ast.Node
}

// LexerCommand is one `-> cmd` or `-> cmd(arg)` of a lexer rule alternative.
type LexerCommand struct {
	Alt  int
	Name string
	Node *ast.Node

	// Arg is nil when the command has no argument.
	Arg *ast.Node
}

// Lexer commands mapped to whether they take an argument.
var lexerCommands = map[string]bool{
	"skip":     false,
	"more":     false,
	"popMode":  false,
	"mode":     true,
	"pushMode": true,
	"type":     true,
	"channel":  true,
}

type Rule struct {
	Name  string
	Index int
	AST   *ast.Node
	Block *ast.Node

	IsLexer    bool
	IsFragment bool

	// Mode is the lexer mode the rule belongs to. It is empty for parser rules.
	Mode string

	Modifiers    []string
	Arg          string
	Returns      string
	Locals       string
	Options      map[string]string
	NamedActions map[string]*ast.Node
	Catches      []*ast.Node
	Finally      *ast.Node

	NumberOfAlts int

	// AltLabels maps each `#label` to the outer alternatives carrying it.
	AltLabels map[string][]int

	Labels   map[string]*Label
	Actions  []*ast.Node
	Commands []*LexerCommand
}

func newRule(name string, t *ast.Node, block *ast.Node) *Rule {
	return &Rule{
		Name:         name,
		Index:        -1,
		AST:          t,
		Block:        block,
		Options:      map[string]string{},
		NamedActions: map[string]*ast.Node{},
		AltLabels:    map[string][]int{},
		Labels:       map[string]*Label{},
	}
}

// IsTokenRule reports whether the rule is a non-fragment lexer rule, that is, a rule the lexer
// can emit a token with.
func (r *Rule) IsTokenRule() bool {
	return r.IsLexer && !r.IsFragment
}

// Symbols is the symbol table of a grammar.
type Symbols struct {
	Grammar *ast.Grammar

	// Rules holds the rules in definition order. Rules[i].Index == i.
	Rules []*Rule
	rules map[string]*Rule

	// Modes holds the lexer modes in definition order. Modes[0] is DEFAULT_MODE.
	Modes []string

	Options      map[string]string
	NamedActions map[string]*ast.Node
	Imports      []string

	Channels map[string]int

	// TokenNames is indexed by token type. The names of the undefined types are empty.
	TokenNames   []string
	TokenTypes   map[string]int
	Literals     map[string]int
	MaxTokenType int

	// ImplicitTokens holds the token names that only references define.
	ImplicitTokens []string

	// Actions and Predicates hold the actions and predicates in alternatives, in the order they
	// appear. The ATN refers to them by index.
	Actions    []*ast.Node
	Predicates []*ast.Node

	elementOptions map[*ast.Node]map[string]string
}

func newSymbols(g *ast.Grammar) *Symbols {
	return &Symbols{
		Grammar:      g,
		rules:        map[string]*Rule{},
		Modes:        []string{visitor.DefaultModeName},
		Options:      map[string]string{},
		NamedActions: map[string]*ast.Node{},
		Channels: map[string]int{
			ChannelNameDefault: antlr.LexerDefaultTokenChannel,
			ChannelNameHidden:  antlr.LexerHidden,
		},
		TokenNames: make([]string, antlr.TokenMinUserTokenType),
		TokenTypes: map[string]int{
			TokenNameEOF: antlr.TokenEOF,
		},
		Literals:       map[string]int{},
		MaxTokenType:   antlr.TokenMinUserTokenType - 1,
		elementOptions: map[*ast.Node]map[string]string{},
	}
}

func (s *Symbols) Rule(name string) (*Rule, bool) {
	r, ok := s.rules[name]
	return r, ok
}

func (s *Symbols) addRule(r *Rule) {
	r.Index = len(s.Rules)
	s.Rules = append(s.Rules, r)
	s.rules[r.Name] = r
}

// LexerRules returns the lexer rules of mode in definition order.
func (s *Symbols) LexerRules(mode string) []*Rule {
	var rules []*Rule
	for _, r := range s.Rules {
		if r.IsLexer && r.Mode == mode {
			rules = append(rules, r)
		}
	}
	return rules
}

// TokenType returns the type of a token name, or antlr.TokenInvalidType when the name is unknown.
func (s *Symbols) TokenType(name string) int {
	if t, ok := s.TokenTypes[name]; ok {
		return t
	}
	return antlr.TokenInvalidType
}

// LiteralType returns the type of the token a string literal such as `'x'` stands for, or
// antlr.TokenInvalidType.
func (s *Symbols) LiteralType(literal string) int {
	if t, ok := s.Literals[literal]; ok {
		return t
	}
	return antlr.TokenInvalidType
}

// TokenDisplayName returns the name of a token type for messages and descriptions. A literal
// standing for the type wins over the token name.
func (s *Symbols) TokenDisplayName(ttype int) string {
	if ttype == antlr.TokenEOF {
		return TokenNameEOF
	}
	for _, lit := range sortedKeys(s.Literals) {
		if s.Literals[lit] == ttype {
			return lit
		}
	}
	if ttype > 0 && ttype < len(s.TokenNames) && s.TokenNames[ttype] != "" {
		return s.TokenNames[ttype]
	}
	return strconv.Itoa(ttype)
}

func (s *Symbols) defineTokenName(name string) int {
	if t, ok := s.TokenTypes[name]; ok {
		return t
	}
	s.MaxTokenType++
	t := s.MaxTokenType
	s.TokenTypes[name] = t
	s.setTokenName(t, name)
	return t
}

func (s *Symbols) defineTokenNameWithType(name string, t int) {
	if _, ok := s.TokenTypes[name]; ok {
		return
	}
	s.TokenTypes[name] = t
	s.setTokenName(t, name)
	if t > s.MaxTokenType {
		s.MaxTokenType = t
	}
}

func (s *Symbols) setTokenName(t int, name string) {
	if t < 0 {
		return
	}
	for len(s.TokenNames) <= t {
		s.TokenNames = append(s.TokenNames, "")
	}
	s.TokenNames[t] = name
}

func (s *Symbols) defineStringLiteral(literal string, t int) {
	if _, ok := s.Literals[literal]; ok {
		return
	}
	s.Literals[literal] = t
}

// importVocabulary copies the token names, the literals and the channels of vocab.
func (s *Symbols) importVocabulary(vocab *Symbols) {
	for t, name := range vocab.TokenNames {
		if name == "" {
			continue
		}
		s.defineTokenNameWithType(name, t)
	}
	if vocab.MaxTokenType > s.MaxTokenType {
		s.MaxTokenType = vocab.MaxTokenType
	}
	for lit, t := range vocab.Literals {
		s.defineStringLiteral(lit, t)
	}
	for name, v := range vocab.Channels {
		s.Channels[name] = v
	}
}

// ModeIndex returns the index of a mode in Modes.
func (s *Symbols) ModeIndex(name string) (int, bool) {
	for i, m := range s.Modes {
		if m == name {
			return i, true
		}
	}
	return 0, false
}

// ActionIndex returns the index of an action in Actions, or -1.
func (s *Symbols) ActionIndex(action *ast.Node) int {
	return indexOf(s.Actions, action)
}

// PredicateIndex returns the index of a predicate in Predicates, or -1.
func (s *Symbols) PredicateIndex(pred *ast.Node) int {
	return indexOf(s.Predicates, pred)
}

func indexOf(nodes []*ast.Node, n *ast.Node) int {
	for i, m := range nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// ElementOptions returns the `<...>` options of an element. Options without a value map to "".
func (s *Symbols) ElementOptions(element *ast.Node) map[string]string {
	return s.elementOptions[element]
}

// CommandArgValue resolves the argument of a lexer command to the value the ATN carries: a mode
// index for `mode` and `pushMode`, a token type for `type` and a channel for `channel`.
func (s *Symbols) CommandArgValue(cmd string, arg *ast.Node) (int, error) {
	if arg == nil {
		return 0, semErrMissingCommandArg
	}
	if arg.Kind == ast.KindInt {
		return strconv.Atoi(arg.Text)
	}
	switch cmd {
	case "mode", "pushMode":
		i, ok := s.ModeIndex(arg.Text)
		if !ok {
			return 0, semErrUndefinedMode
		}
		return i, nil
	case "type":
		t, ok := s.TokenTypes[arg.Text]
		if !ok {
			return 0, semErrUndefinedTokenType
		}
		return t, nil
	case "channel":
		v, ok := s.Channels[arg.Text]
		if !ok {
			return 0, semErrUndefinedChannel
		}
		return v, nil
	}
	return 0, semErrUnexpectedCommandArg
}
