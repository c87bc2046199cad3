package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	verr "github.com/nihei9/atnc/error"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindKWGrammar   = tokenKind("grammar")
	tokenKindKWLexer     = tokenKind("lexer")
	tokenKindKWParser    = tokenKind("parser")
	tokenKindKWOptions   = tokenKind("options {")
	tokenKindKWTokens    = tokenKind("tokens {")
	tokenKindKWChannels  = tokenKind("channels {")
	tokenKindKWImport    = tokenKind("import")
	tokenKindKWFragment  = tokenKind("fragment")
	tokenKindKWReturns   = tokenKind("returns")
	tokenKindKWThrows    = tokenKind("throws")
	tokenKindKWLocals    = tokenKind("locals")
	tokenKindKWCatch     = tokenKind("catch")
	tokenKindKWFinally   = tokenKind("finally")
	tokenKindKWMode      = tokenKind("mode")
	tokenKindKWPublic    = tokenKind("public")
	tokenKindKWPrivate   = tokenKind("private")
	tokenKindKWProtected = tokenKind("protected")
	tokenKindTokenRef    = tokenKind("token reference")
	tokenKindRuleRef     = tokenKind("rule reference")
	tokenKindInt         = tokenKind("integer")
	tokenKindString      = tokenKind("string literal")
	tokenKindAction      = tokenKind("action")
	tokenKindBracket     = tokenKind("bracket")
	tokenKindColonColon  = tokenKind("::")
	tokenKindColon       = tokenKind(":")
	tokenKindSemicolon   = tokenKind(";")
	tokenKindOr          = tokenKind("|")
	tokenKindLParen      = tokenKind("(")
	tokenKindRParen      = tokenKind(")")
	tokenKindQuestion    = tokenKind("?")
	tokenKindStar        = tokenKind("*")
	tokenKindPlusAssign  = tokenKind("+=")
	tokenKindPlus        = tokenKind("+")
	tokenKindAssign      = tokenKind("=")
	tokenKindTilde       = tokenKind("~")
	tokenKindRange       = tokenKind("..")
	tokenKindDot         = tokenKind(".")
	tokenKindPound       = tokenKind("#")
	tokenKindComma       = tokenKind(",")
	tokenKindLT          = tokenKind("<")
	tokenKindGT          = tokenKind(">")
	tokenKindAt          = tokenKind("@")
	tokenKindRArrow      = tokenKind("->")
	tokenKindRBrace      = tokenKind("}")
	tokenKindEOF         = tokenKind("eof")
	tokenKindInvalid     = tokenKind("invalid")
)

func (k tokenKind) String() string {
	return string(k)
}

type token struct {
	kind tokenKind
	text string
	row  int
	col  int
}

const (
	modeAction  = mlspec.LexModeName("action")
	modeBracket = mlspec.LexModeName("bracket")
)

// kindToToken maps the lexical kinds that become a token as they are.
var kindToToken = map[mlspec.LexKindName]tokenKind{
	"kw_grammar":   tokenKindKWGrammar,
	"kw_lexer":     tokenKindKWLexer,
	"kw_parser":    tokenKindKWParser,
	"kw_options":   tokenKindKWOptions,
	"kw_tokens":    tokenKindKWTokens,
	"kw_channels":  tokenKindKWChannels,
	"kw_import":    tokenKindKWImport,
	"kw_fragment":  tokenKindKWFragment,
	"kw_returns":   tokenKindKWReturns,
	"kw_throws":    tokenKindKWThrows,
	"kw_locals":    tokenKindKWLocals,
	"kw_catch":     tokenKindKWCatch,
	"kw_finally":   tokenKindKWFinally,
	"kw_mode":      tokenKindKWMode,
	"kw_public":    tokenKindKWPublic,
	"kw_private":   tokenKindKWPrivate,
	"kw_protected": tokenKindKWProtected,
	"token_ref":    tokenKindTokenRef,
	"rule_ref":     tokenKindRuleRef,
	"int":          tokenKindInt,
	"string":       tokenKindString,
	"colon_colon":  tokenKindColonColon,
	"colon":        tokenKindColon,
	"semicolon":    tokenKindSemicolon,
	"or":           tokenKindOr,
	"l_paren":      tokenKindLParen,
	"r_paren":      tokenKindRParen,
	"question":     tokenKindQuestion,
	"star":         tokenKindStar,
	"plus_assign":  tokenKindPlusAssign,
	"plus":         tokenKindPlus,
	"assign":       tokenKindAssign,
	"tilde":        tokenKindTilde,
	"range":        tokenKindRange,
	"dot":          tokenKindDot,
	"pound":        tokenKindPound,
	"comma":        tokenKindComma,
	"lt":           tokenKindLT,
	"gt":           tokenKindGT,
	"at":           tokenKindAt,
	"r_arrow":      tokenKindRArrow,
	"r_brace":      tokenKindRBrace,
}

// newLexSpec returns the lexical specification of the grammar text. Entries defined earlier win
// ties, so the keywords precede the identifiers.
func newLexSpec() *mlspec.LexSpec {
	entry := func(kind, pattern string) *mlspec.LexEntry {
		return &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind),
			Pattern: mlspec.LexPattern(pattern),
		}
	}
	kw := func(word string) *mlspec.LexEntry {
		return entry("kw_"+word, mlspec.EscapePattern(word))
	}
	// `options`, `tokens` and `channels` take their opening brace with them so that the body
	// is lexed as grammar text rather than as an action.
	kwBrace := func(word string) *mlspec.LexEntry {
		return entry("kw_"+word, mlspec.EscapePattern(word)+`[\u{0009}\u{000A}\u{000D}\u{0020}]*\u{007B}`)
	}

	entries := []*mlspec.LexEntry{
		entry("white_space", `[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
		entry("line_comment", `//[^\u{000A}]*`),
		entry("block_comment", `/\*([^*]|\*+[^*/])*\*+/`),
		kw("grammar"),
		kw("lexer"),
		kw("parser"),
		kwBrace("options"),
		kwBrace("tokens"),
		kwBrace("channels"),
		kw("import"),
		kw("fragment"),
		kw("returns"),
		kw("throws"),
		kw("locals"),
		kw("catch"),
		kw("finally"),
		kw("mode"),
		kw("public"),
		kw("private"),
		kw("protected"),
		entry("token_ref", `[A-Z][0-9A-Za-z_]*`),
		entry("rule_ref", `[a-z][0-9A-Za-z_]*`),
		entry("int", `[0-9]+`),
		entry("string", `'([^'\u{005C}\u{000A}\u{000D}]|\u{005C}[^\u{000A}\u{000D}])*'`),
		entry("colon_colon", `::`),
		entry("colon", `:`),
		entry("semicolon", `;`),
		entry("or", `\|`),
		entry("l_paren", `\(`),
		entry("r_paren", `\)`),
		entry("question", `\?`),
		entry("star", `\*`),
		entry("plus_assign", `\+=`),
		entry("plus", `\+`),
		entry("assign", `=`),
		entry("tilde", `~`),
		entry("range", `\.\.`),
		entry("dot", `\.`),
		entry("pound", `#`),
		entry("comma", `,`),
		entry("lt", `<`),
		entry("gt", `>`),
		entry("at", `@`),
		entry("r_arrow", `->`),
		entry("r_brace", `\u{007D}`),
		{
			Modes:   []mlspec.LexModeName{mlspec.LexModeNameDefault, modeAction},
			Kind:    "action_open",
			Pattern: `\u{007B}`,
			Push:    modeAction,
		},
		{
			Modes:   []mlspec.LexModeName{modeAction},
			Kind:    "action_text",
			Pattern: `[^\u{007B}\u{007D}]+`,
		},
		{
			Modes:   []mlspec.LexModeName{modeAction},
			Kind:    "action_close",
			Pattern: `\u{007D}`,
			Pop:     true,
		},
		{
			Kind:    "bracket_open",
			Pattern: `\u{005B}`,
			Push:    modeBracket,
		},
		{
			Modes:   []mlspec.LexModeName{modeBracket},
			Kind:    "bracket_text",
			Pattern: `([^\u{005C}\u{005D}]|\u{005C}[^\u{000A}\u{000D}])+`,
		},
		{
			Modes:   []mlspec.LexModeName{modeBracket},
			Kind:    "bracket_close",
			Pattern: `\u{005D}`,
			Pop:     true,
		},
	}

	return &mlspec.LexSpec{
		Name:    "atnc_grammar",
		Entries: entries,
	}
}

var (
	lexSpecOnce     sync.Once
	compiledLexSpec *mlspec.CompiledLexSpec
	lexSpecErr      error
)

func loadLexSpec() (*mlspec.CompiledLexSpec, error) {
	lexSpecOnce.Do(func() {
		s, err, cErrs := mlcompiler.Compile(newLexSpec(), mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				writeCompileError(&b, cErrs[0])
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n")
					writeCompileError(&b, cerr)
				}
				lexSpecErr = fmt.Errorf("%s", b.String())
				return
			}
			lexSpecErr = err
			return
		}
		compiledLexSpec = s
	})
	return compiledLexSpec, lexSpecErr
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

type lexer struct {
	s *mlspec.CompiledLexSpec
	d *mldriver.Lexer
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := loadLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	var kind mlspec.LexKindName
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.Invalid {
			return &token{
				kind: tokenKindInvalid,
				text: string(tok.Lexeme),
				row:  tok.Row + 1,
				col:  tok.Col + 1,
			}, nil
		}
		if tok.EOF {
			return &token{
				kind: tokenKindEOF,
				row:  tok.Row + 1,
				col:  tok.Col + 1,
			}, nil
		}
		kind = l.s.KindNames[tok.KindID]
		switch kind {
		case "white_space", "line_comment", "block_comment":
			continue
		}
		break
	}

	row, col := tok.Row+1, tok.Col+1
	switch kind {
	case "action_open":
		text, err := l.readAction(row, col)
		if err != nil {
			return nil, err
		}
		return &token{
			kind: tokenKindAction,
			text: text,
			row:  row,
			col:  col,
		}, nil
	case "bracket_open":
		text, err := l.readBracket(row, col)
		if err != nil {
			return nil, err
		}
		return &token{
			kind: tokenKindBracket,
			text: text,
			row:  row,
			col:  col,
		}, nil
	}

	if k, ok := kindToToken[kind]; ok {
		return &token{
			kind: k,
			text: string(tok.Lexeme),
			row:  row,
			col:  col,
		}, nil
	}
	return &token{
		kind: tokenKindInvalid,
		text: string(tok.Lexeme),
		row:  row,
		col:  col,
	}, nil
}

// readAction reads the rest of an action whose `{` has been consumed. Nested braces are kept,
// and the returned text includes the outermost braces.
func (l *lexer) readAction(row, col int) (string, error) {
	var b strings.Builder
	b.WriteString("{")
	depth := 1
	for {
		tok, err := l.d.Next()
		if err != nil {
			return "", err
		}
		if tok.EOF || tok.Invalid {
			return "", &verr.SpecError{
				Cause: synErrUnclosedAction,
				Row:   row,
				Col:   col,
			}
		}
		b.Write(tok.Lexeme)
		switch l.s.KindNames[tok.KindID] {
		case "action_open":
			depth++
		case "action_close":
			depth--
			if depth == 0 {
				return b.String(), nil
			}
		}
	}
}

// readBracket reads the rest of a `[...]` group whose `[` has been consumed. The returned text
// includes the brackets.
func (l *lexer) readBracket(row, col int) (string, error) {
	var b strings.Builder
	b.WriteString("[")
	for {
		tok, err := l.d.Next()
		if err != nil {
			return "", err
		}
		if tok.EOF || tok.Invalid {
			return "", &verr.SpecError{
				Cause: synErrUnclosedBracket,
				Row:   row,
				Col:   col,
			}
		}
		b.Write(tok.Lexeme)
		if l.s.KindNames[tok.KindID] == "bracket_close" {
			return b.String(), nil
		}
	}
}
