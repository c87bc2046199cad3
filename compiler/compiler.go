package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
	verr "github.com/nihei9/atnc/error"
	"github.com/nihei9/atnc/factory"
	"github.com/nihei9/atnc/grammar"
	"github.com/nihei9/atnc/spec"
	"github.com/nihei9/atnc/transform"
	"github.com/sirupsen/logrus"
)

type compileConfig struct {
	logger              logrus.FieldLogger
	sourceName          string
	showTransformations bool
	skipSetReduction    bool
}

type CompileOption func(config *compileConfig)

func WithLogger(logger logrus.FieldLogger) CompileOption {
	return func(config *compileConfig) {
		config.logger = logger
	}
}

// WithSourceName sets the name diagnostics refer to the grammar by, usually its file path.
func WithSourceName(name string) CompileOption {
	return func(config *compileConfig) {
		config.sourceName = name
	}
}

// ShowTransformations logs every block-set rewrite at debug level.
func ShowTransformations() CompileOption {
	return func(config *compileConfig) {
		config.showTransformations = true
	}
}

// SkipSetReduction builds the ATN from the blocks as written.
func SkipSetReduction() CompileOption {
	return func(config *compileConfig) {
		config.skipSetReduction = true
	}
}

// Result holds what Compile produced. For a combined grammar, Grammar, Symbols and ATN describe
// the parser and the Lexer fields describe the implicit lexer. For a lexer or a parser grammar
// the Lexer fields are nil.
type Result struct {
	Grammar *ast.Grammar
	Symbols *grammar.Symbols
	ATN     *atn.ATN

	Lexer        *ast.Grammar
	LexerSymbols *grammar.Symbols
	LexerATN     *atn.ATN

	Diagnostics verr.SpecErrors
}

// Compile parses a grammar, rewrites it, collects its symbols and builds its ATNs. The ATNs are
// built only when no diagnostic was reported before. When any diagnostic was reported, Compile
// returns them as verr.SpecErrors together with the partial Result.
func Compile(src io.Reader, opts ...CompileOption) (*Result, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		config.logger = l
	}

	text, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read the grammar: %w", err)
	}

	root, err := spec.Parse(bytes.NewReader(text))
	if err != nil {
		var specErr *verr.SpecError
		if errors.As(err, &specErr) {
			specErr.SourceName = config.sourceName
			specErr.Source = text
			config.logger.WithFields(logrus.Fields{
				"row": specErr.Row,
				"col": specErr.Col,
			}).Error(specErr.Cause)
			return nil, verr.SpecErrors{specErr}
		}
		return nil, err
	}
	g, err := ast.NewGrammar(root)
	if err != nil {
		return nil, err
	}
	g.FileName = config.sourceName
	logger := config.logger.WithField("grammar", g.Name)
	logger.Debugf("parsed a %v grammar", g.Type)

	if !config.skipSetReduction {
		topts := []transform.TransformOption{
			transform.WithLogger(config.logger),
		}
		if config.showTransformations {
			topts = append(topts, transform.ShowTransformations())
		}
		err := transform.ReduceBlocksToSets(g, topts...)
		if err != nil {
			return nil, fmt.Errorf("failed to reduce blocks to sets: %w", err)
		}
	}

	res := &Result{
		Grammar: g,
	}
	lexer, err := grammar.ExtractImplicitLexer(g)
	if err != nil {
		return nil, fmt.Errorf("failed to extract the implicit lexer: %w", err)
	}

	diags := newDiagnostics(logger, config.sourceName, text)
	var copts []grammar.CollectOption
	if lexer != nil {
		logger.Debugf("extracted the implicit lexer %v", lexer.Name)
		res.Lexer = lexer
		res.LexerSymbols, err = grammar.Collect(lexer, diags)
		if err != nil {
			return nil, err
		}
		copts = append(copts, grammar.ImportVocabulary(res.LexerSymbols))
	}
	res.Symbols, err = grammar.Collect(g, diags, copts...)
	if err != nil {
		return nil, err
	}
	for _, name := range res.Symbols.ImplicitTokens {
		logger.WithField("token", name).Warn("implicit token definition")
	}
	logger.Debugf("collected %v rules and %v token types", len(res.Symbols.Rules), res.Symbols.MaxTokenType)

	if len(diags.errs) > 0 {
		res.Diagnostics = diags.errs
		return res, diags.errs
	}

	if lexer != nil {
		res.LexerATN, err = factory.CreateATN(lexer, res.LexerSymbols, diags)
		if err != nil {
			return nil, err
		}
	}
	res.ATN, err = factory.CreateATN(g, res.Symbols, diags)
	if err != nil {
		return nil, err
	}
	logger.Debugf("built an ATN of %v states and %v decisions", res.ATN.NumberOfStates(), res.ATN.NumberOfDecisions())

	if len(diags.errs) > 0 {
		res.Diagnostics = diags.errs
		return res, diags.errs
	}
	return res, nil
}
