package compiler

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nihei9/atnc/atn"
	verr "github.com/nihei9/atnc/error"
	"github.com/nihei9/atnc/factory"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_CombinedGrammar(t *testing.T) {
	logger, hook := test.NewNullLogger()
	res, err := Compile(strings.NewReader(`
grammar G;
a : 'if' ID ;
ID : [a-z]+ ;
WS : ' ' -> skip ;
`), WithLogger(logger), WithSourceName("G.g4"))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Diagnostics)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level, e.Message)
	}

	require.NotNil(t, res.Lexer)
	assert.Equal(t, "GLexer", res.Lexer.Name)
	require.NotNil(t, res.LexerATN)
	assert.Equal(t, atn.GrammarTypeLexer, res.LexerATN.GrammarType)
	require.NotNil(t, res.ATN)
	assert.Equal(t, atn.GrammarTypeParser, res.ATN.GrammarType)

	desc := res.Describe()
	require.NotNil(t, desc)
	assert.Equal(t, "G", desc.Name)
	assert.Equal(t, "combined", desc.Type)
	require.Len(t, desc.ATN.Rules, 1)
	assert.Equal(t, "a", desc.ATN.Rules[0].Name)
	require.NotNil(t, desc.Lexer)
	var lexerRules []string
	for _, r := range desc.Lexer.Rules {
		lexerRules = append(lexerRules, r.Name)
	}
	assert.Equal(t, []string{"T__0", "ID", "WS"}, lexerRules)
	assert.Equal(t, []string{"skip"}, desc.Lexer.LexerActions)

	var labels []string
	for _, s := range desc.ATN.States {
		for _, tr := range s.Transitions {
			if tr.Label != "" {
				labels = append(labels, tr.Label)
			}
		}
	}
	assert.ElementsMatch(t, []string{"'if'", "ID", "EOF"}, labels)

	b, err := json.Marshal(desc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"grammar_type":"parser"`)
	assert.Contains(t, string(b), `"grammar_type":"lexer"`)
}

func TestCompile_Diagnostics(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
		rule    string
		row     int
		partial bool
		built   bool
	}{
		{
			caption: "a syntax error",
			src:     `grammar G; a : ( ;`,
			row:     1,
		},
		{
			caption: "a semantic error",
			src:     `grammar G; a : b ;`,
			rule:    "a",
			row:     1,
			partial: true,
		},
		{
			caption: "an error found while building the ATN",
			src: `lexer grammar L;
A : 'a' ;
B : 'z'..'b' ;`,
			cause:   factory.ErrEmptyRange,
			rule:    "B",
			row:     3,
			partial: true,
			built:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			res, err := Compile(strings.NewReader(tt.src), WithLogger(logger), WithSourceName("G.g4"), SkipSetReduction())
			require.Error(t, err)

			var specErrs verr.SpecErrors
			require.True(t, errors.As(err, &specErrs), "unexpected error: %v", err)
			require.Len(t, specErrs, 1)
			e := specErrs[0]
			if tt.cause != nil {
				assert.True(t, errors.Is(e, tt.cause), "unexpected error: %v", e)
			}
			assert.Equal(t, tt.rule, e.Rule)
			assert.Equal(t, tt.row, e.Row)
			assert.True(t, strings.HasPrefix(e.Error(), "G.g4: "), e.Error())

			var errEntries []*logrus.Entry
			for _, entry := range hook.AllEntries() {
				if entry.Level == logrus.ErrorLevel {
					errEntries = append(errEntries, entry)
				}
			}
			require.Len(t, errEntries, 1)
			assert.Equal(t, tt.row, errEntries[0].Data["row"])

			if !tt.partial {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.Equal(t, specErrs, res.Diagnostics)
			assert.Equal(t, tt.rule, errEntries[0].Data["rule"])
			if tt.built {
				assert.NotNil(t, res.ATN)
			} else {
				assert.Nil(t, res.ATN)
				assert.Nil(t, res.Describe())
			}
		})
	}
}

func TestCompile_ImplicitTokens(t *testing.T) {
	logger, hook := test.NewNullLogger()
	res, err := Compile(strings.NewReader(`parser grammar P; a : A B ;`), WithLogger(logger))
	require.NoError(t, err)
	assert.Nil(t, res.Lexer)
	assert.NotNil(t, res.ATN)

	var tokens []interface{}
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			tokens = append(tokens, e.Data["token"])
			assert.Equal(t, "P", e.Data["grammar"])
		}
	}
	assert.Equal(t, []interface{}{"A", "B"}, tokens)
}

func TestCompile_SetReduction(t *testing.T) {
	src := `lexer grammar L; A : 'a' | 'b' ;`

	res, err := Compile(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ATN.NumberOfDecisions())

	res, err = Compile(strings.NewReader(src), SkipSetReduction())
	require.NoError(t, err)
	assert.Equal(t, 2, res.ATN.NumberOfDecisions())
}

func TestCompile_ShowTransformations(t *testing.T) {
	src := `lexer grammar L; A : 'a' | 'b' ;`
	rewrite := `(BLOCK (ALT 'a') (ALT 'b')) -> (BLOCK (ALT (SET 'a' 'b')))`

	messages := func(opts ...CompileOption) []string {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		_, err := Compile(strings.NewReader(src), append(opts, WithLogger(logger))...)
		require.NoError(t, err)
		var msgs []string
		for _, e := range hook.AllEntries() {
			msgs = append(msgs, e.Message)
		}
		return msgs
	}

	assert.Contains(t, messages(ShowTransformations()), rewrite)
	assert.NotContains(t, messages(), rewrite)
}
