package tree

import (
	"testing"

	"github.com/nihei9/atnc/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWalker matches `^(RULES ^(RULE ID INT)*)` and records the names of the rules it accepted.
type testWalker struct {
	*Recognizer
	seen []string
}

func (w *testWalker) rules() {
	start := w.Index()
	defer w.EndRule("rules", start)

	w.Match(ast.KindRules)
	if w.Failed() {
		return
	}
	w.Match(ast.KindDown)
	if w.Failed() {
		return
	}
	for w.LA(1) == ast.KindRule {
		w.rule()
		if w.Failed() {
			return
		}
	}
	w.Match(ast.KindUp)
}

func (w *testWalker) rule() {
	start := w.Index()
	defer w.EndRule("rule", start)

	w.Match(ast.KindRule)
	if w.Failed() {
		return
	}
	w.Match(ast.KindDown)
	if w.Failed() {
		return
	}
	name := w.Match(ast.KindID)
	if w.Failed() {
		return
	}
	w.Match(ast.KindInt)
	if w.Failed() {
		return
	}
	w.Match(ast.KindUp)
	if w.Failed() {
		return
	}
	w.seen = append(w.seen, name.Text)
}

func ruleNode(name string, withInt bool) *ast.Node {
	r := ast.New(ast.KindRule, "RULE", ast.New(ast.KindID, name))
	if withInt {
		r.AddChild(ast.New(ast.KindInt, "1"))
	}
	return r
}

func TestRecognizer_Recovery(t *testing.T) {
	root := ast.New(ast.KindRules, "RULES",
		ruleNode("a", true),
		ruleNode("b", true),
		ruleNode("c", false),
		ruleNode("d", true),
		ruleNode("e", true),
	)
	w := &testWalker{
		Recognizer: NewRecognizer(NewNodeStream(root)),
	}
	var errs []error
	w.SetErrorReporter(ErrorReporterFunc(func(err error) {
		errs = append(errs, err)
	}))

	w.rules()

	assert.False(t, w.Failed())
	assert.Equal(t, []string{"a", "b", "d", "e"}, w.seen)
	assert.Equal(t, ast.KindEOF, w.LA(1))
	require.Len(t, errs, 1)
	assert.Equal(t, 1, w.ErrorCount())

	var recErr *RecognitionError
	require.ErrorAs(t, errs[0], &recErr)
	assert.ErrorIs(t, recErr, ErrMismatchedToken)
	assert.Equal(t, "rule", recErr.Rule)
	assert.Equal(t, ast.KindUp, recErr.Node.Kind)
	assert.Equal(t, []ast.Kind{ast.KindInt}, recErr.Expected)
}

func TestRecognizer_Speculate(t *testing.T) {
	tests := []struct {
		caption string
		root    *ast.Node
		ok      bool
	}{
		{
			caption: "a successful speculation leaves the stream where it was",
			root:    ruleNode("a", true),
			ok:      true,
		},
		{
			caption: "a failed speculation neither reports nor leaves the walker failed",
			root:    ruleNode("a", false),
			ok:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			w := &testWalker{
				Recognizer: NewRecognizer(NewNodeStream(tt.root)),
			}
			reported := 0
			w.SetErrorReporter(ErrorReporterFunc(func(err error) {
				reported++
			}))

			w.Input().Consume()
			ok := w.Speculate(func() {
				w.Input().Seek(0)
				w.rule()
			})

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, 1, w.Index())
			assert.Equal(t, 0, w.Backtracking())
			assert.False(t, w.Failed())
			assert.Zero(t, reported)
		})
	}
}

func TestRecognizer_Filter(t *testing.T) {
	w := &testWalker{
		Recognizer: NewRecognizer(NewNodeStream(ruleNode("a", false))),
	}
	reported := 0
	w.SetErrorReporter(ErrorReporterFunc(func(err error) {
		reported++
	}))
	w.SetBacktracking(1)

	w.rule()

	assert.True(t, w.Failed())
	assert.Zero(t, reported)
	assert.Empty(t, w.seen)
}

func TestRecognizer_MatchAny(t *testing.T) {
	root := ast.New(ast.KindAlt, "ALT", ruleNode("a", true), ast.New(ast.KindInt, "2"))
	r := NewRecognizer(NewNodeStream(root))

	r.Match(ast.KindAlt)
	r.Match(ast.KindDown)
	n := r.MatchAny()
	require.NotNil(t, n)
	assert.Equal(t, ast.KindRule, n.Kind)
	assert.Equal(t, ast.KindInt, r.LA(1))
	r.MatchAny()
	assert.Equal(t, ast.KindUp, r.LA(1))

	assert.Nil(t, r.MatchAny())
	assert.True(t, r.Failed())
}

func TestRecognizer_NoInput(t *testing.T) {
	r := NewRecognizer(nil)
	err := catchFatal(func() {
		r.LA(1)
	})
	assert.ErrorIs(t, err, ErrNoInput)
}
