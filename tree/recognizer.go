package tree

import (
	"github.com/nihei9/atnc/ast"
)

// Recognizer is the state shared by tree walkers. A walker embeds it and writes one method per
// rule. A rule that fails to match sets the failed flag and returns; callers check Failed after
// every call and give up the same way. Errors are reported once per rule at backtracking depth
// zero, and the rule resynchronizes by skipping the subtree it started on.
//
// A rule follows the pattern:
//
//	func (w *walker) rule() *ast.Node {
//		start := w.Index()
//		defer w.EndRule("rule", start)
//		...
//	}
type Recognizer struct {
	in           *NodeStream
	reporter     ErrorReporter
	backtracking int
	failed       bool

	// errorRecovery suppresses error cascades until a node is matched.
	errorRecovery bool

	// err is the pending error of the innermost failing rule.
	err error

	// errs counts the reported errors.
	errs int
}

func NewRecognizer(in *NodeStream) *Recognizer {
	return &Recognizer{
		in: in,
	}
}

// SetInput replaces the input stream and clears the recognition state.
func (r *Recognizer) SetInput(in *NodeStream) {
	r.in = in
	r.failed = false
	r.errorRecovery = false
	r.err = nil
}

func (r *Recognizer) Input() *NodeStream {
	if r.in == nil {
		raiseFatal(ErrNoInput, "")
	}
	return r.in
}

// SetErrorReporter sets the sink of recovered errors. Without a reporter errors are only counted.
func (r *Recognizer) SetErrorReporter(rep ErrorReporter) {
	r.reporter = rep
}

func (r *Recognizer) Backtracking() int {
	return r.backtracking
}

// SetBacktracking sets the speculation depth. A walker that runs as a filter sets it to 1 so
// that no error is reported.
func (r *Recognizer) SetBacktracking(n int) {
	r.backtracking = n
}

func (r *Recognizer) Failed() bool {
	return r.failed
}

// ErrorCount returns the number of errors reported so far.
func (r *Recognizer) ErrorCount() int {
	return r.errs
}

func (r *Recognizer) Index() int {
	return r.Input().Index()
}

func (r *Recognizer) LT(k int) *ast.Node {
	return r.Input().LT(k)
}

func (r *Recognizer) LA(k int) ast.Kind {
	return r.Input().LA(k)
}

// Match consumes LT(1) when it has kind k. Otherwise the rule fails.
func (r *Recognizer) Match(k ast.Kind) *ast.Node {
	n := r.LT(1)
	if n.Kind == k {
		r.Input().Consume()
		r.errorRecovery = false
		return n
	}
	r.raise(&RecognitionError{
		Cause:    ErrMismatchedToken,
		Decision: -1,
		Node:     n,
		Index:    r.Index(),
		Expected: []ast.Kind{k},
	})
	return nil
}

// MatchSet consumes LT(1) when it has one of the kinds. Otherwise the rule fails.
func (r *Recognizer) MatchSet(kinds ...ast.Kind) *ast.Node {
	n := r.LT(1)
	for _, k := range kinds {
		if n.Kind == k {
			r.Input().Consume()
			r.errorRecovery = false
			return n
		}
	}
	r.raise(&RecognitionError{
		Cause:    ErrMismatchedSet,
		Decision: -1,
		Node:     n,
		Index:    r.Index(),
		Expected: kinds,
	})
	return nil
}

// MatchAny consumes LT(1) and its whole subtree.
func (r *Recognizer) MatchAny() *ast.Node {
	n := r.LT(1)
	switch n.Kind {
	case ast.KindUp, ast.KindEOF:
		r.raise(&RecognitionError{
			Cause:    ErrMismatchedToken,
			Decision: -1,
			Node:     n,
			Index:    r.Index(),
		})
		return nil
	}
	r.Input().SkipSubtree()
	r.errorRecovery = false
	return n
}

// NoViableAlt fails the rule at decision d.
func (r *Recognizer) NoViableAlt(d int) {
	r.raise(&RecognitionError{
		Cause:    ErrNoViableAlt,
		Decision: d,
		Node:     r.LT(1),
		Index:    r.Index(),
	})
}

// EarlyExit fails the rule when a `(...)+` loop at decision d matched nothing.
func (r *Recognizer) EarlyExit(d int) {
	r.raise(&RecognitionError{
		Cause:    ErrEarlyExit,
		Decision: d,
		Node:     r.LT(1),
		Index:    r.Index(),
	})
}

// FailedPredicate fails the rule because a semantic predicate does not hold.
func (r *Recognizer) FailedPredicate() {
	r.raise(&RecognitionError{
		Cause:    ErrFailedPredicate,
		Decision: -1,
		Node:     r.LT(1),
		Index:    r.Index(),
	})
}

func (r *Recognizer) raise(err *RecognitionError) {
	r.failed = true
	if r.backtracking > 0 {
		return
	}
	if r.err == nil {
		r.err = err
	}
}

// EndRule finishes a rule that started at stream index start. When the rule failed outside
// speculation, it reports the pending error, skips the subtree the rule started on, and clears
// the failure so the caller can go on.
func (r *Recognizer) EndRule(rule string, start int) {
	if !r.failed || r.backtracking > 0 {
		return
	}
	if r.err != nil {
		if e, ok := r.err.(*RecognitionError); ok && e.Rule == "" {
			e.Rule = rule
		}
		r.report(r.err)
		r.err = nil
	}
	in := r.Input()
	in.Seek(start)
	in.SkipSubtree()
	r.failed = false
}

func (r *Recognizer) report(err error) {
	if r.errorRecovery {
		return
	}
	r.errorRecovery = true
	r.errs++
	if r.reporter != nil {
		r.reporter.ReportError(err)
	}
}

// Speculate runs fn without side effects on the stream position and reports whether fn
// matched. Errors raised inside fn are not reported.
func (r *Recognizer) Speculate(fn func()) bool {
	in := r.Input()
	r.backtracking++
	m := in.Mark()
	fn()
	ok := !r.failed
	in.Rewind(m)
	r.backtracking--
	r.failed = false
	return ok
}
