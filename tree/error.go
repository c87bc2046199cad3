package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nihei9/atnc/ast"
)

// Recognition errors. A walker recovers from them.
var (
	ErrNoViableAlt     = errors.New("no viable alternative")
	ErrEarlyExit       = errors.New("required (...)+ loop did not match anything")
	ErrMismatchedSet   = errors.New("mismatched input set")
	ErrMismatchedToken = errors.New("mismatched input")
	ErrFailedPredicate = errors.New("failed predicate")
)

// Fatal faults. They are raised with panic and never recovered by a walker rule.
var (
	ErrInvalidSeek        = errors.New("invalid seek")
	ErrStaleMarker        = errors.New("stale or unknown marker")
	ErrRewriteEmptyStream = errors.New("rewrite stream has no elements")
	ErrRewriteCardinality = errors.New("rewrite stream size mismatch")
	ErrRewriteNotDrained  = errors.New("rewrite stream was not drained")
	ErrNoInput            = errors.New("walker has no input stream")
)

// RecognitionError describes a mismatch found by a walker rule.
type RecognitionError struct {
	Cause error

	// Rule is the walker rule raising the error.
	Rule string

	// Decision is the number of the decision that failed, or -1.
	Decision int

	// Node is the offending node, LT(1) at the time of the error.
	Node *ast.Node

	// Index is the stream index of Node.
	Index int

	Expected []ast.Kind
}

func (e *RecognitionError) Error() string {
	var b strings.Builder
	if e.Rule != "" {
		fmt.Fprintf(&b, "%v: ", e.Rule)
	}
	fmt.Fprintf(&b, "%v", e.Cause)
	if e.Node != nil {
		fmt.Fprintf(&b, " at %v", e.Node)
	}
	switch len(e.Expected) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "; expecting %v", e.Expected[0])
	default:
		fmt.Fprintf(&b, "; expecting one of %v", e.Expected)
	}
	return b.String()
}

func (e *RecognitionError) Unwrap() error {
	return e.Cause
}

// FatalError is a programming-error class fault. It is raised with panic.
type FatalError struct {
	Cause  error
	Detail string
}

func (e *FatalError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("fatal: %v", e.Cause)
	}
	return fmt.Sprintf("fatal: %v: %v", e.Cause, e.Detail)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

func raiseFatal(cause error, format string, a ...interface{}) {
	panic(&FatalError{
		Cause:  cause,
		Detail: fmt.Sprintf(format, a...),
	})
}

// ErrorReporter receives the recognition errors a walker recovers from.
type ErrorReporter interface {
	ReportError(err error)
}

// ErrorReporterFunc adapts a function to ErrorReporter.
type ErrorReporterFunc func(err error)

func (f ErrorReporterFunc) ReportError(err error) {
	f(err)
}

// Recover converts a panic carrying an error into *retErr. Other panics are re-raised.
// Entry points of walkers defer it.
func Recover(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		panic(v)
	}
	*retErr = err
}
