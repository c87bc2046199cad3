package compiler

import (
	"errors"

	"github.com/nihei9/atnc/ast"
	verr "github.com/nihei9/atnc/error"
	"github.com/nihei9/atnc/tree"
	"github.com/sirupsen/logrus"
)

// diagnostics collects every error the passes report as a *verr.SpecError and logs it.
type diagnostics struct {
	logger     logrus.FieldLogger
	sourceName string
	source     []byte
	errs       verr.SpecErrors
}

var _ tree.ErrorReporter = &diagnostics{}

func newDiagnostics(logger logrus.FieldLogger, sourceName string, source []byte) *diagnostics {
	return &diagnostics{
		logger:     logger,
		sourceName: sourceName,
		source:     source,
	}
}

func (d *diagnostics) ReportError(err error) {
	e := d.specError(err)
	if e.SourceName == "" {
		e.SourceName = d.sourceName
	}
	if e.Source == nil {
		e.Source = d.source
	}
	d.errs = append(d.errs, e)

	fields := logrus.Fields{
		"row": e.Row,
		"col": e.Col,
	}
	if e.Rule != "" {
		fields["rule"] = e.Rule
	}
	if e.Detail != "" {
		d.logger.WithFields(fields).Errorf("%v: %v", e.Cause, e.Detail)
		return
	}
	d.logger.WithFields(fields).Error(e.Cause)
}

func (d *diagnostics) specError(err error) *verr.SpecError {
	var specErr *verr.SpecError
	if errors.As(err, &specErr) {
		return specErr
	}

	e := &verr.SpecError{
		Cause: err,
	}
	var recErr *tree.RecognitionError
	if errors.As(err, &recErr) && recErr.Node != nil {
		e.Row = recErr.Node.Pos.Row
		e.Col = recErr.Node.Pos.Col
		if rule := recErr.Node.Ancestor(ast.KindRule); rule != nil && rule.ChildCount() > 0 {
			e.Rule = rule.Child(0).Text
		}
		if recErr.Node.Grammar != nil {
			e.FilePath = recErr.Node.Grammar.FileName
		}
	}
	return e
}
