package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoRules                   = newSemanticError("a grammar needs at least one rule")
	semErrDuplicateRule             = newSemanticError("duplicate rule")
	semErrDuplicateMode             = newSemanticError("duplicate mode")
	semErrParserRuleInLexer         = newSemanticError("a parser rule is not allowed in a lexer grammar")
	semErrLexerRuleInParser         = newSemanticError("a lexer rule is not allowed in a parser grammar")
	semErrUndefinedRule             = newSemanticError("undefined rule")
	semErrParserRuleRefInLexerRule  = newSemanticError("a lexer rule cannot reference a parser rule")
	semErrUnknownLexerCommand       = newSemanticError("unknown lexer command")
	semErrMissingCommandArg         = newSemanticError("a lexer command needs an argument")
	semErrUnexpectedCommandArg      = newSemanticError("a lexer command takes no argument")
	semErrUndefinedMode             = newSemanticError("undefined mode")
	semErrUndefinedChannel          = newSemanticError("undefined channel")
	semErrUndefinedTokenType        = newSemanticError("undefined token type")
	semErrLabelConflictsWithRule    = newSemanticError("a label conflicts with a rule name")
	semErrLabelConflictsWithToken   = newSemanticError("a label conflicts with a token name")
	semErrLabelTypeConflict         = newSemanticError("a label is already defined with another type")
	semErrLabelBlockNotASet         = newSemanticError("a label is assigned to a block which is not a set")
	semErrAltLabelConflictsWithRule = newSemanticError("an alternative label conflicts with a rule name")
	semErrAltLabelRedefined         = newSemanticError("an alternative label is already used in another rule")
	semErrTooFewAltLabels           = newSemanticError("either all or none of the outer alternatives must be labeled")
	semErrRangeInParser             = newSemanticError("a range is allowed only in lexer rules")
	semErrModeOutsideLexer          = newSemanticError("modes are allowed only in lexer grammars")
	semErrChannelsOutsideLexer      = newSemanticError("channels are allowed only in lexer grammars")
	semErrEmptyStringLiteral        = newSemanticError("a string literal in a lexer rule cannot be empty")
	semErrInvalidStringLiteral      = newSemanticError("invalid string literal")
	semErrImplicitStringLiteral     = newSemanticError("cannot create an implicit token for a string literal in a parser grammar")
)
