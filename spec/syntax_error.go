package spec

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	// lexical errors
	synErrInvalidToken    = newSyntaxError("invalid token")
	synErrUnclosedAction  = newSyntaxError("unclosed action; a closing brace is missing")
	synErrUnclosedBracket = newSyntaxError("unclosed bracket; a closing bracket is missing")

	// syntax errors
	synErrNoGrammarDecl          = newSyntaxError("a grammar must begin with a grammar declaration")
	synErrNoGrammarName          = newSyntaxError("a grammar name is missing")
	synErrNoSemicolon            = newSyntaxError("a semicolon is missing")
	synErrNoRuleName             = newSyntaxError("a rule name is missing")
	synErrNoColon                = newSyntaxError("the colon must precede alternatives")
	synErrUnclosedBlock          = newSyntaxError("unclosed block; a closing parenthesis is missing")
	synErrUnclosedBrace          = newSyntaxError("a closing brace is missing")
	synErrNoOptionName           = newSyntaxError("an option needs a name")
	synErrNoOptionValue          = newSyntaxError("an option needs a value")
	synErrUnclosedElementOptions = newSyntaxError("unclosed element options; '>' is missing")
	synErrNoSetElement           = newSyntaxError("a set can contain only string literals, token references, ranges, and character sets")
	synErrNoRangeEnd             = newSyntaxError("a range needs a string literal at its end")
	synErrNoLabelTarget          = newSyntaxError("a label must be followed by an atom or a block")
	synErrNoLexerCommandName     = newSyntaxError("a lexer command needs a name")
	synErrNoLexerCommandArg      = newSyntaxError("a lexer command argument must be an identifier or an integer")
	synErrUnclosedLexerCommand   = newSyntaxError("a lexer command argument must be followed by ')'")
	synErrNoModeName             = newSyntaxError("a mode needs a name")
	synErrNoActionName           = newSyntaxError("a named action needs a name")
	synErrNoAction               = newSyntaxError("an action is missing")
	synErrNoArgAction            = newSyntaxError("an argument action is missing")
	synErrNoIdentifier           = newSyntaxError("an identifier is missing")
	synErrNoAltLabel             = newSyntaxError("an alternative label is missing")
	synErrCharSetInParser        = newSyntaxError("a character set is allowed only in lexer rules")
	synErrUnexpectedToken        = newSyntaxError("unexpected token")
)
