package factory

import (
	"errors"
)

var (
	ErrUndefinedRule       = errors.New("undefined rule")
	ErrInvalidLiteral      = errors.New("invalid string literal")
	ErrEmptyLiteral        = errors.New("a string literal in a lexer rule cannot be empty")
	ErrInvalidCharSet      = errors.New("invalid char set")
	ErrEmptyCharSet        = errors.New("a char set cannot be empty")
	ErrEmptyRange          = errors.New("a range cannot be empty")
	ErrInvalidLiteralInSet = errors.New("a string literal in a lexer set must be a single character")
	ErrTokenRefInLexerSet  = errors.New("a token reference is not allowed in a lexer set")
	ErrInvalidLexerCommand = errors.New("invalid lexer command")
	ErrInvalidPrecedence   = errors.New("invalid precedence")
)
