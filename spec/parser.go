package spec

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/atnc/ast"
	verr "github.com/nihei9/atnc/error"
)

func raiseSyntaxError(tok *token, synErr *SyntaxError, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    tok.row,
		Col:    tok.col,
	})
}

// Parse reads a grammar and returns its AST rooted at a GRAMMAR node.
func Parse(src io.Reader) (*ast.Node, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex     *lexer
	buf     []*token
	lastTok *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *ast.Node, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			panic(v)
		}
		retErr = err
	}()
	return p.parseGrammar(), nil
}

func (p *parser) parseGrammar() *ast.Node {
	var typ ast.GrammarType
	switch {
	case p.consume(tokenKindKWLexer):
		typ = ast.GrammarTypeLexer
	case p.consume(tokenKindKWParser):
		typ = ast.GrammarTypeParser
	default:
		typ = ast.GrammarTypeCombined
	}
	if !p.consume(tokenKindKWGrammar) {
		raiseSyntaxError(p.peek(1), synErrNoGrammarDecl, "")
	}
	root := p.newNode(ast.KindGrammar, string(typ))
	root.AddChild(p.expectID(synErrNoGrammarName))
	p.expect(tokenKindSemicolon, synErrNoSemicolon)

	for {
		prequel := p.parsePrequel()
		if prequel == nil {
			break
		}
		root.AddChild(prequel)
	}

	rules := ast.NewAt(ast.KindRules, "RULES", p.peek(1).row, p.peek(1).col)
	for {
		rule := p.parseRule()
		if rule == nil {
			break
		}
		rules.AddChild(rule)
	}
	root.AddChild(rules)

	for p.consume(tokenKindKWMode) {
		mode := p.newNode(ast.KindMode, "MODE")
		mode.AddChild(p.expectID(synErrNoModeName))
		p.expect(tokenKindSemicolon, synErrNoSemicolon)
		for {
			rule := p.parseRule()
			if rule == nil {
				break
			}
			mode.AddChild(rule)
		}
		root.AddChild(mode)
	}

	if !p.consume(tokenKindEOF) {
		p.raiseUnexpected()
	}

	return root
}

func (p *parser) parsePrequel() *ast.Node {
	switch p.peek(1).kind {
	case tokenKindKWOptions:
		return p.parseOptionsSpec()
	case tokenKindKWImport:
		p.next()
		imp := p.newNode(ast.KindImport, "import")
		for {
			id := p.expectID(synErrNoIdentifier)
			if p.consume(tokenKindAssign) {
				assign := p.newNode(ast.KindAssign, "=")
				assign.AddChild(id)
				assign.AddChild(p.expectID(synErrNoIdentifier))
				imp.AddChild(assign)
			} else {
				imp.AddChild(id)
			}
			if !p.consume(tokenKindComma) {
				break
			}
		}
		p.expect(tokenKindSemicolon, synErrNoSemicolon)
		return imp
	case tokenKindKWTokens:
		p.next()
		return p.parseIDList(ast.KindTokensSpec, "tokens")
	case tokenKindKWChannels:
		p.next()
		return p.parseIDList(ast.KindChannels, "channels")
	case tokenKindAt:
		return p.parseNamedAction(true)
	}
	return nil
}

// parseIDList parses `A, B, C }` following `tokens {` or `channels {`.
func (p *parser) parseIDList(k ast.Kind, text string) *ast.Node {
	n := p.newNode(k, text)
	for !p.consume(tokenKindRBrace) {
		n.AddChild(p.expectID(synErrNoIdentifier))
		if !p.consume(tokenKindComma) {
			p.expect(tokenKindRBrace, synErrUnclosedBrace)
			break
		}
	}
	return n
}

// parseNamedAction parses `@name {...}`, or `@scope::name {...}` when scope is allowed.
func (p *parser) parseNamedAction(scope bool) *ast.Node {
	p.expect(tokenKindAt, synErrUnexpectedToken)
	at := p.newNode(ast.KindAt, "@")
	if scope && p.peek(2).kind == tokenKindColonColon {
		tok := p.peek(1)
		switch {
		case isIDToken(tok), tok.kind == tokenKindKWLexer, tok.kind == tokenKindKWParser:
			p.next()
			p.next()
			at.AddChild(ast.NewAt(ast.KindID, tok.text, tok.row, tok.col))
		default:
			raiseSyntaxError(tok, synErrNoActionName, "")
		}
	}
	at.AddChild(p.expectID(synErrNoActionName))
	if !p.consume(tokenKindAction) {
		raiseSyntaxError(p.peek(1), synErrNoAction, "")
	}
	at.AddChild(p.newNode(ast.KindAction, p.lastTok.text))
	return at
}

func (p *parser) parseOptionsSpec() *ast.Node {
	p.expect(tokenKindKWOptions, synErrUnexpectedToken)
	opts := p.newNode(ast.KindOptions, "OPTIONS")
	for !p.consume(tokenKindRBrace) {
		name := p.expectID(synErrNoOptionName)
		if !p.consume(tokenKindAssign) {
			raiseSyntaxError(p.peek(1), synErrNoOptionValue, name.Text)
		}
		assign := p.newNode(ast.KindAssign, "=")
		assign.AddChild(name)
		assign.AddChild(p.parseOptionValue())
		opts.AddChild(assign)
		p.expect(tokenKindSemicolon, synErrNoSemicolon)
	}
	return opts
}

func (p *parser) parseOptionValue() *ast.Node {
	tok := p.peek(1)
	switch tok.kind {
	case tokenKindTokenRef, tokenKindRuleRef:
		return p.parseQualifiedID()
	case tokenKindString:
		p.next()
		return p.newNode(ast.KindStringLiteral, tok.text)
	case tokenKindAction:
		p.next()
		return p.newNode(ast.KindAction, tok.text)
	case tokenKindInt:
		p.next()
		return p.newNode(ast.KindInt, tok.text)
	}
	raiseSyntaxError(tok, synErrNoOptionValue, "")
	return nil
}

// parseQualifiedID parses `a.b.c` into one ID node.
func (p *parser) parseQualifiedID() *ast.Node {
	id := p.expectID(synErrNoIdentifier)
	for p.peek(1).kind == tokenKindDot && isIDToken(p.peek(2)) {
		p.next()
		id.Text = id.Text + "." + p.next().text
	}
	return id
}

func (p *parser) parseRule() *ast.Node {
	start := p.peek(1)
	var mods []*ast.Node
	for {
		var k ast.Kind
		switch p.peek(1).kind {
		case tokenKindKWPublic:
			k = ast.KindPublic
		case tokenKindKWPrivate:
			k = ast.KindPrivate
		case tokenKindKWProtected:
			k = ast.KindProtected
		case tokenKindKWFragment:
			k = ast.KindFragment
		}
		if k == ast.KindInvalid {
			break
		}
		tok := p.next()
		mods = append(mods, ast.NewAt(k, tok.text, tok.row, tok.col))
	}

	switch p.peek(1).kind {
	case tokenKindRuleRef:
		return p.parseParserRule(start, mods)
	case tokenKindTokenRef:
		return p.parseLexerRule(start, mods)
	}
	if len(mods) > 0 {
		raiseSyntaxError(p.peek(1), synErrNoRuleName, "")
	}
	return nil
}

func (p *parser) newModifiers(mods []*ast.Node) *ast.Node {
	if len(mods) == 0 {
		return nil
	}
	n := ast.NewAt(ast.KindRuleModifiers, "RULEMODIFIERS", mods[0].Pos.Row, mods[0].Pos.Col)
	for _, m := range mods {
		n.AddChild(m)
	}
	return n
}

func (p *parser) parseParserRule(start *token, mods []*ast.Node) *ast.Node {
	rule := ast.NewAt(ast.KindRule, "RULE", start.row, start.col)
	tok := p.next()
	rule.AddChild(ast.NewAt(ast.KindRuleRef, tok.text, tok.row, tok.col))
	rule.AddChild(p.newModifiers(mods))
	if p.consume(tokenKindBracket) {
		rule.AddChild(p.newArgAction(p.lastTok))
	}
	if p.consume(tokenKindKWReturns) {
		ret := p.newNode(ast.KindReturns, "returns")
		ret.AddChild(p.expectArgAction())
		rule.AddChild(ret)
	}
	if p.consume(tokenKindKWThrows) {
		throws := p.newNode(ast.KindThrows, "throws")
		for {
			throws.AddChild(p.parseQualifiedID())
			if !p.consume(tokenKindComma) {
				break
			}
		}
		rule.AddChild(throws)
	}
	if p.consume(tokenKindKWLocals) {
		locals := p.newNode(ast.KindLocals, "locals")
		locals.AddChild(p.expectArgAction())
		rule.AddChild(locals)
	}
	for {
		switch p.peek(1).kind {
		case tokenKindKWOptions:
			rule.AddChild(p.parseOptionsSpec())
			continue
		case tokenKindAt:
			rule.AddChild(p.parseNamedAction(false))
			continue
		}
		break
	}
	p.expect(tokenKindColon, synErrNoColon)
	rule.AddChild(p.parseRuleBlock(false))
	p.expect(tokenKindSemicolon, synErrNoSemicolon)

	for p.consume(tokenKindKWCatch) {
		c := p.newNode(ast.KindCatch, "catch")
		c.AddChild(p.expectArgAction())
		if !p.consume(tokenKindAction) {
			raiseSyntaxError(p.peek(1), synErrNoAction, "")
		}
		c.AddChild(p.newNode(ast.KindAction, p.lastTok.text))
		rule.AddChild(c)
	}
	if p.consume(tokenKindKWFinally) {
		f := p.newNode(ast.KindFinally, "finally")
		if !p.consume(tokenKindAction) {
			raiseSyntaxError(p.peek(1), synErrNoAction, "")
		}
		f.AddChild(p.newNode(ast.KindAction, p.lastTok.text))
		rule.AddChild(f)
	}
	return rule
}

func (p *parser) parseLexerRule(start *token, mods []*ast.Node) *ast.Node {
	rule := ast.NewAt(ast.KindRule, "RULE", start.row, start.col)
	tok := p.next()
	rule.AddChild(ast.NewAt(ast.KindTokenRef, tok.text, tok.row, tok.col))
	rule.AddChild(p.newModifiers(mods))
	p.expect(tokenKindColon, synErrNoColon)
	rule.AddChild(p.parseRuleBlock(true))
	p.expect(tokenKindSemicolon, synErrNoSemicolon)
	return rule
}

func (p *parser) parseRuleBlock(lexer bool) *ast.Node {
	tok := p.peek(1)
	blk := ast.NewAt(ast.KindBlock, "BLOCK", tok.row, tok.col)
	for {
		var alt *ast.Node
		if lexer {
			alt = p.parseLexerAlternative()
		} else {
			alt = p.parseAlternative(false)
			if p.consume(tokenKindPound) {
				if !isIDToken(p.peek(1)) {
					raiseSyntaxError(p.peek(1), synErrNoAltLabel, "")
				}
				alt.AltLabel = p.next().text
			}
		}
		blk.AddChild(alt)
		if !p.consume(tokenKindOr) {
			break
		}
	}
	return blk
}

func (p *parser) parseLexerAlternative() *ast.Node {
	alt := p.parseAlternative(true)
	if !p.consume(tokenKindRArrow) {
		return alt
	}
	act := ast.NewAt(ast.KindLexerAltAction, "LEXER_ALT_ACTION", alt.Pos.Row, alt.Pos.Col)
	act.AddChild(alt)
	for {
		act.AddChild(p.parseLexerCommand())
		if !p.consume(tokenKindComma) {
			break
		}
	}
	return act
}

func (p *parser) parseLexerCommand() *ast.Node {
	tok := p.peek(1)
	if !isIDToken(tok) && tok.kind != tokenKindKWMode {
		raiseSyntaxError(tok, synErrNoLexerCommandName, "")
	}
	p.next()
	name := ast.NewAt(ast.KindID, tok.text, tok.row, tok.col)
	if !p.consume(tokenKindLParen) {
		return name
	}
	call := ast.NewAt(ast.KindLexerActionCall, "LEXER_ACTION_CALL", tok.row, tok.col)
	call.AddChild(name)
	arg := p.peek(1)
	switch {
	case isIDToken(arg):
		p.next()
		call.AddChild(ast.NewAt(ast.KindID, arg.text, arg.row, arg.col))
	case arg.kind == tokenKindInt:
		p.next()
		call.AddChild(ast.NewAt(ast.KindInt, arg.text, arg.row, arg.col))
	default:
		raiseSyntaxError(arg, synErrNoLexerCommandArg, "")
	}
	p.expect(tokenKindRParen, synErrUnclosedLexerCommand)
	return call
}

func (p *parser) parseAlternative(lexer bool) *ast.Node {
	tok := p.peek(1)
	alt := ast.NewAt(ast.KindAlt, "ALT", tok.row, tok.col)
	if tok.kind == tokenKindLT {
		alt.AddChild(p.parseElementOptions())
	}
	n := 0
	for {
		elem := p.parseElement(lexer)
		if elem == nil {
			break
		}
		alt.AddChild(elem)
		n++
	}
	if n == 0 {
		alt.AddChild(ast.NewAt(ast.KindEpsilon, "EPSILON", tok.row, tok.col))
	}
	return alt
}

func (p *parser) parseElement(lexer bool) *ast.Node {
	tok := p.peek(1)
	switch {
	case isIDToken(tok) && (p.peek(2).kind == tokenKindAssign || p.peek(2).kind == tokenKindPlusAssign):
		p.next()
		id := ast.NewAt(ast.KindID, tok.text, tok.row, tok.col)
		opTok := p.next()
		k := ast.KindAssign
		if opTok.kind == tokenKindPlusAssign {
			k = ast.KindPlusAssign
		}
		op := ast.NewAt(k, opTok.text, opTok.row, opTok.col)
		op.AddChild(id)
		var target *ast.Node
		if p.peek(1).kind == tokenKindLParen {
			target = p.parseBlock(lexer)
		} else {
			target = p.parseAtom(lexer)
		}
		if target == nil {
			raiseSyntaxError(p.peek(1), synErrNoLabelTarget, tok.text)
		}
		op.AddChild(target)
		return p.parseEBNFSuffix(op, true)
	case tok.kind == tokenKindAction:
		p.next()
		k := ast.KindAction
		text := tok.text
		if p.consume(tokenKindQuestion) {
			k = ast.KindSempred
			text += "?"
		}
		n := ast.NewAt(k, text, tok.row, tok.col)
		if p.peek(1).kind == tokenKindLT {
			n.AddChild(p.parseElementOptions())
		}
		return n
	case tok.kind == tokenKindLParen:
		blk := p.parseBlock(lexer)
		return p.parseEBNFSuffix(blk, false)
	}

	atom := p.parseAtom(lexer)
	if atom == nil {
		return nil
	}
	return p.parseEBNFSuffix(atom, true)
}

// parseEBNFSuffix wraps n in a quantifier when one follows. An element that is not a block is
// wrapped as `(suffix (BLOCK (ALT n)))`.
func (p *parser) parseEBNFSuffix(n *ast.Node, wrap bool) *ast.Node {
	tok := p.peek(1)
	var k ast.Kind
	switch tok.kind {
	case tokenKindQuestion:
		k = ast.KindOptional
	case tokenKindStar:
		k = ast.KindClosure
	case tokenKindPlus:
		k = ast.KindPositiveClosure
	default:
		return n
	}
	p.next()
	q := ast.NewAt(k, tok.text, tok.row, tok.col)
	if p.consume(tokenKindQuestion) {
		q.NonGreedy = true
	}
	if wrap {
		alt := ast.NewAt(ast.KindAlt, "ALT", n.Pos.Row, n.Pos.Col)
		alt.AddChild(n)
		blk := ast.NewAt(ast.KindBlock, "BLOCK", n.Pos.Row, n.Pos.Col)
		blk.AddChild(alt)
		n = blk
	}
	q.AddChild(n)
	return q
}

func (p *parser) parseBlock(lexer bool) *ast.Node {
	p.expect(tokenKindLParen, synErrUnexpectedToken)
	blk := p.newNode(ast.KindBlock, "BLOCK")
	if p.peek(1).kind == tokenKindKWOptions || p.peek(1).kind == tokenKindAt {
		if p.peek(1).kind == tokenKindKWOptions {
			blk.AddChild(p.parseOptionsSpec())
		}
		for p.peek(1).kind == tokenKindAt {
			blk.AddChild(p.parseNamedAction(false))
		}
		p.expect(tokenKindColon, synErrNoColon)
	}
	for {
		blk.AddChild(p.parseAlternative(lexer))
		if !p.consume(tokenKindOr) {
			break
		}
	}
	p.expect(tokenKindRParen, synErrUnclosedBlock)
	return blk
}

func (p *parser) parseAtom(lexer bool) *ast.Node {
	tok := p.peek(1)
	switch tok.kind {
	case tokenKindString:
		if p.peek(2).kind == tokenKindRange {
			return p.parseRange()
		}
		p.next()
		return p.withElementOptions(ast.NewAt(ast.KindStringLiteral, tok.text, tok.row, tok.col))
	case tokenKindTokenRef:
		p.next()
		return p.withElementOptions(ast.NewAt(ast.KindTokenRef, tok.text, tok.row, tok.col))
	case tokenKindRuleRef:
		p.next()
		n := ast.NewAt(ast.KindRuleRef, tok.text, tok.row, tok.col)
		if p.consume(tokenKindBracket) {
			n.AddChild(p.newArgAction(p.lastTok))
		}
		return p.withElementOptions(n)
	case tokenKindDot:
		p.next()
		return p.withElementOptions(ast.NewAt(ast.KindWildcard, tok.text, tok.row, tok.col))
	case tokenKindTilde:
		p.next()
		not := ast.NewAt(ast.KindNot, tok.text, tok.row, tok.col)
		set := ast.NewAt(ast.KindSet, "SET", tok.row, tok.col)
		if p.consume(tokenKindLParen) {
			for {
				set.AddChild(p.parseSetElement(lexer))
				if !p.consume(tokenKindOr) {
					break
				}
			}
			p.expect(tokenKindRParen, synErrUnclosedBlock)
		} else {
			set.AddChild(p.parseSetElement(lexer))
		}
		not.AddChild(set)
		return not
	case tokenKindBracket:
		if !lexer {
			raiseSyntaxError(tok, synErrCharSetInParser, tok.text)
		}
		p.next()
		return ast.NewAt(ast.KindLexerCharSet, tok.text, tok.row, tok.col)
	}
	return nil
}

func (p *parser) parseSetElement(lexer bool) *ast.Node {
	tok := p.peek(1)
	switch tok.kind {
	case tokenKindString:
		if p.peek(2).kind == tokenKindRange {
			return p.parseRange()
		}
		p.next()
		return p.withElementOptions(ast.NewAt(ast.KindStringLiteral, tok.text, tok.row, tok.col))
	case tokenKindTokenRef:
		p.next()
		return p.withElementOptions(ast.NewAt(ast.KindTokenRef, tok.text, tok.row, tok.col))
	case tokenKindBracket:
		if lexer {
			p.next()
			return ast.NewAt(ast.KindLexerCharSet, tok.text, tok.row, tok.col)
		}
	}
	raiseSyntaxError(tok, synErrNoSetElement, tok.text)
	return nil
}

func (p *parser) parseRange() *ast.Node {
	from := p.next()
	rangeTok := p.next()
	if !p.consume(tokenKindString) {
		raiseSyntaxError(p.peek(1), synErrNoRangeEnd, "")
	}
	to := p.lastTok
	r := ast.NewAt(ast.KindRange, rangeTok.text, rangeTok.row, rangeTok.col)
	r.AddChild(ast.NewAt(ast.KindStringLiteral, from.text, from.row, from.col))
	r.AddChild(ast.NewAt(ast.KindStringLiteral, to.text, to.row, to.col))
	return r
}

func (p *parser) withElementOptions(n *ast.Node) *ast.Node {
	if p.peek(1).kind == tokenKindLT {
		n.AddChild(p.parseElementOptions())
	}
	return n
}

func (p *parser) parseElementOptions() *ast.Node {
	p.expect(tokenKindLT, synErrUnexpectedToken)
	opts := p.newNode(ast.KindElementOptions, "ELEMENT_OPTIONS")
	for {
		name := p.parseQualifiedID()
		if p.consume(tokenKindAssign) {
			assign := p.newNode(ast.KindAssign, "=")
			assign.AddChild(name)
			assign.AddChild(p.parseOptionValue())
			opts.AddChild(assign)
		} else {
			opts.AddChild(name)
		}
		if !p.consume(tokenKindComma) {
			break
		}
	}
	p.expect(tokenKindGT, synErrUnclosedElementOptions)
	return opts
}

func (p *parser) expectArgAction() *ast.Node {
	if !p.consume(tokenKindBracket) {
		raiseSyntaxError(p.peek(1), synErrNoArgAction, "")
	}
	return p.newArgAction(p.lastTok)
}

// newArgAction strips the brackets of a `[...]` token.
func (p *parser) newArgAction(tok *token) *ast.Node {
	text := strings.TrimSuffix(strings.TrimPrefix(tok.text, "["), "]")
	return ast.NewAt(ast.KindArgAction, text, tok.row, tok.col)
}

func (p *parser) expectID(synErr *SyntaxError) *ast.Node {
	tok := p.peek(1)
	if !isIDToken(tok) {
		raiseSyntaxError(tok, synErr, "")
	}
	p.next()
	return ast.NewAt(ast.KindID, tok.text, tok.row, tok.col)
}

func isIDToken(tok *token) bool {
	return tok.kind == tokenKindTokenRef || tok.kind == tokenKindRuleRef
}

// newNode returns a node positioned at the last consumed token.
func (p *parser) newNode(k ast.Kind, text string) *ast.Node {
	return ast.NewAt(k, text, p.lastTok.row, p.lastTok.col)
}

func (p *parser) expect(expected tokenKind, synErr *SyntaxError) {
	if !p.consume(expected) {
		raiseSyntaxError(p.peek(1), synErr, fmt.Sprintf("expected %v, but got %v", expected, describeToken(p.peek(1))))
	}
}

func (p *parser) raiseUnexpected() {
	tok := p.peek(1)
	raiseSyntaxError(tok, synErrUnexpectedToken, describeToken(tok))
}

func describeToken(tok *token) string {
	switch tok.kind {
	case tokenKindEOF:
		return "the end of the input"
	case tokenKindTokenRef, tokenKindRuleRef, tokenKindInt, tokenKindString, tokenKindAction, tokenKindBracket, tokenKindInvalid:
		return fmt.Sprintf("%v %v", tok.kind, tok.text)
	}
	return fmt.Sprintf("'%v'", tok.kind)
}

func (p *parser) consume(expected tokenKind) bool {
	if p.peek(1).kind != expected {
		return false
	}
	p.next()
	return true
}

func (p *parser) next() *token {
	tok := p.peek(1)
	p.buf = p.buf[1:]
	p.lastTok = tok
	return tok
}

// peek returns the k-th token ahead without consuming it.
func (p *parser) peek(k int) *token {
	for len(p.buf) < k {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		if tok.kind == tokenKindInvalid {
			raiseSyntaxError(tok, synErrInvalidToken, tok.text)
		}
		p.buf = append(p.buf, tok)
		if tok.kind == tokenKindEOF {
			// The lexer keeps returning EOF; one is enough to fill the buffer.
			for len(p.buf) < k {
				p.buf = append(p.buf, tok)
			}
		}
	}
	return p.buf[k-1]
}
