package builder

import (
	"github.com/nihei9/atnc/ast"
	"github.com/nihei9/atnc/atn"
)

// Factory creates the ATN fragments of the constructs a Builder walks. The Builder composes the
// fragments bottom-up and never creates a state itself. A method returns nil for a construct it
// cannot build; the Builder leaves such a construct out.
type Factory interface {
	// SetCurrentRuleName and SetCurrentOuterAlt tell the factory where the Builder is.
	SetCurrentRuleName(name string)
	SetCurrentOuterAlt(alt int)

	// Rule links the block of a rule to the rule's start and stop states.
	Rule(rule *ast.Node, name string, blk *atn.Handle) *atn.Handle

	// Label and ListLabel wrap the fragment of a `x=` or `x+=` labeled element.
	Label(h *atn.Handle) *atn.Handle
	ListLabel(h *atn.Handle) *atn.Handle

	TokenRef(ref *ast.Node) *atn.Handle
	StringLiteral(lit *ast.Node) *atn.Handle
	CharSetLiteral(set *ast.Node) *atn.Handle
	Range(a, b *ast.Node) *atn.Handle

	// Set builds a SET node. elems are its STRING_LITERAL, TOKEN_REF, RANGE and
	// LEXER_CHAR_SET children; invert is set under a NOT.
	Set(set *ast.Node, elems []*ast.Node, invert bool) *atn.Handle

	RuleRef(ref *ast.Node) *atn.Handle
	Wildcard(n *ast.Node) *atn.Handle
	Epsilon(n *ast.Node) *atn.Handle
	Sempred(pred *ast.Node) *atn.Handle
	Action(action *ast.Node) *atn.Handle

	// Alt chains the fragments of the elements of an alternative.
	Alt(elems []*atn.Handle) *atn.Handle

	// Block joins the alternatives of a block. ebnfRoot is the OPTIONAL, CLOSURE or
	// POSITIVE_CLOSURE node quantifying the block, or nil.
	Block(blk, ebnfRoot *ast.Node, alts []*atn.Handle) *atn.Handle

	// LexerAltCommands appends the commands of a lexer alternative to the alternative.
	LexerAltCommands(alt, cmds *atn.Handle) *atn.Handle
	LexerCallCommand(id, arg *ast.Node) *atn.Handle
	LexerCommand(id *ast.Node) *atn.Handle
}
