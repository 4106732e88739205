// Copyright © 2024 The ELPS authors

package hint

import (
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// Node is a token together with the parser's bookkeeping about it.  The
// parser does not build a full syntax tree; nodes link only the operands the
// lint rules inspect.
type Node struct {
	*token.Token

	id  string
	sym symtab.Symbol

	// identifier is set for word tokens, reserved or not.
	identifier bool
	// isProperty is set when the word follows '.' or '?.'.
	isProperty bool

	Left  *Node
	Right *Node
	// first is the callee of new or the operand of a prefix operator.
	first *Node
	// list holds the elements of array literals and call arguments.
	list []*Node
	// funct is the function a function literal or arrow introduced.
	funct *Functor

	unary            bool
	paren            bool
	immed            bool
	exps             bool
	beginsStmt       bool
	inBracelessBlock bool
	// block marks nodes parsed by a statement routine that needs no
	// terminating semicolon.
	block          bool
	declaration    bool
	destructAssign bool
	fallsThrough   bool
	// assign is set on nodes produced by an assignment operator.
	assign bool
	// forgiveUndef exempts an identifier from undefined checks.
	forgiveUndef bool

	// third is the alternate of a conditional expression.
	third *Node
	// stmts holds the statements of the block a statement governs.
	stmts []*Node
	// names are the bindings introduced by a declaration.
	names   []*Node
	hasInit bool
	// comma is the first comma separating the bindings of a declaration.
	comma *Node
}

func (s *Session) newNode(tok *token.Token) *Node {
	n := &Node{Token: tok}
	switch tok.Type {
	case token.IDENT:
		n.identifier = true
		if sym, ok := s.table.Lookup(tok.Value); ok && !tok.Flags.Has(token.Escaped) {
			n.id = tok.Value
			n.sym = sym
		} else {
			n.id = symtab.IdentifierID
			n.sym = s.table.Get(symtab.IdentifierID)
		}
	default:
		n.id = tok.ID()
		n.sym = s.table.Get(n.id)
	}
	n.exps = n.sym.Exps
	return n
}

// value is the cooked text of the node.
func (n *Node) value() string {
	if n == nil {
		return ""
	}
	if n.Type == token.EOF {
		return symtab.EndID
	}
	return n.Value
}

func (n *Node) is(id string) bool {
	return n != nil && n.id == id
}

// isIdent reports whether n is a word used as a name.
func (n *Node) isIdent() bool {
	return n != nil && n.identifier
}

// isPlainIdent reports whether n is an unreserved identifier.
func (n *Node) isPlainIdent() bool {
	return n != nil && n.id == symtab.IdentifierID
}

func (n *Node) isEnd() bool {
	return n == nil || n.Type == token.EOF
}

func (n *Node) endCol() int {
	if n.End == nil {
		return n.Col()
	}
	return n.End.Col
}

func sameLine(a, b *Node) bool {
	return a.EndLine() == b.Line()
}
