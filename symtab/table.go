// Copyright © 2024 The ELPS authors

package symtab

import (
	"sort"
	"sync"
)

// Identities of symbols that do not correspond to source text.
const (
	IdentifierID = "(identifier)"
	NumberID     = "(number)"
	StringID     = "(string)"
	RegexpID     = "(regexp)"
	TemplateID   = "(template)"
	MiddleID     = "(template middle)"
	TailID       = "(template tail)"
	NoSubstID    = "(no subst template)"
	EndID        = "(end)"
	ErrorID      = "(error)"
)

// Table maps token identities to symbols.  A Table is immutable.
type Table struct {
	syms map[string]*Symbol
}

// Lookup returns a copy of the symbol for id.
func (t *Table) Lookup(id string) (Symbol, bool) {
	sym, ok := t.syms[id]
	if !ok {
		return Symbol{}, false
	}
	return *sym, true
}

// Get returns the symbol for id, falling back to the error symbol.
func (t *Table) Get(id string) Symbol {
	if sym, ok := t.syms[id]; ok {
		return *sym
	}
	return *t.syms[ErrorID]
}

// IDs returns every symbol identity in sorted order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.syms))
	for id := range t.syms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide ECMAScript symbol table.
func Default() *Table {
	defaultOnce.Do(func() {
		b := newBuilder()
		b.defineECMAScript()
		defaultTable = b.table()
	})
	return defaultTable
}

type builder struct {
	syms map[string]*Symbol
}

func newBuilder() *builder {
	b := &builder{syms: make(map[string]*Symbol)}
	b.symbol(ErrorID, 0)
	return b
}

func (b *builder) table() *Table {
	return &Table{syms: b.syms}
}

// symbol returns the symbol for id, creating it with binding power lbp.
// Registering an existing symbol again augments it and keeps its binding
// power.
func (b *builder) symbol(id string, lbp int) *Symbol {
	sym, ok := b.syms[id]
	if !ok {
		sym = &Symbol{ID: id, LBP: lbp}
		b.syms[id] = sym
	}
	return sym
}

func (b *builder) definePrefix(id string, kind PrefixKind) *Symbol {
	sym := b.symbol(id, PrecUnary)
	sym.Prefix = kind
	return sym
}

func (b *builder) defineInfix(id string, lbp int, kind InfixKind, adjacent bool) *Symbol {
	sym := b.symbol(id, lbp)
	sym.Infix = kind
	sym.Adjacent = adjacent
	if sym.RBP == 0 {
		sym.RBP = lbp
	}
	return sym
}

func (b *builder) defineAssignment(id string, kind AssignKind) *Symbol {
	sym := b.defineInfix(id, PrecAssign, InfixAssign, false)
	sym.Assign = kind
	sym.RBP = PrecComma
	sym.Exps = true
	return sym
}

func (b *builder) defineRelation(id string, kind RelationKind) *Symbol {
	lbp := PrecRelational
	if kind != RelationOrder {
		lbp = PrecEquality
	}
	sym := b.defineInfix(id, lbp, InfixRelation, true)
	sym.Relation = kind
	return sym
}

func (b *builder) defineStatementStart(id string, kind StmtKind) *Symbol {
	sym := b.symbol(id, 0)
	sym.Stmt = kind
	sym.Reserved = true
	sym.Exps = true
	return sym
}

func (b *builder) defineBlockStatement(id string, kind StmtKind) *Symbol {
	sym := b.defineStatementStart(id, kind)
	sym.Block = true
	return sym
}

func (b *builder) defineFutureReservedWord(id string, meta Meta) *Symbol {
	sym := b.symbol(id, 0)
	meta.Future = true
	sym.Meta = meta
	sym.Reserved = true
	if sym.Prefix == PrefixNone {
		sym.Prefix = PrefixIdentifier
	}
	return sym
}

func (b *builder) reserve(id string) *Symbol {
	sym := b.symbol(id, 0)
	sym.Reserved = true
	return sym
}

func (b *builder) delim(id string) *Symbol {
	sym := b.symbol(id, 0)
	sym.Delim = true
	return sym
}

func (b *builder) defineECMAScript() {
	b.defineEndpoints()
	b.defineOperators()
	b.defineUnary()
	b.defineValues()
	b.defineStatements()
	b.defineReserved()
}

func (b *builder) defineEndpoints() {
	b.symbol(EndID, 0).Reach = true
	b.symbol(ErrorID, 0)
	b.symbol(IdentifierID, 0).Prefix = PrefixIdentifier
	for _, id := range []string{NumberID, StringID, RegexpID} {
		b.symbol(id, 0).Prefix = PrefixLiteral
	}
	for _, id := range []string{TemplateID, NoSubstID} {
		sym := b.symbol(id, PrecCall)
		sym.Prefix = PrefixTemplate
		sym.Infix = InfixTemplate
	}
	b.symbol(MiddleID, 0)
	b.symbol(TailID, 0)

	for _, id := range []string{";", ":", ")", "]", "...", "#"} {
		b.delim(id)
	}
	b.delim("}").Reach = true
	b.delim("{").Labelled = true
}

func (b *builder) defineOperators() {
	b.defineInfix(",", PrecComma, InfixComma, false)

	b.defineAssignment("=", AssignPlain)
	for _, id := range []string{"+=", "-=", "*=", "/=", "%=", "**="} {
		b.defineAssignment(id, AssignCompound)
	}
	for _, id := range []string{"&=", "|=", "^=", "<<=", ">>=", ">>>="} {
		b.defineAssignment(id, AssignBitwise)
	}
	for _, id := range []string{"&&=", "||=", "??="} {
		b.defineAssignment(id, AssignLogical)
	}

	b.defineInfix("=>", PrecArrow, InfixArrow, false)
	b.defineInfix("?", PrecTernary, InfixTernary, true).RBP = PrecComma
	b.defineInfix("??", PrecNullish, InfixLogical, true)
	b.defineInfix("||", PrecOr, InfixLogical, true)
	b.defineInfix("&&", PrecAnd, InfixLogical, true)
	b.defineInfix("|", PrecBitOr, InfixBitwise, true)
	b.defineInfix("^", PrecBitXor, InfixBitwise, true)
	b.defineInfix("&", PrecBitAnd, InfixBitwise, true)

	b.defineRelation("==", RelationEquality)
	b.defineRelation("!=", RelationEquality)
	b.defineRelation("===", RelationStrictEquality)
	b.defineRelation("!==", RelationStrictEquality)
	for _, id := range []string{"<", ">", "<=", ">="} {
		b.defineRelation(id, RelationOrder)
	}
	b.defineInfix("in", PrecRelational, InfixBinary, true).Reserved = true
	b.defineInfix("instanceof", PrecRelational, InfixInstanceof, true).Reserved = true

	for _, id := range []string{"<<", ">>", ">>>"} {
		b.defineInfix(id, PrecShift, InfixBitwise, true)
	}
	b.defineInfix("+", PrecAdditive, InfixBinary, true)
	b.defineInfix("-", PrecAdditive, InfixBinary, true)
	for _, id := range []string{"*", "/", "%"} {
		b.defineInfix(id, PrecMultiplicative, InfixBinary, true)
	}
	exp := b.defineInfix("**", PrecExponent, InfixBinary, true)
	exp.RightAssoc = true
	exp.RBP = PrecExponent - 1

	b.defineInfix("(", PrecCall, InfixCall, false).Exps = true
	b.defineInfix(".", PrecMember, InfixDot, false)
	b.defineInfix("?.", PrecMember, InfixOptional, false)
	b.defineInfix("[", PrecMember, InfixIndex, false)

	for _, id := range []string{"++", "--"} {
		sym := b.defineInfix(id, PrecUnary, InfixPostfix, false)
		sym.Boundary = BoundaryBefore
		sym.Exps = true
		sym.RBP = 0
	}
}

func (b *builder) defineUnary() {
	for _, id := range []string{"!", "~", "+", "-"} {
		b.definePrefix(id, PrefixUnary)
	}
	for _, id := range []string{"typeof", "void"} {
		b.definePrefix(id, PrefixUnary).Reserved = true
	}
	for _, id := range []string{"++", "--"} {
		b.definePrefix(id, PrefixIncDec)
	}
	del := b.definePrefix("delete", PrefixDelete)
	del.Reserved = true
	del.Exps = true

	b.definePrefix("(", PrefixParen)
	b.definePrefix("[", PrefixArray)
	b.symbol("{", 0).Prefix = PrefixObject

	nw := b.definePrefix("new", PrefixNew)
	nw.Reserved = true
	nw.Exps = true
}

func (b *builder) defineValues() {
	for _, id := range []string{"true", "false", "null"} {
		sym := b.reserve(id)
		sym.Prefix = PrefixValue
	}
	b.reserve("this").Prefix = PrefixThis
	b.reserve("super").Prefix = PrefixSuper

	yield := b.reserve("yield")
	yield.Prefix = PrefixYield
	yield.Boundary = BoundaryAfter
	yield.Exps = true
	yield.Meta = Meta{ES5: true, StrictOnly: true}

	await := b.defineFutureReservedWord("await", Meta{ES5: true})
	await.Prefix = PrefixAwait
	await.Exps = true

	async := b.symbol("async", 0)
	async.Prefix = PrefixAsync
	async.Stmt = StmtAsync
	async.Block = true
}

func (b *builder) defineStatements() {
	b.defineStatementStart("var", StmtVar)
	let := b.defineStatementStart("let", StmtLet)
	let.Prefix = PrefixIdentifier
	let.Meta = Meta{ES5: true, StrictOnly: true}
	b.defineStatementStart("const", StmtConst)

	b.defineBlockStatement("function", StmtFunction).Prefix = PrefixFunction
	b.defineBlockStatement("class", StmtClass).Prefix = PrefixClass
	b.defineBlockStatement("if", StmtIf)
	b.defineBlockStatement("try", StmtTry)
	b.defineBlockStatement("with", StmtWith)
	b.defineBlockStatement("while", StmtWhile).Labelled = true
	b.defineBlockStatement("for", StmtFor).Labelled = true
	b.defineBlockStatement("switch", StmtSwitch).Labelled = true
	b.defineStatementStart("do", StmtDo).Labelled = true

	b.defineStatementStart("break", StmtBreak)
	b.defineStatementStart("continue", StmtContinue)
	b.defineStatementStart("return", StmtReturn)
	b.defineStatementStart("throw", StmtThrow)
	b.defineStatementStart("debugger", StmtDebugger)

	imp := b.defineStatementStart("import", StmtImport)
	imp.Prefix = PrefixImport
	imp.Meta = Meta{Future: true, ES5: true}
	exp := b.defineStatementStart("export", StmtExport)
	exp.Meta = Meta{Future: true, ES5: true}
}

func (b *builder) defineReserved() {
	b.reserve("case").Reach = true
	b.reserve("default").Reach = true
	for _, id := range []string{"catch", "else", "finally"} {
		b.reserve(id)
	}

	for _, id := range []string{"enum", "extends"} {
		b.defineFutureReservedWord(id, Meta{ES5: true})
	}
	for _, id := range []string{
		"implements", "interface", "package", "private", "protected",
		"public", "static",
	} {
		b.defineFutureReservedWord(id, Meta{ES5: true, StrictOnly: true})
	}
	for _, id := range []string{
		"abstract", "boolean", "byte", "char", "double", "final", "float",
		"goto", "int", "long", "native", "short", "synchronized",
		"transient", "volatile",
	} {
		b.defineFutureReservedWord(id, Meta{})
	}
}
