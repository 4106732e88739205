// Copyright © 2024 The ELPS authors

// Package symtab is the operator and keyword table that drives the parser.
//
// Every punctuator and reserved word maps to a Symbol describing how it
// binds.  Behavior is expressed with closed kind enumerations which the
// parser switches over; the table holds no functions.  The table is built
// once per process and is read-only afterwards, so it may be shared by any
// number of concurrent parsing sessions.
package symtab

// Binding powers.  Larger values bind tighter.
const (
	PrecComma          = 10
	PrecAssign         = 20
	PrecArrow          = 25
	PrecTernary        = 30
	PrecNullish        = 35
	PrecOr             = 40
	PrecAnd            = 50
	PrecBitOr          = 70
	PrecBitXor         = 80
	PrecBitAnd         = 90
	PrecEquality       = 100
	PrecRelational     = 110
	PrecShift          = 120
	PrecAdditive       = 130
	PrecMultiplicative = 140
	PrecExponent       = 150
	PrecUnary          = 150
	PrecCall           = 155
	PrecMember         = 160
)

// PrefixKind selects the parse routine used when a symbol begins an
// expression.
type PrefixKind uint8

const (
	PrefixNone PrefixKind = iota
	PrefixIdentifier
	PrefixLiteral
	PrefixTemplate
	PrefixValue // true, false, null
	PrefixThis
	PrefixSuper
	PrefixUnary // ! ~ + - typeof void
	PrefixDelete
	PrefixIncDec
	PrefixParen
	PrefixArray
	PrefixObject
	PrefixFunction
	PrefixClass
	PrefixNew
	PrefixYield
	PrefixAwait
	PrefixAsync
	PrefixImport
	numPrefixKinds
)

func (k PrefixKind) String() string {
	names := [numPrefixKinds]string{
		PrefixNone:       "none",
		PrefixIdentifier: "identifier",
		PrefixLiteral:    "literal",
		PrefixTemplate:   "template",
		PrefixValue:      "value",
		PrefixThis:       "this",
		PrefixSuper:      "super",
		PrefixUnary:      "unary",
		PrefixDelete:     "delete",
		PrefixIncDec:     "incdec",
		PrefixParen:      "paren",
		PrefixArray:      "array",
		PrefixObject:     "object",
		PrefixFunction:   "function",
		PrefixClass:      "class",
		PrefixNew:        "new",
		PrefixYield:      "yield",
		PrefixAwait:      "await",
		PrefixAsync:      "async",
		PrefixImport:     "import",
	}
	if k >= numPrefixKinds {
		return "invalid"
	}
	return names[k]
}

// InfixKind selects the parse routine used when a symbol follows a complete
// left operand.
type InfixKind uint8

const (
	InfixNone InfixKind = iota
	InfixBinary
	InfixBitwise
	InfixLogical
	InfixRelation
	InfixInstanceof
	InfixAssign
	InfixTernary
	InfixComma
	InfixDot
	InfixOptional
	InfixIndex
	InfixCall
	InfixPostfix
	InfixArrow
	InfixTemplate
	numInfixKinds
)

func (k InfixKind) String() string {
	names := [numInfixKinds]string{
		InfixNone:       "none",
		InfixBinary:     "binary",
		InfixBitwise:    "bitwise",
		InfixLogical:    "logical",
		InfixRelation:   "relation",
		InfixInstanceof: "instanceof",
		InfixAssign:     "assign",
		InfixTernary:    "ternary",
		InfixComma:      "comma",
		InfixDot:        "dot",
		InfixOptional:   "optional",
		InfixIndex:      "index",
		InfixCall:       "call",
		InfixPostfix:    "postfix",
		InfixArrow:      "arrow",
		InfixTemplate:   "template",
	}
	if k >= numInfixKinds {
		return "invalid"
	}
	return names[k]
}

// StmtKind selects the parse routine used when a symbol begins a statement.
type StmtKind uint8

const (
	StmtNone StmtKind = iota
	StmtVar
	StmtLet
	StmtConst
	StmtFunction
	StmtAsync
	StmtClass
	StmtIf
	StmtTry
	StmtWhile
	StmtDo
	StmtFor
	StmtSwitch
	StmtWith
	StmtBreak
	StmtContinue
	StmtReturn
	StmtThrow
	StmtDebugger
	StmtImport
	StmtExport
	numStmtKinds
)

func (k StmtKind) String() string {
	names := [numStmtKinds]string{
		StmtNone:     "none",
		StmtVar:      "var",
		StmtLet:      "let",
		StmtConst:    "const",
		StmtFunction: "function",
		StmtAsync:    "async",
		StmtClass:    "class",
		StmtIf:       "if",
		StmtTry:      "try",
		StmtWhile:    "while",
		StmtDo:       "do",
		StmtFor:      "for",
		StmtSwitch:   "switch",
		StmtWith:     "with",
		StmtBreak:    "break",
		StmtContinue: "continue",
		StmtReturn:   "return",
		StmtThrow:    "throw",
		StmtDebugger: "debugger",
		StmtImport:   "import",
		StmtExport:   "export",
	}
	if k >= numStmtKinds {
		return "invalid"
	}
	return names[k]
}

// AssignKind distinguishes assignment operators.
type AssignKind uint8

const (
	AssignNone AssignKind = iota
	AssignPlain
	AssignCompound
	AssignBitwise
	AssignLogical
)

// RelationKind selects the validation applied to comparison operands.
type RelationKind uint8

const (
	RelationNone RelationKind = iota
	RelationEquality
	RelationStrictEquality
	RelationOrder
)

// Boundary marks symbols around which a line terminator ends an expression.
type Boundary uint8

const (
	BoundaryNone Boundary = iota
	BoundaryBefore
	BoundaryAfter
)

// Meta describes the reservation status of future reserved words and
// contextual keywords.
type Meta struct {
	// Future is set for words reserved for future editions.
	Future bool
	// ES5 words stay reserved in ES5 code.  Words without it are only
	// reserved when targeting ES3.
	ES5 bool
	// StrictOnly words are reserved only in strict mode code.
	StrictOnly bool
}

// Symbol is the parsing behavior of one token identity.
type Symbol struct {
	ID string
	// LBP is the left binding power used by the expression loop.
	LBP int
	// RBP is the binding power with which an operator parses its right
	// operand.  It is zero for symbols that are not operators.
	RBP int

	Prefix   PrefixKind
	Infix    InfixKind
	Stmt     StmtKind
	Assign   AssignKind
	Relation RelationKind
	Boundary Boundary
	Meta     Meta

	// Block statements are not followed by a semicolon.
	Block bool
	// Exps marks expressions that are useful as statements.
	Exps bool
	// Reach marks tokens that end a statement list.
	Reach bool
	// Labelled statements may carry a label without a warning.
	Labelled bool
	// Reserved words cannot be used as identifiers.
	Reserved bool
	// Adjacent infix operators must share a line with their left operand
	// unless laxbreak is set.
	Adjacent bool
	// RightAssoc operators parse their right operand one step looser.
	RightAssoc bool
	// Delim marks pure punctuation.
	Delim bool
}

// IsInfix reports whether the symbol was declared as an infix operator.
// Tagged templates bind like operators but are not infix for the purpose
// of line-break expression boundaries.
func (sym *Symbol) IsInfix() bool {
	return sym.Infix != InfixNone && sym.Infix != InfixTemplate
}

// IsFutureReserved reports whether sym is a future reserved word.
func (sym *Symbol) IsFutureReserved() bool {
	return sym.Meta.Future
}
