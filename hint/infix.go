// Copyright © 2024 The ELPS authors

package hint

import (
	"regexp"

	"github.com/luthersystems/esvet/analysis"
	"github.com/luthersystems/esvet/parser/token"
	"github.com/luthersystems/esvet/symtab"
)

// rightOperand parses the right operand of the binary operator n.
func (s *Session) rightOperand(ctx prod, n *Node) (*Node, error) {
	right, err := s.expression(ctx, n.sym.RBP)
	if err != nil {
		return nil, err
	}
	if right == nil {
		return nil, s.quit("E041", n)
	}
	return right, nil
}

func (s *Session) binaryLed(ctx prod, n, left *Node) (*Node, error) {
	n.Left = left
	if n.is("**") {
		if s.esVersion() < 7 {
			s.warn("W119", n, "Exponentiation operator", "7")
		}
		if !left.paren && beginsUnaryExpression(left) {
			s.warn("E024", n, "**")
		}
	}
	right, err := s.rightOperand(ctx, n)
	if err != nil {
		return nil, err
	}
	n.Right = right
	switch {
	case n.is("+") && (right.is("+") && right.unary || right.is("++")):
		s.warn("W007", n)
	case n.is("-") && (right.is("-") && right.unary || right.is("--")):
		s.warn("W006", n)
	}
	return n, s.failed()
}

func (s *Session) bitwiseLed(ctx prod, n, left *Node) (*Node, error) {
	if s.option("bitwise") {
		s.warn("W016", n, n.id)
	}
	n.Left = left
	right, err := s.rightOperand(ctx, n)
	if err != nil {
		return nil, err
	}
	n.Right = right
	return n, s.failed()
}

func (s *Session) logicalLed(ctx prod, n, left *Node) (*Node, error) {
	n.Left = left
	if n.is("??") {
		if s.esVersion() < 11 {
			s.warn("W119", n, "nullish coalescing", "11")
		}
		if !left.paren && (left.is("&&") || left.is("||")) {
			s.warn("E024", n, n.id)
		}
	} else {
		s.increaseComplexity()
	}
	right, err := s.rightOperand(ctx, n)
	if err != nil {
		return nil, err
	}
	n.Right = right
	if n.is("??") && !right.paren && (right.is("&&") || right.is("||")) {
		s.warn("E024", right, right.id)
	}
	return n, s.failed()
}

// typeofValues are the results typeof can produce.
var typeofValues = map[string]int{
	"undefined": 3, "object": 3, "boolean": 3, "number": 3, "string": 3,
	"function": 3, "xml": 3, "unknown": 3,
	"symbol": 6, "bigint": 11,
}

// isTypoTypeof reports whether left is a string compared against typeof
// right that typeof can never produce.
func (s *Session) isTypoTypeof(left, right *Node) bool {
	if s.option("notypeof") || left == nil || right == nil {
		return false
	}
	if !right.is("typeof") || left.Type != token.STRING {
		return false
	}
	es, ok := typeofValues[left.Value]
	return !ok || es > s.esVersion()
}

func isNaN(n *Node) bool {
	return n.isPlainIdent() && n.Value == "NaN"
}

func (s *Session) relationLed(ctx prod, n, left *Node) (*Node, error) {
	n.Left = left
	right, err := s.rightOperand(ctx, n)
	if err != nil {
		return nil, err
	}
	n.Right = right
	if isNaN(left) || isNaN(right) {
		s.warn("W019", n)
	} else if n.sym.Relation != symtab.RelationOrder {
		s.checkEquality(n, left, right)
	}
	if left.is("!") && !left.paren {
		s.warn("W018", left, "!")
	}
	if right.is("!") && !right.paren {
		s.warn("W018", right, "!")
	}
	return n, s.failed()
}

func (s *Session) checkEquality(n, left, right *Node) {
	if n.sym.Relation == symtab.RelationEquality {
		isNull := left.is("null") || right.is("null")
		strict := "==="
		if n.is("!=") {
			strict = "!=="
		}
		if s.option("eqeqeq") && !(isNull && s.option("eqnull")) {
			if isNull {
				s.warn("W041", n, strict, "null")
			} else {
				s.warn("W116", n, strict, n.id)
			}
			return
		}
	}
	switch {
	case s.isTypoTypeof(right, left):
		s.warn("W122", n, right.Value)
	case s.isTypoTypeof(left, right):
		s.warn("W122", n, left.Value)
	}
}

func (s *Session) instanceofLed(ctx prod, n, left *Node) (*Node, error) {
	n.Left = left
	right, err := s.rightOperand(ctx, n)
	if err != nil {
		return nil, err
	}
	n.Right = right
	switch {
	case right.Type == token.NUMBER, right.Type == token.STRING,
		right.is("null"), right.Value == "undefined" && right.isPlainIdent(),
		right.unary, right.is("["), right.is("{"),
		right.is("true"), right.is("false"):
		s.warn("E060", right)
	case right.is("function"):
		s.warn("W139", right)
	}
	return n, s.failed()
}

// nativeObjects are the builtins whose prototypes freeze protects.
var nativeObjects = map[string]bool{
	"Array": true, "ArrayBuffer": true, "Boolean": true, "Collator": true,
	"DataView": true, "Date": true, "DateTimeFormat": true, "Error": true,
	"EvalError": true, "Float32Array": true, "Float64Array": true,
	"Function": true, "Infinity": true, "Intl": true, "Int16Array": true,
	"Int32Array": true, "Int8Array": true, "Iterator": true, "Number": true,
	"NumberFormat": true, "Object": true, "RangeError": true,
	"ReferenceError": true, "RegExp": true, "StopIteration": true,
	"String": true, "SyntaxError": true, "TypeError": true,
	"Uint16Array": true, "Uint32Array": true, "Uint8Array": true,
	"Uint8ClampedArray": true, "URIError": true,
}

// nativePrototype returns the builtin whose prototype n modifies, as in
// Array.prototype.x = ... .
func nativePrototype(n *Node) string {
	var walk func(n *Node) string
	walk = func(n *Node) string {
		if n == nil || !n.is(".") && !n.is("[") {
			return ""
		}
		if n.Right != nil && n.Right.Value == "prototype" && n.Left.isPlainIdent() && nativeObjects[n.Left.Value] {
			return n.Left.Value
		}
		return walk(n.Left)
	}
	return walk(n)
}

func (s *Session) assignLed(ctx prod, n, left *Node) (*Node, error) {
	n.Left = left
	n.assign = true
	switch n.sym.Assign {
	case symtab.AssignBitwise:
		if s.option("bitwise") {
			s.warn("W016", n, n.id)
		}
	case symtab.AssignLogical:
		if s.esVersion() < 12 {
			s.warn("W119", n, "Logical assignment", "12")
		}
	case symtab.AssignCompound:
		if n.is("**=") && s.esVersion() < 7 {
			s.warn("W119", n, "Exponentiation operator", "7")
		}
	}
	s.checkLeftSideAssign(ctx, left, n, n.sym.Assign == symtab.AssignPlain)
	right, err := s.expression(ctx, symtab.PrecComma)
	if err != nil {
		return nil, err
	}
	if right == nil {
		return nil, s.quit("E041", n)
	}
	n.Right = right
	return n, s.failed()
}

// checkLeftSideAssign validates an assignment target and records the
// reassignment.
func (s *Session) checkLeftSideAssign(ctx prod, left, assign *Node, allowDestructuring bool) bool {
	if s.option("freeze") {
		if native := nativePrototype(left); native != "" {
			s.warn("W121", left, native)
		}
	}
	switch {
	case left.is(".") || left.is("?."):
		if left.Left == nil {
			s.warn("E031", assign)
		} else if left.Left.Value == "arguments" && left.Left.isPlainIdent() && !s.isStrict() {
			s.warn("W143", assign)
		}
		s.nameStack.set(s.prev)
		return true
	case left.is("{") || left.is("["):
		if !allowDestructuring || !left.destructAssign {
			if left.is("{") || left.Left == nil {
				s.warn("E031", assign)
			} else if left.Left.Value == "arguments" && !s.isStrict() {
				s.warn("W143", assign)
			}
		}
		if left.is("[") {
			s.nameStack.set(left.Right)
		}
		return true
	case left.isIdent() && !s.isReserved(ctx, left):
		if sym := s.scope.Lookup(left.Value); sym != nil && sym.Kind == analysis.SymException {
			s.warn("W022", left)
		}
		switch left.Value {
		case "eval":
			if s.isStrict() {
				s.warn("E031", assign)
				return false
			}
		case "arguments":
			if s.isStrict() {
				s.warn("E031", assign)
				return false
			}
			s.warn("W143", assign)
		}
		s.scope.Reassign(left.Value, left.Token)
		s.nameStack.set(left)
		return true
	}
	s.warn("E031", assign)
	return false
}

func (s *Session) ternaryLed(ctx prod, n, left *Node) (*Node, error) {
	s.increaseComplexity()
	n.Left = left
	then, err := s.expression(ctx&^prodNoIn, symtab.PrecComma)
	if err != nil {
		return nil, err
	}
	n.Right = then
	if err := s.advance(":", nil); err != nil {
		return nil, err
	}
	alt, err := s.expression(ctx, symtab.PrecComma)
	if err != nil {
		return nil, err
	}
	n.third = alt
	return n, s.failed()
}

// commaOpts adjusts the checks applied after a comma.
type commaOpts struct {
	// allowTrailing accepts a closing bracket after the comma.
	allowTrailing bool
	// property is set for commas separating object members.
	property bool
}

// parseComma consumes a comma and checks what follows it.
func (s *Session) parseComma(o commaOpts) (bool, error) {
	if err := s.advance(",", nil); err != nil {
		return false, err
	}
	return s.checkComma(o), s.failed()
}

// checkComma checks the comma in curr and the token following it.
func (s *Session) checkComma(o commaOpts) bool {
	if !sameLine(s.prev, s.curr) && !s.option("laxcomma") {
		if !s.commaSeen {
			s.warn("I001", s.curr)
			s.commaSeen = true
		}
		s.warn("W014", s.prev, s.curr.id)
	}
	next := s.next
	if next.identifier && !(o.property && s.esVersion() >= 5) {
		switch next.Value {
		case "break", "case", "catch", "continue", "default", "do", "else",
			"finally", "for", "if", "in", "instanceof", "return", "switch",
			"throw", "try", "var", "let", "while", "with":
			s.warn("E024", next, next.Value)
			return false
		}
	}
	if next.Type == token.PUNCT {
		switch next.Value {
		case "}", "]", ",", ")":
			if o.allowTrailing {
				return true
			}
			s.warn("E024", next, next.Value)
			return false
		}
	}
	return true
}

func (s *Session) commaLed(ctx prod, n, left *Node) (*Node, error) {
	if s.option("nocomma") {
		s.warn("W127", n)
	}
	n.Left = left
	if !s.checkComma(commaOpts{}) {
		return n, s.failed()
	}
	right, err := s.expression(ctx, symtab.PrecComma)
	if err != nil {
		return nil, err
	}
	n.Right = right
	n.exps = left.exps && right != nil && right.exps
	return n, s.failed()
}

// countMember tallies a property access.
func (s *Session) countMember(name string) {
	if name != "" {
		s.member[name]++
	}
}

// isGlobalEval reports whether left.eval refers to the global eval.
func (s *Session) isGlobalEval(left *Node) bool {
	if left == nil || !left.isIdent() {
		return false
	}
	switch left.Value {
	case "window", "self", "frames":
		return s.option("browser") || s.option("browserify")
	case "global":
		return s.option("node")
	case "this":
		return s.funct.global || s.funct.closure() != nil && s.funct.closure().global
	}
	return false
}

// memberName applies the checks on a member name accessed on left.
func (s *Session) memberName(left, name *Node) {
	m := name.Value
	s.countMember(m)
	if m == "hasOwnProperty" && s.next.is("=") {
		s.warn("W001", name)
	}
	switch {
	case left.isPlainIdent() && left.Value == "arguments" && (m == "callee" || m == "caller"):
		if s.option("noarg") {
			s.warn("W059", left, m)
		} else if s.isStrict() {
			s.warn("E008", left)
		}
	case !s.option("evil") && left.isPlainIdent() && left.Value == "document" && (m == "write" || m == "writeln"):
		s.warn("W060", left)
	}
	if !s.option("evil") && (m == "eval" || m == "execScript") && s.isGlobalEval(left) {
		s.warn("W061", name)
	}
	if m == "__proto__" && !s.option("proto") || m == "__iterator__" && !s.option("iterator") {
		s.warn("W103", name, m)
	}
}

func (s *Session) dotLed(ctx prod, n, left *Node) (*Node, error) {
	n.Left = left
	if !s.next.identifier {
		s.warn("E030", s.next, s.next.value())
		return n, s.failed()
	}
	if err := s.advance("", nil); err != nil {
		return nil, err
	}
	n.Right = s.curr
	s.memberName(left, s.curr)
	return n, s.failed()
}

func (s *Session) optionalLed(ctx prod, n, left *Node) (*Node, error) {
	if s.esVersion() < 11 {
		s.warn("W119", n, "Optional chaining", "11")
	}
	n.Left = left
	switch {
	case s.next.is("("):
		if err := s.advance("(", nil); err != nil {
			return nil, err
		}
		call, err := s.callLed(ctx, s.curr, left)
		if err != nil {
			return nil, err
		}
		n.Right = call
	case s.next.is("["):
		if err := s.advance("[", nil); err != nil {
			return nil, err
		}
		index, err := s.indexLed(ctx, s.curr, left)
		if err != nil {
			return nil, err
		}
		n.Right = index
	case s.next.identifier:
		if err := s.advance("", nil); err != nil {
			return nil, err
		}
		n.Right = s.curr
		s.memberName(left, s.curr)
	default:
		s.warn("E030", s.next, s.next.value())
	}
	return n, s.failed()
}

// identifierName matches strings usable with dot notation.
var identifierName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// riskyLineBreak warns about a call or index operator starting a line
// where the previous line may have ended the statement.
func (s *Session) riskyLineBreak(n *Node) {
	if s.option("asi") && (s.prev.is(")") || s.prev.is("]")) && !sameLine(s.prev, n) {
		s.warn("W014", n, n.id)
	}
}

func (s *Session) indexLed(ctx prod, n, left *Node) (*Node, error) {
	s.riskyLineBreak(n)
	n.Left = left
	e, err := s.expression(ctx&^prodNoIn, 0)
	if err != nil {
		return nil, err
	}
	if e != nil && e.Type == token.STRING {
		if !s.option("evil") && (e.Value == "eval" || e.Value == "execScript") && s.isGlobalEval(left) {
			s.warn("W061", e)
		}
		s.countMember(e.Value)
		if !s.option("sub") && identifierName.MatchString(e.Value) {
			sym, reserved := s.table.Lookup(e.Value)
			if !reserved || !sym.Reserved || s.esVersion() >= 5 {
				s.warn("W069", s.prev, e.Value)
			}
		}
	}
	if err := s.advance("]", n); err != nil {
		return nil, err
	}
	if e != nil && e.Value == "hasOwnProperty" && s.next.is("=") {
		s.warn("W001", e)
	}
	n.Right = e
	return n, s.failed()
}

// newcapPattern matches names that look like constructors.
var newcapPattern = regexp.MustCompile(`^[A-Z]([A-Z0-9_$]*[a-z][A-Za-z0-9_$]*)?$`)

var newcapIgnore = map[string]bool{
	"Array": true, "Boolean": true, "Date": true, "Error": true,
	"Function": true, "Number": true, "Object": true, "RegExp": true,
	"String": true, "Symbol": true,
}

func (s *Session) callLed(ctx prod, n, left *Node) (*Node, error) {
	if s.option("immed") && left != nil && !left.immed && left.is("function") {
		s.warn("W062", n)
	}
	s.riskyLineBreak(n)
	if left.isPlainIdent() && newcapPattern.MatchString(left.Value) && !newcapIgnore[left.Value] {
		if left.Value == "Math" {
			s.warn("W063", left)
		} else if s.option("newcap") {
			s.warn("W064", left)
		}
	}

	inner := ctx &^ prodNoIn
	if !s.next.is(")") {
		for {
			if _, err := s.spreadRest("spread"); err != nil {
				return nil, err
			}
			arg, err := s.expression(inner, symtab.PrecComma)
			if err != nil {
				return nil, err
			}
			n.list = append(n.list, arg)
			if !s.next.is(",") {
				break
			}
			ok, err := s.parseComma(commaOpts{allowTrailing: true})
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			if s.next.is(")") {
				if s.esVersion() < 8 {
					s.warn("W119", s.curr, "Trailing comma in arguments lists", "8")
				}
				break
			}
		}
	}
	if err := s.advance(")", n); err != nil {
		return nil, err
	}
	s.checkCall(n, left)
	n.Left = left
	return n, s.failed()
}

// checkCall applies the checks on a completed call of left.
func (s *Session) checkCall(n, left *Node) {
	var first *Node
	if len(n.list) > 0 {
		first = n.list[0]
	}
	stringArg := first != nil && first.Type == token.STRING
	if s.esVersion() < 5 && left.Value == "parseInt" && len(n.list) == 1 {
		s.warn("W065", s.curr)
	}
	if !s.option("evil") {
		switch {
		case left.isPlainIdent() && (left.Value == "eval" || left.Value == "Function" || left.Value == "execScript"):
			s.warn("W061", left)
			if stringArg {
				s.addEvaluated(left.Value, first)
			}
		case stringArg && left.isPlainIdent() && (left.Value == "setTimeout" || left.Value == "setInterval"):
			s.warn("W066", left)
			s.addEvaluated(left.Value, first)
		case stringArg && left.is(".") && left.Left.isPlainIdent() && left.Left.Value == "window" &&
			left.Right != nil && (left.Right.Value == "setTimeout" || left.Right.Value == "setInterval"):
			s.warn("W066", left)
			s.addEvaluated(left.Right.Value, first)
		}
	}
	if !left.isIdent() && !left.is(".") && !left.is("[") && !left.is("=>") && !left.is("(") &&
		!left.is("&&") && !left.is("||") && !left.is("?") && !left.is("?.") && !left.is("async") &&
		!(s.inES6() && left.funct != nil) {
		s.warn("W067", n)
	}
}

func (s *Session) addEvaluated(kind string, arg *Node) {
	s.evaluated = append(s.evaluated, Evaluated{
		Kind:   kind,
		Source: arg.Value,
		Line:   arg.Line(),
		Col:    arg.Col(),
	})
}

func (s *Session) postfixLed(ctx prod, n, left *Node) (*Node, error) {
	n.Left = left
	s.checkIncDecOperand(ctx, n, left)
	return n, s.failed()
}

func (s *Session) taggedTemplateLed(ctx prod, n, left *Node) (*Node, error) {
	if !s.inES6() {
		s.warn("W119", n, "template literal syntax", "6")
	}
	n.Left = left
	return n, s.templateSubstitutions(ctx, n)
}
