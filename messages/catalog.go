// Copyright © 2024 The ELPS authors

package messages

var catalog = map[string]string{
	// Errors
	"E001": "Bad {a}option: '{b}'.",
	"E002": "Bad option value.",
	"E006": "Unexpected early end of program.",
	"E007": "Missing \"use strict\" statement.",
	"E008": "Strict violation.",
	"E010": "'with' is not allowed in strict mode.",
	"E011": "'{a}' has already been declared.",
	"E012": "const '{a}' is initialized to 'undefined'.",
	"E013": "Attempting to override '{a}' which is a constant.",
	"E015": "Unclosed regular expression.",
	"E016": "Invalid regular expression flags '{a}'.",
	"E017": "Unclosed comment.",
	"E019": "Unmatched '{a}'.",
	"E020": "Expected '{a}' to match '{b}' from line {c} and instead saw '{d}'.",
	"E021": "Expected '{a}' and instead saw '{b}'.",
	"E022": "Line breaking error '{a}'.",
	"E023": "Missing '{a}'.",
	"E024": "Unexpected '{a}'.",
	"E025": "Missing ':' on a case clause.",
	"E029": "Unclosed string.",
	"E030": "Expected an identifier and instead saw '{a}'.",
	"E031": "Bad assignment.",
	"E033": "Expected an operator and instead saw '{a}'.",
	"E034": "get/set are ES5 features.",
	"E036": "Expected to see a statement and instead saw a block.",
	"E039": "Function declarations are not invocable. Wrap the whole function invocation in parens.",
	"E040": "Each value should have its own case label.",
	"E041": "Unrecoverable syntax error. ({a}% scanned).",
	"E042": "Stopping.",
	"E043": "Too many errors. ({a}% scanned).",
	"E045": "Invalid for each loop.",
	"E046": "Yield expressions may only occur within generator functions.",
	"E048": "{a} declaration not directly within block.",
	"E049": "A {a} cannot be named '{b}'.",
	"E052": "Unclosed template literal.",
	"E053": "{a} declarations are only allowed at the top level of module scope.",
	"E054": "Class properties must be methods. Expected '(' but instead saw '{a}'.",
	"E055": "The '{a}' option cannot be set after any executable code.",
	"E056": "'{a}' was used before it was declared, which is illegal for '{b}' variables.",
	"E057": "Invalid meta property: '{a}.{b}'.",
	"E058": "Missing semicolon.",
	"E059": "Incompatible values for the '{a}' and '{b}' linting options.",
	"E060": "Non-callable values cannot be used as the second operand to instanceof.",
	"E061": "Invalid position for 'yield' expression (consider wrapping in parenthesis).",
	"E062": "Rest parameter does not a support default value.",
	"E063": "Super property may only be used within method bodies.",
	"E064": "Super call may only be used within class method bodies.",
	"E065": "Functions defined outside of strict mode with non-simple parameter lists may not enable strict mode.",
	"E066": "Asynchronous iteration is only available with for-of loops.",
	"E067": "Malformed numeric literal: '{a}'.",
	"E080": "Nesting exceeds the maximum depth of {a}. ({b}% scanned).",

	// Warnings
	"W001": "'hasOwnProperty' is a really bad name.",
	"W003": "'{a}' was used before it was defined.",
	"W004": "'{a}' is already defined.",
	"W005": "A dot following a number can be confused with a decimal point.",
	"W006": "Confusing minuses.",
	"W007": "Confusing plusses.",
	"W008": "A leading decimal point can be confused with a dot: '{a}'.",
	"W009": "The array literal notation [] is preferable.",
	"W010": "The object literal notation {} is preferable.",
	"W014": "Misleading line break before '{a}'; readers may interpret this as an expression boundary.",
	"W016": "Unexpected use of '{a}'.",
	"W017": "Bad operand.",
	"W018": "Confusing use of '{a}'.",
	"W019": "Use the isNaN function to compare with NaN.",
	"W020": "Read only.",
	"W021": "Reassignment of '{a}', which is a {b}. Use 'var' or 'let' to declare bindings that may change.",
	"W022": "Do not assign to the exception parameter.",
	"W024": "Expected an identifier and instead saw '{a}' (a reserved word).",
	"W025": "Missing name in function declaration.",
	"W026": "Inner functions should be listed at the top of the outer function.",
	"W027": "Unreachable '{a}' after '{b}'.",
	"W028": "Label '{a}' on {b} statement.",
	"W030": "Expected an assignment or function call and instead saw an expression.",
	"W031": "Do not use 'new' for side effects.",
	"W032": "Unnecessary semicolon.",
	"W033": "Missing semicolon.",
	"W035": "Empty block.",
	"W038": "'{a}' used out of scope.",
	"W040": "If a strict mode function is executed using function invocation, its 'this' value will be undefined.",
	"W041": "Use '{a}' to compare with '{b}'.",
	"W043": "Bad escaping of EOL. Use option multistr if needed.",
	"W045": "Bad number '{a}'.",
	"W047": "A trailing decimal point can be confused with a dot: '{a}'.",
	"W051": "Variables should not be deleted.",
	"W052": "Unexpected '{a}'.",
	"W053": "Do not use {a} as a constructor.",
	"W054": "The Function constructor is a form of eval.",
	"W055": "A constructor name should start with an uppercase letter.",
	"W056": "Bad constructor.",
	"W057": "Weird construction. Is 'new' necessary?",
	"W058": "Missing '()' invoking a constructor.",
	"W059": "Avoid arguments.{a}.",
	"W060": "document.write can be a form of eval.",
	"W061": "eval can be harmful.",
	"W062": "Wrap an immediate function invocation in parentheses to assist the reader in understanding that the expression is the result of a function, and not the function itself.",
	"W063": "Math is not a function.",
	"W064": "Missing 'new' prefix when invoking a constructor.",
	"W065": "Missing radix parameter.",
	"W066": "Implied eval. Consider passing a function instead of a string.",
	"W067": "Bad invocation.",
	"W068": "Wrapping non-IIFE function literals in parens is unnecessary.",
	"W069": "['{a}'] is better written in dot notation.",
	"W070": "Extra comma. (it breaks older versions of IE)",
	"W071": "This function has too many statements. ({a})",
	"W072": "This function has too many parameters. ({a})",
	"W073": "Blocks are nested too deeply. ({a})",
	"W074": "This function's cyclomatic complexity is too high. ({a})",
	"W075": "Duplicate {a} '{b}'.",
	"W076": "Unexpected parameter '{a}' in get {b} function.",
	"W077": "Expected a single parameter in set {a} function.",
	"W078": "Setter is defined without getter.",
	"W079": "Redefinition of '{a}'.",
	"W080": "It's not necessary to initialize '{a}' to 'undefined'.",
	"W082": "Function declarations should not be placed in blocks. Use a function expression or move the statement to the top of the outer function.",
	"W083": "Functions declared within loops referencing an outer scoped variable may lead to confusing semantics. ({a})",
	"W084": "Expected a conditional expression and instead saw an assignment.",
	"W085": "Don't use 'with'.",
	"W086": "Expected a 'break' statement before '{a}'.",
	"W087": "Forgotten 'debugger' statement?",
	"W088": "Creating global 'for' variable. Should be 'for (var {a} ...'.",
	"W089": "The body of a for in should be wrapped in an if statement to filter unwanted properties from the prototype.",
	"W090": "'{a}' is not a statement label.",
	"W093": "Did you mean to return a conditional instead of an assignment?",
	"W094": "Unexpected comma.",
	"W098": "'{a}' is defined but never used.",
	"W101": "Line is too long.",
	"W103": "The '{a}' property is deprecated.",
	"W104": "'{a}' is available in ES{b} (use 'esversion: {b}') or Mozilla JS extensions (use moz).",
	"W105": "Unexpected {a} in '{b}'.",
	"W110": "Mixed double and single quotes.",
	"W115": "Octal literals are not allowed in strict mode.",
	"W116": "Expected '{a}' and instead saw '{b}'.",
	"W117": "'{a}' is not defined.",
	"W118": "'{a}' is only available in Mozilla JavaScript extensions (use moz option).",
	"W119": "'{a}' is only available in ES{b} (use 'esversion: {b}').",
	"W120": "You might be leaking a variable ({a}) here.",
	"W121": "Extending prototype of native object: '{a}'.",
	"W122": "Invalid typeof value '{a}'",
	"W123": "'{a}' is already defined in outer scope.",
	"W124": "A generator function should contain at least one yield expression.",
	"W126": "Unnecessary grouping operator.",
	"W127": "Unexpected use of a comma operator.",
	"W128": "Empty array elements require elision=true.",
	"W129": "'{a}' is defined in a future version of JavaScript. Use a different variable name to avoid migration issues.",
	"W130": "Invalid element after rest element.",
	"W131": "Invalid parameter after rest parameter.",
	"W132": "`var` declarations are forbidden. Use `let` or `const` instead.",
	"W133": "Invalid for-{a} loop left-hand-side: {b}.",
	"W134": "The '{a}' option is only available when linting ECMAScript {b} code.",
	"W136": "'{a}' must be in function scope.",
	"W137": "Empty destructuring: this is unnecessary and can be removed.",
	"W138": "Regular parameters should not come after default parameters.",
	"W139": "Function expressions should not be used as the second operand to instanceof.",
	"W140": "Missing comma.",
	"W141": "Empty {a}: this is unnecessary and can be removed.",
	"W143": "Assignment to properties of a mapped arguments object may cause unexpected changes to formal parameters.",
	"W145": "Superfluous 'case' clause.",
	"W146": "Unnecessary `await` expression.",
	"W148": "Unnecessary directive \"{a}\".",

	// Informational
	"I001": "Comma warnings can be turned off with 'laxcomma'.",
	"I003": "ES5 option is now set per default",
}
