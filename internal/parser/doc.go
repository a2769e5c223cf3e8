// Package parser turns a todo document into an ordered Outcome.
//
// Grammar:
//
//	document = { todo | stray } EOF
//	todo     = "todo" ( text | block )
//	stray    = text | block
//
// Parsing never stops early: every top-level construct yields one Entry,
// either an *ast.Item or an *Error, in document order.
package parser
