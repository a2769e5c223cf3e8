// Package token defines lexical token kinds for the todo notation.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - For Text tokens, Span matches Text exactly.
//   - For TextBlock tokens, Span covers both braces while Text excludes them.
//   - The only keyword is "todo"; any other word starts a Text token.
package token
