// Package fuzztests houses Go fuzz harnesses for the document pipeline
// (source -> lexer -> parser -> reconcile). They guard against panics,
// hangs and broken span invariants on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через лексер, парсер и планировщик.
//
// Не делает: запись в хранилище, запуск CLI или LSP.
package fuzztests
