package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey string

const (
	documentKey contextKey = "doc"
	commandKey  contextKey = "command"
)

// WithDocument tags log events made with this context with a document URI or path.
func WithDocument(ctx context.Context, doc string) context.Context {
	return context.WithValue(ctx, documentKey, doc)
}

// WithCommand tags log events with the CLI command or LSP method being served.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetDocument returns the document set by WithDocument, or "".
func GetDocument(ctx context.Context) string {
	if v, ok := ctx.Value(documentKey).(string); ok {
		return v
	}
	return ""
}

// GetCommand returns the command set by WithCommand, or "".
func GetCommand(ctx context.Context) string {
	if v, ok := ctx.Value(commandKey).(string); ok {
		return v
	}
	return ""
}

// ContextHook copies doc and command from the event context into the event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}
	if doc := GetDocument(ctx); doc != "" {
		e.Str("doc", doc)
	}
	if cmd := GetCommand(ctx); cmd != "" {
		e.Str("command", cmd)
	}
}
