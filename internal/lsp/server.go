package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"mynd/internal/logging"
	"mynd/internal/parser"
	"mynd/internal/reconcile"
	"mynd/internal/source"
	"mynd/internal/todo"
	"mynd/internal/trace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Store receives upserts and retractions. Required.
	Store todo.Store
	// Engine holds document memberships; a fresh one is created when nil.
	Engine         *reconcile.Engine
	MaxDiagnostics int
	Logger         *zerolog.Logger
	// ReadFile loads a saved document when didSave carries no text.
	ReadFile func(path string) ([]byte, error)
	Version  string
}

// document is the server's view of one open buffer.
type document struct {
	version int
	file    *source.File
	outcome parser.Outcome
	plan    *reconcile.Plan
}

// Server handles stdio JSON-RPC for the mynd language server.
// Messages are processed one at a time in arrival order.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu                sync.Mutex
	docs              map[string]*document
	published         map[string]struct{}
	shutdownRequested bool
	maxDiagnostics    int
	traceLSP          bool

	store    todo.Store
	engine   *reconcile.Engine
	readFile func(string) ([]byte, error)
	version  string
	log      zerolog.Logger
	baseCtx  context.Context
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	engine := opts.Engine
	if engine == nil {
		engine = reconcile.NewEngine()
	}
	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	log := logging.Component("lsp")
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		docs:           make(map[string]*document),
		published:      make(map[string]struct{}),
		maxDiagnostics: maxDiagnostics,
		store:          opts.Store,
		engine:         engine,
		readFile:       readFile,
		version:        opts.Version,
		log:            log,
		baseCtx:        context.Background(),
	}
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse message")
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	ctx := logging.WithCommand(s.baseCtx, msg.Method)
	ctx, span := trace.Start(ctx, trace.ScopeCommand, msg.Method)
	defer span.End("")

	if s.isShutdown() && msg.Method != "exit" {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(ctx, msg)
	case "exit":
		if s.isShutdown() {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, msg)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, msg)
	case "textDocument/didSave":
		return s.handleDidSave(ctx, msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	if len(params.Options) > 0 {
		s.applySettings(params.Options)
	}

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    1, // full
				Save:      saveOptions{IncludeText: true},
			},
			HoverProvider:        true,
			FoldingRangeProvider: true,
		},
		ServerInfo: serverInfo{Name: "mynd", Version: s.version},
	}
	return s.sendResponse(msg.ID, result)
}

// handleShutdown flushes the store before acknowledging.
func (s *Server) handleShutdown(ctx context.Context, msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	if err := s.flush(ctx); err != nil {
		s.logMessage(messageError, fmt.Sprintf("failed to save todos: %v", err))
	}
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	return s.syncDocument(ctx, uri, params.TextDocument.Version, params.TextDocument.Text)
}

func (s *Server) handleDidChange(ctx context.Context, msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	var text string
	if doc := s.docs[uri]; doc != nil {
		text = string(doc.file.Content)
	}
	s.mu.Unlock()
	text = applyChanges(text, params.ContentChanges)
	return s.syncDocument(ctx, uri, params.TextDocument.Version, text)
}

// handleDidSave reconciles the saved text and persists the store.
// Without text in the notification the file is re-read from disk.
func (s *Server) handleDidSave(ctx context.Context, msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}

	var text string
	if params.Text != nil {
		text = *params.Text
	} else {
		path := uriToPath(uri)
		data, err := s.readFile(path)
		if err != nil {
			s.logMessage(messageError, fmt.Sprintf("failed to read %s: %v", path, err))
			return nil
		}
		text = string(data)
	}

	s.mu.Lock()
	version := 0
	if doc := s.docs[uri]; doc != nil {
		version = doc.version
	}
	s.mu.Unlock()

	if err := s.syncDocument(ctx, uri, version, text); err != nil {
		return err
	}
	if err := s.flush(ctx); err != nil {
		s.logMessage(messageError, fmt.Sprintf("failed to save todos: %v", err))
	}
	return nil
}

// handleDidClose forgets the document's membership and clears its diagnostics.
// Records it produced stay in the store.
func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.engine.Forget(uri)
	s.mu.Lock()
	delete(s.docs, uri)
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if hadDiagnostics {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.log.Error().Err(err).Str("uri", uri).Msg("failed to clear diagnostics")
		}
	}
	return nil
}

func (s *Server) flush(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	ctx, span := trace.Start(ctx, trace.ScopePhase, "flush")
	defer span.End("")
	if err := s.store.Flush(ctx); err != nil {
		trace.Error(ctx, "flush", err)
		return err
	}
	return nil
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownRequested
}

func (s *Server) document(uri string) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[canonicalURI(uri)]
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendNotification(method string, params any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.sendNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: list,
	})
}

// logMessage mirrors a message to the server log and the editor's output window.
func (s *Server) logMessage(typ int, message string) {
	ev := s.log.Info()
	switch typ {
	case messageError:
		ev = s.log.Error()
	case messageWarning:
		ev = s.log.Warn()
	}
	ev.Msg(message)
	if err := s.sendNotification("window/logMessage", logMessageParams{Type: typ, Message: message}); err != nil {
		s.log.Error().Err(err).Msg("failed to send logMessage")
	}
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}
