// Package lsp adapts the language service to a stdio JSON-RPC host.
// Vocabulary configuration arrives over the custom turbols/configure
// notification; everything else is plain LSP.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"turbols/internal/diag"
	"turbols/internal/service"
	"turbols/internal/source"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// Server handles stdio JSON-RPC for one language service instance.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	svc *service.Service

	mu                sync.Mutex
	docs              map[string]*source.TextDocument
	lastDiags         map[string][]diag.Diagnostic
	shutdownRequested bool

	baseCtx context.Context
}

// NewServer constructs a server around an existing service so a host can
// pre-load vocabulary before serving.
func NewServer(in io.Reader, out io.Writer, svc *service.Service) *Server {
	if svc == nil {
		svc = service.New()
	}
	return &Server{
		in:        bufio.NewReader(in),
		out:       bufio.NewWriter(out),
		svc:       svc,
		docs:      make(map[string]*source.TextDocument),
		lastDiags: make(map[string][]diag.Diagnostic),
	}
}

// Run serves requests until shutdown or EOF.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
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
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		s.mu.Lock()
		s.shutdownRequested = true
		s.mu.Unlock()
		return s.sendResponse(msg.ID, nil)
	case "exit":
		s.mu.Lock()
		requested := s.shutdownRequested
		s.mu.Unlock()
		if requested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	case "textDocument/documentLink":
		return s.handleDocumentLink(msg)
	case "turbols/configure":
		return s.handleConfigure(msg)
	}
	if len(msg.ID) > 0 {
		return s.sendError(msg.ID, -32601, "method not found")
	}
	return nil
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync:     textDocumentSyncOptions{OpenClose: true, Change: 1},
			HoverProvider:        true,
			CompletionProvider:   &completionOptions{TriggerCharacters: []string{"\"", "'", "<", "@"}},
			FoldingRangeProvider: true,
			CodeActionProvider:   true,
			DocumentLinkProvider: &documentLinkOptions{},
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleConfigure(msg *rpcMessage) error {
	var params configureParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if err := s.svc.Configure(params.Category, params.Payload, params.Clear); err != nil {
		s.logf("configure: %v", err)
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32602, err.Error())
		}
		return nil
	}
	s.republishAll()
	if len(msg.ID) > 0 {
		return s.sendResponse(msg.ID, nil)
	}
	return nil
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	doc := source.NewTextDocument(params.TextDocument.Text)
	s.mu.Lock()
	s.docs[params.TextDocument.URI] = doc
	s.mu.Unlock()
	return s.publishDiagnostics(params.TextDocument.URI, doc)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change carries the whole document.
	doc := source.NewTextDocument(params.ContentChanges[len(params.ContentChanges)-1].Text)
	s.mu.Lock()
	s.docs[params.TextDocument.URI] = doc
	s.mu.Unlock()
	return s.publishDiagnostics(params.TextDocument.URI, doc)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	delete(s.lastDiags, params.TextDocument.URI)
	s.mu.Unlock()
	return s.sendPublish(params.TextDocument.URI, nil)
}

// publishDiagnostics runs checkSyntax and replaces the document's
// diagnostic set.
func (s *Server) publishDiagnostics(uri string, doc source.Document) error {
	diags, err := s.svc.CheckSyntax(s.ctx(), doc)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	s.lastDiags[uri] = diags
	s.mu.Unlock()
	list := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		list = append(list, toLSPDiagnostic(d))
	}
	return s.sendPublish(uri, list)
}

func (s *Server) republishAll() {
	s.mu.Lock()
	docs := make(map[string]*source.TextDocument, len(s.docs))
	for uri, doc := range s.docs {
		docs[uri] = doc
	}
	s.mu.Unlock()
	for uri, doc := range docs {
		if err := s.publishDiagnostics(uri, doc); err != nil {
			s.logf("republish %s: %v", uri, err)
		}
	}
}

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, completionList{Items: []completionItem{}})
	}
	items := s.svc.Completions(doc, source.Position{Line: params.Position.Line, Character: params.Position.Character})
	out := make([]completionItem, 0, len(items))
	for _, it := range items {
		out = append(out, completionItem{
			Label:         it.Label,
			Kind:          it.Kind,
			Detail:        it.Detail,
			Documentation: it.Documentation,
			InsertText:    it.InsertText,
			FilterText:    it.FilterText,
			SortText:      it.SortText,
		})
	}
	return s.sendResponse(msg.ID, completionList{Items: out})
}

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, nil)
	}
	result := s.svc.Hover(doc, source.Position{Line: params.Position.Line, Character: params.Position.Character})
	if result == nil {
		return s.sendResponse(msg.ID, nil)
	}
	rng := toLSPRange(result.Range)
	return s.sendResponse(msg.ID, hoverResult{
		Contents: markupContent{Kind: "markdown", Value: strings.Join(result.Contents, "\n\n")},
		Range:    &rng,
	})
}

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	ranges := s.svc.FoldingRanges(doc, 4)
	out := make([]foldingRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, foldingRange{StartLine: r.Start, EndLine: r.End, Kind: r.Kind.String()})
	}
	return s.sendResponse(msg.ID, out)
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	uri := params.TextDocument.URI
	doc := s.document(uri)
	if doc == nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	s.mu.Lock()
	diags := s.lastDiags[uri]
	s.mu.Unlock()
	actions := s.svc.CodeActions(doc, diags)
	out := make([]codeAction, 0, len(actions))
	for _, a := range actions {
		ca := codeAction{Title: a.Title, Kind: a.Kind, IsPreferred: a.IsPreferred}
		if a.Command != "" {
			ca.Command = &command{Title: a.Title, Command: a.Command}
		} else {
			ca.Edit = &workspaceEdit{Changes: map[string][]textEdit{
				uri: {{Range: toLSPRange(a.Range), NewText: a.NewText}},
			}}
		}
		out = append(out, ca)
	}
	return s.sendResponse(msg.ID, out)
}

func (s *Server) handleDocumentLink(msg *rpcMessage) error {
	var params documentLinkParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, []documentLink{})
	}
	found, err := s.svc.Links(s.ctx(), doc)
	if err != nil {
		return s.sendResponse(msg.ID, []documentLink{})
	}
	out := make([]documentLink, 0, len(found))
	for _, l := range found {
		out = append(out, documentLink{Range: toLSPRange(l.Range), Target: l.URL, Tooltip: l.Tooltip})
	}
	return s.sendResponse(msg.ID, out)
}

func (s *Server) document(uri string) *source.TextDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func (s *Server) ctx() context.Context {
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.Background()
}

func toLSPRange(r source.Range) lspRange {
	return lspRange{
		Start: position{Line: r.Start.Line, Character: r.Start.Character},
		End:   position{Line: r.End.Line, Character: r.End.Character},
	}
}

func toLSPDiagnostic(d diag.Diagnostic) lspDiagnostic {
	severity := 3
	switch d.Severity {
	case diag.SevError:
		severity = 1
	case diag.SevWarning:
		severity = 2
	}
	return lspDiagnostic{
		Range:    toLSPRange(d.Range),
		Severity: severity,
		Code:     d.Code,
		Source:   "turbols",
		Message:  d.Message,
	}
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"error":   rpcError{Code: code, Message: message},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Diagnostics: list,
		},
	}
	return s.send(msg)
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

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}
