package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Debounce       time.Duration
	MaxDiagnostics int
	Hooks          FeatureHooks
	// TraceLSP logs each textDocument/didChange (uri and version) to stderr
	// (texlab --trace).
	TraceLSP bool
}

// Server handles stdio JSON-RPC for texlab (spec.md §6). It owns no
// analysis state of its own: every input lives in db.Store, every derived
// query goes through workspace.Analyzer/internal/query, and a Snapshot
// taken when a debounced analysis fires is already the latest state by
// construction, so the server only needs a sequence counter to drop a
// slow, superseded analysis -- not the elaborate scope/mismatch bookkeeping
// a multi-project-root server would need.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex

	store    *db.Store
	analyzer *workspace.Analyzer
	hooks    FeatureHooks

	versions  map[string]int
	published map[string]struct{}

	shutdownRequested bool
	debounce          time.Duration
	debounceTimer     *time.Timer
	diagCancel        context.CancelFunc
	analysisSeq       uint64
	latestSeq         uint64
	appliedSeq        uint64
	maxDiagnostics    int
	traceLSP          bool
	baseCtx           context.Context

	dynamicConfiguration bool
	dynamicFileWatcher   bool
}

// NewServer constructs a new LSP server over store/analyzer.
func NewServer(in io.Reader, out io.Writer, store *db.Store, analyzer *workspace.Analyzer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 1000
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		store:          store,
		analyzer:       analyzer,
		hooks:          opts.Hooks,
		versions:       make(map[string]int),
		published:      make(map[string]struct{}),
		debounce:       debounce,
		maxDiagnostics: maxDiagnostics,
		traceLSP:       opts.TraceLSP,
	}
}

// Run serves LSP requests until shutdown.
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
			if errors.Is(err, ErrExit) || errors.Is(err, ErrExitWithoutShutdown) {
				return err
			}
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		s.registerDynamicCapabilities()
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "workspace/symbol":
		return s.handleWorkspaceSymbol(msg)
	case "textDocument/documentLink":
		return s.handleDocumentLink(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/references":
		return s.handleReferences(msg)
	case "textDocument/rename":
		return s.handleRename(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/build":
		return s.handleBuild(msg)
	case "textDocument/forwardSearch":
		return s.handleForwardSearch(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/documentHighlight":
		return s.handleDocumentHighlight(msg)
	case "textDocument/semanticTokens/range":
		return s.handleSemanticTokensRange(msg)
	case "textDocument/prepareRename":
		return s.handlePrepareRename(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	root := ""
	switch {
	case params.RootURI != "":
		root = uriToPath(params.RootURI)
	case params.RootPath != "":
		root = params.RootPath
	case len(params.WorkspaceFolders) > 0:
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	s.store.SetCurrentDirectory(root)

	s.mu.Lock()
	s.dynamicConfiguration = params.Capabilities.Workspace.DidChangeConfiguration.DynamicRegistration
	s.dynamicFileWatcher = params.Capabilities.Workspace.DidChangeWatchedFiles.DynamicRegistration
	s.mu.Unlock()
	s.store.SetClientCapabilities(db.ClientCapabilities{
		DynamicConfiguration: s.dynamicConfiguration,
		DynamicFileWatcher:   s.dynamicFileWatcher,
	})

	caps := serverCapabilities{
		TextDocumentSync: textDocumentSyncOptions{
			OpenClose: true,
			Change:    2,
			Save:      saveOptions{IncludeText: true},
		},
		DocumentSymbolProvider:    true,
		WorkspaceSymbolProvider:   true,
		DocumentLinkProvider:      &struct{}{},
		DefinitionProvider:        true,
		DocumentHighlightProvider: true,
		FoldingRangeProvider:      true,
		SemanticTokensProvider: semanticTokensRangeOptions{
			Legend: semanticTokensLegend{},
			Range:  true,
		},
	}
	if s.hooks.Hover != nil {
		caps.HoverProvider = true
	}
	if s.hooks.Completion != nil {
		caps.CompletionProvider = &completionOptions{
			TriggerCharacters: []string{`\`, "{", "}", "@", "/", " "},
		}
	}
	if s.hooks.References != nil {
		caps.ReferencesProvider = true
	}
	if s.hooks.Rename != nil {
		caps.RenameProvider = &renameOptions{PrepareProvider: true}
	}
	if s.hooks.Formatting != nil {
		caps.DocumentFormattingProvider = true
	}

	return s.sendResponse(msg.ID, initializeResult{Capabilities: caps})
}

// registerDynamicCapabilities asks the client to push configuration and
// watch generated .aux/.log files, when it advertised support for dynamic
// registration at initialize time (spec.md §6 "Filesystem discovery" and
// "Configuration"). Responses to these requests carry no information the
// server needs, so they are fire-and-forget like the editor's own
// notifications.
func (s *Server) registerDynamicCapabilities() {
	var regs []registration
	if s.dynamicConfiguration {
		regs = append(regs, registration{
			ID:     "texlab-did-change-configuration",
			Method: "workspace/didChangeConfiguration",
		})
	}
	if s.dynamicFileWatcher {
		regs = append(regs, registration{
			ID:     "texlab-did-change-watched-files",
			Method: "workspace/didChangeWatchedFiles",
			RegisterOptions: didChangeWatchedFilesRegistrationOptions{
				Watchers: []fileSystemWatcher{{GlobPattern: "**/*.{aux,log}"}},
			},
		})
	}
	if len(regs) == 0 {
		return
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(`"texlab-register-capability"`),
		"method":  "client/registerCapability",
		"params":  registrationParams{Registrations: regs},
	}
	if err := s.send(msg); err != nil {
		s.logf("failed to register dynamic capabilities: %v", err)
	}
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	ext := extOfURI(uri)
	doc := s.store.Upsert(uri, db.DocumentInput{
		SourceCode: params.TextDocument.Text,
		Language:   db.LanguageFromID(params.TextDocument.LanguageID, ext),
		Visibility: db.Visible,
	})
	s.mu.Lock()
	s.versions[uri] = params.TextDocument.Version
	s.mu.Unlock()
	workspace.Discover(s.analyzer, s.store, doc)
	s.scheduleDiagnostics()
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	snap := s.store.Snapshot()
	doc, ok := snap.InternLookup(uri)
	if !ok {
		return nil
	}
	input, ok := snap.Document(doc)
	if !ok {
		return nil
	}
	input.SourceCode = applyChanges(input.SourceCode, params.ContentChanges)
	s.store.Upsert(uri, input)
	s.mu.Lock()
	s.versions[uri] = params.TextDocument.Version
	trace := s.traceLSP
	s.mu.Unlock()
	if trace {
		s.logf("didChange: uri=%s version=%d", uri, params.TextDocument.Version)
	}
	s.scheduleDiagnostics()
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" || params.Text == nil {
		s.scheduleDiagnostics()
		return nil
	}
	snap := s.store.Snapshot()
	doc, ok := snap.InternLookup(uri)
	if !ok {
		return nil
	}
	input, _ := snap.Document(doc)
	input.SourceCode = *params.Text
	s.store.Upsert(uri, input)
	s.scheduleDiagnostics()
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	snap := s.store.Snapshot()
	if doc, ok := snap.InternLookup(uri); ok {
		s.store.SetVisibility(doc, db.Hidden)
	}
	s.mu.Lock()
	delete(s.versions, uri)
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if hadDiagnostics {
		if err := s.sendPublish(uri, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	s.scheduleDiagnostics()
	return nil
}

func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	seq := atomic.AddUint64(&s.analysisSeq, 1)
	atomic.StoreUint64(&s.latestSeq, seq)
	if s.diagCancel != nil {
		s.diagCancel()
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	delay := s.debounce
	s.debounceTimer = time.AfterFunc(delay, func() {
		s.runDiagnostics(seq)
	})
	s.mu.Unlock()
}

// runDiagnostics takes a fresh Snapshot (always the latest state by the
// time the debounce timer fires, per db.Store's single-writer discipline)
// and diagnoses every Visible document, per spec.md §4.5/§5. seq guards
// against an in-flight analysis publishing after a later edit has already
// scheduled -- and started -- its own, newer analysis.
func (s *Server) runDiagnostics(seq uint64) {
	if seq == 0 || !s.isLatestSeq(seq) {
		return
	}
	s.mu.Lock()
	if s.diagCancel != nil {
		s.diagCancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.diagCancel = cancel
	s.mu.Unlock()

	snap := s.store.Snapshot()
	grouped := make(map[string][]lspDiagnostic)
	for _, doc := range snap.AllDocuments() {
		if ctx.Err() != nil {
			return
		}
		input, ok := snap.Document(doc)
		if !ok || input.Visibility != db.Visible {
			continue
		}
		uri, ok := snap.URI(doc)
		if !ok {
			continue
		}
		bag := s.analyzer.Diagnose(snap, doc)
		if bag.Len() == 0 {
			continue
		}
		file := source.NewFile(uri, []byte(input.SourceCode))
		grouped[uri] = toLSPDiagnostics(bag, file, s.maxDiagnostics)
	}
	if !s.isLatestSeq(seq) {
		return
	}
	s.publishDiagnostics(grouped)
	atomic.StoreUint64(&s.appliedSeq, seq)
}

func toLSPDiagnostics(bag *diag.Bag, file *source.File, limit int) []lspDiagnostic {
	items := bag.Items()
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]lspDiagnostic, 0, len(items))
	for _, d := range items {
		out = append(out, lspDiagnostic{
			Range:    rangeForSpan(file, d.Primary),
			Severity: severityToLSP(d.Severity),
			Code:     d.Code.ID(),
			Source:   "texlab",
			Message:  d.Message,
		})
	}
	return out
}

func severityToLSP(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

func (s *Server) publishDiagnostics(grouped map[string][]lspDiagnostic) {
	targets := make([]string, 0, len(grouped))
	for uri := range grouped {
		targets = append(targets, uri)
	}
	sort.Strings(targets)

	s.mu.Lock()
	prev := s.published
	s.published = make(map[string]struct{}, len(targets))
	for _, uri := range targets {
		s.published[uri] = struct{}{}
	}
	s.mu.Unlock()

	for _, uri := range targets {
		if err := s.sendPublish(uri, grouped[uri]); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
	}
	for uri := range prev {
		if _, ok := grouped[uri]; ok {
			continue
		}
		if err := s.sendPublish(uri, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for uri := range prev {
		if err := s.sendPublish(uri, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

func (s *Server) isLatestSeq(seq uint64) bool {
	if seq == 0 {
		return false
	}
	return seq == atomic.LoadUint64(&s.latestSeq)
}

func extOfURI(uri string) string {
	for i := len(uri) - 1; i >= 0; i-- {
		switch uri[i] {
		case '.':
			return uri[i:]
		case '/':
			return ""
		}
	}
	return ""
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
		"error": rpcError{
			Code:    code,
			Message: message,
		},
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
