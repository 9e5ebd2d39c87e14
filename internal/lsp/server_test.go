package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/query"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

func newTestServer(t *testing.T, hooks FeatureHooks) (*Server, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	store := db.NewStore()
	analyzer := workspace.NewAnalyzer()
	s := NewServer(bytes.NewReader(nil), &out, store, analyzer, ServerOptions{
		Debounce: time.Hour,
		Hooks:    hooks,
	})
	s.baseCtx = context.Background()
	return s, &out
}

// readResponses decodes every framed message currently buffered in out.
func readResponses(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if err != nil {
			break
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func rawParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return b
}

func TestInitializeAdvertisesConfiguredCapabilitiesOnly(t *testing.T) {
	s, out := newTestServer(t, FeatureHooks{})
	if err := s.handleInitialize(&rpcMessage{ID: json.RawMessage("1")}); err != nil {
		t.Fatalf("handleInitialize: %v", err)
	}
	msgs := readResponses(t, out)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 response, got %d", len(msgs))
	}
	var result initializeResult
	if err := json.Unmarshal(msgs[0].Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Capabilities.DocumentSymbolProvider || !result.Capabilities.WorkspaceSymbolProvider || !result.Capabilities.DefinitionProvider {
		t.Fatalf("expected core capabilities advertised, got %+v", result.Capabilities)
	}
	if !result.Capabilities.DocumentHighlightProvider || !result.Capabilities.FoldingRangeProvider || !result.Capabilities.SemanticTokensProvider.Range {
		t.Fatalf("expected folding range/document highlight/semantic tokens range always advertised, got %+v", result.Capabilities)
	}
	if result.Capabilities.HoverProvider || result.Capabilities.CompletionProvider != nil {
		t.Fatalf("expected no hover/completion capability without hooks configured, got %+v", result.Capabilities)
	}
	if result.Capabilities.RenameProvider != nil {
		t.Fatalf("expected no rename capability without a rename hook configured, got %+v", result.Capabilities)
	}

	s2, out2 := newTestServer(t, FeatureHooks{
		Hover:      func(context.Context, query.FeatureRequest) (any, error) { return nil, nil },
		Completion: func(context.Context, query.FeatureRequest) (any, error) { return nil, nil },
		Rename:     func(context.Context, query.FeatureRequest) (any, error) { return nil, nil },
	})
	if err := s2.handleInitialize(&rpcMessage{ID: json.RawMessage("1")}); err != nil {
		t.Fatalf("handleInitialize: %v", err)
	}
	msgs2 := readResponses(t, out2)
	var result2 initializeResult
	if err := json.Unmarshal(msgs2[0].Result, &result2); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result2.Capabilities.HoverProvider || result2.Capabilities.CompletionProvider == nil {
		t.Fatalf("expected hover/completion capability once hooks are configured, got %+v", result2.Capabilities)
	}
	if result2.Capabilities.RenameProvider == nil || !result2.Capabilities.RenameProvider.PrepareProvider {
		t.Fatalf("expected rename with prepareProvider once a rename hook is configured, got %+v", result2.Capabilities)
	}
}

func TestEditorCapabilitiesRespondEmpty(t *testing.T) {
	s, out := newTestServer(t, FeatureHooks{})
	textDocPosParams := textDocumentPositionParams{
		TextDocument: textDocumentIdentifier{URI: "file:///proj/main.tex"},
		Position:     position{Line: 0, Character: 0},
	}

	msgs := []*rpcMessage{
		{ID: json.RawMessage(`"fold"`), Method: "textDocument/foldingRange",
			Params: rawParams(t, textDocumentIdentifier{URI: "file:///proj/main.tex"})},
		{ID: json.RawMessage(`"hl"`), Method: "textDocument/documentHighlight",
			Params: rawParams(t, textDocPosParams)},
		{ID: json.RawMessage(`"sem"`), Method: "textDocument/semanticTokens/range",
			Params: rawParams(t, struct {
				TextDocument textDocumentIdentifier `json:"textDocument"`
				Range        lspRange               `json:"range"`
			}{TextDocument: textDocumentIdentifier{URI: "file:///proj/main.tex"}})},
		{ID: json.RawMessage(`"prep"`), Method: "textDocument/prepareRename",
			Params: rawParams(t, textDocPosParams)},
	}
	for _, msg := range msgs {
		if err := s.handleMessage(msg); err != nil {
			t.Fatalf("handleMessage(%s): %v", msg.Method, err)
		}
	}

	resps := readResponses(t, out)
	if len(resps) != len(msgs) {
		t.Fatalf("expected %d responses, got %d", len(msgs), len(resps))
	}
	var fold []any
	if err := json.Unmarshal(resps[0].Result, &fold); err != nil || len(fold) != 0 {
		t.Fatalf("expected an empty array for foldingRange, got %s", resps[0].Result)
	}
	var highlights []any
	if err := json.Unmarshal(resps[1].Result, &highlights); err != nil || len(highlights) != 0 {
		t.Fatalf("expected an empty array for documentHighlight, got %s", resps[1].Result)
	}
	var tokens semanticTokens
	if err := json.Unmarshal(resps[2].Result, &tokens); err != nil || len(tokens.Data) != 0 {
		t.Fatalf("expected empty semantic tokens data, got %s", resps[2].Result)
	}
	if string(resps[3].Result) != "null" {
		t.Fatalf("expected null for prepareRename, got %s", resps[3].Result)
	}
}

func TestDidOpenAndDocumentSymbol(t *testing.T) {
	s, out := newTestServer(t, FeatureHooks{})
	openParams := didOpenTextDocumentParams{TextDocument: textDocumentItem{
		URI:        "file:///proj/main.tex",
		LanguageID: "latex",
		Version:    1,
		Text:       "\\section{Intro}\n\\label{sec:intro}\n",
	}}
	if err := s.handleDidOpen(&rpcMessage{Params: rawParams(t, openParams)}); err != nil {
		t.Fatalf("handleDidOpen: %v", err)
	}

	if err := s.handleDocumentSymbol(&rpcMessage{
		ID:     json.RawMessage("2"),
		Params: rawParams(t, textDocumentIdentifier{URI: "file:///proj/main.tex"}),
	}); err != nil {
		t.Fatalf("handleDocumentSymbol: %v", err)
	}
	msgs := readResponses(t, out)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 response, got %d", len(msgs))
	}
	var symbols []documentSymbol
	if err := json.Unmarshal(msgs[0].Result, &symbols); err != nil {
		t.Fatalf("decode symbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Name != "Intro" {
		t.Fatalf("unexpected symbols: %+v", symbols)
	}
	if len(symbols[0].Children) != 1 || symbols[0].Children[0].Name != "sec:intro" {
		t.Fatalf("expected nested label, got %+v", symbols[0].Children)
	}
}

func TestWorkspaceSymbolFiltersByQuery(t *testing.T) {
	s, out := newTestServer(t, FeatureHooks{})
	open := didOpenTextDocumentParams{TextDocument: textDocumentItem{
		URI: "file:///proj/main.tex", LanguageID: "latex", Version: 1,
		Text: "\\section{Background}\n\\section{Methods}\n",
	}}
	if err := s.handleDidOpen(&rpcMessage{Params: rawParams(t, open)}); err != nil {
		t.Fatalf("handleDidOpen: %v", err)
	}
	if err := s.handleWorkspaceSymbol(&rpcMessage{
		ID:     json.RawMessage("3"),
		Params: rawParams(t, workspaceSymbolParams{Query: "back"}),
	}); err != nil {
		t.Fatalf("handleWorkspaceSymbol: %v", err)
	}
	msgs := readResponses(t, out)
	var results []symbolInformation
	if err := json.Unmarshal(msgs[0].Result, &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Background" {
		t.Fatalf("unexpected workspace symbols: %+v", results)
	}
}

func TestDidChangeConfigurationUpdatesClientOptions(t *testing.T) {
	s, _ := newTestServer(t, FeatureHooks{})
	params := didChangeConfigurationParams{
		Settings: rawParams(t, map[string]any{
			"texlab": map[string]any{"rootDirectory": "/tmp/proj"},
		}),
	}
	if err := s.handleDidChangeConfiguration(&rpcMessage{Params: rawParams(t, params)}); err != nil {
		t.Fatalf("handleDidChangeConfiguration: %v", err)
	}
	got := s.store.Snapshot().ClientOptions().RootDirectory
	if got != "/tmp/proj" {
		t.Fatalf("expected root directory to be set from pushed config, got %q", got)
	}
}

func TestRunDiagnosticsPublishesAndClearsOnClose(t *testing.T) {
	s, out := newTestServer(t, FeatureHooks{})
	open := didOpenTextDocumentParams{TextDocument: textDocumentItem{
		URI: "file:///proj/broken.tex", LanguageID: "latex", Version: 1,
		Text: "\\section{Intro",
	}}
	if err := s.handleDidOpen(&rpcMessage{Params: rawParams(t, open)}); err != nil {
		t.Fatalf("handleDidOpen: %v", err)
	}
	seq := atomic.LoadUint64(&s.latestSeq)
	s.runDiagnostics(seq)

	msgs := readResponses(t, out)
	var published *publishDiagnosticsParams
	for _, m := range msgs {
		if m.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var p publishDiagnosticsParams
		if err := json.Unmarshal(m.Params, &p); err != nil {
			t.Fatalf("decode publish params: %v", err)
		}
		published = &p
	}
	if published == nil || len(published.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic for an unterminated brace group")
	}

	out.Reset()
	if err := s.handleDidClose(&rpcMessage{
		Params: rawParams(t, didCloseTextDocumentParams{TextDocument: textDocumentIdentifier{URI: "file:///proj/broken.tex"}}),
	}); err != nil {
		t.Fatalf("handleDidClose: %v", err)
	}
	msgs = readResponses(t, out)
	if len(msgs) != 1 || msgs[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("expected a clearing publish on close, got %+v", msgs)
	}
	var cleared publishDiagnosticsParams
	if err := json.Unmarshal(msgs[0].Params, &cleared); err != nil {
		t.Fatalf("decode cleared params: %v", err)
	}
	if len(cleared.Diagnostics) != 0 {
		t.Fatalf("expected diagnostics cleared on close, got %+v", cleared.Diagnostics)
	}
}
