package lsp

import (
	"encoding/json"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/query"
	"github.com/texlab-project/texlab-core/internal/source"
)

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params textDocumentIdentifier
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	snap := s.store.Snapshot()
	doc, ok := snap.InternLookup(params.URI)
	if !ok {
		return s.sendResponse(msg.ID, []documentSymbol{})
	}
	symbols, ok := query.DocumentSymbols(snap, doc)
	if !ok {
		return s.sendResponse(msg.ID, []documentSymbol{})
	}
	input, _ := snap.Document(doc)
	file := source.NewFile(params.URI, []byte(input.SourceCode))
	return s.sendResponse(msg.ID, toDocumentSymbols(file, symbols))
}

func toDocumentSymbols(file *source.File, symbols []*query.Symbol) []*documentSymbol {
	out := make([]*documentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		rng := rangeForSpan(file, sym.Range)
		out = append(out, &documentSymbol{
			Name:           sym.Name,
			Detail:         sym.Detail,
			Kind:           symbolKindToLSP(sym.Kind),
			Range:          rng,
			SelectionRange: rng,
			Children:       toDocumentSymbols(file, sym.Children),
		})
	}
	return out
}

// symbolKindToLSP maps query.SymbolKind onto the LSP SymbolKind enumeration.
// LSP reserves 1 (File) through 26; texlab's kinds map onto the closest
// existing meaning rather than inventing new numbers the protocol doesn't
// define.
func symbolKindToLSP(k query.SymbolKind) int {
	switch k {
	case query.KindSection:
		return 15 // String
	case query.KindEnvironment:
		return 19 // Object
	case query.KindLabel:
		return 13 // Variable
	case query.KindTheorem:
		return 12 // Function
	case query.KindBibEntry:
		return 5 // Class
	case query.KindBibField:
		return 7 // Property
	default:
		return 1 // File
	}
}

func (s *Server) handleWorkspaceSymbol(msg *rpcMessage) error {
	var params workspaceSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	snap := s.store.Snapshot()
	results := query.WorkspaceSymbols(s.analyzer, snap, params.Query)
	out := make([]symbolInformation, 0, len(results))
	for _, r := range results {
		uri, ok := snap.URI(r.Doc)
		if !ok {
			continue
		}
		input, _ := snap.Document(r.Doc)
		file := source.NewFile(uri, []byte(input.SourceCode))
		out = append(out, symbolInformation{
			Name: r.Symbol.Name,
			Kind: symbolKindToLSP(r.Symbol.Kind),
			Location: location{
				URI:   uri,
				Range: rangeForSpan(file, r.Symbol.Range),
			},
		})
	}
	return s.sendResponse(msg.ID, out)
}

func (s *Server) handleDocumentLink(msg *rpcMessage) error {
	var params textDocumentIdentifier
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	snap := s.store.Snapshot()
	doc, ok := snap.InternLookup(params.URI)
	if !ok {
		return s.sendResponse(msg.ID, []documentLink{})
	}
	input, ok := snap.Document(doc)
	if !ok {
		return s.sendResponse(msg.ID, []documentLink{})
	}
	file := source.NewFile(params.URI, []byte(input.SourceCode))
	links := query.DocumentLinks(s.analyzer, snap, doc)
	out := make([]documentLink, 0, len(links))
	for _, l := range links {
		out = append(out, documentLink{
			Range:  rangeForSpan(file, l.SourceRange),
			Target: l.TargetURI,
		})
	}
	return s.sendResponse(msg.ID, out)
}

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	snap := s.store.Snapshot()
	doc, ok := snap.InternLookup(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	input, ok := snap.Document(doc)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	file := source.NewFile(params.TextDocument.URI, []byte(input.SourceCode))
	offset := offsetForPositionInFile(file, params.Position)

	if target, ok := query.GotoDocumentDefinition(s.analyzer, snap, doc, offset); ok {
		targetURI, _ := snap.URI(target)
		return s.sendResponse(msg.ID, location{URI: targetURI, Range: lspRange{}})
	}

	if name, ok := refNameAt(file, offset); ok {
		unit := s.analyzer.CompilationUnit(snap, doc)
		if labelDoc, loc, ok := query.GotoLabelDefinition(s.analyzer, snap, unit, name); ok {
			return s.sendResponse(msg.ID, locationFor(snap, labelDoc, loc))
		}
		if entryDoc, loc, ok := query.GotoEntryDefinition(snap, unit, name); ok {
			return s.sendResponse(msg.ID, locationFor(snap, entryDoc, loc))
		}
	}
	return s.sendResponse(msg.ID, nil)
}

func locationFor(snap *db.Snapshot, doc db.Document, loc query.Location) location {
	uri, _ := snap.URI(doc)
	input, _ := snap.Document(doc)
	file := source.NewFile(uri, []byte(input.SourceCode))
	return location{URI: uri, Range: rangeForSpan(file, loc.Range)}
}

// refNameAt extracts the brace-group text around offset, covering
// \ref{name}/\cite{name} argument positions: a goto-definition request
// inside either argument should resolve the same way regardless of which
// command wraps it, since both ultimately name a target declared elsewhere
// in the compilation unit.
func refNameAt(file *source.File, offset uint32) (string, bool) {
	content := file.Content
	if offset > uint32(len(content)) {
		return "", false
	}
	start := offset
	for start > 0 && content[start-1] != '{' && content[start-1] != '\n' {
		start--
	}
	end := offset
	for end < uint32(len(content)) && content[end] != '}' && content[end] != '\n' {
		end++
	}
	if start >= end || start == 0 || content[start-1] != '{' {
		return "", false
	}
	return string(content[start:end]), true
}
