package lsp

import "encoding/json"

// These three requests are declared in serverCapabilities (spec.md §6 /
// SPEC_FULL §10) but have no query-layer implementation backing them yet:
// folding ranges, document highlights, and the ranged form of semantic
// tokens. Rather than leave the capability set lossy against what's
// declared, they're wired here as well-formed empty responses, the same
// "declared but hookless" posture handleBuild/handleForwardSearch take
// before a collaborator hook is configured.

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params textDocumentIdentifier
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	return s.sendResponse(msg.ID, []any{})
}

func (s *Server) handleDocumentHighlight(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	return s.sendResponse(msg.ID, []any{})
}

func (s *Server) handleSemanticTokensRange(msg *rpcMessage) error {
	var params struct {
		TextDocument textDocumentIdentifier `json:"textDocument"`
		Range        lspRange               `json:"range"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	return s.sendResponse(msg.ID, semanticTokens{Data: []uint32{}})
}

// handlePrepareRename answers textDocument/prepareRename with null,
// meaning "nothing renameable at this position." texlab has no symbol-range
// lookup feeding this yet, so it never offers a rename range; the client
// falls back to treating rename as unavailable here rather than crashing on
// a missing handler.
func (s *Server) handlePrepareRename(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	return s.sendResponse(msg.ID, nil)
}

type semanticTokens struct {
	Data []uint32 `json:"data"`
}
