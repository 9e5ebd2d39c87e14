package lsp

import (
	"encoding/json"

	"github.com/texlab-project/texlab-core/internal/query"
)

// featureRequest builds the query.FeatureRequest envelope spec.md §4.6
// hands to an external collaborator: the snapshot the request should be
// answered against, the document it targets, and whatever params the wire
// method carried (left as a json.RawMessage, since this core package has no
// opinion on any one collaborator's param shape).
func (s *Server) featureRequest(uri string, params json.RawMessage) (query.FeatureRequest, bool) {
	snap := s.store.Snapshot()
	doc, ok := snap.InternLookup(uri)
	if !ok {
		return query.FeatureRequest{}, false
	}
	return query.FeatureRequest{Snapshot: snap, Document: doc, Params: params}, true
}

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if s.hooks.Completion == nil {
		return s.sendResponse(msg.ID, []any{})
	}
	req, ok := s.featureRequest(params.TextDocument.URI, msg.Params)
	if !ok {
		return s.sendResponse(msg.ID, []any{})
	}
	result, err := s.hooks.Completion(s.baseCtx, req)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if s.hooks.Hover == nil {
		return s.sendResponse(msg.ID, nil)
	}
	req, ok := s.featureRequest(params.TextDocument.URI, msg.Params)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	result, err := s.hooks.Hover(s.baseCtx, req)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleReferences(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if s.hooks.References == nil {
		return s.sendResponse(msg.ID, []any{})
	}
	req, ok := s.featureRequest(params.TextDocument.URI, msg.Params)
	if !ok {
		return s.sendResponse(msg.ID, []any{})
	}
	result, err := s.hooks.References(s.baseCtx, req)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleRename(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if s.hooks.Rename == nil {
		return s.sendError(msg.ID, -32601, "rename is not configured")
	}
	req, ok := s.featureRequest(params.TextDocument.URI, msg.Params)
	if !ok {
		return s.sendError(msg.ID, -32602, "unknown document")
	}
	result, err := s.hooks.Rename(s.baseCtx, req)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params struct {
		TextDocument textDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if s.hooks.Formatting == nil {
		return s.sendResponse(msg.ID, []any{})
	}
	req, ok := s.featureRequest(params.TextDocument.URI, msg.Params)
	if !ok {
		return s.sendResponse(msg.ID, []any{})
	}
	result, err := s.hooks.Formatting(s.baseCtx, req)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleBuild(msg *rpcMessage) error {
	var params buildParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if s.hooks.Build == nil {
		return s.sendResponse(msg.ID, buildResult{Status: "unconfigured"})
	}
	req, ok := s.featureRequest(params.TextDocument.URI, msg.Params)
	if !ok {
		return s.sendResponse(msg.ID, buildResult{Status: "unknownDocument"})
	}
	status, err := s.hooks.Build(s.baseCtx, req)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, buildResult{Status: status})
}

func (s *Server) handleForwardSearch(msg *rpcMessage) error {
	var params forwardSearchParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	if s.hooks.ForwardSearch == nil {
		return s.sendResponse(msg.ID, forwardSearchResult{Status: "unconfigured"})
	}
	req, ok := s.featureRequest(params.TextDocument.URI, msg.Params)
	if !ok {
		return s.sendResponse(msg.ID, forwardSearchResult{Status: "unknownDocument"})
	}
	status, err := s.hooks.ForwardSearch(s.baseCtx, req)
	if err != nil {
		return s.sendError(msg.ID, -32603, err.Error())
	}
	return s.sendResponse(msg.ID, forwardSearchResult{Status: status})
}
