package lsp

import (
	"encoding/json"

	"github.com/texlab-project/texlab-core/internal/config"
)

// handleDidChangeConfiguration wires workspace/didChangeConfiguration to the
// client_options input (spec.md §6): the editor pushes its `texlab` section
// and applySettings merges it over whatever client_options the store holds
// (config.Merge: the pushed section's set values win, section by section).
func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

// applySettings decodes the `texlab` section of a didChangeConfiguration
// payload and merges it over whatever client_options the store already
// holds (typically a texlab.toml fallback). A decode failure is logged and
// the current client_options are kept unchanged; the session is not aborted.
func (s *Server) applySettings(raw json.RawMessage) {
	texlabSection, err := extractTexlabSection(raw)
	if err != nil {
		s.logf("didChangeConfiguration: %v", err)
		return
	}
	opts, err := config.DecodeJSON(texlabSection)
	if err != nil {
		s.logf("didChangeConfiguration: %v", err)
		return
	}
	snap := s.store.Snapshot()
	s.store.SetClientOptions(config.Merge(snap.ClientOptions(), opts))
	s.scheduleDiagnostics()
}

// extractTexlabSection pulls the "texlab" key out of a didChangeConfiguration
// settings payload, tolerating both `{"texlab": {...}}` (the common shape)
// and a bare `{...}` section sent directly.
func extractTexlabSection(raw json.RawMessage) (json.RawMessage, error) {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if section, ok := wrapped["texlab"]; ok {
		return section, nil
	}
	return raw, nil
}
