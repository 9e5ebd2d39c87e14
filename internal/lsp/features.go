package lsp

import (
	"context"

	"github.com/texlab-project/texlab-core/internal/query"
)

// CompletionFunc, HoverFunc, and the rest of FeatureHooks are the pluggable
// external-collaborator seams spec.md §4.6 names: completion, hover,
// references, rename, formatting, forward_search, and build all receive a
// query.FeatureRequest and return whatever JSON result the editor expects.
// The core module only defines the envelope and the dispatch; the actual
// language intelligence behind each hook is out of scope (spec.md
// Non-goals), the same way the teacher's AnalyzeFunc/AnalyzeFilesFunc let an
// external diagnostics engine be swapped in without the server package
// knowing its internals.
type (
	CompletionFunc    func(ctx context.Context, req query.FeatureRequest) (any, error)
	HoverFunc         func(ctx context.Context, req query.FeatureRequest) (any, error)
	ReferencesFunc    func(ctx context.Context, req query.FeatureRequest) (any, error)
	RenameFunc        func(ctx context.Context, req query.FeatureRequest) (any, error)
	FormattingFunc    func(ctx context.Context, req query.FeatureRequest) (any, error)
	BuildFunc         func(ctx context.Context, req query.FeatureRequest) (string, error)
	ForwardSearchFunc func(ctx context.Context, req query.FeatureRequest) (string, error)
)

// FeatureHooks bundles every external-collaborator seam. A nil field means
// the corresponding capability is not advertised to the client at all
// (spec.md §4.6: these are optional editor-side integrations, not core
// functionality).
type FeatureHooks struct {
	Completion    CompletionFunc
	Hover         HoverFunc
	References    ReferencesFunc
	Rename        RenameFunc
	Formatting    FormattingFunc
	Build         BuildFunc
	ForwardSearch ForwardSearchFunc
}
