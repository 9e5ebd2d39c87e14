package db

import "sync"

// DocumentInput bundles the three per-document mutable inputs of spec.md §3
// (I1: every handle has populated source_code, language, visibility).
// It is a plain comparable value so memo tables can use it as a
// content-addressed cache key (§4.1 "memoized keyed by its arguments").
type DocumentInput struct {
	SourceCode string
	Language   Language
	Visibility Visibility
}

// Store is the single canonical, mutable home for every L0 input in
// spec.md §4.1: current_directory, client_capabilities, client_info,
// client_options, distro_kind, distro_resolver, all_documents, and the
// per-document cells. Only the main loop mutates a Store (§5); readers take
// a Snapshot instead of touching the Store directly.
//
// Grounded on internal/source/interner.go's RWMutex-guarded table and on
// internal/lsp/server.go's single-writer main loop discipline.
type Store struct {
	mu sync.RWMutex

	interner *Interner

	epoch uint64 // bumped on ANY input mutation; coarse invalidation signal

	currentDirectory   string
	clientCapabilities ClientCapabilities
	clientInfo         ClientInfo
	clientOptions      ClientOptions
	distroKind         DistroKind
	distroResolver     DistroResolver

	documents map[Document]DocumentInput
}

// NewStore creates an empty Store with sensible zero-value defaults.
func NewStore() *Store {
	return &Store{
		interner:  NewInterner(),
		documents: make(map[Document]DocumentInput),
	}
}

// Interner returns the Store's URI<->Document interner.
func (s *Store) Interner() *Interner { return s.interner }

func (s *Store) bumpLocked() uint64 {
	s.epoch++
	return s.epoch
}

// SetCurrentDirectory sets the current_directory input.
func (s *Store) SetCurrentDirectory(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentDirectory = dir
	s.bumpLocked()
}

// SetClientCapabilities sets the client_capabilities input.
func (s *Store) SetClientCapabilities(caps ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCapabilities = caps
	s.bumpLocked()
}

// SetClientInfo sets the client_info input.
func (s *Store) SetClientInfo(info ClientInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientInfo = info
	s.bumpLocked()
}

// SetClientOptions sets the client_options input (spec.md §6 Configuration).
func (s *Store) SetClientOptions(opts ClientOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientOptions = opts
	s.bumpLocked()
}

// SetDistro sets the distro_kind and distro_resolver inputs together, since
// in practice they always change as a pair (a fresh distro probe).
func (s *Store) SetDistro(kind DistroKind, resolver DistroResolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distroKind = kind
	s.distroResolver = resolver
	s.bumpLocked()
}

// Upsert inserts or updates a document's source_code/language/visibility
// inputs and returns its interned handle. Part of the document set the
// moment it is first upserted (spec.md §3 "Lifecycle").
func (s *Store) Upsert(uri string, input DocumentInput) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.interner.Intern(uri)
	s.documents[doc] = input
	s.bumpLocked()
	return doc
}

// SetVisibility updates only the visibility of an already-known document.
func (s *Store) SetVisibility(doc Document, vis Visibility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.documents[doc]
	if !ok {
		return
	}
	in.Visibility = vis
	s.documents[doc] = in
	s.bumpLocked()
}

// Delete removes a document from the set and clears its source, per
// spec.md §3 "Deletion removes the handle from the set and clears its
// source; the handle itself may remain live... but is unreachable via the
// set."
func (s *Store) Delete(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, doc)
	s.bumpLocked()
}

// Lookup resolves a document handle back to its URI.
func (s *Store) Lookup(doc Document) (string, bool) {
	return s.interner.Lookup(doc)
}

// Intern interns a URI without inserting it into the document set. Used by
// the workspace layer (§4.4) to resolve link targets to handles before
// deciding whether to open them.
func (s *Store) Intern(uri string) Document {
	return s.interner.Intern(uri)
}
