package db

import "sort"

// Snapshot is a read-only, point-in-time view of a Store: cheaply
// cloneable and safe to share across worker goroutines (spec.md §4.1, §5).
// It is produced by copying the current input values under a single read
// lock, so later writes to the Store never affect an already-issued
// Snapshot (the "monotonic visibility" guarantee of §5).
type Snapshot struct {
	interner *Interner
	epoch    uint64

	currentDirectory   string
	clientCapabilities ClientCapabilities
	clientInfo         ClientInfo
	clientOptions      ClientOptions
	distroKind         DistroKind
	distroResolver     DistroResolver

	documents map[Document]DocumentInput
}

// Snapshot captures the Store's current state into an immutable Snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make(map[Document]DocumentInput, len(s.documents))
	for d, in := range s.documents {
		docs[d] = in
	}
	resolver := s.distroResolver
	if resolver == nil {
		resolver = NullResolver{}
	}
	return &Snapshot{
		interner:           s.interner,
		epoch:              s.epoch,
		currentDirectory:   s.currentDirectory,
		clientCapabilities: s.clientCapabilities,
		clientInfo:         s.clientInfo,
		clientOptions:      s.clientOptions,
		distroKind:         s.distroKind,
		distroResolver:     resolver,
		documents:          docs,
	}
}

// Epoch is a coarse version stamp bumped on every input mutation. Workspace
// level queries (compilation units, project ordering) memoize keyed by
// Epoch since they may depend on the whole document set; per-document
// queries (Extras, syntax trees) memoize on DocumentInput content instead,
// giving the fine-grained invalidation spec.md P5 asks for.
func (snap *Snapshot) Epoch() uint64 { return snap.epoch }

// CurrentDirectory returns the current_directory input.
func (snap *Snapshot) CurrentDirectory() string { return snap.currentDirectory }

// ClientCapabilities returns the client_capabilities input.
func (snap *Snapshot) ClientCapabilities() ClientCapabilities { return snap.clientCapabilities }

// ClientOptions returns the client_options input.
func (snap *Snapshot) ClientOptions() ClientOptions { return snap.clientOptions }

// ClientInfo returns the client_info input.
func (snap *Snapshot) ClientInfo() ClientInfo { return snap.clientInfo }

// DistroKind returns the distro_kind input.
func (snap *Snapshot) DistroKind() DistroKind { return snap.distroKind }

// DistroResolver returns the distro_resolver input.
func (snap *Snapshot) DistroResolver() DistroResolver { return snap.distroResolver }

// Document returns the per-document input for doc, or the zero value and
// false if doc is not a member of the document set.
func (snap *Snapshot) Document(doc Document) (DocumentInput, bool) {
	in, ok := snap.documents[doc]
	return in, ok
}

// URI resolves a handle to its interned URI string.
func (snap *Snapshot) URI(doc Document) (string, bool) {
	return snap.interner.Lookup(doc)
}

// InternLookup returns the Document handle already interned for uri, if
// any has been (interning itself is append-only and lives past any one
// snapshot, so this never needs to mutate the snapshot).
func (snap *Snapshot) InternLookup(uri string) (Document, bool) {
	// The interner only grows; a Document handle found here is valid for
	// every snapshot taken after it was first interned.
	d, ok := snap.interner.byURI[uri]
	return d, ok
}

// AllDocuments returns every document currently in the set, in a
// deterministic (ascending handle) order so callers that fold over it
// produce reproducible results (spec.md I4).
func (snap *Snapshot) AllDocuments() []Document {
	out := make([]Document, 0, len(snap.documents))
	for d := range snap.documents {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of documents in the set.
func (snap *Snapshot) Len() int { return len(snap.documents) }
