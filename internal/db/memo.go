package db

import "sync"

// DocMemo memoizes a pure function of one document's DocumentInput,
// content-addressed: a document whose input is byte-for-byte unchanged
// across snapshots reuses its cached result even if other documents in the
// workspace changed. This is the fine-grained half of the hand-written
// memoization strategy described in spec.md §9(a); see EpochMemo for the
// coarse half used by workspace-wide queries.
type DocMemo[V any] struct {
	mu      sync.Mutex
	entries map[Document]docMemoEntry[V]
}

type docMemoEntry[V any] struct {
	input DocumentInput
	value V
}

// NewDocMemo creates an empty per-document memo table.
func NewDocMemo[V any]() *DocMemo[V] {
	return &DocMemo[V]{entries: make(map[Document]docMemoEntry[V])}
}

// Get returns the cached value for doc if its input in snap matches the
// input recorded at the last compute, else it calls compute, caches, and
// returns the fresh value. compute must be a pure function of the
// DocumentInput it is given (spec.md I2).
func (m *DocMemo[V]) Get(snap *Snapshot, doc Document, compute func(DocumentInput) V) V {
	input, ok := snap.Document(doc)
	if !ok {
		var zero V
		return zero
	}
	m.mu.Lock()
	if entry, found := m.entries[doc]; found && entry.input == input {
		m.mu.Unlock()
		return entry.value
	}
	m.mu.Unlock()

	value := compute(input)

	m.mu.Lock()
	m.entries[doc] = docMemoEntry[V]{input: input, value: value}
	m.mu.Unlock()
	return value
}

// Invalidate drops any cached entry for doc, e.g. after a deletion so a
// stale value is never confused with a newly re-opened document at the
// same handle.
func (m *DocMemo[V]) Invalidate(doc Document) {
	m.mu.Lock()
	delete(m.entries, doc)
	m.mu.Unlock()
}

// EpochMemo memoizes a function of an entire Snapshot, keyed by its coarse
// Epoch stamp. Used for workspace-level derivations (compilation units,
// ProjectOrdering) that read the whole document set and therefore cannot
// be memoized per-document.
type EpochMemo[K comparable, V any] struct {
	mu      sync.Mutex
	epoch   uint64
	entries map[K]V
}

// NewEpochMemo creates an empty epoch-scoped memo table.
func NewEpochMemo[K comparable, V any]() *EpochMemo[K, V] {
	return &EpochMemo[K, V]{entries: make(map[K]V)}
}

// Get returns the cached value for key if snap.Epoch() matches the epoch
// of the last cache fill, else recomputes and resets the whole table (a
// new epoch invalidates every key at once, since any input may have moved).
func (m *EpochMemo[K, V]) Get(snap *Snapshot, key K, compute func() V) V {
	m.mu.Lock()
	if m.epoch != snap.Epoch() {
		m.entries = make(map[K]V)
		m.epoch = snap.Epoch()
	}
	if v, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return v
	}
	m.mu.Unlock()

	value := compute()

	m.mu.Lock()
	if m.epoch == snap.Epoch() {
		m.entries[key] = value
	}
	m.mu.Unlock()
	return value
}
