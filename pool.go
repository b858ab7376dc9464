package describe

import "unsafe"

// stringBytes views s's bytes without copying. s must outlive the returned
// slice and the slice must never be mutated — the same read-only aliasing
// InternString's callers rely on to probe a Pool before committing to an
// allocation.
func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Pool is a generic, insertion-ordered, deduplicating interner for any
// comparable value (interned name strings, interned SchemaNodes). Equal
// inputs return equal indices for the lifetime of the Pool; indices never
// change once minted, and entries are never removed. Iteration order is
// insertion order, which is also index order — the same contract as the
// Rust original's IndexSet-backed Pool in builder.rs.
type Pool[K comparable] struct {
	values []K
	lookup map[K]int32
	kind   ErrorKind
}

// NewPool constructs an empty Pool. kind is the ErrorKind returned once the
// pool would overflow a 32-bit index (e.g. ErrTooManyNames for a name pool).
func NewPool[K comparable](kind ErrorKind) *Pool[K] {
	return &Pool[K]{lookup: make(map[K]int32), kind: kind}
}

// Intern inserts v if absent and returns its insertion ordinal, or the
// ordinal of the existing equal entry. Fails once the next ordinal would not
// fit a uint32.
func (p *Pool[K]) Intern(v K) (int32, *SerError) {
	if idx, ok := p.lookup[v]; ok {
		return idx, nil
	}
	if !fitsU32(len(p.values)) {
		return 0, newError(p.kind)
	}
	idx := int32(len(p.values))
	p.values = append(p.values, v)
	p.lookup[v] = idx
	return idx, nil
}

// InternString is the borrow-avoiding counterpart to Intern, mirroring the
// Rust original's intern_borrowed (builder.rs): a type name or field name
// is typically re-derived fresh for every occurrence of the same struct
// (once per slice element, say), so probing the pool with b's bytes
// directly — before deciding whether a new string needs to be allocated
// at all — means every occurrence after the first costs nothing beyond
// the lookup. Only a name this Pool has never seen pays for the one copy
// Intern itself would have required anyway. K must have underlying type
// string; every Pool this package builds for names is Pool[string].
func InternString[K ~string](p *Pool[K], b []byte) (int32, *SerError) {
	if idx, ok := p.lookup[K(b)]; ok {
		return idx, nil
	}
	return p.Intern(K(string(b)))
}

// Get dereferences index i. Panics on an out-of-range index: every index
// stored in a Schema was minted by this same Pool, so an out-of-range
// lookup means the core itself is broken, not the caller's input.
func (p *Pool[K]) Get(i int32) K { return p.values[i] }

// Len reports how many distinct values have been interned so far.
func (p *Pool[K]) Len() int { return len(p.values) }

// Iter returns the pool's contents in insertion (== index) order. The
// returned slice aliases the Pool's backing array and must not be mutated.
func (p *Pool[K]) Iter() []K { return p.values }

// u32ish is satisfied by every index newtype in indices.go.
type u32ish interface {
	~uint32
}

// ListPool interns slices of a 32-bit index kind (name-lists, node-lists,
// field-lists). Slices are not comparable in Go, so unlike Pool[K] this
// keys lookups on a byte-string view of the slice contents rather than the
// slice value itself, while still handing back and storing the slice.
type ListPool[E u32ish] struct {
	values []([]E)
	lookup map[string]int32
	kind   ErrorKind
}

// NewListPool constructs an empty ListPool.
func NewListPool[E u32ish](kind ErrorKind) *ListPool[E] {
	return &ListPool[E]{lookup: make(map[string]int32), kind: kind}
}

// Intern inserts a defensive copy of list if absent and returns its
// insertion ordinal, or the ordinal of an already-interned equal list.
func (p *ListPool[E]) Intern(list []E) (int32, *SerError) {
	key := listKey(list)
	if idx, ok := p.lookup[key]; ok {
		return idx, nil
	}
	if !fitsU32(len(p.values)) {
		return 0, newError(p.kind)
	}
	idx := int32(len(p.values))
	cp := append([]E(nil), list...)
	p.values = append(p.values, cp)
	p.lookup[key] = idx
	return idx, nil
}

// Get dereferences index i.
func (p *ListPool[E]) Get(i int32) []E { return p.values[i] }

// Len reports how many distinct lists have been interned so far.
func (p *ListPool[E]) Len() int { return len(p.values) }

// Iter returns the pool's contents in insertion order.
func (p *ListPool[E]) Iter() [][]E { return p.values }

// listKey views a []E as a byte string for map-key purposes without
// encoding each element by hand; every E here is a 32-bit newtype so the
// slice's memory layout is exactly len(list)*4 bytes, little-endian on every
// platform this module targets.
func listKey[E u32ish](list []E) string {
	if len(list) == 0 {
		return ""
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&list[0])), len(list)*4)
	return string(b)
}
