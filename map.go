// Package dmap implements a generic open-addressing hash table with stable
// data indices: a slot index assigned to a key on first insertion never
// changes for the lifetime of that entry. Callers may hold onto returned
// indices across growth, deletion, and re-insertion, and may iterate the
// value array directly via Values/Range.
//
// The directory (hash -> slot) and the value array are two separate,
// independently-grown slices; a slot's data index addresses the value
// array, not the directory. Deletion tombstones the directory slot and
// recycles its data index onto a free list rather than clearing the value
// cell -- callers that iterate Values() must track which indices they
// consider live themselves, the same way the C source leaves this to its
// caller.
package dmap

import "github.com/schraf/dmap/internal/freelist"

// slot is one directory cell: hash, data index (or sentinel), key.
//
// Unlike the source's DmapTable entry, this slot stores K directly rather
// than discriminating between inline and heap-owned key storage: for a
// fixed-width comparable K, Go already stores the key by value without a
// per-entry heap allocation, which is the same locality win the source's
// inline-8 optimization exists to provide. See stringmap.go for the
// variant where that discriminator still earns its keep (variable-length
// string keys).
type slot[K comparable] struct {
	hash    uint64
	dataIdx int32
	key     K
}

// Map is a generic open-addressing hash table keyed by a fixed-width
// comparable type. Use NewString for variable-length string keys.
type Map[K comparable, V any] struct {
	dir    []slot[K]
	mask   uint64
	count  int32
	seed   uint64
	free   freelist.List
	values values[V]
	opts   *mapOptions[K, V]
}

// New creates an empty Map. Default initial capacity is 16 entries.
func New[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	o := newMapOptions[K, V]()
	for _, opt := range opts {
		opt(o)
	}

	hashCap := hashCapForCapacity(o.initialCapacity)
	m := &Map[K, V]{
		dir:  newSlotDirectory[K](hashCap),
		mask: uint64(hashCap - 1),
		seed: newSeed(),
		opts: o,
	}
	return m
}

// NewFixed8 is a supplementary fast-path constructor for 8-byte-or-smaller
// non-string keys, grounded in the source's alternate per-width fixed-key
// hmap.c layout and in the teacher's own fixed-size FixedBlockKey
// specialization. It is a thin alias over New[[8]byte, V]; callers pack
// their natural key (e.g. a uint64) into the array with
// binary.LittleEndian.PutUint64 or similar.
func NewFixed8[V any](opts ...Option[[8]byte, V]) *Map[[8]byte, V] {
	return New[[8]byte, V](opts...)
}

func newSlotDirectory[K comparable](hashCap int32) []slot[K] {
	dir := make([]slot[K], hashCap)
	for i := range dir {
		dir[i].dataIdx = emptyIdx
	}
	return dir
}

func (m *Map[K, V]) hashKey(key K) uint64 {
	if m.opts.hashFn != nil {
		return m.opts.hashFn(key)
	}
	return defaultHash(keyBytes(&key), m.seed)
}

func (m *Map[K, V]) keysMatch(s *slot[K], key K) bool {
	if m.opts.cmpFn != nil {
		return m.opts.cmpFn(s.key, key)
	}
	return s.key == key
}

// find runs the lookup probe (spec 4.1): stop on EMPTY (not present); skip
// DELETED; on a hash-matching OCCUPIED slot verify keysMatch. Returns the
// directory index, or NotFound.
func (m *Map[K, V]) find(key K, h uint64) int32 {
	idx := h & m.mask
	for {
		s := &m.dir[idx]
		if s.dataIdx == emptyIdx {
			return NotFound
		}
		if s.dataIdx != deletedIdx && s.hash == h && m.keysMatch(s, key) {
			return int32(idx)
		}
		idx = (idx + 1) & m.mask
	}
}

// insertOrFind runs the insert probe (spec 4.1): the first EMPTY or DELETED
// slot seen is a candidate insertion point, but a hash-matching
// non-tombstone slot whose key matches wins instead (overwrite). The
// earliest tombstone seen is remembered and preferred over a later EMPTY,
// which the spec explicitly permits as a probe-shortening optimization.
func (m *Map[K, V]) insertOrFind(key K, h uint64) (slotIdx int32, found bool) {
	idx := h & m.mask
	firstTombstone := int32(-1)
	for {
		s := &m.dir[idx]
		switch {
		case s.dataIdx == emptyIdx:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return int32(idx), false
		case s.dataIdx == deletedIdx:
			if firstTombstone < 0 {
				firstTombstone = int32(idx)
			}
		case s.hash == h && m.keysMatch(s, key):
			return int32(idx), true
		}
		idx = (idx + 1) & m.mask
	}
}

// ensureCapacity grows the directory before len+1 would exceed the
// current load-factor-0.5 capacity (spec 4.4).
func (m *Map[K, V]) ensureCapacity() *Error {
	curCap := valueCapForHashCap(int32(len(m.dir)))
	if m.count+1 <= curCap {
		return nil
	}

	oldHashCap := int32(len(m.dir))
	newHashCap := oldHashCap * 2
	if newHashCap <= 0 || newHashCap > maxCap {
		return raise(ErrCapacityExceeded, "hash capacity would exceed %d", maxCap)
	}

	newDir := newSlotDirectory[K](newHashCap)
	newMask := uint64(newHashCap - 1)
	for i := range m.dir {
		old := &m.dir[i]
		if old.dataIdx == emptyIdx || old.dataIdx == deletedIdx {
			continue
		}
		idx := old.hash & newMask
		for newDir[idx].dataIdx != emptyIdx {
			idx = (idx + 1) & newMask
		}
		newDir[idx] = *old
	}

	m.opts.logger.Debugf("dmap: grew hash_cap %d -> %d", oldHashCap, newHashCap)
	m.dir = newDir
	m.mask = newMask
	return nil
}

func (m *Map[K, V]) insert(key K, value V) (int32, *Error) {
	if err := m.ensureCapacity(); err != nil {
		return NotFound, err
	}

	h := m.hashKey(key)
	slotIdx, found := m.insertOrFind(key, h)
	s := &m.dir[slotIdx]

	var dataIdx int32
	if found {
		dataIdx = s.dataIdx
	} else {
		if di, ok := m.free.Pop(); ok {
			dataIdx = di
		} else {
			dataIdx = m.count
		}
		m.count++
		s.hash = h
		s.dataIdx = dataIdx
		s.key = key
	}

	m.values.ensureCap(valueCapForHashCap(int32(len(m.dir))), m.opts.allocatorFn)
	*m.values.at(dataIdx) = value
	return dataIdx, nil
}

// Insert inserts or overwrites key with value and returns the stable data
// index the value was stored at. On a fatal condition (capacity exceeded),
// the installed ErrorHandler is invoked; if it returns instead of
// terminating the process, Insert returns NotFound. Use InsertErr to
// receive the error directly.
func (m *Map[K, V]) Insert(key K, value V) int32 {
	idx, err := m.insert(key, value)
	if err != nil {
		return NotFound
	}
	return idx
}

// InsertErr is Insert, but returns the error instead of relying solely on
// the installed ErrorHandler.
func (m *Map[K, V]) InsertErr(key K, value V) (int32, error) {
	idx, err := m.insert(key, value)
	if err != nil {
		return NotFound, err
	}
	return idx, nil
}

// GetIndex returns the stable data index for key, or NotFound. Pure
// lookup: never mutates the map, never fails.
func (m *Map[K, V]) GetIndex(key K) int32 {
	h := m.hashKey(key)
	slotIdx := m.find(key, h)
	if slotIdx == NotFound {
		return NotFound
	}
	return m.dir[slotIdx].dataIdx
}

// GetPtr returns a pointer into the value array for key, or nil.
func (m *Map[K, V]) GetPtr(key K) *V {
	idx := m.GetIndex(key)
	if idx == NotFound {
		return nil
	}
	return m.values.at(idx)
}

// Delete tombstones key's directory slot and recycles its data index onto
// the free list. Returns the freed data index, or NotFound if key was not
// present. The value cell at that index is left untouched; the caller
// must treat it as logically invalid until a future Insert overwrites it.
func (m *Map[K, V]) Delete(key K) int32 {
	h := m.hashKey(key)
	slotIdx := m.find(key, h)
	if slotIdx == NotFound {
		return NotFound
	}

	s := &m.dir[slotIdx]
	dataIdx := s.dataIdx
	if m.opts.freeKeyFn != nil {
		m.opts.freeKeyFn(s.key)
	}

	s.dataIdx = deletedIdx
	var zero K
	s.key = zero
	m.free.Push(dataIdx)
	m.count--
	return dataIdx
}

// Range returns len + |free list|: the logical upper bound for iterating
// the value array directly (spec 4.8).
func (m *Map[K, V]) Range() int32 {
	return m.count + int32(m.free.Len())
}

// Count returns the number of live entries.
func (m *Map[K, V]) Count() int32 {
	return m.count
}

// Values exposes the value array up to Range(). Deleted entries' cells are
// not cleared and are not skipped; the caller is responsible for tracking
// which indices it has invalidated, matching the source's no-liveness-
// bitmap contract.
func (m *Map[K, V]) Values() []V {
	return m.values.data[:m.Range()]
}

// Stats returns a diagnostics snapshot (see MapStats).
func (m *Map[K, V]) Stats() MapStats {
	var tombstones int32
	for i := range m.dir {
		if m.dir[i].dataIdx == deletedIdx {
			tombstones++
		}
	}
	return computeStats(int32(len(m.dir)), m.count, tombstones)
}

// Free releases the map's owned memory, invoking the configured
// free-key hook (if any) for every live entry first.
func (m *Map[K, V]) Free() {
	if m.opts.freeKeyFn != nil {
		for i := range m.dir {
			s := &m.dir[i]
			if s.dataIdx != emptyIdx && s.dataIdx != deletedIdx {
				m.opts.freeKeyFn(s.key)
			}
		}
	}
	m.dir = nil
	m.values.data = nil
	m.free = freelist.List{}
	m.count = 0
}
