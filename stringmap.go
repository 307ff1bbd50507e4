package dmap

import "github.com/schraf/dmap/internal/freelist"

// inlineKeyLen is the inline-key threshold from the source: keys of this
// many bytes or fewer are copied directly into the slot; longer keys are
// stored as an ordinary (heap-backed) Go string. A Go string is already a
// (pointer, length) header over backing memory the runtime manages, so
// there is no separate "map must free this on delete/teardown" bookkeeping
// to replicate for the heap branch -- only the inline branch is a genuine
// optimization here, trading a string header + GC-tracked backing array for
// a fixed byte array held by value inside the slot.
const inlineKeyLen = 8

// stringSlot is the string-keyed analogue of slot[K]: a tagged union
// discriminated by keyLen <= inlineKeyLen, mirroring the source's
// is_string key-storage branch.
type stringSlot struct {
	hash    uint64
	dataIdx int32
	keyLen  int32
	inline  [inlineKeyLen]byte
	heap    string
}

func (s *stringSlot) setKey(key string) {
	s.keyLen = int32(len(key))
	if len(key) <= inlineKeyLen {
		s.inline = [inlineKeyLen]byte{}
		copy(s.inline[:], key)
		s.heap = ""
		return
	}
	s.heap = key
}

func (s *stringSlot) key() string {
	if s.keyLen <= inlineKeyLen {
		return string(s.inline[:s.keyLen])
	}
	return s.heap
}

// StringMap is the variable-length, string-keyed analogue of Map, created
// via NewString (the Go equivalent of the source's dmap_kstr_init). Short
// keys (<= 8 bytes) are stored inline in the slot; longer keys are stored
// as an ordinary Go string. Unlike Map, key length is not fixed across the
// lifetime of the map -- that discipline only applies to the fixed-key
// variant, since strings are inherently variable-length.
type StringMap[V any] struct {
	dir    []stringSlot
	mask   uint64
	count  int32
	seed   uint64
	free   freelist.List
	values values[V]
	opts   *stringMapOptions[V]
}

// NewString creates an empty StringMap. Default initial capacity is 16 entries.
func NewString[V any](opts ...StringOption[V]) *StringMap[V] {
	o := newStringMapOptions[V]()
	for _, opt := range opts {
		opt(o)
	}

	hashCap := hashCapForCapacity(o.initialCapacity)
	m := &StringMap[V]{
		dir:  newStringSlotDirectory(hashCap),
		mask: uint64(hashCap - 1),
		seed: newSeed(),
		opts: o,
	}
	return m
}

func newStringSlotDirectory(hashCap int32) []stringSlot {
	dir := make([]stringSlot, hashCap)
	for i := range dir {
		dir[i].dataIdx = emptyIdx
	}
	return dir
}

func (m *StringMap[V]) hashKey(key string) uint64 {
	if m.opts.hashFn != nil {
		return m.opts.hashFn(key)
	}
	return defaultHash([]byte(key), m.seed)
}

// keysMatch requires key_len equality (mandatory for string maps, per the
// source's keys_match), then defers to the custom comparator if one was
// supplied, else byte equality.
func (m *StringMap[V]) keysMatch(s *stringSlot, key string) bool {
	if s.keyLen != int32(len(key)) {
		return false
	}
	stored := s.key()
	if m.opts.cmpFn != nil {
		return m.opts.cmpFn(stored, key)
	}
	return stored == key
}

func (m *StringMap[V]) find(key string, h uint64) int32 {
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

func (m *StringMap[V]) insertOrFind(key string, h uint64) (slotIdx int32, found bool) {
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

func (m *StringMap[V]) ensureCapacity() *Error {
	curCap := valueCapForHashCap(int32(len(m.dir)))
	if m.count+1 <= curCap {
		return nil
	}

	oldHashCap := int32(len(m.dir))
	newHashCap := oldHashCap * 2
	if newHashCap <= 0 || newHashCap > maxCap {
		return raise(ErrCapacityExceeded, "hash capacity would exceed %d", maxCap)
	}

	newDir := newStringSlotDirectory(newHashCap)
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

func (m *StringMap[V]) insert(key string, value V) (int32, *Error) {
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
		s.setKey(key)
	}

	m.values.ensureCap(valueCapForHashCap(int32(len(m.dir))), m.opts.allocatorFn)
	*m.values.at(dataIdx) = value
	return dataIdx, nil
}

// Insert inserts or overwrites key with value and returns the stable data
// index the value was stored at.
func (m *StringMap[V]) Insert(key string, value V) int32 {
	idx, err := m.insert(key, value)
	if err != nil {
		return NotFound
	}
	return idx
}

// InsertErr is Insert, but returns the error directly.
func (m *StringMap[V]) InsertErr(key string, value V) (int32, error) {
	idx, err := m.insert(key, value)
	if err != nil {
		return NotFound, err
	}
	return idx, nil
}

// GetIndex returns the stable data index for key, or NotFound.
func (m *StringMap[V]) GetIndex(key string) int32 {
	h := m.hashKey(key)
	slotIdx := m.find(key, h)
	if slotIdx == NotFound {
		return NotFound
	}
	return m.dir[slotIdx].dataIdx
}

// GetPtr returns a pointer into the value array for key, or nil.
func (m *StringMap[V]) GetPtr(key string) *V {
	idx := m.GetIndex(key)
	if idx == NotFound {
		return nil
	}
	return m.values.at(idx)
}

// Delete tombstones key's directory slot and recycles its data index.
// Returns the freed data index, or NotFound.
func (m *StringMap[V]) Delete(key string) int32 {
	h := m.hashKey(key)
	slotIdx := m.find(key, h)
	if slotIdx == NotFound {
		return NotFound
	}

	s := &m.dir[slotIdx]
	dataIdx := s.dataIdx
	if m.opts.freeKeyFn != nil {
		m.opts.freeKeyFn(s.key())
	}

	s.dataIdx = deletedIdx
	s.heap = ""
	s.inline = [inlineKeyLen]byte{}
	s.keyLen = 0
	m.free.Push(dataIdx)
	m.count--
	return dataIdx
}

// Range returns len + |free list|.
func (m *StringMap[V]) Range() int32 {
	return m.count + int32(m.free.Len())
}

// Count returns the number of live entries.
func (m *StringMap[V]) Count() int32 {
	return m.count
}

// Values exposes the value array up to Range().
func (m *StringMap[V]) Values() []V {
	return m.values.data[:m.Range()]
}

// Stats returns a diagnostics snapshot.
func (m *StringMap[V]) Stats() MapStats {
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
func (m *StringMap[V]) Free() {
	if m.opts.freeKeyFn != nil {
		for i := range m.dir {
			s := &m.dir[i]
			if s.dataIdx != emptyIdx && s.dataIdx != deletedIdx {
				m.opts.freeKeyFn(s.key())
			}
		}
	}
	m.dir = nil
	m.values.data = nil
	m.free = freelist.List{}
	m.count = 0
}
