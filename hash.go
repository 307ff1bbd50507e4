package dmap

import (
	"encoding/binary"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
)

// defaultHash is the library's default 64-bit seeded hash. It folds the
// per-map seed into an xxHash64 digest ahead of the key bytes, the same
// two-step "hash then mix" shape the teacher uses in FixedBlockKey.FromString
// (hash the payload, then run a golden-ratio multiplicative mixer over it) --
// here the seed plays the role the mixer constant plays there.
func defaultHash(keyBytes []byte, seed uint64) uint64 {
	d := xxhash.New()
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)
	_, _ = d.Write(seedBytes[:])
	_, _ = d.Write(keyBytes)
	return d.Sum64()
}

// newSeed samples a 64-bit seed from a monotonic timestamp mixed with the
// process id through an FNV-style multiplicative chain, matching the
// source's hash_seed derivation in dmap__init_internal.
func newSeed() uint64 {
	const fnvOffset = 14695981039346656037
	const fnvPrime = 1099511628211

	h := uint64(fnvOffset)
	mix := func(b byte) {
		h ^= uint64(b)
		h *= fnvPrime
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	for _, b := range buf {
		mix(b)
	}

	binary.LittleEndian.PutUint32(buf[:4], uint32(os.Getpid()))
	for _, b := range buf[:4] {
		mix(b)
	}

	return h
}
