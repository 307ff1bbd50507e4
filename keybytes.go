package dmap

import "unsafe"

// keyBytes returns a byte view of a fixed-width key for hashing and
// byte-equality comparison, the same way the source treats every key as a
// (bytes, len) pair regardless of its logical type. Mirrors the teacher's
// own use of unsafe.Pointer in FixedBlockMap.hashToBlock to read key memory
// directly rather than going through reflection.
//
// K must be a plain, pointer-free comparable type (integers, bools, fixed
// arrays, or structs composed only of such) for the returned bytes to be a
// faithful, stable representation of the key's value. Keys containing
// pointers, strings, interfaces or maps should use the string-keyed map
// instead (see NewString), whose hashing operates on the string's own bytes.
func keyBytes[K comparable](key *K) []byte {
	size := unsafe.Sizeof(*key)
	return unsafe.Slice((*byte)(unsafe.Pointer(key)), size)
}
