// Package freelist implements the LIFO stack of recyclable data-array
// indices used by dmap.Map and dmap.StringMap. The source bootstraps its
// free list from a miniature copy of its own dynamic-array library; per the
// spec's own guidance, reimplementers should just use the host language's
// built-in growable sequence instead of a bespoke primitive, so this is a
// thin wrapper around a []int32 rather than a ported dynamic array.
package freelist

// List is a LIFO stack of int32 data indices.
type List struct {
	data []int32
}

// Push appends idx to the list, growing the backing slice by Go's own
// append growth policy (the source grows its free list by x1.5+1 on full;
// Go's slice growth is the idiomatic stand-in for that policy here).
func (l *List) Push(idx int32) {
	l.data = append(l.data, idx)
}

// Pop removes and returns the most recently pushed index. The second return
// value is false if the list is empty.
func (l *List) Pop() (int32, bool) {
	n := len(l.data)
	if n == 0 {
		return 0, false
	}
	idx := l.data[n-1]
	l.data = l.data[:n-1]
	return idx, true
}

// Len returns the number of recyclable indices currently held.
func (l *List) Len() int {
	return len(l.data)
}
