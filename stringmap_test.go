package dmap_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schraf/dmap"
)

func TestStringMap_DistinguishesPrefixes(t *testing.T) {
	m := dmap.NewString[int]()

	m.Insert("apple", 1)
	m.Insert("apricot", 2)
	m.Insert("ap", 3)

	assert.Equal(t, 1, *m.GetPtr("apple"))
	assert.Equal(t, 2, *m.GetPtr("apricot"))
	assert.Equal(t, 3, *m.GetPtr("ap"))

	m.Delete("ap")
	assert.Nil(t, m.GetPtr("ap"))
	assert.Equal(t, 1, *m.GetPtr("apple"))
	assert.Equal(t, 2, *m.GetPtr("apricot"))
}

func TestStringMap_InlineVsHeapKeyBoundary(t *testing.T) {
	m := dmap.NewString[int]()

	short := "short7x" // 7 bytes, inline
	long := "this key is definitely longer than eight bytes"

	m.Insert(short, 1)
	m.Insert(long, 2)

	assert.Equal(t, 1, *m.GetPtr(short))
	assert.Equal(t, 2, *m.GetPtr(long))
}

func TestStringMap_LargeRandomKeys(t *testing.T) {
	m := dmap.NewString[int](dmap.WithStringInitialCapacity[int](1000))

	r := rand.New(rand.NewSource(1))
	keys := make([]string, 1000)
	seen := make(map[string]bool, 1000)
	for i := range keys {
		for {
			b := make([]byte, 32)
			r.Read(b)
			k := string(b)
			if !seen[k] {
				seen[k] = true
				keys[i] = k
				break
			}
		}
		m.Insert(keys[i], i)
	}

	for i := 0; i < len(keys); i += 2 {
		m.Delete(keys[i])
	}

	assert.Equal(t, int32(500), m.Count())
	assert.Equal(t, int32(1000), m.Range())

	for i, k := range keys {
		if i%2 == 0 {
			assert.Equal(t, dmap.NotFound, m.GetIndex(k))
		} else {
			v := m.GetPtr(k)
			require.NotNil(t, v)
			assert.Equal(t, i, *v)
		}
	}
}

func TestStringMap_CaseInsensitiveComparator(t *testing.T) {
	withCmp := dmap.NewString[int](dmap.WithStringCompareFunc[int](func(a, b string) bool {
		return strings.EqualFold(a, b)
	}), dmap.WithStringHashFunc[int](func(k string) uint64 {
		// must agree with the comparator: hash must be case-insensitive too,
		// else equal-under-comparator keys land in different probe chains.
		sum := uint64(1469598103934665603)
		for _, r := range strings.ToLower(k) {
			sum ^= uint64(r)
			sum *= 1099511628211
		}
		return sum
	}))
	withCmp.Insert("ABC", 7)
	assert.Equal(t, int32(0), withCmp.GetIndex("abc"))

	withoutCmp := dmap.NewString[int]()
	withoutCmp.Insert("ABC", 7)
	assert.Equal(t, dmap.NotFound, withoutCmp.GetIndex("abc"))
}

func TestStringMap_FreeKeyFuncCalledOnDelete(t *testing.T) {
	var freed []string
	m := dmap.NewString[int](dmap.WithStringFreeKeyFunc[int](func(k string) {
		freed = append(freed, k)
	}))

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = fmt.Sprintf("managed-key-%03d", i)
		m.Insert(keys[i], i)
	}
	for _, k := range keys {
		m.Delete(k)
	}

	assert.Len(t, freed, 100)
	assert.ElementsMatch(t, keys, freed)
}

func TestStringMap_FreeKeyFuncCalledOnTeardown(t *testing.T) {
	var freed []string
	m := dmap.NewString[int](dmap.WithStringFreeKeyFunc[int](func(k string) {
		freed = append(freed, k)
	}))
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Free()
	assert.ElementsMatch(t, []string{"a", "b"}, freed)
}

func TestStringMap_GrowthPreservesIndices(t *testing.T) {
	m := dmap.NewString[int](dmap.WithStringInitialCapacity[int](16))
	indices := make(map[string]int32, 50)
	for i := 0; i < 50; i++ {
		k := fmt.Sprintf("key-%d", i)
		indices[k] = m.Insert(k, i)
	}
	for k, idx := range indices {
		require.Equal(t, idx, m.GetIndex(k))
	}
}

func TestStringMap_StatsTombstoneFactor(t *testing.T) {
	m := dmap.NewString[int](dmap.WithStringInitialCapacity[int](64))
	for i := 0; i < 40; i++ {
		m.Insert(fmt.Sprintf("k%d", i), i)
	}
	for i := 0; i < 30; i++ {
		m.Delete(fmt.Sprintf("k%d", i))
	}
	stats := m.Stats()
	assert.Greater(t, stats.TombstoneFactor, 0.0)
}
