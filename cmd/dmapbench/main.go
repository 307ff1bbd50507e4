// Command dmapbench drives a StringMap through a synthetic insert/get/
// delete workload and reports timing plus a diagnostics snapshot. It is a
// runnable stand-in for the teacher's Benchmark* functions, for use outside
// `go test -bench`.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/schraf/dmap"
)

func main() {
	entries := pflag.IntP("entries", "n", 100000, "number of synthetic keys to insert")
	deleteEvery := pflag.IntP("delete-every", "d", 2, "delete every Nth key after insertion (0 disables)")
	capacity := pflag.IntP("initial-capacity", "c", 16, "initial capacity passed to NewString")
	pflag.Parse()

	m := dmap.NewString[int64](dmap.WithStringInitialCapacity[int64](*capacity))

	keys := make([]string, *entries)
	start := time.Now()
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		m.Insert(keys[i], int64(i))
	}
	insertElapsed := time.Since(start)

	start = time.Now()
	var hits int
	for _, k := range keys {
		if m.GetIndex(k) != dmap.NotFound {
			hits++
		}
	}
	getElapsed := time.Since(start)

	var deletes int
	if *deleteEvery > 0 {
		start = time.Now()
		for i, k := range keys {
			if i%*deleteEvery == 0 {
				if m.Delete(k) != dmap.NotFound {
					deletes++
				}
			}
		}
		deleteElapsed := time.Since(start)
		fmt.Fprintf(os.Stdout, "delete: %d ops in %s (%.0f ns/op)\n",
			deletes, deleteElapsed, float64(deleteElapsed.Nanoseconds())/float64(max(deletes, 1)))
	}

	stats := m.Stats()
	fmt.Fprintf(os.Stdout, "insert: %d ops in %s (%.0f ns/op)\n",
		*entries, insertElapsed, float64(insertElapsed.Nanoseconds())/float64(*entries))
	fmt.Fprintf(os.Stdout, "get:    %d ops in %s (%.0f ns/op), %d hits\n",
		*entries, getElapsed, float64(getElapsed.Nanoseconds())/float64(*entries), hits)
	fmt.Fprintf(os.Stdout, "count=%d range=%d load_factor=%.3f tombstone_factor=%.3f recommend_rehash=%v\n",
		m.Count(), m.Range(), stats.LoadFactor, stats.TombstoneFactor, stats.RecommendRehash)
}
