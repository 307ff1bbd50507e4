package dmap

// MapStats is a diagnostics snapshot, supplementing the distilled spec with
// the kind of operational visibility the teacher's FixedBlockMap.CollectInfo
// provides (load factor / tombstone factor plus advisory flags). It is
// read-only telemetry: growth is still always automatic, never triggered by
// consulting these flags.
type MapStats struct {
	// LoadFactor is the ratio of live entries to directory capacity.
	LoadFactor float64
	// TombstoneFactor is the ratio of tombstoned directory slots to
	// directory capacity.
	TombstoneFactor float64
	// RecommendGrow is set once LoadFactor reaches 0.75 of the 0.5 load
	// factor ceiling (0.375). The map grows on its own only when an insert
	// would push LoadFactor past 0.5, so this flag fires before that growth;
	// it is purely informational for callers tuning InitialCapacity.
	RecommendGrow bool
	// RecommendRehash is set once TombstoneFactor crosses 0.20, suggesting
	// a caller-triggered Delete-heavy workload would benefit from
	// rebuilding the map to shed tombstones (this package performs no such
	// standalone rehash operation outside of growth; see DESIGN.md).
	RecommendRehash bool
}

func computeStats(hashCap int32, live, tombstones int32) MapStats {
	var lf, tf float64
	if hashCap > 0 {
		lf = float64(live) / float64(hashCap)
		tf = float64(tombstones) / float64(hashCap)
	}
	return MapStats{
		LoadFactor:      lf,
		TombstoneFactor: tf,
		RecommendGrow:   lf >= 0.75*loadFactor,
		RecommendRehash: tf >= 0.20,
	}
}
