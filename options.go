package dmap

// mapOptions holds the resolved configuration for a Map[K, V], the
// functional-options analogue of the source's DmapOptions record.
type mapOptions[K comparable, V any] struct {
	initialCapacity int
	hashFn          func(key K) uint64
	cmpFn           func(a, b K) bool
	freeKeyFn       func(key K)
	userManagedKeys bool
	allocatorFn     func(old []V, newCap int) []V
	logger          Logger
}

func newMapOptions[K comparable, V any]() *mapOptions[K, V] {
	return &mapOptions[K, V]{
		initialCapacity: defaultInitialCapacity,
		logger:          noopLogger{},
	}
}

// Option configures a Map[K, V] at construction time.
type Option[K comparable, V any] func(*mapOptions[K, V])

// WithInitialCapacity sets the number of entries the map should
// accommodate without growing. Default: 16.
func WithInitialCapacity[K comparable, V any](n int) Option[K, V] {
	return func(o *mapOptions[K, V]) { o.initialCapacity = n }
}

// WithHashFunc installs a custom key hash function, overriding the default
// seeded xxHash64 built from the key's raw bytes.
func WithHashFunc[K comparable, V any](f func(key K) uint64) Option[K, V] {
	return func(o *mapOptions[K, V]) { o.hashFn = f }
}

// WithCompareFunc installs a custom key equality function, overriding
// byte-equality.
func WithCompareFunc[K comparable, V any](f func(a, b K) bool) Option[K, V] {
	return func(o *mapOptions[K, V]) { o.cmpFn = f }
}

// WithFreeKeyFunc installs a hook invoked with the key of every entry at
// delete and at teardown, and marks the map as user-managed-keys, matching
// the source's "user_managed_keys forced true if free_key_fn set" rule.
func WithFreeKeyFunc[K comparable, V any](f func(key K)) Option[K, V] {
	return func(o *mapOptions[K, V]) {
		o.freeKeyFn = f
		o.userManagedKeys = true
	}
}

// WithAllocatorFunc installs a custom value-array growth function, standing
// in for the source's data_allocator_fn realloc hook.
func WithAllocatorFunc[K comparable, V any](f func(old []V, newCap int) []V) Option[K, V] {
	return func(o *mapOptions[K, V]) { o.allocatorFn = f }
}

// WithLogger installs a diagnostic logger invoked on grow/rehash events.
func WithLogger[K comparable, V any](l Logger) Option[K, V] {
	return func(o *mapOptions[K, V]) {
		if l != nil {
			o.logger = l
		}
	}
}

// stringMapOptions mirrors mapOptions for the variable-length string-keyed
// map. It is a separate type (rather than reusing Option[string, V]) the
// same way the source keeps dmap_init and dmap_kstr_init as distinct entry
// points with distinct semantics (fixed key size discipline vs. inherently
// variable-length keys).
type stringMapOptions[V any] struct {
	initialCapacity int
	hashFn          func(key string) uint64
	cmpFn           func(a, b string) bool
	freeKeyFn       func(key string)
	userManagedKeys bool
	allocatorFn     func(old []V, newCap int) []V
	logger          Logger
}

func newStringMapOptions[V any]() *stringMapOptions[V] {
	return &stringMapOptions[V]{
		initialCapacity: defaultInitialCapacity,
		logger:          noopLogger{},
	}
}

// StringOption configures a StringMap[V] at construction time.
type StringOption[V any] func(*stringMapOptions[V])

// WithStringInitialCapacity sets the number of entries the map should
// accommodate without growing. Default: 16.
func WithStringInitialCapacity[V any](n int) StringOption[V] {
	return func(o *stringMapOptions[V]) { o.initialCapacity = n }
}

// WithStringHashFunc installs a custom key hash function.
func WithStringHashFunc[V any](f func(key string) uint64) StringOption[V] {
	return func(o *stringMapOptions[V]) { o.hashFn = f }
}

// WithStringCompareFunc installs a custom key equality function, e.g. for
// case-insensitive string keys.
func WithStringCompareFunc[V any](f func(a, b string) bool) StringOption[V] {
	return func(o *stringMapOptions[V]) { o.cmpFn = f }
}

// WithStringFreeKeyFunc installs a hook invoked with the key of every entry
// at delete and at teardown, and marks the map as user-managed-keys.
func WithStringFreeKeyFunc[V any](f func(key string)) StringOption[V] {
	return func(o *stringMapOptions[V]) {
		o.freeKeyFn = f
		o.userManagedKeys = true
	}
}

// WithStringAllocatorFunc installs a custom value-array growth function.
func WithStringAllocatorFunc[V any](f func(old []V, newCap int) []V) StringOption[V] {
	return func(o *stringMapOptions[V]) { o.allocatorFn = f }
}

// WithStringLogger installs a diagnostic logger invoked on grow/rehash events.
func WithStringLogger[V any](l Logger) StringOption[V] {
	return func(o *stringMapOptions[V]) {
		if l != nil {
			o.logger = l
		}
	}
}
