package cache

// EvictCallback is called when an entry leaves the cache, whether it expired, was pushed
// out by the size bound or was removed explicitly. Redis only reports size-bound evictions.
type EvictCallback func(key string, value []byte)

// Cache is the byte-oriented key-value backend behind the artifact store.
// Entries expire after the provider TTL and the least recently used ones are dropped
// once the size bound is reached.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key. If the key already exists, it is overwritten.
	Set(key string, value []byte)

	// Remove deletes a key and reports whether it was present.
	Remove(key string) bool

	// Contains checks whether a key exists without touching its recency.
	Contains(key string) bool

	// Len returns the number of entries currently stored.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	Close() error
}
