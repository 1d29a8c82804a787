// Package memo provides the request-scoped cache used to memoize view
// computations. A Cache is created per request and dropped with it.
package memo

// Cache is a plain key/value store. It is not safe for concurrent use; a
// request is served by a single goroutine.
type Cache struct {
	values map[string]any
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{values: make(map[string]any)}
}

// Do returns the cached value for key, computing it with fn on first use.
// A nil cache computes on every call.
func Do[T any](c *Cache, key string, fn func() T) T {
	if c == nil {
		return fn()
	}
	if v, ok := c.values[key]; ok {
		return v.(T)
	}
	v := fn()
	c.values[key] = v
	return v
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}
