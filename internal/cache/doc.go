// Package cache provides a small generic LRU cache for values that are
// expensive to build and cheap to keep, such as blur kernels.
//
//	c := cache.New[int, []float32](64)
//	k := c.GetOrCreate(300, func() []float32 { return build(3) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
