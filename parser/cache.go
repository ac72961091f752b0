package parser

import (
	"sort"
	"strings"
	"sync"
)

type cacheEntry struct {
	grammar *Grammar
	err     error
}

// Cache compiles every distinct property set once. Compilation errors are
// kept too, so a conflicting set fails the same way on every call without
// being rebuilt. Compiling runs outside the lock; when two callers compile
// the same set at once, the first stored result wins.
type Cache struct {
	mu       sync.Mutex
	grammars map[string]cacheEntry
	compile  func(properties []string) (*Grammar, error)
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		grammars: make(map[string]cacheEntry),
		compile:  Compile,
	}
}

// Grammar returns the grammar for the property set, compiling it on first use.
// The order of the properties does not matter.
func (c *Cache) Grammar(properties []string) (*Grammar, error) {
	key := cacheKey(properties)

	c.mu.Lock()
	e, ok := c.grammars[key]
	c.mu.Unlock()
	if ok {
		return e.grammar, e.err
	}

	g, err := c.compile(properties)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.grammars[key]; ok {
		return e.grammar, e.err
	}
	c.grammars[key] = cacheEntry{grammar: g, err: err}
	return g, err
}

// Len returns the number of cached property sets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.grammars)
}

func cacheKey(properties []string) string {
	sorted := append([]string(nil), properties...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
