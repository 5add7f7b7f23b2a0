// Package resolver maps "prefix:key" references to values through a registry
// of named resolvers. References without a prefix go to the "env" resolver.
//
// Built-in resolvers:
//   - env:  looks the key up in an environment (see EnvResolver)
//   - file: reads the trimmed contents of a file below a directory (see FileResolver)
package resolver

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultPrefix is used for references that carry no prefix.
const DefaultPrefix = "env"

// PropertyResolver turns a key into a value.
type PropertyResolver interface {
	// Resolve returns the value for key. The key no longer carries its prefix.
	Resolve(key string) (string, error)

	// Name returns a human-readable name used in errors and logs.
	Name() string
}

// Registry associates prefixes with resolvers. It is safe for concurrent use.
type Registry struct {
	resolvers map[string]PropertyResolver
	mu        sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		resolvers: make(map[string]PropertyResolver),
	}
}

// Register binds resolver to prefix, which must not include the trailing colon.
// An existing binding is replaced and a warning is logged.
func (r *Registry) Register(prefix string, resolver PropertyResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resolvers[prefix]; exists {
		log.Warn().Str("prefix", prefix).Msg("Overriding existing property resolver")
	}
	r.resolvers[prefix] = resolver
}

// Unregister removes the resolver bound to prefix, if any.
func (r *Registry) Unregister(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resolvers, prefix)
}

// Get returns the resolver bound to prefix, or nil.
func (r *Registry) Get(prefix string) PropertyResolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolvers[prefix]
}

// Prefixes returns the registered prefixes in sorted order.
func (r *Registry) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefixes := make([]string, 0, len(r.resolvers))
	for prefix := range r.resolvers {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	return prefixes
}

// Resolve resolves a reference of the form "prefix:key" or "key".
//
//   - "file:api_key" -> file resolver, key "api_key"
//   - "env:PORT"     -> env resolver, key "PORT"
//   - "PORT"         -> env resolver, key "PORT"
//   - "x:db:pass"    -> resolver "x", key "db:pass"
func (r *Registry) Resolve(reference string) (string, error) {
	prefix, key := splitReference(reference)

	resolver := r.Get(prefix)
	if resolver == nil {
		return "", errors.Errorf("no resolver registered for prefix %q", prefix)
	}

	value, err := resolver.Resolve(key)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %q using %s resolver", reference, resolver.Name())
	}
	return value, nil
}

// splitReference splits at the first colon only.
func splitReference(reference string) (prefix, key string) {
	prefix, key, found := strings.Cut(reference, ":")
	if !found {
		return DefaultPrefix, reference
	}
	return prefix, key
}
