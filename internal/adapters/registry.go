package adapters

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// ProviderRegistry maps provider names to the source and destination
// implementations they expose. A catalog may register in both roles.
// It is safe for concurrent use.
type ProviderRegistry struct {
	mu           sync.RWMutex
	sources      map[string]ports.SourceProvider
	destinations map[string]ports.DestinationProvider
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		sources:      make(map[string]ports.SourceProvider),
		destinations: make(map[string]ports.DestinationProvider),
	}
}

// RegisterSource adds a source provider, keyed by its Name().
func (r *ProviderRegistry) RegisterSource(provider ports.SourceProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[provider.Name()] = provider
}

// RegisterDestination adds a destination provider, keyed by its Name().
func (r *ProviderRegistry) RegisterDestination(provider ports.DestinationProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destinations[provider.Name()] = provider
}

// Source returns the source provider for the given name.
func (r *ProviderRegistry) Source(name string) (ports.SourceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: source %q", domain.ErrUnknownProvider, name)
	}
	return provider, nil
}

// Destination returns the destination provider for the given name.
func (r *ProviderRegistry) Destination(name string) (ports.DestinationProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.destinations[name]
	if !ok {
		return nil, fmt.Errorf("%w: destination %q", domain.ErrUnknownProvider, name)
	}
	return provider, nil
}

// Destinations returns every registered destination provider.
func (r *ProviderRegistry) Destinations() []ports.DestinationProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.DestinationProvider, 0, len(r.destinations))
	for _, d := range r.destinations {
		out = append(out, d)
	}
	return out
}

// Available returns the sorted names of all registered providers in either role.
func (r *ProviderRegistry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.sources)+len(r.destinations))
	for name := range r.sources {
		seen[name] = struct{}{}
	}
	for name := range r.destinations {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
