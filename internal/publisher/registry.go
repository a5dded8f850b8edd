package publisher

import (
	"fmt"
	"sort"
	"sync"
)

type Registry struct {
	mu         sync.RWMutex
	publishers map[string]Publisher
}

func NewRegistry(publishers ...Publisher) *Registry {
	r := &Registry{publishers: make(map[string]Publisher)}
	for _, p := range publishers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any publisher already serving the same platform.
func (r *Registry) Register(p Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishers[p.Platform()] = p
}

func (r *Registry) Get(platform string) (Publisher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.publishers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	return p, nil
}

func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.publishers))
	for name := range r.publishers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
