// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web invokes Init() on
// every component, then mounts every component’s Routes() at “/”.  Init
// runs first so route middleware can close over component resources
// (database handles, mailers).

package component

import (
	"sync"

	"github.com/go-chi/chi/v5"
)

// Initializer is the boot hook.  cmd/web calls Init(info) once per
// component at start-up, before any route is mounted.
type Initializer interface {
	Init(SiteInfo) error
}

// Component contract.
//
// Migrations() may return nil if the component has no schema changes.
// Routes() attaches BOTH page and API endpoints onto the shared router;
// components own disjoint path namespaces, e.g:
//
//	func (c *Component) Routes(r chi.Router) {
//		r.Get("/auth/login", getLogin)
//		r.Route("/auth/api", func(api chi.Router) { ... })
//	}
type Component interface {
	Name() string
	Routes(chi.Router)
	Migrations() []string
	Initializer
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component in arbitrary order.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	return out
}
