// Package registry maps component names to templ components so manifests
// can refer to plugin components by name.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/conneroisu/plate/internal/errors"
)

// ComponentRegistry manages the named components available to manifests.
type ComponentRegistry struct {
	components map[string]*ComponentInfo
	mutex      sync.RWMutex
}

// ComponentInfo holds a registered component and its metadata.
type ComponentInfo struct {
	Name        string
	Description string
	Component   templ.Component
	Registered  time.Time
}

// NewComponentRegistry creates a new component registry
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*ComponentInfo),
	}
}

// Register adds or replaces the component stored under name.
func (r *ComponentRegistry) Register(name string, component templ.Component) *ComponentInfo {
	return r.RegisterInfo(&ComponentInfo{Name: name, Component: component})
}

// RegisterInfo adds or updates a component in the registry
func (r *ComponentRegistry) RegisterInfo(info *ComponentInfo) *ComponentInfo {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if info.Registered.IsZero() {
		info.Registered = time.Now()
	}
	r.components[info.Name] = info
	return info
}

// Get retrieves a component by name
func (r *ComponentRegistry) Get(name string) (templ.Component, bool) {
	info, ok := r.Info(name)
	if !ok {
		return nil, false
	}
	return info.Component, true
}

// Info retrieves a component's registry entry by name.
func (r *ComponentRegistry) Info(name string) (*ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	info, exists := r.components[name]
	return info, exists
}

// Resolve is Get with a not-found error for unknown names.
func (r *ComponentRegistry) Resolve(name string) (templ.Component, error) {
	if c, ok := r.Get(name); ok {
		return c, nil
	}
	return nil, errors.NewNotFoundError(errors.CodeUnknownComponent,
		fmt.Sprintf("no component registered as %q", name)).WithContext("component", name)
}

// Names returns the registered names in sorted order.
func (r *ComponentRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered components
func (r *ComponentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}
