package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[core.DatabaseType]Plugin)
)

// Register adds a plugin to the registry. Called by plugin implementations in
// their init() functions; the last registration for a type wins.
func Register(p Plugin) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Type()] = p
}

// Get retrieves the plugin for a database type.
func Get(dbType core.DatabaseType) (Plugin, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[dbType]
	if !ok {
		return nil, &UnknownPluginError{Type: dbType, Available: listLocked()}
	}
	return p, nil
}

// List returns all registered database types, sorted.
func List() []core.DatabaseType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return listLocked()
}

func listLocked() []core.DatabaseType {
	types := make([]core.DatabaseType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// IsRegistered checks whether a database type has a plugin.
func IsRegistered(dbType core.DatabaseType) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dbType]
	return ok
}

// UnknownPluginError is returned when no plugin covers the requested type.
type UnknownPluginError struct {
	Type      core.DatabaseType
	Available []core.DatabaseType
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown database type %q (available: %v)", e.Type, e.Available)
}
