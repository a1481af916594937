package gcode

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// StreamFactory creates a stream writing to w.
// Factories are registered via Register() and called by NewStream().
type StreamFactory func(w io.Writer) Stream

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]StreamFactory)
)

func init() {
	Register("text", func(w io.Writer) Stream { return NewTextStream(w) })
	Register("numbered", func(w io.Writer) Stream { return NewNumberedStream(w) })
}

// Register registers a stream factory with the given name, following the
// database/sql driver pattern:
//
//	func init() {
//	    gcode.Register("serial", func(w io.Writer) gcode.Stream {
//	        return newSerialStream(w)
//	    })
//	}
//
// Register panics if factory is nil or the name is already taken.
func Register(name string, factory StreamFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("gcode: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("gcode: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a stream from the registry.
// If the stream is not registered, this is a no-op.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// NewStream creates a stream by name writing to w.
// Returns an error if the name is not registered.
func NewStream(name string, w io.Writer) (Stream, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("gcode: unknown stream %q (forgotten import?)", name)
	}
	return factory(w), nil
}

// Streams returns a sorted list of registered stream names.
func Streams() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a stream with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}
