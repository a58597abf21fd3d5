package codec

import (
	"fmt"
	"sync"
)

// registry implements Registry interface
type registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
	default_ string
}

// NewRegistry creates a new encoder registry with json and yaml
// pre-registered and json as the default.
func NewRegistry() Registry {
	r := &registry{
		encoders: make(map[string]Encoder),
	}

	r.Register("json", NewJSONEncoder())
	r.Register("yaml", NewYAMLEncoder())
	r.default_ = "json"

	return r
}

// Register registers an encoder with a name
func (r *registry) Register(name string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[name] = enc
}

// Get retrieves an encoder by name
func (r *registry) Get(name string) (Encoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enc, exists := r.encoders[name]
	return enc, exists
}

// Default returns the default encoder
func (r *registry) Default() Encoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.encoders[r.default_]
}

// ForFormat resolves an encoder for a CLI format name. An empty name
// selects the default.
func ForFormat(name string) (Encoder, error) {
	reg := NewRegistry()
	if name == "" {
		return reg.Default(), nil
	}
	enc, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (want json or yaml)", name)
	}
	return enc, nil
}
