package query

import (
	"sort"
	"sync"
)

// Handler implements a declaration. It receives the text captured for the
// declaration and the parameter sequences as written in the format, and
// reports whether they matched. Handlers record fields into r through the
// parameters' Handle.
type Handler func(span string, params []*Sequence, r *Result) bool

// Registry maps declaration names to handlers. It is safe for concurrent
// use; lookups happen on every match of a declaration.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// std is the registry used by formats parsed without WithRegistry. It is
// set up in init because Raw refers back to it through Sequence.Handle.
var std *Registry

func init() {
	std = NewRegistry()
	defaultConfig.registry = std
}

// NewRegistry returns a registry holding the built in declarations.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register("Raw", Raw)
	return r
}

// Register binds name to h, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered declaration names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register binds name to h in the package level registry.
func Register(name string, h Handler) {
	std.Register(name, h)
}

// Raw passes the span unchanged to its single parameter. It lets a plain
// capture appear where only a declaration is accepted.
func Raw(span string, params []*Sequence, r *Result) bool {
	if len(params) != 1 {
		return false
	}
	return params[0].Handle(span, 0, len(span), r)
}

// Transform returns a one parameter handler that rewrites the span with fn
// and matches the parameter against the rewritten text. A decode error
// fails the match.
func Transform(fn func(string) (string, error)) Handler {
	return func(span string, params []*Sequence, r *Result) bool {
		if len(params) != 1 {
			return false
		}
		decoded, err := fn(span)
		if err != nil {
			return false
		}
		return params[0].Handle(decoded, 0, len(decoded), r)
	}
}
