package registry

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tdict/pkg"
)

// Func is a function callable by name. Arguments are passed positionally.
type Func func(args ...any) (any, error)

var (
	// ErrDuplicate is returned when registering a name twice.
	ErrDuplicate = pkg.NewError("function already registered")

	// ErrInvalid is returned when registering an empty name or nil Func.
	ErrInvalid = pkg.NewError("invalid function registration")

	// ErrArgument is returned by builtins for arguments of the wrong count
	// or type.
	ErrArgument = pkg.NewError("invalid argument")
)

// Registry is a concurrency-safe set of named functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// New returns a Registry containing funcs.
func New(funcs Map) *Registry {
	r := &Registry{funcs: make(map[string]Func, len(funcs))}

	for name, f := range funcs {
		r.MustRegister(name, f)
	}

	return r
}

// Register adds f under name.
func (r *Registry) Register(name string, f Func) error {
	if name == "" || f == nil {
		return ErrInvalid.With(slog.String("function", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.funcs == nil {
		r.funcs = make(map[string]Func)
	}

	if _, ok := r.funcs[name]; ok {
		return ErrDuplicate.With(slog.String("function", name))
	}

	r.funcs[name] = f

	return nil
}

// MustRegister is like [Registry.Register] but panics on error.
func (r *Registry) MustRegister(name string, f Func) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.funcs[name]

	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.funcs))
}

// Suggest returns registered names that fuzzy-match pattern, best match
// first. An empty pattern returns every name in sorted order.
func (r *Registry) Suggest(pattern string) []string {
	names := r.Names()
	if pattern == "" {
		return names
	}

	matches := fuzzy.Find(pattern, names)
	out := make([]string, len(matches))

	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &Registry{funcs: maps.Clone(r.funcs)}
}

// Map is a plain, unsynchronized function table.
type Map map[string]Func

// Lookup returns the function registered under name.
func (m Map) Lookup(name string) (Func, bool) {
	f, ok := m[name]

	return f, ok
}
