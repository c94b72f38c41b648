package layout

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/drawlayout/pkg/errors"
)

// Algorithm is the closed set of layout families.
type Algorithm int

const (
	Hierarchical Algorithm = iota
	ForceDirected
	Delegate
)

// String returns the canonical configuration name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case Hierarchical:
		return "hierarchical"
	case ForceDirected:
		return "force"
	case Delegate:
		return "elk"
	default:
		return "unknown"
	}
}

// Algorithm names accepted in configuration.
const (
	NameHierarchical = "hierarchical"
	NameDagre        = "dagre"
	NameForce        = "force"
	NameELK          = "elk"
	NameGraphviz     = "graphviz"
	NameNeato        = "neato"
)

// ParseAlgorithm maps a configuration name to its algorithm family. Unknown
// names fail with UNKNOWN_ENGINE.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch normalize(name) {
	case "", NameHierarchical, NameDagre:
		return Hierarchical, nil
	case NameForce:
		return ForceDirected, nil
	case NameELK, NameGraphviz, NameNeato:
		return Delegate, nil
	default:
		return 0, errors.New(errors.ErrCodeUnknownEngine, "unknown layout engine %q", name)
	}
}

// Registry maps engine names to engines. Only names that [ParseAlgorithm]
// accepts can be bound, so every registered engine belongs to one of the
// algorithm families. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register binds name to an engine, replacing any previous binding. Names
// are case-insensitive. Register panics if name is not an algorithm name.
func (r *Registry) Register(name string, e Engine) {
	key := normalize(name)
	if _, err := ParseAlgorithm(key); err != nil || key == "" {
		panic("layout: Register of unknown algorithm name " + strconv.Quote(name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[key] = e
}

// Lookup returns the engine bound to name. An empty name selects
// "hierarchical". Unknown names fail with UNKNOWN_ENGINE.
func (r *Registry) Lookup(name string) (Engine, error) {
	_, e, err := r.Resolve(name)
	return e, err
}

// Resolve returns the algorithm family of name and the engine bound to it.
// Names outside the closed set, and known names without an engine, fail with
// UNKNOWN_ENGINE.
func (r *Registry) Resolve(name string) (Algorithm, Engine, error) {
	family, err := ParseAlgorithm(name)
	if err != nil {
		return 0, nil, err
	}
	key := normalize(name)
	if key == "" {
		key = NameHierarchical
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[key]
	if !ok {
		return 0, nil, errors.New(errors.ErrCodeUnknownEngine, "no engine registered for %q", name)
	}
	return family, e, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
