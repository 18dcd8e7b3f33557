package extract

import (
	"fmt"
	"sort"

	"github.com/halcyonworks/chatgauge/internal/conversation"
)

// ComputeFunc is the single capability every extractor implements: one named
// metric from one normalized conversation. Implementations must be stateless,
// side-effect-free, and tolerant of zero- and single-message conversations.
type ComputeFunc func(conv conversation.Conversation) (Value, error)

// RegistrationError reports a duplicate extractor name. Registration is
// strict to prevent silent shadowing of an existing unit.
type RegistrationError struct {
	Name string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("extractor %q is already registered", e.Name)
}

// UnknownExtractorError reports a configured name with no registration.
// It is raised at pipeline-start time, before any conversation is processed.
type UnknownExtractorError struct {
	Name string
}

func (e *UnknownExtractorError) Error() string {
	return fmt.Sprintf("no extractor registered under %q", e.Name)
}

// Registry maps extractor names to compute units, maintained separately for
// features and targets. All registration happens before a pipeline run; the
// registry is read-only afterwards and safe for concurrent reads.
type Registry struct {
	features map[string]ComputeFunc
	targets  map[string]ComputeFunc
}

func NewRegistry() *Registry {
	return &Registry{
		features: make(map[string]ComputeFunc),
		targets:  make(map[string]ComputeFunc),
	}
}

// RegisterFeature adds a named feature extractor exactly once.
func (r *Registry) RegisterFeature(name string, fn ComputeFunc) error {
	return register(r.features, name, fn)
}

// RegisterTarget adds a named target extractor exactly once.
func (r *Registry) RegisterTarget(name string, fn ComputeFunc) error {
	return register(r.targets, name, fn)
}

func register(m map[string]ComputeFunc, name string, fn ComputeFunc) error {
	if _, exists := m[name]; exists {
		return &RegistrationError{Name: name}
	}
	m[name] = fn
	return nil
}

// SelectFeatures resolves the enabled feature names to concrete units.
// An empty list selects every registered feature.
func (r *Registry) SelectFeatures(enabled []string) (map[string]ComputeFunc, error) {
	return selectFrom(r.features, enabled)
}

// SelectTargets resolves the enabled target names to concrete units.
func (r *Registry) SelectTargets(enabled []string) (map[string]ComputeFunc, error) {
	return selectFrom(r.targets, enabled)
}

func selectFrom(m map[string]ComputeFunc, enabled []string) (map[string]ComputeFunc, error) {
	out := make(map[string]ComputeFunc)
	if len(enabled) == 0 {
		for name, fn := range m {
			out[name] = fn
		}
		return out, nil
	}
	for _, name := range enabled {
		fn, ok := m[name]
		if !ok {
			return nil, &UnknownExtractorError{Name: name}
		}
		out[name] = fn
	}
	return out, nil
}

// FeatureNames returns the registered feature names, sorted.
func (r *Registry) FeatureNames() []string { return names(r.features) }

// TargetNames returns the registered target names, sorted.
func (r *Registry) TargetNames() []string { return names(r.targets) }

func names(m map[string]ComputeFunc) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
