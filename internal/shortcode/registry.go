package shortcode

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-sitecore/pkg/interfaces"
)

// Registry is the in-memory implementation of interfaces.ShortcodeRegistry.
// Tag names are case-sensitive. Registration is expected to finish before the
// first expansion; the lock only keeps late registrations from racing readers.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.TagDefinition
	closers     map[string]string
	validator   DefinitionValidator
}

// DefinitionValidator abstracts definition validation so callers can customise behaviour in tests.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.TagDefinition) error
}

// NewRegistry constructs a registry using the supplied validator.
func NewRegistry(validator DefinitionValidator) *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.TagDefinition),
		closers:     make(map[string]string),
		validator:   validator,
	}
}

// Register stores a definition if it passes validation and neither its name
// nor its closing headers are taken.
func (r *Registry) Register(def interfaces.TagDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if r.validator != nil {
		if err := r.validator.ValidateDefinition(def); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, def.Name)
	}
	if owner, exists := r.closers[def.Name]; exists {
		return fmt.Errorf("%w: %q is already a closing tag of %q", ErrInvalidDefinition, def.Name, owner)
	}

	headers := closingHeaders(def)
	for _, header := range headers {
		if owner, exists := r.closers[header]; exists {
			return fmt.Errorf("%w: closing tag %q already used by %q", ErrInvalidDefinition, header, owner)
		}
		if _, exists := r.definitions[header]; exists {
			return fmt.Errorf("%w: closing tag %q collides with a registered tag", ErrInvalidDefinition, header)
		}
	}

	r.definitions[def.Name] = def
	for _, header := range headers {
		r.closers[header] = def.Name
	}
	return nil
}

// Lookup returns the stored definition.
func (r *Registry) Lookup(name string) (interfaces.TagDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[name]
	return def, ok
}

// ResolveClosing maps "/name" or a registered alias to the tag it closes.
func (r *Registry) ResolveClosing(header string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.closers[header]
	return name, ok
}

// List returns all registered definitions in name order.
func (r *Registry) List() []interfaces.TagDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.TagDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Len reports the number of registered tags.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

func closingHeaders(def interfaces.TagDefinition) []string {
	if !def.Paired() {
		return nil
	}
	conventional := "/" + def.Name
	if def.ClosingName == conventional {
		return []string{conventional}
	}
	return []string{conventional, def.ClosingName}
}

var _ interfaces.ShortcodeRegistry = (*Registry)(nil)
