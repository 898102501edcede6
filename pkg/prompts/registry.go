package prompts

import (
	"sort"
	"sync"
)

// Registry maps template names to templates. Registering a name that already
// exists replaces the previous template, so prompts can be updated at runtime.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewRegistry creates a Registry holding templates.
func NewRegistry(templates ...Template) *Registry {
	r := &Registry{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		r.templates[t.Name] = t
	}
	return r
}

// Register parses body and stores it under name.
func (r *Registry) Register(name, body string) error {
	t, err := Parse(name, body)
	if err != nil {
		return err
	}

	r.Add(t)

	return nil
}

// Add stores parsed templates, replacing any with the same name.
func (r *Registry) Add(templates ...Template) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range templates {
		r.templates[t.Name] = t
	}
}

// Get returns the template with the given name and whether it was found.
func (r *Registry) Get(name string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	return t, ok
}

// Names returns all template names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for n := range r.templates {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.templates)
}

// Render renders the named template with vars.
func (r *Registry) Render(name string, vars Vars) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", &TemplateError{Template: name, Err: ErrTemplateNotFound}
	}

	return t.Render(vars)
}

// Placeholders returns the placeholders of the named template.
func (r *Registry) Placeholders(name string) ([]string, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, &TemplateError{Template: name, Err: ErrTemplateNotFound}
	}

	if _, err := t.parsed(); err != nil {
		return nil, err
	}

	return t.Placeholders(), nil
}
