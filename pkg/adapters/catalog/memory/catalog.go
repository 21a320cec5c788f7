package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// Catalog is an in-memory template catalog. Templates are registered
// once at construction and immutable afterwards, so lookups need no
// locking during execution; the mutex only guards Register.
type Catalog struct {
	mu         sync.RWMutex
	templates  map[string]*domain.EventTemplate
	techniques map[string]struct{}
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		templates:  make(map[string]*domain.EventTemplate),
		techniques: knownTechniques(),
	}
}

// NewBuiltinCatalog creates a catalog preloaded with the built-in
// Windows event templates
func NewBuiltinCatalog() *Catalog {
	c := NewCatalog()
	for i := range builtinTemplates {
		// Registration of the builtin set cannot collide.
		_ = c.Register(&builtinTemplates[i])
	}
	return c
}

// Register adds a template. Duplicate IDs are rejected: templates are
// immutable and never replaced in place.
func (c *Catalog) Register(tmpl *domain.EventTemplate) error {
	if tmpl.ID == "" {
		return fmt.Errorf("register template: id is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.templates[tmpl.ID]; exists {
		return fmt.Errorf("register template: %q already registered", tmpl.ID)
	}
	c.templates[tmpl.ID] = tmpl
	return nil
}

// GetTemplate returns a template or domain.ErrTemplateNotFound
func (c *Catalog) GetTemplate(templateID string) (*domain.EventTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tmpl, ok := c.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", templateID, domain.ErrTemplateNotFound)
	}
	return tmpl, nil
}

// ListTemplates returns all templates sorted by ID
func (c *Catalog) ListTemplates() []*domain.EventTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.EventTemplate, 0, len(c.templates))
	for _, tmpl := range c.templates {
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasTechnique reports whether a MITRE ATT&CK technique ID is known
func (c *Catalog) HasTechnique(techniqueID string) bool {
	_, ok := c.techniques[techniqueID]
	return ok
}
