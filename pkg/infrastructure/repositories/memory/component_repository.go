package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/domain/repositories"
)

// ComponentRepository provides in-memory component storage in catalog order
type ComponentRepository struct {
	mu            sync.RWMutex
	components    []entities.Component
	componentsMap map[entities.ComponentID]int
}

// NewComponentRepository creates a new in-memory component repository
func NewComponentRepository(expectedComponents int) *ComponentRepository {
	return &ComponentRepository{
		components:    make([]entities.Component, 0, expectedComponents),
		componentsMap: make(map[entities.ComponentID]int, expectedComponents),
	}
}

// Verify interface compliance
var _ repositories.ComponentRepository = (*ComponentRepository)(nil)

// LoadComponents validates and adds components. The load is all or nothing:
// an invalid or duplicate component leaves the repository unchanged.
func (r *ComponentRepository) LoadComponents(components []*entities.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[entities.ComponentID]bool, len(components))
	for _, c := range components {
		if c == nil {
			return fmt.Errorf("cannot load nil component")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if _, exists := r.componentsMap[c.ID]; exists || seen[c.ID] {
			return fmt.Errorf("duplicate component id: %s", c.ID)
		}
		seen[c.ID] = true
	}

	for _, c := range components {
		r.addComponent(*c)
	}
	return nil
}

// AddComponent adds a single component, rejecting duplicates
func (r *ComponentRepository) AddComponent(component *entities.Component) error {
	return r.LoadComponents([]*entities.Component{component})
}

func (r *ComponentRepository) addComponent(component entities.Component) {
	component.Teeth = append([]int(nil), component.Teeth...)
	r.componentsMap[component.ID] = len(r.components)
	r.components = append(r.components, component)
}

// GetComponent returns a copy of the component with the given id
func (r *ComponentRepository) GetComponent(id entities.ComponentID) (*entities.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.componentsMap[id]
	if !exists {
		return nil, fmt.Errorf("component not found: %s", id)
	}
	return r.copyAt(index), nil
}

// GetAllComponents returns copies of all components in load order
func (r *ComponentRepository) GetAllComponents() ([]*entities.Component, error) {
	return r.ListComponents("", "")
}

// ListComponents returns components matching the kind and bike type
func (r *ComponentRepository) ListComponents(kind entities.ComponentKind, bikeType entities.BikeType) ([]*entities.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	components := make([]*entities.Component, 0, len(r.components))
	for i := range r.components {
		c := &r.components[i]
		if kind != "" && c.Kind != kind {
			continue
		}
		if bikeType != "" && c.BikeType != bikeType {
			continue
		}
		components = append(components, r.copyAt(i))
	}
	return components, nil
}

// Len returns the number of stored components
func (r *ComponentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

// copyAt hands out copies so callers cannot mutate catalog entries
func (r *ComponentRepository) copyAt(index int) *entities.Component {
	c := r.components[index]
	c.Teeth = append([]int(nil), c.Teeth...)
	return &c
}
