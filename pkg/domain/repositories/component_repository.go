package repositories

import "github.com/vsinha/gearcalc/pkg/domain/entities"

// ComponentRepository provides access to the component catalog
type ComponentRepository interface {
	GetComponent(id entities.ComponentID) (*entities.Component, error)
	GetAllComponents() ([]*entities.Component, error)
	// ListComponents filters by kind and bike type; empty values match everything
	ListComponents(kind entities.ComponentKind, bikeType entities.BikeType) ([]*entities.Component, error)
	LoadComponents(components []*entities.Component) error
}
