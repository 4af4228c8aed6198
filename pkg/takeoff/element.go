// Package takeoff selects MEP elements from a model and reduces them into
// quantity tables: accumulated lengths for pipe and duct segments and piece
// counts for fittings and accessories, grouped by name and nominal size.
package takeoff

import "github.com/philipparndt/ifctakeoff/pkg/ifc"

// Element is the read view of a model element the aggregation works on
type Element interface {
	ID() int
	Name() string
	PredefinedType() string
	Property(pset, name string) ifc.Value
}

// Source yields the elements of one IFC class
type Source interface {
	ByClass(class string) []Element
}

// ModelSource adapts a parsed IFC model to Source
type ModelSource struct {
	model *ifc.Model
}

// NewModelSource creates a Source over the given model
func NewModelSource(model *ifc.Model) *ModelSource {
	return &ModelSource{model: model}
}

// ByClass returns the model elements of the given IFC class in file order
func (s *ModelSource) ByClass(class string) []Element {
	found := s.model.ByType(class)
	elements := make([]Element, len(found))
	for i, el := range found {
		elements[i] = el
	}
	return elements
}
