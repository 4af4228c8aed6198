package takeoff

import (
	"fmt"
	"strings"
)

// Domain is the building service a category belongs to
type Domain string

const (
	Pipe Domain = "pipe"
	Duct Domain = "duct"
)

// Kind tells whether a category is measured or counted
type Kind string

const (
	Segment Kind = "segment"
	Part    Kind = "part"
)

// Category is a declarative selection rule: the IFC classes whose elements
// are aggregated together.
type Category struct {
	Key       string // configuration key, e.g. "pipe_segments"
	Title     string
	Domain    Domain
	Kind      Kind
	Classes   []string
	SizeLabel string // console label in front of the size
}

var (
	PipeSegments = Category{
		Key:       "pipe_segments",
		Title:     "Pipes",
		Domain:    Pipe,
		Kind:      Segment,
		Classes:   []string{"IFCPIPESEGMENT"},
		SizeLabel: "DN",
	}
	DuctSegments = Category{
		Key:       "duct_segments",
		Title:     "Ducts",
		Domain:    Duct,
		Kind:      Segment,
		Classes:   []string{"IFCDUCTSEGMENT"},
		SizeLabel: "Size",
	}
	DuctParts = Category{
		Key:       "duct_parts",
		Title:     "Duct parts",
		Domain:    Duct,
		Kind:      Part,
		Classes:   []string{"IFCDUCTFITTING", "IFCAIRTERMINAL", "IFCDUCTSILENCER", "IFCFAN", "IFCDAMPER"},
		SizeLabel: "Size",
	}
	PipeParts = Category{
		Key:       "pipe_parts",
		Title:     "Pipe parts",
		Domain:    Pipe,
		Kind:      Part,
		Classes:   []string{"IFCPIPEFITTING", "IFCWASTETERMINAL", "IFCSANITARYTERMINAL", "IFCPUMP", "IFCVALVE"},
		SizeLabel: "DN",
	}
)

// Categories returns all categories in report order
func Categories() []Category {
	return []Category{PipeSegments, DuctSegments, DuctParts, PipeParts}
}

// CategoryByKey finds a category by its configuration key
func CategoryByKey(key string) (Category, error) {
	for _, c := range Categories() {
		if c.Key == strings.ToLower(key) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("unknown category %q", key)
}

// Select returns the union of the category's classes. Every element appears
// once even if the source returns it under more than one class.
func Select(src Source, c Category) []Element {
	seen := make(map[int]bool)

	var selected []Element
	for _, class := range c.Classes {
		for _, el := range src.ByClass(class) {
			if seen[el.ID()] {
				continue
			}
			seen[el.ID()] = true
			selected = append(selected, el)
		}
	}
	return selected
}
