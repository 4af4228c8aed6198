package takeoff

import (
	"errors"
	"fmt"
)

// ErrNoLengthProperty is returned when a segment category has no length
// property configured
var ErrNoLengthProperty = errors.New("segment category needs a length property")

// Result is the quantity table of one category
type Result struct {
	Category Category
	Table    *Table
}

// Specs holds the aggregation settings per category key
type Specs map[string]Spec

// Compute selects and aggregates one category.
// Segments are always measured and parts always counted, whatever the Spec
// says about lengths.
func Compute(src Source, c Category, spec Spec) (*Table, error) {
	switch c.Kind {
	case Segment:
		if !spec.Measured() {
			return nil, fmt.Errorf("%s: %w", c.Key, ErrNoLengthProperty)
		}
	case Part:
		spec.LengthPset, spec.LengthProperty = "", ""
	}

	table, err := Aggregate(Select(src, c), spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Key, err)
	}
	return table, nil
}

// Run computes every category in report order
func Run(src Source, specs Specs) ([]Result, error) {
	categories := Categories()
	results := make([]Result, 0, len(categories))
	for _, c := range categories {
		table, err := Compute(src, c, specs[c.Key])
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Category: c, Table: table})
	}
	return results, nil
}
