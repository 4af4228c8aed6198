package takeoff

import (
	"errors"
	"fmt"

	"github.com/philipparndt/ifctakeoff/pkg/ifc"
)

// ErrMissingProperty is matched by every MissingPropertyError
var ErrMissingProperty = errors.New("missing required property")

// MissingPropertyError reports an element that lacks a numeric property the
// aggregation cannot do without: a segment length or a bend angle.
type MissingPropertyError struct {
	ElementID int
	Element   string
	Pset      string
	Property  string
	Found     ifc.Value // the offending value when present but unusable
}

func (e *MissingPropertyError) Error() string {
	if e.Found.IsAbsent() {
		return fmt.Sprintf("element #%d %q: missing property %s.%s", e.ElementID, e.Element, e.Pset, e.Property)
	}
	return fmt.Sprintf("element #%d %q: property %s.%s is not a finite non-negative number: %q",
		e.ElementID, e.Element, e.Pset, e.Property, e.Found.String())
}

// Unwrap lets errors.Is match ErrMissingProperty
func (e *MissingPropertyError) Unwrap() error {
	return ErrMissingProperty
}
