package takeoff

import "math"

// BendType is the predefined type of fittings whose name includes the angle
const BendType = "BEND"

const millimetersPerMeter = 1000.0

// Spec names the properties an aggregation reads.
// LengthProperty set means a segment table in metres; empty means a piece
// count. AngleProperty set turns on bend naming.
type Spec struct {
	SizePset       string
	SizeProperty   string
	LengthPset     string
	LengthProperty string
	AnglePset      string
	AngleProperty  string
}

// Measured reports whether s accumulates lengths rather than counts
func (s Spec) Measured() bool {
	return s.LengthProperty != ""
}

func (s Spec) unit() Unit {
	if s.Measured() {
		return Meters
	}
	return Pieces
}

// Aggregate reduces elements into a quantity table in a single pass.
// Elements without a size land in the Undefined bucket. A segment without a
// finite, non-negative length, or a bend without an angle, stops the
// aggregation with a *MissingPropertyError.
func Aggregate(elements []Element, spec Spec) (*Table, error) {
	table := newTable(spec.unit())

	for _, el := range elements {
		name, err := displayName(el, spec)
		if err != nil {
			return nil, err
		}
		size := SizeKeyOf(el.Property(spec.SizePset, spec.SizeProperty))

		if !spec.Measured() {
			table.addCount(name, size)
			continue
		}

		meters, err := lengthMeters(el, spec)
		if err != nil {
			return nil, err
		}
		table.addLength(name, size, meters)
	}

	return table, nil
}

// displayName returns the element name, with the bend angle appended for
// BEND fittings: "Käyrä" at 90 degrees becomes "Käyrä 90".
func displayName(el Element, spec Spec) (string, error) {
	name := el.Name()
	if spec.AngleProperty == "" || el.PredefinedType() != BendType {
		return name, nil
	}

	angle := el.Property(spec.AnglePset, spec.AngleProperty)
	if angle.IsAbsent() {
		return "", &MissingPropertyError{
			ElementID: el.ID(),
			Element:   name,
			Pset:      spec.AnglePset,
			Property:  spec.AngleProperty,
		}
	}
	return name + " " + angle.String(), nil
}

func lengthMeters(el Element, spec Spec) (float64, error) {
	v := el.Property(spec.LengthPset, spec.LengthProperty)
	mm, ok := v.Float()
	if !ok || math.IsNaN(mm) || math.IsInf(mm, 0) || mm < 0 {
		return 0, &MissingPropertyError{
			ElementID: el.ID(),
			Element:   el.Name(),
			Pset:      spec.LengthPset,
			Property:  spec.LengthProperty,
			Found:     v,
		}
	}
	return mm / millimetersPerMeter, nil
}
