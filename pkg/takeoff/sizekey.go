package takeoff

import "github.com/philipparndt/ifctakeoff/pkg/ifc"

// undefinedLabel is how the undefined size bucket prints on the console
const undefinedLabel = "undefined"

// SizeKey identifies a size bucket. Keys compare by kind and raw value, so
// the number 15 and the text "15" are different buckets. The zero value is
// the undefined bucket for elements without a size property.
type SizeKey struct {
	kind ifc.ValueKind
	text string
	num  float64
}

// Undefined is the bucket of elements that have no size property
var Undefined = SizeKey{}

// SizeKeyOf builds the size key of a property value
func SizeKeyOf(v ifc.Value) SizeKey {
	switch v.Kind() {
	case ifc.KindNumber:
		f, _ := v.Float()
		return SizeKey{kind: ifc.KindNumber, num: f}
	case ifc.KindText:
		return SizeKey{kind: ifc.KindText, text: v.String()}
	default:
		return Undefined
	}
}

// IsUndefined reports whether this is the undefined bucket
func (k SizeKey) IsUndefined() bool {
	return k.kind == ifc.KindAbsent
}

// Value returns the property value the key was built from
func (k SizeKey) Value() ifc.Value {
	switch k.kind {
	case ifc.KindNumber:
		return ifc.Number(k.num)
	case ifc.KindText:
		return ifc.Text(k.text)
	default:
		return ifc.Absent()
	}
}

// String returns the size as text, or "undefined" for the undefined bucket
func (k SizeKey) String() string {
	if k.IsUndefined() {
		return undefinedLabel
	}
	return k.Value().String()
}
