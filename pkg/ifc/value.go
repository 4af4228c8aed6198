package ifc

import (
	"strconv"
	"strings"
)

// ValueKind tags the result of a property lookup
type ValueKind int

const (
	// KindAbsent means the element carries no such property, or it is unset.
	KindAbsent ValueKind = iota
	// KindNumber is a measure, real or integer value.
	KindNumber
	// KindText is a label, identifier, text or enumeration value.
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// Value is a property value as read from the model
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Absent returns the value of a property that is not present
func Absent() Value {
	return Value{}
}

// Number returns a numeric value
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a textual value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports which of absent, number or text the value is
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether the property was missing
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Float returns the value as a number. Text values are accepted when
// they hold a plain decimal number; "NaN", "Inf" and hex floats are not.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		s := strings.TrimSpace(v.text)
		if !isDecimal(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String returns the raw value as text. Numbers use the shortest
// representation, so 90.0 prints as "90" and 1.5 as "1.5".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// isDecimal reports whether s only holds digits, sign, point and exponent
func isDecimal(s string) bool {
	digits := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == '+', r == '-', r == '.', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return digits
}
