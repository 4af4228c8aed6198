package ifc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueFloat(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
		ok   bool
	}{
		{Number(2500), 2500, true},
		{Text("1500"), 1500, true},
		{Text(" 1.5E3 "), 1500, true},
		{Text("-2.5"), -2.5, true},
		{Text("NaN"), 0, false},
		{Text("Inf"), 0, false},
		{Text("+Infinity"), 0, false},
		{Text("0x1p3"), 0, false},
		{Text("1_000"), 0, false},
		{Text("1e400"), 0, false},
		{Text("."), 0, false},
		{Text(""), 0, false},
		{Absent(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in.Kind().String()+"/"+tt.in.String(), func(t *testing.T) {
			got, ok := tt.in.Float()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
