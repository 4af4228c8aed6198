package takeoff

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/ifctakeoff/pkg/ifc"
)

type fakeElement struct {
	id    int
	name  string
	ptype string
	props map[[2]string]ifc.Value
}

func (f fakeElement) ID() int                { return f.id }
func (f fakeElement) Name() string           { return f.name }
func (f fakeElement) PredefinedType() string { return f.ptype }

func (f fakeElement) Property(pset, name string) ifc.Value {
	if v, ok := f.props[[2]string{pset, name}]; ok {
		return v
	}
	return ifc.Absent()
}

var (
	segmentSpec = Spec{
		SizePset: "Dimensions", SizeProperty: "Size",
		LengthPset: "Dimensions", LengthProperty: "Length",
	}
	partSpec = Spec{
		SizePset: "Dimensions", SizeProperty: "Size",
		AnglePset: "Dimensions", AngleProperty: "Angle",
	}
)

// segment builds a segment element; a nil size leaves the property out
func segment(id int, name string, size *ifc.Value, lengthMM float64) fakeElement {
	props := map[[2]string]ifc.Value{
		{"Dimensions", "Length"}: ifc.Number(lengthMM),
	}
	if size != nil {
		props[[2]string{"Dimensions", "Size"}] = *size
	}
	return fakeElement{id: id, name: name, props: props}
}

func part(id int, name, ptype string, props map[[2]string]ifc.Value) fakeElement {
	return fakeElement{id: id, name: name, ptype: ptype, props: props}
}

func text(s string) *ifc.Value {
	v := ifc.Text(s)
	return &v
}

func elements(fakes ...fakeElement) []Element {
	out := make([]Element, len(fakes))
	for i, f := range fakes {
		out[i] = f
	}
	return out
}

type bucketID struct {
	Name string
	Kind string
	Size string
}

func bucketMap(t *Table) map[bucketID]float64 {
	m := make(map[bucketID]float64)
	for _, r := range t.Rows() {
		m[bucketID{Name: r.Name, Kind: r.Size.Value().Kind().String(), Size: r.Size.Value().String()}] = r.Quantity(t.Unit())
	}
	return m
}

func TestAggregateGroupsBySize(t *testing.T) {
	table, err := Aggregate(elements(
		segment(1, "Putki", text("15"), 1000),
		segment(2, "Putki", text("20"), 2000),
		segment(3, "Putki", text("15"), 500),
		segment(4, "Putki", nil, 300),
		segment(5, "Putki", nil, 700),
	), segmentSpec)
	require.NoError(t, err)

	assert.Equal(t, Meters, table.Unit())
	assert.Equal(t, []string{"Putki"}, table.Names())
	assert.Equal(t, 3, table.Len())

	rows := table.Buckets("Putki")
	require.Len(t, rows, 3)
	assert.Equal(t, "15", rows[0].Size.String())
	assert.InDelta(t, 1.5, rows[0].Length, 1e-12)
	assert.Equal(t, "20", rows[1].Size.String())
	assert.InDelta(t, 2.0, rows[1].Length, 1e-12)
	assert.True(t, rows[2].Size.IsUndefined())
	assert.InDelta(t, 1.0, rows[2].Length, 1e-12)
}

func TestAggregateUnitConversion(t *testing.T) {
	table, err := Aggregate(elements(segment(1, "Putki", text("15"), 1500)), segmentSpec)
	require.NoError(t, err)

	row, ok := table.Lookup("Putki", SizeKeyOf(ifc.Text("15")))
	require.True(t, ok)
	assert.Equal(t, 1.5, row.Length)
}

func TestAggregateZeroLength(t *testing.T) {
	table, err := Aggregate(elements(segment(1, "Putki", text("15"), 0)), segmentSpec)
	require.NoError(t, err)

	row, ok := table.Lookup("Putki", SizeKeyOf(ifc.Text("15")))
	require.True(t, ok)
	assert.Equal(t, 0.0, row.Length)
}

func TestAggregateTextLength(t *testing.T) {
	el := fakeElement{id: 1, name: "Putki", props: map[[2]string]ifc.Value{
		{"Dimensions", "Length"}: ifc.Text("2500"),
	}}

	table, err := Aggregate(elements(el), segmentSpec)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, table.Total(), 1e-12)
}

func TestAggregateMissingLength(t *testing.T) {
	tests := []struct {
		name  string
		props map[[2]string]ifc.Value
	}{
		{"absent", map[[2]string]ifc.Value{}},
		{"not a number", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Text("long")}},
		{"NaN text", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Text("NaN")}},
		{"Inf text", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Text("Inf")}},
		{"Infinity text", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Text("-Infinity")}},
		{"hex float text", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Text("0x1p3")}},
		{"negative text", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Text("-500")}},
		{"negative number", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Number(-500)}},
		{"NaN number", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Number(math.NaN())}},
		{"Inf number", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Number(math.Inf(1))}},
		{"overflow text", map[[2]string]ifc.Value{{"Dimensions", "Length"}: ifc.Text("1e400")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := fakeElement{id: 7, name: "Putki", props: tt.props}

			_, err := Aggregate(elements(el), segmentSpec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingProperty))

			var missing *MissingPropertyError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, 7, missing.ElementID)
			assert.Equal(t, "Length", missing.Property)
			assert.Equal(t, tt.props[[2]string{"Dimensions", "Length"}].Kind(), missing.Found.Kind())
		})
	}
}

func TestAggregateBendNaming(t *testing.T) {
	table, err := Aggregate(elements(
		part(1, "Käyrä", BendType, map[[2]string]ifc.Value{
			{"Dimensions", "Angle"}: ifc.Text("90"),
			{"Dimensions", "Size"}:  ifc.Text("160"),
		}),
		part(2, "Käyrä", BendType, map[[2]string]ifc.Value{
			{"Dimensions", "Angle"}: ifc.Number(45),
			{"Dimensions", "Size"}:  ifc.Text("160"),
		}),
		part(3, "Käyrä", "TEE", map[[2]string]ifc.Value{
			{"Dimensions", "Angle"}: ifc.Text("90"),
		}),
	), partSpec)
	require.NoError(t, err)

	assert.Equal(t, []string{"Käyrä 90", "Käyrä 45", "Käyrä"}, table.Names())
}

func TestAggregateBendWithoutAngleConfigured(t *testing.T) {
	spec := partSpec
	spec.AngleProperty = ""

	table, err := Aggregate(elements(part(1, "Käyrä", BendType, nil)), spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"Käyrä"}, table.Names())
}

func TestAggregateBendMissingAngle(t *testing.T) {
	_, err := Aggregate(elements(part(3, "Käyrä", BendType, nil)), partSpec)

	var missing *MissingPropertyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 3, missing.ElementID)
	assert.Equal(t, "Angle", missing.Property)
}

func TestAggregateCountsParts(t *testing.T) {
	size := map[[2]string]ifc.Value{{"Dimensions", "Size"}: ifc.Text("160")}

	table, err := Aggregate(elements(
		part(1, "Venttiili", "", size),
		part(2, "Venttiili", "", size),
		part(3, "Venttiili", "", nil),
	), partSpec)
	require.NoError(t, err)

	assert.Equal(t, Pieces, table.Unit())
	rows := table.Buckets("Venttiili")
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, 1, rows[1].Count)
	assert.True(t, rows[1].Size.IsUndefined())
	assert.Equal(t, 3.0, table.Total())
}

func TestAggregateSizeKeysKeepType(t *testing.T) {
	number := ifc.Number(15)

	table, err := Aggregate(elements(
		segment(1, "Putki", text("15"), 1000),
		segment(2, "Putki", &number, 1000),
	), segmentSpec)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
}

func TestAggregateEmptyName(t *testing.T) {
	table, err := Aggregate(elements(segment(1, "", text("15"), 1000)), segmentSpec)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, table.Names())
}

func randomSegments(r *rand.Rand, n int) []fakeElement {
	names := []string{"Putki", "Kupari", "Muovi"}
	sizes := []*ifc.Value{text("15"), text("22"), nil}

	out := make([]fakeElement, n)
	for i := range out {
		out[i] = segment(i+1, names[r.IntN(len(names))], sizes[r.IntN(len(sizes))], float64(r.IntN(10000)))
	}
	return out
}

func TestAggregateOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	input := randomSegments(r, 200)

	want, err := Aggregate(elements(input...), segmentSpec)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		shuffled := append([]fakeElement(nil), input...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Aggregate(elements(shuffled...), segmentSpec)
		require.NoError(t, err)

		if diff := cmp.Diff(bucketMap(want), bucketMap(got), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("permutation %d changed the table (-want +got):\n%s", i, diff)
		}
	}
}

// randomParts mixes bends at two angles, a text and a numeric one, with
// plain fittings, some of them without a size
func randomParts(r *rand.Rand, n int) []fakeElement {
	angles := []ifc.Value{ifc.Text("90"), ifc.Number(45)}
	sizes := []*ifc.Value{text("160"), text("200"), nil}

	out := make([]fakeElement, n)
	for i := range out {
		props := map[[2]string]ifc.Value{}
		if size := sizes[r.IntN(len(sizes))]; size != nil {
			props[[2]string{"Dimensions", "Size"}] = *size
		}

		if r.IntN(2) == 0 {
			props[[2]string{"Dimensions", "Angle"}] = angles[r.IntN(len(angles))]
			out[i] = part(i+1, "Käyrä", BendType, props)
			continue
		}
		out[i] = part(i+1, "Venttiili", "", props)
	}
	return out
}

func TestAggregatePartsOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	input := randomParts(r, 200)

	want, err := Aggregate(elements(input...), partSpec)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Käyrä 90", "Käyrä 45", "Venttiili"}, want.Names())

	for i := 0; i < 5; i++ {
		shuffled := append([]fakeElement(nil), input...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Aggregate(elements(shuffled...), partSpec)
		require.NoError(t, err)
		assert.Equal(t, Pieces, got.Unit())
		assert.InDelta(t, float64(len(input)), got.Total(), 0)

		if diff := cmp.Diff(bucketMap(want), bucketMap(got)); diff != "" {
			t.Errorf("permutation %d changed the table (-want +got):\n%s", i, diff)
		}
	}
}

func TestAggregateHalvedLengths(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	input := randomSegments(r, 100)

	halved := make([]fakeElement, len(input))
	for i, el := range input {
		length, _ := el.Property("Dimensions", "Length").Float()
		halved[i] = segment(el.id, el.name, nil, length/2)
		if size := el.Property("Dimensions", "Size"); !size.IsAbsent() {
			halved[i].props[[2]string{"Dimensions", "Size"}] = size
		}
	}

	direct, err := Aggregate(elements(input...), segmentSpec)
	require.NoError(t, err)
	half, err := Aggregate(elements(halved...), segmentSpec)
	require.NoError(t, err)

	doubled := bucketMap(half)
	for k, v := range doubled {
		doubled[k] = v * 2
	}

	if diff := cmp.Diff(bucketMap(direct), doubled, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("halved then doubled lengths differ (-direct +doubled):\n%s", diff)
	}
}

func TestAggregateMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	input := randomSegments(r, 50)

	previous := 0.0
	for n := 1; n <= len(input); n++ {
		table, err := Aggregate(elements(input[:n]...), segmentSpec)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, table.Total(), previous)
		previous = table.Total()
	}
}
