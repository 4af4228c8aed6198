package takeoff

// Unit is the unit a table's quantities are expressed in
type Unit string

const (
	Meters Unit = "m"
	Pieces Unit = "kpl"
)

// Row is one (name, size) bucket of a table
type Row struct {
	Name   string
	Size   SizeKey
	Length float64 // metres, for Meters tables
	Count  int     // pieces, for Pieces tables
}

// Quantity returns the bucket value in the table unit
func (r Row) Quantity(unit Unit) float64 {
	if unit == Pieces {
		return float64(r.Count)
	}
	return r.Length
}

// Table is a two-level quantity table: display name -> size -> quantity.
// Both levels keep first-insertion order. Tables are only built by
// Aggregate; everything exported is read-only.
type Table struct {
	unit   Unit
	groups []*group
	byName map[string]*group
}

type group struct {
	name    string
	buckets []*Row
	bySize  map[SizeKey]*Row
}

func newTable(unit Unit) *Table {
	return &Table{
		unit:   unit,
		byName: make(map[string]*group),
	}
}

// Unit returns the unit of the table quantities
func (t *Table) Unit() Unit {
	return t.unit
}

func (t *Table) bucket(name string, size SizeKey) *Row {
	g, ok := t.byName[name]
	if !ok {
		g = &group{name: name, bySize: make(map[SizeKey]*Row)}
		t.byName[name] = g
		t.groups = append(t.groups, g)
	}

	r, ok := g.bySize[size]
	if !ok {
		r = &Row{Name: name, Size: size}
		g.bySize[size] = r
		g.buckets = append(g.buckets, r)
	}
	return r
}

func (t *Table) addLength(name string, size SizeKey, meters float64) {
	r := t.bucket(name, size)
	r.Length += meters
}

func (t *Table) addCount(name string, size SizeKey) {
	r := t.bucket(name, size)
	r.Count++
}

// Names returns the display names in first-seen order
func (t *Table) Names() []string {
	names := make([]string, len(t.groups))
	for i, g := range t.groups {
		names[i] = g.name
	}
	return names
}

// Buckets returns copies of the buckets of one display name in first-seen
// order, or nil for an unknown name
func (t *Table) Buckets(name string) []Row {
	g, ok := t.byName[name]
	if !ok {
		return nil
	}
	rows := make([]Row, len(g.buckets))
	for i, r := range g.buckets {
		rows[i] = *r
	}
	return rows
}

// Lookup returns the bucket for a (name, size) pair
func (t *Table) Lookup(name string, size SizeKey) (Row, bool) {
	g, ok := t.byName[name]
	if !ok {
		return Row{}, false
	}
	r, ok := g.bySize[size]
	if !ok {
		return Row{}, false
	}
	return *r, true
}

// Rows returns copies of all buckets, grouped by name in first-seen order
func (t *Table) Rows() []Row {
	var rows []Row
	for _, g := range t.groups {
		for _, r := range g.buckets {
			rows = append(rows, *r)
		}
	}
	return rows
}

// Len returns the number of distinct (name, size) buckets
func (t *Table) Len() int {
	n := 0
	for _, g := range t.groups {
		n += len(g.buckets)
	}
	return n
}

// Total returns the sum of all buckets in the table unit
func (t *Table) Total() float64 {
	total := 0.0
	for _, g := range t.groups {
		for _, r := range g.buckets {
			total += r.Quantity(t.unit)
		}
	}
	return total
}
