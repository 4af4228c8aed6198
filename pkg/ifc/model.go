package ifc

import "strings"

// ParamKind identifies the kind of an entity attribute
type ParamKind int

const (
	ParamNull ParamKind = iota
	ParamDerived
	ParamRef
	ParamString
	ParamEnum
	ParamInteger
	ParamReal
	ParamBinary
	ParamList
	ParamTyped // IFCLABEL('15'): Str holds the type name, List the wrapped value
)

// Param is a single attribute value of an entity instance
type Param struct {
	Kind ParamKind
	Ref  int
	Str  string
	Int  int64
	Real float64
	List []Param
}

// Refs returns the entity ids referenced by a reference or a list of
// references. Typed wrappers such as IFCPROPERTYSETDEFINITIONSET are
// looked through.
func (p Param) Refs() []int {
	switch p.Kind {
	case ParamRef:
		return []int{p.Ref}
	case ParamList:
		refs := make([]int, 0, len(p.List))
		for _, item := range p.List {
			refs = append(refs, item.Refs()...)
		}
		return refs
	case ParamTyped:
		if len(p.List) == 1 {
			return p.List[0].Refs()
		}
	}
	return nil
}

// Value converts a property value attribute into a Value
func (p Param) Value() Value {
	switch p.Kind {
	case ParamString, ParamEnum:
		return Text(p.Str)
	case ParamInteger:
		return Number(float64(p.Int))
	case ParamReal:
		return Number(p.Real)
	case ParamTyped:
		if len(p.List) == 1 {
			return p.List[0].Value()
		}
	}
	return Absent()
}

// Entity is one instance line of the DATA section: #ID=TYPE(Attrs)
type Entity struct {
	ID    int
	Type  string
	Attrs []Param
}

// Attr returns attribute i, or a null attribute when the entity has fewer
func (e *Entity) Attr(i int) Param {
	if i < 0 || i >= len(e.Attrs) {
		return Param{Kind: ParamNull}
	}
	return e.Attrs[i]
}

// text returns attribute i when it is a string or enumeration
func (e *Entity) text(i int) string {
	p := e.Attr(i)
	if p.Kind == ParamString || p.Kind == ParamEnum {
		return p.Str
	}
	return ""
}

// Model represents a loaded IFC model
type Model struct {
	Schema string
	Name   string

	entities map[int]*Entity
	order    []int

	propertyDefs map[int][]int // object id -> property set ids
	typeOf       map[int]int   // object id -> type object id
	elements     map[int]*Element
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{
		entities:     make(map[int]*Entity),
		propertyDefs: make(map[int][]int),
		typeOf:       make(map[int]int),
		elements:     make(map[int]*Element),
	}
}

// Entity returns the instance with the given id
func (m *Model) Entity(id int) (*Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// EntityCount returns the number of instances in the DATA section
func (m *Model) EntityCount() int {
	return len(m.order)
}

func (m *Model) addEntity(e *Entity) bool {
	if _, exists := m.entities[e.ID]; exists {
		return false
	}
	m.entities[e.ID] = e
	m.order = append(m.order, e.ID)
	return true
}

// index builds the property and type relationships once all instances
// are known.
func (m *Model) index() {
	for _, id := range m.order {
		e := m.entities[id]
		switch e.Type {
		case "IFCRELDEFINESBYPROPERTIES":
			defs := e.Attr(5).Refs()
			for _, obj := range e.Attr(4).Refs() {
				m.propertyDefs[obj] = append(m.propertyDefs[obj], defs...)
			}
		case "IFCRELDEFINESBYTYPE":
			types := e.Attr(5).Refs()
			if len(types) == 0 {
				continue
			}
			for _, obj := range e.Attr(4).Refs() {
				m.typeOf[obj] = types[0]
			}
		}
	}
}

// IFC2x3 models the distribution occurrences with generic flow classes;
// the concrete kind comes from the assigned type object.
var genericFlowClasses = map[string]bool{
	"IFCFLOWSEGMENT":         true,
	"IFCFLOWFITTING":         true,
	"IFCFLOWTERMINAL":        true,
	"IFCFLOWCONTROLLER":      true,
	"IFCFLOWMOVINGDEVICE":    true,
	"IFCFLOWTREATMENTDEVICE": true,
}

func (m *Model) classOf(e *Entity) string {
	if !genericFlowClasses[e.Type] {
		return e.Type
	}
	if t, ok := m.typeObject(e.ID); ok && strings.HasSuffix(t.Type, "TYPE") {
		return strings.TrimSuffix(t.Type, "TYPE")
	}
	return e.Type
}

func (m *Model) typeObject(id int) (*Entity, bool) {
	tid, ok := m.typeOf[id]
	if !ok {
		return nil, false
	}
	return m.Entity(tid)
}

// ByType returns the elements whose class is the given IFC class, in file
// order. Class names are case-insensitive.
func (m *Model) ByType(class string) []*Element {
	class = strings.ToUpper(class)

	var elements []*Element
	for _, id := range m.order {
		e := m.entities[id]
		if e.Type != class && !genericFlowClasses[e.Type] {
			continue
		}
		if m.classOf(e) != class {
			continue
		}
		elements = append(elements, m.element(e))
	}
	return elements
}

func (m *Model) element(e *Entity) *Element {
	if el, ok := m.elements[e.ID]; ok {
		return el
	}

	el := &Element{
		id:             e.ID,
		class:          m.classOf(e),
		name:           e.text(2),
		predefinedType: e.text(8),
		props:          make(map[propertyKey]Value),
	}

	// Type properties first so occurrence values override them.
	if t, ok := m.typeObject(e.ID); ok {
		if el.predefinedType == "" || el.predefinedType == "NOTDEFINED" {
			if pt := t.text(9); pt != "" {
				el.predefinedType = pt
			}
		}
		m.collectProperties(el, t.Attr(5).Refs())
	}
	m.collectProperties(el, m.propertyDefs[e.ID])

	m.elements[e.ID] = el
	return el
}

func (m *Model) collectProperties(el *Element, setIDs []int) {
	for _, sid := range setIDs {
		set, ok := m.Entity(sid)
		if !ok {
			continue
		}

		var members []int
		switch set.Type {
		case "IFCPROPERTYSET":
			members = set.Attr(4).Refs()
		case "IFCELEMENTQUANTITY":
			members = set.Attr(5).Refs()
		default:
			continue
		}

		psetName := set.text(2)
		for _, pid := range members {
			prop, ok := m.Entity(pid)
			if !ok {
				continue
			}
			if name, value, ok := propertyValue(prop); ok {
				el.props[propertyKey{pset: psetName, name: name}] = value
			}
		}
	}
}

// propertyValue reads the name and value of a single property or quantity
func propertyValue(prop *Entity) (string, Value, bool) {
	switch prop.Type {
	case "IFCPROPERTYSINGLEVALUE":
		return prop.text(0), prop.Attr(2).Value(), true
	case "IFCPROPERTYENUMERATEDVALUE":
		values := prop.Attr(2)
		if values.Kind == ParamList && len(values.List) > 0 {
			return prop.text(0), values.List[0].Value(), true
		}
		return prop.text(0), Absent(), true
	case "IFCQUANTITYLENGTH", "IFCQUANTITYAREA", "IFCQUANTITYVOLUME",
		"IFCQUANTITYCOUNT", "IFCQUANTITYWEIGHT", "IFCQUANTITYTIME":
		return prop.text(0), prop.Attr(3).Value(), true
	}
	return "", Absent(), false
}

type propertyKey struct {
	pset string
	name string
}

// Element is a product occurrence with its resolved properties
type Element struct {
	id             int
	class          string
	name           string
	predefinedType string
	props          map[propertyKey]Value
}

// ID returns the STEP instance id of the element
func (e *Element) ID() int { return e.id }

// Class returns the effective IFC class, e.g. IFCPIPESEGMENT
func (e *Element) Class() string { return e.class }

// Name returns the element name, or "" when unset
func (e *Element) Name() string { return e.name }

// PredefinedType returns the predefined type tag, e.g. BEND
func (e *Element) PredefinedType() string { return e.predefinedType }

// Property looks up a property by property set and property name
func (e *Element) Property(pset, name string) Value {
	if v, ok := e.props[propertyKey{pset: pset, name: name}]; ok {
		return v
	}
	return Absent()
}
