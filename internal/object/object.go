package object

import "strings"

// Attribute is the PERMANENT/READONLY/DONTENUM property-attribute bitmap,
// mirroring the classic Rhino ScriptableObject attribute constants that
// spec.md §7 calls out by name.
type Attribute int

const (
	// EMPTY means none of the below: writable, enumerable, configurable.
	EMPTY Attribute = 0
	// READONLY marks a property that cannot be reassigned by script code.
	READONLY Attribute = 1 << iota >> 1
	// DONTENUM excludes the property from for-in and Object.keys-style
	// enumeration, e.g. built-in method properties.
	DONTENUM
	// PERMANENT marks a property that cannot be deleted.
	PERMANENT
)

// Property is one slot in an Object's own property table: a value plus its
// attribute bitmap, or an accessor pair (Getter/Setter) in place of Value.
type Property struct {
	Value    Value
	Getter   *Object // a callable Object, or nil
	Setter   *Object // a callable Object, or nil
	Attrs    Attribute
}

func (p *Property) isAccessor() bool { return p.Getter != nil || p.Setter != nil }

// Class names the internal [[Class]] tag used for Object.prototype.toString
// and dispatch decisions (spec.md's "id-based property dispatch" keys off
// of this together with each slot's id, see Object.getIds).
type Class string

const (
	ClassObject   Class = "Object"
	ClassArray    Class = "Array"
	ClassFunction Class = "Function"
	ClassError    Class = "Error"
	ClassRegExp   Class = "RegExp"
	ClassBoolean  Class = "Boolean"
	ClassNumber   Class = "Number"
	ClassString   Class = "String"
)

// NativeFunc is the Go implementation backing a built-in function object:
// it receives the call's `this` binding and argument list and returns the
// result or a thrown error value.
type NativeFunc func(this Value, args []Value) (Value, error)

// Object is the universal JavaScript object representation: a class tag,
// a prototype link, an attributed own-property table, and (for callable
// objects) either a native Go implementation or a compiled function body
// reference. Arrays additionally use Elements for their indexed storage,
// avoiding boxing every index as a string-keyed property, the same
// optimization the teacher's array.go applies to its own indexed value type.
type Object struct {
	Class      Class
	Proto      *Object
	Extensible bool
	Sealed     bool
	Frozen     bool

	props map[string]*Property
	// keys preserves insertion order for enumeration (getOwnPropertyNames,
	// for-in); Go maps have no stable order so this mirrors how the teacher's
	// ident.Map-backed environment preserves declaration order for errors.
	keys []string

	Elements []Value // dense storage for Class == ClassArray

	// Call is non-nil for function objects implemented natively.
	Call NativeFunc
	// FuncID, when non-empty, names a compiled function body looked up in
	// the owning Context's function table; Call and FuncID are mutually
	// exclusive.
	FuncID string
}

// NewObject creates a plain object with the given prototype (nil for no
// prototype, i.e. Object.prototype itself).
func NewObject(proto *Object) *Object {
	return &Object{
		Class:      ClassObject,
		Proto:      proto,
		Extensible: true,
		props:      make(map[string]*Property),
	}
}

func (o *Object) valueNode()     {}
func (o *Object) TypeOf() string {
	if o.Call != nil || o.FuncID != "" {
		return "function"
	}
	return "object"
}

func (o *Object) String() string {
	if o.Class == ClassArray {
		parts := make([]string, len(o.Elements))
		for i, e := range o.Elements {
			parts[i] = ToString(e)
		}
		return strings.Join(parts, ",")
	}
	return "[object " + string(o.Class) + "]"
}

// DefineOwnProperty installs or replaces a data property directly on o,
// bypassing the prototype chain; used for declarations, the `var`/`let`
// binding mechanism when targeting the global object, and built-in setup.
func (o *Object) DefineOwnProperty(name string, value Value, attrs Attribute) {
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = &Property{Value: value, Attrs: attrs}
}

// DefineAccessor installs a getter/setter pair as name's own property.
func (o *Object) DefineAccessor(name string, getter, setter *Object, attrs Attribute) {
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = &Property{Getter: getter, Setter: setter, Attrs: attrs}
}

// GetOwnProperty looks up name directly on o, without consulting Proto.
func (o *Object) GetOwnProperty(name string) (*Property, bool) {
	p, ok := o.props[name]
	return p, ok
}

// Get resolves name by id-based dispatch: first against o's own property
// table, then walking the prototype chain, matching spec.md §7's
// "identifiers resolve through an id-based dispatch table that first
// consults the object's own slots, then its prototype chain."
func (o *Object) Get(name string) (Value, bool) {
	cur := o
	for cur != nil {
		if p, ok := cur.props[name]; ok {
			if p.isAccessor() {
				if p.Getter == nil || p.Getter.Call == nil {
					return Undefined, true
				}
				v, err := p.Getter.Call(o, nil)
				if err != nil {
					return Undefined, true
				}
				return v, true
			}
			return p.Value, true
		}
		cur = cur.Proto
	}
	return Undefined, false
}

// Put assigns name on o. If an accessor or data property named name exists
// anywhere on the prototype chain with a setter, that setter runs; a
// READONLY own property is left unchanged; otherwise a new own data
// property is created on o (the classic "put creates on the receiver,
// never on the prototype" rule).
func (o *Object) Put(name string, value Value) {
	for cur := o; cur != nil; cur = cur.Proto {
		p, ok := cur.props[name]
		if !ok {
			continue
		}
		if p.isAccessor() {
			if p.Setter != nil && p.Setter.Call != nil {
				_, _ = p.Setter.Call(o, []Value{value})
			}
			return
		}
		if cur == o {
			if p.Attrs&READONLY != 0 {
				return
			}
			p.Value = value
			return
		}
		// Inherited data property: shadow it with a new own property,
		// unless the inherited slot is READONLY (assignment is then a no-op).
		if p.Attrs&READONLY != 0 {
			return
		}
		break
	}
	if !o.Extensible {
		return
	}
	o.DefineOwnProperty(name, value, EMPTY)
}

// Delete removes name from o's own properties, honoring PERMANENT. It
// returns false if the property exists and is PERMANENT (delete fails
// silently in non-strict code, matching the teacher's error-return idiom
// for a caller that wants to know whether to raise in strict mode).
func (o *Object) Delete(name string) bool {
	p, ok := o.props[name]
	if !ok {
		return true
	}
	if p.Attrs&PERMANENT != 0 {
		return false
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether name resolves anywhere on o's prototype chain.
func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// GetOwnPropertyNames returns o's own enumerable-or-not property names in
// declaration order, implementing the getOwnPropertyNames operation of
// spec.md §7 (includes DONTENUM properties; callers that want only
// enumerable keys should filter with IsEnumerable).
func (o *Object) GetOwnPropertyNames() []string {
	names := make([]string, len(o.keys))
	copy(names, o.keys)
	return names
}

// IsEnumerable reports whether name is an own property without DONTENUM.
func (o *Object) IsEnumerable(name string) bool {
	p, ok := o.props[name]
	if !ok {
		return false
	}
	return p.Attrs&DONTENUM == 0
}

// Keys returns the enumerable own property names, the order for-in visits
// before ascending to the prototype chain.
func (o *Object) Keys() []string {
	var out []string
	for _, k := range o.keys {
		if o.IsEnumerable(k) {
			out = append(out, k)
		}
	}
	return out
}

// Seal marks o non-extensible and marks every current own property
// PERMANENT, matching Object.seal semantics (distinct from a Context's
// seal(), which locks the whole runtime rather than one object).
func (o *Object) Seal() {
	o.Extensible = false
	o.Sealed = true
	for _, p := range o.props {
		p.Attrs |= PERMANENT
	}
}

// Freeze is Seal plus READONLY on every data property.
func (o *Object) Freeze() {
	o.Seal()
	o.Frozen = true
	for _, p := range o.props {
		if !p.isAccessor() {
			p.Attrs |= READONLY
		}
	}
}
