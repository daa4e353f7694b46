// Package typesystem implements the type registry of spec §4.2 (component
// C2): a mapping from an internal type-identity token to a TypeInfo
// descriptor. Descriptors compare by identity (their token), never by name,
// per spec §3 invariant (c).
//
// Grounded on the type-name strings the teacher's lang/machine package
// attaches to every runtime value (Value.Type() string), generalized into a
// first-class registry because spec §3 requires TypeInfo to be itself a
// usable runtime value (`typeof x`, `x is T`, `typename x`), which the
// teacher's plain string tag does not support.
package typesystem

import "fmt"

// ID is an opaque type-identity token. Two TypeInfo values describe the same
// type iff their ID is equal; names are not significant for identity.
type ID uint32

// TypeInfo is a descriptor for one TeaScript runtime type.
type TypeInfo struct {
	id           ID
	name         string
	sizeBytes    int
	isArithmetic bool
	isSigned    bool
	isNav        bool // true only for the NotAValue type
}

func (t TypeInfo) ID() ID             { return t.id }
func (t TypeInfo) Name() string       { return t.name }
func (t TypeInfo) SizeBytes() int     { return t.sizeBytes }
func (t TypeInfo) IsArithmetic() bool { return t.isArithmetic }
func (t TypeInfo) IsSigned() bool     { return t.isSigned }
func (t TypeInfo) IsNaV() bool        { return t.isNav }

// Equal reports whether t and other describe the same type, by identity.
func (t TypeInfo) Equal(other TypeInfo) bool { return t.id == other.id }

func (t TypeInfo) String() string { return t.name }

// Registry maps type identities to their descriptors. Registration is
// idempotent: registering the same name twice with the same shape returns
// the existing descriptor rather than erroring.
type Registry struct {
	byID   map[ID]TypeInfo
	byName map[string]ID
	next   ID
}

// NewRegistry creates a registry pre-populated with every primitive type
// spec §3/§4.2/§4.11 names.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[ID]TypeInfo), byName: make(map[string]ID)}
	r.register("NaV", 0, false, false, true)
	r.register("Bool", 1, false, false, false)
	r.register("i8", 1, true, true, false)
	r.register("i16", 2, true, true, false)
	r.register("i32", 4, true, true, false)
	r.register("i64", 8, true, true, false)
	r.register("u8", 1, true, false, false)
	r.register("u16", 2, true, false, false)
	r.register("u32", 4, true, false, false)
	r.register("u64", 8, true, false, false)
	r.register("f32", 4, true, true, false)
	r.register("f64", 8, true, true, false)
	r.register("String", 0, false, false, false)
	r.register("Buffer", 0, false, false, false)
	r.register("TypeInfo", 0, false, false, false)
	r.register("Tuple", 0, false, false, false)
	r.register("Function", 0, false, false, false)
	r.register("IntegerSequence", 0, false, false, false)
	r.register("Error", 0, false, false, false)
	r.register("Passthrough", 0, false, false, false)
	return r
}

func (r *Registry) register(name string, size int, arithmetic, signed, nav bool) TypeInfo {
	id := r.next
	r.next++
	ti := TypeInfo{id: id, name: name, sizeBytes: size, isArithmetic: arithmetic, isSigned: signed, isNav: nav}
	r.byID[id] = ti
	r.byName[name] = id
	return ti
}

// Register adds a new named type descriptor. Calling Register again with the
// same name and identical shape is a no-op that returns the existing
// descriptor (idempotent per spec §4.2); calling it with the same name but a
// different shape is an error.
func (r *Registry) Register(name string, sizeBytes int, isArithmetic, isSigned bool) (TypeInfo, error) {
	if id, ok := r.byName[name]; ok {
		existing := r.byID[id]
		if existing.sizeBytes == sizeBytes && existing.isArithmetic == isArithmetic && existing.isSigned == isSigned {
			return existing, nil
		}
		return TypeInfo{}, fmt.Errorf("typesystem: type %q already registered with a different shape", name)
	}
	return r.register(name, sizeBytes, isArithmetic, isSigned, false), nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (TypeInfo, bool) {
	id, ok := r.byName[name]
	if !ok {
		return TypeInfo{}, false
	}
	return r.byID[id], true
}

// ByID returns the descriptor for id.
func (r *Registry) ByID(id ID) (TypeInfo, bool) {
	ti, ok := r.byID[id]
	return ti, ok
}

// MustLookup is Lookup but panics if name is not registered; intended for use
// with the fixed set of primitive type names registered by NewRegistry.
func (r *Registry) MustLookup(name string) TypeInfo {
	ti, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("typesystem: unregistered primitive type %q", name))
	}
	return ti
}
