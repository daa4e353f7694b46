package value

// Value is the discriminated runtime value of spec §3. It is deliberately a
// value type (copied by assignment in Go, mirroring "unshared values are
// copies"): a Value either owns its data directly, or -- when shared --
// points at a *cell also pointed to by every other binding sharing its
// identity.
type Value struct {
	constFlag bool
	cell      *cell // non-nil iff this Value is shared

	// valid only when cell == nil
	kind Kind
	data interface{}
}

// Config mirrors the "(shared?, const?, type_system?)" constructor
// parameters of spec §4.3.
type Config struct {
	Shared bool
	Const  bool
}

// New constructs a Value of the given kind and payload with the requested
// sharing/const configuration.
func New(kind Kind, data interface{}, cfg Config) Value {
	v := Value{constFlag: cfg.Const}
	if cfg.Shared {
		v.cell = newCell(kind, data)
	} else {
		v.kind = kind
		v.data = data
	}
	return v
}

// NaV returns the canonical "not a value" instance.
func NaV() Value { return Value{kind: NotAValue} }

func Bool(b bool) Value       { return Value{kind: KindBool, data: b} }
func U8(b byte) Value         { return Value{kind: KindU8, data: b} }
func I64(i int64) Value       { return Value{kind: KindI64, data: i} }
func U64(u uint64) Value      { return Value{kind: KindU64, data: u} }
func F64(f float64) Value     { return Value{kind: KindF64, data: f} }
func String(s string) Value   { return Value{kind: KindString, data: s} }

// Kind returns the variant currently held, following the shared cell if any.
func (v Value) Kind() Kind {
	if v.cell != nil {
		return v.cell.kind
	}
	return v.kind
}

// Data returns the raw payload, following the shared cell if any. Callers
// should prefer the typed GetAs* accessors.
func (v Value) Data() interface{} {
	if v.cell != nil {
		return v.cell.data
	}
	return v.data
}

// IsConst reports the const flag (spec §3: "assignment target is
// immutable").
func (v Value) IsConst() bool { return v.constFlag }

// IsShared reports whether v is backed by a reference-counted cell.
func (v Value) IsShared() bool { return v.cell != nil }

// MakeShared returns a new Value wrapping a fresh cell seeded with v's
// current kind/data. v itself is left unmodified (copy-on-share).
func (v Value) MakeShared() Value {
	if v.cell != nil {
		v.cell.retain()
		return v
	}
	nv := v
	nv.cell = newCell(v.kind, v.data)
	nv.kind = 0
	nv.data = nil
	return nv
}

// WithConst returns a copy of v with the const flag set to c.
func (v Value) WithConst(c bool) Value {
	v.constFlag = c
	return v
}

// ShareCount returns the number of live bindings referencing the same cell,
// or 1 for an unshared value (spec §8: share_count(a) == share_count(b) for
// any @@-identical pair).
func (v Value) ShareCount() int {
	if v.cell == nil {
		return 1
	}
	if v.cell.holders < 1 {
		return 1
	}
	return v.cell.holders
}

// SameCell implements the `@@` identity operator: true iff v and other are
// shared and back onto the very same cell.
func (v Value) SameCell(other Value) bool {
	return v.cell != nil && v.cell == other.cell
}

// Retain/Release adjust the holder count of a shared value's cell; Context
// calls these when a shared binding is added to or removed from a scope
// (spec §3 invariant: share_count tracks live bindings).
func (v Value) Retain() {
	if v.cell != nil {
		v.cell.retain()
	}
}

func (v Value) Release() {
	if v.cell != nil {
		v.cell.release()
	}
}

// Assign performs a type-aware copy of src's data into v's storage (spec
// §4.3 "assign"). It fails with ConstAssign if v is const. Assignment may
// change v's kind (TeaScript is dynamically typed at the binding level); the
// destination's const/shared configuration is preserved.
func (v *Value) Assign(src Value) error {
	if v.constFlag {
		return newFailure(ConstAssign, "cannot assign to a const value")
	}
	kind, data := src.Kind(), src.Data()
	if dc, ok := data.(DeepCopier); ok {
		data = dc.DeepCopy()
	}
	if v.cell != nil {
		v.cell.kind = kind
		v.cell.data = data
		return nil
	}
	v.kind = kind
	v.data = data
	return nil
}

// Copy returns v with any composite payload deep-copied, so that binding the
// result under a fresh, unshared name cannot alias v's backing storage (spec
// §3: "unshared values are copies"). A no-op for already-shared values, since
// aliasing the same cell is the entire point of sharing.
func (v Value) Copy() Value {
	if v.cell != nil {
		return v
	}
	if dc, ok := v.data.(DeepCopier); ok {
		v.data = dc.DeepCopy()
	}
	return v
}

// SharedAssign retargets v's cell to point at src's cell (spec §4.3
// "shared_assign"). Both v and src must already be shared; per spec §9's
// preserved ambiguity, this fails with a runtime_error "value must be
// shared" otherwise -- it is not automatically promoted to a copy-assign.
func (v *Value) SharedAssign(src Value) error {
	if v.constFlag {
		return newFailure(ConstAssign, "cannot assign to a const value")
	}
	if v.cell == nil || src.cell == nil {
		return newFailure(RuntimeFailure, "value must be shared")
	}
	src.cell.retain()
	v.cell.release()
	v.cell = src.cell
	return nil
}
