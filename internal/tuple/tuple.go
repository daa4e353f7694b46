// Package tuple implements TeaScript's Tuple (spec §3/§4.4, component C4):
// an ordered sequence of (optional key, Value) pairs used as the sole
// carrier for records, arrays and structs.
//
// Grounded on the teacher's lang/machine/tuple.go (ordered slice + Iterator)
// merged with lang/machine/map.go's use of github.com/dolthub/swiss for fast
// lookup -- here the swiss map indexes key -> positional index rather than
// key -> value directly, because spec §3 invariant (e) requires position to
// stay authoritative: "a tuple's positional index of a keyed element equals
// its insertion order".
package tuple

import (
	"strings"

	"github.com/dolthub/swiss"
	"github.com/teascript-go/teascript/internal/value"
)

// entry is one (optional key, Value) pair.
type entry struct {
	key   string
	hasKey bool
	val   value.Value
}

// Tuple is an ordered mapping: positional access is O(1) by index, keyed
// access is average O(1) via a secondary swiss-table index.
type Tuple struct {
	elems    []entry
	keyIndex *swiss.Map[string, int]
	shape    shapeHint
}

var _ value.DeepPrinter = (*Tuple)(nil)
var _ value.DeepCopier = (*Tuple)(nil)

// New returns an empty Tuple.
func New() *Tuple {
	return &Tuple{keyIndex: swiss.NewMap[string, int](4)}
}

// NewPositional returns a Tuple containing vs as purely positional elements,
// in order -- the conventional shape used for TeaScript arrays.
func NewPositional(vs []value.Value) *Tuple {
	t := New()
	for _, v := range vs {
		_ = t.AppendPositional(v)
	}
	return t
}

// Len returns the number of elements.
func (t *Tuple) Len() int { return len(t.elems) }

// shapeHint records whether an empty Tuple was explicitly constructed as an
// array or a record, since zero elements alone (spec §3: "a conventional
// empty-marker sentinel to distinguish an empty array from an empty record
// during external serialization") carries no shape information on its own.
type shapeHint uint8

const (
	shapeUnknown shapeHint = iota
	shapeArray
	shapeRecord
)

// NewEmptyArray returns an empty Tuple explicitly tagged as an array, for
// external serialization (spec §3).
func NewEmptyArray() *Tuple {
	t := New()
	t.shape = shapeArray
	return t
}

// NewEmptyRecord returns an empty Tuple explicitly tagged as a record.
func NewEmptyRecord() *Tuple {
	t := New()
	t.shape = shapeRecord
	return t
}

// IsArrayLike reports whether t should serialize as an array: either it has
// no keyed elements, or it was explicitly constructed as an empty array.
func (t *Tuple) IsArrayLike() bool {
	if len(t.elems) == 0 {
		return t.shape != shapeRecord
	}
	for _, e := range t.elems {
		if e.hasKey {
			return false
		}
	}
	return true
}

// AppendPositional appends v without a key.
func (t *Tuple) AppendPositional(v value.Value) error {
	t.elems = append(t.elems, entry{val: v})
	return nil
}

// AppendKeyed appends v under key. Keys must be unique (spec §3).
func (t *Tuple) AppendKeyed(key string, v value.Value) error {
	if _, ok := t.keyIndex.Get(key); ok {
		return &DuplicateKeyError{Key: key}
	}
	idx := len(t.elems)
	t.elems = append(t.elems, entry{key: key, hasKey: true, val: v})
	t.keyIndex.Put(key, idx)
	return nil
}

// DuplicateKeyError is returned by AppendKeyed when key already exists.
type DuplicateKeyError struct{ Key string }

func (e *DuplicateKeyError) Error() string { return "duplicate tuple key: " + e.Key }

// Index returns the element at positional index i.
func (t *Tuple) Index(i int) (value.Value, bool) {
	if i < 0 || i >= len(t.elems) {
		return value.Value{}, false
	}
	return t.elems[i].val, true
}

// SetIndex replaces the element at positional index i.
func (t *Tuple) SetIndex(i int, v value.Value) bool {
	if i < 0 || i >= len(t.elems) {
		return false
	}
	t.elems[i].val = v
	return true
}

// Get returns the value for key, and whether it was present (spec §4.4
// keyed access).
func (t *Tuple) Get(key string) (value.Value, bool) {
	idx, ok := t.keyIndex.Get(key)
	if !ok {
		return value.Value{}, false
	}
	return t.elems[idx].val, true
}

// Set replaces the value for an existing key, or appends a new keyed
// element if key is not yet present.
func (t *Tuple) Set(key string, v value.Value) {
	if idx, ok := t.keyIndex.Get(key); ok {
		t.elems[idx].val = v
		return
	}
	_ = t.AppendKeyed(key, v)
}

// KeyAt returns the key of the element at positional index i, and whether
// that element is keyed at all.
func (t *Tuple) KeyAt(i int) (string, bool) {
	if i < 0 || i >= len(t.elems) {
		return "", false
	}
	return t.elems[i].key, t.elems[i].hasKey
}

// InsertAt inserts v at positional index i, shifting later elements right
// and rebuilding the key index (spec §4.4 "insert-at-index").
func (t *Tuple) InsertAt(i int, v value.Value) bool {
	if i < 0 || i > len(t.elems) {
		return false
	}
	t.elems = append(t.elems, entry{})
	copy(t.elems[i+1:], t.elems[i:])
	t.elems[i] = entry{val: v}
	t.reindex()
	return true
}

// RemoveAt removes the element at positional index i (spec §4.4
// "remove-by-index").
func (t *Tuple) RemoveAt(i int) bool {
	if i < 0 || i >= len(t.elems) {
		return false
	}
	t.elems = append(t.elems[:i], t.elems[i+1:]...)
	t.reindex()
	return true
}

// RemoveKey removes the element with the given key (spec §4.4
// "remove-by-key").
func (t *Tuple) RemoveKey(key string) bool {
	idx, ok := t.keyIndex.Get(key)
	if !ok {
		return false
	}
	return t.RemoveAt(idx)
}

// Swap exchanges the elements at positional indices i and j (spec §4.4
// "swap-by-index").
func (t *Tuple) Swap(i, j int) bool {
	if i < 0 || j < 0 || i >= len(t.elems) || j >= len(t.elems) {
		return false
	}
	t.elems[i], t.elems[j] = t.elems[j], t.elems[i]
	t.reindexKeyAt(i)
	t.reindexKeyAt(j)
	return true
}

func (t *Tuple) reindexKeyAt(i int) {
	if t.elems[i].hasKey {
		t.keyIndex.Put(t.elems[i].key, i)
	}
}

func (t *Tuple) reindex() {
	t.keyIndex = swiss.NewMap[string, int](uint32(len(t.elems)))
	for i, e := range t.elems {
		if e.hasKey {
			t.keyIndex.Put(e.key, i)
		}
	}
}

// Clone returns a deep copy: its own elems slice and key index, with any
// nested Tuple-kind element cloned in turn. Used by value.Value.Assign so an
// unshared `def u := t` materializes a fresh tuple instead of aliasing t's
// backing storage (spec §3 "unshared values are copies").
func (t *Tuple) Clone() *Tuple {
	out := &Tuple{
		elems: make([]entry, len(t.elems)),
		shape: t.shape,
	}
	out.keyIndex = swiss.NewMap[string, int](uint32(len(t.elems)))
	for i, e := range t.elems {
		if e.val.Kind() == value.KindTuple {
			if nested, ok := e.val.Data().(*Tuple); ok {
				e.val = value.New(value.KindTuple, nested.Clone(), value.Config{})
			}
		}
		out.elems[i] = e
		if e.hasKey {
			out.keyIndex.Put(e.key, i)
		}
	}
	return out
}

// DeepCopy implements value.DeepCopier.
func (t *Tuple) DeepCopy() interface{} { return t.Clone() }

// Each calls f for every element in insertion order, stopping early if f
// returns false (spec §4.4 "iterate").
func (t *Tuple) Each(f func(i int, key string, hasKey bool, v value.Value) bool) {
	for i, e := range t.elems {
		if !f(i, e.key, e.hasKey, e.val) {
			return
		}
	}
}

// SameTypeShape implements spec §4.4's recursive structural equality of
// *types*, ignoring leaf values -- used by host code to validate record
// shapes. Two tuples have the same shape iff they have the same length, the
// same keys (or lack thereof) at each position, and each element's runtime
// kind matches (recursing into nested tuples).
func (t *Tuple) SameTypeShape(other *Tuple) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i := range t.elems {
		a, b := t.elems[i], other.elems[i]
		if a.hasKey != b.hasKey || (a.hasKey && a.key != b.key) {
			return false
		}
		if a.val.Kind() != b.val.Kind() {
			return false
		}
		if a.val.Kind() == value.KindTuple {
			at, aok := a.val.Data().(*Tuple)
			bt, bok := b.val.Data().(*Tuple)
			if aok != bok {
				return false
			}
			if aok && !at.SameTypeShape(bt) {
				return false
			}
		}
	}
	return true
}

// PrintValueDepth implements value.DeepPrinter: "name: value" for keyed
// elements, bare value for positional ones, recursing up to depth and
// showing "<Tuple>" beyond it (spec §4.4).
func (t *Tuple) PrintValueDepth(depth int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range t.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		if e.hasKey {
			b.WriteString(e.key)
			b.WriteString(": ")
		}
		if e.val.Kind() != value.KindTuple {
			b.WriteString(e.val.PrintValue())
		} else if depth <= 0 {
			b.WriteString("<Tuple>")
		} else if dp, ok := e.val.Data().(value.DeepPrinter); ok {
			b.WriteString(dp.PrintValueDepth(depth - 1))
		} else {
			b.WriteString(e.val.PrintValue())
		}
	}
	b.WriteByte(')')
	return b.String()
}

func (t *Tuple) String() string { return t.PrintValueDepth(value.MaxPrintDepth) }
