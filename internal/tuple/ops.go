package tuple

import (
	"fmt"

	"github.com/teascript-go/teascript/internal/value"
)

// Index implements `prefix[index]` (spec §4.4): a string index looks up a
// keyed field, anything else an integer position. Shared by lang/vm's INDEX
// opcode and lang/evaluator's IndexExpr so both engines fail and succeed on
// the same inputs.
func Index(x, idx value.Value) (value.Value, error) {
	t, ok := x.Data().(*Tuple)
	if !ok {
		return value.Value{}, fmt.Errorf("%s value does not support indexing", x.Kind())
	}
	if idx.Kind() == value.KindString {
		v, ok := t.Get(idx.Data().(string))
		if !ok {
			return value.Value{}, fmt.Errorf("no such field %q", idx.Data().(string))
		}
		return v, nil
	}
	i, err := idx.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	v, ok := t.Index(int(i))
	if !ok {
		return value.Value{}, fmt.Errorf("index %d out of range", i)
	}
	return v, nil
}

// SetIndex implements `prefix[index] := v`, the index-assignment mirror of
// Index.
func SetIndex(x, idx, v value.Value) error {
	t, ok := x.Data().(*Tuple)
	if !ok {
		return fmt.Errorf("%s value does not support indexing", x.Kind())
	}
	if idx.Kind() == value.KindString {
		t.Set(idx.Data().(string), v)
		return nil
	}
	i, err := idx.GetAsInteger()
	if err != nil {
		return err
	}
	if !t.SetIndex(int(i), v) {
		return fmt.Errorf("index %d out of range", i)
	}
	return nil
}

// Membership implements the `in` operator (spec §4.6): true iff elem equals
// (by Compare "==") some element of seq, which may be a Tuple or
// IntegerSequence.
func Membership(elem, seq value.Value) (bool, error) {
	switch seq.Kind() {
	case value.KindTuple:
		t := seq.Data().(*Tuple)
		found := false
		t.Each(func(_ int, _ string, _ bool, v value.Value) bool {
			if ok, err := value.Compare("==", elem, v); err == nil && ok {
				found = true
				return false
			}
			return true
		})
		return found, nil
	case value.KindIntegerSequence:
		s := seq.Data().(*value.IntegerSequence)
		n, err := elem.GetAsInteger()
		if err != nil {
			return false, err
		}
		if s.Step == 0 {
			return n == s.Start, nil
		}
		if s.Step > 0 {
			return n >= s.Start && n <= s.End && (n-s.Start)%s.Step == 0, nil
		}
		return n <= s.Start && n >= s.End && (s.Start-n)%(-s.Step) == 0, nil
	default:
		return false, fmt.Errorf("%s value does not support `in`", seq.Kind())
	}
}
