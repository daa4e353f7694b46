package value

import "fmt"

// IntegerSequence is the runtime representation of spec §3's
// `IntegerSequence` value: an arithmetic progression (start, end, step)
// iterated lazily by `forall`. It is shared by both execution engines
// (lang/compiler+lang/vm and lang/evaluator), since spec §8 requires them to
// produce identical observable results from the same value kinds.
type IntegerSequence struct {
	Start, End, Step int64
}

// NewIntegerSequenceValue constructs a KindIntegerSequence Value. Step must
// be non-zero and its sign must agree with the direction from Start to End;
// callers (the `_seq` corelib builtin) are responsible for
// validating this per spec §8's IntegerSequence invariant.
func NewIntegerSequenceValue(start, end, step int64) Value {
	return New(KindIntegerSequence, &IntegerSequence{Start: start, End: end, Step: step}, Config{})
}

func (s *IntegerSequence) String() string {
	return fmt.Sprintf("%d..%d step %d", s.Start, s.End, s.Step)
}

// Next implements spec §8's IntegerSequence invariant: repeated calls visit
// s, s+k, s+2k, ..., s+nk where s+nk is the largest value with
// |s+nk-s| <= |e-s| and sign(s+nk-s) agrees with sign(k); Next never
// overshoots End. started is false for the very first call.
func (s *IntegerSequence) Next(cur int64, started bool) (int64, bool) {
	if !started {
		if s.inRange(s.Start) {
			return s.Start, true
		}
		return 0, false
	}
	n := cur + s.Step
	if !s.inRange(n) {
		return 0, false
	}
	return n, true
}

func (s *IntegerSequence) inRange(v int64) bool {
	if s.Step > 0 {
		return v <= s.End
	}
	if s.Step < 0 {
		return v >= s.End
	}
	return v == s.Start && v == s.End
}

// ErrorValue is the runtime representation of spec §3's `Error` value: a
// code (one of spec §7's failure kinds) plus a human-readable message,
// produced when a `catch` clause binds a caught runtime error.
type ErrorValue struct {
	Code    string
	Message string
}

func NewErrorValue(code, message string) Value {
	return New(KindError, &ErrorValue{Code: code, Message: message}, Config{})
}

func (e *ErrorValue) String() string { return e.Code + ": " + e.Message }

// ErrorValueFor wraps a Go error raised during execution as a KindError
// Value: a *Failure carries its own structured kind/message, anything else
// becomes a generic "runtime_error" (spec §7).
func ErrorValueFor(err error) Value {
	if f, ok := err.(*Failure); ok {
		return NewErrorValue(string(f.Kind), f.Message)
	}
	return NewErrorValue("runtime_error", err.Error())
}

// Passthrough is the runtime representation of spec §3's `Passthrough`
// value: opaque host data round-tripped through TeaScript without the
// language inspecting it.
type Passthrough struct {
	Data interface{}
}

func NewPassthroughValue(data interface{}) Value {
	return New(KindPassthrough, &Passthrough{Data: data}, Config{})
}

func (p *Passthrough) String() string { return fmt.Sprintf("passthrough(%T)", p.Data) }

// Iterable is implemented by the value kinds `forall` can step over (spec
// §4.6): Tuple (by position) and IntegerSequence.
type Iterable interface {
	// Next returns the next element and true, or a zero Value and false once
	// exhausted.
	Next() (Value, bool)
}

type tupleIterator struct {
	t   interface {
		Index(int) (Value, bool)
	}
	i int
}

func (it *tupleIterator) Next() (Value, bool) {
	v, ok := it.t.Index(it.i)
	if !ok {
		return Value{}, false
	}
	it.i++
	return v, true
}

type seqIterator struct {
	seq     *IntegerSequence
	cur     int64
	started bool
}

func (it *seqIterator) Next() (Value, bool) {
	n, ok := it.seq.Next(it.cur, it.started)
	if !ok {
		return Value{}, false
	}
	it.cur = n
	it.started = true
	return I64(n), true
}

// NewIterable builds the Iterable for v, failing for non-iterable kinds.
// Tuple's concrete element type is accepted as the minimal `Index(int)
// (Value, bool)` interface so this package does not need to import
// internal/tuple.
func NewIterable(v Value) (Iterable, error) {
	switch v.Kind() {
	case KindTuple:
		t, ok := v.Data().(interface {
			Index(int) (Value, bool)
		})
		if !ok {
			return nil, fmt.Errorf("malformed tuple value")
		}
		return &tupleIterator{t: t}, nil
	case KindIntegerSequence:
		s, ok := v.Data().(*IntegerSequence)
		if !ok {
			return nil, fmt.Errorf("malformed integer sequence value")
		}
		return &seqIterator{seq: s}, nil
	default:
		return nil, fmt.Errorf("%s value is not iterable", v.Kind())
	}
}
