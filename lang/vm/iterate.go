package vm

import "github.com/teascript-go/teascript/internal/value"

// iterator is the internal protocol ITERPUSH/ITERJMP/ITERPOP drive; it
// mirrors the teacher's machine.Iterator shape (Next/Done) but over
// TeaScript's two iterable value kinds (spec §4.6 `forall`: "an
// IntegerSequence or indexable value"). The actual stepping logic lives in
// internal/value.Iterable, shared with lang/evaluator's forall handling.
type iterator = value.Iterable

func newIterator(v value.Value) (iterator, error) { return value.NewIterable(v) }
