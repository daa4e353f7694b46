package value

import "fmt"

// FailureKind names one of the typed failure kinds of spec §4.3/§7.
type FailureKind string

const (
	BadValueCast   FailureKind = "bad_value_cast"
	OutOfRange     FailureKind = "out_of_range"
	ConstAssign    FailureKind = "const_assign"
	TypeMismatch   FailureKind = "type_mismatch"
	DivByZero      FailureKind = "div_by_zero"
	RuntimeFailure FailureKind = "runtime_error"
)

// Failure is the error type returned by value operations; it carries a kind
// so callers (the evaluator's catch clause, the VM's error propagation) can
// distinguish failure categories without string matching.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return string(f.Kind) + ": " + f.Message }

func newFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
