package value

import (
	"fmt"
	"strconv"
)

// DeepPrinter is implemented by composite payloads (Tuple) that need to
// cooperate with PrintValue's max-nesting-depth contract (spec §4.4: "printed
// elements show name: value or a <Tuple> placeholder beyond the depth").
type DeepPrinter interface {
	PrintValueDepth(depth int) string
}

// MaxPrintDepth bounds recursive printing of nested composite values.
const MaxPrintDepth = 16

// DeepCopier is implemented by composite payloads (Tuple) that own Go
// reference types (slices, maps, pointers) and so must be explicitly copied
// rather than aliased when a Value carrying them is assigned into an
// unshared binding (spec §3: "unshared values are copies").
type DeepCopier interface {
	DeepCopy() interface{}
}

// PrintValue renders v the way `debug`, string interpolation and the core
// library's print functions do (spec §4.3's "print-value").
func (v Value) PrintValue() string { return v.printDepth(MaxPrintDepth) }

func (v Value) printDepth(depth int) string {
	switch v.Kind() {
	case NotAValue:
		return "NaV"
	case KindBool:
		if v.Data().(bool) {
			return "true"
		}
		return "false"
	case KindU8:
		return strconv.FormatUint(uint64(v.Data().(byte)), 10)
	case KindI64:
		return strconv.FormatInt(v.Data().(int64), 10)
	case KindU64:
		return strconv.FormatUint(v.Data().(uint64), 10)
	case KindF64:
		return strconv.FormatFloat(v.Data().(float64), 'g', -1, 64)
	case KindString:
		return v.Data().(string)
	case KindBuffer:
		if dp, ok := v.Data().(DeepPrinter); ok {
			return dp.PrintValueDepth(depth)
		}
		return fmt.Sprintf("buffer(%d)", bufferLen(v.Data()))
	case KindTypeInfo:
		if ti, ok := v.Data().(interface{ Name() string }); ok {
			return ti.Name()
		}
		return "TypeInfo"
	case KindTuple:
		if depth <= 0 {
			return "<Tuple>"
		}
		if dp, ok := v.Data().(DeepPrinter); ok {
			return dp.PrintValueDepth(depth - 1)
		}
		return "<Tuple>"
	case KindFunction, KindIntegerSequence, KindError, KindPassthrough:
		if s, ok := v.Data().(fmt.Stringer); ok {
			return s.String()
		}
		return v.Kind().String()
	default:
		return v.Kind().String()
	}
}

func bufferLen(data interface{}) int {
	if b, ok := data.([]byte); ok {
		return len(b)
	}
	if l, ok := data.(interface{ Len() int }); ok {
		return l.Len()
	}
	return 0
}

func (v Value) String() string { return v.PrintValue() }
