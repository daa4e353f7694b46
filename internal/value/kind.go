// Package value implements the runtime value representation of spec §3/§4.3
// (component C3): a tagged union over every TeaScript runtime type, carrying
// const/shared flags and uniform assignment/conversion/print behavior.
//
// Grounded on the teacher's reference cell (lang/machine/cell.go) for the
// shared-value mechanism, and on the teacher's Value interface split
// (HasBinary/HasUnary/Ordered in lang/machine/value.go) for how arithmetic
// and comparison dispatch by kind without a type switch at every call site.
package value

import "github.com/teascript-go/teascript/internal/typesystem"

// Kind identifies which variant of the tagged union a Value currently holds.
type Kind uint8

const (
	NotAValue Kind = iota
	KindBool
	KindU8
	KindI64
	KindU64
	KindF64
	KindString
	KindBuffer
	KindTypeInfo
	KindTuple
	KindFunction
	KindIntegerSequence
	KindError
	KindPassthrough
)

func (k Kind) String() string {
	switch k {
	case NotAValue:
		return "NaV"
	case KindBool:
		return "Bool"
	case KindU8:
		return "u8"
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindF64:
		return "f64"
	case KindString:
		return "String"
	case KindBuffer:
		return "Buffer"
	case KindTypeInfo:
		return "TypeInfo"
	case KindTuple:
		return "Tuple"
	case KindFunction:
		return "Function"
	case KindIntegerSequence:
		return "IntegerSequence"
	case KindError:
		return "Error"
	case KindPassthrough:
		return "Passthrough"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether k is one of the four numeric storage kinds.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindU8, KindI64, KindU64, KindF64:
		return true
	default:
		return false
	}
}

// Types is the shared type registry used to resolve a Kind to its TypeInfo
// and back. A single package-level registry mirrors the teacher's universe.go
// single predeclared-name table: type identities are process-wide, not
// per-Context, matching spec §4.2's "primitive descriptors are pre-registered"
// contract.
var Types = typesystem.NewRegistry()

// TypeInfoFor returns the TypeInfo descriptor naming the runtime kind k (for
// the non-arithmetic kinds) or the default-width arithmetic type for
// arithmetic kinds (i64/u64/u8/f64); `as i16`-style casts additionally carry
// their own TypeInfo looked up by name for size/signedness queries even
// though the value keeps one of the four numeric storage kinds (spec §3).
func TypeInfoFor(k Kind) typesystem.TypeInfo {
	return Types.MustLookup(k.String())
}

// KindForTypeName maps a registered type name back to the runtime storage
// Kind it collapses onto (spec §3: narrower integer/float widths share the
// i64/u64/u8/f64 storage kinds; `as`/`is` on a narrower width name operate on
// that shared storage, per the TypeInfo-carries-width-only tradeoff recorded
// in convert.go's As).
func KindForTypeName(name string) (Kind, bool) {
	switch name {
	case "NaV":
		return NotAValue, true
	case "Bool":
		return KindBool, true
	case "u8":
		return KindU8, true
	case "i8", "i16", "i32", "i64":
		return KindI64, true
	case "u16", "u32", "u64":
		return KindU64, true
	case "f32", "f64":
		return KindF64, true
	case "String":
		return KindString, true
	case "Buffer":
		return KindBuffer, true
	case "TypeInfo":
		return KindTypeInfo, true
	case "Tuple":
		return KindTuple, true
	case "Function":
		return KindFunction, true
	case "IntegerSequence":
		return KindIntegerSequence, true
	case "Error":
		return KindError, true
	case "Passthrough":
		return KindPassthrough, true
	default:
		return 0, false
	}
}

// TypeInfoValue wraps ti as a first-class KindTypeInfo Value (spec §3: "a
// tagged value with variant kinds... TypeInfo (first-class type
// descriptor)").
func TypeInfoValue(ti typesystem.TypeInfo) Value {
	return Value{kind: KindTypeInfo, data: ti}
}
