package value

import "fmt"

// rank orders the numeric kinds for C-style implicit promotion (spec §3):
// bool < u8 < i64 < u64 < f64.
func rank(k Kind) int {
	switch k {
	case KindBool:
		return 0
	case KindU8:
		return 1
	case KindI64:
		return 2
	case KindU64:
		return 3
	case KindF64:
		return 4
	default:
		return -1
	}
}

func promote(x, y Value) (Kind, error) {
	rx, ry := rank(x.Kind()), rank(y.Kind())
	if rx < 0 || ry < 0 {
		return 0, newFailure(TypeMismatch, "operands must be arithmetic, got %s and %s", x.Kind(), y.Kind())
	}
	if rx >= ry {
		if x.Kind() == KindBool {
			return KindI64, nil
		}
		return x.Kind(), nil
	}
	if y.Kind() == KindBool {
		return KindI64, nil
	}
	return y.Kind(), nil
}

// Add, Sub, Mul, Div, Mod implement the arithmetic operators of spec §3
// (`+ - * / mod`). Integer division and mod by zero fail with div_by_zero;
// float division follows IEEE 754 (including +Inf/NaN).
func Add(x, y Value) (Value, error) { return arith(x, y, "+") }
func Sub(x, y Value) (Value, error) { return arith(x, y, "-") }
func Mul(x, y Value) (Value, error) { return arith(x, y, "*") }
func Div(x, y Value) (Value, error) { return arith(x, y, "/") }
func Mod(x, y Value) (Value, error) { return arith(x, y, "mod") }

func arith(x, y Value, op string) (Value, error) {
	k, err := promote(x, y)
	if err != nil {
		return Value{}, err
	}
	switch k {
	case KindF64:
		xf, _ := x.GetAsFloat()
		yf, _ := y.GetAsFloat()
		switch op {
		case "+":
			return F64(xf + yf), nil
		case "-":
			return F64(xf - yf), nil
		case "*":
			return F64(xf * yf), nil
		case "/":
			return F64(xf / yf), nil
		case "mod":
			return Value{}, newFailure(TypeMismatch, "mod is not defined for floating point operands")
		}
	case KindU64:
		xu, _ := x.GetAsInteger()
		yu, _ := y.GetAsInteger()
		xx, yy := uint64(xu), uint64(yu)
		switch op {
		case "+":
			return U64(xx + yy), nil
		case "-":
			return U64(xx - yy), nil
		case "*":
			return U64(xx * yy), nil
		case "/":
			if yy == 0 {
				return Value{}, newFailure(DivByZero, "division by zero")
			}
			return U64(xx / yy), nil
		case "mod":
			if yy == 0 {
				return Value{}, newFailure(DivByZero, "division by zero")
			}
			return U64(xx % yy), nil
		}
	case KindU8:
		xu, _ := x.GetAsInteger()
		yu, _ := y.GetAsInteger()
		switch op {
		case "+":
			return U8(byte(xu + yu)), nil
		case "-":
			return U8(byte(xu - yu)), nil
		case "*":
			return U8(byte(xu * yu)), nil
		case "/":
			if yu == 0 {
				return Value{}, newFailure(DivByZero, "division by zero")
			}
			return U8(byte(xu / yu)), nil
		case "mod":
			if yu == 0 {
				return Value{}, newFailure(DivByZero, "division by zero")
			}
			return U8(byte(xu % yu)), nil
		}
	default: // KindI64
		xi, _ := x.GetAsInteger()
		yi, _ := y.GetAsInteger()
		switch op {
		case "+":
			return I64(xi + yi), nil
		case "-":
			return I64(xi - yi), nil
		case "*":
			return I64(xi * yi), nil
		case "/":
			if yi == 0 {
				return Value{}, newFailure(DivByZero, "division by zero")
			}
			return I64(xi / yi), nil
		case "mod":
			if yi == 0 {
				return Value{}, newFailure(DivByZero, "division by zero")
			}
			return I64(xi % yi), nil
		}
	}
	return Value{}, newFailure(TypeMismatch, "unsupported operator %q", op)
}

// Concat implements the `%` string-concatenation operator: the non-string
// operand is converted via GetAsString (spec §4.3).
func Concat(x, y Value) (Value, error) {
	xs, err := x.GetAsString()
	if err != nil {
		return Value{}, err
	}
	ys, err := y.GetAsString()
	if err != nil {
		return Value{}, err
	}
	return String(xs + ys), nil
}

// bit ops operate on integer representations (i64/u64/u8); they are distinct
// keyword operators (bit_and, bit_or, ...) rather than symbolic infix per
// spec §4.6's keyword list.
func BitAnd(x, y Value) (Value, error) { return bitOp(x, y, func(a, b int64) int64 { return a & b }) }
func BitOr(x, y Value) (Value, error)  { return bitOp(x, y, func(a, b int64) int64 { return a | b }) }
func BitXor(x, y Value) (Value, error) { return bitOp(x, y, func(a, b int64) int64 { return a ^ b }) }
func BitLsh(x, y Value) (Value, error) { return bitOp(x, y, func(a, b int64) int64 { return a << uint(b) }) }
func BitRsh(x, y Value) (Value, error) { return bitOp(x, y, func(a, b int64) int64 { return a >> uint(b) }) }

func bitOp(x, y Value, f func(a, b int64) int64) (Value, error) {
	xi, err := x.GetAsInteger()
	if err != nil {
		return Value{}, err
	}
	yi, err := y.GetAsInteger()
	if err != nil {
		return Value{}, err
	}
	return I64(f(xi, yi)), nil
}

func BitNot(x Value) (Value, error) {
	xi, err := x.GetAsInteger()
	if err != nil {
		return Value{}, err
	}
	return I64(^xi), nil
}

// Compare implements `== != < <= > >=` (and their keyword aliases eq/ne/lt/
// le/gt/ge, spec §4.6). Strings compare lexicographically by byte; numbers
// compare after C-style promotion; Bool compares false < true.
func Compare(op string, x, y Value) (bool, error) {
	if x.Kind() == KindString && y.Kind() == KindString {
		xs := x.Data().(string)
		ys := y.Data().(string)
		return compareOrdered(op, cmpStrings(xs, ys))
	}
	if x.Kind() == KindBool && y.Kind() == KindBool {
		xb := x.Data().(bool)
		yb := y.Data().(bool)
		return compareOrdered(op, cmpBools(xb, yb))
	}
	k, err := promote(x, y)
	if err != nil {
		return false, err
	}
	if k == KindF64 {
		xf, _ := x.GetAsFloat()
		yf, _ := y.GetAsFloat()
		switch {
		case xf < yf:
			return compareOrdered(op, -1)
		case xf > yf:
			return compareOrdered(op, 1)
		default:
			return compareOrdered(op, 0)
		}
	}
	xi, _ := x.GetAsInteger()
	yi, _ := y.GetAsInteger()
	switch {
	case xi < yi:
		return compareOrdered(op, -1)
	case xi > yi:
		return compareOrdered(op, 1)
	default:
		return compareOrdered(op, 0)
	}
}

func cmpStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a && b:
		return -1
	default:
		return 1
	}
}

func compareOrdered(op string, c int) (bool, error) {
	switch op {
	case "==", "eq":
		return c == 0, nil
	case "!=", "ne":
		return c != 0, nil
	case "<", "lt":
		return c < 0, nil
	case "<=", "le":
		return c <= 0, nil
	case ">", "gt":
		return c > 0, nil
	case ">=", "ge":
		return c >= 0, nil
	default:
		return false, fmt.Errorf("unknown comparison operator %q", op)
	}
}
