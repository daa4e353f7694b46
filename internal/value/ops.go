package value

import "fmt"

// Negate implements unary `-` (spec §4.6): float operands stay float,
// everything else goes through GetAsInteger so bool/u8/u64 all negate as a
// signed i64 the way the rest of the arithmetic promotion ladder does.
func Negate(x Value) (Value, error) {
	if x.Kind() == KindF64 {
		f, _ := x.GetAsFloat()
		return F64(-f), nil
	}
	i, err := x.GetAsInteger()
	if err != nil {
		return Value{}, err
	}
	return I64(-i), nil
}

// TypeNameOf returns a TypeInfo value's registered name (spec §4.6
// `typename`/`is`/`as` right-hand operand), shared by both execution
// engines so `is`/`as`/`typename` behave identically under either.
func TypeNameOf(v Value) (string, error) {
	if v.Kind() != KindTypeInfo {
		return "", fmt.Errorf("expected a type name, got %s", v.Kind())
	}
	ti, ok := v.Data().(interface{ Name() string })
	if !ok {
		return "", fmt.Errorf("malformed type descriptor")
	}
	return ti.Name(), nil
}
