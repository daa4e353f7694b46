package corelib

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/teascript-go/teascript/internal/buffer"
	"github.com/teascript-go/teascript/internal/config"
	"github.com/teascript-go/teascript/internal/tuple"
	"github.com/teascript-go/teascript/internal/value"
)

// versionMajor/Minor/Patch identify this implementation of the language,
// registered as the `_version_*` globals (spec §4.11).
const (
	versionMajor = 0
	versionMinor = 1
	versionPatch = 0
	apiVersion   = 1
)

func globals() []global {
	gs := []global{
		{name: "void", level: config.LevelMinimal, value: value.NaV()},
		{name: "PI", level: config.LevelMinimal, value: value.F64(math.Pi)},
		{name: "_exit_success", level: config.LevelMinimal, value: value.I64(0)},
		{name: "_exit_failure", level: config.LevelMinimal, value: value.I64(1)},
		{name: "_version_major", level: config.LevelMinimal, value: value.I64(versionMajor)},
		{name: "_version_minor", level: config.LevelMinimal, value: value.I64(versionMinor)},
		{name: "_version_patch", level: config.LevelMinimal, value: value.I64(versionPatch)},
		{name: "_api_version", level: config.LevelMinimal, value: value.I64(apiVersion)},
	}
	gs = append(gs, typeDescriptors()...)
	gs = append(gs, arithmeticBuiltins()...)
	gs = append(gs, stringBuiltins()...)
	gs = append(gs, tupleBuiltins()...)
	gs = append(gs, bufferBuiltins()...)
	gs = append(gs, sequenceBuiltins()...)
	gs = append(gs, errorBuiltins()...)
	gs = append(gs, ioBuiltins()...)
	gs = append(gs, timeAndRandomBuiltins()...)
	gs = append(gs, filesystemBuiltins()...)
	return gs
}

// typeDescriptors exposes every registered typesystem.TypeInfo under its own
// name (spec §4.2/§4.11: `Bool`, `i64`, `String`, ... as first-class
// TypeInfo values usable with `is`/`as`/`typeof`).
func typeDescriptors() []global {
	kinds := []value.Kind{
		value.NotAValue, value.KindBool, value.KindU8, value.KindI64, value.KindU64,
		value.KindF64, value.KindString, value.KindBuffer, value.KindTypeInfo,
		value.KindTuple, value.KindFunction, value.KindIntegerSequence,
		value.KindError, value.KindPassthrough,
	}
	var gs []global
	for _, k := range kinds {
		ti := value.TypeInfoFor(k)
		gs = append(gs, global{name: ti.Name(), level: config.LevelMinimal, value: value.TypeInfoValue(ti)})
	}
	return gs
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.NaV()
}

func wantArgs(name string, args []value.Value, n int) error {
	if len(args) < n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func arithmeticBuiltins() []global {
	return []global{
		{name: "_sqrt", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_sqrt", args, 1); err != nil {
				return value.Value{}, err
			}
			f, err := arg(args, 0).GetAsFloat()
			if err != nil {
				return value.Value{}, err
			}
			return value.F64(math.Sqrt(f)), nil
		}},
		{name: "_trunc", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_trunc", args, 1); err != nil {
				return value.Value{}, err
			}
			f, err := arg(args, 0).GetAsFloat()
			if err != nil {
				return value.Value{}, err
			}
			return value.F64(math.Trunc(f)), nil
		}},
		{name: "_f64toi64", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_f64toi64", args, 1); err != nil {
				return value.Value{}, err
			}
			i, err := arg(args, 0).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(i), nil
		}},
		{name: "_numtostr", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_numtostr", args, 1); err != nil {
				return value.Value{}, err
			}
			return value.String(arg(args, 0).PrintValue()), nil
		}},
		{name: "_strtonum", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_strtonum", args, 1); err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return value.ParseNumber(s)
		}},
	}
}

func stringBuiltins() []global {
	return []global{
		// _strlen reports the byte length, not the glyph count: spec §3
		// "indexing is by byte", distinct from _strglyphlen below.
		{name: "_strlen", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_strlen", args, 1); err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(int64(len(s))), nil
		}},
		{name: "_strglyphlen", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_strglyphlen", args, 1); err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(int64(utf8.RuneCountInString(s))), nil
		}},
		// _strat takes a byte offset, possibly into the middle of a multi-byte
		// code point, and returns the complete enclosing code point (spec §3
		// "strat returns a full code point"; §8 testable property).
		{name: "_strat", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_strat", args, 2); err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			i, err := arg(args, 1).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			if i < 0 || int(i) >= len(s) {
				return value.Value{}, fmt.Errorf("_strat: byte offset %d out of range", i)
			}
			start := int(i)
			for start > 0 && !utf8.RuneStart(s[start]) {
				start--
			}
			r, size := utf8.DecodeRuneInString(s[start:])
			if r == utf8.RuneError && size <= 1 {
				return value.Value{}, fmt.Errorf("_strat: invalid UTF-8 at byte offset %d", i)
			}
			return value.String(s[start : start+size]), nil
		}},
		{name: "_substr", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_substr", args, 3); err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			start, err := arg(args, 1).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			length, err := arg(args, 2).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			runes := []rune(s)
			if start < 0 || int(start) > len(runes) {
				return value.Value{}, fmt.Errorf("_substr: start %d out of range", start)
			}
			end := int(start) + int(length)
			if end > len(runes) {
				end = len(runes)
			}
			return value.String(string(runes[start:end])), nil
		}},
		{name: "_strfind", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_strfind", args, 2); err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			sub, err := arg(args, 1).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(int64(strings.Index(s, sub))), nil
		}},
		{name: "_strfindreverse", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_strfindreverse", args, 2); err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			sub, err := arg(args, 1).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(int64(strings.LastIndex(s, sub))), nil
		}},
		// format concatenates the PrintValue of every argument after the
		// first, replacing each "%" placeholder in the format string in turn
		// (a simplified stand-in for the original's full format-spec mini
		// language, which this implementation does not reproduce).
		{name: "format", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("format", args, 1); err != nil {
				return value.Value{}, err
			}
			f, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			var b strings.Builder
			ai := 1
			for i := 0; i < len(f); i++ {
				if f[i] == '%' && ai < len(args) {
					b.WriteString(args[ai].PrintValue())
					ai++
					continue
				}
				b.WriteByte(f[i])
			}
			return value.String(b.String()), nil
		}},
	}
}

func tupleBuiltins() []global {
	asTuple := func(name string, v value.Value) (*tuple.Tuple, error) {
		if v.Kind() != value.KindTuple {
			return nil, fmt.Errorf("%s: expected a Tuple argument", name)
		}
		t, ok := v.Data().(*tuple.Tuple)
		if !ok {
			return nil, fmt.Errorf("%s: malformed Tuple value", name)
		}
		return t, nil
	}
	return []global{
		{name: "_tuple_create", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			return value.New(value.KindTuple, tuple.New(), value.Config{}), nil
		}},
		{name: "_tuple_size", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_tuple_size", args, 1); err != nil {
				return value.Value{}, err
			}
			t, err := asTuple("_tuple_size", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(int64(t.Len())), nil
		}},
		{name: "_tuple_append", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_tuple_append", args, 2); err != nil {
				return value.Value{}, err
			}
			t, err := asTuple("_tuple_append", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			if err := t.AppendPositional(arg(args, 1)); err != nil {
				return value.Value{}, err
			}
			return args[0], nil
		}},
		{name: "_tuple_val", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_tuple_val", args, 2); err != nil {
				return value.Value{}, err
			}
			t, err := asTuple("_tuple_val", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			i, err := arg(args, 1).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			v, ok := t.Index(int(i))
			if !ok {
				return value.Value{}, fmt.Errorf("_tuple_val: index %d out of range", i)
			}
			return v, nil
		}},
		{name: "_tuple_set", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_tuple_set", args, 3); err != nil {
				return value.Value{}, err
			}
			t, err := asTuple("_tuple_set", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			i, err := arg(args, 1).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			if !t.SetIndex(int(i), arg(args, 2)) {
				return value.Value{}, fmt.Errorf("_tuple_set: index %d out of range", i)
			}
			return args[0], nil
		}},
		{name: "_tuple_remove", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_tuple_remove", args, 2); err != nil {
				return value.Value{}, err
			}
			t, err := asTuple("_tuple_remove", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			i, err := arg(args, 1).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			if !t.RemoveAt(int(i)) {
				return value.Value{}, fmt.Errorf("_tuple_remove: index %d out of range", i)
			}
			return args[0], nil
		}},
		{name: "_tuple_swap", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_tuple_swap", args, 3); err != nil {
				return value.Value{}, err
			}
			t, err := asTuple("_tuple_swap", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			i, err := arg(args, 1).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			j, err := arg(args, 2).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			if !t.Swap(int(i), int(j)) {
				return value.Value{}, fmt.Errorf("_tuple_swap: index out of range")
			}
			return args[0], nil
		}},
		{name: "_tuple_same_types", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_tuple_same_types", args, 2); err != nil {
				return value.Value{}, err
			}
			a, err := asTuple("_tuple_same_types", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			b, err := asTuple("_tuple_same_types", arg(args, 1))
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(a.SameTypeShape(b)), nil
		}},
	}
}

// bufferBuiltins exposes internal/buffer's fixed-capacity byte vector (spec
// §3/§4.11's "buffer byte-level accessors"): a constructor, capacity/length
// introspection, and typed offset accessors for the representative subset
// U8/I8/U16/I16/U32/I32/U64/I64 plus UTF-8 strings.
func bufferBuiltins() []global {
	asBuffer := func(name string, v value.Value) (*buffer.Buffer, error) {
		if v.Kind() != value.KindBuffer {
			return nil, fmt.Errorf("%s: expected a Buffer argument", name)
		}
		b, ok := v.Data().(*buffer.Buffer)
		if !ok {
			return nil, fmt.Errorf("%s: malformed Buffer value", name)
		}
		return b, nil
	}
	offsetArg := func(name string, args []value.Value, i int) (int, error) {
		n, err := arg(args, i).GetAsInteger()
		if err != nil {
			return 0, err
		}
		return int(n), nil
	}

	gs := []global{
		{name: "_buffer_create", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_buffer_create", args, 1); err != nil {
				return value.Value{}, err
			}
			capacity, err := offsetArg("_buffer_create", args, 0)
			if err != nil {
				return value.Value{}, err
			}
			return value.New(value.KindBuffer, buffer.New(capacity), value.Config{}), nil
		}},
		{name: "_buffer_len", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_buffer_len", args, 1); err != nil {
				return value.Value{}, err
			}
			b, err := asBuffer("_buffer_len", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(int64(b.Len())), nil
		}},
		{name: "_buffer_cap", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_buffer_cap", args, 1); err != nil {
				return value.Value{}, err
			}
			b, err := asBuffer("_buffer_cap", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			return value.I64(int64(b.Cap())), nil
		}},
		{name: "_buffer_resize", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_buffer_resize", args, 2); err != nil {
				return value.Value{}, err
			}
			b, err := asBuffer("_buffer_resize", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			n, err := offsetArg("_buffer_resize", args, 1)
			if err != nil {
				return value.Value{}, err
			}
			if !b.Resize(n) {
				return value.Value{}, fmt.Errorf("_buffer_resize: length %d exceeds capacity %d", n, b.Cap())
			}
			return args[0], nil
		}},
		{name: "_buffer_get_string", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_buffer_get_string", args, 3); err != nil {
				return value.Value{}, err
			}
			b, err := asBuffer("_buffer_get_string", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			off, err := offsetArg("_buffer_get_string", args, 1)
			if err != nil {
				return value.Value{}, err
			}
			n, err := offsetArg("_buffer_get_string", args, 2)
			if err != nil {
				return value.Value{}, err
			}
			s, ok := b.GetString(off, n)
			if !ok {
				return value.Value{}, fmt.Errorf("_buffer_get_string: [%d, %d) out of range", off, off+n)
			}
			return value.String(s), nil
		}},
		{name: "_buffer_set_string", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_buffer_set_string", args, 3); err != nil {
				return value.Value{}, err
			}
			b, err := asBuffer("_buffer_set_string", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			off, err := offsetArg("_buffer_set_string", args, 1)
			if err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 2).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			if !b.SetString(off, s) {
				return value.Value{}, fmt.Errorf("_buffer_set_string: write at %d (%d bytes) exceeds capacity %d", off, len(s), b.Cap())
			}
			return args[0], nil
		}},
	}

	type typedAccessor struct {
		suffix string
		get    func(b *buffer.Buffer, off int) (value.Value, bool)
		set    func(b *buffer.Buffer, off int, v value.Value) (value.Value, error)
	}
	accessors := []typedAccessor{
		{"u8", bufGetU8, bufSetU8}, {"i8", bufGetI8, bufSetI8},
		{"u16", bufGetU16, bufSetU16}, {"i16", bufGetI16, bufSetI16},
		{"u32", bufGetU32, bufSetU32}, {"i32", bufGetI32, bufSetI32},
		{"u64", bufGetU64, bufSetU64}, {"i64", bufGetI64, bufSetI64},
	}
	for _, a := range accessors {
		a := a
		getName := "_buffer_get_" + a.suffix
		setName := "_buffer_set_" + a.suffix
		gs = append(gs,
			global{name: getName, level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
				if err := wantArgs(getName, args, 2); err != nil {
					return value.Value{}, err
				}
				b, err := asBuffer(getName, arg(args, 0))
				if err != nil {
					return value.Value{}, err
				}
				off, err := offsetArg(getName, args, 1)
				if err != nil {
					return value.Value{}, err
				}
				v, ok := a.get(b, off)
				if !ok {
					return value.Value{}, fmt.Errorf("%s: offset %d out of range", getName, off)
				}
				return v, nil
			}},
			global{name: setName, level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
				if err := wantArgs(setName, args, 3); err != nil {
					return value.Value{}, err
				}
				b, err := asBuffer(setName, arg(args, 0))
				if err != nil {
					return value.Value{}, err
				}
				off, err := offsetArg(setName, args, 1)
				if err != nil {
					return value.Value{}, err
				}
				res, err := a.set(b, off, arg(args, 2))
				if err != nil {
					return value.Value{}, err
				}
				return res, nil
			}},
		)
	}
	return gs
}

func bufGetU8(b *buffer.Buffer, off int) (value.Value, bool) {
	u, ok := b.GetU8(off)
	return value.I64(int64(u)), ok
}
func bufSetU8(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetU8(off, uint8(n)) {
		return value.Value{}, fmt.Errorf("_buffer_set_u8: offset %d out of range", off)
	}
	return value.NaV(), nil
}

func bufGetI8(b *buffer.Buffer, off int) (value.Value, bool) {
	i, ok := b.GetI8(off)
	return value.I64(int64(i)), ok
}
func bufSetI8(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetI8(off, int8(n)) {
		return value.Value{}, fmt.Errorf("_buffer_set_i8: offset %d out of range", off)
	}
	return value.NaV(), nil
}

func bufGetU16(b *buffer.Buffer, off int) (value.Value, bool) {
	u, ok := b.GetU16(off)
	return value.I64(int64(u)), ok
}
func bufSetU16(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetU16(off, uint16(n)) {
		return value.Value{}, fmt.Errorf("_buffer_set_u16: offset %d out of range", off)
	}
	return value.NaV(), nil
}

func bufGetI16(b *buffer.Buffer, off int) (value.Value, bool) {
	i, ok := b.GetI16(off)
	return value.I64(int64(i)), ok
}
func bufSetI16(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetI16(off, int16(n)) {
		return value.Value{}, fmt.Errorf("_buffer_set_i16: offset %d out of range", off)
	}
	return value.NaV(), nil
}

func bufGetU32(b *buffer.Buffer, off int) (value.Value, bool) {
	u, ok := b.GetU32(off)
	return value.I64(int64(u)), ok
}
func bufSetU32(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetU32(off, uint32(n)) {
		return value.Value{}, fmt.Errorf("_buffer_set_u32: offset %d out of range", off)
	}
	return value.NaV(), nil
}

func bufGetI32(b *buffer.Buffer, off int) (value.Value, bool) {
	i, ok := b.GetI32(off)
	return value.I64(int64(i)), ok
}
func bufSetI32(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetI32(off, int32(n)) {
		return value.Value{}, fmt.Errorf("_buffer_set_i32: offset %d out of range", off)
	}
	return value.NaV(), nil
}

func bufGetU64(b *buffer.Buffer, off int) (value.Value, bool) {
	u, ok := b.GetU64(off)
	return value.I64(int64(u)), ok
}
func bufSetU64(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetU64(off, uint64(n)) {
		return value.Value{}, fmt.Errorf("_buffer_set_u64: offset %d out of range", off)
	}
	return value.NaV(), nil
}

func bufGetI64(b *buffer.Buffer, off int) (value.Value, bool) {
	i, ok := b.GetI64(off)
	return value.I64(i), ok
}
func bufSetI64(b *buffer.Buffer, off int, v value.Value) (value.Value, error) {
	n, err := v.GetAsInteger()
	if err != nil {
		return value.Value{}, err
	}
	if !b.SetI64(off, n) {
		return value.Value{}, fmt.Errorf("_buffer_set_i64: offset %d out of range", off)
	}
	return value.NaV(), nil
}

// sequenceBuiltins gives scripts a way to construct a KindIntegerSequence
// value: _seq mirrors the original CoreLibrary's MakeSequence(start, end,
// step), the only constructor for an arithmetic progression in either
// runtime. Without it forall could step over a Tuple but never a numeric
// range.
func sequenceBuiltins() []global {
	return []global{
		{name: "_seq", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_seq", args, 3); err != nil {
				return value.Value{}, err
			}
			start, err := arg(args, 0).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			end, err := arg(args, 1).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			step, err := arg(args, 2).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			if step == 0 {
				return value.Value{}, fmt.Errorf("_seq: step must not be zero")
			}
			if (step > 0 && start > end) || (step < 0 && start < end) {
				return value.Value{}, fmt.Errorf("_seq: step sign must agree with the direction from start to end")
			}
			return value.NewIntegerSequenceValue(start, end, step), nil
		}},
	}
}

func errorBuiltins() []global {
	asError := func(name string, v value.Value) (*value.ErrorValue, error) {
		if v.Kind() != value.KindError {
			return nil, fmt.Errorf("%s: expected an Error argument", name)
		}
		e, ok := v.Data().(*value.ErrorValue)
		if !ok {
			return nil, fmt.Errorf("%s: malformed Error value", name)
		}
		return e, nil
	}
	return []global{
		{name: "make_runtime_error", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("make_runtime_error", args, 2); err != nil {
				return value.Value{}, err
			}
			code, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			msg, err := arg(args, 1).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return value.NewErrorValue(code, msg), nil
		}},
		{name: "_error_get_code", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_error_get_code", args, 1); err != nil {
				return value.Value{}, err
			}
			e, err := asError("_error_get_code", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			return value.String(e.Code), nil
		}},
		{name: "_error_get_message", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("_error_get_message", args, 1); err != nil {
				return value.Value{}, err
			}
			e, err := asError("_error_get_message", arg(args, 0))
			if err != nil {
				return value.Value{}, err
			}
			return value.String(e.Message), nil
		}},
	}
}

// ioBuiltins registers stdout/stderr/stdin access, gated individually by
// the NoStdout/NoStderr OptOut flags (spec §4.11).
func ioBuiltins() []global {
	return []global{
		{name: "_out", level: config.LevelMinimal, opt: config.NoStdout, fn: func(args []value.Value) (value.Value, error) {
			for _, a := range args {
				fmt.Fprint(os.Stdout, a.PrintValue())
			}
			return value.NaV(), nil
		}},
		{name: "_err", level: config.LevelMinimal, opt: config.NoStderr, fn: func(args []value.Value) (value.Value, error) {
			for _, a := range args {
				fmt.Fprint(os.Stderr, a.PrintValue())
			}
			return value.NaV(), nil
		}},
		{name: "readline", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return value.Value{}, err
			}
			return value.String(strings.TrimRight(line, "\r\n")), nil
		}},
	}
}

func timeAndRandomBuiltins() []global {
	return []global{
		{name: "clock", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			return value.F64(float64(time.Now().UnixNano()) / 1e9), nil
		}},
		{name: "sleep", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("sleep", args, 1); err != nil {
				return value.Value{}, err
			}
			secs, err := arg(args, 0).GetAsFloat()
			if err != nil {
				return value.Value{}, err
			}
			time.Sleep(time.Duration(secs * float64(time.Second)))
			return value.NaV(), nil
		}},
		{name: "random", level: config.LevelUtil, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("random", args, 1); err != nil {
				return value.Value{}, err
			}
			n, err := arg(args, 0).GetAsInteger()
			if err != nil {
				return value.Value{}, err
			}
			if n <= 0 {
				return value.Value{}, fmt.Errorf("random: argument must be positive")
			}
			return value.I64(rand.Int63n(n)), nil
		}},
	}
}

// filesystemBuiltins reads files as raw bytes (a Buffer value, readfile) or
// as text (readtextfile), writes text files, and deletes paths, individually
// gated by the NoFileRead/NoFileWrite/NoFileDelete OptOut flags.
func filesystemBuiltins() []global {
	return []global{
		{name: "path_exists", level: config.LevelCore, opt: config.NoFileRead, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("path_exists", args, 1); err != nil {
				return value.Value{}, err
			}
			p, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			_, statErr := os.Stat(p)
			return value.Bool(statErr == nil), nil
		}},
		{name: "file_size", level: config.LevelCore, opt: config.NoFileRead, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("file_size", args, 1); err != nil {
				return value.Value{}, err
			}
			p, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			info, statErr := os.Stat(p)
			if statErr != nil {
				return value.Value{}, statErr
			}
			return value.I64(info.Size()), nil
		}},
		{name: "readfile", level: config.LevelCore, opt: config.NoFileRead, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("readfile", args, 1); err != nil {
				return value.Value{}, err
			}
			p, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			data, readErr := os.ReadFile(p)
			if readErr != nil {
				return value.Value{}, readErr
			}
			return value.New(value.KindBuffer, buffer.FromBytes(data), value.Config{}), nil
		}},
		{name: "readtextfile", level: config.LevelCore, opt: config.NoFileRead, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("readtextfile", args, 1); err != nil {
				return value.Value{}, err
			}
			p, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			data, readErr := os.ReadFile(p)
			if readErr != nil {
				return value.Value{}, readErr
			}
			return value.String(string(data)), nil
		}},
		{name: "writetextfile", level: config.LevelCore, opt: config.NoFileWrite, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("writetextfile", args, 2); err != nil {
				return value.Value{}, err
			}
			p, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			s, err := arg(args, 1).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			if writeErr := os.WriteFile(p, []byte(s), 0o644); writeErr != nil {
				return value.Value{}, writeErr
			}
			return value.NaV(), nil
		}},
		{name: "path_delete", level: config.LevelCore, opt: config.NoFileDelete, fn: func(args []value.Value) (value.Value, error) {
			if err := wantArgs("path_delete", args, 1); err != nil {
				return value.Value{}, err
			}
			p, err := arg(args, 0).GetAsString()
			if err != nil {
				return value.Value{}, err
			}
			return value.Bool(os.Remove(p) == nil), nil
		}},
	}
}
