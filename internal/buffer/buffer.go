// Package buffer implements TeaScript's Buffer (spec §3, component C3): a
// length-plus-capacity byte vector with typed read/writes at a byte offset.
// Writes beyond capacity fail -- the buffer never auto-grows at user level --
// and the length field tracks how much of the capacity currently holds live
// data, the same length/capacity split a Go slice makes between len and cap.
//
// Grounded on the teacher's lang/machine value kinds not having a byte-buffer
// counterpart at all (nenuphar has no Buffer), so the typed-offset accessor
// shape here follows encoding/binary's own Put*/Uint* naming instead, the
// idiomatic Go way to do fixed-width binary field access. Multi-byte values
// are little-endian; the source this was distilled from leaves the issue
// unaddressed, so the choice is a judgment call recorded in DESIGN.md.
package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/teascript-go/teascript/internal/value"
)

// Buffer is a fixed-capacity byte vector. data is always len(data) == cap;
// length tracks how many of those bytes are "live" (spec §3's
// length-plus-capacity split).
type Buffer struct {
	data   []byte
	length int
}

var _ value.DeepPrinter = (*Buffer)(nil)
var _ value.DeepCopier = (*Buffer)(nil)

// New returns an empty Buffer with the given fixed capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// FromBytes wraps b directly: capacity and length both equal len(b). Used by
// readfile, where the file's full contents are both the buffer's current
// length and its capacity.
func FromBytes(b []byte) *Buffer {
	return &Buffer{data: b, length: len(b)}
}

// Len returns the number of live bytes.
func (b *Buffer) Len() int { return b.length }

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Resize sets the live length to n, which must not exceed the capacity
// (spec §3: "the buffer never auto-grows at user level"). Bytes beyond the
// previous length are zeroed when growing.
func (b *Buffer) Resize(n int) bool {
	if n < 0 || n > len(b.data) {
		return false
	}
	if n > b.length {
		for i := b.length; i < n; i++ {
			b.data[i] = 0
		}
	}
	b.length = n
	return true
}

// Bytes returns the live prefix of the backing array. Callers must not
// retain the slice past a subsequent mutation of b.
func (b *Buffer) Bytes() []byte { return b.data[:b.length] }

func (b *Buffer) fits(off, size int) bool {
	return off >= 0 && size >= 0 && off+size <= len(b.data)
}

// GetU8/SetU8 through GetI64/SetI64 are the fixed-width typed accessors spec
// §3 requires for U8/I8/U16/I16/U32/I32/U64/I64. Each returns/reports false
// if the access would fall outside the buffer's capacity.

func (b *Buffer) GetU8(off int) (uint8, bool) {
	if !b.fits(off, 1) {
		return 0, false
	}
	return b.data[off], true
}

func (b *Buffer) SetU8(off int, v uint8) bool {
	if !b.fits(off, 1) {
		return false
	}
	b.data[off] = v
	return true
}

func (b *Buffer) GetI8(off int) (int8, bool) {
	u, ok := b.GetU8(off)
	return int8(u), ok
}

func (b *Buffer) SetI8(off int, v int8) bool { return b.SetU8(off, uint8(v)) }

func (b *Buffer) GetU16(off int) (uint16, bool) {
	if !b.fits(off, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b.data[off:]), true
}

func (b *Buffer) SetU16(off int, v uint16) bool {
	if !b.fits(off, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(b.data[off:], v)
	return true
}

func (b *Buffer) GetI16(off int) (int16, bool) {
	u, ok := b.GetU16(off)
	return int16(u), ok
}

func (b *Buffer) SetI16(off int, v int16) bool { return b.SetU16(off, uint16(v)) }

func (b *Buffer) GetU32(off int) (uint32, bool) {
	if !b.fits(off, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b.data[off:]), true
}

func (b *Buffer) SetU32(off int, v uint32) bool {
	if !b.fits(off, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(b.data[off:], v)
	return true
}

func (b *Buffer) GetI32(off int) (int32, bool) {
	u, ok := b.GetU32(off)
	return int32(u), ok
}

func (b *Buffer) SetI32(off int, v int32) bool { return b.SetU32(off, uint32(v)) }

func (b *Buffer) GetU64(off int) (uint64, bool) {
	if !b.fits(off, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b.data[off:]), true
}

func (b *Buffer) SetU64(off int, v uint64) bool {
	if !b.fits(off, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(b.data[off:], v)
	return true
}

func (b *Buffer) GetI64(off int) (int64, bool) {
	u, ok := b.GetU64(off)
	return int64(u), ok
}

func (b *Buffer) SetI64(off int, v int64) bool { return b.SetU64(off, uint64(v)) }

// GetString decodes n bytes starting at off as UTF-8.
func (b *Buffer) GetString(off, n int) (string, bool) {
	if !b.fits(off, n) {
		return "", false
	}
	return string(b.data[off : off+n]), true
}

// SetString writes s's UTF-8 bytes starting at off.
func (b *Buffer) SetString(off int, s string) bool {
	if !b.fits(off, len(s)) {
		return false
	}
	copy(b.data[off:], s)
	return true
}

// Clone returns an independent copy with its own backing array, same
// capacity and length.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{data: make([]byte, len(b.data)), length: b.length}
	copy(out.data, b.data)
	return out
}

// DeepCopy implements value.DeepCopier.
func (b *Buffer) DeepCopy() interface{} { return b.Clone() }

// PrintValueDepth implements value.DeepPrinter.
func (b *Buffer) PrintValueDepth(int) string {
	return fmt.Sprintf("<Buffer len=%d cap=%d>", b.length, len(b.data))
}

func (b *Buffer) String() string { return b.PrintValueDepth(0) }
