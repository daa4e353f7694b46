package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/internal/buffer"
)

func TestNewZeroesCapacity(t *testing.T) {
	b := buffer.New(4)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 4, b.Cap())
}

func TestFromBytesSetsLenAndCap(t *testing.T) {
	b := buffer.FromBytes([]byte{1, 2, 3})
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.Cap())
}

func TestResizeRejectsBeyondCapacity(t *testing.T) {
	b := buffer.New(2)
	assert.False(t, b.Resize(3))
	assert.True(t, b.Resize(2))
	assert.Equal(t, 2, b.Len())
}

func TestResizeZeroesGrownBytes(t *testing.T) {
	b := buffer.New(4)
	require.True(t, b.SetU8(0, 0xff))
	require.True(t, b.Resize(1))
	require.True(t, b.Resize(4))
	v, ok := b.GetU8(1)
	require.True(t, ok)
	assert.EqualValues(t, 0, v, "bytes exposed by growing must be zeroed")
}

func TestTypedAccessorsRoundTrip(t *testing.T) {
	b := buffer.New(8)
	require.True(t, b.SetU8(0, 0x7f))
	got8, ok := b.GetU8(0)
	require.True(t, ok)
	assert.EqualValues(t, 0x7f, got8)

	require.True(t, b.SetI16(0, -1234))
	got16, ok := b.GetI16(0)
	require.True(t, ok)
	assert.EqualValues(t, -1234, got16)

	require.True(t, b.SetU32(0, 0xdeadbeef))
	got32, ok := b.GetU32(0)
	require.True(t, ok)
	assert.EqualValues(t, 0xdeadbeef, got32)

	require.True(t, b.SetI64(0, -9001))
	got64, ok := b.GetI64(0)
	require.True(t, ok)
	assert.EqualValues(t, -9001, got64)
}

func TestTypedAccessorsRejectOutOfRange(t *testing.T) {
	b := buffer.New(2)
	_, ok := b.GetU32(0)
	assert.False(t, ok, "u32 needs 4 bytes but capacity is 2")
	assert.False(t, b.SetU32(0, 1))
}

func TestStringRoundTrip(t *testing.T) {
	b := buffer.New(16)
	require.True(t, b.SetString(0, "héllo"))
	s, ok := b.GetString(0, len("héllo"))
	require.True(t, ok)
	assert.Equal(t, "héllo", s)
}

func TestCloneIsIndependent(t *testing.T) {
	b := buffer.New(4)
	require.True(t, b.SetU8(0, 1))
	clone := b.Clone()
	require.True(t, clone.SetU8(0, 2))

	orig, ok := b.GetU8(0)
	require.True(t, ok)
	assert.EqualValues(t, 1, orig, "mutating the clone must not mutate the original")
}

func TestDeepCopyReturnsIndependentBuffer(t *testing.T) {
	b := buffer.New(4)
	require.True(t, b.SetU8(0, 1))
	copied := b.DeepCopy().(*buffer.Buffer)
	require.True(t, copied.SetU8(0, 9))

	orig, ok := b.GetU8(0)
	require.True(t, ok)
	assert.EqualValues(t, 1, orig)
}
