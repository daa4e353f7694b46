package tuple_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/internal/tuple"
	"github.com/teascript-go/teascript/internal/value"
)

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	t1 := tuple.NewPositional([]value.Value{value.I64(1), value.I64(2), value.I64(3)})
	clone := t1.Clone()

	clone.SetIndex(0, value.I64(99))

	orig, ok := t1.Index(0)
	require.True(t, ok)
	n, err := orig.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "mutating the clone must not mutate the original")

	got, ok := clone.Index(0)
	require.True(t, ok)
	n, err = got.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 99, n)
}

func TestCloneRecursesIntoNestedTuples(t *testing.T) {
	inner := tuple.NewPositional([]value.Value{value.I64(1)})
	outer := tuple.New()
	require.NoError(t, outer.AppendPositional(value.New(value.KindTuple, inner, value.Config{})))

	clone := outer.Clone()
	nestedVal, ok := clone.Index(0)
	require.True(t, ok)
	nested, ok := nestedVal.Data().(*tuple.Tuple)
	require.True(t, ok)
	nested.SetIndex(0, value.I64(42))

	origNestedVal, ok := outer.Index(0)
	require.True(t, ok)
	origNested, ok := origNestedVal.Data().(*tuple.Tuple)
	require.True(t, ok)
	n, ok := origNested.Index(0)
	require.True(t, ok)
	i, err := n.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, i, "cloning must deep-copy nested tuples too")
}

func TestCloneCopiesKeyedElements(t *testing.T) {
	t1 := tuple.New()
	require.NoError(t, t1.AppendKeyed("x", value.I64(1)))
	clone := t1.Clone()

	v, ok := clone.Get("x")
	require.True(t, ok)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
