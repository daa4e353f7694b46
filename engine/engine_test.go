package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teascript-go/teascript/engine"
	"github.com/teascript-go/teascript/internal/value"
)

func TestExecuteCode(t *testing.T) {
	e, err := engine.NewFull()
	require.NoError(t, err)

	v, err := e.ExecuteCode("1 + 2", "")
	require.NoError(t, err)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestAddVarAndGetVar(t *testing.T) {
	e, err := engine.NewFull()
	require.NoError(t, err)

	require.NoError(t, e.AddVar("x", value.I64(41)))
	v, err := e.ExecuteCode("x := x + 1\nx", "")
	require.NoError(t, err)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	got, err := e.GetVar("x")
	require.NoError(t, err)
	n, err = got.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestAddConstIsImmutable(t *testing.T) {
	e, err := engine.NewFull()
	require.NoError(t, err)

	require.NoError(t, e.AddConst("k", value.I64(7)))
	_, err = e.ExecuteCode("k := 8", "")
	assert.Error(t, err)
}

func TestRegisterUserCallback(t *testing.T) {
	e, err := engine.NewFull()
	require.NoError(t, err)

	require.NoError(t, e.RegisterUserCallback("double", func(args []value.Value) (value.Value, error) {
		n, err := args[0].GetAsInteger()
		if err != nil {
			return value.Value{}, err
		}
		return value.I64(n * 2), nil
	}))

	v, err := e.ExecuteCode("double( 21 )", "")
	require.NoError(t, err)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestCallFunc(t *testing.T) {
	e, err := engine.NewFull()
	require.NoError(t, err)

	_, err = e.ExecuteCode(`func add(a, b) { return a + b }`, "")
	require.NoError(t, err)

	v, err := e.CallFunc("add", []value.Value{value.I64(3), value.I64(4)})
	require.NoError(t, err)
	n, err := v.GetAsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}
