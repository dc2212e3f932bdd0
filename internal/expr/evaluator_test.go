package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCELEvaluator_Arithmetic(t *testing.T) {
	e := NewCELEvaluator()

	out, err := e.Evaluate("10 + qty", map[string]any{"qty": 5})
	require.NoError(t, err)

	n, err := AsNumber(out)
	require.NoError(t, err)
	assert.Equal(t, 15.0, n)
}

func TestCELEvaluator_Comparison(t *testing.T) {
	e := NewCELEvaluator()

	out, err := e.Evaluate("qty > 100", map[string]any{"qty": 5})
	require.NoError(t, err)

	b, err := AsBool(out)
	require.NoError(t, err)
	assert.False(t, b)

	out, err = e.Evaluate("qty > 100 && rush", map[string]any{"qty": 500, "rush": true})
	require.NoError(t, err)
	b, err = AsBool(out)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestCELEvaluator_UnknownVariable(t *testing.T) {
	e := NewCELEvaluator()

	_, err := e.Evaluate("10 + missing", map[string]any{"qty": 5})
	assert.Error(t, err)
}

func TestCELEvaluator_SyntaxError(t *testing.T) {
	e := NewCELEvaluator()

	_, err := e.Evaluate("10 +", map[string]any{})
	assert.Error(t, err)
}

func TestCELEvaluator_FloatParams(t *testing.T) {
	e := NewCELEvaluator()

	out, err := e.Evaluate("base * 1.2", map[string]any{"base": 100.0})
	require.NoError(t, err)

	n, err := AsNumber(out)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, n, 1e-9)
}

func TestAsBool(t *testing.T) {
	b, err := AsBool(int64(1))
	require.NoError(t, err)
	assert.True(t, b)

	b, err = AsBool(float64(0))
	require.NoError(t, err)
	assert.False(t, b)

	_, err = AsBool("yes")
	assert.Error(t, err)
}

func TestAsNumber(t *testing.T) {
	n, err := AsNumber(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7.0, n)

	_, err = AsNumber(true)
	assert.Error(t, err)
}
