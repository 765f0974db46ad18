package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpvalueCloseCapturesCurrentValue(t *testing.T) {
	h := NewHeap()
	slot := Value(Number(1))

	uv := NewOpenUpvalue(h, &slot, 0)
	require.True(t, uv.IsOpen())
	assert.Equal(t, Number(1), *uv.Location)

	// writes to the slot are visible while open
	slot = Number(2)
	assert.Equal(t, Number(2), *uv.Location)

	uv.Close()
	require.False(t, uv.IsOpen())

	// after closing, the upvalue owns a copy; the slot is detached
	slot = Number(3)
	assert.Equal(t, Number(2), *uv.Location)
}

func TestNewUpvalueStartsClosed(t *testing.T) {
	h := NewHeap()
	uv := NewUpvalue(h, Number(7))
	assert.False(t, uv.IsOpen())
	assert.Equal(t, Number(7), *uv.Location)
}
