package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteTable_BidirectionalLookup(t *testing.T) {
	rt := NewRouteTable(10)
	rt.SetRoute("a", "b", 5)

	assert.Equal(t, 5.0, rt.Duration("a", "b"))
	assert.Equal(t, 5.0, rt.Duration("b", "a"))
	assert.True(t, rt.HasRoute("b", "a"))
}

func TestRouteTable_SameTrackIsFree(t *testing.T) {
	rt := NewRouteTable(10)
	assert.Equal(t, 0.0, rt.Duration("a", "a"))
}

func TestRouteTable_MissingRouteFallsBack(t *testing.T) {
	rt := NewRouteTable(10)
	assert.Equal(t, 10.0, rt.Duration("a", "z"))
	assert.False(t, rt.HasRoute("a", "z"))
}

func TestRouteTable_Validate(t *testing.T) {
	rt := NewRouteTable(10)
	rt.SetRoute("a", "b", 5)

	assert.NoError(t, rt.Validate([][2]string{{"a", "b"}, {"b", "a"}}))

	err := rt.Validate([][2]string{{"a", "c"}})
	assert.ErrorIs(t, err, ErrUnknownRoute)
	assert.Contains(t, err.Error(), "a->c")
}
