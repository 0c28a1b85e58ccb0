package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionIntersectWithout(t *testing.T) {
	a := New(1, 2, 3)
	b := New(3, 4, 5)

	u := a.Union(b)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, u.Indices())
	assert.Equal(t, 5, u.Len())

	i := a.Intersect(b)
	assert.Equal(t, []int{3}, i.Indices())

	w := a.Without(b)
	assert.Equal(t, []int{1, 2}, w.Indices())
}

func TestEmpty(t *testing.T) {
	var s Set
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Indices())
}

func TestAddHasEqual(t *testing.T) {
	a := New(1, 2)
	b := a.Add(3)
	require.False(t, a.Equal(b))
	assert.True(t, b.Has(3))
	assert.False(t, a.Has(3))
	assert.True(t, a.Equal(New(2, 1)))
}
