package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorStartsEmpty(t *testing.T) {
	s := NewSelector()
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestSelectAndActive(t *testing.T) {
	s := NewSelector()
	s.Select(7, "Orientation Day")

	sel, ok := s.Active()
	assert.True(t, ok)
	assert.Equal(t, Selection{ID: 7, Name: "Orientation Day"}, sel)

	// A later selection replaces the earlier one.
	s.Select(9, "Tech Fest")
	sel, ok = s.Active()
	assert.True(t, ok)
	assert.Equal(t, uint64(9), sel.ID)
}

func TestClearIf(t *testing.T) {
	s := NewSelector()
	s.Select(7, "Orientation Day")

	// Deleting a different event leaves the selection alone.
	assert.False(t, s.ClearIf(8))
	_, ok := s.Active()
	assert.True(t, ok)

	// Deleting the selected event clears it.
	assert.True(t, s.ClearIf(7))
	_, ok = s.Active()
	assert.False(t, ok)

	// Clearing an empty selector is a no-op.
	assert.False(t, s.ClearIf(7))
}

func TestClear(t *testing.T) {
	s := NewSelector()
	s.Select(3, "Alumni Meet")
	s.Clear()
	_, ok := s.Active()
	assert.False(t, ok)
}
