package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupByDestinationName(t *testing.T) {
	set, ok := Lookup("Dubai")
	require.True(t, ok)
	assert.Equal(t, "AED", set.Currency)
	assert.NotEmpty(t, set.Items)
	assert.NotEmpty(t, set.Notes)
}

func TestLookupMatchesInsideQueryText(t *testing.T) {
	set, ok := Lookup("dubai attraction tickets cost price")
	require.True(t, ok)
	assert.Equal(t, "dubai", set.Destination)
}

func TestLookupUnknownDestination(t *testing.T) {
	_, ok := Lookup("Atlantis")
	assert.False(t, ok)
}

func TestSeedDataShape(t *testing.T) {
	set, ok := Lookup("dubai")
	require.True(t, ok)

	days := make(map[int]bool)
	for _, item := range set.Items {
		assert.NotEmpty(t, item.Activity)
		assert.GreaterOrEqual(t, item.ApproxCost, 0.0)
		assert.GreaterOrEqual(t, item.Day, 1)
		days[item.Day] = true
	}
	// Every day up to the longest supported trip has at least one entry,
	// so fallback plans can cover any valid day count.
	for day := 1; day <= 7; day++ {
		assert.True(t, days[day], "missing seed data for day %d", day)
	}
}
