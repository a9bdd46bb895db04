package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_PinsAndAdvances(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now(), "repeated reads do not drift")

	c.Advance(48 * time.Hour)
	assert.Equal(t, start.Add(48*time.Hour), c.Now())

	later := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}
