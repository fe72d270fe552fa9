package clock_test

import (
	"testing"
	"time"

	"github.com/socialfolio/folio/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestSystemReturnsUTC(t *testing.T) {
	t.Parallel()

	now := clock.System{}.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestManual(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewManual(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())

	later := time.Date(2024, 4, 1, 0, 0, 0, 0, time.FixedZone("EST", -5*3600))
	c.Set(later)
	assert.True(t, later.Equal(c.Now()))
	assert.Equal(t, time.UTC, c.Now().Location())
}
