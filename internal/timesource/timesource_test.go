package timesource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestAutonomousClock_AdvancesWithWallClock(t *testing.T) {
	fc := &fakeClock{t: time.Unix(1000, 0)}
	c := NewAutonomousClock(fc)
	c.Reset(5.0)

	now, ok := c.GetTime()
	assert.True(t, ok)
	assert.Equal(t, 5.0, now)

	fc.t = fc.t.Add(2500 * time.Millisecond)
	now, ok = c.GetTime()
	assert.True(t, ok)
	assert.InDelta(t, 7.5, now, 1e-9)
}

func TestAutonomousClock_NotRunningReturnsNoReading(t *testing.T) {
	c := NewAutonomousClock(SystemClock)
	_, ok := c.GetTime()
	assert.False(t, ok)
}

func TestAutonomousClock_Stop(t *testing.T) {
	fc := &fakeClock{t: time.Unix(0, 0)}
	c := NewAutonomousClock(fc)
	c.Reset(0)
	c.Stop()
	_, ok := c.GetTime()
	assert.False(t, ok)
}

func TestExternalSource_NoReadingUntilUpdate(t *testing.T) {
	e := NewExternalSource("chan1/time", false)
	_, ok := e.GetTime()
	assert.False(t, ok)

	e.Update("chan1/time", 5.0)
	v, ok := e.GetTime()
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestExternalSource_LenientSuffixMatch(t *testing.T) {
	e := NewExternalSource("expected/time", false)
	e.Update("other/channel/time", 9.0)
	v, ok := e.GetTime()
	assert.True(t, ok)
	assert.Equal(t, 9.0, v)
}

func TestExternalSource_StrictMatchRejectsOtherAddresses(t *testing.T) {
	e := NewExternalSource("expected/time", true)
	e.Update("other/channel/time", 9.0)
	_, ok := e.GetTime()
	assert.False(t, ok)

	e.Update("expected/time", 3.0)
	v, ok := e.GetTime()
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestExternalSource_Clear(t *testing.T) {
	e := NewExternalSource("x/time", false)
	e.Update("x/time", 1.0)
	e.Clear()
	_, ok := e.GetTime()
	assert.False(t, ok)
}
