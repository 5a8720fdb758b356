// Package timesource provides the scheduler's two clock
// implementations: an autonomous monotonic clock seeded from a VTT
// origin, and an external time source fed by timecode datagrams.
package timesource

import (
	"strings"
	"time"

	"github.com/broadcastlabs/op47titler/internal/entities"
)

// Source is the single capability the scheduler depends on: a
// pull-style reading that may be absent (e.g. before any timecode has
// arrived on an external feed).
type Source interface {
	GetTime() (seconds float64, ok bool)
}

// TimeSource is a Source tagged with the mode it serves, so a
// provider group can be selected by mode the same way donut's
// prober/streamer groups are selected by request.
type TimeSource interface {
	Source
	Mode() entities.TimeMode
}

// Clock abstracts wall-clock reads so AutonomousClock is testable
// without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production Clock, backed by time.Now.
var SystemClock Clock = systemClock{}

// AutonomousClock derives the current VTT-relative time from wall
// clock elapsed since an origin, per spec.md §4.5.
type AutonomousClock struct {
	clock        Clock
	originVTTs   float64
	originWallAt time.Time
	running      bool
}

func NewAutonomousClock(clock Clock) *AutonomousClock {
	return &AutonomousClock{clock: clock}
}

// Reset seeds the clock at originVTTs, starting the wall-clock
// reference at the current time.
func (a *AutonomousClock) Reset(originVTTs float64) {
	a.originVTTs = originVTTs
	a.originWallAt = a.clock.Now()
	a.running = true
}

// Stop marks the clock as not running; GetTime returns ok=false.
func (a *AutonomousClock) Stop() {
	a.running = false
}

func (a *AutonomousClock) GetTime() (float64, bool) {
	if !a.running {
		return 0, false
	}
	elapsed := a.clock.Now().Sub(a.originWallAt).Seconds()
	return a.originVTTs + elapsed, true
}

func (a *AutonomousClock) Mode() entities.TimeMode { return entities.TimeModeAutonomous }

// ExternalSource holds the latest reading received from an external
// timecode feed. Multiple logical channels may deliver readings to
// the same process; an address whose suffix is "/time" is accepted,
// unless StrictMatch requires an exact match against Address.
type ExternalSource struct {
	Address     string
	StrictMatch bool

	hasReading bool
	lastValue  float64
}

func NewExternalSource(address string, strictMatch bool) *ExternalSource {
	return &ExternalSource{Address: address, StrictMatch: strictMatch}
}

// Accepts reports whether a timecode datagram delivered to addr
// should update this source's reading.
func (e *ExternalSource) Accepts(addr string) bool {
	if e.StrictMatch {
		return addr == e.Address
	}
	return strings.HasSuffix(addr, "/time")
}

// Update records a new reading if addr is accepted; it is a no-op
// (silently dropped) otherwise.
func (e *ExternalSource) Update(addr string, seconds float64) {
	if !e.Accepts(addr) {
		return
	}
	e.lastValue = seconds
	e.hasReading = true
}

// Clear discards the latest reading, returning GetTime to ok=false
// until the next Update.
func (e *ExternalSource) Clear() {
	e.hasReading = false
}

func (e *ExternalSource) GetTime() (float64, bool) {
	if !e.hasReading {
		return 0, false
	}
	return e.lastValue, true
}

func (e *ExternalSource) Mode() entities.TimeMode { return entities.TimeModeExternal }
