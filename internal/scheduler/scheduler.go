// Package scheduler drives title show/hide decisions from an ordered
// segment sequence against a pluggable time source, per spec.md §4.5.
package scheduler

import (
	"math"
	"sync"
	"time"

	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/broadcastlabs/op47titler/internal/timesource"
	"go.uber.org/zap"
)

// Dispatcher is the scheduler's single outbound capability: showing a
// title's lines, or clearing whatever is currently on-screen.
type Dispatcher interface {
	ShowTitle(lines []string) error
	ClearTitle() error
}

// Scheduler is the process-wide, single-threaded state machine
// mapping the current time into show/clear commands. All mutation is
// serialized by tickMu; ticks never run concurrently with a Load/Stop.
type Scheduler struct {
	log        *zap.SugaredLogger
	dispatcher Dispatcher

	tickInterval time.Duration
	hangWindow   time.Duration

	tickMu sync.Mutex
	ticker *time.Ticker
	stopCh chan struct{}

	segments       []entities.Segment
	lastShownIndex int
	timeSource     timesource.Source
}

func New(log *zap.SugaredLogger, dispatcher Dispatcher, tickInterval, hangWindow time.Duration) *Scheduler {
	return &Scheduler{
		log:            log,
		dispatcher:     dispatcher,
		tickInterval:   tickInterval,
		hangWindow:     hangWindow,
		lastShownIndex: -1,
	}
}

// Load replaces the segment sequence, resets last_shown_index, adopts
// the given time source, and starts the tick timer (no-op if already
// running).
func (s *Scheduler) Load(segments []entities.Segment, source timesource.Source) {
	s.tickMu.Lock()
	s.segments = segments
	s.lastShownIndex = -1
	s.timeSource = source
	s.tickMu.Unlock()

	s.start()
}

// Stop stops the tick timer, clears the title, and resets
// last_shown_index, dispatching a single clear command even if no
// segment was currently shown.
func (s *Scheduler) Stop() {
	s.tickMu.Lock()
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stopCh)
		s.ticker = nil
	}
	s.segments = nil
	s.lastShownIndex = -1
	s.tickMu.Unlock()

	if err := s.dispatcher.ClearTitle(); err != nil {
		s.log.Errorw("failed to dispatch clear on stop", "error", err)
	}
}

func (s *Scheduler) start() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.tickInterval)
	s.stopCh = make(chan struct{})
	ticker := s.ticker
	stopCh := s.stopCh
	go func() {
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Tick runs one iteration of the algorithm in spec.md §4.5. It is
// exported so tests can drive the state machine deterministically
// without waiting on the wall clock.
func (s *Scheduler) Tick() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	if s.timeSource == nil {
		return
	}
	t, ok := s.timeSource.GetTime()
	if !ok {
		return
	}

	if len(s.segments) == 0 {
		if s.lastShownIndex >= 0 {
			s.dispatchClear()
		}
		return
	}

	cur := s.findCovering(t)
	if cur >= 0 {
		if cur != s.lastShownIndex {
			s.dispatchShow(cur)
		}
		return
	}

	gap := s.gapToNext(t)
	if s.lastShownIndex >= 0 && gap > s.hangWindow.Seconds() {
		s.dispatchClear()
	}
}

func (s *Scheduler) findCovering(t float64) int {
	for i, seg := range s.segments {
		if t >= seg.StartS && t < seg.EndS {
			return i
		}
	}
	return -1
}

func (s *Scheduler) gapToNext(t float64) float64 {
	gap := math.Inf(1)
	for _, seg := range s.segments {
		if seg.StartS > t && seg.StartS-t < gap {
			gap = seg.StartS - t
		}
	}
	return gap
}

func (s *Scheduler) dispatchShow(index int) {
	if err := s.dispatcher.ShowTitle(s.segments[index].Lines); err != nil {
		s.log.Errorw("failed to dispatch title", "error", err, "index", index)
		return
	}
	s.lastShownIndex = index
}

func (s *Scheduler) dispatchClear() {
	if err := s.dispatcher.ClearTitle(); err != nil {
		s.log.Errorw("failed to dispatch clear", "error", err)
		return
	}
	s.lastShownIndex = -1
}

// LastShownIndex reports the current last_shown_index, for tests.
func (s *Scheduler) LastShownIndex() int {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.lastShownIndex
}
