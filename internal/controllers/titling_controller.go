package controllers

import (
	"errors"
	"os"

	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/broadcastlabs/op47titler/internal/scheduler"
	"github.com/broadcastlabs/op47titler/internal/segmenter"
	"github.com/broadcastlabs/op47titler/internal/timesource"
	"github.com/broadcastlabs/op47titler/internal/vtt"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// TitlingControllerParams groups the two TimeSource implementations
// the same way DonutEngineController groups its probers/streamers.
type TitlingControllerParams struct {
	fx.In
	TimeSources []timesource.TimeSource `group:"timesources"`
}

// TitlingController orchestrates a load request end-to-end: read the
// VTT file, segment its cues, select a time source for the requested
// mode, and hand the segment sequence to the scheduler.
type TitlingController struct {
	l         *zap.SugaredLogger
	segmenter *segmenter.Segmenter
	scheduler *scheduler.Scheduler
	p         TitlingControllerParams
}

func NewTitlingController(
	l *zap.SugaredLogger,
	seg *segmenter.Segmenter,
	sched *scheduler.Scheduler,
	p TitlingControllerParams,
) *TitlingController {
	return &TitlingController{
		l:         l,
		segmenter: seg,
		scheduler: sched,
		p:         p,
	}
}

// Load reads vttPath, segments its cues, and starts the scheduler
// against the time source for mode. startAt seeds the autonomous
// clock's VTT-relative origin; it is ignored in external mode.
func (c *TitlingController) Load(vttPath string, mode entities.TimeMode, startAt float64) (cues []entities.Cue, segments []entities.Segment, err error) {
	f, err := os.Open(vttPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, entities.ErrVTTFileNotFound
		}
		return nil, nil, entities.ErrVTTFileUnreadable
	}
	defer f.Close()

	cues, err = vtt.ParseCues(f)
	if err != nil {
		return nil, nil, entities.ErrVTTFileUnreadable
	}

	segments = c.segmenter.SegmentAll(cues)

	source, err := c.timeSourceFor(mode, startAt)
	if err != nil {
		return nil, nil, err
	}

	c.l.Infow("loading titling request",
		"vttPath", vttPath, "cues", len(cues), "segments", len(segments), "timeMode", mode,
	)
	c.scheduler.Load(segments, source)
	return cues, segments, nil
}

// Stop halts the scheduler, dispatching a final clear command.
func (c *TitlingController) Stop() {
	c.scheduler.Stop()
}

// selectSourceFor mirrors DonutEngineController.selectProberFor: the
// first registered TimeSource whose Mode matches wins.
//
// TODO: try to use generics
func (c *TitlingController) selectSourceFor(mode entities.TimeMode) timesource.TimeSource {
	for _, s := range c.p.TimeSources {
		if s.Mode() == mode {
			return s
		}
	}
	return nil
}

func (c *TitlingController) timeSourceFor(mode entities.TimeMode, startAt float64) (timesource.Source, error) {
	source := c.selectSourceFor(mode)
	if source == nil {
		return nil, entities.ErrNoTimeSourceForMode
	}

	switch s := source.(type) {
	case *timesource.AutonomousClock:
		s.Reset(startAt)
	case *timesource.ExternalSource:
		s.Clear()
	}
	return source, nil
}
